// Package session supplies the opaque session identity used to scope trip
// fetch and approve calls.
package session

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const sessionFileName = "session_id"

// Provider yields the current session token, or "" when none exists.
type Provider interface {
	SessionID() string
}

// Static is a fixed-token Provider, mainly for tests and embedding hosts that
// manage their own identity.
type Static string

// SessionID returns the fixed token.
func (s Static) SessionID() string { return string(s) }

// FileProvider persists a generated session token under the user config
// directory so the widget can recover a pending trip from a prior session.
type FileProvider struct {
	mu    sync.Mutex
	dir   string // overrides the default config dir when set
	token string
}

// NewFileProvider returns a provider storing its token in dir. An empty dir
// selects the default config location.
func NewFileProvider(dir string) *FileProvider {
	return &FileProvider{dir: dir}
}

// SessionID returns the persisted token, creating one on first use. Returns
// "" only if the token can be neither read nor created.
func (p *FileProvider) SessionID() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" {
		return p.token
	}

	path, err := p.tokenPath()
	if err != nil {
		return ""
	}

	if data, err := os.ReadFile(path); err == nil {
		token := strings.TrimSpace(string(data))
		if token != "" {
			p.token = token
			return token
		}
	}

	token := uuid.NewString()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return ""
	}
	if err := os.WriteFile(path, []byte(token), 0600); err != nil {
		return ""
	}
	p.token = token
	return token
}

// Reset discards the persisted token so the next SessionID call mints a fresh
// one. Used when the user explicitly starts over.
func (p *FileProvider) Reset() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.token = ""
	path, err := p.tokenPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (p *FileProvider) tokenPath() (string, error) {
	dir := p.dir
	if dir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(configDir, "lumine")
	}
	return filepath.Join(dir, sessionFileName), nil
}

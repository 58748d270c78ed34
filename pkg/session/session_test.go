package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStatic(t *testing.T) {
	if got := Static("fixed-token").SessionID(); got != "fixed-token" {
		t.Errorf("SessionID() = %q", got)
	}
}

func TestFileProviderMintsAndPersists(t *testing.T) {
	dir := t.TempDir()
	p := NewFileProvider(dir)

	token := p.SessionID()
	if token == "" {
		t.Fatal("expected a token")
	}
	if p.SessionID() != token {
		t.Error("repeated calls should return the same token")
	}

	// A fresh provider over the same directory recovers the token.
	if got := NewFileProvider(dir).SessionID(); got != token {
		t.Errorf("recovered token %q, want %q", got, token)
	}

	data, err := os.ReadFile(filepath.Join(dir, sessionFileName))
	if err != nil {
		t.Fatalf("token file missing: %v", err)
	}
	if string(data) != token {
		t.Errorf("persisted %q, want %q", data, token)
	}
}

func TestFileProviderReset(t *testing.T) {
	dir := t.TempDir()
	p := NewFileProvider(dir)

	first := p.SessionID()
	if err := p.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	second := p.SessionID()
	if second == "" || second == first {
		t.Errorf("expected a fresh token after reset, got %q (was %q)", second, first)
	}
}

func TestFileProviderResetWithoutToken(t *testing.T) {
	p := NewFileProvider(t.TempDir())
	if err := p.Reset(); err != nil {
		t.Errorf("reset with no token should succeed, got %v", err)
	}
}

package lumine

import (
	"context"
	"flag"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/lumine-ai/widget/pkg/api"
	"github.com/lumine-ai/widget/pkg/config"
)

func handleServeCommand(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	port := fs.Int("port", 0, "port to listen on (overrides config)")
	configPath := fs.String("config", "", "path to config.yaml")
	publicURL := fs.String("public-url", "", "externally visible base URL (overrides config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadServerConfig(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *publicURL != "" {
		cfg.PublicURL = *publicURL
	}
	if cfg.PublicURL == "" {
		cfg.PublicURL = fmt.Sprintf("http://localhost:%d", cfg.Port)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := api.NewServer(cfg.Port, cfg.PublicURL, cfg.Branding)
	return server.Run(ctx)
}

// Package chat parses chat command flags and composes transport entrypoints.
package chat

import (
	"context"
	"flag"
	"fmt"

	entrypoint "github.com/vmoranv/aolastar/internal/platform/cmd"
	server "github.com/vmoranv/aolastar/internal/services/chat/app"
	"github.com/vmoranv/aolastar/internal/services/aolastar/app"
)

// Config holds chat command configuration.
type Config struct {
	app.Config
	HTTPAddr   string `env:"AOLASTAR_CHAT_HTTP_ADDR" envDefault:":8086"`
	HealthAddr string `env:"AOLASTAR_HEALTH_ADDR"    envDefault:":8087"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	cfg.RegisterFlags(fs)
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "chat HTTP listen address")
	fs.StringVar(&cfg.HealthAddr, "health-addr", cfg.HealthAddr, "gRPC health listen address (empty disables)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run builds the query stack and serves the chat transport.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceChat, func(context.Context) error {
		stack, err := app.New(cfg.Config)
		if err != nil {
			return err
		}
		if err := server.Run(ctx, server.Config{
			HTTPAddr:   cfg.HTTPAddr,
			HealthAddr: cfg.HealthAddr,
			Commands:   stack.Commands,
		}); err != nil {
			return fmt.Errorf("serve chat: %w", err)
		}
		return nil
	})
}

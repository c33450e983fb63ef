// Package mcp parses MCP command flags and selects stdio or HTTP transport.
package mcp

import (
	"context"
	"flag"

	entrypoint "github.com/vmoranv/aolastar/internal/platform/cmd"
	"github.com/vmoranv/aolastar/internal/services/aolastar/app"
	mcpservice "github.com/vmoranv/aolastar/internal/services/mcp/service"
)

// Config holds MCP command configuration.
type Config struct {
	app.Config
	HTTPAddr  string `env:"AOLASTAR_MCP_HTTP_ADDR" envDefault:"localhost:8088"`
	Transport string `env:"AOLASTAR_MCP_TRANSPORT" envDefault:"stdio"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	cfg.RegisterFlags(fs)
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for HTTP transport)")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio or http")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP protocol adapter.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMCP, func(context.Context) error {
		stack, err := app.New(cfg.Config)
		if err != nil {
			return err
		}
		return mcpservice.Run(ctx, mcpservice.Config{
			Transport: mcpservice.TransportKind(cfg.Transport),
			HTTPAddr:  cfg.HTTPAddr,
			Commands:  stack.Commands,
		})
	})
}

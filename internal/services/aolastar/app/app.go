// Package app composes the aolastar query stack from runtime settings.
package app

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/vmoranv/aolastar/internal/platform/config"
	"github.com/vmoranv/aolastar/internal/services/aolastar/backend"
	"github.com/vmoranv/aolastar/internal/services/aolastar/commands"
	"github.com/vmoranv/aolastar/internal/services/aolastar/domain"
	"github.com/vmoranv/aolastar/internal/services/aolastar/render"
)

// APIBaseURLEnv names the variable operators set for the backend address.
const APIBaseURLEnv = "AOLASTAR_API_BASE_URL"

// Config holds the settings shared by every aolastar runtime.
type Config struct {
	APIBaseURL        string        `env:"AOLASTAR_API_BASE_URL"`
	RequestTimeout    time.Duration `env:"AOLASTAR_REQUEST_TIMEOUT"     envDefault:"30s"`
	PacketsTTL        time.Duration `env:"AOLASTAR_PACKETS_TTL"         envDefault:"10m"`
	AttributesTTL     time.Duration `env:"AOLASTAR_ATTRIBUTES_TTL"      envDefault:"1h"`
	RelationsTTL      time.Duration `env:"AOLASTAR_RELATIONS_TTL"       envDefault:"30m"`
	PageSize          int           `env:"AOLASTAR_PAGE_SIZE"           envDefault:"20"`
	FontPath          string        `env:"AOLASTAR_FONT_PATH"`
	SearchSystemFonts bool          `env:"AOLASTAR_SEARCH_SYSTEM_FONTS" envDefault:"true"`
	Locale            string        `env:"AOLASTAR_LOCALE"              envDefault:"zh-Hans"`
	// Logf defaults to log.Printf.
	Logf func(string, ...any)
}

// RegisterFlags binds the command-line overrides shared by every runtime.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.APIBaseURL, "api-base-url", c.APIBaseURL, "game data backend base URL")
	fs.DurationVar(&c.RequestTimeout, "request-timeout", c.RequestTimeout, "backend request timeout")
	fs.IntVar(&c.PageSize, "page-size", c.PageSize, "packets per page")
	fs.StringVar(&c.FontPath, "font-path", c.FontPath, "TrueType/OpenType font for relation images")
	fs.StringVar(&c.Locale, "locale", c.Locale, "reply locale (zh-Hans or en-US)")
}

// App is one wired query stack.
type App struct {
	Backend  *backend.Client
	Service  *domain.Service
	Renderer *render.Renderer
	Commands *commands.Handler
}

// New builds the backend client, query engine, renderer and command handler.
// A missing base URL fails with CONFIGURATION_MISSING.
func New(cfg Config) (*App, error) {
	logf := cfg.Logf
	if logf == nil {
		logf = log.Printf
	}
	if err := config.RequireString(APIBaseURLEnv, cfg.APIBaseURL); err != nil {
		return nil, err
	}

	client, err := backend.NewClient(cfg.APIBaseURL,
		backend.WithTimeout(cfg.RequestTimeout),
		backend.WithLogf(logf),
	)
	if err != nil {
		return nil, fmt.Errorf("new backend client: %w", err)
	}

	service := domain.NewService(client, domain.Stores{}, domain.Config{
		PageSize:      cfg.PageSize,
		PacketsTTL:    cfg.PacketsTTL,
		AttributesTTL: cfg.AttributesTTL,
		RelationsTTL:  cfg.RelationsTTL,
		Logf:          logf,
	})

	renderer, err := render.New(render.Options{
		FontPath:          cfg.FontPath,
		SearchSystemFonts: cfg.SearchSystemFonts,
		Logf:              logf,
	})
	if err != nil {
		return nil, fmt.Errorf("new renderer: %w", err)
	}

	handler := commands.NewHandler(service, renderer, commands.Options{
		Locale: cfg.Locale,
		Logf:   logf,
	})
	logf("aolastar backend at %s, page size %d, font %s", client.BaseURL(), service.PageSize(), renderer.FontSource())

	return &App{
		Backend:  client,
		Service:  service,
		Renderer: renderer,
		Commands: handler,
	}, nil
}

package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/shotflow/internal/ai"
	"github.com/shotflow/internal/ai/langchain"
	"github.com/shotflow/internal/api"
	"github.com/shotflow/internal/billing"
	"github.com/shotflow/internal/config"
	"github.com/shotflow/internal/database"
)

// ServeCommand returns the CLI command for starting the API server
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the Shotflow API server",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port for the API server (overrides config)",
			},
		},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	port := cfg.Server.Port
	if c.IsSet("port") {
		port = c.Int("port")
	}

	db, err := database.NewDB(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	registry := buildRegistry(c.Context, cfg)

	billingService := billing.NewService(db, billing.Credentials{
		Mode:      cfg.Billing.Mode,
		KeyID:     cfg.Billing.KeyID,
		KeySecret: cfg.Billing.KeySecret,
	})

	server := api.NewServer(api.Options{
		Port:          port,
		JWTSecret:     cfg.Auth.JWTSecret,
		Registry:      registry,
		DB:            db,
		Billing:       billingService,
		WebhookSecret: cfg.Billing.WebhookSecret,
	})

	log.Info().Int("port", port).Msg("Starting Shotflow API server")
	return server.Start()
}

// buildRegistry constructs every configured completion provider once at
// startup. A provider whose construction fails (usually a missing
// credential) is skipped: resolving it at request time then yields the
// single "not configured" failure path instead of a per-call surprise.
func buildRegistry(ctx context.Context, cfg *config.Config) *ai.Registry {
	registry := ai.NewRegistry(cfg.General.DefaultAI)

	for name, settings := range cfg.AI {
		opts := providerOptions(name, settings)
		provider, err := langchain.New(ctx, opts)
		if err != nil {
			log.Warn().Err(err).Str("provider", name).Msg("Skipping completion provider")
			continue
		}
		registry.Register(provider)
		log.Info().Str("provider", name).Str("kind", string(opts.Kind)).Msg("Registered completion provider")
	}

	return registry
}

func providerOptions(name string, settings map[string]interface{}) langchain.Options {
	opts := langchain.Options{Name: name}

	if kind, ok := settings["kind"].(string); ok {
		opts.Kind = langchain.Kind(kind)
	} else {
		// The provider id doubles as the kind when not stated
		opts.Kind = langchain.Kind(name)
	}
	if apiKey, ok := settings["api_key"].(string); ok {
		opts.APIKey = apiKey
	}
	if baseURL, ok := settings["base_url"].(string); ok {
		opts.BaseURL = baseURL
	}
	if model, ok := settings["model"].(string); ok {
		opts.Model = model
	}
	if temperature, ok := settings["temperature"].(float64); ok {
		opts.Temperature = temperature
	}
	if maxTokens, ok := settings["max_tokens"].(float64); ok { // TOML/JSON numbers decode as float64
		opts.MaxTokens = int(maxTokens)
	} else if maxTokens, ok := settings["max_tokens"].(int64); ok {
		opts.MaxTokens = int(maxTokens)
	}

	return opts
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smallnest/tripgraph/config"
	"github.com/smallnest/tripgraph/llm"
	"github.com/smallnest/tripgraph/log"
	"github.com/smallnest/tripgraph/planner"
	"github.com/smallnest/tripgraph/session"
	"github.com/smallnest/tripgraph/tools"
)

var rootCmd = &cobra.Command{
	Use:   "tripgraph",
	Short: "Tripgraph is an LLM-driven trip planning assistant",
	Long: `Tripgraph classifies a free-text travel query, runs the required
flight, hotel, weather and activity searches concurrently, and synthesizes
an itinerary or a direct answer.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the YAML config file")
}

// loadConfig reads the --config file, or the defaults when none is given.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// newPlanner assembles the planner from the configuration: model client,
// mock search backends and the selected session store.
func newPlanner(ctx context.Context, cfg config.Config) (*planner.Planner, error) {
	log.SetLogLevel(log.ParseLevel(cfg.LogLevel))

	var llmOpts []llm.Option
	if cfg.OpenAI.APIKey != "" {
		llmOpts = append(llmOpts, llm.WithAPIKey(cfg.OpenAI.APIKey))
	}
	if cfg.OpenAI.BaseURL != "" {
		llmOpts = append(llmOpts, llm.WithBaseURL(cfg.OpenAI.BaseURL))
	}
	if cfg.OpenAI.Model != "" {
		llmOpts = append(llmOpts, llm.WithModel(cfg.OpenAI.Model))
	}
	model, err := llm.New(llmOpts...)
	if err != nil {
		return nil, err
	}

	store, err := newSessionStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	collab := planner.Collaborators{
		Flights:    tools.NewFlightService(cfg.Planner.Seed),
		Hotels:     tools.NewHotelService(cfg.Planner.Seed + 1),
		Weather:    tools.NewWeatherService(cfg.Planner.Seed + 2),
		Activities: tools.NewActivityService(cfg.Planner.Seed + 3),
	}

	opts := []planner.Option{planner.WithSessionStore(store)}
	if cfg.Planner.CallTimeout > 0 {
		opts = append(opts, planner.WithCallTimeout(cfg.Planner.CallTimeout))
	}
	return planner.New(model, collab, opts...)
}

func newSessionStore(ctx context.Context, cfg config.StoreConfig) (planner.SessionStore, error) {
	switch cfg.Type {
	case "", "memory":
		return session.NewMemoryStore(), nil
	case "sqlite":
		return session.NewSQLiteStore(session.SQLiteOptions{Path: cfg.SQLitePath})
	case "redis":
		return session.NewRedisStore(ctx, session.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	case "postgres":
		return session.NewPostgresStore(ctx, session.PostgresOptions{ConnString: cfg.PostgresDSN})
	default:
		return nil, fmt.Errorf("unknown store type %q", cfg.Type)
	}
}

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmoreno/storyquiz/internal/config"
	"github.com/dmoreno/storyquiz/internal/jobstatus"
	"github.com/dmoreno/storyquiz/internal/llm"
	"github.com/dmoreno/storyquiz/internal/logging"
	"github.com/dmoreno/storyquiz/internal/questgen"
	"github.com/dmoreno/storyquiz/internal/service"
	"github.com/dmoreno/storyquiz/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "storyquiz",
	Short: "Mastery tracking and AI question generation for story-based curricula",
	Long: "Storyquiz tracks a learner's mastery over an Objective → Story → Criterion →\n" +
		"Question hierarchy and generates new multiple-choice questions per criterion\n" +
		"by prompting a text-generation service.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides STORYQUIZ_DB env var)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(storiesCmd)
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(attemptCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}

// app bundles everything a command needs.
type app struct {
	cfg     *config.Config
	store   *store.Store
	service *service.Service
}

func (a *app) Close() error {
	a.service.Wait()
	return a.store.Close()
}

// newApp loads config and wires the service stack for a command invocation.
func newApp(cmd *cobra.Command) (*app, error) {
	explicit, _ := cmd.Flags().GetString("config")
	path, err := config.ResolveConfigPath(explicit)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	logger := logging.New(cfg.Logging.Level)

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	provider, err := llm.NewProvider(ctx, cfg.LLMConfig(), logger)
	if err != nil {
		st.Close()
		return nil, err
	}

	fileStore, err := jobstatus.NewFileStore(cfg.StatusDir())
	if err != nil {
		st.Close()
		return nil, err
	}
	tracker := jobstatus.NewTracker(fileStore, cfg.JobTimeout())

	worker := questgen.NewWorker(provider, st, st, cfg.GenerationConfig(), logger)
	orch := questgen.NewOrchestrator(st, worker, tracker, logger)

	svc := service.New(st, tracker, orch, logger)
	if err := svc.Bootstrap(ctx, cfg.User.Email, cfg.User.Name); err != nil {
		st.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &app{cfg: cfg, store: st, service: svc}, nil
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then the config file, then STORYQUIZ_DB / the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.Database.Path != "" {
		return cfg.Database.Path, store.EnsureDir(cfg.Database.Path)
	}
	return store.DefaultDBPath()
}

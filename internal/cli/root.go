// Package cli holds the verben command line: the API server and the
// maintenance commands that share its configuration.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/config"
	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/infrastructure"
	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/logging"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "verben",
	Short: "German verbs with prepositions",
	Long: `verben serves the German verbs API and maintains its database:
schema migrations, bulk imports from JSON seed files and user accounts.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "verben.yaml", "YAML config file (optional)")

	rootCmd.AddGroup(
		&cobra.Group{ID: "server", Title: "Server Commands:"},
		&cobra.Group{ID: "data", Title: "Data Commands:"},
	)
	rootCmd.SetHelpCommandGroupID("server")
	rootCmd.SetCompletionCommandGroupID("server")
}

// app is what every command that touches the database needs.
type app struct {
	cfg         *config.Config
	logger      *slog.Logger
	db          *infrastructure.DB
	collections *infrastructure.Collections
}

// openApp loads the config, builds the logger and connects to the database.
// serving selects the full validation the HTTP server needs.
func openApp(ctx context.Context, serving bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	validate := cfg.ValidateStorage
	if serving {
		validate = cfg.Validate
	}
	if err := validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logger, err := logging.New(cfg.Logging, logOutput(serving))
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	db, err := infrastructure.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, db: db, collections: infrastructure.NewCollections()}, nil
}

// logOutput keeps stdout free for the reports of the data commands.
func logOutput(serving bool) io.Writer {
	if serving {
		return os.Stdout
	}
	return os.Stderr
}

func (a *app) migrate(ctx context.Context) error {
	if err := a.db.Migrate(ctx, a.collections); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", slog.Any("err", err))
	}
}

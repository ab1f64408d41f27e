package cli

import (
	"fmt"
	"log/slog"

	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/seed"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:     "migrate",
	Short:   "Create every table, including all letter shards",
	GroupID: "data",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.migrate(cmd.Context()); err != nil {
			return err
		}
		a.logger.Info("database migrated", slog.Int("tables", len(a.collections.All())))
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Import verbs, translations, conjugations and sentences from JSON files",
	Long: `Walks --dir for seed files and imports them kind by kind:

  verbs_<letter>.json
  translations_<letter>_<lang>.json
  conjugations_<letter>_<tense>.json
  sentences_<letter>_<tense>.json

Records that name an unknown verb are skipped. A malformed file stops the import.`,
	GroupID: "data",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		// a dry run never touches the database
		if !dryRun {
			if err := a.migrate(cmd.Context()); err != nil {
				return err
			}
		}

		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			dir = a.cfg.Seed.Dir
		}
		workers, _ := cmd.Flags().GetInt("workers")
		if workers <= 0 {
			workers = a.cfg.GetSeedWorkers()
		}
		drop, _ := cmd.Flags().GetBool("drop")

		report, err := seed.NewImporter(a.db, a.collections, a.logger).Run(cmd.Context(), dir, seed.Options{
			Drop:    drop,
			DryRun:  dryRun,
			Workers: workers,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, kind := range seed.Phases {
			fmt.Fprintf(out, "%-13s %d files\n", kind, report.Files[kind])
		}
		verb := "imported"
		if dryRun {
			verb = "valid"
		}
		fmt.Fprintf(out, "%s: %d records, skipped: %d\n", verb, report.Inserted, report.Skipped)
		if !dryRun {
			fmt.Fprintf(out, "verbs stored: %d\n", report.Total)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().String("dir", "", "directory with seed files (default from config)")
	seedCmd.Flags().Bool("drop", false, "empty the verb tables before importing")
	seedCmd.Flags().Bool("dry-run", false, "parse and validate only")
	seedCmd.Flags().IntP("workers", "w", 0, "files imported concurrently (default from config)")
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/signup/internal/config"
	"github.com/zjrosen/signup/internal/infrastructure/sqlite"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the local SQLite registry",
	Long: `Apply pending schema migrations to the SQLite registry at sqlite.path.
An existing database is copied to <path>.bak first. Only meaningful with
backend "sqlite"; the hosted table is managed by the service.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cfg.Backend != config.BackendSQLite {
			return fmt.Errorf("migrate needs backend %q, configured backend is %q", config.BackendSQLite, cfg.Backend)
		}
		if cfg.SQLite.Path == "" {
			return fmt.Errorf("sqlite.path is not set")
		}

		db, err := sqlite.NewDB(cfg.SQLite.Path)
		if err != nil {
			return err
		}
		defer db.Close()

		version, dirty, err := db.SchemaVersion(cmd.Context())
		if err != nil {
			return err
		}
		status := "clean"
		if dirty {
			status = "dirty"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: schema version %d (%s)\n", db.Path(), version, status)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

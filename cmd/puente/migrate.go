package main

import (
	"errors"
	"log"

	"github.com/spf13/cobra"

	"puente-backend/internal/shared/storage/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply preference-store migrations",
	Long: `migrate applies the embedded migrations to the configured preference
store: PostgreSQL when DATABASE_URL is set or PREFS_STORE=postgres, the SQLite
file at SQLITE_PATH when PREFS_STORE=sqlite.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		ctx := cmd.Context()
		opts := db.OptionsFromEnv(db.DefaultMigrateOptions())

		switch cfg.PrefsStore {
		case "postgres":
			sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
			if err != nil {
				return err
			}
			defer sqlDB.Close()
			if err := db.RunMigrations(ctx, sqlDB, db.DialectPostgres); err != nil {
				return err
			}
		case "sqlite":
			sqlDB, err := db.OpenSQLite(ctx, cfg.SQLitePath, opts)
			if err != nil {
				return err
			}
			defer sqlDB.Close()
			if err := db.RunMigrations(ctx, sqlDB, db.DialectSQLite); err != nil {
				return err
			}
		default:
			return errors.New("no durable preference store configured (set DATABASE_URL or PREFS_STORE=sqlite)")
		}
		log.Printf("migrations applied (%s)", cfg.PrefsStore)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

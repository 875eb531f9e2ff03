package main

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"qaboard/internal/database"
	"qaboard/internal/scheduler"
	"qaboard/internal/store"
	"qaboard/internal/weekly"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Run database migrations.

Subcommands:
  up      - Apply pending migrations
  down    - Roll back the most recent migration
  status  - Print the current schema version`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(cmd, func(db *sql.DB) error {
			return database.Migrate(db)
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(cmd, func(db *sql.DB) error {
			return database.Rollback(db)
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(cmd, func(db *sql.DB) error {
			v, err := database.Version(db)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", v)
			return nil
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert development users and sample questions",
	Long:  "Seed an empty database with an admin, a member and sample questions. Does nothing if users exist.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(cmd, func(db *sql.DB) error {
			if err := database.Migrate(db); err != nil {
				return err
			}
			return database.Seed(cmd.Context(), db)
		})
	},
}

var selectStarCmd = &cobra.Command{
	Use:   "select-star",
	Short: "Run weekly star selection once and exit",
	Long: `Select this week's star question, as the background job would.

An already selected week and a week without questions exit successfully.
Only a storage failure exits non-zero.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(cmd, func(db *sql.DB) error {
			job := scheduler.NewStarJob(weekly.NewSelector(store.NewStarStore(db), nil), 0, nil)
			err := job.RunOnce(cmd.Context())
			if err == nil || errors.Is(err, weekly.ErrConflict) || errors.Is(err, weekly.ErrNoCandidate) {
				fmt.Fprintln(cmd.OutOrStdout(), weekly.Outcome(err))
				return nil
			}
			return err
		})
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
}

// withDatabase loads configuration, opens the pool for the duration of fn
// and closes it afterwards.
func withDatabase(cmd *cobra.Command, fn func(db *sql.DB) error) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDatabase(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}

package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tennismeet/tennismeet/internal/config"
	"github.com/tennismeet/tennismeet/internal/database"
)

var rootCmd = &cobra.Command{
	Use:   "tennismeet",
	Short: "A CLI to inspect and query the tennismeet database",
	Long: `A command-line interface for running the tennismeet matching engines
against the configured database: leaderboards, player statistics, partner
and court search, shared availability, and backups.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your command '%s'", err)
		os.Exit(1)
	}
}

// openDB connects to the database named by the environment. The returned
// teardown closes the connection.
func openDB() (*sql.DB, func(), error) {
	cfg := config.Load()
	return database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
}

func main() {
	Execute()
}

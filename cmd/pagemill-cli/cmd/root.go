package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/surrealdb/surrealdb.go"

	"github.com/fteye/pagemill/internal/config"
	"github.com/fteye/pagemill/internal/database"
	"github.com/fteye/pagemill/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "pagemill-cli",
	Short: "Pagemill CLI tool",
	Long: `Pagemill CLI is a command-line interface for operating a Pagemill instance.

Available commands:
  users create    Create a user account
  docs list       List a user's documents and their processing status

Use "pagemill-cli [command] --help" for more information about a specific command.`,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// connect loads configuration and opens the database connection used by the
// data commands.
func connect(ctx context.Context) (*surrealdb.DB, config.Provider, error) {
	logging.New()
	cfg := config.New()
	db, err := database.NewDB(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return db, cfg, nil
}

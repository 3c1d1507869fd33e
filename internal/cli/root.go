// Package cli provides the command-line interface for docchat.
package cli

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/raphaelgruber/docchat/internal/config"
	"github.com/raphaelgruber/docchat/internal/db"
	"github.com/raphaelgruber/docchat/internal/history"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "0.1.0"

var (
	cfg      config.Config
	dbClient *db.Client
	store    *history.Store
)

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "RAG chatbot over a local document corpus",
	Long: `Docchat answers questions about a directory of documents using
retrieval-augmented generation: relevant passages are retrieved from an
embedded corpus and fused with per-session chat history before the LLM
generates an answer. History is persisted in SurrealDB.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		_ = godotenv.Load()

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		ctx := context.Background()
		dbClient, err = db.NewClient(ctx, db.Config{
			URL:       cfg.SurrealDBURL,
			Namespace: cfg.SurrealDBNamespace,
			Database:  cfg.SurrealDBDatabase,
			Username:  cfg.SurrealDBUser,
			Password:  cfg.SurrealDBPass,
			AuthLevel: cfg.SurrealDBAuthLevel,
		}, nil)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}

		if err := dbClient.InitSchema(ctx); err != nil {
			return fmt.Errorf("initialize schema: %w", err)
		}

		store = history.NewStore(dbClient)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if dbClient != nil {
			return dbClient.Close(context.Background())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(historyCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

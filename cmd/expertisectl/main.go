package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"agilesense.ai/services/common/arangodb"
	"agilesense.ai/services/common/logger"
	"agilesense.ai/services/core/config"
	"agilesense.ai/services/internal/store"
)

var (
	Version = "dev"

	cfg config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "expertisectl",
	Short: "Operator tooling for the expertise service",
	Long: `expertisectl seeds developer profiles, attaches sample pending issues,
inspects the document store and tails the issue event stream.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(config.ServiceTypeCLI)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		logger.Setup(cfg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(addPendingCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(eventsCmd)
}

// connectStore opens the document store and makes sure the collections exist.
func connectStore(ctx context.Context) (arangodb.Client, error) {
	if !cfg.ArangoDB.Enabled() {
		return nil, config.ErrArangoRequired
	}
	client, err := arangodb.New(ctx, arangodb.Config{
		URL:      cfg.ArangoDB.URL,
		Username: cfg.ArangoDB.Username,
		Password: cfg.ArangoDB.Password,
		Database: cfg.ArangoDB.Database,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to arangodb: %w", err)
	}
	if err := store.EnsureDocumentSchema(ctx, client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("preparing document schema: %w", err)
	}
	return client, nil
}

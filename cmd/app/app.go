package main

import (
	"fmt"
	"os"

	config "github.com/DRSN-tech/storefront-backend/internal/cfg"
	"github.com/DRSN-tech/storefront-backend/pkg/logger"
	"github.com/spf13/cobra"
)

var log logger.Logger

var rootCmd = &cobra.Command{
	Use:           "storefront",
	Short:         "Storefront backend: catalog, cart, orders, wishlist and sessions",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zl, err := logger.NewZapLogger(config.LogLevel())
		if err != nil {
			return err
		}
		log = zl
		config.LoadDotEnv(log)
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogPublishCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, catalogCmd)

	catalogPublishCmd.Flags().StringVarP(&publishFile, "file", "f", "", "YAML fixture to publish (default: embedded catalog)")
	catalogPublishCmd.Flags().StringVarP(&publishKey, "key", "k", "", "object key (default: CATALOG_SEED_OBJECT or catalog.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if log != nil {
			log.Errorf(err, "command failed")
			_ = log.Sync()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/DRSN-tech/storefront-backend/internal/app"
	config "github.com/DRSN-tech/storefront-backend/internal/cfg"
	"github.com/DRSN-tech/storefront-backend/internal/seed"
	"github.com/spf13/cobra"
)

const defaultCatalogKey = "catalog.yaml"

var (
	publishFile string
	publishKey  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the catalog and start the HTTP and gRPC servers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(log)
		if err != nil {
			return err
		}

		application, err := app.NewApp(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}

		return application.Run(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back PostgreSQL migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd, false)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back all migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd, true)
	},
}

func runMigrate(cmd *cobra.Command, down bool) error {
	cfg, err := config.LoadPGDBCfg(log)
	if err != nil {
		return err
	}

	return app.Migrate(cmd.Context(), cfg, log, down)
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the catalog fixture into the configured storage and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(log)
		if err != nil {
			return err
		}

		application, err := app.NewApp(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer application.Close()

		stats, err := application.Seed(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "categories: %d, products upserted: %d, unchanged: %d\n",
			stats.Categories, stats.Created, stats.Unchanged)
		return nil
	},
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the catalog fixture in object storage",
}

var catalogPublishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Validate a catalog fixture and upload it to MinIO",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(log)
		if err != nil {
			return err
		}

		data := seed.DefaultCatalog()
		if publishFile != "" {
			if data, err = os.ReadFile(publishFile); err != nil {
				return err
			}
		}

		key := publishKey
		if key == "" {
			key = cfg.App.CatalogObject
		}
		if key == "" {
			key = defaultCatalogKey
		}

		uploaded, err := app.PublishCatalog(cmd.Context(), cfg.Minio, log, key, data)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "published %s to bucket %s\n", uploaded, cfg.Minio.BucketName)
		return nil
	},
}

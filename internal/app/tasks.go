package app

import (
	"context"

	config "github.com/DRSN-tech/storefront-backend/internal/cfg"
	minioInfra "github.com/DRSN-tech/storefront-backend/internal/infrastructure/minio"
	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/DRSN-tech/storefront-backend/pkg/logger"
	"github.com/DRSN-tech/storefront-backend/pkg/postgres"
	"github.com/jimlawless/whereami"
)

// PublishCatalog проверяет фикстуру и выкладывает её в бакет MinIO под ключом key.
func PublishCatalog(ctx context.Context, cfg *config.MinIOCfg, log logger.Logger, key string, data []byte) (string, error) {
	repo, err := newFixtureRepo(ctx, cfg)
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	uploaded, err := minioInfra.NewCatalogPublisher(repo, log).Publish(ctx, key, data)
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return uploaded, nil
}

// Migrate применяет (up) или откатывает (down) миграции PostgreSQL.
func Migrate(ctx context.Context, cfg *config.PGDBCfg, log logger.Logger, down bool) error {
	db, err := postgres.Connect(ctx, cfg)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer db.Close()

	if down {
		err = db.RollbackMigrations(log)
	} else {
		err = db.RunMigrations(log)
	}
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

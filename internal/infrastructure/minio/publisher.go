package minio

import (
	"context"
	"time"

	"github.com/DRSN-tech/storefront-backend/internal/seed"
	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/DRSN-tech/storefront-backend/pkg/jitter"
	"github.com/DRSN-tech/storefront-backend/pkg/logger"
)

const (
	defaultAttempts    = 3
	defaultBaseBackoff = time.Second
	defaultMaxBackoff  = 10 * time.Second
)

// ObjectStore хранит объекты фикстур.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte) (string, error)
}

// CatalogPublisher проверяет фикстуру каталога и выкладывает её в объектное хранилище
// с повторами и экспоненциальной задержкой.
type CatalogPublisher struct {
	store       ObjectStore
	logger      logger.Logger
	attempts    int
	baseBackoff time.Duration
	maxBackoff  time.Duration
}

func NewCatalogPublisher(store ObjectStore, logger logger.Logger) *CatalogPublisher {
	return &CatalogPublisher{
		store:       store,
		logger:      logger,
		attempts:    defaultAttempts,
		baseBackoff: defaultBaseBackoff,
		maxBackoff:  defaultMaxBackoff,
	}
}

// Publish разбирает data как фикстуру и загружает её под ключом key.
// Невалидная фикстура не загружается.
func (p *CatalogPublisher) Publish(ctx context.Context, key string, data []byte) (string, error) {
	const op = "CatalogPublisher.Publish"

	fixture, err := seed.Parse(data)
	if err != nil {
		return "", e.Wrap(op, err)
	}
	if _, err := fixture.DomainProducts(); err != nil {
		return "", e.Wrap(op, err)
	}

	var lastErr error
	for attempt := 0; attempt < p.attempts; attempt++ {
		uploaded, err := p.store.Upload(ctx, key, data)
		if err == nil {
			p.logger.Infof("Catalog fixture published. key: %s, products: %d", uploaded, len(fixture.Products))
			return uploaded, nil
		}
		lastErr = err
		p.logger.Warnf("Catalog upload failed (attempt %d/%d): %v", attempt+1, p.attempts, err)

		if attempt == p.attempts-1 {
			break
		}

		select {
		case <-time.After(jitter.ExponentialBackoff(p.baseBackoff, p.maxBackoff, attempt, jitter.DefaultJitter)):
		case <-ctx.Done():
			return "", e.Wrap(op, ctx.Err())
		}
	}

	return "", e.Wrap(op, lastErr)
}

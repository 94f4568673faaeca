package minio

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DRSN-tech/storefront-backend/internal/seed"
	"github.com/DRSN-tech/storefront-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyStore struct {
	failures int
	calls    int
	keys     []string
}

func (f *flakyStore) Upload(_ context.Context, key string, _ []byte) (string, error) {
	f.calls++
	if f.calls <= f.failures {
		return "", errors.New("connection reset")
	}
	f.keys = append(f.keys, key)
	return key, nil
}

func newTestPublisher(store ObjectStore) *CatalogPublisher {
	p := NewCatalogPublisher(store, logger.NewNop())
	p.baseBackoff = time.Millisecond
	p.maxBackoff = 2 * time.Millisecond
	return p
}

func TestCatalogPublisher_RetriesUntilSuccess(t *testing.T) {
	store := &flakyStore{failures: 2}
	p := newTestPublisher(store)

	key, err := p.Publish(context.Background(), "catalog.yaml", seed.DefaultCatalog())
	require.NoError(t, err)

	assert.Equal(t, "catalog.yaml", key)
	assert.Equal(t, 3, store.calls)
}

func TestCatalogPublisher_GivesUp(t *testing.T) {
	store := &flakyStore{failures: 10}
	p := newTestPublisher(store)

	_, err := p.Publish(context.Background(), "catalog.yaml", seed.DefaultCatalog())
	require.Error(t, err)
	assert.Equal(t, defaultAttempts, store.calls)
}

func TestCatalogPublisher_RejectsInvalidFixture(t *testing.T) {
	store := &flakyStore{}
	p := newTestPublisher(store)

	_, err := p.Publish(context.Background(), "catalog.yaml", []byte("products: [{id: '1', price: 'free'}]"))
	require.Error(t, err)
	assert.Zero(t, store.calls)
}

package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/storefront-backend/internal/repository/memory"
	"github.com/DRSN-tech/storefront-backend/internal/usecase"
	"github.com/DRSN-tech/storefront-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type recordingProducer struct {
	mu       sync.Mutex
	failures int
	calls    int
	keys     []string
}

func (p *recordingProducer) WriteRawMessage(_ context.Context, req *usecase.WriteRawMessageReq) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls++
	if p.calls <= p.failures {
		return errors.New("dial tcp: connection refused")
	}
	p.keys = append(p.keys, req.Key)
	return nil
}

func (p *recordingProducer) sent() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

func seedOutbox(t *testing.T, repo *memory.OutboxRepo, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		orderID := fmt.Sprintf("order-%d", i)
		_, err := repo.Create(context.Background(), usecase.NewOutboxEvent(
			fmt.Sprintf("evt-%d", i), usecase.OrderCreated, orderID, []byte(orderID), time.Now(),
		))
		require.NoError(t, err)
	}
}

func TestOutboxWorker_PublishesInOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	repo := memory.NewOutboxRepo()
	seedOutbox(t, repo, 5)

	producer := &recordingProducer{}
	w := NewOutboxWorker(repo, logger.NewNop(), producer, 5*time.Millisecond, 2)
	w.Start(context.Background())

	require.Eventually(t, func() bool { return repo.Pending() == 0 }, 2*time.Second, 5*time.Millisecond)
	w.Stop()

	assert.Equal(t, []string{"order-0", "order-1", "order-2", "order-3", "order-4"}, producer.sent())
}

func TestOutboxWorker_RetriesFailedEvents(t *testing.T) {
	defer goleak.VerifyNone(t)

	repo := memory.NewOutboxRepo()
	seedOutbox(t, repo, 1)

	producer := &recordingProducer{failures: 2}
	w := NewOutboxWorker(repo, logger.NewNop(), producer, 5*time.Millisecond, 10)
	w.Start(context.Background())

	require.Eventually(t, func() bool { return repo.Pending() == 0 }, 2*time.Second, 5*time.Millisecond)
	w.Stop()

	assert.Equal(t, []string{"order-0"}, producer.sent())
	assert.Equal(t, 3, producer.calls)
}

func TestOutboxWorker_StopsOnContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	w := NewOutboxWorker(memory.NewOutboxRepo(), logger.NewNop(), &recordingProducer{}, time.Hour, 10)
	w.Start(ctx)

	cancel()
	w.Stop()
	w.Stop()
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, isRetryableError(errors.New("read: Connection Reset by peer")))
	assert.True(t, isRetryableError(errors.New("i/o timeout")))
	assert.False(t, isRetryableError(errors.New("message too large")))
	assert.False(t, isRetryableError(nil))
}

package kafka

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/storefront-backend/internal/usecase"
	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/DRSN-tech/storefront-backend/pkg/jitter"
	"github.com/DRSN-tech/storefront-backend/pkg/logger"
)

const maxErrorBackoff = 30 * time.Second

// OutboxWorker переносит события из outbox в брокер. Неотправленное событие
// возвращается в pending и уходит в следующем цикле.
type OutboxWorker struct {
	repo         usecase.OutboxRepository
	logger       logger.Logger
	producer     usecase.MessageProducer
	pollInterval time.Duration
	batchSize    int
	stop         chan struct{}
	stopOnce     sync.Once
	wg           sync.WaitGroup
}

func NewOutboxWorker(
	repo usecase.OutboxRepository,
	logger logger.Logger,
	producer usecase.MessageProducer,
	pollInterval time.Duration,
	batchSize int,
) *OutboxWorker {
	return &OutboxWorker{
		repo:         repo,
		logger:       logger,
		producer:     producer,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		stop:         make(chan struct{}),
	}
}

func (w *OutboxWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run(ctx)
	}()
}

// Stop останавливает воркер и ждёт завершения текущего батча.
func (w *OutboxWorker) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
	w.wg.Wait()
}

func (w *OutboxWorker) run(ctx context.Context) {
	w.logger.Infof("Outbox worker started. poll_interval: %v, batch_size: %d", w.pollInterval, w.batchSize)

	failures := 0
	for {
		hasMore, err := w.processBatch(ctx)

		var wait time.Duration
		switch {
		case err != nil:
			w.logger.Warnf("Outbox batch failed: %v", err)
			wait = jitter.ExponentialBackoff(w.pollInterval, maxErrorBackoff, failures, jitter.DefaultJitter)
			failures++
		case hasMore:
			failures = 0
			continue
		default:
			failures = 0
			wait = jitter.Duration(w.pollInterval, jitter.DefaultJitter)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			w.logger.Infof("Outbox worker stopped by context cancellation")
			return
		case <-w.stop:
			timer.Stop()
			w.logger.Infof("Outbox worker stopped")
			return
		case <-timer.C:
		}
	}
}

// processBatch отправляет один батч. hasMore сообщает, что батч был полным
// и стоит сразу забрать следующий.
func (w *OutboxWorker) processBatch(ctx context.Context) (bool, error) {
	const op = "OutboxWorker.processBatch"

	events, err := w.repo.GetAndMarkAsProcessing(ctx, w.batchSize)
	if err != nil {
		return false, e.Wrap(op, err)
	}

	if len(events) == 0 {
		return false, nil
	}

	sent := 0
	for _, event := range events {
		if err := w.processEvent(ctx, event); err != nil {
			if isRetryableError(err) {
				w.logger.Warnf("Temporary broker failure, event %s will be retried: %v", event.EventID, err)
			} else {
				w.logger.Errorf(err, "Failed to publish event %s", event.EventID)
			}

			if err := w.repo.Release(context.WithoutCancel(ctx), event.ID); err != nil {
				w.logger.Warnf("release failed: %v", e.Wrap(op, err))
			}
			continue
		}

		if err := w.repo.MarkAsProcessed(ctx, event.ID); err != nil {
			w.logger.Warnf("mark processed failed: %v", e.Wrap(op, err))
			continue
		}
		sent++
	}

	w.logger.Debugf("Outbox batch done. sent: %d, total: %d", sent, len(events))

	return sent == len(events) && len(events) == w.batchSize, nil
}

func (w *OutboxWorker) processEvent(ctx context.Context, event *usecase.OutboxEvent) error {
	return w.producer.WriteRawMessage(ctx, usecase.NewWriteRawMessageReq(event.OrderID, event.Payload))
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	retryablePhrases := []string{
		"connection refused",
		"i/o timeout",
		"network is unreachable",
		"broker not available",
		"connection reset",
		"broken pipe",
		"no such host",
	}
	for _, phrase := range retryablePhrases {
		if strings.Contains(errStr, phrase) {
			return true
		}
	}
	return false
}

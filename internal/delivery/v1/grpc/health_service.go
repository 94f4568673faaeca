package grpc

import (
	"context"
	"sync"
	"time"

	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/DRSN-tech/storefront-backend/pkg/logger"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const checkTimeout = 3 * time.Second

// Check проверяет готовность одной зависимости, например Postgres или Redis.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// HealthService периодически опрашивает зависимости и публикует их статус
// через grpc.health.v1. Пустое имя сервиса отражает общий статус.
type HealthService struct {
	server   *health.Server
	checks   []Check
	interval time.Duration
	logger   logger.Logger
	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewHealthService(checks []Check, interval time.Duration, logger logger.Logger) *HealthService {
	return &HealthService{
		server:   health.NewServer(),
		checks:   checks,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
	}
}

func (h *HealthService) Server() *health.Server {
	return h.server
}

// Start выполняет первую проверку синхронно, затем повторяет её раз в interval.
func (h *HealthService) Start(ctx context.Context) {
	h.Probe(ctx)

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()

		ticker := time.NewTicker(h.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-h.stop:
				return
			case <-ticker.C:
				h.Probe(ctx)
			}
		}
	}()
}

// Stop останавливает опрос и переводит все сервисы в NOT_SERVING.
func (h *HealthService) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
	h.wg.Wait()
	h.server.Shutdown()
}

// Probe проверяет все зависимости один раз.
func (h *HealthService) Probe(ctx context.Context) {
	const op = "HealthService.Probe"

	overall := healthpb.HealthCheckResponse_SERVING
	for _, c := range h.checks {
		status := healthpb.HealthCheckResponse_SERVING

		checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		if err := c.Ping(checkCtx); err != nil {
			h.logger.Warnf("Health check %s failed: %v", c.Name, e.Wrap(op, err))
			status = healthpb.HealthCheckResponse_NOT_SERVING
			overall = healthpb.HealthCheckResponse_NOT_SERVING
		}
		cancel()

		h.server.SetServingStatus(c.Name, status)
	}

	h.server.SetServingStatus("", overall)
}

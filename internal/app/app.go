// Package app собирает приложение: хранилища, use case'ы, HTTP и gRPC серверы, outbox-воркер.
package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/storefront-backend/internal/cfg"
	v1Grpc "github.com/DRSN-tech/storefront-backend/internal/delivery/v1/grpc"
	v1Http "github.com/DRSN-tech/storefront-backend/internal/delivery/v1/http"
	"github.com/DRSN-tech/storefront-backend/internal/infrastructure/kafka"
	"github.com/DRSN-tech/storefront-backend/internal/seed"
	"github.com/DRSN-tech/storefront-backend/internal/usecase"
	"github.com/DRSN-tech/storefront-backend/pkg/clients"
	"github.com/DRSN-tech/storefront-backend/pkg/closer"
	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/DRSN-tech/storefront-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	shutdownTimeout     = 10 * time.Second
	healthProbeInterval = 15 * time.Second
	topicCreateTimeout  = 10 * time.Second
)

type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer

	redisClient *clients.RedisClient
	stores      *stores

	catalog *usecase.CatalogUseCase
	httpSrv *v1Http.Server
	grpcSrv *v1Grpc.GRPCServer
	health  *v1Grpc.HealthService
	worker  *kafka.OutboxWorker
}

// NewApp открывает хранилища и собирает зависимости. При ошибке всё уже
// открытое закрывается.
func NewApp(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	a := &App{
		cfg:    cfg,
		logger: log,
		closer: closer.NewCloser(0),
	}

	if err := a.init(ctx); err != nil {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if cerr := a.closer.Close(closeCtx); cerr != nil {
			log.Warnf("Failed to release resources: %v", cerr)
		}
		return nil, err
	}

	return a, nil
}

func (a *App) init(ctx context.Context) error {
	s, err := a.initStores(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	a.stores = s

	outbox := a.initEventPipeline(s)

	a.catalog = usecase.NewCatalogUC(s.products, s.categories, s.cache, a.logger)
	carts := usecase.NewCartUC(s.carts, a.catalog, a.logger)
	orders := usecase.NewOrderUC(s.orders, outbox, kafka.NewProtoEncoder(), s.tx, a.catalog, carts, a.logger)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, a.logger)
	router.Init(v1Http.UseCases{
		Catalog:  a.catalog,
		Cart:     carts,
		Order:    orders,
		Wishlist: usecase.NewWishlistUC(s.wishlists, a.catalog, a.logger),
		Auth:     usecase.NewAuthUC(s.users, s.wishlists, s.sessions, a.logger),
	}, a.cfg.Http.AllowedOrigins)

	a.httpSrv = v1Http.NewServer(r, a.cfg.Http)

	a.health = v1Grpc.NewHealthService(s.checks, healthProbeInterval, a.logger)
	a.grpcSrv = v1Grpc.NewGRPCServer(a.cfg.Grpc, a.logger)
	a.grpcSrv.RegisterServices(a.health)

	return nil
}

// initEventPipeline включает outbox, только если настроен Kafka. Без брокера
// события заказов не пишутся.
func (a *App) initEventPipeline(s *stores) usecase.OutboxRepository {
	if a.cfg.Kafka == nil {
		a.logger.Infof("KAFKA_BROKERS not set, order events disabled")
		return nil
	}

	producer := kafka.NewProducer(a.logger, a.cfg.Kafka)
	a.closer.Add("kafka producer", func(context.Context) error { return producer.Close() })

	if err := producer.EnsureTopic(topicCreateTimeout); err != nil {
		// топик может создать брокер (auto.create.topics.enable), воркер повторит отправку
		a.logger.Warnf("Failed to ensure kafka topic %s: %v", a.cfg.Kafka.Topic, err)
	}

	a.worker = kafka.NewOutboxWorker(s.outbox, a.logger, producer, a.cfg.App.OutboxPollInterval, a.cfg.App.OutboxBatchSize)

	return s.outbox
}

// Seed загружает фикстуру каталога: объект MinIO, файл или встроенную.
func (a *App) Seed(ctx context.Context) (*seed.Stats, error) {
	data, err := seed.Read(ctx, a.cfg.App.SeedPath, a.cfg.App.CatalogObject, a.stores.fixtures)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	fixture, err := seed.Parse(data)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	stats, err := seed.Load(ctx, a.catalog, fixture, a.logger)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return stats, nil
}

// Run загружает каталог, запускает серверы и воркер и блокируется до сигнала
// или фатальной ошибки сервера.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := a.Seed(ctx); err != nil {
		a.logger.Errorf(err, "failed to load catalog")
		a.Close()
		return err
	}

	a.health.Start(ctx)
	a.closer.AddFunc("health probes", a.health.Stop)

	if a.worker != nil {
		a.worker.Start(ctx)
		a.closer.AddFunc("outbox worker", a.worker.Stop)
	}

	errCh := make(chan error, 2)

	go func() {
		a.logger.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
		if err := a.grpcSrv.Start(); err != nil {
			errCh <- e.Wrap("gRPC server", err)
		}
	}()
	a.closer.Add("grpc server", func(ctx context.Context) error {
		if err := a.grpcSrv.Stop(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return nil
	})

	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil {
			errCh <- e.Wrap("HTTP server", err)
		}
	}()
	a.closer.Add("http server", a.httpSrv.Stop)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "server fatal error")
	case <-ctx.Done():
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	a.Close()

	return appErr
}

// Close закрывает ресурсы в порядке, обратном открытию: серверы, воркер,
// затем хранилища.
func (a *App) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.closer.Close(ctx); err != nil {
		a.logger.Errorf(err, "shutdown finished with errors")
	} else {
		a.logger.Infof("Application shutdown complete")
	}

	_ = a.logger.Sync()
}

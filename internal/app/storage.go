package app

import (
	"context"
	"time"

	config "github.com/DRSN-tech/storefront-backend/internal/cfg"
	v1Grpc "github.com/DRSN-tech/storefront-backend/internal/delivery/v1/grpc"
	"github.com/DRSN-tech/storefront-backend/internal/repository/memory"
	s3Repo "github.com/DRSN-tech/storefront-backend/internal/repository/minio"
	"github.com/DRSN-tech/storefront-backend/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/storefront-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/storefront-backend/internal/repository/redis"
	redisConv "github.com/DRSN-tech/storefront-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/storefront-backend/internal/repository/sqlite"
	"github.com/DRSN-tech/storefront-backend/internal/seed"
	"github.com/DRSN-tech/storefront-backend/internal/usecase"
	"github.com/DRSN-tech/storefront-backend/pkg/clients"
	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/DRSN-tech/storefront-backend/pkg/postgres"
	"github.com/DRSN-tech/storefront-backend/pkg/tr"
	"github.com/jimlawless/whereami"
)

const connectTimeout = 10 * time.Second

// stores содержит реализации репозиториев, выбранные по драйверам из конфигурации.
type stores struct {
	products   usecase.ProductRepository
	categories usecase.CategoryRepository
	orders     usecase.OrderRepository
	wishlists  usecase.WishlistRepository
	users      usecase.UserRepository
	outbox     usecase.OutboxRepository
	carts      usecase.CartRepository
	sessions   usecase.SessionStore
	cache      usecase.CacheRepository
	tx         usecase.Transactor
	fixtures   seed.ObjectSource

	checks []v1Grpc.Check
}

func (a *App) initStores(ctx context.Context) (*stores, error) {
	s := &stores{}

	if err := a.initPrimaryStorage(ctx, s); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := a.initRedisStorage(ctx, s); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := a.initSessionStorage(ctx, s); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := a.initFixtureStorage(ctx, s); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return s, nil
}

// initPrimaryStorage открывает основное хранилище каталога и заказов.
func (a *App) initPrimaryStorage(ctx context.Context, s *stores) error {
	if a.cfg.App.StorageDriver != config.DriverPostgres {
		s.products = memory.NewProductRepo()
		s.categories = memory.NewCategoryRepo()
		s.orders = memory.NewOrderRepo()
		s.wishlists = memory.NewWishlistRepo()
		s.users = memory.NewUserRepo()
		s.outbox = memory.NewOutboxRepo()
		s.tx = tr.NopTransactor{}
		a.logger.Infof("Primary storage: in-memory")
		return nil
	}

	db, err := a.connectPostgres(ctx)
	if err != nil {
		return err
	}

	s.products = pgdb.NewProductRepo(db.Pool, pgdbConv.ProductConverter{})
	s.categories = pgdb.NewCategoryRepo(db.Pool, pgdbConv.CategoryConverter{})
	s.orders = pgdb.NewOrderRepo(db.Pool, pgdbConv.OrderConverter{})
	s.wishlists = pgdb.NewWishlistRepo(db.Pool)
	s.users = pgdb.NewUserRepo(db.Pool, pgdbConv.UserConverter{})
	s.outbox = pgdb.NewOutboxEventRepo(db.Pool, pgdbConv.OutboxEventConverter{})
	s.tx = tr.NewPgTransactor(db.Pool)
	s.checks = append(s.checks, v1Grpc.Check{Name: "postgres", Ping: db.Ping})
	a.logger.Infof("Primary storage: postgres %s:%s/%s", a.cfg.Db.Host, a.cfg.Db.Port, a.cfg.Db.DBName)

	return nil
}

func (a *App) connectPostgres(ctx context.Context) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(ctx, a.cfg.Db)
	if err != nil {
		a.logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.AddFunc("postgres", db.Close)

	if err := db.RunMigrations(a.logger); err != nil {
		a.logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}

// initRedisStorage подключает кэш товаров и корзины.
func (a *App) initRedisStorage(ctx context.Context, s *stores) error {
	needRedis := a.cfg.App.CacheDriver == config.DriverRedis ||
		a.cfg.App.CartDriver == config.DriverRedis ||
		a.cfg.App.SessionDriver == config.DriverRedis

	if needRedis {
		client, err := a.redisConn(ctx)
		if err != nil {
			return err
		}
		s.checks = append(s.checks, v1Grpc.Check{Name: "redis", Ping: client.Ping})
	}

	if a.cfg.App.CacheDriver == config.DriverRedis {
		s.cache = redis.NewCacheRepo(a.redisClient, redisConv.ProductConverter{}, a.cfg.Redis, a.logger)
	} else {
		s.cache = memory.NewCacheRepo(a.cfg.Redis.ProductTTL)
	}

	if a.cfg.App.CartDriver == config.DriverRedis {
		s.carts = redis.NewCartRepo(a.redisClient, redisConv.CartConverter{}, a.cfg.Redis)
	} else {
		s.carts = memory.NewCartRepo()
	}

	return nil
}

// redisConn лениво открывает одно подключение на все хранилища поверх Redis.
func (a *App) redisConn(ctx context.Context) (*clients.RedisClient, error) {
	if a.redisClient != nil {
		return a.redisClient, nil
	}

	client := clients.NewRedisClient(a.cfg.Redis)
	a.closer.Add("redis", func(context.Context) error { return client.Close() })

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx); err != nil {
		a.logger.Errorf(err, "failed to connect to redis")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	a.redisClient = client
	return client, nil
}

func (a *App) initSessionStorage(ctx context.Context, s *stores) error {
	switch a.cfg.App.SessionDriver {
	case config.DriverRedis:
		s.sessions = redis.NewSessionStore(a.redisClient, a.cfg.Redis)
	case config.DriverSqlite:
		store, err := sqlite.NewSessionStore(ctx, a.cfg.Sqlite.Path)
		if err != nil {
			a.logger.Errorf(err, "failed to open session database %s", a.cfg.Sqlite.Path)
			return e.Wrap(whereami.WhereAmI(), err)
		}
		a.closer.Add("sqlite", func(context.Context) error { return store.Close() })
		s.sessions = store
		s.checks = append(s.checks, v1Grpc.Check{Name: "sqlite", Ping: store.Ping})
	default:
		s.sessions = memory.NewSessionStore()
	}

	return nil
}

// initFixtureStorage подключает MinIO, только если фикстура каталога лежит в бакете.
func (a *App) initFixtureStorage(ctx context.Context, s *stores) error {
	if a.cfg.App.CatalogObject == "" {
		return nil
	}

	repo, err := newFixtureRepo(ctx, a.cfg.Minio)
	if err != nil {
		a.logger.Errorf(err, "failed to initialize minio")
		return e.Wrap(whereami.WhereAmI(), err)
	}

	s.fixtures = repo
	return nil
}

// newFixtureRepo создаёт клиента MinIO и бакет фикстур, если его нет.
func newFixtureRepo(ctx context.Context, cfg *config.MinIOCfg) (*s3Repo.FixtureRepo, error) {
	client, err := clients.NewMinIOClient(cfg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	bucketCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := clients.EnsureBucket(bucketCtx, client, cfg.BucketName); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return s3Repo.NewFixtureRepo(client, cfg), nil
}

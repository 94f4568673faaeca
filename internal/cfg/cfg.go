package cfg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/DRSN-tech/storefront-backend/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/joho/godotenv"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverSqlite   = "sqlite"
)

type Config struct {
	App    *AppCfg
	Http   *HTTPConfig
	Grpc   *GRPCConfig
	Db     *PGDBCfg // nil, если STORAGE_DRIVER=memory
	Redis  *RedisCfg
	Minio  *MinIOCfg
	Kafka  *KafkaCfg // nil, если KAFKA_BROKERS не задан
	Sqlite *SqliteCfg
}

// AppCfg описывает выбор хранилищ и параметры фоновых задач.
type AppCfg struct {
	StorageDriver string // memory | postgres: каталог, заказы, избранное, пользователи, outbox
	CartDriver    string // memory | redis
	SessionDriver string // memory | sqlite | redis
	CacheDriver   string // memory | redis

	SeedPath      string // путь к YAML-фикстуре каталога, по умолчанию встроенная
	CatalogObject string // ключ фикстуры в MinIO; если задан, каталог грузится из бакета

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
}

type HTTPConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
}

type GRPCConfig struct {
	Port        string
	NetworkMode string
}

type PGDBCfg struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN возвращает строку подключения к PostgreSQL.
func (c *PGDBCfg) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

type RedisCfg struct {
	Addr        string
	Password    string
	User        string
	DB          int
	MaxRetries  int
	DialTimeout time.Duration
	Timeout     time.Duration
	ProductTTL  time.Duration
	SessionTTL  time.Duration // при 0 сессия живёт до signOut
	CartTTL     time.Duration
}

type MinIOCfg struct {
	MinioEndpoint     string // Адрес конечной точки Minio
	BucketName        string // Бакет с фикстурами каталога
	MinioRootUser     string
	MinioRootPassword string
	MinioUseSSL       bool
}

type KafkaCfg struct {
	Topic             string
	Brokers           []string
	NetworkMode       string
	Partitions        int
	ReplicationFactor int
}

type SqliteCfg struct {
	Path string
}

// LoadDotEnv подгружает .env, если файл существует. Переменные окружения процесса имеют приоритет.
func LoadDotEnv(log logger.Logger) {
	if _, err := os.Stat(".env"); err != nil {
		return
	}

	if err := godotenv.Load(); err != nil {
		log.Warnf("failed to load .env file: %v", err)
		return
	}

	log.Debugf(".env file loaded")
}

// LogLevel возвращает уровень логирования из LOG_LEVEL.
func LogLevel() string {
	return getEnvOrDefault("LOG_LEVEL", "info")
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
func Load(log logger.Logger) (*Config, error) {
	app, err := loadAppCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	http, err := loadHTTPConfig(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var db *PGDBCfg
	if app.StorageDriver == DriverPostgres {
		db, err = LoadPGDBCfg(log)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
	}

	redis, err := loadRedisCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minio, err := loadMinIOCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	kafka, err := loadKafkaCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Config{
		App:    app,
		Http:   http,
		Grpc:   loadGRPCConfig(),
		Db:     db,
		Redis:  redis,
		Minio:  minio,
		Kafka:  kafka,
		Sqlite: &SqliteCfg{Path: getEnvOrDefault("SQLITE_PATH", "storefront-session.db")},
	}, nil
}

func loadAppCfg(log logger.Logger) (*AppCfg, error) {
	const (
		defaultPollInterval = 2 * time.Second
		defaultBatchSize    = 10
	)

	app := &AppCfg{
		StorageDriver: strings.ToLower(getEnvOrDefault("STORAGE_DRIVER", DriverMemory)),
		CartDriver:    strings.ToLower(getEnvOrDefault("CART_DRIVER", DriverMemory)),
		SessionDriver: strings.ToLower(getEnvOrDefault("SESSION_DRIVER", DriverMemory)),
		CacheDriver:   strings.ToLower(getEnvOrDefault("CACHE_DRIVER", DriverMemory)),
		SeedPath:      getEnv("CATALOG_SEED_PATH"),
		CatalogObject: getEnv("CATALOG_SEED_OBJECT"),
	}

	checks := []struct {
		name    string
		value   string
		allowed []string
	}{
		{"STORAGE_DRIVER", app.StorageDriver, []string{DriverMemory, DriverPostgres}},
		{"CART_DRIVER", app.CartDriver, []string{DriverMemory, DriverRedis}},
		{"SESSION_DRIVER", app.SessionDriver, []string{DriverMemory, DriverSqlite, DriverRedis}},
		{"CACHE_DRIVER", app.CacheDriver, []string{DriverMemory, DriverRedis}},
	}
	for _, c := range checks {
		if !contains(c.allowed, c.value) {
			err := fmt.Errorf("%w: %s=%q, allowed %v", e.ErrUnknownDriver, c.name, c.value, c.allowed)
			log.Errorf(err, "invalid %s", c.name)
			return nil, err
		}
	}

	pollInterval, err := parseDurationEnv("OUTBOX_POLL_INTERVAL", defaultPollInterval)
	if err != nil {
		log.Errorf(err, "invalid OUTBOX_POLL_INTERVAL")
		return nil, err
	}
	app.OutboxPollInterval = pollInterval

	batchSize, err := parseIntEnv("OUTBOX_BATCH_SIZE", defaultBatchSize)
	if err != nil {
		log.Errorf(err, "invalid OUTBOX_BATCH_SIZE")
		return nil, err
	}
	app.OutboxBatchSize = batchSize

	return app, nil
}

func loadKafkaCfg() (*KafkaCfg, error) {
	const (
		defaultTopic             = "storefront.orders"
		defaultPartitions        = 3
		defaultReplicationFactor = 1
		defaultNetworkMode       = "tcp"
	)

	brokerStr := getEnv("KAFKA_BROKERS")
	if brokerStr == "" {
		return nil, nil
	}

	var brokers []string
	for _, b := range strings.Split(brokerStr, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return nil, e.Wrap("KAFKA_BROKERS", e.ErrIncorrectEnvVariable)
	}

	partitions, err := parseIntEnv("KAFKA_PARTITIONS", defaultPartitions)
	if err != nil {
		return nil, e.Wrap("KAFKA_PARTITIONS", err)
	}

	replicationFactor, err := parseIntEnv("REPLICATION_FACTOR", defaultReplicationFactor)
	if err != nil {
		return nil, e.Wrap("REPLICATION_FACTOR", err)
	}

	return &KafkaCfg{
		Brokers:           brokers,
		Topic:             getEnvOrDefault("KAFKA_TOPIC", defaultTopic),
		Partitions:        partitions,
		ReplicationFactor: replicationFactor,
		NetworkMode:       getEnvOrDefault("KAFKA_NETWORK_MODE", defaultNetworkMode),
	}, nil
}

func loadMinIOCfg(log logger.Logger) (*MinIOCfg, error) {
	const (
		defaultUseSSL   = false
		defaultEndpoint = "minio:9000"
		defaultBucket   = "storefront-fixtures"
	)

	useSSL, err := strconv.ParseBool(getEnvOrDefault("MINIO_USE_SSL", strconv.FormatBool(defaultUseSSL)))
	if err != nil {
		log.Errorf(err, "invalid MINIO_USE_SSL")
		return nil, err
	}

	return &MinIOCfg{
		MinioEndpoint:     getEnvOrDefault("MINIO_ENDPOINT", defaultEndpoint),
		BucketName:        getEnvOrDefault("BUCKET_NAME", defaultBucket),
		MinioRootUser:     getEnv("MINIO_ROOT_USER"),
		MinioRootPassword: getEnv("MINIO_ROOT_PASSWORD"),
		MinioUseSSL:       useSSL,
	}, nil
}

func loadHTTPConfig(log logger.Logger) (*HTTPConfig, error) {
	const (
		defaultPort         = "8080"
		defaultReadTimeout  = 5 * time.Second
		defaultWriteTimeout = 10 * time.Second
		defaultIdleTimeout  = 60 * time.Second
		defaultOrigins      = "*"
	)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_WRITE_TIMEOUT")
		return nil, err
	}

	idleTimeout, err := parseDurationEnv("KEEP_ALIVE", defaultIdleTimeout)
	if err != nil {
		log.Errorf(err, "invalid KEEP_ALIVE")
		return nil, err
	}

	return &HTTPConfig{
		Port:           getEnvOrDefault("HTTP_PORT", defaultPort),
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		IdleTimeout:    idleTimeout,
		AllowedOrigins: strings.Split(getEnvOrDefault("CORS_ALLOWED_ORIGINS", defaultOrigins), ","),
	}, nil
}

func loadGRPCConfig() *GRPCConfig {
	const (
		defaultPort        = "8091"
		defaultNetworkMode = "tcp"
	)

	return &GRPCConfig{
		Port:        getEnvOrDefault("GRPC_PORT", defaultPort),
		NetworkMode: getEnvOrDefault("GRPC_NETWORK_MODE", defaultNetworkMode),
	}
}

// LoadPGDBCfg загружает параметры PostgreSQL. Используется сервером и командой migrate.
func LoadPGDBCfg(log logger.Logger) (*PGDBCfg, error) {
	const (
		defaultHost    = "localhost"
		defaultPort    = "5432"
		defaultSSLMode = "disable"
	)

	required := map[string]string{
		"POSTGRES_USER":     getEnv("POSTGRES_USER"),
		"POSTGRES_PASSWORD": getEnv("POSTGRES_PASSWORD"),
		"POSTGRES_DB":       getEnv("POSTGRES_DB"),
	}
	for _, key := range []string{"POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB"} {
		if required[key] == "" {
			err := fmt.Errorf("%s is required", key)
			log.Errorf(err, "missing %s", key)
			return nil, err
		}
	}

	return &PGDBCfg{
		Host:     getEnvOrDefault("POSTGRES_HOST", defaultHost),
		Port:     getEnvOrDefault("POSTGRES_PORT", defaultPort),
		User:     required["POSTGRES_USER"],
		Password: required["POSTGRES_PASSWORD"],
		DBName:   required["POSTGRES_DB"],
		SSLMode:  getEnvOrDefault("SSL_MODE", defaultSSLMode),
	}, nil
}

func loadRedisCfg(log logger.Logger) (*RedisCfg, error) {
	const (
		defaultAddr         = "localhost:6379"
		defaultDB           = 0
		defaultMaxRetries   = 3
		defaultDialTimeout  = 5 * time.Second
		defaultReadTimeout  = 3 * time.Second
		defaultWriteTimeout = 3 * time.Second
		defaultProductTTL   = 3 * time.Minute
		defaultCartTTL      = 30 * 24 * time.Hour
	)

	db, err := parseIntEnv("REDIS_DB_ID", defaultDB)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DB_ID")
		return nil, err
	}

	maxRetries, err := parseIntEnv("MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		log.Errorf(err, "invalid MAX_RETRIES")
		return nil, err
	}

	type durationEnv struct {
		key string
		def time.Duration
		dst *time.Duration
	}

	var dialTimeout, readTimeout, writeTimeout, productTTL, sessionTTL, cartTTL time.Duration
	durations := []durationEnv{
		{"DIAL_TIMEOUT", defaultDialTimeout, &dialTimeout},
		{"READ_TIMEOUT", defaultReadTimeout, &readTimeout},
		{"WRITE_TIMEOUT", defaultWriteTimeout, &writeTimeout},
		{"PRODUCT_TTL", defaultProductTTL, &productTTL},
		{"SESSION_TTL", 0, &sessionTTL},
		{"CART_TTL", defaultCartTTL, &cartTTL},
	}

	for _, d := range durations {
		v, err := parseDurationEnv(d.key, d.def)
		if err != nil {
			log.Errorf(err, "invalid %s", d.key)
			return nil, err
		}
		*d.dst = v
	}

	timeout := readTimeout
	if writeTimeout > timeout {
		timeout = writeTimeout
	}

	return &RedisCfg{
		Addr:        getEnvOrDefault("REDIS_ADDR", defaultAddr),
		Password:    getEnv("REDIS_PASSWORD"),
		User:        getEnv("REDIS_USER"),
		DB:          db,
		MaxRetries:  maxRetries,
		DialTimeout: dialTimeout,
		Timeout:     timeout,
		ProductTTL:  productTTL,
		SessionTTL:  sessionTTL,
		CartTTL:     cartTTL,
	}, nil
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return os.Getenv(key)
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return intValue, nil
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}

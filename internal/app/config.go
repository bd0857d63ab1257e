package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/service/idempotency"
	redisstore "github.com/vladislavdragonenkov/pharmacy-oms/internal/storage/redis"
)

const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"
)

// Config описывает настройки запуска сервиса заказов.
type Config struct {
	Env         string
	HTTPAddr    string
	GRPCAddr    string
	MetricsAddr string

	StorageDriver       string
	PostgresDSN         string
	PostgresAutoMigrate bool
	// CatalogSeedDir: каталог с JSON-файлами товаров, загружаемых при старте.
	CatalogSeedDir      string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CartTTL       time.Duration

	// KafkaBrokers: список брокеров через запятую. Пустая строка отключает Kafka.
	KafkaBrokers              string
	PrescriptionTopic         string
	PrescriptionConsumerGroup string
	RabbitMQURL               string

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxMaxAttempts  int
	OutboxRetryDelay   time.Duration
	OutboxMaxLag       time.Duration

	IdempotencyTTL              time.Duration
	IdempotencyCleanupInterval  time.Duration
	IdempotencyCleanupBatchSize int

	PaymentTimeout         time.Duration
	PaymentBreakerFailures int
	PaymentBreakerReset    time.Duration

	// ShippingCountries: ISO-коды стран доставки через запятую; пусто = все страны.
	ShippingCountries string
	RequestTimeout    time.Duration
}

// DefaultConfig возвращает конфигурацию для локального запуска без внешних зависимостей.
func DefaultConfig() Config {
	return Config{
		Env:         "production",
		HTTPAddr:    ":8080",
		GRPCAddr:    ":50051",
		MetricsAddr: ":9090",

		StorageDriver:       StorageDriverMemory,
		PostgresAutoMigrate: true,

		CartTTL: redisstore.DefaultCartTTL,

		PrescriptionTopic:         kafka.TopicPrescriptionDecisions,
		PrescriptionConsumerGroup: kafka.DefaultPrescriptionConsumer,

		OutboxPollInterval: time.Second,
		OutboxBatchSize:    100,
		OutboxMaxAttempts:  3,
		OutboxRetryDelay:   100 * time.Millisecond,
		OutboxMaxLag:       5 * time.Minute,

		IdempotencyTTL:              idempotency.DefaultTTL,
		IdempotencyCleanupInterval:  time.Hour,
		IdempotencyCleanupBatchSize: 500,

		PaymentTimeout:         5 * time.Second,
		PaymentBreakerFailures: 5,
		PaymentBreakerReset:    30 * time.Second,

		RequestTimeout: 15 * time.Second,
	}
}

// Development включает подробные ошибки в ответах API.
func (c Config) Development() bool {
	return strings.EqualFold(c.Env, "development")
}

// Brokers разбирает KafkaBrokers в список адресов.
func (c Config) Brokers() []string {
	return splitList(c.KafkaBrokers)
}

// Countries разбирает ShippingCountries в список кодов стран.
func (c Config) Countries() []string {
	return splitList(c.ShippingCountries)
}

// LoadConfigFromEnv читает переменные окружения OMS_* поверх DefaultConfig.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	l := envLoader{}

	l.str("OMS_ENV", &cfg.Env)
	l.str("OMS_HTTP_ADDR", &cfg.HTTPAddr)
	l.str("OMS_GRPC_ADDR", &cfg.GRPCAddr)
	l.str("OMS_METRICS_ADDR", &cfg.MetricsAddr)

	l.str("OMS_STORAGE_DRIVER", &cfg.StorageDriver)
	l.str("OMS_POSTGRES_DSN", &cfg.PostgresDSN)
	l.boolean("OMS_POSTGRES_AUTO_MIGRATE", &cfg.PostgresAutoMigrate)
	l.str("OMS_CATALOG_SEED_DIR", &cfg.CatalogSeedDir)

	l.str("OMS_REDIS_ADDR", &cfg.RedisAddr)
	l.str("OMS_REDIS_PASSWORD", &cfg.RedisPassword)
	l.integer("OMS_REDIS_DB", &cfg.RedisDB)
	l.duration("OMS_CART_TTL", &cfg.CartTTL)

	l.str("OMS_KAFKA_BROKERS", &cfg.KafkaBrokers)
	l.str("OMS_PRESCRIPTION_TOPIC", &cfg.PrescriptionTopic)
	l.str("OMS_PRESCRIPTION_CONSUMER_GROUP", &cfg.PrescriptionConsumerGroup)
	l.str("OMS_RABBITMQ_URL", &cfg.RabbitMQURL)

	l.duration("OMS_OUTBOX_POLL_INTERVAL", &cfg.OutboxPollInterval)
	l.integer("OMS_OUTBOX_BATCH_SIZE", &cfg.OutboxBatchSize)
	l.integer("OMS_OUTBOX_MAX_ATTEMPTS", &cfg.OutboxMaxAttempts)
	l.duration("OMS_OUTBOX_RETRY_DELAY", &cfg.OutboxRetryDelay)
	l.duration("OMS_OUTBOX_MAX_LAG", &cfg.OutboxMaxLag)

	l.duration("OMS_IDEMPOTENCY_TTL", &cfg.IdempotencyTTL)
	l.duration("OMS_IDEMPOTENCY_CLEANUP_INTERVAL", &cfg.IdempotencyCleanupInterval)
	l.integer("OMS_IDEMPOTENCY_CLEANUP_BATCH_SIZE", &cfg.IdempotencyCleanupBatchSize)

	l.duration("OMS_PAYMENT_TIMEOUT", &cfg.PaymentTimeout)
	l.integer("OMS_PAYMENT_BREAKER_FAILURES", &cfg.PaymentBreakerFailures)
	l.duration("OMS_PAYMENT_BREAKER_RESET", &cfg.PaymentBreakerReset)

	l.str("OMS_SHIPPING_COUNTRIES", &cfg.ShippingCountries)
	l.duration("OMS_REQUEST_TIMEOUT", &cfg.RequestTimeout)

	if l.err != nil {
		return Config{}, l.err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate проверяет согласованность настроек.
func (c Config) Validate() error {
	switch c.StorageDriver {
	case StorageDriverMemory:
	case StorageDriverPostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			return fmt.Errorf("OMS_POSTGRES_DSN is required for storage driver %q", c.StorageDriver)
		}
	default:
		return fmt.Errorf("unsupported storage driver %q", c.StorageDriver)
	}
	if c.OutboxBatchSize <= 0 {
		return fmt.Errorf("outbox batch size must be > 0")
	}
	if c.OutboxMaxAttempts <= 0 {
		return fmt.Errorf("outbox max attempts must be > 0")
	}
	if c.IdempotencyTTL <= 0 {
		return fmt.Errorf("idempotency ttl must be > 0")
	}
	return nil
}

// envLoader читает переменные окружения и запоминает первую ошибку разбора.
type envLoader struct {
	err error
}

func (l *envLoader) lookup(key string) (string, bool) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

func (l *envLoader) str(key string, dst *string) {
	if v, ok := l.lookup(key); ok {
		*dst = v
	}
}

func (l *envLoader) integer(key string, dst *int) {
	v, ok := l.lookup(key)
	if !ok || l.err != nil {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		l.err = fmt.Errorf("%s: invalid integer %q", key, v)
		return
	}
	*dst = n
}

func (l *envLoader) boolean(key string, dst *bool) {
	v, ok := l.lookup(key)
	if !ok || l.err != nil {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		l.err = fmt.Errorf("%s: invalid bool %q", key, v)
		return
	}
	*dst = b
}

func (l *envLoader) duration(key string, dst *time.Duration) {
	v, ok := l.lookup(key)
	if !ok || l.err != nil {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		l.err = fmt.Errorf("%s: invalid duration %q", key, v)
		return
	}
	*dst = d
}

func splitList(raw string) []string {
	chunks := strings.Split(raw, ",")
	out := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		if v := strings.TrimSpace(chunk); v != "" {
			out = append(out, v)
		}
	}
	return out
}

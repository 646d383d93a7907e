package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig aggregates runtime configuration. Everything is injected via
// environment variables (optionally a .env file) so nothing is hardcoded.
type AppConfig struct {
	HTTPAddr string
	DBPath   string

	RedisAddr string
	RedisDB   int

	// Kafka cluster (comma separated), topic and consumer group for the
	// order-confirmation pipeline.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string

	// Redis Stream outbox (checkout appends atomically, the relay moves
	// events to Kafka asynchronously).
	OrderEventStream   string
	OrderEventGroup    string
	OrderEventConsumer string

	// Session-scoped cart state lifetime.
	SessionTTL time.Duration

	// Checkout rate limiting.
	CheckoutRateLimit  int
	CheckoutRateWindow time.Duration

	// Bearer token signing.
	JWTSecret string
	JWTTTL    time.Duration
}

// Load reads and validates configuration, falling back to defaults for
// anything unset. A .env file in the working directory is honored when
// present.
func Load() (AppConfig, error) {
	_ = godotenv.Load()

	cfg := AppConfig{
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		DBPath:             getEnv("DB_PATH", "shop.db"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:            0,
		KafkaBrokers:       splitCSV(getEnv("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:         getEnv("KAFKA_TOPIC", "shop-order-events"),
		KafkaGroupID:       getEnv("KAFKA_GROUP_ID", "shop-notification-consumer"),
		OrderEventStream:   getEnv("ORDER_EVENT_STREAM", "shop:order_events"),
		OrderEventGroup:    getEnv("ORDER_EVENT_GROUP", "shop-relay-group"),
		OrderEventConsumer: getEnv("ORDER_EVENT_CONSUMER", "shop-relay-1"),
		SessionTTL:         72 * time.Hour,
		CheckoutRateLimit:  30,
		CheckoutRateWindow: time.Minute,
		JWTSecret:          getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTTTL:             24 * time.Hour,
	}

	redisDB, err := getEnvInt("REDIS_DB", cfg.RedisDB)
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cfg.RedisDB = redisDB

	sessionTTLHour, err := getEnvInt("SESSION_TTL_HOUR", int(cfg.SessionTTL.Hours()))
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid SESSION_TTL_HOUR: %w", err)
	}
	if sessionTTLHour <= 0 {
		return AppConfig{}, fmt.Errorf("SESSION_TTL_HOUR must be > 0")
	}
	cfg.SessionTTL = time.Duration(sessionTTLHour) * time.Hour

	rateLimit, err := getEnvInt("CHECKOUT_RATE_LIMIT", cfg.CheckoutRateLimit)
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid CHECKOUT_RATE_LIMIT: %w", err)
	}
	if rateLimit <= 0 {
		return AppConfig{}, fmt.Errorf("CHECKOUT_RATE_LIMIT must be > 0")
	}
	cfg.CheckoutRateLimit = rateLimit

	rateWindowSec, err := getEnvInt("CHECKOUT_RATE_WINDOW_SEC", int(cfg.CheckoutRateWindow.Seconds()))
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid CHECKOUT_RATE_WINDOW_SEC: %w", err)
	}
	if rateWindowSec <= 0 {
		return AppConfig{}, fmt.Errorf("CHECKOUT_RATE_WINDOW_SEC must be > 0")
	}
	cfg.CheckoutRateWindow = time.Duration(rateWindowSec) * time.Second

	jwtTTLHour, err := getEnvInt("JWT_TTL_HOUR", int(cfg.JWTTTL.Hours()))
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid JWT_TTL_HOUR: %w", err)
	}
	if jwtTTLHour <= 0 {
		return AppConfig{}, fmt.Errorf("JWT_TTL_HOUR must be > 0")
	}
	cfg.JWTTTL = time.Duration(jwtTTLHour) * time.Hour

	if cfg.JWTSecret == "" {
		return AppConfig{}, fmt.Errorf("JWT_SECRET must not be empty")
	}
	if len(cfg.KafkaBrokers) == 0 {
		return AppConfig{}, fmt.Errorf("KAFKA_BROKERS must not be empty")
	}
	if cfg.KafkaTopic == "" {
		return AppConfig{}, fmt.Errorf("KAFKA_TOPIC must not be empty")
	}
	if cfg.KafkaGroupID == "" {
		return AppConfig{}, fmt.Errorf("KAFKA_GROUP_ID must not be empty")
	}
	if cfg.OrderEventStream == "" {
		return AppConfig{}, fmt.Errorf("ORDER_EVENT_STREAM must not be empty")
	}
	if cfg.OrderEventGroup == "" {
		return AppConfig{}, fmt.Errorf("ORDER_EVENT_GROUP must not be empty")
	}
	if cfg.OrderEventConsumer == "" {
		return AppConfig{}, fmt.Errorf("ORDER_EVENT_CONSUMER must not be empty")
	}

	return cfg, nil
}

// getEnv reads a string env var, returning the fallback when empty.
func getEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

// getEnvInt reads an integer env var, returning the fallback when empty.
func getEnvInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

// splitCSV parses a comma-separated string into a slice.
func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

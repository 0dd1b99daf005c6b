package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// LoadConfig builds the configuration from defaults and overrides provided via environment variables.
func LoadConfig() (*Config, error) {
	config := defaultConfig()

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func loadFromEnv(config *Config) error {
	if err := loadServerConfig(&config.Server); err != nil {
		return fmt.Errorf("failed to load server config: %w", err)
	}

	if err := loadDatabaseConfig(&config.Database); err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	if err := loadFeedReaderConfig(&config.FeedReader); err != nil {
		return fmt.Errorf("failed to load feed reader config: %w", err)
	}

	if err := loadInferenceConfig(&config.Inference); err != nil {
		return fmt.Errorf("failed to load inference config: %w", err)
	}

	if err := loadCacheConfig(&config.Cache); err != nil {
		return fmt.Errorf("failed to load cache config: %w", err)
	}

	if err := loadQueueConfig(&config.Queue); err != nil {
		return fmt.Errorf("failed to load queue config: %w", err)
	}

	if err := loadAggregateConfig(&config.Aggregate); err != nil {
		return fmt.Errorf("failed to load aggregate config: %w", err)
	}

	return nil
}

func loadServerConfig(cfg *ServerConfig) error {
	var err error

	if cfg.Port, err = parseIntEnv("SERVER_PORT", cfg.Port); err != nil {
		return err
	}

	if cfg.ShutdownTimeout, err = parseDurationEnv("SERVER_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return err
	}

	if cfg.ReadTimeout, err = parseDurationEnv("SERVER_READ_TIMEOUT", cfg.ReadTimeout); err != nil {
		return err
	}

	if cfg.WriteTimeout, err = parseDurationEnv("SERVER_WRITE_TIMEOUT", cfg.WriteTimeout); err != nil {
		return err
	}

	return nil
}

func loadDatabaseConfig(cfg *DatabaseConfig) error {
	var err error

	cfg.Host = getStringEnv("DB_HOST", cfg.Host)
	cfg.Port = getStringEnv("DB_PORT", cfg.Port)
	cfg.User = getStringEnv("KEYWORD_AGGREGATOR_DB_USER", cfg.User)
	cfg.Password = getStringEnv("KEYWORD_AGGREGATOR_DB_PASSWORD", cfg.Password)
	cfg.Name = getStringEnv("DB_NAME", cfg.Name)
	cfg.SSLMode = getStringEnv("DB_SSL_MODE", cfg.SSLMode)

	if cfg.MaxConns, err = parseIntEnv("DB_MAX_CONNS", cfg.MaxConns); err != nil {
		return err
	}

	return nil
}

func loadFeedReaderConfig(cfg *FeedReaderConfig) error {
	var err error

	cfg.Endpoint = getStringEnv("FEED_READER_ENDPOINT", cfg.Endpoint)
	cfg.APIKey = getStringEnv("FEED_READER_API_KEY", cfg.APIKey)

	if cfg.FetchLimit, err = parseIntEnv("FEED_READER_FETCH_LIMIT", cfg.FetchLimit); err != nil {
		return err
	}

	if cfg.IngestInterval, err = parseDurationEnv("INGEST_INTERVAL", cfg.IngestInterval); err != nil {
		return err
	}

	return nil
}

func loadInferenceConfig(cfg *InferenceConfig) error {
	var err error

	cfg.Host = getStringEnv("INFERENCE_HOST", cfg.Host)
	cfg.APIPath = getStringEnv("INFERENCE_API_PATH", cfg.APIPath)
	cfg.Model = getStringEnv("INFERENCE_MODEL", cfg.Model)

	if cfg.Timeout, err = parseDurationEnv("INFERENCE_TIMEOUT", cfg.Timeout); err != nil {
		return err
	}

	if cfg.Temperature, err = parseFloatEnv("INFERENCE_TEMPERATURE", cfg.Temperature); err != nil {
		return err
	}

	if cfg.TopK, err = parseIntEnv("INFERENCE_TOP_K", cfg.TopK); err != nil {
		return err
	}

	if cfg.TopP, err = parseFloatEnv("INFERENCE_TOP_P", cfg.TopP); err != nil {
		return err
	}

	if cfg.Seed, err = parseIntEnv("INFERENCE_SEED", cfg.Seed); err != nil {
		return err
	}

	if cfg.MaxKeywords, err = parseIntEnv("INFERENCE_MAX_KEYWORDS", cfg.MaxKeywords); err != nil {
		return err
	}

	return nil
}

func loadCacheConfig(cfg *CacheConfig) error {
	var err error

	if cfg.Size, err = parseIntEnv("CLASSIFIER_CACHE_SIZE", cfg.Size); err != nil {
		return err
	}

	if cfg.TTL, err = parseDurationEnv("CLASSIFIER_CACHE_TTL", cfg.TTL); err != nil {
		return err
	}

	return nil
}

func loadQueueConfig(cfg *QueueConfig) error {
	var err error

	if cfg.BatchSize, err = parseIntEnv("QUEUE_BATCH_SIZE", cfg.BatchSize); err != nil {
		return err
	}

	if cfg.BatchDebounce, err = parseDurationEnv("QUEUE_BATCH_DEBOUNCE", cfg.BatchDebounce); err != nil {
		return err
	}

	if cfg.Concurrency, err = parseIntEnv("QUEUE_CONCURRENCY", cfg.Concurrency); err != nil {
		return err
	}

	if cfg.BatchRetries, err = parseIntEnv("QUEUE_BATCH_RETRIES", cfg.BatchRetries); err != nil {
		return err
	}

	if cfg.RetryDelay, err = parseDurationEnv("QUEUE_RETRY_DELAY", cfg.RetryDelay); err != nil {
		return err
	}

	return nil
}

func loadAggregateConfig(cfg *AggregateConfig) error {
	var err error

	if cfg.RebuildInterval, err = parseDurationEnv("AGGREGATE_REBUILD_INTERVAL", cfg.RebuildInterval); err != nil {
		return err
	}

	return nil
}

func getStringEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

func parseIntEnv(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %q", key, value)
	}

	return parsed, nil
}

func parseFloatEnv(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float for %s: %q", key, value)
	}

	return parsed, nil
}

func parseDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q", key, value)
	}

	return parsed, nil
}

// ABOUTME: This file implements configuration management with environment variable support
// ABOUTME: Provides typed sections, defaults and validation for production use
package config

import (
	"time"
)

type Config struct {
	Server     ServerConfig     `json:"server"`
	Database   DatabaseConfig   `json:"database"`
	FeedReader FeedReaderConfig `json:"feed_reader"`
	Inference  InferenceConfig  `json:"inference"`
	Cache      CacheConfig      `json:"cache"`
	Queue      QueueConfig      `json:"queue"`
	Aggregate  AggregateConfig  `json:"aggregate"`
}

type ServerConfig struct {
	Port            int           `json:"port" env:"SERVER_PORT" default:"9300"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	ReadTimeout     time.Duration `json:"read_timeout" env:"SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `json:"write_timeout" env:"SERVER_WRITE_TIMEOUT" default:"60s"`
}

type DatabaseConfig struct {
	Host     string `json:"host" env:"DB_HOST" default:"localhost"`
	Port     string `json:"port" env:"DB_PORT" default:"5432"`
	User     string `json:"user" env:"KEYWORD_AGGREGATOR_DB_USER" default:"keyword_aggregator"`
	Password string `json:"-" env:"KEYWORD_AGGREGATOR_DB_PASSWORD"`
	Name     string `json:"name" env:"DB_NAME" default:"keywords"`
	SSLMode  string `json:"ssl_mode" env:"DB_SSL_MODE" default:"disable"`
	MaxConns int    `json:"max_conns" env:"DB_MAX_CONNS" default:"20"`
}

type FeedReaderConfig struct {
	Endpoint string `json:"endpoint" env:"FEED_READER_ENDPOINT" default:"http://miniflux:8080"`
	APIKey   string `json:"-" env:"FEED_READER_API_KEY"`
	// FetchLimit bounds how many unread entries one ingest pass pulls.
	FetchLimit     int           `json:"fetch_limit" env:"FEED_READER_FETCH_LIMIT" default:"100"`
	IngestInterval time.Duration `json:"ingest_interval" env:"INGEST_INTERVAL" default:"5m"`
}

type InferenceConfig struct {
	Host        string        `json:"host" env:"INFERENCE_HOST" default:"http://ollama:11434"`
	APIPath     string        `json:"api_path" env:"INFERENCE_API_PATH" default:"/api/generate"`
	Model       string        `json:"model" env:"INFERENCE_MODEL" default:"llama3.2:3b"`
	Timeout     time.Duration `json:"timeout" env:"INFERENCE_TIMEOUT" default:"30s"`
	Temperature float64       `json:"temperature" env:"INFERENCE_TEMPERATURE" default:"0.2"`
	TopK        int           `json:"top_k" env:"INFERENCE_TOP_K" default:"40"`
	TopP        float64       `json:"top_p" env:"INFERENCE_TOP_P" default:"0.9"`
	Seed        int           `json:"seed" env:"INFERENCE_SEED" default:"42"`
	MaxKeywords int           `json:"max_keywords" env:"INFERENCE_MAX_KEYWORDS" default:"3"`
}

type CacheConfig struct {
	// Size bounds the classification LRU; TTL expires entries so a source
	// that edits an article eventually gets reclassified.
	Size int           `json:"size" env:"CLASSIFIER_CACHE_SIZE" default:"4096"`
	TTL  time.Duration `json:"ttl" env:"CLASSIFIER_CACHE_TTL" default:"24h"`
}

type QueueConfig struct {
	BatchSize     int           `json:"batch_size" env:"QUEUE_BATCH_SIZE" default:"15"`
	BatchDebounce time.Duration `json:"batch_debounce" env:"QUEUE_BATCH_DEBOUNCE" default:"50ms"`
	Concurrency   int           `json:"concurrency" env:"QUEUE_CONCURRENCY" default:"8"`
	BatchRetries  int           `json:"batch_retries" env:"QUEUE_BATCH_RETRIES" default:"2"`
	RetryDelay    time.Duration `json:"retry_delay" env:"QUEUE_RETRY_DELAY" default:"500ms"`
}

type AggregateConfig struct {
	RebuildInterval time.Duration `json:"rebuild_interval" env:"AGGREGATE_REBUILD_INTERVAL" default:"6h"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            9300,
			ShutdownTimeout: 30 * time.Second,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    60 * time.Second,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "keyword_aggregator",
			Name:     "keywords",
			SSLMode:  "disable",
			MaxConns: 20,
		},
		FeedReader: FeedReaderConfig{
			Endpoint:       "http://miniflux:8080",
			FetchLimit:     100,
			IngestInterval: 5 * time.Minute,
		},
		Inference: InferenceConfig{
			Host:        "http://ollama:11434",
			APIPath:     "/api/generate",
			Model:       "llama3.2:3b",
			Timeout:     30 * time.Second,
			Temperature: 0.2,
			TopK:        40,
			TopP:        0.9,
			Seed:        42,
			MaxKeywords: 3,
		},
		Cache: CacheConfig{
			Size: 4096,
			TTL:  24 * time.Hour,
		},
		Queue: QueueConfig{
			BatchSize:     15,
			BatchDebounce: 50 * time.Millisecond,
			Concurrency:   8,
			BatchRetries:  2,
			RetryDelay:    500 * time.Millisecond,
		},
		Aggregate: AggregateConfig{
			RebuildInterval: 6 * time.Hour,
		},
	}
}

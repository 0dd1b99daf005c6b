package config

import "fmt"

func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", config.Server.Port)
	}

	if config.Database.Host == "" {
		return fmt.Errorf("database host must not be empty")
	}

	if config.FeedReader.Endpoint == "" {
		return fmt.Errorf("feed reader endpoint must not be empty")
	}

	if config.FeedReader.FetchLimit <= 0 {
		return fmt.Errorf("feed reader fetch limit must be positive, got %d", config.FeedReader.FetchLimit)
	}

	if config.Inference.Host == "" {
		return fmt.Errorf("inference host must not be empty")
	}

	if config.Inference.Model == "" {
		return fmt.Errorf("inference model must not be empty")
	}

	if config.Inference.MaxKeywords <= 0 {
		return fmt.Errorf("inference max keywords must be positive, got %d", config.Inference.MaxKeywords)
	}

	if config.Cache.Size <= 0 {
		return fmt.Errorf("classifier cache size must be positive, got %d", config.Cache.Size)
	}

	if config.Cache.TTL <= 0 {
		return fmt.Errorf("classifier cache TTL must be positive, got %s", config.Cache.TTL)
	}

	if config.Queue.BatchSize <= 0 {
		return fmt.Errorf("queue batch size must be positive, got %d", config.Queue.BatchSize)
	}

	if config.Queue.Concurrency <= 0 {
		return fmt.Errorf("queue concurrency must be positive, got %d", config.Queue.Concurrency)
	}

	if config.Queue.BatchRetries < 0 {
		return fmt.Errorf("queue batch retries must not be negative, got %d", config.Queue.BatchRetries)
	}

	if config.Aggregate.RebuildInterval <= 0 {
		return fmt.Errorf("aggregate rebuild interval must be positive, got %s", config.Aggregate.RebuildInterval)
	}

	return nil
}

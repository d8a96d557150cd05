package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *CollectorConfig) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if c.Database.Host == "" {
		return errors.New("database.host is required")
	}
	if c.Database.Name == "" {
		return errors.New("database.name is required")
	}
	if c.Database.User == "" {
		return errors.New("database.user is required")
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns (%d) cannot exceed max_conns (%d)",
			c.Database.MinConns, c.Database.MaxConns)
	}

	if c.Stream.SubscribeBatchSize < 1 || c.Stream.SubscribeBatchSize > 50 {
		return fmt.Errorf("stream.subscribe_batch_size must be 1-50, got %d",
			c.Stream.SubscribeBatchSize)
	}

	if c.Buffer.Size < 1 {
		return errors.New("buffer.size must be >= 1")
	}

	for key, limit := range c.RateLimit.Limits {
		if limit < 1 {
			return fmt.Errorf("rate_limits.limits.%s must be >= 1, got %d", key, limit)
		}
	}

	if c.Poller.Depth < 1 {
		return errors.New("poller.depth must be >= 1")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	return nil
}

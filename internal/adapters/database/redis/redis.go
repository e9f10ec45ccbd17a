package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Badsnus/events-backend/internal/adapters/database/redis/tasks"
	"github.com/Badsnus/events-backend/internal/adapters/database/redis/weather"
)

type Client struct {
	Tasks   *tasks.Queue
	Weather *weather.Cache

	clients []*redis.Client
}

type Options struct {
	Host     string
	Port     string
	Password string

	WeatherTTL time.Duration
}

func New(opts Options) (*Client, error) {
	tasksClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", opts.Host, opts.Port),
		Password: opts.Password,
		DB:       0,
	})
	if err := tasksClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping tasks storage: %w", err)
	}

	weatherClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", opts.Host, opts.Port),
		Password: opts.Password,
		DB:       1,
	})
	if err := weatherClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping weather storage: %w", err)
	}

	if opts.WeatherTTL <= 0 {
		opts.WeatherTTL = 6 * time.Hour
	}

	return &Client{
		Tasks:   tasks.NewQueue(tasksClient, tasks.DefaultBackoff),
		Weather: weather.NewCache(weatherClient, opts.WeatherTTL),
		clients: []*redis.Client{tasksClient, weatherClient},
	}, nil
}

func (c *Client) Close() error {
	var firstErr error
	for _, client := range c.clients {
		if err := client.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

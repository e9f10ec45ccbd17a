package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Badsnus/events-backend/internal/domain/entity"
)

// Cache keeps the current weather snapshot of every venue.
type Cache struct {
	redis      *redis.Client
	expiration time.Duration
}

func NewCache(client *redis.Client, expiration time.Duration) *Cache {
	return &Cache{
		redis:      client,
		expiration: expiration,
	}
}

func key(venueID string) string {
	return fmt.Sprintf("weather:current:%s", venueID)
}

// Get returns nil without error on a cache miss.
func (c *Cache) Get(ctx context.Context, venueID string) (*entity.WeatherSnapshot, error) {
	data, err := c.redis.Get(ctx, key(venueID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snapshot entity.WeatherSnapshot
	if err = json.Unmarshal(data, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// Set stores snapshot unless a newer one is already cached for the venue.
func (c *Cache) Set(ctx context.Context, snapshot *entity.WeatherSnapshot) error {
	cached, err := c.Get(ctx, snapshot.VenueID)
	if err == nil && cached != nil && cached.CreatedAt.After(snapshot.CreatedAt) {
		return nil
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, key(snapshot.VenueID), data, c.expiration).Err()
}

func (c *Cache) Clear(ctx context.Context, venueID string) error {
	return c.redis.Del(ctx, key(venueID)).Err()
}

package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ipintel:"

type redisCache struct {
	client redis.UniversalClient
	prefix string
}

func (r redisCache) Get(ctx context.Context, key string) (ProviderLookupResult, bool, error) {
	rv := ProviderLookupResult{}

	data, err := r.client.Get(ctx, r.prefix+key).Bytes()

	switch {
	case errors.Is(err, redis.Nil):
		return rv, false, nil
	case err != nil:
		return rv, false, fmt.Errorf("cannot get a value from redis: %w", err)
	}

	if err := json.Unmarshal(data, &rv); err != nil {
		return rv, false, fmt.Errorf("cannot decode cached value: %w", err)
	}

	return rv, true, nil
}

func (r redisCache) Set(ctx context.Context, key string, value ProviderLookupResult, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cannot encode a value: %w", err)
	}

	if err := r.client.Set(ctx, r.prefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("cannot set a value to redis: %w", err)
	}

	return nil
}

// NewRedisCache creates a cache which is shared between ipintel
// instances.
func NewRedisCache(client redis.UniversalClient) Cache {
	return redisCache{
		client: client,
		prefix: redisKeyPrefix,
	}
}

// NewRedisClient creates a client from redis:// URL and checks that
// server is reachable.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("cannot parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()

		return nil, fmt.Errorf("cannot connect to redis: %w", err)
	}

	return client, nil
}

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	catalogKey = "catalog:current"
	catalogTTL = 30 * time.Second
)

type ValkeyClient struct {
	client *redis.Client
}

func NewValkeyClient(addr, password string, db int) (*ValkeyClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	return &ValkeyClient{client: rdb}, nil
}

// GetCatalogRaw returns the cached catalog document as raw JSON so the
// handler can serve it without an unmarshal/marshal round trip.
func (v *ValkeyClient) GetCatalogRaw(ctx context.Context) ([]byte, error) {
	raw, err := v.client.Get(ctx, catalogKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("catalog not in cache")
		}
		return nil, fmt.Errorf("cache lookup error: %w", err)
	}
	return raw, nil
}

// SetCatalog stores the catalog document with a short TTL; admin mutations
// invalidate it explicitly before the TTL runs out.
func (v *ValkeyClient) SetCatalog(ctx context.Context, catalog interface{}) error {
	raw, err := json.Marshal(catalog)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}
	return v.client.Set(ctx, catalogKey, raw, catalogTTL).Err()
}

// InvalidateCatalog drops the cached document after an admin write.
func (v *ValkeyClient) InvalidateCatalog(ctx context.Context) error {
	return v.client.Del(ctx, catalogKey).Err()
}

func (v *ValkeyClient) Close() error {
	return v.client.Close()
}

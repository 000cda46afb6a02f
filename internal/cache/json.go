package cache

import (
	"context"
	"encoding/json"
	"time"
)

// GetJSON reads key and decodes it into T. A miss returns ErrCacheMiss.
func GetJSON[T any](ctx context.Context, c Client, key string) (T, error) {
	var v T
	raw, err := c.Get(ctx, key)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return v, err
	}
	return v, nil
}

// SetJSON stores v under key encoded as JSON.
func SetJSON(ctx context.Context, c Client, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, raw, ttl)
}

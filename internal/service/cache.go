package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/abgdnv/catalog/internal/cache"
	"github.com/google/uuid"
)

// generationKey holds a random stamp that is part of every cached read key.
// Replacing it orphans all cached reads at once; orphans expire with their TTL.
const generationKey = "catalog:generation"

// initialGeneration is used until the first mutation stamps a generation.
const initialGeneration = "0"

// cacheKey builds the key of a cached read under the current generation.
// It reports false when the generation cannot be read, and the caller then bypasses the cache.
func (s *Service) cacheKey(ctx context.Context, kind string, arg any) (string, bool) {
	gen, err := s.cache.Get(ctx, generationKey)
	switch {
	case errors.Is(err, cache.ErrCacheMiss):
		gen = initialGeneration
	case err != nil:
		s.logger.WarnContext(ctx, "Failed to read cache generation", "error", err)
		return "", false
	}
	return fmt.Sprintf("catalog:%s:%s:%v", kind, gen, arg), true
}

// invalidateCache drops every cached read. It runs after a catalog mutation commits.
func (s *Service) invalidateCache(ctx context.Context) {
	if err := s.cache.Set(ctx, generationKey, uuid.NewString(), 0); err != nil {
		s.logger.WarnContext(ctx, "Failed to invalidate cache", "error", err)
	}
}

func (s *Service) cachedProducts(ctx context.Context, key string) ([]ProductDto, bool) {
	dtos, err := cache.GetJSON[[]ProductDto](ctx, s.cache, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.WarnContext(ctx, "Failed to read products from cache", "key", key, "error", err)
		}
		return nil, false
	}
	return dtos, true
}

func (s *Service) storeInCache(ctx context.Context, key string, v any) {
	if err := cache.SetJSON(ctx, s.cache, key, v, s.cacheTTL); err != nil {
		s.logger.WarnContext(ctx, "Failed to write to cache", "key", key, "error", err)
	}
}

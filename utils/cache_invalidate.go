package utils

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Cache key layout shared with middlewares.ResponseCache.
func ListCachePattern(resource string) string { return "cache:" + resource + ":list:*" }
func ItemCacheKey(resource, id string) string { return "cache:" + resource + ":item:" + id }

type CacheInvalidator struct{ rdb *redis.Client }

func NewCacheInvalidator(rdb *redis.Client) *CacheInvalidator { return &CacheInvalidator{rdb} }

// PurgeList drops every cached list response of a resource ("events", "opportunities").
func (ci *CacheInvalidator) PurgeList(ctx context.Context, resource string) {
	iter := ci.rdb.Scan(ctx, 0, ListCachePattern(resource), 0).Iterator()
	for iter.Next(ctx) {
		_ = ci.rdb.Del(ctx, iter.Val()).Err()
	}
}

func (ci *CacheInvalidator) PurgeItem(ctx context.Context, resource, id string) {
	_ = ci.rdb.Del(ctx, ItemCacheKey(resource, id)).Err()
}

// Purge clears the list and the single item; writes call this after commit.
func (ci *CacheInvalidator) Purge(ctx context.Context, resource, id string) {
	if ci == nil {
		return
	}
	ci.PurgeList(ctx, resource)
	if id != "" {
		ci.PurgeItem(ctx, resource, id)
	}
}

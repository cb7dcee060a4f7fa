package question

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sort"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"specialist-match-be/pkg/store"
)

// DefaultTTL is how long a generated question set stays reusable. Conversations
// move fast; half an hour covers retries and page reloads without serving
// stale clarifications.
const DefaultTTL = 30 * time.Minute

// Cache stores generated question sets keyed by conversation fingerprint.
// Two implementations: in-process go-cache for single-node deployments and
// redis for shared ones.
type Cache interface {
	Get(ctx context.Context, key string) ([]store.StructuredQuestion, bool)
	Set(ctx context.Context, key string, questions []store.StructuredQuestion, ttl time.Duration)
}

// CacheKey fingerprints the generation inputs: the latest utterance, the
// resolved category, and every collected slot in deterministic order. Any
// slot change produces a new key, so answers never resurface stale questions.
func CacheKey(utterance, category string, slots map[string]any) string {
	names := make([]string, 0, len(slots))
	for name := range slots {
		names = append(names, name)
	}
	sort.Strings(names)

	h := fnv.New64a()
	h.Write([]byte(utterance))
	h.Write([]byte{0})
	h.Write([]byte(category))
	for _, name := range names {
		h.Write([]byte{0})
		h.Write([]byte(name))
		h.Write([]byte{'='})
		h.Write([]byte(fmt.Sprintf("%v", slots[name])))
	}
	return fmt.Sprintf("questions:%x", h.Sum64())
}

// LocalCache wraps go-cache for single-process deployments.
type LocalCache struct {
	inner *gocache.Cache
}

func NewLocalCache() *LocalCache {
	return &LocalCache{inner: gocache.New(DefaultTTL, 10*time.Minute)}
}

func (c *LocalCache) Get(_ context.Context, key string) ([]store.StructuredQuestion, bool) {
	v, found := c.inner.Get(key)
	if !found {
		return nil, false
	}
	questions, ok := v.([]store.StructuredQuestion)
	return questions, ok
}

func (c *LocalCache) Set(_ context.Context, key string, questions []store.StructuredQuestion, ttl time.Duration) {
	c.inner.Set(key, questions, ttl)
}

// RedisCache shares generated questions across instances. Serialization is
// plain JSON; a decode failure is treated as a miss.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]store.StructuredQuestion, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var questions []store.StructuredQuestion
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, false
	}
	return questions, true
}

func (c *RedisCache) Set(ctx context.Context, key string, questions []store.StructuredQuestion, ttl time.Duration) {
	raw, err := json.Marshal(questions)
	if err != nil {
		return
	}
	c.client.Set(ctx, key, raw, ttl)
}

package insight

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nampwaztaken/skycast-ultra-casino/responses"
)

// CacheTTL bounds how long a weather snapshot stays fresh. Saves quota on the
// remote generative endpoint.
const CacheTTL = 10 * time.Minute

type Cache interface {
	Get(ctx context.Context, city string) (responses.Weather, bool)
	Set(ctx context.Context, city string, data responses.Weather)
}

type memoryEntry struct {
	data    responses.Weather
	expires time.Time
}

// MemoryCache is the in-process default when no redis URL is configured.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, city string) (responses.Weather, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[strings.ToLower(city)]
	if !ok || c.now().After(entry.expires) {
		return responses.Weather{}, false
	}
	return entry.data, true
}

func (c *MemoryCache) Set(_ context.Context, city string, data responses.Weather) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[strings.ToLower(city)] = memoryEntry{data: data, expires: c.now().Add(CacheTTL)}
}

// RedisCache shares weather snapshots across instances. Cache failures only
// cost an extra upstream call, so they are logged and swallowed.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func redisKey(city string) string {
	return "weather:" + strings.ToLower(city)
}

func (c *RedisCache) Get(ctx context.Context, city string) (responses.Weather, bool) {
	raw, err := c.client.Get(ctx, redisKey(city)).Bytes()
	if err == redis.Nil {
		return responses.Weather{}, false
	}
	if err != nil {
		slog.Warn("Weather cache read failed", "city", city, "err", err)
		return responses.Weather{}, false
	}
	var data responses.Weather
	if err := json.Unmarshal(raw, &data); err != nil {
		return responses.Weather{}, false
	}
	return data, true
}

func (c *RedisCache) Set(ctx context.Context, city string, data responses.Weather) {
	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, redisKey(city), raw, CacheTTL).Err(); err != nil {
		slog.Warn("Weather cache write failed", "city", city, "err", err)
	}
}

package cache

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

type RedisCache struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisCache(addr string) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisCache{
		client: client,
		ctx:    context.Background(),
	}
}

func (c *RedisCache) Get(key string) ([]byte, bool) {
	data, err := c.client.Get(c.ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *RedisCache) Set(key string, value []byte, ttl time.Duration) {
	if err := c.client.Set(c.ctx, key, value, ttl).Err(); err != nil {
		log.Printf("cache: error setting %s: %v", key, err)
	}
}

func (c *RedisCache) Invalidate(prefix string) {
	iter := c.client.Scan(c.ctx, 0, prefix+"*", 0).Iterator()
	pipe := c.client.Pipeline()
	deleted := 0
	for iter.Next(c.ctx) {
		pipe.Del(c.ctx, iter.Val())
		deleted++
	}
	if err := iter.Err(); err != nil {
		log.Printf("cache: error scanning prefix %s: %v", prefix, err)
		return
	}
	if deleted == 0 {
		return
	}
	if _, err := pipe.Exec(c.ctx); err != nil {
		log.Printf("cache: error invalidating prefix %s: %v", prefix, err)
	}
}

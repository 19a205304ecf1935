package common

import (
	"time"

	"github.com/patrickmn/go-cache"
)

type Cache struct {
	*cache.Cache
}

func NewCache(expirationTime, cleanupTime time.Duration) *Cache {
	return &Cache{cache.New(expirationTime, cleanupTime)}
}

func (c *Cache) Set(key string, value interface{}, expiration ...time.Duration) {
	if len(expiration) > 0 {
		c.Cache.Set(key, value, expiration[0])
		return
	}
	c.Cache.Set(key, value, cache.DefaultExpiration)
}

func (c *Cache) Get(key string) (interface{}, bool) {
	return c.Cache.Get(key)
}

// Touch re-stores an existing entry so that its default expiration starts over.
func (c *Cache) Touch(key string) bool {
	value, ok := c.Cache.Get(key)
	if !ok {
		return false
	}

	c.Cache.Set(key, value, cache.DefaultExpiration)
	return true
}

func (c *Cache) Flush() {
	c.Cache.Flush()
}

func CacheKeyClient(ip string) string {
	return "client:" + ip
}

package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/kvasnikov/eventhub/internal/cache"
)

func CacheMiddleware(eventCache *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("event_cache", eventCache)
		c.Next()
	}
}

// GetCache returns nil when no Redis connection was configured;
// handlers skip view counting in that case.
func GetCache(c *gin.Context) *cache.Cache {
	eventCache, exists := c.Get("event_cache")
	if !exists {
		return nil
	}
	return eventCache.(*cache.Cache)
}

package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const (
	metaKey      = "response_meta"
	startedAtKey = "request_started_at"
)

// Response meta keys.
const (
	MetaCacheHit       = "cache_hit"
	MetaProcessingTime = "processing_time_ms"
)

// Timing stamps the request start so Meta can report processing time.
func Timing() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(startedAtKey, time.Now())
		c.Next()
	}
}

// SetMeta stores one response meta value for the current request.
func SetMeta(c *gin.Context, key string, value interface{}) {
	meta, ok := c.Get(metaKey)
	if !ok {
		meta = make(map[string]interface{})
		c.Set(metaKey, meta)
	}
	meta.(map[string]interface{})[key] = value
}

// SetCacheHit records whether the payload came from the analytics cache.
func SetCacheHit(c *gin.Context, hit bool) {
	SetMeta(c, MetaCacheHit, hit)
}

// Meta returns the recorded values plus the elapsed processing time when
// Timing ran. It is nil when no handler recorded anything.
func Meta(c *gin.Context) map[string]interface{} {
	raw, ok := c.Get(metaKey)
	if !ok {
		return nil
	}
	meta := raw.(map[string]interface{})
	if started, ok := c.Get(startedAtKey); ok {
		if t, ok := started.(time.Time); ok {
			meta[MetaProcessingTime] = time.Since(t).Milliseconds()
		}
	}
	return meta
}

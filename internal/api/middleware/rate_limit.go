package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KUSHALGOYALT/hexa-climate-safety-system/pkg/redis"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/pkg/response"
)

// RateLimit throttles a route per client IP using a Redis window.
// limit is the number of requests allowed inside window. A nil rdb or a
// Redis error degrades to letting the request through, so an
// unconfigured or unhealthy Redis never blocks incident reporting.
func RateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("rate_limit:%s:%s", c.ClientIP(), c.FullPath())
		allowed, err := rdb.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			c.Next()
			return
		}

		if !allowed {
			response.Error(c, http.StatusTooManyRequests, 10003, "too many requests, please retry later")
			c.Abort()
			return
		}

		c.Next()
	}
}

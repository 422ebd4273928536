package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fuzemeet/backend/pkg/response"
)

// RateLimit returns a fixed-window per-IP limiter backed by Redis, used to
// slow credential guessing on the view endpoint. A nil client disables the
// limiter; Redis errors fail open so an outage never blocks viewing.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	if rdb == nil || limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := fmt.Sprintf("ratelimit:%s:%s", c.FullPath(), c.ClientIP())

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			logger.Warn("rate limit unavailable", zap.Error(err))
			c.Next()
			return
		}
		if count == 1 {
			if err := rdb.Expire(ctx, key, window).Err(); err != nil {
				logger.Warn("rate limit expire failed", zap.Error(err))
			}
		}
		if count > int64(limit) {
			c.JSON(http.StatusTooManyRequests, response.Body{Success: false, Error: "too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}

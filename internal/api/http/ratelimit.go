package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/user-service/internal/config"
	"github.com/spec-kit/user-service/internal/persistence"
	apperrors "github.com/spec-kit/user-service/pkg/util"
)

// RateLimiter bounds request rates per client IP using a fixed window
// counter in Redis. It fails open: if Redis is unreachable the request
// proceeds.
type RateLimiter struct {
	redis  *persistence.Redis
	logger *zap.Logger
	cfg    config.RateLimitConfig
}

// NewRateLimiter constructs the limiter.
func NewRateLimiter(redis *persistence.Redis, cfg config.RateLimitConfig, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{redis: redis, cfg: cfg, logger: logger}
}

// Handle rejects requests over the configured ceiling for the window.
func (rl *RateLimiter) Handle(c *fiber.Ctx) error {
	if rl.redis == nil || rl.redis.Client == nil || rl.cfg.MaxRequests <= 0 {
		return c.Next()
	}

	ctx := c.UserContext()
	key := fmt.Sprintf("ratelimit:%s:%s", c.IP(), c.Path())

	count, err := rl.redis.Client.Incr(ctx, key).Result()
	if err != nil {
		rl.logger.Warn("rate limit counter unavailable", zap.Error(err))
		return c.Next()
	}
	if count == 1 {
		if err := rl.redis.Client.Expire(ctx, key, rl.cfg.Window()).Err(); err != nil {
			rl.logger.Warn("rate limit expiry failed", zap.Error(err))
		}
	}
	if count > int64(rl.cfg.MaxRequests) {
		return apperrors.NewRateLimited("too many requests")
	}
	return c.Next()
}

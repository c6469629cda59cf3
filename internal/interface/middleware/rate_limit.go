package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/ordo-prm/pkg/response"
)

// ipFromCtx extracts the client IP from Gin context, falling back to "unknown"
func ipFromCtx(c *gin.Context) string {
	if ip := c.GetString(RealIPKey); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

func normalizePath(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return c.Request.URL.Path
}

// KeyFunc builds a rate-limit key from the request
type KeyFunc func(c *gin.Context) string

// KeyByIPAndPath limits each client IP per route, so login and signup
// attempts are counted separately.
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:path:" + normalizePath(c) + ":ip:" + ipFromCtx(c)
	}
}

// atomic INCR, and set the expiry on the first hit of a window.
// Returns the count and the remaining TTL in milliseconds.
var incrExpireScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("PTTL", KEYS[1])}
`)

type AllowFunc func(*gin.Context) bool // return true to bypass the limit

// Limiter is a fixed-window counter on redis shared by every limited route.
// A nil client disables it; redis errors fail open.
type Limiter struct {
	rdb   *redis.Client
	log   logrus.FieldLogger
	allow AllowFunc
}

func NewLimiter(rdb *redis.Client, log logrus.FieldLogger, allow AllowFunc) *Limiter {
	return &Limiter{rdb: rdb, log: log, allow: allow}
}

// Window is the state of one key after a hit.
type Window struct {
	Count int
	Reset time.Duration
}

// Hit counts one request against key.
func (l *Limiter) Hit(ctx context.Context, key string, window time.Duration) (Window, error) {
	res, err := incrExpireScript.Run(ctx, l.rdb, []string{key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return Window{}, err
	}
	w := Window{Count: int(res[0])}
	if len(res) > 1 && res[1] > 0 {
		w.Reset = time.Duration(res[1]) * time.Millisecond
	}
	return w, nil
}

// Limit allows limit requests per window for each key. It sets the
// X-RateLimit-* headers and answers 429 once the limit is exceeded.
func (l *Limiter) Limit(limit int, window time.Duration, keyFn KeyFunc) gin.HandlerFunc {
	if l == nil || l.rdb == nil || limit <= 0 || window <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || (l.allow != nil && l.allow(c)) {
			c.Next()
			return
		}

		key := keyFn(c)
		w, err := l.Hit(c.Request.Context(), key, window)
		if err != nil {
			if l.log != nil {
				l.log.WithError(err).WithField("key", key).Warn("rate limit unavailable, allowing request")
			}
			c.Next()
			return
		}

		resetSec := int((w.Reset + time.Second - 1) / time.Second)
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(0, limit-w.Count)))
		c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))

		if w.Count > limit {
			if resetSec > 0 {
				c.Header("Retry-After", strconv.Itoa(resetSec))
			}
			response.Error(c, http.StatusTooManyRequests, "Too many requests, try again later", nil)
			return
		}
		c.Next()
	}
}

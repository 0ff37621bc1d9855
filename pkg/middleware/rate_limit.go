package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/yeisme/soundboard/pkg/configs"
)

// limiterIdleTTL 超过该时长未访问的 limiter 会被回收.
const limiterIdleTTL = 10 * time.Minute

type keyedLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterSet 按 key 维护 limiter，访问时顺带回收闲置项.
type limiterSet struct {
	mu        sync.Mutex
	rps       rate.Limit
	burst     int
	entries   map[string]*keyedLimiter
	lastSweep time.Time
}

func newLimiterSet(rps float64, burst int) *limiterSet {
	return &limiterSet{
		rps:       rate.Limit(rps),
		burst:     burst,
		entries:   map[string]*keyedLimiter{},
		lastSweep: time.Now(),
	}
}

func (s *limiterSet) allow(key string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastSweep) > limiterIdleTTL {
		for k, e := range s.entries {
			if now.Sub(e.lastSeen) > limiterIdleTTL {
				delete(s.entries, k)
			}
		}

		s.lastSweep = now
	}

	e, ok := s.entries[key]
	if !ok {
		e = &keyedLimiter{limiter: rate.NewLimiter(s.rps, s.burst)}
		s.entries[key] = e
	}

	e.lastSeen = now

	return e.limiter.AllowN(now, 1)
}

// RateLimitMiddleware 返回一个基于配置的限流中间件.
// key 取值: global, ip, header:<Name>（请求头缺失时回退到 IP）.
func RateLimitMiddleware(cfg configs.RateLimitConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.RPS <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	keyMode := strings.TrimSpace(cfg.Key)

	if keyMode == "" || strings.EqualFold(keyMode, "global") {
		limiter := rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst)

		return func(c *gin.Context) {
			if !limiter.Allow() {
				abortTooMany(c)
				return
			}

			c.Next()
		}
	}

	set := newLimiterSet(cfg.RPS, cfg.Burst)
	keyOf := requestKeyFunc(keyMode)

	return func(c *gin.Context) {
		if !set.allow(keyOf(c), time.Now()) {
			abortTooMany(c)
			return
		}

		c.Next()
	}
}

func requestKeyFunc(mode string) func(*gin.Context) string {
	if len(mode) > len("header:") && strings.EqualFold(mode[:len("header:")], "header:") {
		header := mode[len("header:"):]

		return func(c *gin.Context) string {
			if v := c.GetHeader(header); v != "" {
				return "h:" + v
			}

			return "ip:" + clientIP(c)
		}
	}

	return func(c *gin.Context) string { return "ip:" + clientIP(c) }
}

func abortTooMany(c *gin.Context) {
	c.Header("Retry-After", "1")
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
}

func clientIP(c *gin.Context) string {
	if ip := c.ClientIP(); ip != "" {
		return ip
	}

	if host, _, err := net.SplitHostPort(c.Request.RemoteAddr); err == nil {
		return host
	}

	if c.Request.RemoteAddr != "" {
		return c.Request.RemoteAddr
	}

	return "unknown"
}

package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"

	"go-hris-admin/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

var ErrTooManyRequests = apperror.New(apperror.CodeTooMany, "Too many requests from this IP", http.StatusTooManyRequests)

type IPRateLimiter struct {
	ips map[string]*rate.Limiter
	mu  sync.Mutex
	r   rate.Limit // requests per second
	b   int        // burst
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		ips: make(map[string]*rate.Limiter),
		r:   r,
		b:   b,
	}
}

func (i *IPRateLimiter) GetLimiter(key string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	limiter, exists := i.ips[key]
	if !exists {
		limiter = rate.NewLimiter(i.r, i.b)
		i.ips[key] = limiter
	}

	return limiter
}

// RateLimitByIP answers 429 once a client exceeds r requests per second
// (burst b). X-RateLimit-Reset carries the milliseconds until the next token.
// A non-positive r disables limiting.
func RateLimitByIP(r rate.Limit, b int) gin.HandlerFunc {
	if r <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := NewIPRateLimiter(r, b)
	resetMs := strconv.Itoa(int(math.Ceil(1000 / float64(r))))
	return func(c *gin.Context) {
		if !limiter.GetLimiter(c.ClientIP()).Allow() {
			c.Header("X-RateLimit-Reset", resetMs)
			abort(c, ErrTooManyRequests)
			return
		}
		c.Next()
	}
}

package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimit applies a per-client-IP token bucket. Used on login and payment
// initiation, where abuse would hammer bcrypt or the payment provider.
func RateLimit(r rate.Limit, burst int) gin.HandlerFunc {
	type entry struct {
		limiter *rate.Limiter
		seen    time.Time
	}

	var (
		mu        sync.Mutex
		clients   = map[string]*entry{}
		lastSweep = time.Now()
	)

	return func(c *gin.Context) {
		ip := c.ClientIP()

		mu.Lock()
		// Evict idle entries on the request path so the map stays bounded
		// without a background goroutine.
		if time.Since(lastSweep) > 5*time.Minute {
			for addr, e := range clients {
				if time.Since(e.seen) > 10*time.Minute {
					delete(clients, addr)
				}
			}
			lastSweep = time.Now()
		}
		e, ok := clients[ip]
		if !ok {
			e = &entry{limiter: rate.NewLimiter(r, burst)}
			clients[ip] = e
		}
		e.seen = time.Now()
		mu.Unlock()

		if !e.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, slow down"})
			return
		}
		c.Next()
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func rateLimitedRouter(burst int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", RateLimit(rate.Every(time.Hour), burst), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func hit(r *gin.Engine, remoteAddr string) int {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitBlocksAfterBurst(t *testing.T) {
	r := rateLimitedRouter(2)

	for i := 0; i < 2; i++ {
		if code := hit(r, "10.0.0.1:1234"); code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, code)
		}
	}
	if code := hit(r, "10.0.0.1:1234"); code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429 after burst exhausted", code)
	}
}

func TestRateLimitIsPerClient(t *testing.T) {
	r := rateLimitedRouter(1)

	if code := hit(r, "10.0.0.1:1234"); code != http.StatusOK {
		t.Fatalf("first client: status = %d, want 200", code)
	}
	if code := hit(r, "10.0.0.1:1234"); code != http.StatusTooManyRequests {
		t.Fatalf("first client: status = %d, want 429", code)
	}
	if code := hit(r, "10.0.0.2:1234"); code != http.StatusOK {
		t.Fatalf("second client must have its own bucket, status = %d", code)
	}
}

func TestRateLimitSpawnsNoGoroutines(t *testing.T) {
	before := runtime.NumGoroutine()
	for i := 0; i < 8; i++ {
		_ = RateLimit(rate.Every(time.Second), 1)
	}
	// Give any stray goroutine a chance to start before counting.
	time.Sleep(10 * time.Millisecond)
	if after := runtime.NumGoroutine(); after > before {
		t.Fatalf("goroutines grew from %d to %d after building limiters", before, after)
	}
}

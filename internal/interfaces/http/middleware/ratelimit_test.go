package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter(t *testing.T) {
	t.Run("allows requests up to the limit", func(t *testing.T) {
		limiter := NewRateLimiter(5, time.Minute)

		for i := 0; i < 5; i++ {
			assert.True(t, limiter.Allow("10.0.0.1"), "request %d should pass", i+1)
		}
		assert.False(t, limiter.Allow("10.0.0.1"))
	})

	t.Run("keys do not share buckets", func(t *testing.T) {
		limiter := NewRateLimiter(2, time.Minute)

		assert.True(t, limiter.Allow("10.0.0.1"))
		assert.True(t, limiter.Allow("10.0.0.1"))
		assert.False(t, limiter.Allow("10.0.0.1"))

		assert.True(t, limiter.Allow("10.0.0.2"))
		assert.True(t, limiter.Allow("10.0.0.2"))
	})

	t.Run("bucket refills when the window elapses", func(t *testing.T) {
		limiter := NewRateLimiter(2, 50*time.Millisecond)

		assert.True(t, limiter.Allow("10.0.0.3"))
		assert.True(t, limiter.Allow("10.0.0.3"))
		assert.False(t, limiter.Allow("10.0.0.3"))

		time.Sleep(60 * time.Millisecond)

		assert.True(t, limiter.Allow("10.0.0.3"))
	})

	t.Run("remaining tracks consumption", func(t *testing.T) {
		limiter := NewRateLimiter(5, time.Minute)

		assert.Equal(t, 5, limiter.Remaining("fresh"))
		limiter.Allow("fresh")
		limiter.Allow("fresh")
		assert.Equal(t, 3, limiter.Remaining("fresh"))
	})

	t.Run("counts accurately under concurrency", func(t *testing.T) {
		limiter := NewRateLimiter(100, time.Minute)

		var wg sync.WaitGroup
		var mu sync.Mutex
		allowed := 0
		for i := 0; i < 150; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if limiter.Allow("shared") {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 100, allowed)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newLimitedRouter := func(limiter *RateLimiter) *gin.Engine {
		router := gin.New()
		router.Use(RateLimit(limiter))
		router.GET("/stages", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})
		return router
	}

	t.Run("passes requests within the limit and sets headers", func(t *testing.T) {
		router := newLimitedRouter(NewRateLimiter(3, time.Minute))

		req := httptest.NewRequest(http.MethodGet, "/stages", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("returns 429 once the limit is spent", func(t *testing.T) {
		router := newLimitedRouter(NewRateLimiter(2, time.Minute))

		for i := 0; i < 2; i++ {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stages", nil))
			assert.Equal(t, http.StatusOK, w.Code)
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stages", nil))

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_RATE_LIMITED")
	})

	t.Run("scopes the bucket by organization header", func(t *testing.T) {
		router := newLimitedRouter(NewRateLimiter(1, time.Minute))

		first := httptest.NewRequest(http.MethodGet, "/stages", nil)
		first.Header.Set(OrganizationHeaderKey, "org-alpha")
		w1 := httptest.NewRecorder()
		router.ServeHTTP(w1, first)
		assert.Equal(t, http.StatusOK, w1.Code)

		repeat := httptest.NewRequest(http.MethodGet, "/stages", nil)
		repeat.Header.Set(OrganizationHeaderKey, "org-alpha")
		w2 := httptest.NewRecorder()
		router.ServeHTTP(w2, repeat)
		assert.Equal(t, http.StatusTooManyRequests, w2.Code)

		other := httptest.NewRequest(http.MethodGet, "/stages", nil)
		other.Header.Set(OrganizationHeaderKey, "org-beta")
		w3 := httptest.NewRecorder()
		router.ServeHTTP(w3, other)
		assert.Equal(t, http.StatusOK, w3.Code)
	})
}

func TestRateLimitByKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("limits by the extracted key", func(t *testing.T) {
		limiter := NewRateLimiter(1, time.Minute)
		router := gin.New()
		router.Use(RateLimitByKey(limiter, func(c *gin.Context) string {
			return c.GetHeader("X-User-ID")
		}))
		router.GET("/stages", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		first := httptest.NewRequest(http.MethodGet, "/stages", nil)
		first.Header.Set("X-User-ID", "user-1")
		w1 := httptest.NewRecorder()
		router.ServeHTTP(w1, first)
		assert.Equal(t, http.StatusOK, w1.Code)

		repeat := httptest.NewRequest(http.MethodGet, "/stages", nil)
		repeat.Header.Set("X-User-ID", "user-1")
		w2 := httptest.NewRecorder()
		router.ServeHTTP(w2, repeat)
		assert.Equal(t, http.StatusTooManyRequests, w2.Code)
	})
}

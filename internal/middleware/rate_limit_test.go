package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"ems-sync/internal/middleware"
	"ems-sync/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimitByIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", middleware.RateLimitByIP(0.001, 1), func(c *gin.Context) { c.Status(http.StatusOK) })

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "TOO_MANY_REQUESTS")
}

func TestRateLimitBySession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/",
		func(c *gin.Context) {
			if sid := c.GetHeader("X-Test-Session"); sid != "" {
				c.Set(contextutil.GinSessionIDKey, sid)
			}
			c.Next()
		},
		middleware.RateLimitBySession(0.001, 1),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	call := func(sid string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if sid != "" {
			req.Header.Set("X-Test-Session", sid)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, call("a"))
	assert.Equal(t, http.StatusTooManyRequests, call("a"))
	// separate buckets per session, and for anonymous callers by IP
	assert.Equal(t, http.StatusOK, call("b"))
	assert.Equal(t, http.StatusOK, call(""))
	assert.Equal(t, http.StatusTooManyRequests, call(""))
}

func TestKeyedRateLimiter_ReusesLimiter(t *testing.T) {
	k := middleware.NewKeyedRateLimiter(1, 1)
	assert.Same(t, k.GetLimiter("x"), k.GetLimiter("x"))
	assert.NotSame(t, k.GetLimiter("x"), k.GetLimiter("y"))
}

package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"ems-sync/internal/auth"
	"ems-sync/internal/employee"
	"ems-sync/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func guardedRouter(svc auth.Service, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/private", auth.SessionContext(svc, auth.DefaultCookieName), auth.RequireAuthenticated(), handler)
	return r
}

func TestSessionContext(t *testing.T) {
	t.Run("authenticated request reaches the handler", func(t *testing.T) {
		sess := settledSession(t, &employee.Employee{ID: "EMP001"})
		svc := &fakeAuthService{
			ResolveFn: func(ctx context.Context, sid string) (*auth.Session, error) { return sess, nil },
		}

		var sidFromGin any
		var sidFromCtx string
		r := guardedRouter(svc, func(c *gin.Context) {
			sidFromGin, _ = c.Get(contextutil.GinSessionIDKey)
			sidFromCtx = contextutil.GetSessionID(c.Request.Context())
			c.Status(http.StatusNoContent)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set(auth.SessionIDHeader, "sid-1")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "sid-1", sidFromGin)
		assert.Equal(t, "sid-1", sidFromCtx)
	})

	t.Run("unauthenticated request is rejected", func(t *testing.T) {
		svc := &fakeAuthService{
			ResolveFn: func(ctx context.Context, sid string) (*auth.Session, error) {
				return auth.NewAnonymousSession(zap.NewNop()), nil
			},
		}
		called := false
		r := guardedRouter(svc, func(c *gin.Context) { called = true })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, called)
	})
}

func TestRequireAuthenticated_WithoutSessionContextPanics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	assert.Panics(t, func() { auth.RequireAuthenticated()(c) })
}

func TestSessionIDFromRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(auth.SessionIDHeader, "from-header")
	req.AddCookie(&http.Cookie{Name: auth.DefaultCookieName, Value: "from-cookie"})
	c.Request = req

	assert.Equal(t, "from-cookie", auth.SessionIDFromRequest(c, auth.DefaultCookieName))
	assert.Equal(t, "from-header", auth.SessionIDFromRequest(c, "other_cookie"))
}

package auth

import (
	"net/http"

	autherrors "ems-sync/internal/auth/errors"
	"ems-sync/internal/shared/contextutil"
	"ems-sync/internal/shared/response"

	"github.com/gin-gonic/gin"
)

const (
	DefaultCookieName = "ems_session"
	SessionIDHeader   = "X-Session-ID"
)

// SessionIDFromRequest prefers the cookie and falls back to X-Session-ID for
// clients without a cookie jar.
func SessionIDFromRequest(c *gin.Context, cookieName string) string {
	if sid, err := c.Cookie(cookieName); err == nil && sid != "" {
		return sid
	}
	return c.GetHeader(SessionIDHeader)
}

// SessionContext resolves the caller's session once per request and makes it
// available through MustFromContext.
func SessionContext(svc Service, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := SessionIDFromRequest(c, cookieName)

		sess, err := svc.Resolve(c.Request.Context(), sid)
		if err != nil {
			response.AbortWithError(c, err)
			return
		}

		ctx := WithSession(c.Request.Context(), sess)
		if sess.IsAuthenticated() {
			c.Set(contextutil.GinSessionIDKey, sid)
			ctx = contextutil.WithSessionID(ctx, sid)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireAuthenticated must run after SessionContext.
func RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !MustFromContext(c.Request.Context()).IsAuthenticated() {
			e := autherrors.ErrUnauthenticated
			response.Error(c, http.StatusUnauthorized, e.Code, e.Message, nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

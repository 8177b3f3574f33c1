package auth

import (
	"ems-sync/internal/shared/apperror"
	"ems-sync/internal/shared/response"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CookieConfig struct {
	Name   string
	MaxAge int
	Secure bool
}

type Handler struct {
	service Service
	cookie  CookieConfig
	logger  *zap.Logger
}

func NewHandler(s Service, cookie CookieConfig, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("auth.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.handler")
	}
	if cookie.Name == "" {
		cookie.Name = DefaultCookieName
	}
	return &Handler{service: s, cookie: cookie, logger: l}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("auth request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) setSessionCookie(c *gin.Context, sid string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    sid,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, apperror.MapValidationError(err))
		return
	}

	sid := SessionIDFromRequest(c, h.cookie.Name)
	resp, err := h.service.Login(c.Request.Context(), sid, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.setSessionCookie(c, resp.SessionID, h.cookie.MaxAge)
	response.Success(c, http.StatusOK, resp, nil)
}

// Me reports the session resolved by SessionContext, authenticated or not.
func (h *Handler) Me(c *gin.Context) {
	response.Success(c, http.StatusOK, MustFromContext(c.Request.Context()).View(), nil)
}

func (h *Handler) Refresh(c *gin.Context) {
	view, err := h.service.Refresh(c.Request.Context(), SessionIDFromRequest(c, h.cookie.Name))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, view, nil)
}

func (h *Handler) Logout(c *gin.Context) {
	view := h.service.Logout(c.Request.Context(), SessionIDFromRequest(c, h.cookie.Name))

	h.setSessionCookie(c, "", -1)
	response.Success(c, http.StatusOK, view, nil)
}

package autherrors

import (
	"ems-sync/internal/shared/apperror"
	"errors"
	"net/http"
)

var (
	ErrInvalidCredentials = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid email or password",
		http.StatusUnauthorized,
	)
	ErrUnauthenticated = apperror.New(
		apperror.CodeUnauthorized,
		"Authentication is required",
		http.StatusUnauthorized,
	)
	ErrSessionNotLoaded = apperror.New(
		apperror.CodeSessionNotLoaded,
		"Session is still loading",
		http.StatusServiceUnavailable,
	)
	ErrSessionStore = apperror.New(
		apperror.CodeServiceUnavailable,
		"Session storage is unavailable",
		http.StatusServiceUnavailable,
	)
)

// Gateway level failures. They never reach the client: the session collapses
// all of them into "unauthenticated".
var (
	ErrInvalidToken    = errors.New("invalid session token")
	ErrSessionMismatch = errors.New("session token issued for another session")
	ErrSubjectNotFound = errors.New("session subject no longer in directory")
	ErrEmptySecret     = errors.New("token secret must not be empty")
)

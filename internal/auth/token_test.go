package auth

import (
	"testing"
	"time"

	autherrors "ems-sync/internal/auth/errors"

	"github.com/stretchr/testify/assert"
)

func newTestSigner(t *testing.T, secret string, now time.Time) *TokenSigner {
	t.Helper()
	s, err := NewTokenSigner(secret, time.Hour)
	assert.NoError(t, err)
	s.now = func() time.Time { return now }
	return s
}

func TestTokenSigner(t *testing.T) {
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

	t.Run("round trip", func(t *testing.T) {
		s := newTestSigner(t, "secret", now)

		token, err := s.Sign("EMP001", "sid-1")
		assert.NoError(t, err)

		claims, err := s.Parse(token)
		assert.NoError(t, err)
		assert.Equal(t, "EMP001", claims.EmployeeID)
		assert.Equal(t, "sid-1", claims.SessionID)
		assert.Equal(t, now.Add(time.Hour), claims.ExpiresAt.Time.UTC())
	})

	t.Run("expired", func(t *testing.T) {
		s := newTestSigner(t, "secret", now)
		token, _ := s.Sign("EMP001", "sid-1")

		s.now = func() time.Time { return now.Add(2 * time.Hour) }
		_, err := s.Parse(token)

		assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, _ := newTestSigner(t, "secret", now).Sign("EMP001", "sid-1")

		_, err := newTestSigner(t, "other", now).Parse(token)

		assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := newTestSigner(t, "secret", now).Parse("not.a.token")
		assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
	})

	t.Run("missing employee id", func(t *testing.T) {
		s := newTestSigner(t, "secret", now)
		token, _ := s.Sign("", "sid-1")

		_, err := s.Parse(token)

		assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
	})

	t.Run("empty secret", func(t *testing.T) {
		_, err := NewTokenSigner("", time.Hour)
		assert.ErrorIs(t, err, autherrors.ErrEmptySecret)
	})
}

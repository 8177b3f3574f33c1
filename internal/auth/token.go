package auth

import (
	"fmt"
	"time"

	autherrors "ems-sync/internal/auth/errors"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	EmployeeID string `json:"employee_id"`
	SessionID  string `json:"sid"`
	jwt.RegisteredClaims
}

// TokenSigner issues and verifies HS256 session tokens.
type TokenSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenSigner(secret string, ttl time.Duration) (*TokenSigner, error) {
	if secret == "" {
		return nil, autherrors.ErrEmptySecret
	}
	return &TokenSigner{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (t *TokenSigner) TTL() time.Duration {
	return t.ttl
}

func (t *TokenSigner) Sign(employeeID, sid string) (string, error) {
	now := t.now()
	claims := Claims{
		EmployeeID: employeeID,
		SessionID:  sid,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   employeeID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

func (t *TokenSigner) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", autherrors.ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.EmployeeID == "" {
		return nil, autherrors.ErrInvalidToken
	}
	return claims, nil
}

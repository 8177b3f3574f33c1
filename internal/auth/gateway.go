package auth

import (
	"context"
	"fmt"

	autherrors "ems-sync/internal/auth/errors"
	"ems-sync/internal/employee"
)

// Gateway validates and clears one persisted session.
// Validate must not change what is persisted; Clear must be safe to repeat.
//
//go:generate mockgen -source=gateway.go -destination=mock/gateway_mock.go -package=mock
type Gateway interface {
	Validate(ctx context.Context) (*employee.Employee, error)
	Clear(ctx context.Context) error
}

// Directory resolves a session subject. *employee.Store satisfies it.
type Directory interface {
	FindByID(id string) (employee.Employee, bool)
	FindByEmail(email string) (employee.Employee, bool)
}

type noopGateway struct{}

func (noopGateway) Validate(context.Context) (*employee.Employee, error) { return nil, nil }
func (noopGateway) Clear(context.Context) error { return nil }

type tokenGateway struct {
	sid       string
	store     TokenStore
	signer    *TokenSigner
	directory Directory
}

// NewTokenGateway reads the signed token persisted under sid and resolves its
// employee_id claim against the directory.
func NewTokenGateway(sid string, store TokenStore, signer *TokenSigner, directory Directory) Gateway {
	return &tokenGateway{sid: sid, store: store, signer: signer, directory: directory}
}

func (g *tokenGateway) Validate(ctx context.Context) (*employee.Employee, error) {
	if g.sid == "" {
		return nil, nil
	}

	token, err := g.store.Load(ctx, g.sid)
	if err != nil {
		return nil, fmt.Errorf("load session token: %w", err)
	}
	if token == "" {
		return nil, nil
	}

	claims, err := g.signer.Parse(token)
	if err != nil {
		return nil, err
	}
	if claims.SessionID != g.sid {
		return nil, autherrors.ErrSessionMismatch
	}

	subject, ok := g.directory.FindByID(claims.EmployeeID)
	if !ok {
		return nil, autherrors.ErrSubjectNotFound
	}
	return &subject, nil
}

func (g *tokenGateway) Clear(ctx context.Context) error {
	if g.sid == "" {
		return nil
	}
	return g.store.Delete(ctx, g.sid)
}

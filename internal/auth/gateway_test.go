package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	autherrors "ems-sync/internal/auth/errors"
	authMock "ems-sync/internal/auth/mock"
	"ems-sync/internal/employee"
	"ems-sync/internal/employee/seed"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func gatewayDirectory() *employee.Store {
	return employee.NewStore(seed.Static(
		employee.Employee{ID: "EMP001", Name: "Ann", Email: "ann@corp.io"},
	), zap.NewNop())
}

func TestTokenGateway_Validate(t *testing.T) {
	ctx := context.Background()
	signer := newTestSigner(t, "secret", time.Now())

	t.Run("valid token resolves the subject", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := authMock.NewMockTokenStore(ctrl)
		token, _ := signer.Sign("EMP001", "sid-1")
		store.EXPECT().Load(gomock.Any(), "sid-1").Return(token, nil)

		got, err := NewTokenGateway("sid-1", store, signer, gatewayDirectory()).Validate(ctx)

		assert.NoError(t, err)
		assert.Equal(t, "Ann", got.Name)
	})

	t.Run("no session id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := authMock.NewMockTokenStore(ctrl)

		got, err := NewTokenGateway("", store, signer, gatewayDirectory()).Validate(ctx)

		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("nothing stored", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := authMock.NewMockTokenStore(ctrl)
		store.EXPECT().Load(gomock.Any(), "sid-1").Return("", nil)

		got, err := NewTokenGateway("sid-1", store, signer, gatewayDirectory()).Validate(ctx)

		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("store failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := authMock.NewMockTokenStore(ctrl)
		boom := errors.New("connection refused")
		store.EXPECT().Load(gomock.Any(), "sid-1").Return("", boom)

		_, err := NewTokenGateway("sid-1", store, signer, gatewayDirectory()).Validate(ctx)

		assert.ErrorIs(t, err, boom)
	})

	t.Run("token issued for another session", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := authMock.NewMockTokenStore(ctrl)
		token, _ := signer.Sign("EMP001", "sid-other")
		store.EXPECT().Load(gomock.Any(), "sid-1").Return(token, nil)

		_, err := NewTokenGateway("sid-1", store, signer, gatewayDirectory()).Validate(ctx)

		assert.ErrorIs(t, err, autherrors.ErrSessionMismatch)
	})

	t.Run("subject removed from directory", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := authMock.NewMockTokenStore(ctrl)
		token, _ := signer.Sign("EMP001", "sid-1")
		store.EXPECT().Load(gomock.Any(), "sid-1").Return(token, nil)

		dir := gatewayDirectory()
		dir.Remove("EMP001")

		_, err := NewTokenGateway("sid-1", store, signer, dir).Validate(ctx)

		assert.ErrorIs(t, err, autherrors.ErrSubjectNotFound)
	})
}

func TestTokenGateway_Clear(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := authMock.NewMockTokenStore(ctrl)
	store.EXPECT().Delete(gomock.Any(), "sid-1").Return(nil).Times(2)

	gw := NewTokenGateway("sid-1", store, nil, nil)

	assert.NoError(t, gw.Clear(context.Background()))
	assert.NoError(t, gw.Clear(context.Background()))
	assert.NoError(t, NewTokenGateway("", store, nil, nil).Clear(context.Background()))
}

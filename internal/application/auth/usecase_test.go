package auth_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Estoque-api/internal/application/apptest"
	"github.com/jhoicas/Estoque-api/internal/application/auth"
	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/pkg/jwt"
	"github.com/jhoicas/Estoque-api/pkg/logger"
)

const testSecret = "test-secret-key-for-unit-tests"

func newAuth(t *testing.T) (*auth.AuthUseCase, *apptest.Store, *entity.User) {
	t.Helper()
	store := apptest.NewStore()
	hash, err := auth.HashPassword("secreta1")
	require.NoError(t, err)
	user := &entity.User{ID: uuid.NewString(), Name: "Admin", Login: "admin", PasswordHash: hash, Role: entity.RoleAdmin, Active: true}
	require.NoError(t, store.Users().Create(context.Background(), user))
	uc := auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "estoque-test"}, logger.Nop())
	return uc, store, user
}

func TestLogin_EmiteTokenConClaims(t *testing.T) {
	uc, _, user := newAuth(t)
	res, err := uc.Login(context.Background(), dto.LoginRequest{Login: "admin", Password: "secreta1"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, res.User.ID)

	userID, role, err := jwt.Parse(testSecret, res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, entity.RoleAdmin, role)
}

func TestLogin_Rechazos(t *testing.T) {
	uc, store, user := newAuth(t)
	ctx := context.Background()

	_, err := uc.Login(ctx, dto.LoginRequest{Login: "admin", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Login: "nadie", Password: "secreta1"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	user.Active = false
	require.NoError(t, store.Users().Update(ctx, user))
	_, err = uc.Login(ctx, dto.LoginRequest{Login: "admin", Password: "secreta1"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "un usuario inactivo no puede entrar")
}

func TestMe(t *testing.T) {
	uc, _, user := newAuth(t)
	me, err := uc.Me(context.Background(), auth.Principal{UserID: user.ID, Role: user.Role})
	require.NoError(t, err)
	assert.Equal(t, "admin", me.Login)

	_, err = uc.Me(context.Background(), auth.Principal{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestChangePassword(t *testing.T) {
	uc, _, user := newAuth(t)
	ctx := context.Background()
	p := auth.Principal{UserID: user.ID, Role: user.Role}

	err := uc.ChangePassword(ctx, p, dto.ChangePasswordRequest{CurrentPassword: "mal", NewPassword: "nueva123", Confirmation: "nueva123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	err = uc.ChangePassword(ctx, p, dto.ChangePasswordRequest{CurrentPassword: "secreta1", NewPassword: "nueva123", Confirmation: "nueva124"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = uc.ChangePassword(ctx, p, dto.ChangePasswordRequest{CurrentPassword: "secreta1", NewPassword: "corta", Confirmation: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, uc.ChangePassword(ctx, p, dto.ChangePasswordRequest{CurrentPassword: "secreta1", NewPassword: "nueva123", Confirmation: "nueva123"}))
	_, err = uc.Login(ctx, dto.LoginRequest{Login: "admin", Password: "nueva123"})
	assert.NoError(t, err)
}

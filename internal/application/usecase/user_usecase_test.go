package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Estoque-api/internal/application/apptest"
	"github.com/jhoicas/Estoque-api/internal/application/auth"
	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/application/usecase"
	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/pkg/logger"
)

var (
	admin    = auth.Principal{UserID: "00000000-0000-0000-0000-0000000000aa", Role: entity.RoleAdmin}
	operador = auth.Principal{UserID: "00000000-0000-0000-0000-0000000000bb", Role: "Operador"}
)

func TestUserUseCase_SoloAdministrador(t *testing.T) {
	uc := usecase.NewUserUseCase(apptest.NewStore().Users(), logger.Nop())
	_, err := uc.List(context.Background(), operador)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.Create(context.Background(), operador, dto.CreateUserRequest{Name: "x", Login: "x", Password: "123456", Role: "x"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.List(context.Background(), auth.Principal{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestUserUseCase_CrearActualizarYAlternar(t *testing.T) {
	uc := usecase.NewUserUseCase(apptest.NewStore().Users(), logger.Nop())
	ctx := context.Background()

	u, err := uc.Create(ctx, admin, dto.CreateUserRequest{Name: "Bea", Login: "bea", Password: "clave12", Role: "Operador"})
	require.NoError(t, err)
	assert.True(t, u.Active)

	_, err = uc.Create(ctx, admin, dto.CreateUserRequest{Name: "Otra", Login: "bea", Password: "clave12", Role: "Operador"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, admin, dto.CreateUserRequest{Name: "Corta", Login: "corta", Password: "123", Role: "Operador"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	updated, err := uc.Update(ctx, admin, u.ID, dto.UpdateUserRequest{Name: "Beatriz", Login: "beatriz", Role: entity.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, "beatriz", updated.Login)
	assert.Equal(t, entity.RoleAdmin, updated.Role)

	toggled, err := uc.Toggle(ctx, admin, u.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Active)
	toggled, err = uc.Toggle(ctx, admin, u.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Active)

	_, err = uc.Toggle(ctx, admin, admin.UserID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = uc.Get(ctx, admin, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := uc.List(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

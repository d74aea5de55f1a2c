package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Estoque-api/internal/application/auth"
	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
	"github.com/jhoicas/Estoque-api/pkg/logger"
)

// UserUseCase administración de usuarios (solo Administrador).
// Los usuarios no se borran: Toggle alterna el estado activo.
type UserUseCase struct {
	repo repository.UserRepository
	log  *logger.Logger
	now  func() time.Time
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, log *logger.Logger) *UserUseCase {
	return &UserUseCase{repo: repo, log: log.Component("users"), now: time.Now}
}

func requireAdmin(p auth.Principal) error {
	if !p.Authenticated() {
		return domain.ErrUnauthorized
	}
	if !p.IsAdmin() {
		return domain.NewError(domain.ErrForbidden, "se requiere permiso de administrador")
	}
	return nil
}

// List todos los usuarios.
func (uc *UserUseCase) List(ctx context.Context, p auth.Principal) ([]dto.UserResponse, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	users, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, auth.ToUserResponse(u))
	}
	return out, nil
}

// Get obtiene un usuario por ID.
func (uc *UserUseCase) Get(ctx context.Context, p auth.Principal, id string) (*dto.UserResponse, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	u, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	res := auth.ToUserResponse(u)
	return &res, nil
}

// Create alta de usuario activo. Login repetido devuelve ErrDuplicate.
func (uc *UserUseCase) Create(ctx context.Context, p auth.Principal, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	name, login, role, err := normalizeUser(in.Name, in.Login, in.Role)
	if err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Duplicate("el login '" + login + "' ya está en uso")
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	u := &entity.User{
		ID:           uuid.New().String(),
		Name:         name,
		Login:        login,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", u.ID).Str("by", p.UserID).Msg("usuario creado")
	res := auth.ToUserResponse(u)
	return &res, nil
}

// Update cambia nombre, login, permiso y opcionalmente la contraseña.
func (uc *UserUseCase) Update(ctx context.Context, p auth.Principal, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	u, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	name, login, role, err := normalizeUser(in.Name, in.Login, in.Role)
	if err != nil {
		return nil, err
	}
	if login != u.Login {
		other, err := uc.repo.GetByLogin(ctx, login)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, domain.Duplicate("el login '" + login + "' ya está en uso")
		}
	}
	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	u.Name, u.Login, u.Role = name, login, role
	u.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	res := auth.ToUserResponse(u)
	return &res, nil
}

// Toggle activa o desactiva al usuario. Un administrador no puede desactivarse a sí mismo.
func (uc *UserUseCase) Toggle(ctx context.Context, p auth.Principal, id string) (*dto.UserResponse, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	if id == p.UserID {
		return nil, domain.Conflict("no puede desactivar su propio usuario")
	}
	u, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Active = !u.Active
	u.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", u.ID).Bool("active", u.Active).Msg("estado de usuario cambiado")
	res := auth.ToUserResponse(u)
	return &res, nil
}

func (uc *UserUseCase) find(ctx context.Context, id string) (*entity.User, error) {
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.NotFound("usuario no encontrado")
	}
	return u, nil
}

func normalizeUser(name, login, role string) (string, string, string, error) {
	name, login, role = strings.TrimSpace(name), strings.TrimSpace(login), strings.TrimSpace(role)
	if name == "" || login == "" || role == "" {
		return "", "", "", domain.Validation("nombre, login y permiso son obligatorios")
	}
	return name, login, role, nil
}

package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
	"github.com/jhoicas/Estoque-api/pkg/jwt"
	"github.com/jhoicas/Estoque-api/pkg/logger"
)

// PasswordMinLen longitud mínima de contraseña.
const PasswordMinLen = 6

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login y operaciones del usuario sobre su propia cuenta.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
	log      *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg, log: log.Component("auth")}
}

// Login verifica login/password de un usuario activo y emite el JWT.
// Usuario inexistente, inactivo o contraseña errónea devuelven el mismo ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByLogin(ctx, in.Login)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		uc.log.Warn().Str("login", in.Login).Msg("login rechazado")
		return nil, domain.NewError(domain.ErrUnauthorized, "login o contraseña inválidos")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		uc.log.Warn().Str("login", in.Login).Msg("login rechazado")
		return nil, domain.NewError(domain.ErrUnauthorized, "login o contraseña inválidos")
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Msg("login correcto")
	return &dto.LoginResponse{AccessToken: token, User: ToUserResponse(user)}, nil
}

// Me datos del usuario autenticado.
func (uc *AuthUseCase) Me(ctx context.Context, p Principal) (*dto.UserResponse, error) {
	user, err := uc.current(ctx, p)
	if err != nil {
		return nil, err
	}
	res := ToUserResponse(user)
	return &res, nil
}

// ChangePassword cambia la contraseña propia comprobando la actual y la confirmación.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, p Principal, in dto.ChangePasswordRequest) error {
	user, err := uc.current(ctx, p)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return domain.NewError(domain.ErrUnauthorized, "la contraseña actual no es correcta")
	}
	if in.NewPassword != in.Confirmation {
		return domain.Validation("la confirmación no coincide con la nueva contraseña")
	}
	hash, err := HashPassword(in.NewPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return err
	}
	uc.log.Info().Str("user_id", user.ID).Msg("contraseña actualizada")
	return nil
}

func (uc *AuthUseCase) current(ctx context.Context, p Principal) (*entity.User, error) {
	if !p.Authenticated() {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.userRepo.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, domain.NewError(domain.ErrUnauthorized, "la sesión ya no es válida")
	}
	return user, nil
}

// HashPassword valida la longitud mínima y devuelve el hash bcrypt.
func HashPassword(password string) (string, error) {
	if len([]rune(password)) < PasswordMinLen {
		return "", domain.Validation("la contraseña debe tener al menos 6 caracteres")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ToUserResponse mapea el usuario a la salida HTTP (sin hash).
func ToUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Login:     u.Login,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

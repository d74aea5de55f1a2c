// seed_admin crea (o reactiva) el usuario Administrador inicial.
//
// Uso: go run ./cmd/seed_admin -login admin -password <clave> [-name "Administrador"]
// Toma la conexión de las mismas variables de entorno que la API (DATABASE_URL, DB_*).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Estoque-api/internal/application/auth"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Estoque-api/pkg/config"
	"github.com/jhoicas/Estoque-api/pkg/logger"
)

func main() {
	login := flag.String("login", "admin", "login del administrador")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "contraseña (mínimo 6 caracteres)")
	name := flag.String("name", "Administrador", "nombre visible")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("aplicar esquema")
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatal().Err(err).Msg("contraseña inválida")
	}

	users := postgres.NewUserRepository(pool)
	existing, err := users.GetByLogin(ctx, *login)
	if err != nil {
		log.Fatal().Err(err).Msg("buscar usuario")
	}
	now := time.Now().UTC()
	if existing != nil {
		existing.PasswordHash = hash
		existing.Role = entity.RoleAdmin
		existing.Active = true
		existing.UpdatedAt = now
		if err := users.Update(ctx, existing); err != nil {
			log.Fatal().Err(err).Msg("actualizar usuario")
		}
		log.Info().Str("login", *login).Msg("administrador actualizado")
		return
	}

	admin := &entity.User{
		ID:           uuid.New().String(),
		Name:         *name,
		Login:        *login,
		PasswordHash: hash,
		Role:         entity.RoleAdmin,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, admin); err != nil {
		log.Fatal().Err(err).Msg("crear usuario")
	}
	log.Info().Str("login", *login).Str("id", admin.ID).Msg("administrador creado")
}

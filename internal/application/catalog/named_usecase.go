package catalog

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
	"github.com/jhoicas/Estoque-api/pkg/logger"
)

// NamedEntityUseCase CRUD común de sector, proveedor y naturaleza.
type NamedEntityUseCase struct {
	repo repository.NamedEntityRepository
	log  *logger.Logger
	now  func() time.Time
}

// NewNamedEntityUseCase construye el caso de uso para el tipo que maneja repo.
func NewNamedEntityUseCase(repo repository.NamedEntityRepository, log *logger.Logger) *NamedEntityUseCase {
	return &NamedEntityUseCase{repo: repo, log: log.Component(string(repo.Kind())), now: time.Now}
}

// Kind tipo de entidad.
func (uc *NamedEntityUseCase) Kind() entity.NamedKind { return uc.repo.Kind() }

func (uc *NamedEntityUseCase) List(ctx context.Context) ([]dto.NamedEntityResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NamedEntityResponse, 0, len(list))
	for _, e := range list {
		out = append(out, toNamedResponse(e))
	}
	return out, nil
}

func (uc *NamedEntityUseCase) Get(ctx context.Context, id string) (*dto.NamedEntityResponse, error) {
	e, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	res := toNamedResponse(e)
	return &res, nil
}

func (uc *NamedEntityUseCase) Create(ctx context.Context, in dto.NamedEntityRequest) (*dto.NamedEntityResponse, error) {
	name, err := uc.validName(in.Name)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	e := &entity.NamedEntity{ID: uuid.New().String(), Kind: uc.Kind(), Name: name, CreatedAt: now, UpdatedAt: now}
	if err := uc.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	uc.log.Info().Str("id", e.ID).Str("name", e.Name).Msg("registro creado")
	res := toNamedResponse(e)
	return &res, nil
}

// Update renombra la entidad; el nombre sigue siendo único.
func (uc *NamedEntityUseCase) Update(ctx context.Context, id string, in dto.NamedEntityRequest) (*dto.NamedEntityResponse, error) {
	name, err := uc.validName(in.Name)
	if err != nil {
		return nil, err
	}
	e, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	e.Name = name
	e.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	res := toNamedResponse(e)
	return &res, nil
}

// Delete borra solo si ningún producto la referencia; si no, ErrConflict.
func (uc *NamedEntityUseCase) Delete(ctx context.Context, id string) error {
	e, err := uc.find(ctx, id)
	if err != nil {
		return err
	}
	inUse, err := uc.repo.InUse(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return domain.Conflict(fmt.Sprintf("el %s '%s' está vinculado a productos y no puede eliminarse", uc.Kind().Label(), e.Name))
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("id", id).Msg("registro eliminado")
	return nil
}

func (uc *NamedEntityUseCase) find(ctx context.Context, id string) (*entity.NamedEntity, error) {
	e, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.NotFound(uc.Kind().Label() + " no encontrado")
	}
	return e, nil
}

func (uc *NamedEntityUseCase) validName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", domain.Validation("el nombre es obligatorio")
	}
	if utf8.RuneCountInString(name) > entity.NameMaxLen {
		return "", domain.Validation(fmt.Sprintf("el nombre no puede superar %d caracteres", entity.NameMaxLen))
	}
	return name, nil
}

func toNamedResponse(e *entity.NamedEntity) dto.NamedEntityResponse {
	return dto.NamedEntityResponse{ID: e.ID, Name: e.Name, CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt}
}

func toRefs(list []*entity.NamedEntity) []dto.NamedRef {
	out := make([]dto.NamedRef, 0, len(list))
	for _, e := range list {
		out = append(out, dto.NamedRef{ID: e.ID, Name: e.Name})
	}
	return out
}

func ptrs(list []entity.NamedEntity) []*entity.NamedEntity {
	out := make([]*entity.NamedEntity, len(list))
	for i := range list {
		out[i] = &list[i]
	}
	return out
}

func joinNames(list []entity.NamedEntity) string {
	names := make([]string, 0, len(list))
	for _, e := range list {
		names = append(names, e.Name)
	}
	slices.Sort(names)
	return strings.Join(names, ", ")
}

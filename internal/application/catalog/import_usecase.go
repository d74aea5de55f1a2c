package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Estoque-api/internal/application/auth"
	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/application/ports"
	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
	"github.com/jhoicas/Estoque-api/pkg/logger"
)

// ImportReason motivo del movimiento de saldo inicial creado por la importación.
const ImportReason = "Importación inicial"

// ImportRow fila ya decodificada del archivo. Line es el número de línea en el archivo (cabecera = 1).
type ImportRow struct {
	Line        int
	Code        string
	Name        string
	Price       string
	Description string
	Suppliers   string // nombres separados por coma
	Natures     string // nombres separados por coma
	Quantity    string
}

// ImportUseCase alta masiva de productos con saldo inicial opcional.
type ImportUseCase struct {
	txRunner ports.TxRunner
	log      *logger.Logger
	now      func() time.Time
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(txRunner ports.TxRunner, log *logger.Logger) *ImportUseCase {
	return &ImportUseCase{txRunner: txRunner, log: log.Component("import"), now: time.Now}
}

// BulkImport procesa todas las filas en una sola transacción. Las filas inválidas o con
// código repetido se saltan acumulando un mensaje; un fallo de la BD revierte el lote entero.
func (uc *ImportUseCase) BulkImport(ctx context.Context, p auth.Principal, rows []ImportRow) (*dto.ImportResultResponse, error) {
	if !p.Authenticated() {
		return nil, domain.ErrUnauthorized
	}
	if len(rows) == 0 {
		return nil, domain.Validation("el archivo no contiene filas")
	}

	var (
		imported int
		messages []string
	)
	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, movRepo repository.MovementRepository) error {
		imported, messages = 0, nil
		for _, row := range rows {
			msg, err := uc.importRow(ctx, p, productRepo, movRepo, row)
			if err != nil {
				return err
			}
			if msg != "" {
				messages = append(messages, fmt.Sprintf("Línea %d: %s", row.Line, msg))
				continue
			}
			imported++
		}
		return nil
	})
	if err != nil {
		uc.log.Error().Err(err).Int("rows", len(rows)).Msg("importación revertida")
		return nil, err
	}

	uc.log.Info().Int("imported", imported).Int("skipped", len(messages)).Msg("importación completada")
	if messages == nil {
		messages = []string{}
	}
	return &dto.ImportResultResponse{
		Message:  fmt.Sprintf("%d productos importados", imported),
		Imported: imported,
		Errors:   messages,
	}, nil
}

// importRow devuelve un mensaje si la fila se salta, o error si hay que abortar el lote.
func (uc *ImportUseCase) importRow(
	ctx context.Context,
	p auth.Principal,
	productRepo repository.ProductRepository,
	movRepo repository.MovementRepository,
	row ImportRow,
) (string, error) {
	code := strings.TrimSpace(row.Code)
	name := strings.TrimSpace(row.Name)
	if code == "" || name == "" {
		return "código y nombre son obligatorios", nil
	}
	existing, err := productRepo.GetByCode(ctx, code)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return fmt.Sprintf("el código '%s' ya existe", code), nil
	}
	price, err := ParsePrice(row.Price)
	if err != nil {
		return domain.Message(err), nil
	}
	var quantity int64
	if q := strings.TrimSpace(row.Quantity); q != "" {
		quantity, err = strconv.ParseInt(q, 10, 64)
		if err != nil {
			return fmt.Sprintf("cantidad inválida '%s'", q), nil
		}
	}

	now := uc.now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Code:        code,
		Name:        name,
		Description: row.Description,
		Price:       price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := normalizeProduct(product); err != nil {
		return domain.Message(err), nil
	}
	if err := productRepo.Create(ctx, product); err != nil {
		return "", err
	}
	if err := productRepo.AddRelationsByName(ctx, product.ID, entity.KindSupplier, splitNames(row.Suppliers)); err != nil {
		return "", err
	}
	if err := productRepo.AddRelationsByName(ctx, product.ID, entity.KindNature, splitNames(row.Natures)); err != nil {
		return "", err
	}
	if quantity > 0 {
		err := movRepo.Create(ctx, &entity.StockMovement{
			ID:        uuid.New().String(),
			ProductID: product.ID,
			UserID:    p.UserID,
			Kind:      entity.MovementEntry,
			Quantity:  quantity,
			Reason:    ImportReason,
			CreatedAt: now,
		})
		if err != nil {
			return "", err
		}
	}
	return "", nil
}

func splitNames(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if name := strings.TrimSpace(part); name != "" {
			out = append(out, name)
		}
	}
	return out
}

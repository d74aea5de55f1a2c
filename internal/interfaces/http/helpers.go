package http

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/pkg/logger"
)

var validate = validator.New()

// errorMapping tipo de dominio → status HTTP y código. El orden importa:
// un producto inexistente en una escritura del libro es NotFound y también Validation,
// y debe responder 404.
var errorMapping = []struct {
	kind   error
	status int
	code   string
}{
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInsufficientBalance, fiber.StatusConflict, "INSUFFICIENT_BALANCE"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
}

// respondError traduce un error de caso de uso a la respuesta JSON.
// Los errores no tipados se devuelven como 500 sin exponer el detalle.
func respondError(c *fiber.Ctx, err error) error {
	for _, m := range errorMapping {
		if errors.Is(err, m.kind) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: domain.Message(err)})
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
}

// bindAndValidate parsea el body JSON y aplica las etiquetas de validator.
// Si falla ya escribió la respuesta: el handler debe retornar ok=false sin escribir otra.
func bindAndValidate(c *fiber.Ctx, req any) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(req); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		fields := make([]string, 0, len(ve))
		for _, fe := range ve {
			fields = append(fields, fieldName(fe)+": "+fe.Tag())
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "campos inválidos: " + strings.Join(fields, ", ")})
	}
	return true, nil
}

func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// requireParam devuelve el parámetro de ruta o responde 400 MISSING_ID.
func requireParam(c *fiber.Ctx, name string) (string, bool, error) {
	v := strings.TrimSpace(c.Params(name))
	if v == "" {
		return "", false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: name + " es requerido"})
	}
	return v, true, nil
}

// requireID como requireParam, pero un id que no es UUID no puede existir: responde 404.
func requireID(c *fiber.Ctx, name string) (string, bool, error) {
	id, ok, err := requireParam(c, name)
	if !ok {
		return "", false, err
	}
	if uuid.Validate(id) != nil {
		return "", false, respondError(c, domain.NotFound("recurso no encontrado: "+name+" inválido"))
	}
	return id, true, nil
}

// queryID lee un id opcional de la query; si viene y no es UUID responde 400 VALIDATION.
func queryID(c *fiber.Ctx, name string) (string, bool, error) {
	id := strings.TrimSpace(c.Query(name))
	if id != "" && uuid.Validate(id) != nil {
		return "", false, respondError(c, domain.Validation(name+" debe ser un UUID"))
	}
	return id, true, nil
}

// ErrorHandler manejador global de Fiber: rutas inexistentes, límites de body y panics recuperados.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code := "HTTP_ERROR"
			switch fe.Code {
			case fiber.StatusNotFound:
				code = "ROUTE_NOT_FOUND"
			case fiber.StatusRequestEntityTooLarge:
				code = "PAYLOAD_TOO_LARGE"
			case fiber.StatusMethodNotAllowed:
				code = "METHOD_NOT_ALLOWED"
			}
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
		}
		if !domain.IsDomain(err) {
			log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
		}
		return respondError(c, err)
	}
}

package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Estoque-api/internal/application/catalog"
	"github.com/jhoicas/Estoque-api/internal/application/dto"
)

// NamedEntityHandler CRUD de sectores, proveedores y naturalezas; una instancia por tipo.
type NamedEntityHandler struct {
	uc *catalog.NamedEntityUseCase
}

// NewNamedEntityHandler construye el handler para el tipo que maneja uc.
func NewNamedEntityHandler(uc *catalog.NamedEntityUseCase) *NamedEntityHandler {
	return &NamedEntityHandler{uc: uc}
}

// List godoc
// @Summary      Listar sectores / proveedores / naturalezas
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.NamedEntityResponse]
// @Router       /api/sectors [get]
// @Router       /api/suppliers [get]
// @Router       /api/natures [get]
func (h *NamedEntityHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewList(out))
}

// GetByID godoc
// @Summary      Obtener por ID
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.NamedEntityResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sectors/{id} [get]
// @Router       /api/suppliers/{id} [get]
// @Router       /api/natures/{id} [get]
func (h *NamedEntityHandler) GetByID(c *fiber.Ctx) error {
	id, ok, err := requireID(c, "id")
	if !ok {
		return err
	}
	out, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear sector / proveedor / naturaleza
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.NamedEntityRequest  true  "Nombre"
// @Success      201   {object}  dto.NamedEntityResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sectors [post]
// @Router       /api/suppliers [post]
// @Router       /api/natures [post]
func (h *NamedEntityHandler) Create(c *fiber.Ctx) error {
	var in dto.NamedEntityRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Renombrar
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID"
// @Param        body  body  dto.NamedEntityRequest  true  "Nombre"
// @Success      200   {object}  dto.NamedEntityResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sectors/{id} [put]
// @Router       /api/suppliers/{id} [put]
// @Router       /api/natures/{id} [put]
func (h *NamedEntityHandler) Update(c *fiber.Ctx) error {
	id, ok, err := requireID(c, "id")
	if !ok {
		return err
	}
	var in dto.NamedEntityRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.MessageResponse
// @Failure      409  {object}  dto.ErrorResponse "referenciado por productos"
// @Router       /api/sectors/{id} [delete]
// @Router       /api/suppliers/{id} [delete]
// @Router       /api/natures/{id} [delete]
func (h *NamedEntityHandler) Delete(c *fiber.Ctx) error {
	id, ok, err := requireID(c, "id")
	if !ok {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "registro eliminado"})
}

package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jhoicas/Estoque-api/internal/application/catalog"
	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/application/report"
	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/infrastructure/csvimport"
)

// ProductHandler maneja las peticiones HTTP del catálogo de productos (protegido).
type ProductHandler struct {
	uc       *catalog.ProductUseCase
	importUC *catalog.ImportUseCase
	reports  *report.UseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *catalog.ProductUseCase, importUC *catalog.ImportUseCase, reports *report.UseCase) *ProductHandler {
	return &ProductHandler{uc: uc, importUC: importUC, reports: reports}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
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

// GetByCode godoc
// @Summary      Obtener producto por código
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        code  path  string  true  "Código principal"
// @Success      200   {object}  dto.ProductResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/code/{code} [get]
func (h *ProductHandler) GetByCode(c *fiber.Ctx) error {
	code, ok, err := requireParam(c, "code")
	if !ok {
		return err
	}
	out, err := h.uc.GetByCode(c.UserContext(), code)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Buscar productos
// @Description  q busca sin distinguir mayúsculas en nombre, código, código B y código C.
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        q          query  string  false  "Término de búsqueda"
// @Param        sector_id  query  string  false  "Filtrar por sector"
// @Success      200  {object}  dto.ListResponse[dto.ProductSummaryResponse]
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	sectorID, ok, err := queryID(c, "sector_id")
	if !ok {
		return err
	}
	out, err := h.uc.Search(c.UserContext(), entity.ProductFilter{
		Term:     c.Query("q"),
		SectorID: sectorID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewList(out))
}

// Update godoc
// @Summary      Actualizar producto
// @Description  Solo se modifican los campos enviados. supplier_ids / nature_ids reemplazan el conjunto.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok, err := requireID(c, "id")
	if !ok {
		return err
	}
	var in dto.UpdateProductRequest
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
// @Summary      Eliminar producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse "tiene movimientos de stock"
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok, err := requireID(c, "id")
	if !ok {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "producto eliminado"})
}

// FormData godoc
// @Summary      Datos para el formulario de producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Producto a editar"
// @Success      200  {object}  dto.ProductFormDataResponse
// @Router       /api/forms/product-data [get]
func (h *ProductHandler) FormData(c *fiber.Ctx) error {
	productID := strings.TrimSpace(c.Query("product_id"))
	if productID != "" && uuid.Validate(productID) != nil {
		return respondError(c, domain.NotFound("producto no encontrado"))
	}
	out, err := h.uc.FormData(c.UserContext(), productID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Import godoc
// @Summary      Importación masiva por CSV
// @Description  Columnas: codigo, nome, preco, descricao, fornecedores_nomes, naturezas_nomes, quantidade.
// @Tags         products
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Archivo CSV"
// @Success      200   {object}  dto.ImportResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products/import [post]
func (h *ProductHandler) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "el campo file es requerido"})
	}
	if fh.Size > csvimport.MaxSize {
		return respondError(c, domain.Validation("el archivo supera el tamaño máximo permitido"))
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := csvimport.Decode(f)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.importUC.BulkImport(c.UserContext(), GetPrincipal(c), rows)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Labels godoc
// @Summary      Etiquetas con código de barras
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      application/pdf
// @Param        body  body  dto.LabelsRequest  true  "IDs de productos"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/labels [post]
func (h *ProductHandler) Labels(c *fiber.Ctx) error {
	var in dto.LabelsRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	pdf, err := h.reports.Labels(c.UserContext(), in.ProductIDs)
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, contentTypePDF, "etiquetas.pdf", pdf)
}

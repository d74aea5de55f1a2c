package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/application/report"
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ReportHandler reportes de inventario y movimientos en JSON, PDF o XLSX.
type ReportHandler struct {
	uc *report.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Inventory godoc
// @Summary      Inventario valorizado
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Produce      application/pdf
// @Param        format  query  string  false  "json | pdf | xlsx"  default(json)
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/inventory [get]
func (h *ReportHandler) Inventory(c *fiber.Ctx) error {
	ctx := c.UserContext()
	switch format(c) {
	case "json":
		rep, err := h.uc.Inventory(ctx)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{
			"generated_at": rep.GeneratedAt,
			"items":        rep.Rows,
			"total":        rep.Total,
		})
	case "pdf":
		out, err := h.uc.InventoryPDF(ctx)
		if err != nil {
			return respondError(c, err)
		}
		return sendFile(c, contentTypePDF, "inventario.pdf", out)
	case "xlsx":
		out, err := h.uc.InventoryXLSX(ctx)
		if err != nil {
			return respondError(c, err)
		}
		return sendFile(c, contentTypeXLSX, "inventario.xlsx", out)
	}
	return invalidFormat(c, "json, pdf o xlsx")
}

// Movements godoc
// @Summary      Reporte de movimientos
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        format      query  string  false  "json | xlsx"  default(json)
// @Param        kind        query  string  false  "Entrada | Saida"
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        order       query  string  false  "asc | desc"  default(desc)
// @Success      200
// @Router       /api/reports/movements [get]
func (h *ReportHandler) Movements(c *fiber.Ctx) error {
	filter, ok, err := movementFilter(c)
	if !ok {
		return err
	}
	switch format(c) {
	case "json":
		out, err := h.uc.Movements(c.UserContext(), filter)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(dto.NewList(out))
	case "xlsx":
		out, err := h.uc.MovementsXLSX(c.UserContext(), filter)
		if err != nil {
			return respondError(c, err)
		}
		return sendFile(c, contentTypeXLSX, "movimientos.xlsx", out)
	}
	return invalidFormat(c, "json o xlsx")
}

func format(c *fiber.Ctx) string {
	f := strings.ToLower(strings.TrimSpace(c.Query("format")))
	if f == "" {
		return "json"
	}
	return f
}

func invalidFormat(c *fiber.Ctx, accepted string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FORMAT", Message: "format debe ser " + accepted})
}

// sendFile responde un archivo binario como adjunto.
func sendFile(c *fiber.Ctx, contentType, filename string, body []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(body)
}

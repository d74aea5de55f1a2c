package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/Estoque-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del tablero.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetKPIs devuelve total de productos, total de proveedores y valor total del stock.
// GET /api/dashboard/kpis
//
// El valor es Σ precio × saldo sobre los productos con movimientos, como decimal con 2 cifras.
func (h *DashboardHandler) GetKPIs(c *fiber.Ctx) error {
	kpis, err := h.uc.GetKPIs(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(kpis)
}

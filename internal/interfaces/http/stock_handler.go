package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/application/ledger"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
)

// StockHandler entradas, salidas, saldos y movimientos.
type StockHandler struct {
	uc *ledger.UseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *ledger.UseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Entry godoc
// @Summary      Registrar entrada de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockEntryRequest  true  "Producto y cantidad"
// @Success      201   {object}  dto.BalanceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/entry [post]
func (h *StockHandler) Entry(c *fiber.Ctx) error {
	var in dto.StockEntryRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.RecordEntry(c.UserContext(), GetPrincipal(c), in.ProductID, in.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Exit godoc
// @Summary      Registrar salida de stock
// @Description  Rechaza la salida si la cantidad supera el saldo actual.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockExitRequest  true  "Producto, cantidad y motivo"
// @Success      201   {object}  dto.BalanceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse "saldo insuficiente"
// @Router       /api/stock/exit [post]
func (h *StockHandler) Exit(c *fiber.Ctx) error {
	var in dto.StockExitRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.RecordExit(c.UserContext(), GetPrincipal(c), in.ProductID, in.Quantity, in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Balance godoc
// @Summary      Saldo de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/balance/{product_id} [get]
func (h *StockHandler) Balance(c *fiber.Ctx) error {
	id, ok, err := requireID(c, "product_id")
	if !ok {
		return err
	}
	out, err := h.uc.GetBalance(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Balances godoc
// @Summary      Saldos por producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        q          query  string  false  "Término de búsqueda"
// @Param        sector_id  query  string  false  "Filtrar por sector"
// @Success      200  {object}  dto.ListResponse[dto.ProductBalanceResponse]
// @Router       /api/stock/balances [get]
func (h *StockHandler) Balances(c *fiber.Ctx) error {
	sectorID, ok, err := queryID(c, "sector_id")
	if !ok {
		return err
	}
	out, err := h.uc.ListBalances(c.UserContext(), entity.ProductFilter{
		Term:     c.Query("q"),
		SectorID: sectorID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewList(out))
}

// Movements godoc
// @Summary      Historial de movimientos
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        kind        query  string  false  "Entrada | Saida"
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        order       query  string  false  "asc | desc"  default(desc)
// @Param        limit       query  int     false  "Máximo de filas"
// @Success      200  {object}  dto.ListResponse[dto.MovementResponse]
// @Router       /api/movements [get]
func (h *StockHandler) Movements(c *fiber.Ctx) error {
	filter, ok, err := movementFilter(c)
	if !ok {
		return err
	}
	out, err := h.uc.CollectMovements(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewList(out))
}

// movementFilter lee kind, product_id, order y limit de la query. Por defecto: más recientes primero.
// Si product_id no es un UUID ya respondió 400 y ok es false.
func movementFilter(c *fiber.Ctx) (entity.MovementFilter, bool, error) {
	productID, ok, err := queryID(c, "product_id")
	if !ok {
		return entity.MovementFilter{}, false, err
	}
	limit := c.QueryInt("limit", 0)
	if limit < 0 {
		limit = 0
	}
	return entity.MovementFilter{
		Kind:        c.Query("kind"),
		ProductID:   productID,
		NewestFirst: !strings.EqualFold(c.Query("order"), "asc"),
		Limit:       limit,
	}, true, nil
}

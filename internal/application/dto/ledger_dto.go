package dto

import "time"

// StockEntryRequest body para POST /api/stock/entry.
type StockEntryRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0"`
}

// StockExitRequest body para POST /api/stock/exit. Reason obligatorio.
type StockExitRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0"`
	Reason    string `json:"reason" validate:"required,max=200"`
}

// BalanceResponse saldo derivado de un producto.
type BalanceResponse struct {
	ProductID string `json:"product_id"`
	Balance   int64  `json:"balance"`
}

// MovementResponse movimiento con datos de producto y usuario.
type MovementResponse struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Kind        string    `json:"kind"`
	Quantity    int64     `json:"quantity"`
	Reason      string    `json:"reason,omitempty"`
	ProductID   string    `json:"product_id"`
	ProductCode string    `json:"product_code"`
	ProductName string    `json:"product_name"`
	UserName    string    `json:"user_name"`
}

// ProductBalanceResponse fila de saldos por producto.
type ProductBalanceResponse struct {
	ProductID  string `json:"product_id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	Balance    int64  `json:"balance"`
	Price      string `json:"price"`
	CodeB      string `json:"code_b"`
	CodeC      string `json:"code_c"`
	SectorName string `json:"sector_name"`
}

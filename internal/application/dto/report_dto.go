package dto

// InventoryReportRow fila del reporte de inventario valorizado.
type InventoryReportRow struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Balance int64  `json:"balance"`
	Price   string `json:"price"`
	Total   string `json:"total"`
}

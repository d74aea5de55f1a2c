package dto

// DashboardKPIsDTO indicadores del tablero principal.
type DashboardKPIsDTO struct {
	TotalProducts   int    `json:"total_products"`
	TotalSuppliers  int    `json:"total_suppliers"`
	TotalStockValue string `json:"total_stock_value"` // decimal con 2 cifras
}

// VersionResponse versión de la API (pública).
type VersionResponse struct {
	App     string `json:"app"`
	Version string `json:"version"`
}

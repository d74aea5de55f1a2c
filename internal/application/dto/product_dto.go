package dto

import "time"

// CreateProductRequest entrada para crear un producto. Price como texto ("12,50" o "12.50").
type CreateProductRequest struct {
	Code        string   `json:"code" validate:"required,max=20"`
	Name        string   `json:"name" validate:"required,max=100"`
	Description string   `json:"description" validate:"max=200"`
	Price       string   `json:"price"`
	CodeB       string   `json:"code_b" validate:"max=20"`
	CodeC       string   `json:"code_c" validate:"max=20"`
	SectorID    string   `json:"sector_id" validate:"omitempty,uuid"`
	SupplierIDs []string `json:"supplier_ids" validate:"omitempty,dive,uuid"`
	NatureIDs   []string `json:"nature_ids" validate:"omitempty,dive,uuid"`
}

// UpdateProductRequest actualización parcial: los punteros nil no se tocan.
// SupplierIDs/NatureIDs: nil = sin cambios, lista vacía = quitar todos.
type UpdateProductRequest struct {
	Code        *string   `json:"code" validate:"omitempty,max=20"`
	Name        *string   `json:"name" validate:"omitempty,max=100"`
	Description *string   `json:"description" validate:"omitempty,max=200"`
	Price       *string   `json:"price"`
	CodeB       *string   `json:"code_b" validate:"omitempty,max=20"`
	CodeC       *string   `json:"code_c" validate:"omitempty,max=20"`
	SectorID    *string   `json:"sector_id" validate:"omitempty,uuid|len=0"` // "" = quitar sector
	SupplierIDs *[]string `json:"supplier_ids" validate:"omitempty,dive,uuid"`
	NatureIDs   *[]string `json:"nature_ids" validate:"omitempty,dive,uuid"`
}

// NamedRef referencia id + nombre.
type NamedRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProductResponse salida de un producto. Price siempre con 2 decimales como texto.
type ProductResponse struct {
	ID          string     `json:"id"`
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       string     `json:"price"`
	CodeB       string     `json:"code_b"`
	CodeC       string     `json:"code_c"`
	SectorID    string     `json:"sector_id,omitempty"`
	SectorName  string     `json:"sector_name"`
	Suppliers   []NamedRef `json:"suppliers"`
	Natures     []NamedRef `json:"natures"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ProductSummaryResponse fila del listado/búsqueda (relaciones como nombres unidos por coma).
type ProductSummaryResponse struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	CodeB       string `json:"code_b"`
	CodeC       string `json:"code_c"`
	SectorID    string `json:"sector_id,omitempty"`
	SectorName  string `json:"sector_name"`
	Suppliers   string `json:"suppliers"`
	Natures     string `json:"natures"`
}

// ProductFormDataResponse datos para el formulario de producto.
type ProductFormDataResponse struct {
	Suppliers []NamedRef       `json:"suppliers"`
	Natures   []NamedRef       `json:"natures"`
	Product   *ProductResponse `json:"product"`
}

// LabelsRequest IDs de productos para imprimir etiquetas.
type LabelsRequest struct {
	ProductIDs []string `json:"product_ids" validate:"required,min=1,dive,uuid"`
}

// ImportResultResponse resultado de la importación masiva.
type ImportResultResponse struct {
	Message  string   `json:"message"`
	Imported int      `json:"imported"`
	Errors   []string `json:"errors"`
}

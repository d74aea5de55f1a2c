package dto

// ErrorResponse cuerpo de error HTTP (tipo + mensaje).
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse respuesta simple de confirmación.
type MessageResponse struct {
	Message string `json:"message"`
}

// IDResponse respuesta de creación con el ID generado.
type IDResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// ListResponse lista con total de elementos.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// NewList construye la lista garantizando un slice no nulo en JSON.
func NewList[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Total: len(items)}
}

package domain

import "errors"

// Errores de dominio (sin dependencias externas). Cada uno es un "tipo" de fallo;
// los mensajes concretos viajan en *Error.
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientBalance = errors.New("saldo insuficiente")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
)

var kinds = []error{ErrNotFound, ErrInvalidInput, ErrDuplicate, ErrConflict, ErrInsufficientBalance, ErrUnauthorized, ErrForbidden}

// Error es un fallo estructurado (tipo + mensaje) que se devuelve al llamador.
// errors.Is(err, domain.ErrConflict) funciona porque Unwrap devuelve el tipo.
type Error struct {
	Kind    error
	Message string
	Also    error // tipo secundario opcional que también satisface errors.Is
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

func (e *Error) Is(target error) bool {
	return e.Also != nil && target == e.Also
}

// NewError construye un error de dominio con mensaje propio.
func NewError(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Validation atajo para ErrInvalidInput.
func Validation(message string) error { return NewError(ErrInvalidInput, message) }

// NotFound atajo para ErrNotFound.
func NotFound(message string) error { return NewError(ErrNotFound, message) }

// Conflict atajo para ErrConflict.
func Conflict(message string) error { return NewError(ErrConflict, message) }

// Duplicate atajo para ErrDuplicate.
func Duplicate(message string) error { return NewError(ErrDuplicate, message) }

// Message devuelve el mensaje legible del error si es de dominio.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Error()
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k.Error()
		}
	}
	return err.Error()
}

// IsDomain indica si err pertenece a alguno de los tipos conocidos.
func IsDomain(err error) bool {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return true
		}
	}
	return false
}

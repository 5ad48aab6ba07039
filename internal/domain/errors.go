package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrSaleVoided         = errors.New("la venta está anulada")
)

// InsufficientStockError indica que un débito excede el stock disponible de un
// producto, o que el producto no lleva control de cantidad. Incluye el producto
// y las cantidades para que el caller pueda ajustar la solicitud sin adivinar.
type InsufficientStockError struct {
	ProductID string
	Requested int64
	Available int64
	Untracked bool // el producto no lleva control de stock (cantidad nula en BD)
}

func (e *InsufficientStockError) Error() string {
	if e.Untracked {
		return fmt.Sprintf("stock insuficiente: producto %s sin control de cantidad (solicitado %d)", e.ProductID, e.Requested)
	}
	return fmt.Sprintf("stock insuficiente: producto %s tiene %d, solicitado %d", e.ProductID, e.Available, e.Requested)
}

// Unwrap permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

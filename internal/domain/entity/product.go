package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo con su existencia actual.
// Quantity es nullable en el esquema: nil significa "sin control de stock"
// (tri-estado, distinto de cero). Solo el StockLedger escribe Quantity;
// ningún otro componente la modifica directamente.
type Product struct {
	ID        string
	Name      string
	Price     decimal.Decimal // precio de venta unitario
	Quantity  *int64          // existencia actual; nil = no se controla stock
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Tracked indica si el producto lleva control de existencias.
func (p *Product) Tracked() bool { return p.Quantity != nil }

// OnHand devuelve la existencia actual (0 si no se controla stock).
func (p *Product) OnHand() int64 {
	if p.Quantity == nil {
		return 0
	}
	return *p.Quantity
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale representa la cabecera de una venta.
// Estado true = abierta, false = anulada (toggle heredado del esquema original).
// Las líneas se poseen en una sola dirección: la venta referencia sus líneas y
// cada línea guarda solo IDs (sin navegación circular venta↔línea↔producto).
type Sale struct {
	ID        string
	ClientID  string
	Date      time.Time
	Total     decimal.Decimal
	Estado    bool
	CreatedAt time.Time
	UpdatedAt time.Time

	// Colecciones cargadas por las consultas; inmutables tras el commit salvo
	// por el coordinador de reversión.
	ProductLines []SaleLine
	ServiceLines []ServiceLine
}

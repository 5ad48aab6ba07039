package entity

import "github.com/shopspring/decimal"

// SaleLine representa una línea de producto dentro de una venta.
// Su existencia implica un débito de stock todavía aplicado sobre el producto
// por exactamente Quantity unidades; esa es la invariante central que los
// coordinadores preservan. Puede haber varias líneas del mismo producto en
// una misma venta.
type SaleLine struct {
	ID         string
	SaleID     string
	ProductID  string
	Quantity   int64
	UnitValue  decimal.Decimal
	TotalValue decimal.Decimal // UnitValue × Quantity cuando el caller no la envía
}

// ServiceLine representa una línea de servicio dentro de una venta.
// Los servicios no llevan control de stock: nunca pasan por el StockLedger.
type ServiceLine struct {
	ID         string
	SaleID     string
	ServiceID  string
	Price      decimal.Decimal
	Details    string
	TotalValue decimal.Decimal
}

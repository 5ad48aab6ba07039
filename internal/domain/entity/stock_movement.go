package entity

import "time"

// Tipos de movimiento del libro de stock.
const (
	MovementTypeOUT    = "OUT"    // débito (venta)
	MovementTypeIN     = "IN"     // crédito (reversión)
	MovementTypeADJUST = "ADJUST" // ajuste manual
)

// StockMovement es una entrada del diario del libro de stock: cada débito o
// crédito aplicado queda registrado con la venta que lo originó y la cantidad
// antes/después, lo mínimo necesario para poder revertir un ajuste.
type StockMovement struct {
	ID           string
	ProductID    string
	SaleID       string // vacío en ajustes manuales
	Type         string // OUT | IN | ADJUST
	Quantity     int64  // positivo entrada, negativo salida
	PrevQuantity int64
	NewQuantity  int64
	CreatedAt    time.Time
	CreatedBy    string // UserID
}

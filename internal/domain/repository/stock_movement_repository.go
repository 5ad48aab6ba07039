package repository

import "github.com/technova/ventas-api/internal/domain/entity"

// StockMovementRepository define el puerto de persistencia del diario del
// libro de stock. Solo se escribe dentro de la misma transacción que aplica
// el ajuste de existencias.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error)
	ListBySale(saleID string) ([]*entity.StockMovement, error)
}

package stock

import (
	"context"

	"github.com/technova/ventas-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el libro de stock.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		products repository.ProductRepository,
		movements repository.StockMovementRepository,
	) error) error
}

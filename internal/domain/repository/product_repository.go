package repository

import "github.com/technova/ventas-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
// Update nunca modifica Quantity: la existencia es propiedad exclusiva del
// StockLedger, que la escribe vía UpdateQuantity dentro de una transacción.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE) para
	// serializar débitos/créditos concurrentes sobre el mismo producto.
	GetForUpdate(id string) (*entity.Product, error)
	Update(product *entity.Product) error
	UpdateQuantity(id string, quantity *int64) error
	List(limit, offset int) ([]*entity.Product, error)
	Delete(id string) error
}

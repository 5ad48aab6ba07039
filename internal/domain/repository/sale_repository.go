package repository

import (
	"github.com/shopspring/decimal"

	"github.com/technova/ventas-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para ventas y sus líneas.
// Las líneas solo se crean/eliminan a través de los coordinadores; no existe
// operación que cambie la cantidad de una línea ya persistida.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	GetByID(id string) (*entity.Sale, error)
	// GetForUpdate bloquea la cabecera de la venta durante una operación de
	// líneas o una reversión.
	GetForUpdate(id string) (*entity.Sale, error)
	List(limit, offset int) ([]*entity.Sale, error)
	UpdateTotal(id string, total decimal.Decimal) error
	UpdateEstado(id string, estado bool) error
	Delete(id string) error

	CreateProductLine(line *entity.SaleLine) error
	CreateServiceLine(line *entity.ServiceLine) error
	GetProductLine(lineID string) (*entity.SaleLine, error)
	GetServiceLine(lineID string) (*entity.ServiceLine, error)
	ListProductLines(saleID string) ([]entity.SaleLine, error)
	ListServiceLines(saleID string) ([]entity.ServiceLine, error)
	DeleteProductLine(lineID string) error
	DeleteServiceLine(lineID string) error
}

package sales

import (
	"context"

	"github.com/technova/ventas-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios de ventas, productos y movimientos atados a esa tx. Es el
// límite de atomicidad de un lote: o se confirma todo (cabecera, líneas y
// débitos de stock) o no se confirma nada.
type TxRunner interface {
	RunSales(ctx context.Context, fn func(
		sales repository.SaleRepository,
		products repository.ProductRepository,
		movements repository.StockMovementRepository,
	) error) error
}

// ReceiptData datos ya resueltos (nombres incluidos) para render del recibo.
type ReceiptData struct {
	SaleID     string
	Date       string
	ClientName string
	Total      string
	Lines      []ReceiptLine
}

// ReceiptLine una línea del recibo (producto o servicio).
type ReceiptLine struct {
	Description string
	Quantity    int64
	UnitValue   string
	TotalValue  string
	IsService   bool
}

// ReceiptGenerator renderiza el recibo de una venta (PDF).
type ReceiptGenerator interface {
	Generate(data ReceiptData) ([]byte, error)
}

// XMLExporter serializa una venta a su representación XML.
type XMLExporter interface {
	Export(data ReceiptData) ([]byte, error)
}

package sales

import (
	"context"

	"github.com/technova/ventas-api/internal/application/dto"
	"github.com/technova/ventas-api/internal/domain"
	"github.com/technova/ventas-api/internal/domain/repository"
)

// SaleQueryUseCase lecturas y cambio de estado de ventas. Las consultas no
// tocan el libro de stock.
type SaleQueryUseCase struct {
	saleRepo repository.SaleRepository
}

// NewSaleQueryUseCase construye el caso de uso.
func NewSaleQueryUseCase(saleRepo repository.SaleRepository) *SaleQueryUseCase {
	return &SaleQueryUseCase{saleRepo: saleRepo}
}

// GetSale devuelve la venta con todas sus líneas.
func (uc *SaleQueryUseCase) GetSale(ctx context.Context, saleID string) (*dto.SaleResponse, error) {
	if saleID == "" {
		return nil, domain.ErrInvalidInput
	}
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	sale.ProductLines, err = uc.saleRepo.ListProductLines(saleID)
	if err != nil {
		return nil, err
	}
	sale.ServiceLines, err = uc.saleRepo.ListServiceLines(saleID)
	if err != nil {
		return nil, err
	}
	return saleToResponse(sale), nil
}

// ListSales devuelve una página de cabeceras de venta, sin líneas.
func (uc *SaleQueryUseCase) ListSales(ctx context.Context, page dto.PageRequest) ([]dto.SaleResponse, error) {
	page.DefaultPage()
	sales, err := uc.saleRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(sales))
	for _, sale := range sales {
		out = append(out, *saleToResponse(sale))
	}
	return out, nil
}

// UpdateEstado cambia el estado abierta/anulada. Anular una venta no repone
// stock: para revertir los débitos hay que eliminarla.
func (uc *SaleQueryUseCase) UpdateEstado(ctx context.Context, saleID string, estado bool) (*dto.SaleResponse, error) {
	if saleID == "" {
		return nil, domain.ErrInvalidInput
	}
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.saleRepo.UpdateEstado(saleID, estado); err != nil {
		return nil, err
	}
	sale.Estado = estado
	return saleToResponse(sale), nil
}

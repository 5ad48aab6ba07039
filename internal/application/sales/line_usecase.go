package sales

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/technova/ventas-api/internal/application/dto"
	"github.com/technova/ventas-api/internal/application/stock"
	"github.com/technova/ventas-api/internal/domain"
	"github.com/technova/ventas-api/internal/domain/entity"
	"github.com/technova/ventas-api/internal/domain/repository"
	"github.com/technova/ventas-api/pkg/logger"
)

// SaleLineUseCase ata cada línea de venta a exactamente un ajuste de stock:
// crear una línea de producto aplica un débito, eliminarla aplica el crédito
// equivalente; las líneas de servicio nunca tocan el libro de stock. Ningún
// otro camino modifica la existencia de un producto.
type SaleLineUseCase struct {
	txRunner    TxRunner
	ledger      *stock.Ledger
	productRepo repository.ProductRepository
	serviceRepo repository.ServiceRepository
	log         *logger.Logger
}

// NewSaleLineUseCase construye el caso de uso.
func NewSaleLineUseCase(
	txRunner TxRunner,
	ledger *stock.Ledger,
	productRepo repository.ProductRepository,
	serviceRepo repository.ServiceRepository,
	log *logger.Logger,
) *SaleLineUseCase {
	return &SaleLineUseCase{
		txRunner:    txRunner,
		ledger:      ledger,
		productRepo: productRepo,
		serviceRepo: serviceRepo,
		log:         log,
	}
}

// AddProductLine debita el stock y persiste la línea en una transacción.
// Con stock insuficiente no se persiste ni se muta nada. El total se
// recalcula como unit×qty cuando el caller no lo envía.
func (uc *SaleLineUseCase) AddProductLine(ctx context.Context, userID, saleID string, in dto.AddProductLineRequest) (*dto.SaleLineResponse, error) {
	if saleID == "" || in.ProductID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitValue.IsNegative() || in.TotalValue.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	unitValue := in.UnitValue
	if unitValue.IsZero() {
		product, err := uc.productRepo.GetByID(in.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		unitValue = product.Price
	}
	totalValue := in.TotalValue
	if totalValue.IsZero() {
		totalValue = unitValue.Mul(decimal.NewFromInt(in.Quantity)).Round(2)
	}

	line := &entity.SaleLine{
		ID:         uuid.New().String(),
		SaleID:     saleID,
		ProductID:  in.ProductID,
		Quantity:   in.Quantity,
		UnitValue:  unitValue,
		TotalValue: totalValue,
	}

	err := uc.txRunner.RunSales(ctx, func(
		sales repository.SaleRepository,
		products repository.ProductRepository,
		movements repository.StockMovementRepository,
	) error {
		sale, err := sales.GetForUpdate(saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if !sale.Estado {
			return domain.ErrSaleVoided
		}
		if _, err := uc.ledger.DebitInTx(products, movements, saleID, in.ProductID, in.Quantity, userID); err != nil {
			return err
		}
		if err := sales.CreateProductLine(line); err != nil {
			return err
		}
		return sales.UpdateTotal(saleID, sale.Total.Add(totalValue))
	})
	if err != nil {
		return nil, err
	}

	return &dto.SaleLineResponse{
		ID:         line.ID,
		ProductID:  line.ProductID,
		Quantity:   line.Quantity,
		UnitValue:  line.UnitValue,
		TotalValue: line.TotalValue,
	}, nil
}

// AddServiceLine persiste una línea de servicio; no hay débito de stock.
func (uc *SaleLineUseCase) AddServiceLine(ctx context.Context, userID, saleID string, in dto.AddServiceLineRequest) (*dto.ServiceLineResponse, error) {
	if saleID == "" || in.ServiceID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.IsNegative() || in.TotalValue.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	service, err := uc.serviceRepo.GetByID(in.ServiceID)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, domain.ErrNotFound
	}
	price := in.Price
	if price.IsZero() {
		price = service.Price
	}
	totalValue := in.TotalValue
	if totalValue.IsZero() {
		totalValue = price.Round(2)
	}

	line := &entity.ServiceLine{
		ID:         uuid.New().String(),
		SaleID:     saleID,
		ServiceID:  in.ServiceID,
		Price:      price,
		Details:    in.Details,
		TotalValue: totalValue,
	}

	err = uc.txRunner.RunSales(ctx, func(
		sales repository.SaleRepository,
		_ repository.ProductRepository,
		_ repository.StockMovementRepository,
	) error {
		sale, err := sales.GetForUpdate(saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if !sale.Estado {
			return domain.ErrSaleVoided
		}
		if err := sales.CreateServiceLine(line); err != nil {
			return err
		}
		return sales.UpdateTotal(saleID, sale.Total.Add(totalValue))
	})
	if err != nil {
		return nil, err
	}

	return &dto.ServiceLineResponse{
		ID:         line.ID,
		ServiceID:  line.ServiceID,
		Price:      line.Price,
		Details:    line.Details,
		TotalValue: line.TotalValue,
	}, nil
}

// RemoveLine elimina una línea (producto o servicio). Para líneas de producto
// repone exactamente la cantidad debitada al crearla; si el producto ya no
// existe se registra y la eliminación continúa. Una venta anulada no admite
// quitar líneas, igual que no admite agregarlas.
func (uc *SaleLineUseCase) RemoveLine(ctx context.Context, userID, lineID string) error {
	if lineID == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.RunSales(ctx, func(
		sales repository.SaleRepository,
		products repository.ProductRepository,
		movements repository.StockMovementRepository,
	) error {
		if line, err := sales.GetProductLine(lineID); err != nil {
			return err
		} else if line != nil {
			sale, err := sales.GetForUpdate(line.SaleID)
			if err != nil {
				return err
			}
			if sale == nil {
				return domain.ErrNotFound
			}
			if !sale.Estado {
				return domain.ErrSaleVoided
			}
			err = uc.ledger.CreditInTx(products, movements, line.SaleID, line.ProductID, line.Quantity, userID)
			if errors.Is(err, domain.ErrNotFound) {
				uc.log.Warn().
					Str("line_id", line.ID).
					Str("product_id", line.ProductID).
					Int64("qty", line.Quantity).
					Msg("producto inexistente al reponer stock de la línea, se continúa")
			} else if err != nil {
				return err
			}
			if err := sales.DeleteProductLine(line.ID); err != nil {
				return err
			}
			return sales.UpdateTotal(sale.ID, sale.Total.Sub(line.TotalValue))
		}

		line, err := sales.GetServiceLine(lineID)
		if err != nil {
			return err
		}
		if line == nil {
			return domain.ErrNotFound
		}
		sale, err := sales.GetForUpdate(line.SaleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if !sale.Estado {
			return domain.ErrSaleVoided
		}
		if err := sales.DeleteServiceLine(line.ID); err != nil {
			return err
		}
		return sales.UpdateTotal(sale.ID, sale.Total.Sub(line.TotalValue))
	})
}

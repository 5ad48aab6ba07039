package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/technova/ventas-api/internal/application/dto"
	"github.com/technova/ventas-api/internal/application/stock"
	"github.com/technova/ventas-api/internal/domain"
	"github.com/technova/ventas-api/internal/domain/entity"
	"github.com/technova/ventas-api/internal/domain/repository"
)

// CreateSaleUseCase crea una venta con su lote de líneas y descuenta el stock
// de cada línea de producto en una sola transacción: o queda la venta completa
// con todos sus débitos aplicados, o no queda nada.
type CreateSaleUseCase struct {
	txRunner    TxRunner
	ledger      *stock.Ledger
	clientRepo  repository.ClientRepository
	serviceRepo repository.ServiceRepository
	productRepo repository.ProductRepository
}

// NewCreateSaleUseCase construye el caso de uso.
func NewCreateSaleUseCase(
	txRunner TxRunner,
	ledger *stock.Ledger,
	clientRepo repository.ClientRepository,
	serviceRepo repository.ServiceRepository,
	productRepo repository.ProductRepository,
) *CreateSaleUseCase {
	return &CreateSaleUseCase{
		txRunner:    txRunner,
		ledger:      ledger,
		clientRepo:  clientRepo,
		serviceRepo: serviceRepo,
		productRepo: productRepo,
	}
}

// CreateSale valida las referencias, aplica los débitos de stock línea por
// línea y persiste cabecera y líneas. Cualquier fallo (stock insuficiente,
// referencia inexistente) revierte la transacción completa: el caller observa
// una venta completa o ninguna.
func (uc *CreateSaleUseCase) CreateSale(ctx context.Context, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if in.ClientID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}

	// Validar cliente
	client, err := uc.clientRepo.GetByID(in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}

	// Validar líneas y resolver precios de catálogo (fuera de la tx, solo lectura)
	servicesByID := make(map[string]*entity.Service)
	productIDs := make([]string, 0, len(in.Lines))
	for i := range in.Lines {
		line := &in.Lines[i]
		switch line.Kind {
		case dto.LineKindProduct:
			if line.ProductID == "" || line.Quantity <= 0 {
				return nil, domain.ErrInvalidInput
			}
			if line.UnitValue.IsNegative() || line.TotalValue.IsNegative() {
				return nil, domain.ErrInvalidInput
			}
			product, err := uc.productRepo.GetByID(line.ProductID)
			if err != nil {
				return nil, err
			}
			if product == nil {
				return nil, domain.ErrNotFound
			}
			if line.UnitValue.IsZero() {
				line.UnitValue = product.Price
			}
			productIDs = append(productIDs, line.ProductID)
		case dto.LineKindService:
			if line.ServiceID == "" {
				return nil, domain.ErrInvalidInput
			}
			if line.UnitValue.IsNegative() || line.TotalValue.IsNegative() {
				return nil, domain.ErrInvalidInput
			}
			service, err := uc.serviceRepo.GetByID(line.ServiceID)
			if err != nil {
				return nil, err
			}
			if service == nil {
				return nil, domain.ErrNotFound
			}
			if line.UnitValue.IsZero() {
				line.UnitValue = service.Price
			}
			servicesByID[line.ServiceID] = service
		default:
			return nil, domain.ErrInvalidInput
		}
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:        uuid.New().String(),
		ClientID:  in.ClientID,
		Date:      now,
		Estado:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = uc.txRunner.RunSales(ctx, func(
		sales repository.SaleRepository,
		products repository.ProductRepository,
		movements repository.StockMovementRepository,
	) error {
		// El runner puede reejecutar el callback tras un conflicto de
		// serialización; las líneas acumuladas por un intento revertido
		// se descartan.
		sale.ProductLines = nil
		sale.ServiceLines = nil

		// Bloquear los productos del lote en orden ascendente de ID antes de
		// aplicar cualquier débito: dos lotes que comparten productos siempre
		// adquieren los locks en el mismo orden.
		if err := uc.ledger.LockProducts(products, productIDs); err != nil {
			return err
		}

		// Total calculado línea a línea; la cabecera se inserta primero con
		// total cero y se actualiza al cierre del lote.
		if err := sales.Create(sale); err != nil {
			return err
		}

		total := decimal.Zero
		for _, line := range in.Lines {
			lineTotal := line.TotalValue
			switch line.Kind {
			case dto.LineKindProduct:
				if lineTotal.IsZero() {
					lineTotal = line.UnitValue.Mul(decimal.NewFromInt(line.Quantity)).Round(2)
				}
				if _, err := uc.ledger.DebitInTx(products, movements, sale.ID, line.ProductID, line.Quantity, userID); err != nil {
					return err
				}
				pl := entity.SaleLine{
					ID:         uuid.New().String(),
					SaleID:     sale.ID,
					ProductID:  line.ProductID,
					Quantity:   line.Quantity,
					UnitValue:  line.UnitValue,
					TotalValue: lineTotal,
				}
				if err := sales.CreateProductLine(&pl); err != nil {
					return err
				}
				sale.ProductLines = append(sale.ProductLines, pl)
			case dto.LineKindService:
				if lineTotal.IsZero() {
					lineTotal = line.UnitValue.Round(2)
				}
				sl := entity.ServiceLine{
					ID:         uuid.New().String(),
					SaleID:     sale.ID,
					ServiceID:  line.ServiceID,
					Price:      line.UnitValue,
					Details:    line.Details,
					TotalValue: lineTotal,
				}
				if err := sales.CreateServiceLine(&sl); err != nil {
					return err
				}
				sale.ServiceLines = append(sale.ServiceLines, sl)
			}
			total = total.Add(lineTotal)
		}

		sale.Total = total
		return sales.UpdateTotal(sale.ID, total)
	})
	if err != nil {
		return nil, err
	}

	return saleToResponse(sale), nil
}

func saleToResponse(sale *entity.Sale) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:       sale.ID,
		ClientID: sale.ClientID,
		Date:     sale.Date,
		Total:    sale.Total,
		Estado:   sale.Estado,
	}
	for _, pl := range sale.ProductLines {
		resp.ProductLines = append(resp.ProductLines, dto.SaleLineResponse{
			ID:         pl.ID,
			ProductID:  pl.ProductID,
			Quantity:   pl.Quantity,
			UnitValue:  pl.UnitValue,
			TotalValue: pl.TotalValue,
		})
	}
	for _, sl := range sale.ServiceLines {
		resp.ServiceLines = append(resp.ServiceLines, dto.ServiceLineResponse{
			ID:         sl.ID,
			ServiceID:  sl.ServiceID,
			Price:      sl.Price,
			Details:    sl.Details,
			TotalValue: sl.TotalValue,
		})
	}
	return resp
}

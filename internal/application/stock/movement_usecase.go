package stock

import (
	"context"

	"github.com/technova/ventas-api/internal/application/dto"
	"github.com/technova/ventas-api/internal/domain"
	"github.com/technova/ventas-api/internal/domain/entity"
	"github.com/technova/ventas-api/internal/domain/repository"
)

// MovementUseCase ajustes manuales de existencias y consulta del diario de
// movimientos. Los ajustes pasan por el Ledger igual que los débitos de venta.
type MovementUseCase struct {
	ledger       *Ledger
	movementRepo repository.StockMovementRepository
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(ledger *Ledger, movementRepo repository.StockMovementRepository) *MovementUseCase {
	return &MovementUseCase{ledger: ledger, movementRepo: movementRepo}
}

// Adjust aplica un ajuste manual (debit resta, credit suma). El diario lo
// registra como ADJUST por no estar atado a una venta.
func (uc *MovementUseCase) Adjust(ctx context.Context, userID string, in dto.AdjustStockRequest) error {
	if in.ProductID == "" || in.Quantity <= 0 {
		return domain.ErrInvalidInput
	}
	switch in.Type {
	case dto.AdjustDebit:
		_, err := uc.ledger.Debit(ctx, in.ProductID, in.Quantity, userID)
		return err
	case dto.AdjustCredit:
		return uc.ledger.Credit(ctx, in.ProductID, in.Quantity, userID)
	default:
		return domain.ErrInvalidInput
	}
}

// ListByProduct devuelve una página del diario de un producto, del más
// reciente al más antiguo.
func (uc *MovementUseCase) ListByProduct(ctx context.Context, productID string, page dto.PageRequest) ([]dto.StockMovementResponse, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	movements, err := uc.movementRepo.ListByProduct(productID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return movementsToResponse(movements), nil
}

// ListBySale devuelve los movimientos generados por una venta.
func (uc *MovementUseCase) ListBySale(ctx context.Context, saleID string) ([]dto.StockMovementResponse, error) {
	if saleID == "" {
		return nil, domain.ErrInvalidInput
	}
	movements, err := uc.movementRepo.ListBySale(saleID)
	if err != nil {
		return nil, err
	}
	return movementsToResponse(movements), nil
}

func movementsToResponse(movements []*entity.StockMovement) []dto.StockMovementResponse {
	out := make([]dto.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.StockMovementResponse{
			ID:           m.ID,
			ProductID:    m.ProductID,
			SaleID:       m.SaleID,
			Type:         m.Type,
			Quantity:     m.Quantity,
			PrevQuantity: m.PrevQuantity,
			NewQuantity:  m.NewQuantity,
			CreatedAt:    m.CreatedAt,
		})
	}
	return out
}

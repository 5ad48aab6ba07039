package sales

import (
	"context"
	"errors"

	"github.com/technova/ventas-api/internal/application/stock"
	"github.com/technova/ventas-api/internal/domain"
	"github.com/technova/ventas-api/internal/domain/entity"
	"github.com/technova/ventas-api/internal/domain/repository"
	"github.com/technova/ventas-api/pkg/logger"
)

// DeleteSaleUseCase elimina una venta y sus líneas reponiendo cada débito de
// stock aplicado, en una sola transacción. Una segunda eliminación de la misma
// venta falla con ErrNotFound sin acreditar nada (sin doble reposición).
type DeleteSaleUseCase struct {
	txRunner TxRunner
	ledger   *stock.Ledger
	log      *logger.Logger
}

// NewDeleteSaleUseCase construye el caso de uso.
func NewDeleteSaleUseCase(txRunner TxRunner, ledger *stock.Ledger, log *logger.Logger) *DeleteSaleUseCase {
	return &DeleteSaleUseCase{txRunner: txRunner, ledger: ledger, log: log}
}

// DeleteSale repone el stock de cada línea de producto, elimina las líneas y
// la cabecera. Si un producto fue eliminado fuera de banda, se registra y la
// eliminación continúa: una referencia colgante no debe impedir borrar la
// venta. Cualquier otro fallo revierte la transacción completa.
func (uc *DeleteSaleUseCase) DeleteSale(ctx context.Context, userID, saleID string) error {
	if saleID == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.RunSales(ctx, func(
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

		productLines, err := sales.ListProductLines(saleID)
		if err != nil {
			return err
		}
		serviceLines, err := sales.ListServiceLines(saleID)
		if err != nil {
			return err
		}

		ids := make([]string, 0, len(productLines))
		for _, line := range productLines {
			ids = append(ids, line.ProductID)
		}
		if err := uc.ledger.LockProducts(products, ids); err != nil {
			return err
		}

		for _, line := range productLines {
			if err := uc.creditLine(products, movements, sale.ID, line, userID); err != nil {
				return err
			}
			if err := sales.DeleteProductLine(line.ID); err != nil {
				return err
			}
		}
		for _, line := range serviceLines {
			// Los servicios no llevan stock: se eliminan sin crédito.
			if err := sales.DeleteServiceLine(line.ID); err != nil {
				return err
			}
		}

		return sales.Delete(saleID)
	})
}

func (uc *DeleteSaleUseCase) creditLine(
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
	saleID string,
	line entity.SaleLine,
	userID string,
) error {
	err := uc.ledger.CreditInTx(products, movements, saleID, line.ProductID, line.Quantity, userID)
	if errors.Is(err, domain.ErrNotFound) {
		// Producto eliminado fuera de banda: la reposición ya no tiene
		// destino, pero la venta debe poder borrarse igual.
		uc.log.Warn().
			Str("sale_id", saleID).
			Str("line_id", line.ID).
			Str("product_id", line.ProductID).
			Int64("qty", line.Quantity).
			Msg("producto inexistente al reponer stock, se continúa la eliminación")
		return nil
	}
	return err
}

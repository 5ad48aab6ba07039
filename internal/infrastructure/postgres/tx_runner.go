package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/technova/ventas-api/internal/application/sales"
	"github.com/technova/ventas-api/internal/application/stock"
	"github.com/technova/ventas-api/internal/domain"
	"github.com/technova/ventas-api/internal/domain/repository"
)

var _ stock.TxRunner = (*TxRunner)(nil)
var _ sales.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Ante un
// fallo de serialización o deadlock (40001/40P01) reintenta la transacción
// completa una vez; si el reintento también falla devuelve ErrConflict.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción con repos de productos y movimientos (ajustes de
// stock fuera de una venta).
func (r *TxRunner) Run(ctx context.Context, fn func(
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
) error) error {
	return r.withRetry(ctx, func(tx Querier) error {
		return fn(NewProductRepository(tx), NewStockMovementRepository(tx))
	})
}

// RunSales inicia una transacción con los repos que necesita un lote de venta
// (cabecera, líneas y débitos de stock en la misma tx).
func (r *TxRunner) RunSales(ctx context.Context, fn func(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
) error) error {
	return r.withRetry(ctx, func(tx Querier) error {
		return fn(NewSaleRepository(tx), NewProductRepository(tx), NewStockMovementRepository(tx))
	})
}

// withRetry ejecuta fn en una transacción. Begin/Commit/Rollback quedan en
// runOnce; la política de reintento vive en retryOnSerialization.
func (r *TxRunner) withRetry(ctx context.Context, fn func(tx Querier) error) error {
	return retryOnSerialization(func() error {
		return r.runOnce(ctx, fn)
	})
}

// retryOnSerialization reintenta run una sola vez ante un conflicto transitorio
// (40001/40P01); un segundo fallo se devuelve como ErrConflict. Los errores de
// negocio nunca se reintentan. Los callbacks deben tolerar la reejecución: el
// intento fallido se revierte completo antes del reintento.
func retryOnSerialization(run func() error) error {
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		err = run()
		if err == nil || !isSerializationFailure(err) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrConflict, err)
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(tx Querier) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

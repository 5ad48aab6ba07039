package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/technova/ventas-api/internal/domain/entity"
	"github.com/technova/ventas-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del puerto StockMovementRepository sobre
// PostgreSQL. El diario es append-only: no hay update ni delete.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador del diario de movimientos.
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create registra un movimiento. sale_id NULL en ajustes manuales.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, sale_id, type, quantity, prev_quantity, new_quantity, created_at, created_by)
		VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6, $7, $8, NULLIF($9, '')::uuid)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ProductID, movement.SaleID, movement.Type,
		movement.Quantity, movement.PrevQuantity, movement.NewQuantity,
		movement.CreatedAt, movement.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListByProduct lista los movimientos de un producto, del más reciente al más antiguo.
func (r *StockMovementRepo) ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, product_id, COALESCE(sale_id::text, ''), type, quantity, prev_quantity, new_quantity, created_at, COALESCE(created_by::text, '')
		FROM stock_movements WHERE product_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// ListBySale lista los movimientos generados por una venta.
func (r *StockMovementRepo) ListBySale(saleID string) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, product_id, COALESCE(sale_id::text, ''), type, quantity, prev_quantity, new_quantity, created_at, COALESCE(created_by::text, '')
		FROM stock_movements WHERE sale_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list stock movements by sale: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

func scanMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.SaleID, &m.Type, &m.Quantity,
			&m.PrevQuantity, &m.NewQuantity, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

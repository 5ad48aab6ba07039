package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/technova/ventas-api/internal/domain"
	"github.com/technova/ventas-api/internal/domain/entity"
	"github.com/technova/ventas-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de persistencia para ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera de la venta.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	query := `
		INSERT INTO sales (id, client_id, date, total, estado, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.ClientID, sale.Date, sale.Total, sale.Estado,
		sale.CreatedAt, sale.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de una venta por ID (sin líneas).
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `
		SELECT id, client_id, date, total, estado, created_at, updated_at
		FROM sales WHERE id = $1`
	return r.scanOne(query, id, "get sale")
}

// GetForUpdate obtiene la cabecera bloqueando su fila (SELECT FOR UPDATE).
// Serializa operaciones de líneas y reversión sobre la misma venta.
func (r *SaleRepo) GetForUpdate(id string) (*entity.Sale, error) {
	query := `
		SELECT id, client_id, date, total, estado, created_at, updated_at
		FROM sales WHERE id = $1 FOR UPDATE`
	return r.scanOne(query, id, "lock sale")
}

// List lista cabeceras de venta con paginación, de la más reciente a la más antigua.
func (r *SaleRepo) List(limit, offset int) ([]*entity.Sale, error) {
	query := `
		SELECT id, client_id, date, total, estado, created_at, updated_at
		FROM sales ORDER BY date DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.ClientID, &s.Date, &s.Total, &s.Estado, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// UpdateTotal escribe el total de la venta.
func (r *SaleRepo) UpdateTotal(id string, total decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE sales SET total = $2, updated_at = now() WHERE id = $1`,
		id, total,
	)
	if err != nil {
		return fmt.Errorf("update sale total: %w", err)
	}
	return nil
}

// UpdateEstado cambia el estado abierta/anulada de la venta.
func (r *SaleRepo) UpdateEstado(id string, estado bool) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE sales SET estado = $2, updated_at = now() WHERE id = $1`,
		id, estado,
	)
	if err != nil {
		return fmt.Errorf("update sale estado: %w", err)
	}
	return nil
}

// Delete elimina la cabecera. Las líneas se eliminan antes, en la misma tx.
func (r *SaleRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	return nil
}

// CreateProductLine persiste una línea de producto.
func (r *SaleRepo) CreateProductLine(line *entity.SaleLine) error {
	query := `
		INSERT INTO sale_product_lines (id, sale_id, product_id, quantity, unit_value, total_value)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.SaleID, line.ProductID, line.Quantity, line.UnitValue, line.TotalValue,
	)
	if err != nil {
		return fmt.Errorf("insert product line: %w", err)
	}
	return nil
}

// CreateServiceLine persiste una línea de servicio.
func (r *SaleRepo) CreateServiceLine(line *entity.ServiceLine) error {
	query := `
		INSERT INTO sale_service_lines (id, sale_id, service_id, price, details, total_value)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.SaleID, line.ServiceID, line.Price, line.Details, line.TotalValue,
	)
	if err != nil {
		return fmt.Errorf("insert service line: %w", err)
	}
	return nil
}

// GetProductLine obtiene una línea de producto por ID.
func (r *SaleRepo) GetProductLine(lineID string) (*entity.SaleLine, error) {
	query := `
		SELECT id, sale_id, product_id, quantity, unit_value, total_value
		FROM sale_product_lines WHERE id = $1`
	var l entity.SaleLine
	err := r.q.QueryRow(context.Background(), query, lineID).Scan(
		&l.ID, &l.SaleID, &l.ProductID, &l.Quantity, &l.UnitValue, &l.TotalValue,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product line: %w", err)
	}
	return &l, nil
}

// GetServiceLine obtiene una línea de servicio por ID.
func (r *SaleRepo) GetServiceLine(lineID string) (*entity.ServiceLine, error) {
	query := `
		SELECT id, sale_id, service_id, price, details, total_value
		FROM sale_service_lines WHERE id = $1`
	var l entity.ServiceLine
	err := r.q.QueryRow(context.Background(), query, lineID).Scan(
		&l.ID, &l.SaleID, &l.ServiceID, &l.Price, &l.Details, &l.TotalValue,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service line: %w", err)
	}
	return &l, nil
}

// ListProductLines lista las líneas de producto de una venta.
func (r *SaleRepo) ListProductLines(saleID string) ([]entity.SaleLine, error) {
	query := `
		SELECT id, sale_id, product_id, quantity, unit_value, total_value
		FROM sale_product_lines WHERE sale_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list product lines: %w", err)
	}
	defer rows.Close()
	var list []entity.SaleLine
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.ProductID, &l.Quantity, &l.UnitValue, &l.TotalValue); err != nil {
			return nil, fmt.Errorf("scan product line: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// ListServiceLines lista las líneas de servicio de una venta.
func (r *SaleRepo) ListServiceLines(saleID string) ([]entity.ServiceLine, error) {
	query := `
		SELECT id, sale_id, service_id, price, details, total_value
		FROM sale_service_lines WHERE sale_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list service lines: %w", err)
	}
	defer rows.Close()
	var list []entity.ServiceLine
	for rows.Next() {
		var l entity.ServiceLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.ServiceID, &l.Price, &l.Details, &l.TotalValue); err != nil {
			return nil, fmt.Errorf("scan service line: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// DeleteProductLine elimina una línea de producto.
func (r *SaleRepo) DeleteProductLine(lineID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM sale_product_lines WHERE id = $1`, lineID)
	if err != nil {
		return fmt.Errorf("delete product line: %w", err)
	}
	return nil
}

// DeleteServiceLine elimina una línea de servicio.
func (r *SaleRepo) DeleteServiceLine(lineID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM sale_service_lines WHERE id = $1`, lineID)
	if err != nil {
		return fmt.Errorf("delete service line: %w", err)
	}
	return nil
}

func (r *SaleRepo) scanOne(query, id, op string) (*entity.Sale, error) {
	var s entity.Sale
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.ClientID, &s.Date, &s.Total, &s.Estado, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &s, nil
}

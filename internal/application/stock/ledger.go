package stock

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/technova/ventas-api/internal/domain"
	"github.com/technova/ventas-api/internal/domain/entity"
	"github.com/technova/ventas-api/internal/domain/repository"
	"github.com/technova/ventas-api/pkg/logger"
)

// Ledger es el único escritor de la existencia (Quantity) de los productos.
// Todo débito o crédito pasa por aquí: bloquea la fila del producto
// (SELECT FOR UPDATE), valida que el resultado nunca sea negativo y deja un
// registro en el diario de movimientos dentro de la misma transacción.
//
// Los métodos *InTx operan sobre repositorios ya atados a una transacción del
// caller (coordinadores de venta); Debit y Credit abren la suya propia.
type Ledger struct {
	tx  TxRunner
	log *logger.Logger
}

// NewLedger construye el libro de stock.
func NewLedger(tx TxRunner, log *logger.Logger) *Ledger {
	return &Ledger{tx: tx, log: log}
}

// Debit descuenta qty unidades del producto en su propia transacción.
// Devuelve la existencia previa al débito.
func (l *Ledger) Debit(ctx context.Context, productID string, qty int64, userID string) (int64, error) {
	var prev int64
	err := l.tx.Run(ctx, func(products repository.ProductRepository, movements repository.StockMovementRepository) error {
		var err error
		prev, err = l.DebitInTx(products, movements, "", productID, qty, userID)
		return err
	})
	return prev, err
}

// Credit repone qty unidades del producto en su propia transacción.
func (l *Ledger) Credit(ctx context.Context, productID string, qty int64, userID string) error {
	return l.tx.Run(ctx, func(products repository.ProductRepository, movements repository.StockMovementRepository) error {
		return l.CreditInTx(products, movements, "", productID, qty, userID)
	})
}

// DebitInTx descuenta qty unidades del producto usando repositorios atados a
// la transacción del caller. Bloquea la fila, rechaza con
// InsufficientStockError si el producto no controla stock o la existencia es
// menor a qty, y registra el movimiento. Devuelve la existencia previa.
func (l *Ledger) DebitInTx(
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
	saleID, productID string,
	qty int64,
	userID string,
) (int64, error) {
	if qty <= 0 {
		return 0, domain.ErrInvalidInput
	}
	product, err := products.GetForUpdate(productID)
	if err != nil {
		return 0, err
	}
	if product == nil {
		return 0, domain.ErrNotFound
	}
	if !product.Tracked() {
		return 0, &domain.InsufficientStockError{ProductID: productID, Requested: qty, Untracked: true}
	}
	prev := product.OnHand()
	if prev < qty {
		return 0, &domain.InsufficientStockError{ProductID: productID, Requested: qty, Available: prev}
	}
	newQty := prev - qty
	if err := products.UpdateQuantity(productID, &newQty); err != nil {
		return 0, err
	}
	if err := movements.Create(l.movement(saleID, productID, -qty, prev, newQty, userID)); err != nil {
		return 0, err
	}
	return prev, nil
}

// CreditInTx repone qty unidades del producto usando repositorios atados a la
// transacción del caller. Un crédito siempre procede si el producto existe;
// no revalida reglas de negocio (solo revierte un débito previo). Sobre un
// producto sin control de stock el crédito es un no-op.
func (l *Ledger) CreditInTx(
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
	saleID, productID string,
	qty int64,
	userID string,
) error {
	if qty <= 0 {
		return domain.ErrInvalidInput
	}
	product, err := products.GetForUpdate(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if !product.Tracked() {
		l.log.Warn().Str("product_id", productID).Int64("qty", qty).
			Msg("crédito sobre producto sin control de stock, se omite")
		return nil
	}
	prev := product.OnHand()
	newQty := prev + qty
	if err := products.UpdateQuantity(productID, &newQty); err != nil {
		return err
	}
	return movements.Create(l.movement(saleID, productID, qty, prev, newQty, userID))
}

// LockProducts bloquea las filas de los productos indicados en orden
// ascendente de ID. Los coordinadores de lote lo invocan antes de aplicar
// débitos/créditos para que dos lotes que comparten productos nunca se
// bloqueen mutuamente en orden cruzado.
func (l *Ledger) LockProducts(products repository.ProductRepository, ids []string) error {
	uniq := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}
	sort.Strings(uniq)
	for _, id := range uniq {
		if _, err := products.GetForUpdate(id); err != nil {
			return err
		}
	}
	return nil
}

func (l *Ledger) movement(saleID, productID string, qty, prev, newQty int64, userID string) *entity.StockMovement {
	movType := entity.MovementTypeADJUST
	if saleID != "" {
		if qty < 0 {
			movType = entity.MovementTypeOUT
		} else {
			movType = entity.MovementTypeIN
		}
	}
	return &entity.StockMovement{
		ID:           uuid.New().String(),
		ProductID:    productID,
		SaleID:       saleID,
		Type:         movType,
		Quantity:     qty,
		PrevQuantity: prev,
		NewQuantity:  newQty,
		CreatedAt:    time.Now(),
		CreatedBy:    userID,
	}
}

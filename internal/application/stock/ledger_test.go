package stock_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/technova/ventas-api/internal/application/stock"
	"github.com/technova/ventas-api/internal/domain"
	"github.com/technova/ventas-api/internal/domain/entity"
	"github.com/technova/ventas-api/internal/domain/repository"
	"github.com/technova/ventas-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

// memStore estado compartido de los fakes. El mutex del runner serializa las
// "transacciones" igual que lo harían los locks de fila en PostgreSQL.
type memStore struct {
	mu        sync.Mutex
	products  map[string]*entity.Product
	movements []*entity.StockMovement
}

func newMemStore() *memStore {
	return &memStore{products: make(map[string]*entity.Product)}
}

func (s *memStore) addProduct(id string, qty *int64) {
	s.products[id] = &entity.Product{ID: id, Name: "producto " + id, Price: decimal.NewFromInt(10), Quantity: qty}
}

func (s *memStore) snapshot() map[string]*entity.Product {
	snap := make(map[string]*entity.Product, len(s.products))
	for id, p := range s.products {
		cp := *p
		if p.Quantity != nil {
			q := *p.Quantity
			cp.Quantity = &q
		}
		snap[id] = &cp
	}
	return snap
}

type memProductRepo struct{ s *memStore }

func (r *memProductRepo) Create(p *entity.Product) error { r.s.products[p.ID] = p; return nil }
func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}
func (r *memProductRepo) GetForUpdate(id string) (*entity.Product, error) { return r.GetByID(id) }
func (r *memProductRepo) Update(p *entity.Product) error                  { return nil }
func (r *memProductRepo) UpdateQuantity(id string, quantity *int64) error {
	p, ok := r.s.products[id]
	if !ok {
		return nil
	}
	p.Quantity = quantity
	return nil
}
func (r *memProductRepo) List(limit, offset int) ([]*entity.Product, error) { return nil, nil }
func (r *memProductRepo) Delete(id string) error                            { delete(r.s.products, id); return nil }

type memMovementRepo struct{ s *memStore }

func (r *memMovementRepo) Create(m *entity.StockMovement) error {
	r.s.movements = append(r.s.movements, m)
	return nil
}
func (r *memMovementRepo) ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}
func (r *memMovementRepo) ListBySale(saleID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.SaleID == saleID {
			out = append(out, m)
		}
	}
	return out, nil
}

// memTxRunner simula la transacción: serializa con un mutex y revierte los
// productos al snapshot si fn falla.
type memTxRunner struct{ s *memStore }

func (r *memTxRunner) Run(ctx context.Context, fn func(
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	snap := r.s.snapshot()
	movCount := len(r.s.movements)
	if err := fn(&memProductRepo{s: r.s}, &memMovementRepo{s: r.s}); err != nil {
		r.s.products = snap
		r.s.movements = r.s.movements[:movCount]
		return err
	}
	return nil
}

func newLedger(s *memStore) *stock.Ledger {
	return stock.NewLedger(&memTxRunner{s: s}, logger.Nop())
}

func qty(n int64) *int64 { return &n }

// ──────────────────────────────────────────────────────────────────────────────
// Débitos
// ──────────────────────────────────────────────────────────────────────────────

func TestDebit_DescuentaYRegistraMovimiento(t *testing.T) {
	s := newMemStore()
	s.addProduct("p1", qty(10))
	ledger := newLedger(s)

	prev, err := ledger.Debit(context.Background(), "p1", 4, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), prev, "debe devolver la existencia previa al débito")
	assert.Equal(t, int64(6), *s.products["p1"].Quantity)

	require.Len(t, s.movements, 1)
	m := s.movements[0]
	assert.Equal(t, entity.MovementTypeADJUST, m.Type, "débito sin venta se registra como ajuste")
	assert.Equal(t, int64(-4), m.Quantity)
	assert.Equal(t, int64(10), m.PrevQuantity)
	assert.Equal(t, int64(6), m.NewQuantity)
}

// Caso frontera: debitar exactamente la existencia deja cero, no falla.
func TestDebit_CantidadIgualAExistencia_DejaCero(t *testing.T) {
	s := newMemStore()
	s.addProduct("p1", qty(5))
	ledger := newLedger(s)

	prev, err := ledger.Debit(context.Background(), "p1", 5, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), prev)
	assert.Equal(t, int64(0), *s.products["p1"].Quantity)
}

func TestDebit_StockInsuficiente_NoMutaNada(t *testing.T) {
	s := newMemStore()
	s.addProduct("p1", qty(3))
	ledger := newLedger(s)

	_, err := ledger.Debit(context.Background(), "p1", 5, "u1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "p1", stockErr.ProductID)
	assert.Equal(t, int64(5), stockErr.Requested)
	assert.Equal(t, int64(3), stockErr.Available)
	assert.False(t, stockErr.Untracked)

	assert.Equal(t, int64(3), *s.products["p1"].Quantity, "la existencia no debe cambiar")
	assert.Empty(t, s.movements, "no debe quedar movimiento registrado")
}

// Producto con cantidad nula (sin control de stock): todo débito se rechaza.
func TestDebit_ProductoSinControlDeStock_Rechazado(t *testing.T) {
	s := newMemStore()
	s.addProduct("p1", nil)
	ledger := newLedger(s)

	_, err := ledger.Debit(context.Background(), "p1", 1, "u1")
	require.Error(t, err)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.True(t, stockErr.Untracked)
	assert.Nil(t, s.products["p1"].Quantity, "la cantidad debe seguir nula")
}

func TestDebit_CantidadNoPositiva_EntradaInvalida(t *testing.T) {
	s := newMemStore()
	s.addProduct("p1", qty(10))
	ledger := newLedger(s)

	_, err := ledger.Debit(context.Background(), "p1", 0, "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = ledger.Debit(context.Background(), "p1", -2, "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDebit_ProductoInexistente_NotFound(t *testing.T) {
	s := newMemStore()
	ledger := newLedger(s)

	_, err := ledger.Debit(context.Background(), "nope", 1, "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Créditos
// ──────────────────────────────────────────────────────────────────────────────

func TestCredit_RepoYDiario(t *testing.T) {
	s := newMemStore()
	s.addProduct("p1", qty(2))
	ledger := newLedger(s)

	require.NoError(t, ledger.Credit(context.Background(), "p1", 3, "u1"))
	assert.Equal(t, int64(5), *s.products["p1"].Quantity)

	require.Len(t, s.movements, 1)
	assert.Equal(t, int64(3), s.movements[0].Quantity)
	assert.Equal(t, int64(2), s.movements[0].PrevQuantity)
	assert.Equal(t, int64(5), s.movements[0].NewQuantity)
}

// Crédito sobre producto sin control de stock: no-op sin error.
func TestCredit_ProductoSinControlDeStock_NoOp(t *testing.T) {
	s := newMemStore()
	s.addProduct("p1", nil)
	ledger := newLedger(s)

	require.NoError(t, ledger.Credit(context.Background(), "p1", 3, "u1"))
	assert.Nil(t, s.products["p1"].Quantity)
	assert.Empty(t, s.movements, "un no-op no deja movimiento")
}

func TestCredit_ProductoInexistente_NotFound(t *testing.T) {
	s := newMemStore()
	ledger := newLedger(s)

	err := ledger.Credit(context.Background(), "nope", 1, "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia: dos débitos sobre el mismo producto, solo uno puede ganar
// ──────────────────────────────────────────────────────────────────────────────

func TestDebit_Concurrente_SoloUnoGana(t *testing.T) {
	s := newMemStore()
	s.addProduct("p1", qty(5))
	ledger := newLedger(s)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = ledger.Debit(context.Background(), "p1", 3, "u1")
		}(i)
	}
	wg.Wait()

	var okCount, stockErrCount int
	for _, err := range errs {
		switch {
		case err == nil:
			okCount++
		case errors.Is(err, domain.ErrInsufficientStock):
			stockErrCount++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, okCount, "exactamente un débito debe aplicarse")
	assert.Equal(t, 1, stockErrCount, "el otro debe fallar por stock insuficiente")
	assert.Equal(t, int64(2), *s.products["p1"].Quantity, "5 - 3 = 2, nunca negativo")
	assert.Len(t, s.movements, 1)
}

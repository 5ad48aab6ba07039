package sales_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/technova/ventas-api/internal/application/dto"
	"github.com/technova/ventas-api/internal/application/sales"
	"github.com/technova/ventas-api/internal/application/stock"
	"github.com/technova/ventas-api/internal/domain"
	"github.com/technova/ventas-api/internal/domain/entity"
	"github.com/technova/ventas-api/pkg/logger"
)

func newCreateUC(s *memStore) *sales.CreateSaleUseCase {
	runner := &memTxRunner{s: s}
	ledger := stock.NewLedger(runner, logger.Nop())
	return sales.NewCreateSaleUseCase(runner, ledger,
		&memClientRepo{s: s}, &memServiceRepo{s: s}, &memProductRepo{s: s})
}

func TestCreateSale_LoteMixto_DebitaYTotaliza(t *testing.T) {
	s := newMemStore()
	s.addClient("c1")
	s.addProduct("p1", 40, qty(10))
	s.addService("sv1", 25)
	uc := newCreateUC(s)

	out, err := uc.CreateSale(context.Background(), "u1", dto.CreateSaleRequest{
		ClientID: "c1",
		Lines: []dto.SaleLineRequest{
			{Kind: dto.LineKindProduct, ProductID: "p1", Quantity: 4},
			{Kind: dto.LineKindService, ServiceID: "sv1", Details: "instalación"},
		},
	})
	require.NoError(t, err)

	// Precios de catálogo: 4×40 + 25 = 185
	assert.True(t, out.Total.Equal(decimal.NewFromInt(185)), "total esperado 185, fue %s", out.Total)
	assert.True(t, out.Estado, "la venta nace abierta")
	require.Len(t, out.ProductLines, 1)
	require.Len(t, out.ServiceLines, 1)

	assert.Equal(t, int64(6), *s.products["p1"].Quantity, "10 - 4 = 6")
	require.Len(t, s.movements, 1)
	assert.Equal(t, entity.MovementTypeOUT, s.movements[0].Type)
	assert.Equal(t, out.ID, s.movements[0].SaleID)

	// Persistencia: cabecera y líneas en el store
	require.Contains(t, s.sales, out.ID)
	assert.True(t, s.sales[out.ID].Total.Equal(decimal.NewFromInt(185)))
}

// Atomicidad: si la segunda línea no tiene stock, la primera tampoco queda.
func TestCreateSale_FalloEnSegundaLinea_NoDejaNada(t *testing.T) {
	s := newMemStore()
	s.addClient("c1")
	s.addProduct("p1", 10, qty(10))
	s.addProduct("p2", 10, qty(1))
	uc := newCreateUC(s)

	_, err := uc.CreateSale(context.Background(), "u1", dto.CreateSaleRequest{
		ClientID: "c1",
		Lines: []dto.SaleLineRequest{
			{Kind: dto.LineKindProduct, ProductID: "p1", Quantity: 5},
			{Kind: dto.LineKindProduct, ProductID: "p2", Quantity: 3},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(10), *s.products["p1"].Quantity, "el débito de p1 debe revertirse")
	assert.Equal(t, int64(1), *s.products["p2"].Quantity)
	assert.Empty(t, s.sales, "no debe quedar cabecera")
	assert.Empty(t, s.productLines, "no deben quedar líneas")
	assert.Empty(t, s.movements, "no deben quedar movimientos")
}

func TestCreateSale_ValorUnitarioExplicito_PrevaleceSobreCatalogo(t *testing.T) {
	s := newMemStore()
	s.addClient("c1")
	s.addProduct("p1", 40, qty(10))
	uc := newCreateUC(s)

	out, err := uc.CreateSale(context.Background(), "u1", dto.CreateSaleRequest{
		ClientID: "c1",
		Lines: []dto.SaleLineRequest{
			{Kind: dto.LineKindProduct, ProductID: "p1", Quantity: 2, UnitValue: decimal.NewFromInt(35)},
		},
	})
	require.NoError(t, err)
	assert.True(t, out.Total.Equal(decimal.NewFromInt(70)), "2×35 = 70, fue %s", out.Total)
}

func TestCreateSale_ClienteInexistente_NotFound(t *testing.T) {
	s := newMemStore()
	s.addProduct("p1", 10, qty(5))
	uc := newCreateUC(s)

	_, err := uc.CreateSale(context.Background(), "u1", dto.CreateSaleRequest{
		ClientID: "nope",
		Lines:    []dto.SaleLineRequest{{Kind: dto.LineKindProduct, ProductID: "p1", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateSale_SinLineas_EntradaInvalida(t *testing.T) {
	s := newMemStore()
	s.addClient("c1")
	uc := newCreateUC(s)

	_, err := uc.CreateSale(context.Background(), "u1", dto.CreateSaleRequest{ClientID: "c1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateSale_LineaConKindDesconocido_EntradaInvalida(t *testing.T) {
	s := newMemStore()
	s.addClient("c1")
	uc := newCreateUC(s)

	_, err := uc.CreateSale(context.Background(), "u1", dto.CreateSaleRequest{
		ClientID: "c1",
		Lines:    []dto.SaleLineRequest{{Kind: "otro", ProductID: "p1", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Conflicto de serialización: el runner reejecuta el lote completo. La venta
// resultante debe tener cada línea exactamente una vez y un solo débito.
func TestCreateSale_ReintentoPorConflicto_NoDuplicaLineas(t *testing.T) {
	s := newMemStore()
	s.addClient("c1")
	s.addProduct("p1", 40, qty(10))
	s.addService("sv1", 25)

	runner := &retryingTxRunner{s: s}
	ledger := stock.NewLedger(runner, logger.Nop())
	uc := sales.NewCreateSaleUseCase(runner, ledger,
		&memClientRepo{s: s}, &memServiceRepo{s: s}, &memProductRepo{s: s})

	out, err := uc.CreateSale(context.Background(), "u1", dto.CreateSaleRequest{
		ClientID: "c1",
		Lines: []dto.SaleLineRequest{
			{Kind: dto.LineKindProduct, ProductID: "p1", Quantity: 4},
			{Kind: dto.LineKindService, ServiceID: "sv1"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 2, runner.calls, "el lote debe haberse ejecutado dos veces")

	assert.Len(t, out.ProductLines, 1, "las líneas del intento revertido no deben aparecer en la respuesta")
	assert.Len(t, out.ServiceLines, 1)
	assert.True(t, out.Total.Equal(decimal.NewFromInt(185)), "total esperado 185, fue %s", out.Total)

	// Solo el intento confirmado queda en el estado persistido.
	assert.Equal(t, int64(6), *s.products["p1"].Quantity)
	assert.Len(t, s.productLines, 1)
	assert.Len(t, s.serviceLines, 1)
	require.Len(t, s.movements, 1)
}

// Línea de producto sin control de stock: el lote completo se rechaza.
func TestCreateSale_ProductoSinControlDeStock_RechazaLote(t *testing.T) {
	s := newMemStore()
	s.addClient("c1")
	s.addProduct("p1", 10, nil)
	uc := newCreateUC(s)

	_, err := uc.CreateSale(context.Background(), "u1", dto.CreateSaleRequest{
		ClientID: "c1",
		Lines:    []dto.SaleLineRequest{{Kind: dto.LineKindProduct, ProductID: "p1", Quantity: 1}},
	})
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.True(t, stockErr.Untracked)
	assert.Empty(t, s.sales)
}

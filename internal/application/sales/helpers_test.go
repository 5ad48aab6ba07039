package sales_test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/technova/ventas-api/internal/domain/entity"
	"github.com/technova/ventas-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria para los coordinadores de venta. El runner serializa con un
// mutex y revierte todo el estado si el callback falla, igual que haría el
// rollback de PostgreSQL.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu           sync.Mutex
	products     map[string]*entity.Product
	clients      map[string]*entity.Client
	services     map[string]*entity.Service
	sales        map[string]*entity.Sale
	productLines map[string]entity.SaleLine
	serviceLines map[string]entity.ServiceLine
	movements    []*entity.StockMovement
}

func newMemStore() *memStore {
	return &memStore{
		products:     make(map[string]*entity.Product),
		clients:      make(map[string]*entity.Client),
		services:     make(map[string]*entity.Service),
		sales:        make(map[string]*entity.Sale),
		productLines: make(map[string]entity.SaleLine),
		serviceLines: make(map[string]entity.ServiceLine),
	}
}

func (s *memStore) addProduct(id string, price int64, quantity *int64) {
	s.products[id] = &entity.Product{
		ID: id, Name: "producto " + id,
		Price: decimal.NewFromInt(price), Quantity: quantity,
	}
}

func (s *memStore) addClient(id string) {
	s.clients[id] = &entity.Client{ID: id, Name: "cliente " + id, Active: true}
}

func (s *memStore) addService(id string, price int64) {
	s.services[id] = &entity.Service{ID: id, Name: "servicio " + id, Price: decimal.NewFromInt(price), Active: true}
}

func (s *memStore) addOpenSale(id, clientID string) {
	s.sales[id] = &entity.Sale{ID: id, ClientID: clientID, Date: time.Now(), Estado: true}
}

type snapshot struct {
	products     map[string]*entity.Product
	sales        map[string]*entity.Sale
	productLines map[string]entity.SaleLine
	serviceLines map[string]entity.ServiceLine
	movements    int
}

func (s *memStore) take() snapshot {
	snap := snapshot{
		products:     make(map[string]*entity.Product, len(s.products)),
		sales:        make(map[string]*entity.Sale, len(s.sales)),
		productLines: make(map[string]entity.SaleLine, len(s.productLines)),
		serviceLines: make(map[string]entity.ServiceLine, len(s.serviceLines)),
		movements:    len(s.movements),
	}
	for id, p := range s.products {
		cp := *p
		if p.Quantity != nil {
			q := *p.Quantity
			cp.Quantity = &q
		}
		snap.products[id] = &cp
	}
	for id, sale := range s.sales {
		cp := *sale
		snap.sales[id] = &cp
	}
	for id, l := range s.productLines {
		snap.productLines[id] = l
	}
	for id, l := range s.serviceLines {
		snap.serviceLines[id] = l
	}
	return snap
}

func (s *memStore) restore(snap snapshot) {
	s.products = snap.products
	s.sales = snap.sales
	s.productLines = snap.productLines
	s.serviceLines = snap.serviceLines
	s.movements = s.movements[:snap.movements]
}

// ── repos ─────────────────────────────────────────────────────────────────────

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
	if p, ok := r.s.products[id]; ok {
		p.Quantity = quantity
	}
	return nil
}
func (r *memProductRepo) List(limit, offset int) ([]*entity.Product, error) { return nil, nil }
func (r *memProductRepo) Delete(id string) error                            { delete(r.s.products, id); return nil }

type memClientRepo struct{ s *memStore }

func (r *memClientRepo) Create(c *entity.Client) error { r.s.clients[c.ID] = c; return nil }
func (r *memClientRepo) GetByID(id string) (*entity.Client, error) {
	c, ok := r.s.clients[id]
	if !ok {
		return nil, nil
	}
	return c, nil
}
func (r *memClientRepo) List(limit, offset int) ([]*entity.Client, error) { return nil, nil }
func (r *memClientRepo) Update(c *entity.Client) error                    { return nil }
func (r *memClientRepo) Delete(id string) error                           { delete(r.s.clients, id); return nil }

type memServiceRepo struct{ s *memStore }

func (r *memServiceRepo) Create(sv *entity.Service) error { r.s.services[sv.ID] = sv; return nil }
func (r *memServiceRepo) GetByID(id string) (*entity.Service, error) {
	sv, ok := r.s.services[id]
	if !ok {
		return nil, nil
	}
	return sv, nil
}
func (r *memServiceRepo) List(limit, offset int) ([]*entity.Service, error) { return nil, nil }
func (r *memServiceRepo) Update(sv *entity.Service) error                   { return nil }
func (r *memServiceRepo) Delete(id string) error                            { delete(r.s.services, id); return nil }

type memSaleRepo struct{ s *memStore }

func (r *memSaleRepo) Create(sale *entity.Sale) error {
	cp := *sale
	r.s.sales[sale.ID] = &cp
	return nil
}
func (r *memSaleRepo) GetByID(id string) (*entity.Sale, error) {
	sale, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	cp := *sale
	return &cp, nil
}
func (r *memSaleRepo) GetForUpdate(id string) (*entity.Sale, error) { return r.GetByID(id) }
func (r *memSaleRepo) List(limit, offset int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, sale := range r.s.sales {
		cp := *sale
		out = append(out, &cp)
	}
	return out, nil
}
func (r *memSaleRepo) UpdateTotal(id string, total decimal.Decimal) error {
	if sale, ok := r.s.sales[id]; ok {
		sale.Total = total
	}
	return nil
}
func (r *memSaleRepo) UpdateEstado(id string, estado bool) error {
	if sale, ok := r.s.sales[id]; ok {
		sale.Estado = estado
	}
	return nil
}
func (r *memSaleRepo) Delete(id string) error { delete(r.s.sales, id); return nil }

func (r *memSaleRepo) CreateProductLine(line *entity.SaleLine) error {
	r.s.productLines[line.ID] = *line
	return nil
}
func (r *memSaleRepo) CreateServiceLine(line *entity.ServiceLine) error {
	r.s.serviceLines[line.ID] = *line
	return nil
}
func (r *memSaleRepo) GetProductLine(lineID string) (*entity.SaleLine, error) {
	l, ok := r.s.productLines[lineID]
	if !ok {
		return nil, nil
	}
	return &l, nil
}
func (r *memSaleRepo) GetServiceLine(lineID string) (*entity.ServiceLine, error) {
	l, ok := r.s.serviceLines[lineID]
	if !ok {
		return nil, nil
	}
	return &l, nil
}
func (r *memSaleRepo) ListProductLines(saleID string) ([]entity.SaleLine, error) {
	var out []entity.SaleLine
	for _, l := range r.s.productLines {
		if l.SaleID == saleID {
			out = append(out, l)
		}
	}
	return out, nil
}
func (r *memSaleRepo) ListServiceLines(saleID string) ([]entity.ServiceLine, error) {
	var out []entity.ServiceLine
	for _, l := range r.s.serviceLines {
		if l.SaleID == saleID {
			out = append(out, l)
		}
	}
	return out, nil
}
func (r *memSaleRepo) DeleteProductLine(lineID string) error {
	delete(r.s.productLines, lineID)
	return nil
}
func (r *memSaleRepo) DeleteServiceLine(lineID string) error {
	delete(r.s.serviceLines, lineID)
	return nil
}

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

// ── runner ────────────────────────────────────────────────────────────────────

// memTxRunner implementa sales.TxRunner y stock.TxRunner sobre el memStore.
type memTxRunner struct{ s *memStore }

func (r *memTxRunner) RunSales(ctx context.Context, fn func(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	snap := r.s.take()
	if err := fn(&memSaleRepo{s: r.s}, &memProductRepo{s: r.s}, &memMovementRepo{s: r.s}); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

func (r *memTxRunner) Run(ctx context.Context, fn func(
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	snap := r.s.take()
	if err := fn(&memProductRepo{s: r.s}, &memMovementRepo{s: r.s}); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

// retryingTxRunner emula el comportamiento del runner de PostgreSQL ante un
// conflicto de serialización detectado en el commit: el primer intento se
// revierte completo y el callback se reejecuta una vez.
type retryingTxRunner struct {
	s     *memStore
	calls int
}

func (r *retryingTxRunner) RunSales(ctx context.Context, fn func(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for attempt := 0; attempt < 2; attempt++ {
		r.calls++
		snap := r.s.take()
		err := fn(&memSaleRepo{s: r.s}, &memProductRepo{s: r.s}, &memMovementRepo{s: r.s})
		if err != nil {
			r.s.restore(snap)
			return err
		}
		if attempt == 0 {
			// commit fallido: se revierte y se reintenta
			r.s.restore(snap)
			continue
		}
	}
	return nil
}

func (r *retryingTxRunner) Run(ctx context.Context, fn func(
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	snap := r.s.take()
	if err := fn(&memProductRepo{s: r.s}, &memMovementRepo{s: r.s}); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

func qty(n int64) *int64 { return &n }

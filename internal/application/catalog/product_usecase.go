package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/technova/ventas-api/internal/application/dto"
	"github.com/technova/ventas-api/internal/domain"
	"github.com/technova/ventas-api/internal/domain/entity"
	"github.com/technova/ventas-api/internal/domain/repository"
)

// ProductUseCase CRUD de catálogo de productos. La existencia (Quantity) solo
// se fija en el alta; después pertenece al libro de stock y las
// actualizaciones de catálogo no la tocan.
type ProductUseCase struct {
	productRepo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(productRepo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo}
}

// CreateProduct da de alta un producto. Quantity nil significa que no se
// controla stock; cero significa existencia cero (agotado).
func (uc *ProductUseCase) CreateProduct(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "" || in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity != nil && *in.Quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Price:     in.Price,
		Quantity:  in.Quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	return productToResponse(product), nil
}

// GetProduct devuelve un producto por ID.
func (uc *ProductUseCase) GetProduct(ctx context.Context, id string) (*dto.ProductResponse, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return productToResponse(product), nil
}

// ListProducts devuelve una página del catálogo.
func (uc *ProductUseCase) ListProducts(ctx context.Context, page dto.PageRequest) ([]dto.ProductResponse, error) {
	page.DefaultPage()
	products, err := uc.productRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, *productToResponse(p))
	}
	return out, nil
}

// UpdateProduct actualiza nombre y precio. No acepta cantidad: los ajustes de
// existencia van por el endpoint de stock.
func (uc *ProductUseCase) UpdateProduct(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if id == "" || in.Name == "" || in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	product.Name = in.Name
	product.Price = in.Price
	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	return productToResponse(product), nil
}

// DeleteProduct elimina el producto del catálogo. Las líneas de venta que lo
// referencian quedan como referencias históricas; reponer stock sobre ellas
// pasa a ser un no-op registrado.
func (uc *ProductUseCase) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.productRepo.Delete(id)
}

func productToResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  p.Quantity,
		Tracked:   p.Tracked(),
		CreatedAt: p.CreatedAt,
	}
}

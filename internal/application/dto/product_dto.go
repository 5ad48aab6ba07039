package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest alta de producto. Quantity nil = sin control de stock.
type CreateProductRequest struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity *int64          `json:"quantity"`
}

// UpdateProductRequest actualización de catálogo. La existencia no se toca
// por aquí: solo el libro de stock la modifica.
type UpdateProductRequest struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// ProductResponse producto para respuestas.
type ProductResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  *int64          `json:"quantity"`
	Tracked   bool            `json:"tracked"`
	CreatedAt time.Time       `json:"created_at"`
}

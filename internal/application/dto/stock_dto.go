package dto

import "time"

// Tipos de ajuste manual de stock.
const (
	AdjustDebit  = "debit"
	AdjustCredit = "credit"
)

// AdjustStockRequest ajuste manual de existencias (solo admin).
type AdjustStockRequest struct {
	ProductID string `json:"product_id"`
	Type      string `json:"type"` // debit | credit
	Quantity  int64  `json:"quantity"`
}

// StockMovementResponse entrada del diario del libro de stock.
type StockMovementResponse struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"product_id"`
	SaleID       string    `json:"sale_id,omitempty"`
	Type         string    `json:"type"`
	Quantity     int64     `json:"quantity"`
	PrevQuantity int64     `json:"prev_quantity"`
	NewQuantity  int64     `json:"new_quantity"`
	CreatedAt    time.Time `json:"created_at"`
}

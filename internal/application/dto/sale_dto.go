package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de línea aceptados en una venta.
const (
	LineKindProduct = "product"
	LineKindService = "service"
)

// SaleLineRequest una línea de la venta. Kind discrimina producto/servicio:
// solo las líneas de producto pasan por el libro de stock.
type SaleLineRequest struct {
	Kind       string          `json:"kind"`
	ProductID  string          `json:"product_id,omitempty"`
	ServiceID  string          `json:"service_id,omitempty"`
	Quantity   int64           `json:"quantity,omitempty"`
	UnitValue  decimal.Decimal `json:"unit_value,omitempty"`  // 0 = usar precio de catálogo
	TotalValue decimal.Decimal `json:"total_value,omitempty"` // 0 = recalcular unit×qty
	Details    string          `json:"details,omitempty"`     // solo servicios
}

// CreateSaleRequest crea una venta con su lote de líneas (todo o nada).
type CreateSaleRequest struct {
	ClientID string            `json:"client_id"`
	Lines    []SaleLineRequest `json:"lines"`
}

// AddProductLineRequest agrega una línea de producto a una venta existente.
type AddProductLineRequest struct {
	ProductID  string          `json:"product_id"`
	Quantity   int64           `json:"quantity"`
	UnitValue  decimal.Decimal `json:"unit_value"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// AddServiceLineRequest agrega una línea de servicio a una venta existente.
type AddServiceLineRequest struct {
	ServiceID  string          `json:"service_id"`
	Price      decimal.Decimal `json:"price"`
	TotalValue decimal.Decimal `json:"total_value"`
	Details    string          `json:"details"`
}

// UpdateEstadoRequest cambia el estado abierta/anulada de la venta.
type UpdateEstadoRequest struct {
	Estado bool `json:"estado"`
}

// SaleLineResponse línea de producto para respuestas.
type SaleLineResponse struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"product_id"`
	Quantity   int64           `json:"quantity"`
	UnitValue  decimal.Decimal `json:"unit_value"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// ServiceLineResponse línea de servicio para respuestas.
type ServiceLineResponse struct {
	ID         string          `json:"id"`
	ServiceID  string          `json:"service_id"`
	Price      decimal.Decimal `json:"price"`
	Details    string          `json:"details,omitempty"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// SaleResponse venta completa con sus líneas.
type SaleResponse struct {
	ID           string                `json:"id"`
	ClientID     string                `json:"client_id"`
	Date         time.Time             `json:"date"`
	Total        decimal.Decimal       `json:"total"`
	Estado       bool                  `json:"estado"`
	ProductLines []SaleLineResponse    `json:"product_lines"`
	ServiceLines []ServiceLineResponse `json:"service_lines"`
}

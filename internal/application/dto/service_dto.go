package dto

import "github.com/shopspring/decimal"

// CreateServiceRequest alta de servicio.
type CreateServiceRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// ServiceResponse servicio para respuestas.
type ServiceResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Active      bool            `json:"active"`
}

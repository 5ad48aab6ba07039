package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service representa un servicio ofrecido (no inventariable).
type Service struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

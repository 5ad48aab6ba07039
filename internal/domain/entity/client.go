package entity

import "time"

// Client representa un cliente de la empresa.
type Client struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

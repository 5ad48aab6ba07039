package dto

// CreateClientRequest alta de cliente.
type CreateClientRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// ClientResponse cliente para respuestas.
type ClientResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Active  bool   `json:"active"`
}

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

// ClientUseCase CRUD de clientes.
type ClientUseCase struct {
	clientRepo repository.ClientRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(clientRepo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{clientRepo: clientRepo}
}

// CreateClient da de alta un cliente.
func (uc *ClientUseCase) CreateClient(ctx context.Context, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	client := &entity.Client{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Phone:     in.Phone,
		Email:     in.Email,
		Address:   in.Address,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.clientRepo.Create(client); err != nil {
		return nil, err
	}
	return clientToResponse(client), nil
}

// GetClient devuelve un cliente por ID.
func (uc *ClientUseCase) GetClient(ctx context.Context, id string) (*dto.ClientResponse, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	client, err := uc.clientRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	return clientToResponse(client), nil
}

// ListClients devuelve una página de clientes.
func (uc *ClientUseCase) ListClients(ctx context.Context, page dto.PageRequest) ([]dto.ClientResponse, error) {
	page.DefaultPage()
	clients, err := uc.clientRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, *clientToResponse(c))
	}
	return out, nil
}

// UpdateClient actualiza los datos de contacto.
func (uc *ClientUseCase) UpdateClient(ctx context.Context, id string, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	if id == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	client, err := uc.clientRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	client.Name = in.Name
	client.Phone = in.Phone
	client.Email = in.Email
	client.Address = in.Address
	client.UpdatedAt = time.Now()
	if err := uc.clientRepo.Update(client); err != nil {
		return nil, err
	}
	return clientToResponse(client), nil
}

// DeleteClient elimina un cliente.
func (uc *ClientUseCase) DeleteClient(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	client, err := uc.clientRepo.GetByID(id)
	if err != nil {
		return err
	}
	if client == nil {
		return domain.ErrNotFound
	}
	return uc.clientRepo.Delete(id)
}

func clientToResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:      c.ID,
		Name:    c.Name,
		Phone:   c.Phone,
		Email:   c.Email,
		Address: c.Address,
		Active:  c.Active,
	}
}

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

// ServiceUseCase CRUD de servicios. Los servicios no llevan existencia, por
// eso su mantenimiento nunca pasa por el libro de stock.
type ServiceUseCase struct {
	serviceRepo repository.ServiceRepository
}

// NewServiceUseCase construye el caso de uso.
func NewServiceUseCase(serviceRepo repository.ServiceRepository) *ServiceUseCase {
	return &ServiceUseCase{serviceRepo: serviceRepo}
}

// CreateService da de alta un servicio.
func (uc *ServiceUseCase) CreateService(ctx context.Context, in dto.CreateServiceRequest) (*dto.ServiceResponse, error) {
	if in.Name == "" || in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	service := &entity.Service{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.serviceRepo.Create(service); err != nil {
		return nil, err
	}
	return serviceToResponse(service), nil
}

// GetService devuelve un servicio por ID.
func (uc *ServiceUseCase) GetService(ctx context.Context, id string) (*dto.ServiceResponse, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	service, err := uc.serviceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, domain.ErrNotFound
	}
	return serviceToResponse(service), nil
}

// ListServices devuelve una página de servicios.
func (uc *ServiceUseCase) ListServices(ctx context.Context, page dto.PageRequest) ([]dto.ServiceResponse, error) {
	page.DefaultPage()
	services, err := uc.serviceRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ServiceResponse, 0, len(services))
	for _, s := range services {
		out = append(out, *serviceToResponse(s))
	}
	return out, nil
}

// UpdateService actualiza nombre, descripción y precio.
func (uc *ServiceUseCase) UpdateService(ctx context.Context, id string, in dto.CreateServiceRequest) (*dto.ServiceResponse, error) {
	if id == "" || in.Name == "" || in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	service, err := uc.serviceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, domain.ErrNotFound
	}
	service.Name = in.Name
	service.Description = in.Description
	service.Price = in.Price
	service.UpdatedAt = time.Now()
	if err := uc.serviceRepo.Update(service); err != nil {
		return nil, err
	}
	return serviceToResponse(service), nil
}

// DeleteService elimina un servicio.
func (uc *ServiceUseCase) DeleteService(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	service, err := uc.serviceRepo.GetByID(id)
	if err != nil {
		return err
	}
	if service == nil {
		return domain.ErrNotFound
	}
	return uc.serviceRepo.Delete(id)
}

func serviceToResponse(s *entity.Service) *dto.ServiceResponse {
	return &dto.ServiceResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Price:       s.Price,
		Active:      s.Active,
	}
}

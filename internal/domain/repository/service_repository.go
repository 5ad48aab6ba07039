package repository

import "github.com/technova/ventas-api/internal/domain/entity"

// ServiceRepository define el puerto de persistencia para Service.
type ServiceRepository interface {
	Create(service *entity.Service) error
	GetByID(id string) (*entity.Service, error)
	List(limit, offset int) ([]*entity.Service, error)
	Update(service *entity.Service) error
	Delete(id string) error
}

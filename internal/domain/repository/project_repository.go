package repository

import "github.com/nqcrm/crm-api/internal/domain/entity"

// ProjectRepository puerto de persistencia para proyectos y sus entregables.
type ProjectRepository interface {
	Create(project *entity.Project) error
	GetByID(id string) (*entity.Project, error)
	List(limit, offset int) ([]*entity.Project, error)
	Update(project *entity.Project) error
	Delete(id string) error

	AddDeliverable(d *entity.Deliverable) error
	ListDeliverables(projectID string) ([]*entity.Deliverable, error)
	GetDeliverable(id string) (*entity.Deliverable, error)
	DeleteDeliverable(id string) error
}

package repository

import "github.com/nqcrm/crm-api/internal/domain/entity"

// ActivityRepository puerto de persistencia para el feed de actividad.
type ActivityRepository interface {
	Create(activity *entity.Activity) error
	ListRecent(limit int) ([]*entity.Activity, error)
}

package postgres

import (
	"context"
	"fmt"

	"github.com/nqcrm/crm-api/internal/domain/entity"
	"github.com/nqcrm/crm-api/internal/domain/repository"
)

var _ repository.ActivityRepository = (*ActivityRepo)(nil)

// ActivityRepo implementación del puerto ActivityRepository sobre PostgreSQL.
type ActivityRepo struct {
	q Querier
}

// NewActivityRepository construye el adaptador. Pasar pool o tx (Querier).
func NewActivityRepository(q Querier) *ActivityRepo {
	return &ActivityRepo{q: q}
}

// Create persiste una entrada del feed.
func (r *ActivityRepo) Create(activity *entity.Activity) error {
	query := `
		INSERT INTO activities (id, type, entity_type, entity_id, message, actor, ts)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		activity.ID, activity.Type, activity.EntityType, activity.EntityID,
		activity.Message, nullIfEmpty(activity.Actor), activity.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// ListRecent devuelve las últimas entradas, más nueva primero.
func (r *ActivityRepo) ListRecent(limit int) ([]*entity.Activity, error) {
	query := `
		SELECT id, type, entity_type, entity_id, message, COALESCE(actor, ''), ts
		FROM activities ORDER BY ts DESC LIMIT $1`
	rows, err := r.q.Query(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var entries []*entity.Activity
	for rows.Next() {
		var a entity.Activity
		if err := rows.Scan(&a.ID, &a.Type, &a.EntityType, &a.EntityID, &a.Message, &a.Actor, &a.Timestamp); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		entries = append(entries, &a)
	}
	return entries, rows.Err()
}

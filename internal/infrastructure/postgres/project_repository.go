package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/nqcrm/crm-api/internal/domain/entity"
	"github.com/nqcrm/crm-api/internal/domain/repository"
)

var _ repository.ProjectRepository = (*ProjectRepo)(nil)

// ProjectRepo implementación del puerto ProjectRepository sobre PostgreSQL.
// Las lecturas denormalizan client_name vía JOIN con clients.
type ProjectRepo struct {
	q Querier
}

// NewProjectRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProjectRepository(q Querier) *ProjectRepo {
	return &ProjectRepo{q: q}
}

// Create persiste un nuevo proyecto.
func (r *ProjectRepo) Create(project *entity.Project) error {
	query := `
		INSERT INTO projects (id, title, client_id, status, deadline, total_value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		project.ID, project.Title, project.ClientID, project.Status,
		project.Deadline, project.TotalValue, project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

// GetByID obtiene un proyecto por ID con el nombre del cliente.
func (r *ProjectRepo) GetByID(id string) (*entity.Project, error) {
	query := `
		SELECT p.id, p.title, p.client_id, c.name, p.status, p.deadline, p.total_value, p.created_at, p.updated_at
		FROM projects p
		JOIN clients c ON c.id = p.client_id
		WHERE p.id = $1`
	var p entity.Project
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.Title, &p.ClientID, &p.ClientName, &p.Status, &p.Deadline,
		&p.TotalValue, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &p, nil
}

// List devuelve proyectos ordenados por creación, más reciente primero.
func (r *ProjectRepo) List(limit, offset int) ([]*entity.Project, error) {
	query := `
		SELECT p.id, p.title, p.client_id, c.name, p.status, p.deadline, p.total_value, p.created_at, p.updated_at
		FROM projects p
		JOIN clients c ON c.id = p.client_id
		ORDER BY p.created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []*entity.Project
	for rows.Next() {
		var p entity.Project
		if err := rows.Scan(&p.ID, &p.Title, &p.ClientID, &p.ClientName, &p.Status, &p.Deadline,
			&p.TotalValue, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}

// Update actualiza los campos editables del proyecto.
func (r *ProjectRepo) Update(project *entity.Project) error {
	query := `
		UPDATE projects SET title = $2, status = $3, deadline = $4, total_value = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		project.ID, project.Title, project.Status, project.Deadline,
		project.TotalValue, project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return nil
}

// Delete elimina un proyecto. Los entregables caen en cascada (FK).
func (r *ProjectRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

// AddDeliverable persiste los metadatos de un entregable.
func (r *ProjectRepo) AddDeliverable(d *entity.Deliverable) error {
	query := `
		INSERT INTO deliverables (id, project_id, name, filename, file_size, content_type, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		d.ID, d.ProjectID, d.Name, d.Filename, d.FileSize, d.ContentType, d.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("insert deliverable: %w", err)
	}
	return nil
}

// ListDeliverables devuelve los entregables del proyecto, más reciente primero.
func (r *ProjectRepo) ListDeliverables(projectID string) ([]*entity.Deliverable, error) {
	query := `
		SELECT id, project_id, name, filename, file_size, content_type, uploaded_at
		FROM deliverables WHERE project_id = $1 ORDER BY uploaded_at DESC`
	rows, err := r.q.Query(context.Background(), query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list deliverables: %w", err)
	}
	defer rows.Close()

	var ds []*entity.Deliverable
	for rows.Next() {
		var d entity.Deliverable
		if err := rows.Scan(&d.ID, &d.ProjectID, &d.Name, &d.Filename, &d.FileSize, &d.ContentType, &d.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan deliverable: %w", err)
		}
		ds = append(ds, &d)
	}
	return ds, rows.Err()
}

// GetDeliverable obtiene un entregable por ID.
func (r *ProjectRepo) GetDeliverable(id string) (*entity.Deliverable, error) {
	query := `
		SELECT id, project_id, name, filename, file_size, content_type, uploaded_at
		FROM deliverables WHERE id = $1`
	var d entity.Deliverable
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&d.ID, &d.ProjectID, &d.Name, &d.Filename, &d.FileSize, &d.ContentType, &d.UploadedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get deliverable: %w", err)
	}
	return &d, nil
}

// DeleteDeliverable elimina un entregable.
func (r *ProjectRepo) DeleteDeliverable(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM deliverables WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete deliverable: %w", err)
	}
	return nil
}

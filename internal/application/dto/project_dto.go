package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProjectRequest entrada para crear un proyecto.
type CreateProjectRequest struct {
	Title      string          `json:"title" validate:"required,min=1,max=200"`
	ClientID   string          `json:"client_id" validate:"required,uuid4"`
	Status     string          `json:"status" validate:"omitempty,oneof=active completed on-hold"`
	Deadline   *time.Time      `json:"deadline"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// UpdateProjectRequest entrada para actualizar un proyecto.
type UpdateProjectRequest struct {
	Title      *string          `json:"title" validate:"omitempty,min=1,max=200"`
	Status     *string          `json:"status" validate:"omitempty,oneof=active completed on-hold"`
	Deadline   *time.Time       `json:"deadline"`
	TotalValue *decimal.Decimal `json:"total_value"`
}

// ProjectResponse salida de un proyecto.
type ProjectResponse struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	ClientID   string          `json:"client_id"`
	ClientName string          `json:"client_name"`
	Status     string          `json:"status"`
	Deadline   *time.Time      `json:"deadline,omitempty"`
	TotalValue decimal.Decimal `json:"total_value"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ProjectListResponse lista paginada de proyectos.
type ProjectListResponse struct {
	Items []ProjectResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// AddDeliverableRequest entrada para registrar un entregable. Solo metadatos:
// los bytes del archivo no pasan por este servicio.
type AddDeliverableRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Filename    string `json:"filename" validate:"required"`
	FileSize    int64  `json:"file_size" validate:"min=0"`
	ContentType string `json:"content_type"`
}

// DeliverableResponse salida de un entregable.
type DeliverableResponse struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	Name        string    `json:"name"`
	Filename    string    `json:"filename"`
	FileSize    int64     `json:"file_size"`
	ContentType string    `json:"content_type"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

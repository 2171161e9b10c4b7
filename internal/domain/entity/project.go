package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un proyecto.
const (
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
	ProjectStatusOnHold    = "on-hold"
)

// Project representa un proyecto contratado por un cliente.
type Project struct {
	ID         string
	Title      string
	ClientID   string
	ClientName string // denormalizado en lecturas, no se persiste
	Status     string // active | completed | on-hold
	Deadline   *time.Time
	TotalValue decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Deliverable es un entregable adjunto a un proyecto. Solo metadatos: el
// almacenamiento de los bytes del archivo queda fuera de este servicio.
type Deliverable struct {
	ID          string
	ProjectID   string
	Name        string
	Filename    string
	FileSize    int64
	ContentType string
	UploadedAt  time.Time
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MetricsResponse indicadores agregados del dashboard.
type MetricsResponse struct {
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	ActiveProjects int             `json:"active_projects"`
	TotalClients   int             `json:"total_clients"`
	MRR            decimal.Decimal `json:"mrr"`
}

// ActivityResponse entrada del feed de actividad reciente.
type ActivityResponse struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Message    string    `json:"message"`
	Actor      string    `json:"actor,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// MonthlyPoint un punto de una serie mensual ("2026-03" -> monto).
type MonthlyPoint struct {
	Month  string          `json:"month"`
	Amount decimal.Decimal `json:"amount"`
}

// ChartResponse serie mensual para las gráficas del dashboard.
type ChartResponse struct {
	Points []MonthlyPoint `json:"points"`
}

package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// AnalyticsRepository consultas read-only de agregados para métricas y
// gráficas del dashboard.
type AnalyticsRepository interface {
	// TotalRevenue suma el total de todas las facturas pagadas.
	TotalRevenue(ctx context.Context) (decimal.Decimal, error)
	CountActiveProjects(ctx context.Context) (int, error)
	CountClients(ctx context.Context) (int, error)
	// PaidRevenueBetween suma el total de facturas pagadas en [from, to).
	PaidRevenueBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	// PaymentsVolumeBetween suma los pagos exitosos creados en [from, to).
	PaymentsVolumeBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
}

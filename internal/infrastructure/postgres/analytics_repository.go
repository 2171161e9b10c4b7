package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/nqcrm/crm-api/internal/domain/entity"
	"github.com/nqcrm/crm-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para métricas y gráficas del
// dashboard. Agrega sobre los montos ya redondeados que guarda la facturación;
// nunca recalcula totales.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// TotalRevenue suma el total de todas las facturas pagadas.
func (r *AnalyticsRepo) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	const query = `
		SELECT COALESCE(SUM(total), 0)
		FROM invoices
		WHERE status = $1`
	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, entity.InvoiceStatusPaid).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("total revenue: %w", err)
	}
	return total, nil
}

// CountActiveProjects cuenta los proyectos en estado activo.
func (r *AnalyticsRepo) CountActiveProjects(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM projects WHERE status = $1`
	var n int
	if err := r.pool.QueryRow(ctx, query, entity.ProjectStatusActive).Scan(&n); err != nil {
		return 0, fmt.Errorf("count active projects: %w", err)
	}
	return n, nil
}

// CountClients cuenta todos los clientes.
func (r *AnalyticsRepo) CountClients(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM clients`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count clients: %w", err)
	}
	return n, nil
}

// PaidRevenueBetween suma el total de facturas pagadas en [from, to),
// por fecha de pago.
func (r *AnalyticsRepo) PaidRevenueBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	const query = `
		SELECT COALESCE(SUM(total), 0)
		FROM invoices
		WHERE status = $1 AND paid_at >= $2 AND paid_at < $3`
	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, entity.InvoiceStatusPaid, from, to).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("paid revenue between: %w", err)
	}
	return total, nil
}

// PaymentsVolumeBetween suma los pagos exitosos creados en [from, to).
func (r *AnalyticsRepo) PaymentsVolumeBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	const query = `
		SELECT COALESCE(SUM(amount), 0)
		FROM payments
		WHERE status = $1 AND created_at >= $2 AND created_at < $3`
	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, entity.PaymentStatusSucceeded, from, to).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("payments volume between: %w", err)
	}
	return total, nil
}

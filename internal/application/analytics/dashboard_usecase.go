// Package analytics contiene los casos de uso read-only del dashboard:
// métricas agregadas, feed de actividad y series mensuales para las gráficas.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nqcrm/crm-api/internal/application/dto"
	"github.com/nqcrm/crm-api/internal/domain/repository"
)

const (
	chartMonths      = 6  // meses que cubren las gráficas
	activityFeedSize = 20 // entradas del feed de actividad
)

var twelve = decimal.NewFromInt(12)

// DashboardUseCase genera los agregados del dashboard.
//
// Fuente de datos: AnalyticsRepository (consultas read-only) y
// ActivityRepository para el feed. No accede directamente a las tablas.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	activityRepo  repository.ActivityRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository, activityRepo repository.ActivityRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, activityRepo: activityRepo}
}

// Metrics construye los indicadores de cabecera del dashboard.
//
// Tres consultas en paralelo:
//  1. TotalRevenue        → TotalRevenue + MRR (ingreso total / 12)
//  2. CountActiveProjects → ActiveProjects
//  3. CountClients        → TotalClients
func (uc *DashboardUseCase) Metrics(ctx context.Context) (*dto.MetricsResponse, error) {
	type revenueResult struct {
		revenue decimal.Decimal
		err     error
	}
	type countResult struct {
		n   int
		err error
	}

	revenueCh := make(chan revenueResult, 1)
	projectsCh := make(chan countResult, 1)
	clientsCh := make(chan countResult, 1)

	go func() {
		rev, err := uc.analyticsRepo.TotalRevenue(ctx)
		revenueCh <- revenueResult{rev, err}
	}()
	go func() {
		n, err := uc.analyticsRepo.CountActiveProjects(ctx)
		projectsCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.analyticsRepo.CountClients(ctx)
		clientsCh <- countResult{n, err}
	}()

	revenue := <-revenueCh
	projects := <-projectsCh
	clients := <-clientsCh

	if revenue.err != nil {
		return nil, fmt.Errorf("dashboard: ingreso total: %w", revenue.err)
	}
	if projects.err != nil {
		return nil, fmt.Errorf("dashboard: proyectos activos: %w", projects.err)
	}
	if clients.err != nil {
		return nil, fmt.Errorf("dashboard: clientes: %w", clients.err)
	}

	return &dto.MetricsResponse{
		TotalRevenue:   revenue.revenue.Round(2),
		ActiveProjects: projects.n,
		TotalClients:   clients.n,
		MRR:            revenue.revenue.Div(twelve).Round(2),
	}, nil
}

// Activity devuelve el feed de actividad reciente, más nuevo primero.
func (uc *DashboardUseCase) Activity(ctx context.Context) ([]dto.ActivityResponse, error) {
	entries, err := uc.activityRepo.ListRecent(activityFeedSize)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ActivityResponse, 0, len(entries))
	for _, a := range entries {
		out = append(out, dto.ActivityResponse{
			ID:         a.ID,
			Type:       a.Type,
			EntityType: a.EntityType,
			EntityID:   a.EntityID,
			Message:    a.Message,
			Actor:      a.Actor,
			Timestamp:  a.Timestamp,
		})
	}
	return out, nil
}

// RevenueChart serie de facturación pagada de los últimos 6 meses
// (mes en curso incluido).
func (uc *DashboardUseCase) RevenueChart(ctx context.Context) (*dto.ChartResponse, error) {
	return uc.monthlySeries(ctx, uc.analyticsRepo.PaidRevenueBetween)
}

// PaymentsChart serie de pagos registrados de los últimos 6 meses.
func (uc *DashboardUseCase) PaymentsChart(ctx context.Context) (*dto.ChartResponse, error) {
	return uc.monthlySeries(ctx, uc.analyticsRepo.PaymentsVolumeBetween)
}

// monthlySeries acumula una consulta de rango en puntos mensuales, del mes
// más antiguo al actual. Cada rango es [inicio de mes, inicio del siguiente).
func (uc *DashboardUseCase) monthlySeries(
	ctx context.Context,
	query func(ctx context.Context, from, to time.Time) (decimal.Decimal, error),
) (*dto.ChartResponse, error) {
	now := time.Now()
	points := make([]dto.MonthlyPoint, 0, chartMonths)
	for i := chartMonths - 1; i >= 0; i-- {
		from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -i, 0)
		to := from.AddDate(0, 1, 0)
		amount, err := query(ctx, from, to)
		if err != nil {
			return nil, fmt.Errorf("dashboard: serie mensual %s: %w", from.Format("2006-01"), err)
		}
		points = append(points, dto.MonthlyPoint{
			Month:  from.Format("2006-01"),
			Amount: amount.Round(2),
		})
	}
	return &dto.ChartResponse{Points: points}, nil
}

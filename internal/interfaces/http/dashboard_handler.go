package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nqcrm/crm-api/internal/application/analytics"
	"github.com/nqcrm/crm-api/internal/application/dto"
)

// DashboardHandler expone métricas, actividad y gráficas (protegido).
type DashboardHandler struct {
	uc *analytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Metrics godoc
// @Summary      Métricas del dashboard
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MetricsResponse
// @Router       /api/metrics [get]
func (h *DashboardHandler) Metrics(c *fiber.Ctx) error {
	out, err := h.uc.Metrics(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Activity godoc
// @Summary      Feed de actividad reciente
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ActivityResponse
// @Router       /api/activity [get]
func (h *DashboardHandler) Activity(c *fiber.Ctx) error {
	out, err := h.uc.Activity(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// RevenueChart godoc
// @Summary      Facturación pagada de los últimos 6 meses
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ChartResponse
// @Router       /api/charts/revenue [get]
func (h *DashboardHandler) RevenueChart(c *fiber.Ctx) error {
	out, err := h.uc.RevenueChart(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// PaymentsChart godoc
// @Summary      Pagos registrados de los últimos 6 meses
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ChartResponse
// @Router       /api/charts/payments [get]
func (h *DashboardHandler) PaymentsChart(c *fiber.Ctx) error {
	out, err := h.uc.PaymentsChart(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

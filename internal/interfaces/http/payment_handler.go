package http

import (
	"github.com/gofiber/fiber/v2"

	appbilling "github.com/nqcrm/crm-api/internal/application/billing"
	"github.com/nqcrm/crm-api/internal/application/dto"
)

// PaymentHandler maneja las lecturas de pagos (protegido).
type PaymentHandler struct {
	uc *appbilling.PaymentUseCase
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(uc *appbilling.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

// List godoc
// @Summary      Listar pagos
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.PaymentListResponse
// @Router       /api/payments [get]
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.List(page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

package billing

import (
	"context"

	"github.com/nqcrm/crm-api/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción que incluye
// los repos de facturación. Crear una factura (asignar consecutivo + cabecera
// + líneas + actividad) y marcarla pagada (cabecera + pago + actividad) son
// atómicos: si fn retorna error se hace rollback de todo.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		paymentRepo repository.PaymentRepository,
		activityRepo repository.ActivityRepository,
	) error) error
}

package repository

import "github.com/nqcrm/crm-api/internal/domain/entity"

// PaymentRepository puerto de persistencia para pagos.
type PaymentRepository interface {
	Create(payment *entity.Payment) error
	List(limit, offset int) ([]*entity.Payment, error)
	ListByInvoice(invoiceID string) ([]*entity.Payment, error)
}

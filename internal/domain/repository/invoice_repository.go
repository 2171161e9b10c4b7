package repository

import "github.com/nqcrm/crm-api/internal/domain/entity"

// InvoiceRepository puerto de persistencia para facturas y sus líneas.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	CreateLineItem(item *entity.InvoiceLineItem) error
	GetByID(id string) (*entity.Invoice, error)
	GetLineItems(invoiceID string) ([]*entity.InvoiceLineItem, error)
	List(limit, offset int) ([]*entity.Invoice, error)
	Update(invoice *entity.Invoice) error
	DeleteLineItems(invoiceID string) error
	Delete(id string) error

	// MaxNumberSeq devuelve el mayor consecutivo asignado (el n de "INV-n"),
	// o 0 si aún no hay facturas. Llamado dentro de la transacción de
	// creación para asignar el siguiente número sin carreras.
	MaxNumberSeq() (int, error)
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nqcrm/crm-api/internal/domain/billing"
)

// CreateInvoiceRequest entrada para crear una factura. Las líneas viajan como
// strings crudos tal como llegan del formulario: la normalización decide qué
// filas cuentan, aquí no se valida nada por campo.
type CreateInvoiceRequest struct {
	ClientID   string                  `json:"client_id" validate:"required,uuid4"`
	ProjectID  string                  `json:"project_id" validate:"omitempty,uuid4"`
	TVARate    decimal.Decimal         `json:"tva_rate"`
	LineItems  []billing.LineItemInput `json:"line_items"`
	DueDate    *time.Time              `json:"due_date"`
	IssuedDate *time.Time              `json:"issued_date"`
}

// PreviewInvoiceRequest entrada del cálculo en vivo: mismas líneas crudas y
// tarifa que en la creación, sin persistir nada.
type PreviewInvoiceRequest struct {
	TVARate   decimal.Decimal         `json:"tva_rate"`
	LineItems []billing.LineItemInput `json:"line_items"`
}

// PreviewInvoiceResponse totales calculados para la vista previa, ya
// redondeados a 2 decimales, junto con las líneas que sobrevivieron a la
// normalización.
type PreviewInvoiceResponse struct {
	Subtotal  decimal.Decimal           `json:"subtotal"`
	TVARate   decimal.Decimal           `json:"tva_rate"`
	TVAAmount decimal.Decimal           `json:"tva_amount"`
	Total     decimal.Decimal           `json:"total"`
	LineItems []InvoiceLineItemResponse `json:"line_items"`
}

// UpdateInvoiceRequest entrada para actualizar una factura. Si LineItems o
// TVARate vienen presentes, los totales se recalculan desde cero.
type UpdateInvoiceRequest struct {
	Status    *string                  `json:"status" validate:"omitempty,oneof=pending paid overdue"`
	TVARate   *decimal.Decimal         `json:"tva_rate"`
	LineItems *[]billing.LineItemInput `json:"line_items"`
	DueDate   *time.Time               `json:"due_date"`
}

// InvoiceLineItemResponse salida de una línea de factura.
type InvoiceLineItemResponse struct {
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    decimal.Decimal `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// InvoiceResponse salida de una factura con sus líneas.
type InvoiceResponse struct {
	ID           string                    `json:"id"`
	Number       string                    `json:"number"`
	ClientID     string                    `json:"client_id"`
	ClientName   string                    `json:"client_name"`
	ProjectID    string                    `json:"project_id,omitempty"`
	ProjectTitle string                    `json:"project_title,omitempty"`
	Subtotal     decimal.Decimal           `json:"subtotal"`
	TVARate      decimal.Decimal           `json:"tva_rate"`
	TVAAmount    decimal.Decimal           `json:"tva_amount"`
	Total        decimal.Decimal           `json:"total"`
	Currency     string                    `json:"currency"`
	Status       string                    `json:"status"`
	DueDate      time.Time                 `json:"due_date"`
	IssuedDate   time.Time                 `json:"issued_date"`
	PaidAt       *time.Time                `json:"paid_at,omitempty"`
	LineItems    []InvoiceLineItemResponse `json:"line_items"`
	CreatedAt    time.Time                 `json:"created_at"`
	UpdatedAt    time.Time                 `json:"updated_at"`
}

// InvoiceListResponse lista paginada de facturas (sin líneas).
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un pago.
const (
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusPending   = "pending"
	PaymentStatusFailed    = "failed"
)

// Payment representa un cobro registrado contra una factura.
type Payment struct {
	ID         string
	InvoiceID  string
	ClientID   string
	ClientName string // denormalizado en lecturas
	Amount     decimal.Decimal
	Currency   string
	Status     string // succeeded | pending | failed
	Reference  string // referencia externa del cobro (si existe)
	CreatedAt  time.Time
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una factura.
const (
	InvoiceStatusPending = "pending"
	InvoiceStatusPaid    = "paid"
	InvoiceStatusOverdue = "overdue"
)

// Invoice representa la cabecera de una factura. Los montos (Subtotal,
// TVAAmount, Total) se guardan ya redondeados a 2 decimales en el momento de
// persistir; una factura almacenada nunca se recalcula al leerla, de modo que
// un cambio futuro de política de tarifas no altera el histórico.
type Invoice struct {
	ID           string
	Number       string // INV-1001, INV-1002, ...
	ClientID     string
	ClientName   string // denormalizado en lecturas
	ProjectID    string // opcional
	ProjectTitle string // denormalizado en lecturas
	Subtotal     decimal.Decimal
	TVARate      decimal.Decimal // porcentaje: 0, 2.1, 5.5, 10 o 20
	TVAAmount    decimal.Decimal
	Total        decimal.Decimal
	Currency     string // "eur"
	Status       string // pending | paid | overdue
	DueDate      time.Time
	IssuedDate   time.Time
	PaidAt       *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// InvoiceLineItem es una línea facturable persistida: descripción, precio
// unitario, cantidad y total de línea (redondeado a 2 decimales al guardar).
// Position conserva el orden de entrada, significativo para la presentación.
type InvoiceLineItem struct {
	ID          string
	InvoiceID   string
	Position    int
	Description string
	UnitPrice   decimal.Decimal
	Quantity    decimal.Decimal
	LineTotal   decimal.Decimal
}

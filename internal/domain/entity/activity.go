package entity

import "time"

// Tipos de actividad del feed del dashboard.
const (
	ActivityClientAdded        = "client_added"
	ActivityProjectCreated     = "project_created"
	ActivityDeliverableAdded   = "deliverable_added"
	ActivityDeliverableRemoved = "deliverable_removed"
	ActivityInvoiceCreated     = "invoice_created"
	ActivityInvoicePaid        = "invoice_paid"
	ActivityUserCreated        = "user_created"
)

// Activity es una entrada del feed de actividad reciente.
type Activity struct {
	ID         string
	Type       string // client_added, invoice_paid, ...
	EntityType string // client | project | invoice | payment | user
	EntityID   string
	Message    string
	Actor      string
	Timestamp  time.Time
}

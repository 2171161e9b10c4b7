package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/nqcrm/crm-api/internal/domain"
	"github.com/nqcrm/crm-api/internal/domain/entity"
	"github.com/nqcrm/crm-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación del puerto InvoiceRepository sobre PostgreSQL.
// Las lecturas denormalizan client_name y project_title vía JOIN.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceSelect = `
	SELECT i.id, i.number, i.client_id, c.name, COALESCE(i.project_id, ''), COALESCE(p.title, ''),
	       i.subtotal, i.tva_rate, i.tva_amount, i.total, i.currency, i.status,
	       i.due_date, i.issued_date, i.paid_at, i.created_at, i.updated_at
	FROM invoices i
	JOIN clients c ON c.id = i.client_id
	LEFT JOIN projects p ON p.id = i.project_id`

// Create persiste la cabecera de la factura.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, number, client_id, project_id, subtotal, tva_rate, tva_amount, total,
		                      currency, status, due_date, issued_date, paid_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.Number, invoice.ClientID, nullIfEmpty(invoice.ProjectID),
		invoice.Subtotal, invoice.TVARate, invoice.TVAAmount, invoice.Total,
		invoice.Currency, invoice.Status, invoice.DueDate, invoice.IssuedDate, invoice.PaidAt,
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateLineItem persiste una línea de la factura.
func (r *InvoiceRepo) CreateLineItem(item *entity.InvoiceLineItem) error {
	query := `
		INSERT INTO invoice_line_items (id, invoice_id, position, description, unit_price, quantity, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.InvoiceID, item.Position, item.Description,
		item.UnitPrice, item.Quantity, item.LineTotal,
	)
	if err != nil {
		return fmt.Errorf("insert invoice line item: %w", err)
	}
	return nil
}

// GetByID obtiene una cabecera de factura por ID.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := r.q.QueryRow(context.Background(), invoiceSelect+` WHERE i.id = $1`, id).Scan(
		&inv.ID, &inv.Number, &inv.ClientID, &inv.ClientName, &inv.ProjectID, &inv.ProjectTitle,
		&inv.Subtotal, &inv.TVARate, &inv.TVAAmount, &inv.Total, &inv.Currency, &inv.Status,
		&inv.DueDate, &inv.IssuedDate, &inv.PaidAt, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return &inv, nil
}

// GetLineItems devuelve las líneas de la factura en su orden de entrada.
func (r *InvoiceRepo) GetLineItems(invoiceID string) ([]*entity.InvoiceLineItem, error) {
	query := `
		SELECT id, invoice_id, position, description, unit_price, quantity, line_total
		FROM invoice_line_items WHERE invoice_id = $1 ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice line items: %w", err)
	}
	defer rows.Close()

	var items []*entity.InvoiceLineItem
	for rows.Next() {
		var li entity.InvoiceLineItem
		if err := rows.Scan(&li.ID, &li.InvoiceID, &li.Position, &li.Description,
			&li.UnitPrice, &li.Quantity, &li.LineTotal); err != nil {
			return nil, fmt.Errorf("scan invoice line item: %w", err)
		}
		items = append(items, &li)
	}
	return items, rows.Err()
}

// List devuelve facturas ordenadas por emisión, más reciente primero.
func (r *InvoiceRepo) List(limit, offset int) ([]*entity.Invoice, error) {
	query := invoiceSelect + ` ORDER BY i.issued_date DESC, i.number DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*entity.Invoice
	for rows.Next() {
		var inv entity.Invoice
		if err := rows.Scan(
			&inv.ID, &inv.Number, &inv.ClientID, &inv.ClientName, &inv.ProjectID, &inv.ProjectTitle,
			&inv.Subtotal, &inv.TVARate, &inv.TVAAmount, &inv.Total, &inv.Currency, &inv.Status,
			&inv.DueDate, &inv.IssuedDate, &inv.PaidAt, &inv.CreatedAt, &inv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, &inv)
	}
	return invoices, rows.Err()
}

// Update actualiza los campos mutables de la cabecera.
func (r *InvoiceRepo) Update(invoice *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET subtotal = $2, tva_rate = $3, tva_amount = $4, total = $5,
		    status = $6, due_date = $7, paid_at = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.Subtotal, invoice.TVARate, invoice.TVAAmount, invoice.Total,
		invoice.Status, invoice.DueDate, invoice.PaidAt, invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	return nil
}

// DeleteLineItems borra todas las líneas de la factura (previo a reinsertarlas).
func (r *InvoiceRepo) DeleteLineItems(invoiceID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM invoice_line_items WHERE invoice_id = $1`, invoiceID)
	if err != nil {
		return fmt.Errorf("delete invoice line items: %w", err)
	}
	return nil
}

// Delete elimina una factura. Las líneas caen en cascada (FK).
func (r *InvoiceRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}

// MaxNumberSeq extrae el mayor consecutivo de los números existentes
// (el sufijo numérico de "INV-n"), o 0 si no hay facturas.
func (r *InvoiceRepo) MaxNumberSeq() (int, error) {
	query := `
		SELECT COALESCE(MAX(NULLIF(substring(number from '\d+$'), '')::int), 0)
		FROM invoices`
	var seq int
	if err := r.q.QueryRow(context.Background(), query).Scan(&seq); err != nil {
		return 0, fmt.Errorf("max invoice number: %w", err)
	}
	return seq, nil
}

package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nqcrm/crm-api/internal/application/dto"
	"github.com/nqcrm/crm-api/internal/domain"
	domainbilling "github.com/nqcrm/crm-api/internal/domain/billing"
	"github.com/nqcrm/crm-api/internal/domain/entity"
	"github.com/nqcrm/crm-api/internal/domain/repository"
)

// Intentos de asignación de consecutivo cuando dos creaciones concurrentes
// leen el mismo máximo y una pierde contra el UNIQUE de number.
const numberAllocRetries = 3

// InvoiceConfig numeración y moneda de las facturas emitidas.
type InvoiceConfig struct {
	NumberPrefix string // ej. "INV-"
	NumberStart  int    // primer consecutivo, ej. 1001
	Currency     string // ej. "eur"
}

// InvoiceUseCase casos de uso de facturación. Los totales salen siempre del
// motor de dominio: la previsualización y la creación definitiva pasan por la
// misma función de cálculo, de modo que lo que el formulario muestra es
// exactamente lo que se persiste.
type InvoiceUseCase struct {
	txRunner     BillingTxRunner
	invoiceRepo  repository.InvoiceRepository
	clientRepo   repository.ClientRepository
	projectRepo  repository.ProjectRepository
	activityRepo repository.ActivityRepository
	cfg          InvoiceConfig
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner BillingTxRunner,
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	projectRepo repository.ProjectRepository,
	activityRepo repository.ActivityRepository,
	cfg InvoiceConfig,
) *InvoiceUseCase {
	if cfg.NumberPrefix == "" {
		cfg.NumberPrefix = "INV-"
	}
	if cfg.NumberStart <= 0 {
		cfg.NumberStart = 1001
	}
	if cfg.Currency == "" {
		cfg.Currency = "eur"
	}
	return &InvoiceUseCase{
		txRunner:     txRunner,
		invoiceRepo:  invoiceRepo,
		clientRepo:   clientRepo,
		projectRepo:  projectRepo,
		activityRepo: activityRepo,
		cfg:          cfg,
	}
}

// Preview calcula los totales para el formulario sin persistir nada.
func (uc *InvoiceUseCase) Preview(in dto.PreviewInvoiceRequest) (*dto.PreviewInvoiceResponse, error) {
	totals, items, err := domainbilling.ComputeTotalsFromInputs(in.LineItems, in.TVARate)
	if err != nil {
		return nil, err
	}
	rounded := totals.Rounded()
	return &dto.PreviewInvoiceResponse{
		Subtotal:  rounded.Subtotal,
		TVARate:   totals.TaxRate.Percent(),
		TVAAmount: rounded.TaxAmount,
		Total:     rounded.Total,
		LineItems: toLineItemResponses(items),
	}, nil
}

// Create calcula los totales, asigna el siguiente consecutivo y persiste
// cabecera, líneas y actividad en una sola transacción.
func (uc *InvoiceUseCase) Create(ctx context.Context, actorName string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	client, err := uc.clientRepo.GetByID(in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	var project *entity.Project
	if in.ProjectID != "" {
		project, err = uc.projectRepo.GetByID(in.ProjectID)
		if err != nil {
			return nil, err
		}
		if project == nil || project.ClientID != in.ClientID {
			return nil, domain.ErrNotFound
		}
	}

	totals, items, err := domainbilling.ComputeTotalsFromInputs(in.LineItems, in.TVARate)
	if err != nil {
		return nil, err
	}
	rounded := totals.Rounded()

	now := time.Now()
	issued := now
	if in.IssuedDate != nil {
		issued = *in.IssuedDate
	}
	due := issued.AddDate(0, 0, 30)
	if in.DueDate != nil {
		due = *in.DueDate
	}

	inv := &entity.Invoice{
		ID:         uuid.New().String(),
		ClientID:   client.ID,
		ClientName: client.Name,
		Subtotal:   rounded.Subtotal,
		TVARate:    totals.TaxRate.Percent(),
		TVAAmount:  rounded.TaxAmount,
		Total:      rounded.Total,
		Currency:   uc.cfg.Currency,
		Status:     entity.InvoiceStatusPending,
		DueDate:    due,
		IssuedDate: issued,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if project != nil {
		inv.ProjectID = project.ID
		inv.ProjectTitle = project.Title
	}

	// El consecutivo se asigna dentro de la transacción (MAX+1). Bajo READ
	// COMMITTED dos creaciones concurrentes pueden leer el mismo máximo: la
	// que pierde choca con el UNIQUE de number y se reintenta con una
	// transacción nueva, que ya ve al ganador.
	for attempt := 0; ; attempt++ {
		err = uc.txRunner.RunBilling(ctx, func(
			invoiceRepo repository.InvoiceRepository,
			_ repository.PaymentRepository,
			activityRepo repository.ActivityRepository,
		) error {
			seq, err := invoiceRepo.MaxNumberSeq()
			if err != nil {
				return err
			}
			next := seq + 1
			if next < uc.cfg.NumberStart {
				next = uc.cfg.NumberStart
			}
			inv.Number = fmt.Sprintf("%s%d", uc.cfg.NumberPrefix, next)

			if err := invoiceRepo.Create(inv); err != nil {
				return err
			}
			for pos, item := range items {
				li := &entity.InvoiceLineItem{
					ID:          uuid.New().String(),
					InvoiceID:   inv.ID,
					Position:    pos,
					Description: item.Description,
					UnitPrice:   item.UnitPrice,
					Quantity:    item.Quantity,
					LineTotal:   domainbilling.RoundMinorUnits(item.LineTotal),
				}
				if err := invoiceRepo.CreateLineItem(li); err != nil {
					return err
				}
			}
			return activityRepo.Create(&entity.Activity{
				ID:         uuid.New().String(),
				Type:       entity.ActivityInvoiceCreated,
				EntityType: "invoice",
				EntityID:   inv.ID,
				Message:    fmt.Sprintf("Factura %s emitida a %s", inv.Number, inv.ClientName),
				Actor:      actorName,
				Timestamp:  now,
			})
		})
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrDuplicate) || attempt+1 >= numberAllocRetries {
			return nil, err
		}
	}
	return uc.GetByID(inv.ID)
}

// GetByID obtiene una factura con sus líneas.
func (uc *InvoiceUseCase) GetByID(id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, nil
	}
	items, err := uc.invoiceRepo.GetLineItems(id)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, items), nil
}

// List devuelve facturas paginadas, sin líneas.
func (uc *InvoiceUseCase) List(page dto.PageRequest) (*dto.InvoiceListResponse, error) {
	page.DefaultPage()
	invoices, err := uc.invoiceRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		items = append(items, *toInvoiceResponse(inv, nil))
	}
	return &dto.InvoiceListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Update aplica cambios parciales. Si vienen líneas o tarifa nuevas, los
// totales se recalculan desde cero con el motor de dominio; marcar la factura
// como pagada registra el pago y la actividad en la misma transacción.
func (uc *InvoiceUseCase) Update(ctx context.Context, actorName, id string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, nil
	}

	recompute := in.LineItems != nil || in.TVARate != nil
	if recompute && inv.Status == entity.InvoiceStatusPaid {
		// Una factura pagada es un registro cerrado: sus montos no se tocan.
		return nil, domain.ErrAlreadyPaid
	}

	var newItems []domainbilling.LineItem
	if recompute {
		rate := inv.TVARate
		if in.TVARate != nil {
			rate = *in.TVARate
		}
		inputs := make([]domainbilling.LineItemInput, 0)
		if in.LineItems != nil {
			inputs = *in.LineItems
		} else {
			// Solo cambia la tarifa: se recalcula sobre las líneas guardadas.
			stored, err := uc.invoiceRepo.GetLineItems(id)
			if err != nil {
				return nil, err
			}
			for _, li := range stored {
				inputs = append(inputs, domainbilling.LineItemInput{
					Description: li.Description,
					UnitPrice:   li.UnitPrice.String(),
					Quantity:    li.Quantity.String(),
				})
			}
		}
		totals, items, err := domainbilling.ComputeTotalsFromInputs(inputs, rate)
		if err != nil {
			return nil, err
		}
		rounded := totals.Rounded()
		inv.Subtotal = rounded.Subtotal
		inv.TVARate = totals.TaxRate.Percent()
		inv.TVAAmount = rounded.TaxAmount
		inv.Total = rounded.Total
		newItems = items
	}

	if in.DueDate != nil {
		inv.DueDate = *in.DueDate
	}

	markPaid := false
	if in.Status != nil && *in.Status != inv.Status {
		switch *in.Status {
		case entity.InvoiceStatusPaid:
			markPaid = true
		case entity.InvoiceStatusPending, entity.InvoiceStatusOverdue:
			// Una factura pagada no se reabre.
			if inv.Status == entity.InvoiceStatusPaid {
				return nil, domain.ErrAlreadyPaid
			}
		default:
			return nil, domain.ErrInvalidInput
		}
		inv.Status = *in.Status
	}

	now := time.Now()
	inv.UpdatedAt = now
	if markPaid {
		inv.PaidAt = &now
	}

	err = uc.txRunner.RunBilling(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		paymentRepo repository.PaymentRepository,
		activityRepo repository.ActivityRepository,
	) error {
		if newItems != nil {
			if err := invoiceRepo.DeleteLineItems(inv.ID); err != nil {
				return err
			}
			for pos, item := range newItems {
				li := &entity.InvoiceLineItem{
					ID:          uuid.New().String(),
					InvoiceID:   inv.ID,
					Position:    pos,
					Description: item.Description,
					UnitPrice:   item.UnitPrice,
					Quantity:    item.Quantity,
					LineTotal:   domainbilling.RoundMinorUnits(item.LineTotal),
				}
				if err := invoiceRepo.CreateLineItem(li); err != nil {
					return err
				}
			}
		}
		if err := invoiceRepo.Update(inv); err != nil {
			return err
		}
		if markPaid {
			if err := paymentRepo.Create(&entity.Payment{
				ID:         uuid.New().String(),
				InvoiceID:  inv.ID,
				ClientID:   inv.ClientID,
				ClientName: inv.ClientName,
				Amount:     inv.Total,
				Currency:   inv.Currency,
				Status:     entity.PaymentStatusSucceeded,
				Reference:  inv.Number,
				CreatedAt:  now,
			}); err != nil {
				return err
			}
			return activityRepo.Create(&entity.Activity{
				ID:         uuid.New().String(),
				Type:       entity.ActivityInvoicePaid,
				EntityType: "invoice",
				EntityID:   inv.ID,
				Message:    fmt.Sprintf("Factura %s pagada por %s", inv.Number, inv.ClientName),
				Actor:      actorName,
				Timestamp:  now,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.GetByID(inv.ID)
}

// Delete elimina una factura pendiente o vencida. Las pagadas son registro
// contable y no se eliminan.
func (uc *InvoiceUseCase) Delete(id string) error {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return err
	}
	if inv == nil {
		return domain.ErrNotFound
	}
	if inv.Status == entity.InvoiceStatusPaid {
		return domain.ErrConflict
	}
	return uc.invoiceRepo.Delete(id)
}

func toLineItemResponses(items []domainbilling.LineItem) []dto.InvoiceLineItemResponse {
	out := make([]dto.InvoiceLineItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, dto.InvoiceLineItemResponse{
			Description: item.Description,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			LineTotal:   domainbilling.RoundMinorUnits(item.LineTotal),
		})
	}
	return out
}

func toInvoiceResponse(inv *entity.Invoice, items []*entity.InvoiceLineItem) *dto.InvoiceResponse {
	lineItems := make([]dto.InvoiceLineItemResponse, 0, len(items))
	for _, li := range items {
		lineItems = append(lineItems, dto.InvoiceLineItemResponse{
			Description: li.Description,
			UnitPrice:   li.UnitPrice,
			Quantity:    li.Quantity,
			LineTotal:   li.LineTotal,
		})
	}
	return &dto.InvoiceResponse{
		ID:           inv.ID,
		Number:       inv.Number,
		ClientID:     inv.ClientID,
		ClientName:   inv.ClientName,
		ProjectID:    inv.ProjectID,
		ProjectTitle: inv.ProjectTitle,
		Subtotal:     inv.Subtotal,
		TVARate:      inv.TVARate,
		TVAAmount:    inv.TVAAmount,
		Total:        inv.Total,
		Currency:     inv.Currency,
		Status:       inv.Status,
		DueDate:      inv.DueDate,
		IssuedDate:   inv.IssuedDate,
		PaidAt:       inv.PaidAt,
		LineItems:    lineItems,
		CreatedAt:    inv.CreatedAt,
		UpdatedAt:    inv.UpdatedAt,
	}
}

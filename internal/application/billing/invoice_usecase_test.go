package billing_test

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nqcrm/crm-api/internal/application/billing"
	"github.com/nqcrm/crm-api/internal/application/dto"
	"github.com/nqcrm/crm-api/internal/domain"
	domainbilling "github.com/nqcrm/crm-api/internal/domain/billing"
	"github.com/nqcrm/crm-api/internal/domain/entity"
	"github.com/nqcrm/crm-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeInvoiceRepo struct {
	invoices map[string]*entity.Invoice
	items    map[string][]*entity.InvoiceLineItem

	// duplicateOnce simula una creación concurrente: el primer Create pierde
	// contra un competidor que se queda con el mismo número.
	duplicateOnce bool
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		invoices: make(map[string]*entity.Invoice),
		items:    make(map[string][]*entity.InvoiceLineItem),
	}
}

func (r *fakeInvoiceRepo) Create(inv *entity.Invoice) error {
	if r.duplicateOnce {
		r.duplicateOnce = false
		competitor := *inv
		competitor.ID = "competidor"
		r.invoices[competitor.ID] = &competitor
		return domain.ErrDuplicate
	}
	cp := *inv
	r.invoices[inv.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) CreateLineItem(item *entity.InvoiceLineItem) error {
	cp := *item
	r.items[item.InvoiceID] = append(r.items[item.InvoiceID], &cp)
	return nil
}

func (r *fakeInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *fakeInvoiceRepo) GetLineItems(invoiceID string) ([]*entity.InvoiceLineItem, error) {
	return r.items[invoiceID], nil
}

func (r *fakeInvoiceRepo) List(limit, offset int) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.invoices {
		out = append(out, inv)
	}
	return out, nil
}

func (r *fakeInvoiceRepo) Update(inv *entity.Invoice) error {
	cp := *inv
	r.invoices[inv.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) DeleteLineItems(invoiceID string) error {
	delete(r.items, invoiceID)
	return nil
}

func (r *fakeInvoiceRepo) Delete(id string) error {
	delete(r.invoices, id)
	delete(r.items, id)
	return nil
}

func (r *fakeInvoiceRepo) MaxNumberSeq() (int, error) {
	max := 0
	for _, inv := range r.invoices {
		idx := strings.LastIndex(inv.Number, "-")
		if idx < 0 {
			continue
		}
		if n, err := strconv.Atoi(inv.Number[idx+1:]); err == nil && n > max {
			max = n
		}
	}
	return max, nil
}

type fakeClientRepo struct {
	clients map[string]*entity.Client
}

func (r *fakeClientRepo) Create(c *entity.Client) error          { r.clients[c.ID] = c; return nil }
func (r *fakeClientRepo) GetByID(id string) (*entity.Client, error) {
	return r.clients[id], nil
}
func (r *fakeClientRepo) List(limit, offset int) ([]*entity.Client, error) { return nil, nil }
func (r *fakeClientRepo) Update(c *entity.Client) error                    { return nil }
func (r *fakeClientRepo) Delete(id string) error                           { return nil }

type fakeProjectRepo struct {
	projects map[string]*entity.Project
}

func (r *fakeProjectRepo) Create(p *entity.Project) error { r.projects[p.ID] = p; return nil }
func (r *fakeProjectRepo) GetByID(id string) (*entity.Project, error) {
	return r.projects[id], nil
}
func (r *fakeProjectRepo) List(limit, offset int) ([]*entity.Project, error)      { return nil, nil }
func (r *fakeProjectRepo) Update(p *entity.Project) error                         { return nil }
func (r *fakeProjectRepo) Delete(id string) error                                 { return nil }
func (r *fakeProjectRepo) AddDeliverable(d *entity.Deliverable) error             { return nil }
func (r *fakeProjectRepo) ListDeliverables(id string) ([]*entity.Deliverable, error) {
	return nil, nil
}
func (r *fakeProjectRepo) GetDeliverable(id string) (*entity.Deliverable, error) { return nil, nil }
func (r *fakeProjectRepo) DeleteDeliverable(id string) error                     { return nil }

type fakePaymentRepo struct {
	payments []*entity.Payment
}

func (r *fakePaymentRepo) Create(p *entity.Payment) error {
	cp := *p
	r.payments = append(r.payments, &cp)
	return nil
}
func (r *fakePaymentRepo) List(limit, offset int) ([]*entity.Payment, error) {
	return r.payments, nil
}
func (r *fakePaymentRepo) ListByInvoice(invoiceID string) ([]*entity.Payment, error) {
	var out []*entity.Payment
	for _, p := range r.payments {
		if p.InvoiceID == invoiceID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeActivityRepo struct {
	entries []*entity.Activity
}

func (r *fakeActivityRepo) Create(a *entity.Activity) error {
	cp := *a
	r.entries = append(r.entries, &cp)
	return nil
}
func (r *fakeActivityRepo) ListRecent(limit int) ([]*entity.Activity, error) {
	return r.entries, nil
}

// fakeTxRunner ejecuta el callback directamente contra los fakes compartidos.
type fakeTxRunner struct {
	invoiceRepo  *fakeInvoiceRepo
	paymentRepo  *fakePaymentRepo
	activityRepo *fakeActivityRepo
}

func (r *fakeTxRunner) RunBilling(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	activityRepo repository.ActivityRepository,
) error) error {
	return fn(r.invoiceRepo, r.paymentRepo, r.activityRepo)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	testClientID  = "11111111-1111-1111-1111-111111111111"
	testProjectID = "22222222-2222-2222-2222-222222222222"
)

type fixture struct {
	uc       *billing.InvoiceUseCase
	invoices *fakeInvoiceRepo
	payments *fakePaymentRepo
	activity *fakeActivityRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	invoices := newFakeInvoiceRepo()
	payments := &fakePaymentRepo{}
	activity := &fakeActivityRepo{}
	clients := &fakeClientRepo{clients: map[string]*entity.Client{
		testClientID: {ID: testClientID, Name: "Nadia Quessart"},
	}}
	projects := &fakeProjectRepo{projects: map[string]*entity.Project{
		testProjectID: {ID: testProjectID, Title: "Rediseño web", ClientID: testClientID},
	}}
	runner := &fakeTxRunner{invoiceRepo: invoices, paymentRepo: payments, activityRepo: activity}
	uc := billing.NewInvoiceUseCase(runner, invoices, clients, projects, activity, billing.InvoiceConfig{
		NumberPrefix: "INV-",
		NumberStart:  1001,
		Currency:     "eur",
	})
	return &fixture{uc: uc, invoices: invoices, payments: payments, activity: activity}
}

func standardRequest() dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		ClientID:  testClientID,
		ProjectID: testProjectID,
		TVARate:   decimal.NewFromInt(20),
		LineItems: []domainbilling.LineItemInput{
			{Description: "Diseño", UnitPrice: "100", Quantity: "2"},
			{Description: "Consultoría", UnitPrice: "50", Quantity: "1"},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Preview
// ──────────────────────────────────────────────────────────────────────────────

func TestPreview_CalculaTotalesSinPersistir(t *testing.T) {
	f := newFixture(t)

	out, err := f.uc.Preview(dto.PreviewInvoiceRequest{
		TVARate: decimal.NewFromInt(20),
		LineItems: []domainbilling.LineItemInput{
			{Description: "Diseño", UnitPrice: "100", Quantity: "2"},
			{Description: "Consultoría", UnitPrice: "50", Quantity: "1"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "250", out.Subtotal.String())
	assert.Equal(t, "50", out.TVAAmount.String())
	assert.Equal(t, "300", out.Total.String())
	assert.Len(t, out.LineItems, 2)
	assert.Empty(t, f.invoices.invoices, "preview no debe persistir nada")
}

func TestPreview_TarifaFueraDePolitica(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Preview(dto.PreviewInvoiceRequest{
		TVARate: decimal.NewFromInt(19),
		LineItems: []domainbilling.LineItemInput{
			{Description: "Diseño", UnitPrice: "100", Quantity: "1"},
		},
	})
	assert.ErrorIs(t, err, domainbilling.ErrInvalidTaxRate)
}

func TestPreview_SinLineasValidas(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Preview(dto.PreviewInvoiceRequest{
		TVARate: decimal.NewFromInt(20),
		LineItems: []domainbilling.LineItemInput{
			{Description: "", UnitPrice: "100", Quantity: "1"},
			{Description: "Sin precio", UnitPrice: "abc", Quantity: "1"},
		},
	})
	assert.ErrorIs(t, err, domainbilling.ErrEmptyLineItems)
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_AsignaConsecutivoYPersiste(t *testing.T) {
	f := newFixture(t)

	out, err := f.uc.Create(context.Background(), "Admin", standardRequest())
	require.NoError(t, err)

	assert.Equal(t, "INV-1001", out.Number, "la primera factura arranca en el consecutivo inicial")
	assert.Equal(t, "250", out.Subtotal.String())
	assert.Equal(t, "20", out.TVARate.String())
	assert.Equal(t, "50", out.TVAAmount.String())
	assert.Equal(t, "300", out.Total.String())
	assert.Equal(t, "eur", out.Currency)
	assert.Equal(t, entity.InvoiceStatusPending, out.Status)
	assert.Equal(t, "Nadia Quessart", out.ClientName)
	require.Len(t, out.LineItems, 2)
	assert.Equal(t, "Diseño", out.LineItems[0].Description)
	assert.Equal(t, "200", out.LineItems[0].LineTotal.String())

	// Actividad registrada en la misma transacción
	require.Len(t, f.activity.entries, 1)
	assert.Equal(t, entity.ActivityInvoiceCreated, f.activity.entries[0].Type)
}

func TestCreate_ConsecutivoIncrementa(t *testing.T) {
	f := newFixture(t)

	first, err := f.uc.Create(context.Background(), "Admin", standardRequest())
	require.NoError(t, err)
	second, err := f.uc.Create(context.Background(), "Admin", standardRequest())
	require.NoError(t, err)

	assert.Equal(t, "INV-1001", first.Number)
	assert.Equal(t, "INV-1002", second.Number)
}

func TestCreate_DescartaFilasIncompletas(t *testing.T) {
	f := newFixture(t)

	in := standardRequest()
	in.LineItems = []domainbilling.LineItemInput{
		{Description: "Válida", UnitPrice: "10", Quantity: "2"},
		{Description: "", UnitPrice: "99", Quantity: "1"},            // sin descripción
		{Description: "Sin cantidad", UnitPrice: "5", Quantity: "0"}, // cantidad no positiva
	}
	out, err := f.uc.Create(context.Background(), "Admin", in)
	require.NoError(t, err)

	require.Len(t, out.LineItems, 1, "las filas incompletas se descartan sin error")
	assert.Equal(t, "20", out.Subtotal.String())
	assert.Equal(t, "24", out.Total.String())
}

// Dos creaciones concurrentes pueden leer el mismo máximo; la que pierde el
// UNIQUE de number reintenta con una transacción nueva que ya ve al ganador.
func TestCreate_ConsecutivoEnCarrera_Reintenta(t *testing.T) {
	f := newFixture(t)
	f.invoices.duplicateOnce = true

	out, err := f.uc.Create(context.Background(), "Admin", standardRequest())
	require.NoError(t, err)
	assert.Equal(t, "INV-1002", out.Number)

	winner, err := f.invoices.GetByID("competidor")
	require.NoError(t, err)
	require.NotNil(t, winner)
	assert.Equal(t, "INV-1001", winner.Number)
}

func TestCreate_ClienteInexistente(t *testing.T) {
	f := newFixture(t)

	in := standardRequest()
	in.ClientID = "99999999-9999-9999-9999-999999999999"
	_, err := f.uc.Create(context.Background(), "Admin", in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_TarifaInvalidaNoPersiste(t *testing.T) {
	f := newFixture(t)

	in := standardRequest()
	in.TVARate = decimal.RequireFromString("19")
	_, err := f.uc.Create(context.Background(), "Admin", in)

	assert.ErrorIs(t, err, domainbilling.ErrInvalidTaxRate)
	assert.Empty(t, f.invoices.invoices)
}

// El redondeo ocurre solo en la frontera: subtotal y TVA se redondean por
// separado y el total guardado es su suma, no el redondeo del total exacto.
func TestCreate_RedondeoEnFrontera(t *testing.T) {
	f := newFixture(t)

	in := standardRequest()
	in.TVARate = decimal.NewFromInt(10)
	in.LineItems = []domainbilling.LineItemInput{
		{Description: "Horas", UnitPrice: "3.338", Quantity: "3"},
	}
	out, err := f.uc.Create(context.Background(), "Admin", in)
	require.NoError(t, err)

	// exacto: 10.014 / 1.0014 / 11.0154
	assert.Equal(t, "10.01", out.Subtotal.String())
	assert.Equal(t, "1", out.TVAAmount.String())
	assert.Equal(t, "11.01", out.Total.String())
	assert.True(t, out.Total.Equal(out.Subtotal.Add(out.TVAAmount)),
		"el total guardado siempre cuadra con subtotal + TVA")
}

// Lo que el formulario previsualiza es exactamente lo que la creación persiste.
func TestPreviewYCreate_MismosTotales(t *testing.T) {
	f := newFixture(t)

	items := []domainbilling.LineItemInput{
		{Description: "Sesión", UnitPrice: "33.33", Quantity: "3"},
		{Description: "Material", UnitPrice: "12.40", Quantity: "1.5"},
	}
	rate := decimal.RequireFromString("5.5")

	preview, err := f.uc.Preview(dto.PreviewInvoiceRequest{TVARate: rate, LineItems: items})
	require.NoError(t, err)

	in := standardRequest()
	in.TVARate = rate
	in.LineItems = items
	created, err := f.uc.Create(context.Background(), "Admin", in)
	require.NoError(t, err)

	assert.Equal(t, preview.Subtotal.String(), created.Subtotal.String())
	assert.Equal(t, preview.TVAAmount.String(), created.TVAAmount.String())
	assert.Equal(t, preview.Total.String(), created.Total.String())
}

// ──────────────────────────────────────────────────────────────────────────────
// Update
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_MarcarPagadaRegistraPago(t *testing.T) {
	f := newFixture(t)

	created, err := f.uc.Create(context.Background(), "Admin", standardRequest())
	require.NoError(t, err)

	paid := entity.InvoiceStatusPaid
	out, err := f.uc.Update(context.Background(), "Admin", created.ID, dto.UpdateInvoiceRequest{Status: &paid})
	require.NoError(t, err)

	assert.Equal(t, entity.InvoiceStatusPaid, out.Status)
	require.NotNil(t, out.PaidAt)

	require.Len(t, f.payments.payments, 1)
	payment := f.payments.payments[0]
	assert.Equal(t, created.ID, payment.InvoiceID)
	assert.True(t, payment.Amount.Equal(created.Total), "el pago cubre el total de la factura")
	assert.Equal(t, entity.PaymentStatusSucceeded, payment.Status)

	// invoice_created + invoice_paid
	require.Len(t, f.activity.entries, 2)
	assert.Equal(t, entity.ActivityInvoicePaid, f.activity.entries[1].Type)
}

func TestUpdate_PagarDosVecesFalla(t *testing.T) {
	f := newFixture(t)

	created, err := f.uc.Create(context.Background(), "Admin", standardRequest())
	require.NoError(t, err)

	paid := entity.InvoiceStatusPaid
	_, err = f.uc.Update(context.Background(), "Admin", created.ID, dto.UpdateInvoiceRequest{Status: &paid})
	require.NoError(t, err)

	pending := entity.InvoiceStatusPending
	_, err = f.uc.Update(context.Background(), "Admin", created.ID, dto.UpdateInvoiceRequest{Status: &pending})
	assert.ErrorIs(t, err, domain.ErrAlreadyPaid, "una factura pagada no se reabre")

	require.Len(t, f.payments.payments, 1, "no debe registrarse un segundo pago")
}

func TestUpdate_NuevaTarifaRecalculaSobreLineasGuardadas(t *testing.T) {
	f := newFixture(t)

	created, err := f.uc.Create(context.Background(), "Admin", standardRequest())
	require.NoError(t, err)

	rate := decimal.RequireFromString("5.5")
	out, err := f.uc.Update(context.Background(), "Admin", created.ID, dto.UpdateInvoiceRequest{TVARate: &rate})
	require.NoError(t, err)

	assert.Equal(t, "250", out.Subtotal.String())
	assert.Equal(t, "5.5", out.TVARate.String())
	assert.Equal(t, "13.75", out.TVAAmount.String())
	assert.Equal(t, "263.75", out.Total.String())
}

// Las líneas se guardan con la precisión tecleada (sub-céntimo incluida): un
// PATCH que solo cambia la tarifa recalcula sobre esos valores exactos y el
// subtotal no se mueve.
func TestUpdate_TarifaSobrePreciosSubCentimo_NoMueveElSubtotal(t *testing.T) {
	f := newFixture(t)

	in := standardRequest()
	in.TVARate = decimal.NewFromInt(10)
	in.LineItems = []domainbilling.LineItemInput{
		{Description: "Horas", UnitPrice: "3.338", Quantity: "3"},
	}
	created, err := f.uc.Create(context.Background(), "Admin", in)
	require.NoError(t, err)
	require.Equal(t, "10.01", created.Subtotal.String())

	// El precio unitario persistido conserva los 3 decimales.
	stored, err := f.invoices.GetLineItems(created.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "3.338", stored[0].UnitPrice.String())

	rate := decimal.NewFromInt(20)
	out, err := f.uc.Update(context.Background(), "Admin", created.ID, dto.UpdateInvoiceRequest{TVARate: &rate})
	require.NoError(t, err)

	// 3.34 × 3 daría 10.02: el recálculo debe partir de 3.338.
	assert.Equal(t, "10.01", out.Subtotal.String())
	assert.Equal(t, "2", out.TVAAmount.String())
	assert.Equal(t, "12.01", out.Total.String())
}

func TestUpdate_NuevasLineasReemplazanLasAnteriores(t *testing.T) {
	f := newFixture(t)

	created, err := f.uc.Create(context.Background(), "Admin", standardRequest())
	require.NoError(t, err)

	items := []domainbilling.LineItemInput{
		{Description: "Única", UnitPrice: "80", Quantity: "1"},
	}
	out, err := f.uc.Update(context.Background(), "Admin", created.ID, dto.UpdateInvoiceRequest{LineItems: &items})
	require.NoError(t, err)

	require.Len(t, out.LineItems, 1)
	assert.Equal(t, "80", out.Subtotal.String())
	assert.Equal(t, "96", out.Total.String())
}

func TestUpdate_MontosDeFacturaPagadaNoSeTocan(t *testing.T) {
	f := newFixture(t)

	created, err := f.uc.Create(context.Background(), "Admin", standardRequest())
	require.NoError(t, err)

	paid := entity.InvoiceStatusPaid
	_, err = f.uc.Update(context.Background(), "Admin", created.ID, dto.UpdateInvoiceRequest{Status: &paid})
	require.NoError(t, err)

	items := []domainbilling.LineItemInput{{Description: "Otra", UnitPrice: "1", Quantity: "1"}}
	_, err = f.uc.Update(context.Background(), "Admin", created.ID, dto.UpdateInvoiceRequest{LineItems: &items})
	assert.ErrorIs(t, err, domain.ErrAlreadyPaid)
}

func TestUpdate_FacturaInexistente(t *testing.T) {
	f := newFixture(t)

	out, err := f.uc.Update(context.Background(), "Admin", "no-existe", dto.UpdateInvoiceRequest{})
	require.NoError(t, err)
	assert.Nil(t, out)
}

// ──────────────────────────────────────────────────────────────────────────────
// Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestDelete_PendienteSeElimina(t *testing.T) {
	f := newFixture(t)

	created, err := f.uc.Create(context.Background(), "Admin", standardRequest())
	require.NoError(t, err)

	require.NoError(t, f.uc.Delete(created.ID))
	out, err := f.uc.GetByID(created.ID)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestDelete_PagadaNoSeElimina(t *testing.T) {
	f := newFixture(t)

	created, err := f.uc.Create(context.Background(), "Admin", standardRequest())
	require.NoError(t, err)

	paid := entity.InvoiceStatusPaid
	_, err = f.uc.Update(context.Background(), "Admin", created.ID, dto.UpdateInvoiceRequest{Status: &paid})
	require.NoError(t, err)

	assert.ErrorIs(t, f.uc.Delete(created.ID), domain.ErrConflict)
}

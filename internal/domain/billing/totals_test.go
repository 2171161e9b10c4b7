package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nqcrm/crm-api/internal/domain/billing"
)

// ──────────────────────────────────────────────────────────────────────────────
// Motor de totales — vectores exactos
//
// Este paquete es el "canario en la mina" de la facturación: la
// previsualización del formulario y el cálculo definitivo al crear la factura
// pasan por aquí, y deben coincidir bit a bit. Si alguien cambia la
// aritmética, la tarifa o la regla de redondeo, estos vectores fallan antes de
// llegar a producción.
// ──────────────────────────────────────────────────────────────────────────────

func mustRate(t *testing.T, s string) billing.TaxRate {
	t.Helper()
	rate, err := billing.ResolveTaxRate(decimal.RequireFromString(s))
	require.NoError(t, err)
	return rate
}

func lineItems(t *testing.T, inputs ...billing.LineItemInput) []billing.LineItem {
	t.Helper()
	items := billing.NormalizeLineItems(inputs)
	require.Len(t, items, len(inputs), "todas las filas del vector deben ser válidas")
	return items
}

// Vector entero: 100×2 + 50×1 al 20% → 250 / 50 / 300.
func TestComputeTotals_VectorEstandar(t *testing.T) {
	items := lineItems(t,
		billing.LineItemInput{Description: "A", UnitPrice: "100", Quantity: "2"},
		billing.LineItemInput{Description: "B", UnitPrice: "50", Quantity: "1"},
	)

	totals, err := billing.ComputeTotals(items, mustRate(t, "20"))
	require.NoError(t, err)

	assert.Equal(t, "250", totals.Subtotal.String())
	assert.Equal(t, "50", totals.TaxAmount.String())
	assert.Equal(t, "300", totals.Total.String())
}

// Vector fraccionario: 33.33×3 al 5.5% → subtotal 99.99, impuesto 5.49945,
// total 105.48945 (sin redondear). Redondeado half-up: 99.99 / 5.50 / 105.49.
func TestComputeTotals_VectorTarifaReducida(t *testing.T) {
	items := lineItems(t,
		billing.LineItemInput{Description: "A", UnitPrice: "33.33", Quantity: "3"},
	)

	totals, err := billing.ComputeTotals(items, mustRate(t, "5.5"))
	require.NoError(t, err)

	assert.Equal(t, "99.99", totals.Subtotal.String())
	assert.Equal(t, "5.49945", totals.TaxAmount.String())
	assert.Equal(t, "105.48945", totals.Total.String())

	rounded := totals.Rounded()
	assert.Equal(t, "99.99", rounded.Subtotal.String())
	assert.Equal(t, "5.5", rounded.TaxAmount.String())
	assert.Equal(t, "105.49", rounded.Total.String())
}

// Propiedad: aditividad exacta antes de redondear (total = subtotal + impuesto).
func TestComputeTotals_AditividadSinRedondear(t *testing.T) {
	items := lineItems(t,
		billing.LineItemInput{Description: "A", UnitPrice: "19.99", Quantity: "3"},
		billing.LineItemInput{Description: "B", UnitPrice: "0.07", Quantity: "11"},
		billing.LineItemInput{Description: "C", UnitPrice: "1234.56", Quantity: "0.5"},
	)

	for _, rate := range []string{"0", "2.1", "5.5", "10", "20"} {
		totals, err := billing.ComputeTotals(items, mustRate(t, rate))
		require.NoError(t, err)
		assert.True(t, totals.Total.Equal(totals.Subtotal.Add(totals.TaxAmount)),
			"tarifa %s: total debe ser exactamente subtotal + impuesto", rate)
	}
}

// Propiedad: no-negatividad para entradas válidas.
func TestComputeTotals_NoNegatividad(t *testing.T) {
	items := lineItems(t,
		billing.LineItemInput{Description: "gratis", UnitPrice: "0", Quantity: "3"},
		billing.LineItemInput{Description: "normal", UnitPrice: "12.34", Quantity: "1"},
	)

	totals, err := billing.ComputeTotals(items, mustRate(t, "10"))
	require.NoError(t, err)

	assert.False(t, totals.Subtotal.IsNegative())
	assert.False(t, totals.TaxAmount.IsNegative())
	assert.False(t, totals.Total.IsNegative())
	for _, item := range items {
		assert.False(t, item.LineTotal.IsNegative())
	}
}

// Propiedad: permutar las líneas no cambia los totales. La suma decimal es
// exacta, así que se exige igualdad estricta, no tolerancia.
func TestComputeTotals_IndependenciaDelOrden(t *testing.T) {
	a := billing.LineItemInput{Description: "A", UnitPrice: "33.33", Quantity: "3"}
	b := billing.LineItemInput{Description: "B", UnitPrice: "0.01", Quantity: "7"}
	c := billing.LineItemInput{Description: "C", UnitPrice: "999.99", Quantity: "2"}

	original, err := billing.ComputeTotals(lineItems(t, a, b, c), mustRate(t, "20"))
	require.NoError(t, err)
	permuted, err := billing.ComputeTotals(lineItems(t, c, a, b), mustRate(t, "20"))
	require.NoError(t, err)

	assert.True(t, original.Subtotal.Equal(permuted.Subtotal))
	assert.True(t, original.TaxAmount.Equal(permuted.TaxAmount))
	assert.True(t, original.Total.Equal(permuted.Total))
}

// Cero líneas es violación de precondición, nunca un total en cero.
func TestComputeTotals_SinLineas(t *testing.T) {
	_, err := billing.ComputeTotals(nil, mustRate(t, "20"))
	assert.ErrorIs(t, err, billing.ErrEmptyLineItems)
}

// ──────────────────────────────────────────────────────────────────────────────
// Entrada compartida por previsualización y creación
// ──────────────────────────────────────────────────────────────────────────────

func TestComputeTotalsFromInputs_FiltraYCalcula(t *testing.T) {
	totals, items, err := billing.ComputeTotalsFromInputs([]billing.LineItemInput{
		{Description: "Desarrollo web", UnitPrice: "100", Quantity: "2"},
		{Description: "", UnitPrice: "", Quantity: ""}, // fila sin terminar
	}, decimal.NewFromInt(20))
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, "240", totals.Total.String())
}

func TestComputeTotalsFromInputs_TodasLasFilasInvalidas(t *testing.T) {
	_, _, err := billing.ComputeTotalsFromInputs([]billing.LineItemInput{
		{Description: "", UnitPrice: "10", Quantity: "1"},
		{Description: "B", UnitPrice: "x", Quantity: "1"},
	}, decimal.NewFromInt(20))
	assert.ErrorIs(t, err, billing.ErrEmptyLineItems)
}

func TestComputeTotalsFromInputs_TarifaInvalidaPropaga(t *testing.T) {
	_, _, err := billing.ComputeTotalsFromInputs([]billing.LineItemInput{
		{Description: "A", UnitPrice: "10", Quantity: "1"},
	}, decimal.NewFromInt(7))
	assert.ErrorIs(t, err, billing.ErrInvalidTaxRate)
}

// ──────────────────────────────────────────────────────────────────────────────
// Redondeo de frontera
// ──────────────────────────────────────────────────────────────────────────────

// El total redondeado se deriva de round(subtotal) + round(impuesto); puede
// diferir en un céntimo del redondeo del total exacto. Este vector fija esa
// política: 3.338×3 al 10% → exacto 10.014 / 1.0014 / 11.0154; almacenado
// 10.01 / 1.00 / 11.01 (round(11.0154) habría dado 11.02).
func TestRounded_TotalDerivadoNoRedondeoDirecto(t *testing.T) {
	items := lineItems(t,
		billing.LineItemInput{Description: "A", UnitPrice: "3.338", Quantity: "3"},
	)
	totals, err := billing.ComputeTotals(items, mustRate(t, "10"))
	require.NoError(t, err)

	assert.Equal(t, "11.0154", totals.Total.String())

	rounded := totals.Rounded()
	assert.Equal(t, "10.01", rounded.Subtotal.String())
	assert.Equal(t, "1", rounded.TaxAmount.String())
	assert.Equal(t, "11.01", rounded.Total.String(),
		"el total almacenado debe cuadrar con subtotal+impuesto redondeados")
	assert.True(t, rounded.Total.Equal(rounded.Subtotal.Add(rounded.TaxAmount)))
}

func TestRoundMinorUnits_HalfUp(t *testing.T) {
	assert.Equal(t, "5.5", billing.RoundMinorUnits(decimal.RequireFromString("5.49945")).String())
	assert.Equal(t, "105.49", billing.RoundMinorUnits(decimal.RequireFromString("105.48945")).String())
	assert.Equal(t, "1.01", billing.RoundMinorUnits(decimal.RequireFromString("1.005")).String())
}

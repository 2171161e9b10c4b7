package billing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// InvoiceTotals es el agregado derivado de un cálculo: subtotal, impuesto y
// total SIN redondear. La aritmética interna es decimal exacta; el redondeo a
// céntimos ocurre únicamente en la frontera (Rounded), nunca entre pasos
// intermedios — redondear cada línea antes de sumar produciría un subtotal
// distinto del correcto.
type InvoiceTotals struct {
	Subtotal  decimal.Decimal
	TaxRate   TaxRate
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

// RoundedTotals son los tres montos redondeados a 2 decimales para mostrar o
// persistir. Total se deriva como Subtotal + TaxAmount ya redondeados, de modo
// que el registro almacenado siempre cuadra en céntimos (total == subtotal +
// tax_amount también después de redondear).
type RoundedTotals struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

// ComputeTotals calcula los totales de una secuencia NO vacía de líneas ya
// normalizadas:
//
//	subtotal   = Σ line_total   (en orden de entrada)
//	tax_amount = subtotal × tarifa / 100
//	total      = subtotal + tax_amount
//
// Determinista y sin efectos; con cero líneas retorna ErrEmptyLineItems.
func ComputeTotals(items []LineItem, rate TaxRate) (InvoiceTotals, error) {
	if len(items) == 0 {
		return InvoiceTotals{}, ErrEmptyLineItems
	}
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal)
	}
	taxAmount := subtotal.Mul(rate.Percent()).Div(hundred)
	return InvoiceTotals{
		Subtotal:  subtotal,
		TaxRate:   rate,
		TaxAmount: taxAmount,
		Total:     subtotal.Add(taxAmount),
	}, nil
}

// ComputeTotalsFromInputs es la entrada compartida por los dos puntos de
// llamada (previsualización y creación definitiva): normaliza las filas
// crudas, resuelve la tarifa candidata y calcula. Devuelve también las líneas
// normalizadas para que el caller las muestre o persista junto a los totales.
func ComputeTotalsFromInputs(inputs []LineItemInput, candidate decimal.Decimal) (InvoiceTotals, []LineItem, error) {
	rate, err := ResolveTaxRate(candidate)
	if err != nil {
		return InvoiceTotals{}, nil, err
	}
	items := NormalizeLineItems(inputs)
	totals, err := ComputeTotals(items, rate)
	if err != nil {
		return InvoiceTotals{}, nil, err
	}
	return totals, items, nil
}

// RoundMinorUnits redondea un monto a 2 decimales (céntimos), con la regla
// half away from zero de shopspring/decimal — para montos no negativos,
// redondeo half-up.
func RoundMinorUnits(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Rounded aplica el redondeo de frontera. Subtotal y TaxAmount se redondean
// de forma independiente; Total es su suma, NO el redondeo del total exacto
// (pueden diferir en un céntimo; ver tests).
func (t InvoiceTotals) Rounded() RoundedTotals {
	subtotal := RoundMinorUnits(t.Subtotal)
	taxAmount := RoundMinorUnits(t.TaxAmount)
	return RoundedTotals{
		Subtotal:  subtotal,
		TaxAmount: taxAmount,
		Total:     subtotal.Add(taxAmount),
	}
}

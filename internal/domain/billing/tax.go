// Package billing contiene el motor de totales de factura: normalización de
// líneas, política de tarifas de TVA y cálculo de subtotal/impuesto/total.
//
// Es un paquete de dominio puro (sin I/O, sin estado compartido): cada llamada
// recibe su propio snapshot inmutable y devuelve un resultado nuevo. Lo
// consumen dos puntos de llamada que deben coincidir bit a bit — la
// previsualización mientras se edita la factura y el cálculo definitivo al
// crearla — por eso la aritmética vive aquí y en ningún otro sitio.
package billing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores del motor de totales.
var (
	// ErrInvalidTaxRate indica una tarifa fuera del conjunto admitido.
	// Es un error de integridad (la UI solo ofrece tarifas enumeradas),
	// nunca se degrada silenciosamente a 0%.
	ErrInvalidTaxRate = errors.New("tarifa de TVA no admitida")

	// ErrEmptyLineItems indica un cálculo solicitado sin ninguna línea válida.
	ErrEmptyLineItems = errors.New("se requiere al menos una línea de factura")
)

// TaxRate es una tarifa de TVA admitida, en porcentaje. Solo se construye vía
// ResolveTaxRate, de modo que un TaxRate en circulación siempre cumple la
// política. El valor cero equivale a 0% (tarifa legal).
type TaxRate struct {
	percent decimal.Decimal
}

// Tarifas francesas de TVA admitidas: 0%, súper-reducida 2.1%, reducida 5.5%,
// intermedia 10% y estándar 20%. Se construyen desde string para que 2.1 y
// 5.5 queden representadas de forma exacta.
var allowedTaxRates = []decimal.Decimal{
	decimal.RequireFromString("0"),
	decimal.RequireFromString("2.1"),
	decimal.RequireFromString("5.5"),
	decimal.RequireFromString("10"),
	decimal.RequireFromString("20"),
}

// AllowedTaxRates devuelve una copia del conjunto de tarifas admitidas
// (en porcentaje, orden ascendente).
func AllowedTaxRates() []decimal.Decimal {
	out := make([]decimal.Decimal, len(allowedTaxRates))
	copy(out, allowedTaxRates)
	return out
}

// ResolveTaxRate valida un candidato contra el conjunto admitido y devuelve la
// tarifa aplicable. La comparación es decimal exacta (decimal.Equal), nunca
// igualdad de float64 binario: 2.1 y 5.5 no tienen representación binaria
// exacta y una comparación ingenua las rechazaría.
func ResolveTaxRate(candidate decimal.Decimal) (TaxRate, error) {
	for _, allowed := range allowedTaxRates {
		if candidate.Equal(allowed) {
			return TaxRate{percent: allowed}, nil
		}
	}
	return TaxRate{}, fmt.Errorf("%w: %s", ErrInvalidTaxRate, candidate.String())
}

// ResolveTaxRateFloat resuelve una tarifa recibida como float64 (JSON).
// decimal.NewFromFloat usa la representación decimal más corta del float, de
// modo que el 2.1 de un body JSON resuelve exactamente a la tarifa 2.1%.
func ResolveTaxRateFloat(candidate float64) (TaxRate, error) {
	return ResolveTaxRate(decimal.NewFromFloat(candidate))
}

// Percent devuelve la tarifa en porcentaje (ej. 20 para la estándar).
func (r TaxRate) Percent() decimal.Decimal {
	return r.percent
}

// Fraction devuelve la tarifa como fracción (porcentaje / 100).
func (r TaxRate) Fraction() decimal.Decimal {
	return r.percent.Div(decimal.NewFromInt(100))
}

// String implementa fmt.Stringer ("5.5", "20", ...).
func (r TaxRate) String() string {
	return r.percent.String()
}

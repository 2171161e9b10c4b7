package billing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// LineItemInput es una fila cruda del formulario de factura, con los valores
// tal como se teclearon. Puede estar incompleta: el formulario permite filas
// a medio rellenar y el normalizador decide cuáles cuentan.
type LineItemInput struct {
	Description string `json:"description"`
	UnitPrice   string `json:"unit_price"`
	Quantity    string `json:"quantity"`
}

// LineItem es una línea normalizada e inmutable. LineTotal se deriva en la
// construcción (UnitPrice × Quantity) y no es asignable de forma independiente.
type LineItem struct {
	Description string
	UnitPrice   decimal.Decimal // ≥ 0
	Quantity    decimal.Decimal // > 0
	LineTotal   decimal.Decimal
}

// NormalizeLineItems convierte filas crudas en líneas válidas, preservando el
// orden de entrada. Una fila se DESCARTA (no es error) cuando la descripción
// está vacía, el precio no parsea o es negativo, o la cantidad no parsea o no
// es estrictamente positiva: son filas que el usuario aún no terminó de
// rellenar. Si todas las filas se descartan el resultado es vacío y es el
// caller quien debe tratarlo como error (ErrEmptyLineItems).
func NormalizeLineItems(inputs []LineItemInput) []LineItem {
	items := make([]LineItem, 0, len(inputs))
	for _, in := range inputs {
		item, ok := normalizeLineItem(in)
		if !ok {
			continue
		}
		items = append(items, item)
	}
	return items
}

func normalizeLineItem(in LineItemInput) (LineItem, bool) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return LineItem{}, false
	}
	unitPrice, err := decimal.NewFromString(strings.TrimSpace(in.UnitPrice))
	if err != nil || unitPrice.IsNegative() {
		return LineItem{}, false
	}
	quantity, err := decimal.NewFromString(strings.TrimSpace(in.Quantity))
	if err != nil || !quantity.IsPositive() {
		return LineItem{}, false
	}
	return LineItem{
		Description: description,
		UnitPrice:   unitPrice,
		Quantity:    quantity,
		LineTotal:   unitPrice.Mul(quantity),
	}, true
}

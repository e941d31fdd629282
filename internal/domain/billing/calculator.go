// Package billing contiene el cálculo puro de totales de la factura
// (servicio de dominio, sin I/O ni estado).
//
//	Subtotal           = Σ monto de línea (en orden de entrada)
//	DiscountAmount     = Subtotal × DiscountRate/100
//	DiscountedSubtotal = Subtotal − DiscountAmount
//	TaxAmount          = DiscountedSubtotal × TaxRate/100
//	GrandTotal         = DiscountedSubtotal + TaxAmount
package billing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/albeiroc/invoice-forge/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Totals agrupa los montos derivados de una factura. Se calculan una vez
// por render y se descartan; nunca se almacenan.
type Totals struct {
	Subtotal           decimal.Decimal
	DiscountAmount     decimal.Decimal
	DiscountedSubtotal decimal.Decimal
	TaxAmount          decimal.Decimal
	GrandTotal         decimal.Decimal
}

// ComputeTotals suma las líneas en orden de entrada y aplica descuento e
// impuesto. No redondea entre pasos intermedios; el formato a dos decimales
// ocurre solo en la capa de presentación.
//
// Valores negativos en horas, tarifas o montos fijos se aceptan: codifican
// créditos o reembolsos. La cota de DiscountRate (0–100) la valida el DTO.
func ComputeTotals(items []entity.LineItem, taxRate, discountRate decimal.Decimal) (Totals, error) {
	subtotal := decimal.Zero
	for i, it := range items {
		amount, err := it.Amount()
		if err != nil {
			return Totals{}, fmt.Errorf("línea %d (%q): %w", i+1, it.Description, err)
		}
		subtotal = subtotal.Add(amount)
	}

	discountAmount := subtotal.Mul(discountRate).Div(hundred)
	discounted := subtotal.Sub(discountAmount)
	taxAmount := discounted.Mul(taxRate).Div(hundred)

	return Totals{
		Subtotal:           subtotal,
		DiscountAmount:     discountAmount,
		DiscountedSubtotal: discounted,
		TaxAmount:          taxAmount,
		GrandTotal:         discounted.Add(taxAmount),
	}, nil
}

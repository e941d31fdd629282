package entity

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/albeiroc/invoice-forge/internal/domain"
)

// BillingMode distingue las dos formas de facturar una línea:
// por horas (Hours × Rate) o por monto fijo (FixedAmount).
// Una línea tiene exactamente un modo; el mapeo DTO → entidad lo resuelve
// y aquí solo queda el switch exhaustivo.
type BillingMode int

const (
	ModeHourly BillingMode = iota // Hours × Rate
	ModeFixed                     // FixedAmount directo
)

// LineItem representa una línea facturable de la factura.
type LineItem struct {
	ServiceCode string // código corto del servicio (opcional)
	Description string // obligatorio
	Mode        BillingMode
	Hours       decimal.Decimal // solo ModeHourly
	Rate        decimal.Decimal // solo ModeHourly, moneda por hora
	FixedAmount decimal.Decimal // solo ModeFixed
}

// NewHourlyItem construye una línea facturada por horas.
func NewHourlyItem(code, description string, hours, rate decimal.Decimal) LineItem {
	return LineItem{
		ServiceCode: code,
		Description: description,
		Mode:        ModeHourly,
		Hours:       hours,
		Rate:        rate,
	}
}

// NewFixedItem construye una línea de monto fijo.
func NewFixedItem(code, description string, amount decimal.Decimal) LineItem {
	return LineItem{
		ServiceCode: code,
		Description: description,
		Mode:        ModeFixed,
		FixedAmount: amount,
	}
}

// Validate verifica los campos obligatorios de la línea.
func (it LineItem) Validate() error {
	if it.Description == "" {
		return fmt.Errorf("%w: descripción requerida", domain.ErrInvalidItem)
	}
	if it.Mode != ModeHourly && it.Mode != ModeFixed {
		return fmt.Errorf("%w: modo de facturación desconocido", domain.ErrInvalidItem)
	}
	return nil
}

// Amount resuelve el monto de la línea según su modo.
// El orden de evaluación es estable: el modo se decide una sola vez al
// construir la línea, nunca inspeccionando campos en tiempo de render.
func (it LineItem) Amount() (decimal.Decimal, error) {
	switch it.Mode {
	case ModeHourly:
		return it.Hours.Mul(it.Rate), nil
	case ModeFixed:
		return it.FixedAmount, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: modo de facturación desconocido", domain.ErrInvalidItem)
	}
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Etiquetas por defecto de la tabla de servicios (sobrescribibles por factura).
const (
	DefaultSectionHeading = "Services"
	DefaultLabelCode      = "Service Item"
	DefaultLabelDesc      = "Description"
	DefaultLabelQuantity  = "Hours"
	DefaultLabelRate      = "Rate ($)"
	DefaultLabelAmount    = "Amount ($)"
)

// Company datos del emisor de la factura.
type Company struct {
	Name    string
	Address string // multilínea, separada por '\n'
}

// Client datos del receptor.
type Client struct {
	Name    string
	Address string // multilínea, separada por '\n'
	Email   string
}

// TableLabels encabezado de sección y etiquetas de columna de la tabla.
// Los campos vacíos caen a los valores por defecto vía resolved().
type TableLabels struct {
	Heading  string
	Code     string
	Desc     string
	Quantity string
	Rate     string
	Amount   string
}

// Resolved devuelve las etiquetas aplicando los defaults donde falte valor.
func (l TableLabels) Resolved() TableLabels {
	pick := func(s, def string) string {
		if s != "" {
			return s
		}
		return def
	}
	return TableLabels{
		Heading:  pick(l.Heading, DefaultSectionHeading),
		Code:     pick(l.Code, DefaultLabelCode),
		Desc:     pick(l.Desc, DefaultLabelDesc),
		Quantity: pick(l.Quantity, DefaultLabelQuantity),
		Rate:     pick(l.Rate, DefaultLabelRate),
		Amount:   pick(l.Amount, DefaultLabelAmount),
	}
}

// Invoice representa el registro completo de una factura lista para render.
// Es inmutable durante el render: el renderer nunca lo modifica y los
// totales derivados viven aparte (billing.Totals).
type Invoice struct {
	Number       string
	IssueDate    time.Time // cero = hoy (default aplicado por el caso de uso)
	DueDate      time.Time // cero = hoy + 30 días
	Company      Company
	Client       Client
	Items        []LineItem // orden significativo: se renderiza tal cual
	TaxRate      decimal.Decimal
	DiscountRate decimal.Decimal // 0–100
	Notes        string
	Logo         []byte // raster subido por el caller; nil = logo por defecto
	Labels       TableLabels
}

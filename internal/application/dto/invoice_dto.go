package dto

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/albeiroc/invoice-forge/internal/domain"
	"github.com/albeiroc/invoice-forge/internal/domain/entity"
)

const dateLayout = "2006-01-02"

var validate = validator.New()

// LineItemRequest línea de factura tal como llega del caller.
// El modo de facturación es implícito: hours+rate  XOR  fixed_amount.
// Mezclar ambos grupos, o no enviar ninguno completo, es entrada inválida.
type LineItemRequest struct {
	ServiceCode string           `json:"service_code"`
	Description string           `json:"description" validate:"required"`
	Hours       *decimal.Decimal `json:"hours"`
	Rate        *decimal.Decimal `json:"rate"`
	FixedAmount *decimal.Decimal `json:"fixed_amount"`
}

// TableLabelsRequest sobreescritura opcional del encabezado de sección y de
// las cinco etiquetas de columna de la tabla.
type TableLabelsRequest struct {
	Heading  string `json:"heading"`
	Code     string `json:"code"`
	Desc     string `json:"description"`
	Quantity string `json:"quantity"`
	Rate     string `json:"rate"`
	Amount   string `json:"amount"`
}

// GenerateInvoiceRequest registro completo para generar el PDF.
type GenerateInvoiceRequest struct {
	InvoiceNumber  string              `json:"invoice_number" validate:"required"`
	InvoiceDate    string              `json:"invoice_date" validate:"omitempty,datetime=2006-01-02"`
	DueDate        string              `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	CompanyName    string              `json:"company_name" validate:"required"`
	CompanyAddress string              `json:"company_address"`
	ClientName     string              `json:"client_name" validate:"required"`
	ClientAddress  string              `json:"client_address"`
	ClientEmail    string              `json:"client_email" validate:"omitempty,email"`
	Items          []LineItemRequest   `json:"items" validate:"dive"`
	TaxRate        decimal.Decimal     `json:"tax_rate"`
	DiscountRate   decimal.Decimal     `json:"discount_rate"`
	Notes          string              `json:"notes"`
	LogoBase64     string              `json:"logo_base64"`
	Labels         *TableLabelsRequest `json:"labels"`
}

// TotalsRequest entrada del preview de montos (sin datos de las partes).
type TotalsRequest struct {
	Items        []LineItemRequest `json:"items" validate:"dive"`
	TaxRate      decimal.Decimal   `json:"tax_rate"`
	DiscountRate decimal.Decimal   `json:"discount_rate"`
}

// TotalsResponse montos calculados, formateados a dos decimales.
type TotalsResponse struct {
	Subtotal           string `json:"subtotal"`
	DiscountAmount     string `json:"discount_amount"`
	DiscountedSubtotal string `json:"discounted_subtotal"`
	TaxAmount          string `json:"tax_amount"`
	Total              string `json:"total"`
}

// ToEntity valida el request y lo convierte en la entidad inmutable que
// consume el caso de uso. El logo base64 se decodifica aquí; si viene
// corrupto se trata como entrada inválida (el caller lo envió mal), no como
// fallo de asset.
func (r GenerateInvoiceRequest) ToEntity() (*entity.Invoice, error) {
	if err := validate.Struct(r); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := validateRates(r.TaxRate, r.DiscountRate); err != nil {
		return nil, err
	}

	items, err := mapItems(r.Items)
	if err != nil {
		return nil, err
	}

	issueDate, err := parseDate(r.InvoiceDate)
	if err != nil {
		return nil, err
	}
	dueDate, err := parseDate(r.DueDate)
	if err != nil {
		return nil, err
	}

	var logo []byte
	if r.LogoBase64 != "" {
		logo, err = base64.StdEncoding.DecodeString(r.LogoBase64)
		if err != nil {
			return nil, fmt.Errorf("%w: logo_base64 corrupto", domain.ErrInvalidInput)
		}
	}

	inv := &entity.Invoice{
		Number:       r.InvoiceNumber,
		IssueDate:    issueDate,
		DueDate:      dueDate,
		Company:      entity.Company{Name: r.CompanyName, Address: r.CompanyAddress},
		Client:       entity.Client{Name: r.ClientName, Address: r.ClientAddress, Email: r.ClientEmail},
		Items:        items,
		TaxRate:      r.TaxRate,
		DiscountRate: r.DiscountRate,
		Notes:        r.Notes,
		Logo:         logo,
	}
	if r.Labels != nil {
		inv.Labels = entity.TableLabels{
			Heading:  r.Labels.Heading,
			Code:     r.Labels.Code,
			Desc:     r.Labels.Desc,
			Quantity: r.Labels.Quantity,
			Rate:     r.Labels.Rate,
			Amount:   r.Labels.Amount,
		}
	}
	return inv, nil
}

// ToItems valida y convierte la entrada del preview de totales.
func (r TotalsRequest) ToItems() ([]entity.LineItem, error) {
	if err := validate.Struct(r); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := validateRates(r.TaxRate, r.DiscountRate); err != nil {
		return nil, err
	}
	return mapItems(r.Items)
}

func validateRates(tax, discount decimal.Decimal) error {
	// validator/v10 no inspecciona decimal.Decimal; las cotas van aquí.
	if tax.IsNegative() {
		return fmt.Errorf("%w: tax_rate no puede ser negativo", domain.ErrInvalidInput)
	}
	if discount.IsNegative() || discount.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("%w: discount_rate debe estar entre 0 y 100", domain.ErrInvalidInput)
	}
	return nil
}

func mapItems(in []LineItemRequest) ([]entity.LineItem, error) {
	items := make([]entity.LineItem, 0, len(in))
	for i, it := range in {
		hourly := it.Hours != nil || it.Rate != nil
		fixed := it.FixedAmount != nil

		switch {
		case hourly && fixed:
			return nil, fmt.Errorf("%w: línea %d mezcla horas×tarifa con monto fijo", domain.ErrInvalidItem, i+1)
		case hourly:
			if it.Hours == nil || it.Rate == nil {
				return nil, fmt.Errorf("%w: línea %d requiere hours y rate juntos", domain.ErrInvalidItem, i+1)
			}
			items = append(items, entity.NewHourlyItem(it.ServiceCode, it.Description, *it.Hours, *it.Rate))
		case fixed:
			items = append(items, entity.NewFixedItem(it.ServiceCode, it.Description, *it.FixedAmount))
		default:
			return nil, fmt.Errorf("%w: línea %d no indica hours+rate ni fixed_amount", domain.ErrInvalidItem, i+1)
		}
	}
	return items, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha %q no cumple el formato YYYY-MM-DD", domain.ErrInvalidInput, s)
	}
	return t, nil
}

// Package pdf implementa el renderer de facturas sobre Maroto v2.
//
// Layout de la página A4 (vertical, márgenes de 10mm):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  LOGO (~30mm)  │  Nombre de la empresa + dirección           │
//	│  ■■■■■■■■■■■■  INVOICE  ■■■■■■■■■■■■■■■■■■■■■■■■■■■■■■■■■■  │
//	│  Invoice # / Date / Due Date                                 │
//	│  Bill To: cliente + dirección + email                        │
//	│  TABLA: Item | Description | Hours | Rate | Amount           │
//	│                         Subtotal / Discount / Tax / TOTAL    │
//	│  Notes: ...                                                  │
//	│            Thank you for your business! (centrado)           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"os"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	domainbilling "github.com/albeiroc/invoice-forge/internal/domain/billing"
	"github.com/albeiroc/invoice-forge/internal/domain/entity"
	"github.com/albeiroc/invoice-forge/pkg/logger"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorTeal      = &props.Color{Red: 0, Green: 156, Blue: 166}
	colorDarkBlue  = &props.Color{Red: 0, Green: 51, Blue: 102}
	colorLightGray = &props.Color{Red: 240, Green: 240, Blue: 240}
	colorText      = &props.Color{Red: 80, Green: 80, Blue: 80}
	colorMuted     = &props.Color{Red: 128, Green: 128, Blue: 128}
	colorRule      = &props.Color{Red: 200, Green: 200, Blue: 200}
	colorWhite     = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Renderer ──────────────────────────────────────────────────────────────────

// MarotoInvoiceRenderer implementa billing.InvoicePDFRenderer usando Maroto v2.
type MarotoInvoiceRenderer struct {
	defaultLogo []byte // asset empaquetado; nil = sin logo por defecto
	log         *logger.Logger
}

// NewMarotoInvoiceRenderer construye el renderer. defaultLogo puede ser nil;
// en ese caso las facturas sin logo propio simplemente no dibujan la región.
func NewMarotoInvoiceRenderer(defaultLogo []byte, log *logger.Logger) *MarotoInvoiceRenderer {
	return &MarotoInvoiceRenderer{defaultLogo: defaultLogo, log: log}
}

// RenderInvoicePDF genera el documento y devuelve sus bytes.
//
// La fecha de creación del PDF se fija a la fecha de emisión: el mismo
// registro con fechas explícitas produce siempre bytes idénticos.
// Un fallo de logo degrada a "sin región de logo"; un fallo de datos de
// línea aborta el render completo sin salida parcial.
func (r *MarotoInvoiceRenderer) RenderInvoicePDF(
	_ context.Context,
	inv *entity.Invoice,
	totals domainbilling.Totals,
) ([]byte, error) {
	labels := inv.Labels.Resolved()

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithCreationDate(inv.IssueDate).
		WithTitle("Invoice "+inv.Number, true).
		WithAuthor(inv.Company.Name, true).
		Build()

	m := maroto.New(cfg)

	logoPath, cleanup := r.prepareLogo(inv.Logo)
	defer cleanup()

	// Header: logo + empresa
	m.AddRows(headerRow(inv.Company, logoPath))
	m.AddRows(row.New(4))

	// Banner INVOICE
	m.AddRows(titleBannerRow())
	m.AddRows(row.New(4))

	// Metadatos
	m.AddRows(metadataRows(inv)...)
	m.AddRows(row.New(5))

	// Bill To
	m.AddRows(billToRows(inv.Client)...)
	m.AddRows(row.New(5))

	// Tabla de servicios
	m.AddRows(tableHeadingRow(labels.Heading))
	m.AddRows(tableHeaderRow(labels))
	itemRows, err := tableItemRows(inv.Items)
	if err != nil {
		return nil, err
	}
	m.AddRows(itemRows...)
	m.AddRows(row.New(4))

	// Totales
	m.AddRows(totalsRows(inv, totals)...)

	// Notas
	if inv.Notes != "" {
		m.AddRows(row.New(6))
		m.AddRows(notesRows(inv.Notes)...)
	}

	// Footer
	m.AddRows(row.New(10))
	m.AddRows(footerRows(inv.Company.Name)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	// El escritor subyacente emite las fuentes en orden de iteración de map;
	// sin normalizar, dos renders del mismo registro difieren en bytes.
	return canonicalizePDF(doc.GetBytes()), nil
}

// prepareLogo elige el raster (propio o asset por defecto), lo normaliza a
// un PNG temporal y devuelve su ruta junto al cleanup. Devuelve ruta vacía
// si no hay logo utilizable: el render sigue sin esa región, nunca falla por
// el logo. El cleanup es seguro en todo camino de salida y un fallo al
// borrar solo se registra.
func (r *MarotoInvoiceRenderer) prepareLogo(custom []byte) (string, func()) {
	noop := func() {}

	raw := custom
	if len(raw) == 0 {
		raw = r.defaultLogo
	}
	if len(raw) == 0 {
		return "", noop
	}

	path, err := writeNormalizedLogo(raw)
	if err != nil {
		r.log.Warn().Err(err).Msg("logo no procesable, se omite la región")
		return "", noop
	}
	return path, func() {
		if rmErr := os.Remove(path); rmErr != nil {
			r.log.Warn().Err(rmErr).Str("path", path).Msg("no se pudo borrar el logo temporal")
		}
	}
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: logo (~30mm, izq) + nombre y dirección de la empresa a un
// x fijo, cada línea de la dirección alineada al mismo offset.
func headerRow(company entity.Company, logoPath string) core.Row {
	lines := splitLines(company.Address)

	h := 12 + 5*float64(len(lines))
	if h < 25 {
		h = 25
	}

	logoCol := col.New(2)
	if logoPath != "" {
		logoCol = logoCol.Add(image.NewFromFile(logoPath, props.Rect{Percent: 95}))
	}

	companyCol := col.New(10).Add(
		text.New(company.Name, props.Text{
			Style: fontstyle.Bold, Size: 16, Color: colorDarkBlue, Top: 1, Left: 3,
		}),
	)
	for i, line := range lines {
		companyCol = companyCol.Add(text.New(line, props.Text{
			Size: 10, Color: colorText, Top: 12 + 5*float64(i), Left: 3,
		}))
	}

	return row.New(h).Add(logoCol, companyCol)
}

// titleBannerRow: barra rellena de ancho completo con el título INVOICE.
func titleBannerRow() core.Row {
	return row.New(10).WithStyle(&props.Cell{BackgroundColor: colorTeal}).Add(
		col.New(12).Add(text.New("INVOICE", props.Text{
			Style: fontstyle.Bold, Size: 14, Color: colorWhite, Top: 2, Left: 2,
		})),
	)
}

// metadataRows: número de factura, fecha de emisión y de vencimiento, con
// columna de etiqueta fija y fechas en formato YYYY-MM-DD.
func metadataRows(inv *entity.Invoice) []core.Row {
	meta := func(label, value string) core.Row {
		return row.New(7).Add(
			col.New(2).Add(text.New(label, props.Text{Style: fontstyle.Bold, Top: 1})),
			col.New(10).Add(text.New(value, props.Text{Top: 1})),
		)
	}
	return []core.Row{
		meta("Invoice #:", inv.Number),
		meta("Date:", inv.IssueDate.Format("2006-01-02")),
		meta("Due Date:", inv.DueDate.Format("2006-01-02")),
	}
}

// billToRows: bloque del cliente apilado verticalmente.
func billToRows(client entity.Client) []core.Row {
	full := func(h float64, c core.Component) core.Row {
		return row.New(h).Add(col.New(12).Add(c))
	}

	rows := []core.Row{
		full(7, text.New("Bill To:", props.Text{Style: fontstyle.Bold, Size: 12, Top: 1})),
		full(7, text.New(client.Name, props.Text{Style: fontstyle.Bold, Top: 1})),
	}
	for _, line := range splitLines(client.Address) {
		rows = append(rows, full(5, text.New(line, props.Text{})))
	}
	rows = append(rows, full(5, text.New(client.Email, props.Text{})))
	return rows
}

// tableHeadingRow: encabezado de sección de la tabla (default "Services").
func tableHeadingRow(heading string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(heading, props.Text{Style: fontstyle.Bold, Size: 12, Top: 1}),
	))
}

// tableHeaderRow: cabecera sombreada de cinco columnas (2:4:2:2:2).
func tableHeaderRow(labels entity.TableLabels) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).
			WithStyle(&props.Cell{BackgroundColor: colorLightGray}).
			Add(text.New(label, props.Text{
				Style: fontstyle.Bold, Align: a, Top: 1, Left: 1, Right: 1,
			}))
	}
	return row.New(7).Add(
		h(labels.Code, 2, align.Left),
		h(labels.Desc, 4, align.Left),
		h(labels.Quantity, 2, align.Right),
		h(labels.Rate, 2, align.Right),
		h(labels.Amount, 2, align.Right),
	)
}

// tableItemRows: una fila por línea, en el orden de entrada. Una línea
// malformada aborta el render completo.
func tableItemRows(items []entity.LineItem) ([]core.Row, error) {
	rows := make([]core.Row, 0, len(items))
	for i, it := range items {
		qty, rate, amount, err := itemCells(it)
		if err != nil {
			return nil, fmt.Errorf("pdf: línea %d: %w", i+1, err)
		}
		rows = append(rows, row.New(7).Add(
			col.New(2).Add(text.New(it.ServiceCode, props.Text{Top: 1, Left: 1})),
			col.New(4).Add(text.New(it.Description, props.Text{Top: 1, Left: 1})),
			col.New(2).Add(text.New(qty, props.Text{Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(rate, props.Text{Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(amount, props.Text{Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows, nil
}

// itemCells resuelve el texto de las celdas numéricas de una línea: horas y
// tarifa a dos decimales en modo horario, el literal "N/A" en ambas para
// monto fijo; el monto siempre con separadores de miles y dos decimales.
func itemCells(it entity.LineItem) (qty, rate, amount string, err error) {
	resolved, err := it.Amount()
	if err != nil {
		return "", "", "", err
	}
	switch it.Mode {
	case entity.ModeHourly:
		qty, rate = it.Hours.StringFixed(2), it.Rate.StringFixed(2)
	case entity.ModeFixed:
		qty, rate = "N/A", "N/A"
	}
	return qty, rate, formatMoney(resolved), nil
}

// totalsRows: bloque de totales alineado a la derecha, desplazado del borde
// izquierdo de la tabla. Las filas de descuento solo existen con descuento
// positivo; el impuesto lleva la tasa literal en la etiqueta.
func totalsRows(inv *entity.Invoice, totals domainbilling.Totals) []core.Row {
	trow := func(label, value string) core.Row {
		return row.New(7).Add(
			col.New(7),
			col.New(3).Add(text.New(label, props.Text{
				Style: fontstyle.Bold, Align: align.Right, Top: 1, Right: 2,
			})),
			col.New(2).Add(text.New(value, props.Text{
				Align: align.Right, Top: 1, Right: 1,
			})),
		)
	}

	rows := []core.Row{trow("Subtotal:", "$"+formatMoney(totals.Subtotal))}

	if inv.DiscountRate.IsPositive() {
		rows = append(rows,
			trow(fmt.Sprintf("Discount (%s%%):", inv.DiscountRate.String()),
				"-$"+formatMoney(totals.DiscountAmount)),
			trow("Subtotal after discount:", "$"+formatMoney(totals.DiscountedSubtotal)),
		)
	}

	rows = append(rows,
		trow(fmt.Sprintf("Tax (%s%%):", inv.TaxRate.String()), "$"+formatMoney(totals.TaxAmount)),
		row.New(2).Add(
			col.New(7),
			col.New(5).Add(line.New(props.Line{Color: colorRule, Thickness: 0.3})),
		),
		row.New(10).Add(
			col.New(7),
			col.New(3).Add(text.New("Total:", props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1, Right: 2,
			})),
			col.New(2).Add(text.New("$"+formatMoney(totals.GrandTotal), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1, Right: 1,
			})),
		),
	)
	return rows
}

// notesRows: etiqueta "Notes:" + texto multilínea con salto automático.
func notesRows(notes string) []core.Row {
	rows := []core.Row{
		row.New(7).Add(col.New(12).Add(
			text.New("Notes:", props.Text{Style: fontstyle.Bold, Top: 1}),
		)),
	}
	for _, line := range splitLines(notes) {
		// Altura estimada para el ajuste de línea (~95 caracteres por renglón
		// a 10pt sobre 190mm de ancho útil).
		wrapped := len(line)/95 + 1
		rows = append(rows, row.New(5*float64(wrapped)).Add(col.New(12).Add(
			text.New(line, props.Text{}),
		)))
	}
	return rows
}

// footerRows: dos líneas centradas, itálicas y atenuadas, que siguen al
// contenido (no van ancladas al borde inferior de la página).
func footerRows(companyName string) []core.Row {
	center := func(s string) core.Row {
		return row.New(5).Add(col.New(12).Add(text.New(s, props.Text{
			Style: fontstyle.Italic, Size: 8, Align: align.Center, Color: colorMuted,
		})))
	}
	return []core.Row{
		center("Thank you for your business!"),
		center(companyName),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func splitLines(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}

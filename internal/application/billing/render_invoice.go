package billing

import (
	"context"
	"fmt"
	"time"

	domainbilling "github.com/albeiroc/invoice-forge/internal/domain/billing"
	"github.com/albeiroc/invoice-forge/internal/domain/entity"
)

// Plazo por defecto de pago cuando el caller no indica fecha de vencimiento.
const defaultDueDays = 30

// RenderInvoiceUseCase orquesta la generación del PDF: valida las líneas,
// aplica los defaults de fecha, calcula los totales y delega el dibujo en
// el renderer. O produce el documento completo o falla sin salida parcial.
type RenderInvoiceUseCase struct {
	renderer InvoicePDFRenderer
}

// NewRenderInvoiceUseCase construye el caso de uso inyectando el renderer.
func NewRenderInvoiceUseCase(renderer InvoicePDFRenderer) *RenderInvoiceUseCase {
	return &RenderInvoiceUseCase{renderer: renderer}
}

// GenerateInvoice genera el PDF de la factura.
//
// Retorna:
//   - (pdfBytes, filename, nil)   si todo sale bien.
//   - domain.ErrInvalidItem       si alguna línea está malformada (aborta todo).
//   - domain.ErrInvalidInput      si el registro es inconsistente.
//
// Los fallos de logo NO llegan aquí: el renderer los degrada omitiendo la
// región. El registro de entrada nunca se muta; las fechas por defecto se
// aplican sobre una copia.
func (uc *RenderInvoiceUseCase) GenerateInvoice(ctx context.Context, inv *entity.Invoice) (pdfBytes []byte, filename string, err error) {
	// ── 1. Validar líneas ─────────────────────────────────────────────────────
	for i, it := range inv.Items {
		if vErr := it.Validate(); vErr != nil {
			return nil, "", fmt.Errorf("validar línea %d: %w", i+1, vErr)
		}
	}

	// ── 2. Defaults de fecha: hoy y hoy+30 días ───────────────────────────────
	record := *inv
	now := time.Now()
	if record.IssueDate.IsZero() {
		record.IssueDate = now
	}
	if record.DueDate.IsZero() {
		// El vencimiento por defecto se cuenta desde hoy, no desde la fecha
		// de emisión: una emisión explícita en el pasado no adelanta el plazo.
		record.DueDate = now.AddDate(0, 0, defaultDueDays)
	}

	// ── 3. Calcular totales ───────────────────────────────────────────────────
	totals, err := domainbilling.ComputeTotals(record.Items, record.TaxRate, record.DiscountRate)
	if err != nil {
		return nil, "", fmt.Errorf("calcular totales: %w", err)
	}

	// ── 4. Render ─────────────────────────────────────────────────────────────
	pdfBytes, err = uc.renderer.RenderInvoicePDF(ctx, &record, totals)
	if err != nil {
		return nil, "", fmt.Errorf("render: %w", err)
	}

	filename = fmt.Sprintf("Invoice_%s.pdf", record.Number)
	return pdfBytes, filename, nil
}

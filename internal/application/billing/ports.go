package billing

import (
	"context"

	domainbilling "github.com/albeiroc/invoice-forge/internal/domain/billing"
	"github.com/albeiroc/invoice-forge/internal/domain/entity"
)

// InvoicePDFRenderer emite el documento PDF de la factura a partir del
// registro y de sus totales ya calculados. La implementación vive en
// infrastructure/pdf.
type InvoicePDFRenderer interface {
	RenderInvoicePDF(ctx context.Context, inv *entity.Invoice, totals domainbilling.Totals) ([]byte, error)
}

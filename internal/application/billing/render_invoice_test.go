package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbilling "github.com/albeiroc/invoice-forge/internal/application/billing"
	"github.com/albeiroc/invoice-forge/internal/domain"
	domainbilling "github.com/albeiroc/invoice-forge/internal/domain/billing"
	"github.com/albeiroc/invoice-forge/internal/domain/entity"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// fakeRenderer captura lo que el caso de uso le entrega.
type fakeRenderer struct {
	calls      int
	gotInvoice *entity.Invoice
	gotTotals  domainbilling.Totals
	out        []byte
	err        error
}

func (f *fakeRenderer) RenderInvoicePDF(_ context.Context, inv *entity.Invoice, totals domainbilling.Totals) ([]byte, error) {
	f.calls++
	f.gotInvoice = inv
	f.gotTotals = totals
	return f.out, f.err
}

func validInvoice() *entity.Invoice {
	return &entity.Invoice{
		Number:  "INV-042",
		Company: entity.Company{Name: "ABC123 INC"},
		Client:  entity.Client{Name: "Acme Corporation"},
		Items: []entity.LineItem{
			entity.NewHourlyItem("", "Design", dec("10"), dec("100")),
			entity.NewFixedItem("", "Setup", dec("50")),
		},
		TaxRate:      dec("6"),
		DiscountRate: dec("10"),
	}
}

func TestGenerateInvoice_EntregaTotalesYNombre(t *testing.T) {
	f := &fakeRenderer{out: []byte("%PDF-fake")}
	uc := appbilling.NewRenderInvoiceUseCase(f)

	pdf, filename, err := uc.GenerateInvoice(context.Background(), validInvoice())
	require.NoError(t, err)

	assert.Equal(t, []byte("%PDF-fake"), pdf)
	assert.Equal(t, "Invoice_INV-042.pdf", filename)
	assert.Equal(t, 1, f.calls)

	// Totales del escenario de referencia: 1050 / 105 / 945 / 56.70 / 1001.70
	assert.True(t, f.gotTotals.Subtotal.Equal(dec("1050")))
	assert.True(t, f.gotTotals.GrandTotal.Equal(dec("1001.70")))
}

func TestGenerateInvoice_DefaultsDeFecha(t *testing.T) {
	f := &fakeRenderer{out: []byte("%PDF")}
	uc := appbilling.NewRenderInvoiceUseCase(f)

	inv := validInvoice() // sin fechas

	before := time.Now()
	_, _, err := uc.GenerateInvoice(context.Background(), inv)
	require.NoError(t, err)

	got := f.gotInvoice
	assert.False(t, got.IssueDate.IsZero(), "emisión por defecto = hoy")
	assert.WithinDuration(t, before, got.IssueDate, time.Minute)
	assert.Equal(t, got.IssueDate.AddDate(0, 0, 30), got.DueDate, "vencimiento por defecto = emisión + 30 días")

	// El registro del caller no se muta: los defaults van en la copia.
	assert.True(t, inv.IssueDate.IsZero())
	assert.True(t, inv.DueDate.IsZero())
}

func TestGenerateInvoice_VencimientoPorDefectoDesdeHoy(t *testing.T) {
	// Emisión explícita en el pasado con vencimiento omitido: el default del
	// vencimiento se cuenta desde hoy, no desde la fecha de emisión.
	f := &fakeRenderer{out: []byte("%PDF")}
	uc := appbilling.NewRenderInvoiceUseCase(f)

	inv := validInvoice()
	inv.IssueDate = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	_, _, err := uc.GenerateInvoice(context.Background(), inv)
	require.NoError(t, err)

	assert.Equal(t, inv.IssueDate, f.gotInvoice.IssueDate, "la emisión explícita se respeta")
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), f.gotInvoice.DueDate, time.Minute,
		"vencimiento por defecto = hoy + 30 días, aunque la emisión sea antigua")
}

func TestGenerateInvoice_RespetaFechasExplicitas(t *testing.T) {
	f := &fakeRenderer{out: []byte("%PDF")}
	uc := appbilling.NewRenderInvoiceUseCase(f)

	inv := validInvoice()
	inv.IssueDate = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	inv.DueDate = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	_, _, err := uc.GenerateInvoice(context.Background(), inv)
	require.NoError(t, err)
	assert.Equal(t, inv.IssueDate, f.gotInvoice.IssueDate)
	assert.Equal(t, inv.DueDate, f.gotInvoice.DueDate)
}

func TestGenerateInvoice_LineaSinDescripcionAborta(t *testing.T) {
	f := &fakeRenderer{out: []byte("%PDF")}
	uc := appbilling.NewRenderInvoiceUseCase(f)

	inv := validInvoice()
	inv.Items = append(inv.Items, entity.NewFixedItem("X", "", dec("1")))

	pdf, _, err := uc.GenerateInvoice(context.Background(), inv)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidItem)
	assert.Nil(t, pdf, "sin salida parcial")
	assert.Zero(t, f.calls, "el renderer ni siquiera se invoca")
}

func TestGenerateInvoice_ErrorDelRendererSePropaga(t *testing.T) {
	f := &fakeRenderer{err: assert.AnError}
	uc := appbilling.NewRenderInvoiceUseCase(f)

	pdf, _, err := uc.GenerateInvoice(context.Background(), validInvoice())
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Nil(t, pdf)
}

func TestGenerateInvoice_SinLineas(t *testing.T) {
	f := &fakeRenderer{out: []byte("%PDF")}
	uc := appbilling.NewRenderInvoiceUseCase(f)

	inv := validInvoice()
	inv.Items = nil

	_, filename, err := uc.GenerateInvoice(context.Background(), inv)
	require.NoError(t, err, "cero líneas no es un error")
	assert.Equal(t, "Invoice_INV-042.pdf", filename)
	assert.True(t, f.gotTotals.Subtotal.IsZero())
	assert.True(t, f.gotTotals.GrandTotal.IsZero())
}

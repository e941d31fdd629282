package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbilling "github.com/albeiroc/invoice-forge/internal/application/billing"
	"github.com/albeiroc/invoice-forge/internal/application/dto"
	infrapdf "github.com/albeiroc/invoice-forge/internal/infrastructure/pdf"
	httpRouter "github.com/albeiroc/invoice-forge/internal/interfaces/http"
	"github.com/albeiroc/invoice-forge/pkg/logger"
)

func newTestApp() *fiber.App {
	renderer := infrapdf.NewMarotoInvoiceRenderer(nil, logger.Discard())
	uc := appbilling.NewRenderInvoiceUseCase(renderer)

	app := fiber.New()
	httpRouter.Router(app, httpRouter.RouterDeps{RenderInvoice: uc})
	return app
}

const validBody = `{
	"invoice_number": "INV-001",
	"invoice_date": "2024-03-15",
	"due_date": "2024-04-14",
	"company_name": "ABC123 INC",
	"company_address": "123 Broadway\nNew York, NY 10004",
	"client_name": "Acme Corporation",
	"client_email": "billing@acmecorp.com",
	"items": [
		{"description": "Design", "hours": 10, "rate": 100},
		{"description": "Setup", "fixed_amount": 50}
	],
	"tax_rate": 6,
	"discount_rate": 10,
	"notes": "Payment is due within 30 days."
}`

func TestGeneratePDF_JSON(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(fiber.MethodPost, "/api/invoices/pdf", strings.NewReader(validBody))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "Invoice_INV-001.pdf")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")), "la respuesta debe ser un PDF")
}

func TestGeneratePDF_Multipart(t *testing.T) {
	app := newTestApp()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("data", validBody))
	fw, err := w.CreateFormFile("logo", "logo.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("raster corrupto: el render degrada, no falla"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(fiber.MethodPost, "/api/invoices/pdf", &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestGeneratePDF_LineaInvalida(t *testing.T) {
	app := newTestApp()

	body := strings.Replace(validBody,
		`{"description": "Setup", "fixed_amount": 50}`,
		`{"description": "Setup"}`, 1)

	req := httptest.NewRequest(fiber.MethodPost, "/api/invoices/pdf", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var errResp dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "VALIDATION", errResp.Code)
}

func TestGeneratePDF_CuerpoIlegible(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(fiber.MethodPost, "/api/invoices/pdf", strings.NewReader("{rota"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestComputeTotals_EscenarioDeReferencia(t *testing.T) {
	app := newTestApp()

	body := `{
		"items": [
			{"description": "Design", "hours": 10, "rate": 100},
			{"description": "Setup", "fixed_amount": 50}
		],
		"tax_rate": 6,
		"discount_rate": 10
	}`
	req := httptest.NewRequest(fiber.MethodPost, "/api/invoices/totals", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var totals dto.TotalsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&totals))
	assert.Equal(t, "1050.00", totals.Subtotal)
	assert.Equal(t, "105.00", totals.DiscountAmount)
	assert.Equal(t, "945.00", totals.DiscountedSubtotal)
	assert.Equal(t, "56.70", totals.TaxAmount)
	assert.Equal(t, "1001.70", totals.Total)
}

func TestComputeTotals_DescuentoFueraDeRango(t *testing.T) {
	app := newTestApp()

	body := `{"items": [{"description": "X", "fixed_amount": 10}], "tax_rate": 0, "discount_rate": 150}`
	req := httptest.NewRequest(fiber.MethodPost, "/api/invoices/totals", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	appbilling "github.com/albeiroc/invoice-forge/internal/application/billing"
	"github.com/albeiroc/invoice-forge/internal/application/dto"
	"github.com/albeiroc/invoice-forge/internal/domain"
	domainbilling "github.com/albeiroc/invoice-forge/internal/domain/billing"
)

// InvoiceHandler maneja las peticiones HTTP de generación de facturas.
type InvoiceHandler struct {
	uc *appbilling.RenderInvoiceUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *appbilling.RenderInvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// GeneratePDF genera el PDF de la factura y lo devuelve como descarga.
// Acepta JSON directo, o multipart/form-data con el campo "data" (JSON) y un
// archivo "logo" opcional — el camino de subida de archivo del formulario.
// POST /api/invoices/pdf
func (h *InvoiceHandler) GeneratePDF(c *fiber.Ctx) error {
	req, err := parseGenerateRequest(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()})
	}

	inv, err := req.ToEntity()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	pdfBytes, filename, err := h.uc.GenerateInvoice(c.Context(), inv)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidItem) || errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(pdfBytes)
}

// ComputeTotals devuelve el preview de montos sin generar documento.
// POST /api/invoices/totals
func (h *InvoiceHandler) ComputeTotals(c *fiber.Ctx) error {
	var req dto.TotalsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	items, err := req.ToItems()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	totals, err := domainbilling.ComputeTotals(items, req.TaxRate, req.DiscountRate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	return c.JSON(dto.TotalsResponse{
		Subtotal:           totals.Subtotal.StringFixed(2),
		DiscountAmount:     totals.DiscountAmount.StringFixed(2),
		DiscountedSubtotal: totals.DiscountedSubtotal.StringFixed(2),
		TaxAmount:          totals.TaxAmount.StringFixed(2),
		Total:              totals.GrandTotal.StringFixed(2),
	})
}

// parseGenerateRequest extrae el request desde JSON o multipart. En
// multipart, el archivo "logo" reemplaza al campo logo_base64 del JSON.
func parseGenerateRequest(c *fiber.Ctx) (dto.GenerateInvoiceRequest, error) {
	var req dto.GenerateInvoiceRequest

	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		if err := c.BodyParser(&req); err != nil {
			return req, errors.New("cuerpo JSON inválido")
		}
		return req, nil
	}

	payload := c.FormValue("data")
	if payload == "" {
		return req, errors.New("campo multipart 'data' requerido")
	}
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return req, errors.New("campo 'data' no es JSON válido")
	}

	if file, err := c.FormFile("logo"); err == nil && file != nil {
		f, err := file.Open()
		if err != nil {
			return req, errors.New("no se pudo abrir el archivo 'logo'")
		}
		defer f.Close()
		raw, err := io.ReadAll(f)
		if err != nil {
			return req, errors.New("no se pudo leer el archivo 'logo'")
		}
		req.LogoBase64 = base64.StdEncoding.EncodeToString(raw)
	}

	return req, nil
}

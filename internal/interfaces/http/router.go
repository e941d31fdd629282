package http

import (
	"github.com/gofiber/fiber/v2"

	appbilling "github.com/albeiroc/invoice-forge/internal/application/billing"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RenderInvoice *appbilling.RenderInvoiceUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	invoices := api.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.RenderInvoice)
	invoices.Post("/pdf", invoiceHandler.GeneratePDF)
	invoices.Post("/totals", invoiceHandler.ComputeTotals)
}

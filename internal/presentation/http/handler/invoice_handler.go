package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/caisse-api/internal/application/service"
	"github.com/sangkips/caisse-api/internal/presentation/http/dto/response"
)

// InvoiceHandler serves the invoices of confirmed orders
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Get returns the invoice PDF, base64 encoded by default or raw with ?format=pdf
func (h *InvoiceHandler) Get(c *gin.Context) {
	orderID, ok := parseID(c, "id", "order")
	if !ok {
		return
	}

	if c.Query("format") == "pdf" {
		doc, err := h.invoiceService.GetInvoicePDF(c.Request.Context(), orderID)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", `inline; filename="facture-`+orderID.String()+`.pdf"`)
		c.Data(http.StatusOK, "application/pdf", doc)
		return
	}

	encoded, err := h.invoiceService.GetInvoice(c.Request.Context(), orderID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", gin.H{
		"order_id":   orderID,
		"pdf_base64": encoded,
	})
}

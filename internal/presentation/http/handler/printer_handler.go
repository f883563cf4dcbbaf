package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/caisse-api/internal/application/service"
	"github.com/sangkips/caisse-api/internal/presentation/http/dto/response"
	"github.com/sangkips/caisse-api/pkg/apperror"
)

// PrinterHandler exposes the thermal printer.
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// testPrintResponse carries the receipt text so a till without a printer can
// still preview the layout.
type testPrintResponse struct {
	Printed bool   `json:"printed"`
	Receipt string `json:"receipt"`
	Warning string `json:"warning,omitempty"`
}

// GetStatus reports which transport is configured and whether it answers.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.printerService.GetStatus())
}

// TestPrint prints a sample invoice. A device failure still answers 200 with
// the rendered text; only a rendering failure is an error.
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	receipt, err := h.printerService.TestPrint()
	switch {
	case err == nil:
		response.OK(c, "Test page sent to printer", testPrintResponse{Printed: true, Receipt: receipt})
	case apperror.Is(err, apperror.KindUnavailable):
		response.OK(c, "Printer did not accept the test page", testPrintResponse{Receipt: receipt, Warning: err.Error()})
	default:
		response.Error(c, err)
	}
}

// PrintOrder reprints the invoice of a confirmed order.
func (h *PrinterHandler) PrintOrder(c *gin.Context) {
	orderID, ok := parseID(c, "id", "order")
	if !ok {
		return
	}

	if err := h.printerService.PrintOrder(c.Request.Context(), orderID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice sent to printer", gin.H{"order_id": orderID})
}

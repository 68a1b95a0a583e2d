package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/dyecalc/internal/domain/models"
	"github.com/mamadbah2/dyecalc/internal/service/invoice"
	"github.com/mamadbah2/dyecalc/internal/service/printing"
)

// InvoiceHandler prices and prints proforma invoices.
type InvoiceHandler struct {
	printer *printing.Service
	logger  *zap.Logger
}

// NewInvoiceHandler constructs the HTTP handler adapter.
func NewInvoiceHandler(printer *printing.Service, logger *zap.Logger) *InvoiceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceHandler{printer: printer, logger: logger}
}

// Totals returns per-line amounts, subtotal and quote total.
func (h *InvoiceHandler) Totals(c *gin.Context) {
	var inv models.Invoice
	if err := c.ShouldBindJSON(&inv); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	totals, err := invoice.Compute(inv)
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}

// PDF renders the invoice.
func (h *InvoiceHandler) PDF(c *gin.Context) {
	var inv models.Invoice
	if err := c.ShouldBindJSON(&inv); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	var buf bytes.Buffer
	if err := h.printer.Invoice(&buf, inv); err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	name := inv.InvoiceNumber
	if name == "" {
		name = "invoice"
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", name+".pdf"))
	c.Data(http.StatusOK, pdfContentType, buf.Bytes())
}

// Package invoice computes proforma invoice totals.
package invoice

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/dyecalc/internal/domain/models"
)

// ErrInvalidInvoice indicates an invoice that cannot be totalled or printed.
var ErrInvalidInvoice = errors.New("invalid invoice")

// Totals is the priced view of an invoice.
type Totals struct {
	Lines    []float64 `json:"lines"`
	Subtotal float64   `json:"subtotal"`
	Total    float64   `json:"total"`
}

// LineTotal is quantity times unit price.
func LineTotal(item models.InvoiceItem) float64 {
	return lineAmount(item).InexactFloat64()
}

// Total sums every line of the invoice.
func Total(inv models.Invoice) float64 {
	return sum(inv).InexactFloat64()
}

// Compute validates the invoice and returns per-line and overall totals.
// No tax or discount is applied, so the quote total equals the subtotal.
func Compute(inv models.Invoice) (Totals, error) {
	if err := Validate(inv); err != nil {
		return Totals{}, err
	}
	lines := make([]float64, len(inv.Items))
	for i, item := range inv.Items {
		lines[i] = LineTotal(item)
	}
	subtotal := Total(inv)
	return Totals{Lines: lines, Subtotal: subtotal, Total: subtotal}, nil
}

func sum(inv models.Invoice) decimal.Decimal {
	total := decimal.Zero
	for _, item := range inv.Items {
		total = total.Add(lineAmount(item))
	}
	return total
}

// lineAmount treats non-finite inputs as zero; Validate rejects them first.
func lineAmount(item models.InvoiceItem) decimal.Decimal {
	return amount(item.Quantity).Mul(amount(item.UnitPrice))
}

func amount(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

// Validate rejects negative or non-finite quantities and prices.
func Validate(inv models.Invoice) error {
	if strings.TrimSpace(inv.CustomerName) == "" {
		return fmt.Errorf("%w: customer name is required", ErrInvalidInvoice)
	}
	for i, item := range inv.Items {
		if !nonNegative(item.Quantity) {
			return fmt.Errorf("%w: item %d quantity must be a non-negative number", ErrInvalidInvoice, i+1)
		}
		if !nonNegative(item.UnitPrice) {
			return fmt.Errorf("%w: item %d unit price must be a non-negative number", ErrInvalidInvoice, i+1)
		}
	}
	return nil
}

func nonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

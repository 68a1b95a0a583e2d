// Package printing renders requisitions and invoices as A4 PDF documents.
package printing

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf/v2"
	"go.uber.org/zap"

	"github.com/mamadbah2/dyecalc/internal/domain/models"
	"github.com/mamadbah2/dyecalc/internal/service/dyeing"
	"github.com/mamadbah2/dyecalc/internal/service/invoice"
)

const notAvailable = "N/A"

// Service lays out printable documents.
type Service struct {
	company  string
	currency string
	logger   *zap.Logger
	now      func() time.Time
}

// NewService configures the letterhead used on every document.
func NewService(company, currency string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{company: company, currency: currency, logger: logger, now: time.Now}
}

// Requisition writes the chemical requisition sheet for req to w.
func (s *Service) Requisition(w io.Writer, req models.Requisition) error {
	form := req.Form
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(277, 10, tr(s.company), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(277, 8, "Dyeing Chemical Requisition", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(277, 5, fmt.Sprintf("Printed: %s", s.now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(277, 7, "Batch Information", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 9)
	header := [][2]string{
		{"Req ID", form.ReqID}, {"Date", form.ReqDate}, {"Buyer", form.Buyer}, {"Order No", form.OrderNo},
		{"Batch No", form.BatchNo}, {"Batch Qty", form.BatchQty}, {"Work Order", form.WorkOrder}, {"Project", form.Project},
		{"Fabric", form.FabricType}, {"Composition", form.Composition}, {"GSM", form.GSM}, {"Fabric Qty", form.FabricQty},
		{"Color", form.Color}, {"Color Group", form.ColorGroup}, {"Lab Dip", form.LabDipNo}, {"Lot No", form.LotNo},
		{"Machine", form.MachineNo}, {"Machine Desc", form.MachineDesc}, {"Dyeing Type", form.DyingType}, {"Mode", string(form.ProductMode)},
	}
	for i, kv := range header {
		ln := 0
		if i%4 == 3 {
			ln = 1
		}
		pdf.CellFormat(69.25, 6, tr(fmt.Sprintf("%s: %s", kv[0], kv[1])), "1", ln, "L", false, 0, "")
	}
	pdf.Ln(3)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(277, 7, "Process Parameters", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(69.25, 6, "Fabric Weight: "+formatNumber(form.FabricWeight, " kg"), "1", 0, "L", false, 0, "")
	pdf.CellFormat(69.25, 6, "Liquor Ratio: "+ratio(form.LiquorRatio), "1", 0, "L", false, 0, "")
	pdf.CellFormat(69.25, 6, "Total Water: "+formatNumber(form.TotalWater, " L"), "1", 0, "L", false, 0, "")
	pdf.CellFormat(69.25, 6, tr("Cycle Time: "+form.CycleTime), "1", 1, "L", false, 0, "")
	pdf.CellFormat(138.5, 6, tr("Reel Speed: "+form.ReelSpeed), "1", 0, "L", false, 0, "")
	pdf.CellFormat(138.5, 6, tr("Pump Speed: "+form.PumpSpeed), "1", 1, "L", false, 0, "")
	pdf.Ln(3)

	widths := []float64{10, 24, 55, 25, 20, 20, 18, 18, 18, 22, 22, 25}
	columns := []string{"#", "Type", "Item", "Lot No", "g/L", "%", "kg", "gm", "mg", "Unit Price", "Cost", "Remarks"}
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(200, 200, 200)
	for i, col := range columns {
		ln := 0
		if i == len(columns)-1 {
			ln = 1
		}
		pdf.CellFormat(widths[i], 7, col, "1", ln, "C", true, 0, "")
	}

	pdf.SetFont("Arial", "", 9)
	for i, item := range req.Items {
		if item.Highlight {
			pdf.SetFillColor(255, 243, 176)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		row := []string{
			strconv.Itoa(i + 1),
			string(item.ItemType),
			item.ItemName,
			item.LotNo,
			formatNumber(item.Dosing, ""),
			formatNumber(item.Shade, ""),
			part(item.Quantity.KG),
			part(item.Quantity.GM),
			part(item.Quantity.MG),
			formatNumber(item.UnitPrice, ""),
			fmt.Sprintf("%.2f", item.Costing),
			item.Remarks,
		}
		for j, cell := range row {
			ln, align := 0, "C"
			if j == len(row)-1 {
				ln = 1
			}
			if j == 2 || j == len(row)-1 {
				align = "L"
			}
			pdf.CellFormat(widths[j], 6, tr(cell), "1", ln, align, true, 0, "")
		}
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(230, 7, "Total Cost", "1", 0, "R", true, 0, "")
	pdf.CellFormat(47, 7, tr(fmt.Sprintf("%s %.2f", s.currency, dyeing.TotalCost(req.Items))), "1", 1, "R", true, 0, "")

	if form.Remarks != "" {
		pdf.Ln(3)
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(277, 5, tr("Remarks: "+form.Remarks), "", "L", false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render requisition %s: %w", form.ReqID, err)
	}
	s.logger.Debug("requisition rendered", zap.String("req_id", form.ReqID), zap.Int("items", len(req.Items)))
	return nil
}

// Invoice writes the proforma invoice inv to w.
func (s *Service) Invoice(w io.Writer, inv models.Invoice) error {
	totals, err := invoice.Compute(inv)
	if err != nil {
		return err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, tr(s.company), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(190, 8, "Proforma Invoice", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(95, 7, tr("Invoice No: "+inv.InvoiceNumber), "LT", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, tr("Date: "+inv.Date), "RT", 1, "L", false, 0, "")
	pdf.CellFormat(190, 7, tr("Customer: "+inv.CustomerName), "LR", 1, "L", false, 0, "")
	pdf.MultiCell(190, 6, tr("Address: "+inv.CustomerAddress), "LRB", "L", false)
	pdf.Ln(4)

	widths := []float64{10, 50, 60, 20, 25, 25}
	columns := []string{"#", "Item", "Description", "Qty", "Unit Price", "Amount"}
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	for i, col := range columns {
		ln := 0
		if i == len(columns)-1 {
			ln = 1
		}
		pdf.CellFormat(widths[i], 7, col, "1", ln, "C", true, 0, "")
	}

	pdf.SetFont("Arial", "", 10)
	for i, item := range inv.Items {
		pdf.CellFormat(widths[0], 6, strconv.Itoa(i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 6, tr(item.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, tr(item.Description), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, strconv.FormatFloat(item.Quantity, 'f', -1, 64), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, fmt.Sprintf("%.2f", item.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[5], 6, fmt.Sprintf("%.2f", totals.Lines[i]), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(165, 7, "Subtotal", "1", 0, "R", true, 0, "")
	pdf.CellFormat(25, 7, fmt.Sprintf("%.2f", totals.Subtotal), "1", 1, "R", true, 0, "")
	pdf.CellFormat(165, 8, tr(fmt.Sprintf("Quote Total (%s)", s.currency)), "1", 0, "R", true, 0, "")
	pdf.CellFormat(25, 8, fmt.Sprintf("%.2f", totals.Total), "1", 1, "R", true, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render invoice %s: %w", inv.InvoiceNumber, err)
	}
	return nil
}

func formatNumber(v *float64, unit string) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64) + unit
}

func ratio(v *float64) string {
	if v == nil {
		return ""
	}
	return "1:" + strconv.FormatFloat(*v, 'f', -1, 64)
}

func part(v *int64) string {
	if v == nil {
		return notAvailable
	}
	return strconv.FormatInt(*v, 10)
}

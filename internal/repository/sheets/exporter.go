package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/dyecalc/internal/config"
	"github.com/mamadbah2/dyecalc/internal/domain/models"
)

const (
	recipesRange    = "Recipes!A:L"
	productionRange = "Production!A:H"
)

// Exporter appends saved recipes and production records to a Google spreadsheet.
type Exporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewExporter builds a Google Sheets backed exporter using a service account file.
func NewExporter(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*Exporter, error) {
	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}
	return newExporter(service, cfg.SpreadsheetID, logger), nil
}

func newExporter(service *sheetsapi.Service, spreadsheetID string, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{service: service, spreadsheetID: spreadsheetID, logger: logger}
}

// ExportRecipe appends one row per chemical item of the recipe.
func (e *Exporter) ExportRecipe(ctx context.Context, recipe models.Recipe) error {
	return e.appendRows(ctx, recipesRange, recipeRows(recipe))
}

// ExportProduction appends the record as a single row.
func (e *Exporter) ExportProduction(ctx context.Context, record models.ProductionRecord) error {
	return e.appendRows(ctx, productionRange, [][]interface{}{productionRow(record)})
}

func (e *Exporter) appendRows(ctx context.Context, sheetRange string, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}

	payload := &sheetsapi.ValueRange{Values: rows}
	call := e.service.Spreadsheets.Values.Append(e.spreadsheetID, sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append rows into range %s: %w", sheetRange, err)
	}

	e.logger.Debug("rows appended to sheet", zap.String("range", sheetRange), zap.Int("rows", len(rows)))
	return nil
}

// recipeRows columns: saved at, req id, date, buyer, order no, batch no, type, item, lot, g/L or %, qty kg, cost.
func recipeRows(recipe models.Recipe) [][]interface{} {
	form := recipe.FormData
	saved := recipe.Timestamp.UTC().Format(time.RFC3339)
	rows := make([][]interface{}, 0, len(recipe.ChemicalItems))
	for _, item := range recipe.ChemicalItems {
		rows = append(rows, []interface{}{
			saved,
			form.ReqID,
			form.ReqDate,
			form.Buyer,
			form.OrderNo,
			form.BatchNo,
			string(item.ItemType),
			item.ItemName,
			item.LotNo,
			dose(item),
			quantityCell(item.Quantity),
			item.Costing,
		})
	}
	return rows
}

func productionRow(record models.ProductionRecord) []interface{} {
	return []interface{}{
		record.ID,
		record.Date,
		record.Lantabur.Total,
		record.Lantabur.Inhouse,
		record.Lantabur.SubContract,
		record.Taqwa.Total,
		record.TotalProduction,
		groupSummary(record),
	}
}

func dose(item models.ChemicalItem) string {
	switch {
	case item.Dosing != nil:
		return strconv.FormatFloat(*item.Dosing, 'f', -1, 64) + " g/L"
	case item.Shade != nil:
		return strconv.FormatFloat(*item.Shade, 'f', -1, 64) + " %"
	}
	return ""
}

func quantityCell(q models.Quantity) interface{} {
	if q.IsZero() {
		return ""
	}
	return q.Kilograms()
}

func groupSummary(record models.ProductionRecord) string {
	var parts []string
	for _, industry := range []models.IndustryData{record.Lantabur, record.Taqwa} {
		for _, g := range industry.ColorGroups {
			if g.Weight > 0 {
				parts = append(parts, fmt.Sprintf("%s %s: %g", industry.Name, g.GroupName, g.Weight))
			}
		}
	}
	return strings.Join(parts, "; ")
}

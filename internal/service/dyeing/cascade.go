package dyeing

import (
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/dyecalc/internal/domain/models"
)

// Params are the process-level values every item quantity depends on.
type Params struct {
	TotalWater   *float64
	FabricWeight *float64
}

// ParamsOf extracts the cascade inputs from a header form.
func ParamsOf(form models.DyeingFormData) Params {
	return Params{TotalWater: form.TotalWater, FabricWeight: form.FabricWeight}
}

// BlankItem returns a freshly added, empty requisition row.
func BlankItem() models.ChemicalItem {
	return models.ChemicalItem{}
}

// ApplyItem applies one field change to item and returns the updated copy.
// Quantity follows dosing or shade, and costing is refreshed after every change.
// Process step rows only accept type and highlight changes.
func ApplyItem(item models.ChemicalItem, cmd models.ItemCommand, p Params) models.ChemicalItem {
	out := item.Clone()
	locked := out.ItemType == models.ItemTypeProcessStep

	switch c := cmd.(type) {
	case models.SetItemType:
		switch {
		case c.Value == models.ItemTypeProcessStep:
			out = processStepItem(out.Highlight)
		case locked:
			out = models.ChemicalItem{ItemType: c.Value, Highlight: out.Highlight}
		default:
			out.ItemType = c.Value
		}
	case models.SetHighlight:
		out.Highlight = c.Value
	case models.SetItemName:
		if !locked {
			out.ItemName = c.Value
		}
	case models.SetLotNo:
		if !locked {
			out.LotNo = c.Value
		}
	case models.SetRemarks:
		if !locked {
			out.Remarks = c.Value
		}
	case models.SetDosing:
		if !locked {
			out.Dosing = ParseNumber(c.Raw, out.Dosing)
			out.Shade = nil
			out.Quantity = ConvertToSubUnits(QuantityFromDosing(out.Dosing, p.TotalWater))
		}
	case models.SetShade:
		if !locked {
			out.Shade = ParseNumber(c.Raw, out.Shade)
			out.Dosing = nil
			out.Quantity = ConvertToSubUnits(QuantityFromShade(out.Shade, p.FabricWeight))
		}
	case models.SetUnitPrice:
		if !locked {
			out.UnitPrice = ParseUnitPrice(c.Raw)
		}
	}

	out.Costing = Costing(out.Quantity, out.UnitPrice)
	return out
}

// Recalculate re-derives quantity and costing of every item from the current
// process parameters. The boolean reports whether any item actually changed.
func Recalculate(items []models.ChemicalItem, p Params) ([]models.ChemicalItem, bool) {
	out := make([]models.ChemicalItem, len(items))
	changed := false

	for i, item := range items {
		next := item.Clone()

		var qtyKg *float64
		switch {
		case next.Dosing != nil && p.TotalWater != nil:
			qtyKg = QuantityFromDosing(next.Dosing, p.TotalWater)
		case next.Shade != nil && p.FabricWeight != nil:
			qtyKg = QuantityFromShade(next.Shade, p.FabricWeight)
		}

		qty := ConvertToSubUnits(qtyKg)
		if !qty.Equal(next.Quantity) {
			next.Quantity = qty
			changed = true
		}

		costing := Costing(next.Quantity, next.UnitPrice)
		if costing != next.Costing {
			next.Costing = costing
			changed = true
		}

		out[i] = next
	}

	return out, changed
}

// Costing prices a quantity at unitPrice per kg. A missing price costs nothing.
func Costing(qty models.Quantity, unitPrice *float64) float64 {
	if unitPrice == nil || !isFinite(*unitPrice) {
		return 0
	}
	cost := kilograms(qty).Mul(decimal.NewFromFloat(*unitPrice))
	if cost.IsNegative() {
		return 0
	}
	return cost.InexactFloat64()
}

// TotalCost sums the costing of all items.
func TotalCost(items []models.ChemicalItem) float64 {
	total := decimal.Zero
	for _, item := range items {
		if isFinite(item.Costing) {
			total = total.Add(decimal.NewFromFloat(item.Costing))
		}
	}
	if total.IsNegative() {
		return 0
	}
	return total.InexactFloat64()
}

// kilograms folds the kg, gm and mg parts into an exact kilogram amount.
func kilograms(q models.Quantity) decimal.Decimal {
	return part(q.KG, 0).Add(part(q.GM, -3)).Add(part(q.MG, -6))
}

func part(v *int64, exp int32) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.New(*v, exp)
}

func processStepItem(highlight bool) models.ChemicalItem {
	return models.ChemicalItem{
		ItemType:  models.ItemTypeProcessStep,
		ItemName:  models.ProcessStepPlaceholder,
		LotNo:     models.ProcessStepPlaceholder,
		Remarks:   models.ProcessStepPlaceholder,
		Highlight: highlight,
	}
}

package dyeing

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/mamadbah2/dyecalc/internal/domain/models"
)

func TestApplyItem_DosingClearsShade(t *testing.T) {
	item := models.ChemicalItem{ItemType: models.ItemTypeDyes, Shade: ptr(2)}
	params := Params{TotalWater: ptr(500), FabricWeight: ptr(200)}

	got := ApplyItem(item, models.SetDosing{Raw: "20"}, params)

	if got.Shade != nil {
		t.Fatalf("shade = %v, want nil", *got.Shade)
	}
	nearlyEqual(t, "dosing", got.Dosing, 20)
	assertQuantity(t, got.Quantity, 10, 0, 0)
	if item.Shade == nil {
		t.Fatalf("ApplyItem mutated its input")
	}
}

func TestApplyItem_ShadeClearsDosing(t *testing.T) {
	item := models.ChemicalItem{ItemType: models.ItemTypeChemical, Dosing: ptr(3)}
	params := Params{TotalWater: ptr(500), FabricWeight: ptr(200)}

	got := ApplyItem(item, models.SetShade{Raw: "5"}, params)

	if got.Dosing != nil {
		t.Fatalf("dosing = %v, want nil", *got.Dosing)
	}
	nearlyEqual(t, "shade", got.Shade, 5)
	assertQuantity(t, got.Quantity, 10, 0, 0)
}

func TestApplyItem_NonNumericDosingKeepsValue(t *testing.T) {
	params := Params{TotalWater: ptr(500)}
	item := ApplyItem(models.ChemicalItem{}, models.SetDosing{Raw: "20"}, params)

	got := ApplyItem(item, models.SetDosing{Raw: "2o"}, params)
	nearlyEqual(t, "dosing", got.Dosing, 20)
	assertQuantity(t, got.Quantity, 10, 0, 0)

	cleared := ApplyItem(got, models.SetDosing{Raw: ""}, params)
	if cleared.Dosing != nil || !cleared.Quantity.IsZero() {
		t.Fatalf("empty dosing should clear value and quantity, got %+v", cleared)
	}
}

func TestApplyItem_UnitPriceDrivesCosting(t *testing.T) {
	params := Params{TotalWater: ptr(500)}
	item := ApplyItem(models.ChemicalItem{}, models.SetDosing{Raw: "20"}, params)

	priced := ApplyItem(item, models.SetUnitPrice{Raw: "3.5"}, params)
	if math.Abs(priced.Costing-35) > 1e-9 {
		t.Fatalf("costing = %v, want 35", priced.Costing)
	}

	for _, raw := range []string{"abc", "-2", ""} {
		got := ApplyItem(priced, models.SetUnitPrice{Raw: raw}, params)
		if got.UnitPrice != nil || got.Costing != 0 {
			t.Fatalf("unit price %q: got price %v costing %v, want nil and 0", raw, got.UnitPrice, got.Costing)
		}
	}
}

func TestApplyItem_ProcessStepRoundTrip(t *testing.T) {
	params := Params{TotalWater: ptr(500)}
	item := models.ChemicalItem{ItemType: models.ItemTypeChemical, ItemName: "Soda", LotNo: "L1", Remarks: "x", Highlight: true}
	item = ApplyItem(item, models.SetDosing{Raw: "20"}, params)
	item = ApplyItem(item, models.SetUnitPrice{Raw: "2"}, params)

	step := ApplyItem(item, models.SetItemType{Value: models.ItemTypeProcessStep}, params)
	if step.ItemName != models.ProcessStepPlaceholder || step.LotNo != models.ProcessStepPlaceholder || step.Remarks != models.ProcessStepPlaceholder {
		t.Fatalf("process step text columns not set to placeholder: %+v", step)
	}
	if step.Dosing != nil || step.Shade != nil || step.UnitPrice != nil || !step.Quantity.IsZero() || step.Costing != 0 {
		t.Fatalf("process step must clear numeric columns: %+v", step)
	}
	if !step.Highlight {
		t.Fatalf("highlight is independent of item type")
	}

	locked := ApplyItem(step, models.SetDosing{Raw: "5"}, params)
	if locked.Dosing != nil || !locked.Quantity.IsZero() {
		t.Fatalf("process step accepted a dosing: %+v", locked)
	}

	back := ApplyItem(step, models.SetItemType{Value: models.ItemTypeChemical}, params)
	want := models.ChemicalItem{ItemType: models.ItemTypeChemical, Highlight: true}
	if !equalItem(back, want) {
		t.Fatalf("leaving process step = %+v, want %+v", back, want)
	}
}

func TestApplyItem_TypeChangeBetweenChemicalsKeepsFields(t *testing.T) {
	item := models.ChemicalItem{ItemType: models.ItemTypeChemical, ItemName: "Salt", Dosing: ptr(40)}
	got := ApplyItem(item, models.SetItemType{Value: models.ItemTypeDyes}, Params{})
	if got.ItemType != models.ItemTypeDyes || got.ItemName != "Salt" || got.Dosing == nil {
		t.Fatalf("unexpected reset: %+v", got)
	}
}

func TestRecalculate_FollowsProcessParameters(t *testing.T) {
	items := []models.ChemicalItem{
		{ItemType: models.ItemTypeChemical, Dosing: ptr(2), UnitPrice: ptr(10)},
		{ItemType: models.ItemTypeDyes, Shade: ptr(1.5)},
		{ItemType: models.ItemTypeProcessStep, ItemName: models.ProcessStepPlaceholder},
	}

	got, changed := Recalculate(items, Params{TotalWater: ptr(800), FabricWeight: ptr(100)})
	if !changed {
		t.Fatalf("expected change on first recalculation")
	}
	assertQuantity(t, got[0].Quantity, 1, 600, 0)
	if math.Abs(got[0].Costing-16) > 1e-9 {
		t.Fatalf("costing = %v, want 16", got[0].Costing)
	}
	assertQuantity(t, got[1].Quantity, 1, 500, 0)
	if !got[2].Quantity.IsZero() || got[2].Costing != 0 {
		t.Fatalf("process step should stay empty: %+v", got[2])
	}

	got, changed = Recalculate(got, Params{TotalWater: nil, FabricWeight: ptr(100)})
	if !changed || !got[0].Quantity.IsZero() || got[0].Costing != 0 {
		t.Fatalf("dosing item without water should clear, got %+v (changed=%v)", got[0], changed)
	}
}

func TestRecalculate_Idempotent(t *testing.T) {
	items := []models.ChemicalItem{
		{Dosing: ptr(1.37), UnitPrice: ptr(4.1)},
		{Shade: ptr(0.731), UnitPrice: ptr(12)},
		{},
	}
	params := Params{TotalWater: ptr(1234.5), FabricWeight: ptr(177.3)}

	first, _ := Recalculate(items, params)
	second, changed := Recalculate(first, params)
	if changed {
		t.Fatalf("second recalculation reported a change")
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Fatalf("recalculation is not idempotent:\n%s\n%s", a, b)
	}
}

func TestTotalCost(t *testing.T) {
	items := []models.ChemicalItem{{Costing: 10.5}, {Costing: 0}, {Costing: math.NaN()}, {Costing: 4.5}}
	if got := TotalCost(items); math.Abs(got-15) > 1e-9 {
		t.Fatalf("TotalCost = %v, want 15", got)
	}
	if got := TotalCost(nil); got != 0 {
		t.Fatalf("TotalCost(nil) = %v, want 0", got)
	}
}

func TestCosting_NoBinaryFloatDrift(t *testing.T) {
	zero, hundred := int64(0), int64(100)
	qty := models.Quantity{KG: &zero, GM: &hundred, MG: &zero}
	if got := Costing(qty, ptr(3)); got != 0.3 {
		t.Fatalf("Costing(0.1 kg @ 3) = %v, want 0.3", got)
	}
	if got := TotalCost([]models.ChemicalItem{{Costing: 0.1}, {Costing: 0.2}}); got != 0.3 {
		t.Fatalf("TotalCost(0.1, 0.2) = %v, want 0.3", got)
	}
	if got := Costing(qty, ptr(math.Inf(1))); got != 0 {
		t.Fatalf("Costing with infinite price = %v, want 0", got)
	}
}

func TestApplyItem_ProcessStepLocksTextColumns(t *testing.T) {
	step := ApplyItem(models.ChemicalItem{}, models.SetItemType{Value: models.ItemTypeProcessStep}, Params{})

	for _, cmd := range []models.ItemCommand{
		models.SetRemarks{Value: "add slowly"},
		models.SetItemName{Value: "Salt"},
		models.SetLotNo{Value: "L9"},
	} {
		got := ApplyItem(step, cmd, Params{})
		if got.Remarks != models.ProcessStepPlaceholder || got.ItemName != models.ProcessStepPlaceholder || got.LotNo != models.ProcessStepPlaceholder {
			t.Fatalf("%T edited a process step: %+v", cmd, got)
		}
	}

	if got := ApplyItem(step, models.SetHighlight{Value: true}, Params{}); !got.Highlight {
		t.Fatalf("highlight must stay editable on process steps")
	}
}

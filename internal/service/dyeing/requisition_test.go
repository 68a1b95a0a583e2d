package dyeing

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/mamadbah2/dyecalc/internal/domain/models"
)

var reqIDPattern = regexp.MustCompile(`^R25[0-9A-Z]{6}$`)

func TestNewRequisition(t *testing.T) {
	now := time.Date(2025, 12, 29, 9, 30, 0, 0, time.UTC)
	req := NewRequisition(now)

	if !reqIDPattern.MatchString(req.Form.ReqID) {
		t.Fatalf("reqId %q does not match %s", req.Form.ReqID, reqIDPattern)
	}
	if req.Form.ReqDate != "2025-12-29" {
		t.Fatalf("reqDate = %q, want 2025-12-29", req.Form.ReqDate)
	}
	if req.Form.ProductMode != models.ProductModeInhouse {
		t.Fatalf("productMode = %q, want inhouse", req.Form.ProductMode)
	}
	if len(req.Items) != 1 {
		t.Fatalf("expected one blank item, got %d", len(req.Items))
	}
}

func TestApplyFormChange_RecomputesWaterAndItems(t *testing.T) {
	req := NewRequisition(time.Now())
	req, _, err := ApplyItemChange(req, 0, models.SetDosing{Raw: "2"})
	if err != nil {
		t.Fatalf("ApplyItemChange: %v", err)
	}
	if !req.Items[0].Quantity.IsZero() {
		t.Fatalf("quantity without water should be empty, got %+v", req.Items[0].Quantity)
	}

	req, changed, err := ApplyFormChange(req, models.SetFabricWeight{Raw: "100"})
	if err != nil || !changed {
		t.Fatalf("fabric weight change: changed=%v err=%v", changed, err)
	}
	if req.Form.TotalWater != nil {
		t.Fatalf("total water without ratio should be nil")
	}

	req, changed, err = ApplyFormChange(req, models.SetLiquorRatio{Raw: "8"})
	if err != nil || !changed {
		t.Fatalf("liquor ratio change: changed=%v err=%v", changed, err)
	}
	nearlyEqual(t, "totalWater", req.Form.TotalWater, 800)
	assertQuantity(t, req.Items[0].Quantity, 1, 600, 0)

	req, changed, err = ApplyFormChange(req, models.SetLiquorRatio{Raw: "eight"})
	if err != nil || changed {
		t.Fatalf("garbage ratio should be ignored: changed=%v err=%v", changed, err)
	}
	nearlyEqual(t, "liquorRatio", req.Form.LiquorRatio, 8)
}

func TestApplyFormChange_TextFields(t *testing.T) {
	req := NewRequisition(time.Now())

	got, changed, err := ApplyFormChange(req, models.SetFormField{Field: "buyer", Value: "H&M"})
	if err != nil || !changed || got.Form.Buyer != "H&M" {
		t.Fatalf("buyer change: %+v changed=%v err=%v", got.Form, changed, err)
	}

	if _, _, err := ApplyFormChange(req, models.SetFormField{Field: "reqId", Value: "X"}); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("reqId must not be writable, err=%v", err)
	}
	if _, _, err := ApplyFormChange(req, models.SetFormField{Field: "productMode", Value: "outsourced"}); err == nil {
		t.Fatalf("invalid product mode accepted")
	}
}

func TestRefresh_SignalsOnlyRealChanges(t *testing.T) {
	req := models.Requisition{
		Form:  models.DyeingFormData{FabricWeight: ptr(50), LiquorRatio: ptr(10)},
		Items: []models.ChemicalItem{{Dosing: ptr(1)}, {Shade: ptr(2)}},
	}

	first, changed := Refresh(req)
	if !changed {
		t.Fatalf("first refresh should change derived values")
	}
	if _, changed := Refresh(first); changed {
		t.Fatalf("second refresh reported a change")
	}
}

func TestItemListOperations(t *testing.T) {
	req := models.Requisition{Items: []models.ChemicalItem{{ItemName: "a"}, {ItemName: "b"}, {ItemName: "c"}}}

	moved, err := MoveItem(req, 0, 2)
	if err != nil {
		t.Fatalf("MoveItem: %v", err)
	}
	if names(moved) != "bca" {
		t.Fatalf("MoveItem order = %s, want bca", names(moved))
	}
	if names(req) != "abc" {
		t.Fatalf("MoveItem mutated input: %s", names(req))
	}

	moved, _ = MoveItem(req, 2, 0)
	if names(moved) != "cab" {
		t.Fatalf("MoveItem order = %s, want cab", names(moved))
	}

	removed, err := RemoveItem(req, 1)
	if err != nil || names(removed) != "ac" {
		t.Fatalf("RemoveItem = %s err=%v, want ac", names(removed), err)
	}

	added := AddItem(req)
	if len(added.Items) != 4 {
		t.Fatalf("AddItem length = %d, want 4", len(added.Items))
	}

	if _, err := RemoveItem(req, 3); !errors.Is(err, ErrItemIndex) {
		t.Fatalf("RemoveItem out of range err = %v", err)
	}
	if _, err := MoveItem(req, -1, 0); !errors.Is(err, ErrItemIndex) {
		t.Fatalf("MoveItem out of range err = %v", err)
	}
	if _, _, err := ApplyItemChange(req, 5, models.SetRemarks{Value: "x"}); !errors.Is(err, ErrItemIndex) {
		t.Fatalf("ApplyItemChange out of range err = %v", err)
	}
}

func TestApplyItemChange_DerivesWaterFromHeader(t *testing.T) {
	req := NewRequisition(time.Now())
	req.Form.FabricWeight = ptr(100)
	req.Form.LiquorRatio = ptr(8)
	req.Form.TotalWater = nil

	got, changed, err := ApplyItemChange(req, 0, models.SetDosing{Raw: "2"})
	if err != nil || !changed {
		t.Fatalf("ApplyItemChange: changed=%v err=%v", changed, err)
	}
	nearlyEqual(t, "totalWater", got.Form.TotalWater, 800)
	assertQuantity(t, got.Items[0].Quantity, 1, 600, 0)

	req.Form.TotalWater = ptr(50)
	got, _, err = ApplyItemChange(req, 0, models.SetDosing{Raw: "2"})
	if err != nil {
		t.Fatalf("ApplyItemChange: %v", err)
	}
	nearlyEqual(t, "totalWater", got.Form.TotalWater, 800)
	assertQuantity(t, got.Items[0].Quantity, 1, 600, 0)
}

func names(req models.Requisition) string {
	var s string
	for _, item := range req.Items {
		s += item.ItemName
	}
	return s
}

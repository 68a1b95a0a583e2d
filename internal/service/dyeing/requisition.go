package dyeing

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/mamadbah2/dyecalc/internal/domain/models"
)

// ErrItemIndex indicates an item position outside the requisition.
var ErrItemIndex = errors.New("item index out of range")

// ErrUnknownField indicates a header field name the form does not have.
var ErrUnknownField = errors.New("unknown form field")

// ErrInvalidFieldValue indicates a value outside a header field's allowed set.
var ErrInvalidFieldValue = errors.New("invalid form field value")

const (
	reqDateLayout = "2006-01-02"
	reqIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	reqIDSuffix   = 6
)

// NewRequisitionID returns "R", the two-digit year and a random base-36 suffix, e.g. R25K3ZQ0P.
// Good enough for looking recipes up by hand, not globally unique.
func NewRequisitionID(now time.Time) string {
	var b strings.Builder
	b.Grow(3 + reqIDSuffix)
	fmt.Fprintf(&b, "R%02d", now.Year()%100)
	for range reqIDSuffix {
		b.WriteByte(reqIDAlphabet[rand.IntN(len(reqIDAlphabet))])
	}
	return b.String()
}

// NewRequisition starts an empty requisition with a fresh id and one blank row.
func NewRequisition(now time.Time) models.Requisition {
	return models.Requisition{
		Form: models.DyeingFormData{
			ReqID:       NewRequisitionID(now),
			ReqDate:     now.Format(reqDateLayout),
			ProductMode: models.ProductModeInhouse,
		},
		Items: []models.ChemicalItem{BlankItem()},
	}
}

// Clear discards the current requisition and starts over.
func Clear(now time.Time) models.Requisition {
	return NewRequisition(now)
}

// ApplyFormChange updates one header field. Changes to fabric weight or liquor
// ratio refresh total water and then every item quantity.
func ApplyFormChange(req models.Requisition, cmd models.FormCommand) (models.Requisition, bool, error) {
	out := req.Clone()

	switch c := cmd.(type) {
	case models.SetFabricWeight:
		out.Form.FabricWeight = ParseNumber(c.Raw, out.Form.FabricWeight)
	case models.SetLiquorRatio:
		out.Form.LiquorRatio = ParseNumber(c.Raw, out.Form.LiquorRatio)
	case models.SetFormField:
		if err := setFormField(&out.Form, c.Field, c.Value); err != nil {
			return req, false, err
		}
	default:
		return req, false, fmt.Errorf("unsupported form command %T", cmd)
	}

	out, _ = Refresh(out)
	return out, !equalRequisition(req, out), nil
}

// Refresh recomputes total water from the header and reruns the item cascade.
// It is safe to call repeatedly; the boolean is false when nothing moved.
func Refresh(req models.Requisition) (models.Requisition, bool) {
	out := req.Clone()
	water := TotalWater(out.Form.FabricWeight, out.Form.LiquorRatio)
	waterChanged := !equalFloat(water, out.Form.TotalWater)
	out.Form.TotalWater = water

	items, itemsChanged := Recalculate(out.Items, ParamsOf(out.Form))
	out.Items = items
	return out, waterChanged || itemsChanged
}

// ApplyItemChange runs one item command against the item at index. Total
// water is re-derived from the header first, so a stale value never leaks in.
func ApplyItemChange(req models.Requisition, index int, cmd models.ItemCommand) (models.Requisition, bool, error) {
	if index < 0 || index >= len(req.Items) {
		return req, false, fmt.Errorf("%w: %d", ErrItemIndex, index)
	}
	out, _ := Refresh(req)
	out.Items[index] = ApplyItem(out.Items[index], cmd, ParamsOf(out.Form))
	return out, !equalRequisition(req, out), nil
}

// AddItem appends a blank row.
func AddItem(req models.Requisition) models.Requisition {
	out := req.Clone()
	out.Items = append(out.Items, BlankItem())
	return out
}

// RemoveItem drops the row at index.
func RemoveItem(req models.Requisition, index int) (models.Requisition, error) {
	if index < 0 || index >= len(req.Items) {
		return req, fmt.Errorf("%w: %d", ErrItemIndex, index)
	}
	out := req.Clone()
	out.Items = append(out.Items[:index], out.Items[index+1:]...)
	return out, nil
}

// MoveItem reorders the row at from so that it ends up at to.
func MoveItem(req models.Requisition, from, to int) (models.Requisition, error) {
	n := len(req.Items)
	if from < 0 || from >= n || to < 0 || to >= n {
		return req, fmt.Errorf("%w: %d -> %d", ErrItemIndex, from, to)
	}
	out := req.Clone()
	if from == to {
		return out, nil
	}
	moved := out.Items[from]
	out.Items = append(out.Items[:from], out.Items[from+1:]...)
	out.Items = append(out.Items[:to], append([]models.ChemicalItem{moved}, out.Items[to:]...)...)
	return out, nil
}

func setFormField(form *models.DyeingFormData, field, value string) error {
	switch field {
	case "reqDate":
		form.ReqDate = value
	case "project":
		form.Project = value
	case "fabricType":
		form.FabricType = value
	case "color":
		form.Color = value
	case "colorMore":
		form.ColorMore = value
	case "labDipNo":
		form.LabDipNo = value
	case "machineDesc":
		form.MachineDesc = value
	case "machineNo":
		form.MachineNo = value
	case "remarks":
		form.Remarks = value
	case "reelSpeed":
		form.ReelSpeed = value
	case "pumpSpeed":
		form.PumpSpeed = value
	case "cycleTime":
		form.CycleTime = value
	case "dyingType":
		form.DyingType = value
	case "colorGroup":
		form.ColorGroup = value
	case "lotNo":
		form.LotNo = value
	case "gsm":
		form.GSM = value
	case "productMode":
		mode := models.ProductMode(value)
		if mode != models.ProductModeInhouse && mode != models.ProductModeSubcontract {
			return fmt.Errorf("%w: product mode %q", ErrInvalidFieldValue, value)
		}
		form.ProductMode = mode
	case "workOrder":
		form.WorkOrder = value
	case "fabricQty":
		form.FabricQty = value
	case "buyer":
		form.Buyer = value
	case "batchNo":
		form.BatchNo = value
	case "batchQty":
		form.BatchQty = value
	case "orderNo":
		form.OrderNo = value
	case "composition":
		form.Composition = value
	default:
		// reqId and totalWater are owned by the service
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

func equalRequisition(a, b models.Requisition) bool {
	if !equalFloat(a.Form.FabricWeight, b.Form.FabricWeight) ||
		!equalFloat(a.Form.LiquorRatio, b.Form.LiquorRatio) || !equalFloat(a.Form.TotalWater, b.Form.TotalWater) {
		return false
	}
	fa, fb := a.Form, b.Form
	fa.FabricWeight, fa.LiquorRatio, fa.TotalWater = nil, nil, nil
	fb.FabricWeight, fb.LiquorRatio, fb.TotalWater = nil, nil, nil
	if fa != fb || len(a.Items) != len(b.Items) {
		return false
	}
	for i := range a.Items {
		if !equalItem(a.Items[i], b.Items[i]) {
			return false
		}
	}
	return true
}

func equalItem(a, b models.ChemicalItem) bool {
	return a.ItemType == b.ItemType &&
		a.ItemName == b.ItemName &&
		a.LotNo == b.LotNo &&
		equalFloat(a.Dosing, b.Dosing) &&
		equalFloat(a.Shade, b.Shade) &&
		a.Quantity.Equal(b.Quantity) &&
		equalFloat(a.UnitPrice, b.UnitPrice) &&
		a.Costing == b.Costing &&
		a.Remarks == b.Remarks &&
		a.Highlight == b.Highlight
}

func equalFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

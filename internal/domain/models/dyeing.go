package models

import "time"

// ItemType classifies one line of a chemical requisition.
type ItemType string

const (
	ItemTypeUnset       ItemType = ""
	ItemTypeChemical    ItemType = "Chemical"
	ItemTypeDyes        ItemType = "Dyes"
	ItemTypeProcessStep ItemType = "Dyeing step"
)

// Valid reports whether t is one of the known item types.
func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeUnset, ItemTypeChemical, ItemTypeDyes, ItemTypeProcessStep:
		return true
	}
	return false
}

// ProcessStepPlaceholder fills the text columns of a process step row.
const ProcessStepPlaceholder = "-------"

// ProductMode tells whether a batch is dyed inhouse or by a subcontractor.
type ProductMode string

const (
	ProductModeInhouse     ProductMode = "inhouse"
	ProductModeSubcontract ProductMode = "subcontract"
)

// Quantity is a kilogram amount split into kg, gm and mg parts for display.
// A nil part means the quantity is unknown.
type Quantity struct {
	KG *int64 `json:"kg" bson:"kg"`
	GM *int64 `json:"gm" bson:"gm"`
	MG *int64 `json:"mg" bson:"mg"`
}

// IsZero reports whether all parts are unknown.
func (q Quantity) IsZero() bool {
	return q.KG == nil && q.GM == nil && q.MG == nil
}

// Equal compares two quantities part by part.
func (q Quantity) Equal(other Quantity) bool {
	return equalInt(q.KG, other.KG) && equalInt(q.GM, other.GM) && equalInt(q.MG, other.MG)
}

// Kilograms folds the parts back into a single kilogram value, unknown parts counting as zero.
func (q Quantity) Kilograms() float64 {
	return float64(deref(q.KG)) + float64(deref(q.GM))/1000 + float64(deref(q.MG))/1_000_000
}

// ChemicalItem is one line of a requisition recipe.
// Dosing and Shade are mutually exclusive.
type ChemicalItem struct {
	ItemType  ItemType `json:"itemType" bson:"item_type"`
	ItemName  string   `json:"itemName" bson:"item_name"`
	LotNo     string   `json:"lotNo" bson:"lot_no"`
	Dosing    *float64 `json:"dosing" bson:"dosing"`
	Shade     *float64 `json:"shade" bson:"shade"`
	Quantity  Quantity `json:"qty" bson:"qty"`
	UnitPrice *float64 `json:"unitPrice" bson:"unit_price"`
	Costing   float64  `json:"costing" bson:"costing"`
	Remarks   string   `json:"remarks" bson:"remarks"`
	Highlight bool     `json:"highlight" bson:"highlight"`
}

// Clone returns a copy that shares no pointers with the receiver.
func (c ChemicalItem) Clone() ChemicalItem {
	out := c
	out.Dosing = cloneFloat(c.Dosing)
	out.Shade = cloneFloat(c.Shade)
	out.UnitPrice = cloneFloat(c.UnitPrice)
	out.Quantity = Quantity{KG: cloneInt(c.Quantity.KG), GM: cloneInt(c.Quantity.GM), MG: cloneInt(c.Quantity.MG)}
	return out
}

// DyeingFormData holds the header fields of one requisition.
type DyeingFormData struct {
	ReqID        string      `json:"reqId" bson:"req_id"`
	ReqDate      string      `json:"reqDate" bson:"req_date"`
	Project      string      `json:"project" bson:"project"`
	FabricType   string      `json:"fabricType" bson:"fabric_type"`
	Color        string      `json:"color" bson:"color"`
	ColorMore    string      `json:"colorMore" bson:"color_more"`
	LabDipNo     string      `json:"labDipNo" bson:"lab_dip_no"`
	MachineDesc  string      `json:"machineDesc" bson:"machine_desc"`
	MachineNo    string      `json:"machineNo" bson:"machine_no"`
	Remarks      string      `json:"remarks" bson:"remarks"`
	ReelSpeed    string      `json:"reelSpeed" bson:"reel_speed"`
	PumpSpeed    string      `json:"pumpSpeed" bson:"pump_speed"`
	CycleTime    string      `json:"cycleTime" bson:"cycle_time"`
	DyingType    string      `json:"dyingType" bson:"dying_type"`
	ColorGroup   string      `json:"colorGroup" bson:"color_group"`
	LotNo        string      `json:"lotNo" bson:"lot_no"`
	GSM          string      `json:"gsm" bson:"gsm"`
	ProductMode  ProductMode `json:"productMode" bson:"product_mode"`
	WorkOrder    string      `json:"workOrder" bson:"work_order"`
	FabricQty    string      `json:"fabricQty" bson:"fabric_qty"`
	Buyer        string      `json:"buyer" bson:"buyer"`
	BatchNo      string      `json:"batchNo" bson:"batch_no"`
	BatchQty     string      `json:"batchQty" bson:"batch_qty"`
	OrderNo      string      `json:"orderNo" bson:"order_no"`
	FabricWeight *float64    `json:"fabricWeight" bson:"fabric_weight"`
	LiquorRatio  *float64    `json:"liquorRatio" bson:"liquor_ratio"`
	TotalWater   *float64    `json:"totalWater" bson:"total_water"`
	Composition  string      `json:"composition" bson:"composition"`
}

// Clone returns a copy that shares no pointers with the receiver.
func (d DyeingFormData) Clone() DyeingFormData {
	out := d
	out.FabricWeight = cloneFloat(d.FabricWeight)
	out.LiquorRatio = cloneFloat(d.LiquorRatio)
	out.TotalWater = cloneFloat(d.TotalWater)
	return out
}

// DyeingTypes and ColorGroups list the values offered by the header form.
var (
	DyeingTypes = []string{"Regular", "Sample", "Bulk"}
	ColorGroups = []string{"Light", "Medium", "Dark"}
)

// Requisition is the live, editable state of one chemical requisition.
type Requisition struct {
	Form  DyeingFormData `json:"formData"`
	Items []ChemicalItem `json:"chemicalItems"`
}

// Clone deep-copies the requisition.
func (r Requisition) Clone() Requisition {
	out := Requisition{Form: r.Form.Clone()}
	if r.Items != nil {
		out.Items = make([]ChemicalItem, len(r.Items))
		for i, item := range r.Items {
			out.Items[i] = item.Clone()
		}
	}
	return out
}

// Recipe is an immutable saved snapshot of a requisition.
type Recipe struct {
	ID            string         `json:"id" bson:"id"`
	Timestamp     time.Time      `json:"timestamp" bson:"timestamp"`
	FormData      DyeingFormData `json:"formData" bson:"form_data"`
	ChemicalItems []ChemicalItem `json:"chemicalItems" bson:"chemical_items"`
}

func equalInt(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func deref(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneInt(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownCommand indicates the requested operation name is not supported.
var ErrUnknownCommand = errors.New("unknown command")

// ItemCommand is a single field change on one chemical item.
// The set of implementations is closed; see the Set* types below.
type ItemCommand interface {
	itemCommand()
}

// SetItemType changes the row kind.
type SetItemType struct{ Value ItemType }

// SetItemName changes the item name.
type SetItemName struct{ Value string }

// SetLotNo changes the lot number.
type SetLotNo struct{ Value string }

// SetDosing carries raw user input for the g/l dosing rate.
type SetDosing struct{ Raw string }

// SetShade carries raw user input for the shade percentage.
type SetShade struct{ Raw string }

// SetUnitPrice carries raw user input for the price per kg.
type SetUnitPrice struct{ Raw string }

// SetRemarks changes the remarks column.
type SetRemarks struct{ Value string }

// SetHighlight toggles the display highlight.
type SetHighlight struct{ Value bool }

func (SetItemType) itemCommand()  {}
func (SetItemName) itemCommand()  {}
func (SetLotNo) itemCommand()     {}
func (SetDosing) itemCommand()    {}
func (SetShade) itemCommand()     {}
func (SetUnitPrice) itemCommand() {}
func (SetRemarks) itemCommand()   {}
func (SetHighlight) itemCommand() {}

// Operation names used on the wire.
const (
	OpSetItemType  = "set_item_type"
	OpSetItemName  = "set_item_name"
	OpSetLotNo     = "set_lot_no"
	OpSetDosing    = "set_dosing"
	OpSetShade     = "set_shade"
	OpSetUnitPrice = "set_unit_price"
	OpSetRemarks   = "set_remarks"
	OpSetHighlight = "set_highlight"
)

// ParseItemCommand builds an ItemCommand from its wire name and raw value.
func ParseItemCommand(op, value string) (ItemCommand, error) {
	switch strings.ToLower(strings.TrimSpace(op)) {
	case OpSetItemType:
		t := ItemType(value)
		if !t.Valid() {
			return nil, fmt.Errorf("invalid item type %q", value)
		}
		return SetItemType{Value: t}, nil
	case OpSetItemName:
		return SetItemName{Value: value}, nil
	case OpSetLotNo:
		return SetLotNo{Value: value}, nil
	case OpSetDosing:
		return SetDosing{Raw: value}, nil
	case OpSetShade:
		return SetShade{Raw: value}, nil
	case OpSetUnitPrice:
		return SetUnitPrice{Raw: value}, nil
	case OpSetRemarks:
		return SetRemarks{Value: value}, nil
	case OpSetHighlight:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("invalid highlight value %q", value)
		}
		return SetHighlight{Value: b}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, op)
	}
}

// FormCommand is a single field change on the requisition header.
type FormCommand interface {
	formCommand()
}

// SetFabricWeight carries raw user input for the fabric weight in kg.
type SetFabricWeight struct{ Raw string }

// SetLiquorRatio carries raw user input for the liquor ratio.
type SetLiquorRatio struct{ Raw string }

// SetFormField assigns one of the free-text header fields.
type SetFormField struct {
	Field string
	Value string
}

func (SetFabricWeight) formCommand() {}
func (SetLiquorRatio) formCommand()  {}
func (SetFormField) formCommand()    {}

// ParseFormCommand maps a header field name to the matching FormCommand.
func ParseFormCommand(field, value string) FormCommand {
	switch field {
	case "fabricWeight":
		return SetFabricWeight{Raw: value}
	case "liquorRatio":
		return SetLiquorRatio{Raw: value}
	default:
		return SetFormField{Field: field, Value: value}
	}
}

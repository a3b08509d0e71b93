package sqlite

import (
	"fmt"

	"github.com/mesh-intelligence/formulacalc/pkg/types"
)

// Backup record format. One sheetJSON per JSONL line, items embedded in
// order.

// sheetJSON represents a sheet in a backup file.
type sheetJSON struct {
	SheetID string     `json:"sheet_id"`
	Name    string     `json:"name"`
	Items   []itemJSON `json:"items"`
}

// itemJSON represents one sheet item inside a sheetJSON record.
type itemJSON struct {
	ItemID            string  `json:"item_id"`
	Name              string  `json:"name"`
	Type              string  `json:"type"`
	NumberValue       float64 `json:"number_value"`
	StringValue       string  `json:"string_value"`
	Formula           string  `json:"formula"`
	ThousandSeparator bool    `json:"thousand_separator"`
	FractionDigits    *int    `json:"fraction_digits,omitempty"`
	Visible           *bool   `json:"visible,omitempty"`
}

func sheetToJSON(s types.Sheet) sheetJSON {
	rec := sheetJSON{SheetID: s.ID, Name: s.Name, Items: make([]itemJSON, len(s.Items))}
	for i, it := range s.Items {
		digits, visible := it.FractionDigits, it.Visible
		rec.Items[i] = itemJSON{
			ItemID:            it.ID,
			Name:              it.Name,
			Type:              string(it.Type),
			NumberValue:       it.NumberValue,
			StringValue:       it.StringValue,
			Formula:           it.Formula,
			ThousandSeparator: it.ThousandSeparator,
			FractionDigits:    &digits,
			Visible:           &visible,
		}
	}
	return rec
}

// validate reports why the record cannot be stored. Item ids already in
// seen are duplicates; the record's own item ids are added to seen when it
// is valid.
func (rec sheetJSON) validate(seen map[string]bool) error {
	if rec.SheetID == "" {
		return types.ErrInvalidID
	}
	ids := make(map[string]bool, len(rec.Items))
	for i, ri := range rec.Items {
		if ri.ItemID == "" {
			return fmt.Errorf("item %d: %w", i, types.ErrInvalidID)
		}
		if seen[ri.ItemID] || ids[ri.ItemID] {
			return fmt.Errorf("item %s: duplicate id: %w", ri.ItemID, types.ErrInvalidID)
		}
		if ri.Type != "" {
			if _, err := types.ParseItemType(ri.Type); err != nil {
				return fmt.Errorf("item %s: %w", ri.ItemID, err)
			}
		}
		ids[ri.ItemID] = true
	}
	for id := range ids {
		seen[id] = true
	}
	return nil
}

// toSheet converts a record back to a sheet. Missing display options take
// the defaults of types.NewSheetItem.
func (rec sheetJSON) toSheet() types.Sheet {
	s := types.Sheet{ID: rec.SheetID, Name: rec.Name, Items: make([]types.SheetItem, len(rec.Items))}
	for i, ri := range rec.Items {
		it := types.NewSheetItem(ri.ItemID, ri.Name)
		if ri.Type != "" {
			it.Type = types.ItemType(ri.Type)
		}
		it.NumberValue = ri.NumberValue
		it.StringValue = ri.StringValue
		it.Formula = ri.Formula
		it.ThousandSeparator = ri.ThousandSeparator
		if ri.FractionDigits != nil {
			it.FractionDigits = types.ClampFractionDigits(*ri.FractionDigits)
		}
		if ri.Visible != nil {
			it.Visible = *ri.Visible
		}
		s.Items[i] = it
	}
	return s
}

package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/formulacalc/pkg/types"
)

// writeTx implements types.WriteTx over one SQL transaction.
type writeTx struct {
	tx      *sql.Tx
	changed bool
}

// Sheet returns the sheet as seen by this transaction.
func (w *writeTx) Sheet(id string) (*types.Sheet, error) {
	return loadSheet(w.tx, id)
}

// AddSheet inserts the sheet and its items.
// Returns ErrInvalidID if the sheet or one of its items has no id.
func (w *writeTx) AddSheet(sheet types.Sheet) error {
	if sheet.ID == "" {
		return types.ErrInvalidID
	}
	if _, err := w.tx.Exec(`INSERT INTO sheets (sheet_id, name) VALUES (?, ?)`,
		sheet.ID, sheet.Name); err != nil {
		return fmt.Errorf("inserting sheet %s: %w", sheet.ID, err)
	}
	w.changed = true
	for _, it := range sheet.Items {
		if err := w.AppendItem(sheet.ID, it); err != nil {
			return err
		}
	}
	return nil
}

// DeleteSheet removes the sheet and all of its items.
// Returns ErrSheetNotFound if no sheet exists with that id.
func (w *writeTx) DeleteSheet(id string) error {
	if _, err := w.tx.Exec(`DELETE FROM sheet_items WHERE sheet_id = ?`, id); err != nil {
		return fmt.Errorf("deleting items of %s: %w", id, err)
	}
	res, err := w.tx.Exec(`DELETE FROM sheets WHERE sheet_id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting sheet %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.ErrSheetNotFound
	}
	w.changed = true
	return nil
}

// RenameSheet sets the sheet's name.
// Returns ErrSheetNotFound if no sheet exists with that id.
func (w *writeTx) RenameSheet(id, name string) error {
	res, err := w.tx.Exec(`UPDATE sheets SET name = ? WHERE sheet_id = ?`, name, id)
	if err != nil {
		return fmt.Errorf("renaming sheet %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.ErrSheetNotFound
	}
	w.changed = true
	return nil
}

// AppendItem adds item at the end of the sheet's item list.
// An empty item type is stored as numeric.
func (w *writeTx) AppendItem(sheetID string, item types.SheetItem) error {
	if item.ID == "" {
		return types.ErrInvalidID
	}
	if item.Type == "" {
		item.Type = types.ItemTypeNumeric
	}
	if _, err := types.ParseItemType(string(item.Type)); err != nil {
		return err
	}
	ok, err := sheetExists(w.tx, sheetID)
	if err != nil {
		return err
	}
	if !ok {
		return types.ErrSheetNotFound
	}

	var position int
	if err := w.tx.QueryRow(`SELECT COALESCE(MAX(position), -1) + 1 FROM sheet_items
    WHERE sheet_id = ?`, sheetID).Scan(&position); err != nil {
		return fmt.Errorf("computing item position: %w", err)
	}

	_, err = w.tx.Exec(`INSERT INTO sheet_items (item_id, sheet_id, position, name, item_type,
    number_value, string_value, formula, thousand_separator, fraction_digits, visible)
    VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, sheetID, position, item.Name, string(item.Type),
		item.NumberValue, item.StringValue, item.Formula,
		boolInt(item.ThousandSeparator), types.ClampFractionDigits(item.FractionDigits),
		boolInt(item.Visible))
	if err != nil {
		return fmt.Errorf("inserting item %s: %w", item.ID, err)
	}
	w.changed = true
	return nil
}

// RemoveItem deletes the item at index in the sheet's item list.
// Returns ErrSheetNotFound or ErrIndexOutOfRange.
func (w *writeTx) RemoveItem(sheetID string, index int) error {
	ok, err := sheetExists(w.tx, sheetID)
	if err != nil {
		return err
	}
	if !ok {
		return types.ErrSheetNotFound
	}
	if index < 0 {
		return types.ErrIndexOutOfRange
	}

	var itemID string
	err = w.tx.QueryRow(`SELECT item_id FROM sheet_items WHERE sheet_id = ?
    ORDER BY position LIMIT 1 OFFSET ?`, sheetID, index).Scan(&itemID)
	if err == sql.ErrNoRows {
		return types.ErrIndexOutOfRange
	}
	if err != nil {
		return fmt.Errorf("locating item %d of %s: %w", index, sheetID, err)
	}
	if _, err := w.tx.Exec(`DELETE FROM sheet_items WHERE item_id = ?`, itemID); err != nil {
		return fmt.Errorf("deleting item %s: %w", itemID, err)
	}
	w.changed = true
	return nil
}

// UpdateItem loads the item, applies update to a copy, and stores the
// result. The id cannot be changed; fraction digits are clamped.
// Returns ErrItemNotFound if no item exists with that id.
func (w *writeTx) UpdateItem(id string, update func(item *types.SheetItem)) error {
	it, err := loadItem(w.tx, id)
	if err != nil {
		return err
	}
	update(it)
	it.ID = id
	if _, err := types.ParseItemType(string(it.Type)); err != nil {
		return err
	}

	_, err = w.tx.Exec(`UPDATE sheet_items SET name = ?, item_type = ?, number_value = ?,
    string_value = ?, formula = ?, thousand_separator = ?, fraction_digits = ?, visible = ?
    WHERE item_id = ?`,
		it.Name, string(it.Type), it.NumberValue, it.StringValue, it.Formula,
		boolInt(it.ThousandSeparator), types.ClampFractionDigits(it.FractionDigits),
		boolInt(it.Visible), id)
	if err != nil {
		return fmt.Errorf("updating item %s: %w", id, err)
	}
	w.changed = true
	return nil
}

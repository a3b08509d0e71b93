package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/formulacalc/pkg/types"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const itemColumns = `item_id, name, item_type, number_value, string_value, formula,
    thousand_separator, fraction_digits, visible`

func scanItem(s scanner) (types.SheetItem, error) {
	var (
		it                 types.SheetItem
		itemType           string
		separator, visible int64
		digits             int64
	)
	err := s.Scan(&it.ID, &it.Name, &itemType, &it.NumberValue, &it.StringValue,
		&it.Formula, &separator, &digits, &visible)
	if err != nil {
		return types.SheetItem{}, err
	}
	it.Type = types.ItemType(itemType)
	it.ThousandSeparator = separator != 0
	it.FractionDigits = int(digits)
	it.Visible = visible != 0
	return it, nil
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func sheetExists(q querier, id string) (bool, error) {
	var n int
	err := q.QueryRow(`SELECT COUNT(*) FROM sheets WHERE sheet_id = ?`, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking sheet %s: %w", id, err)
	}
	return n > 0, nil
}

// loadItem returns the item with the given id.
// Returns ErrItemNotFound if the row does not exist.
func loadItem(q querier, id string) (*types.SheetItem, error) {
	row := q.QueryRow(`SELECT `+itemColumns+` FROM sheet_items WHERE item_id = ?`, id)
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading item %s: %w", id, err)
	}
	return &it, nil
}

// loadItems returns the items of a sheet in position order. A sheet with no
// items (or no sheet at all) yields an empty, non-nil slice.
func loadItems(q querier, sheetID string) ([]types.SheetItem, error) {
	rows, err := q.Query(`SELECT `+itemColumns+` FROM sheet_items
    WHERE sheet_id = ? ORDER BY position`, sheetID)
	if err != nil {
		return nil, fmt.Errorf("loading items of %s: %w", sheetID, err)
	}
	defer rows.Close()

	items := []types.SheetItem{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// loadSheet returns the sheet with its items.
// Returns ErrSheetNotFound if the row does not exist.
func loadSheet(q querier, id string) (*types.Sheet, error) {
	s := types.Sheet{ID: id}
	err := q.QueryRow(`SELECT name FROM sheets WHERE sheet_id = ?`, id).Scan(&s.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrSheetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading sheet %s: %w", id, err)
	}
	if s.Items, err = loadItems(q, id); err != nil {
		return nil, err
	}
	return &s, nil
}

// loadSheets returns every sheet sorted by name, creation order on ties.
func loadSheets(q querier) ([]types.Sheet, error) {
	rows, err := q.Query(`SELECT sheet_id, name FROM sheets ORDER BY name, seq`)
	if err != nil {
		return nil, fmt.Errorf("loading sheets: %w", err)
	}
	sheets := []types.Sheet{}
	index := make(map[string]int)
	for rows.Next() {
		s := types.Sheet{Items: []types.SheetItem{}}
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning sheet: %w", err)
		}
		index[s.ID] = len(sheets)
		sheets = append(sheets, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	itemRows, err := q.Query(`SELECT sheet_id, ` + itemColumns + ` FROM sheet_items
    ORDER BY sheet_id, position`)
	if err != nil {
		return nil, fmt.Errorf("loading sheet items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var sheetID string
		it, err := scanItem(prefixScanner{itemRows, &sheetID})
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		if i, ok := index[sheetID]; ok {
			sheets[i].Items = append(sheets[i].Items, it)
		}
	}
	return sheets, itemRows.Err()
}

// prefixScanner scans one leading column into prefix before the item columns.
type prefixScanner struct {
	rows   *sql.Rows
	prefix *string
}

func (p prefixScanner) Scan(dest ...any) error {
	return p.rows.Scan(append([]any{p.prefix}, dest...)...)
}

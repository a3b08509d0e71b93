package sqlite

import (
	"github.com/mesh-intelligence/formulacalc/pkg/types"
)

// sampleItem describes an item of the sample sheet.
type sampleItem struct {
	name      string
	itemType  types.ItemType
	number    float64
	text      string
	formula   string
	separator bool
	digits    int
}

// sampleSheetName is the name of the sheet created by SeedSample.
const sampleSheetName = "Household budget"

var sampleItems = []sampleItem{
	{name: "Rent", itemType: types.ItemTypeNumeric, number: 120000, separator: true, digits: 0},
	{name: "Utilities", itemType: types.ItemTypeNumeric, number: 18500.5, separator: true, digits: 2},
	{name: "Tax rate", itemType: types.ItemTypeNumeric, number: 0.1, digits: types.FractionDigitsAuto},
	{name: "Memo", itemType: types.ItemTypeString, text: "Paid on the 25th", digits: types.FractionDigitsAuto},
	{name: "Total", itemType: types.ItemTypeFormula, formula: "(Rent + Utilities) * (1 + Tax rate)", separator: true, digits: 0},
}

// SeedSample creates the sample sheet when the database holds no sheets.
// It reports whether a sheet was created.
func (b *Backend) SeedSample() (bool, error) {
	seeded := false
	changed, err := b.write(func(tx *writeTx) error {
		var n int
		if err := tx.tx.QueryRow(`SELECT COUNT(*) FROM sheets`).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			return nil
		}

		sheet := types.Sheet{ID: types.NewID(), Name: sampleSheetName}
		for _, si := range sampleItems {
			it := types.NewSheetItem(types.NewID(), si.name)
			it.Type = si.itemType
			it.NumberValue = si.number
			it.StringValue = si.text
			it.Formula = si.formula
			it.ThousandSeparator = si.separator
			it.FractionDigits = si.digits
			sheet.Items = append(sheet.Items, it)
		}
		seeded = true
		return tx.AddSheet(sheet)
	})
	if err != nil {
		return false, err
	}
	if changed {
		b.notify()
	}
	return seeded, nil
}

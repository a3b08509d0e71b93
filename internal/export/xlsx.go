// Package export writes sheets to formats other applications read.
package export

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/mesh-intelligence/formulacalc/pkg/types"
)

// maxSheetNameLen is the longest worksheet name Excel accepts, in runes.
const maxSheetNameLen = 31

var header = []any{"Name", "Type", "Value", "Formula"}

// WriteWorkbook writes one worksheet per sheet to w. Each worksheet has a
// header row followed by one row per item in sheet order. Numeric values are
// stored as numbers using the item's display format; formula items leave the
// value empty.
func WriteWorkbook(w io.Writer, sheets []types.Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	styles := make(map[string]int)
	used := make(map[string]bool)
	for i, s := range sheets {
		name := uniqueSheetName(s.Name, used)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return fmt.Errorf("naming worksheet %q: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("adding worksheet %q: %w", name, err)
		}
		if err := writeSheet(f, name, s, styles); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, name string, s types.Sheet, styles map[string]int) error {
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("writing header of %q: %w", name, err)
	}
	for i, it := range s.Items {
		row := i + 2
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		values := []any{it.Name, string(it.Type), cellValue(it), it.Formula}
		if err := f.SetSheetRow(name, cell, &values); err != nil {
			return fmt.Errorf("writing item %s: %w", it.ID, err)
		}
		if it.Type != types.ItemTypeNumeric {
			continue
		}
		numFmt := numberFormat(it)
		if numFmt == "" {
			continue
		}
		style, ok := styles[numFmt]
		if !ok {
			style, err = f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
			if err != nil {
				return fmt.Errorf("creating style %q: %w", numFmt, err)
			}
			styles[numFmt] = style
		}
		valueCell, _ := excelize.CoordinatesToCellName(3, row)
		if err := f.SetCellStyle(name, valueCell, valueCell, style); err != nil {
			return fmt.Errorf("styling item %s: %w", it.ID, err)
		}
	}
	return nil
}

func cellValue(it types.SheetItem) any {
	switch it.Type {
	case types.ItemTypeNumeric:
		return it.NumberValue
	case types.ItemTypeString:
		return it.StringValue
	default:
		return nil
	}
}

// numberFormat returns the Excel number format matching the item's display
// options, or "" for the General format.
func numberFormat(it types.SheetItem) string {
	if it.FractionDigits < 0 {
		if it.ThousandSeparator {
			return "#,##0.##########"
		}
		return ""
	}
	var b strings.Builder
	if it.ThousandSeparator {
		b.WriteString("#,##0")
	} else {
		b.WriteString("0")
	}
	if d := types.ClampFractionDigits(it.FractionDigits); d > 0 {
		b.WriteString(".")
		b.WriteString(strings.Repeat("0", d))
	}
	return b.String()
}

// uniqueSheetName turns name into a valid worksheet name not yet in used
// (compared case-insensitively) and records it.
func uniqueSheetName(name string, used map[string]bool) string {
	base := sanitizeSheetName(name)
	candidate := base
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		candidate = truncate(base, maxSheetNameLen-utf8.RuneCountInString(suffix)) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func sanitizeSheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, name)
	name = strings.TrimSpace(strings.Trim(name, "'"))
	name = strings.TrimSpace(truncate(name, maxSheetNameLen))
	if name == "" {
		return "Sheet"
	}
	return name
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

package sqlite

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/formulacalc/pkg/types"
)

// Dump writes every sheet to w as JSONL, one record per sheet in list order.
func (b *Backend) Dump(w io.Writer) error {
	var sheets []types.Sheet
	if err := b.read(func(q querier) (err error) {
		sheets, err = loadSheets(q)
		return err
	}); err != nil {
		return err
	}

	records := make([]json.RawMessage, 0, len(sheets))
	for _, s := range sheets {
		data, err := json.Marshal(sheetToJSON(s))
		if err != nil {
			return fmt.Errorf("encoding sheet %s: %w", s.ID, err)
		}
		records = append(records, data)
	}
	return writeJSONL(w, records)
}

// DumpFile writes the backup to path atomically.
func (b *Backend) DumpFile(path string) error {
	return writeFileAtomic(path, b.Dump)
}

// Load reads sheets from r and stores them in one transaction. A sheet whose
// id already exists is replaced. Malformed lines are skipped, as are
// records with no sheet id or with an item that has no id, a duplicate id
// or an unknown type. It returns the number of sheets stored.
func (b *Backend) Load(r io.Reader) (int, error) {
	records, err := readJSONL(r)
	if err != nil {
		return 0, err
	}

	var sheets []types.Sheet
	itemIDs := make(map[string]bool)
	for _, raw := range records {
		var rec sheetJSON
		if err := json.Unmarshal(raw, &rec); err != nil {
			b.logger.Debug("skipping backup record", zap.Error(err))
			continue
		}
		if err := rec.validate(itemIDs); err != nil {
			b.logger.Debug("skipping backup record",
				zap.String("sheet_id", rec.SheetID), zap.Error(err))
			continue
		}
		sheets = append(sheets, rec.toSheet())
	}
	if len(sheets) == 0 {
		return 0, nil
	}

	changed, err := b.write(func(tx *writeTx) error {
		for _, s := range sheets {
			if err := tx.DeleteSheet(s.ID); err != nil && !errors.Is(err, types.ErrSheetNotFound) {
				return err
			}
			if err := tx.AddSheet(s); err != nil {
				return fmt.Errorf("loading sheet %s: %w", s.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if changed {
		b.notify()
	}
	return len(sheets), nil
}

// LoadFile loads a backup written by DumpFile.
func (b *Backend) LoadFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return b.Load(f)
}

package sqlite

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/formulacalc/pkg/types"
)

func TestDumpLoadRoundTrip(t *testing.T) {
	src := newTestBackend(t)
	r := openRealm(t, src)
	addSheet(t, r, "s1", "Budget", "Rent", "Food")
	addSheet(t, r, "s2", "Empty")
	require.NoError(t, r.Write(func(tx types.WriteTx) error {
		return tx.UpdateItem("s1/Food", func(it *types.SheetItem) {
			it.NumberValue = 1234.5
			it.ThousandSeparator = true
			it.FractionDigits = 2
			it.Visible = false
		})
	}))

	var buf bytes.Buffer
	require.NoError(t, src.Dump(&buf))
	assert.Equal(t, 2, strings.Count(buf.String(), "\n"))

	dst := newTestBackend(t)
	n, err := dst.Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	want, err := r.Sheets()
	require.NoError(t, err)
	got, err := openRealm(t, dst).Sheets()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadSkipsMalformedLinesAndReplacesSheets(t *testing.T) {
	b := newTestBackend(t)
	r := openRealm(t, b)
	addSheet(t, r, "s1", "Old", "X")

	input := strings.Join([]string{
		`{"sheet_id":"s1","name":"New","items":[{"item_id":"i1","name":"Price","number_value":3}]}`,
		`not json`,
		``,
		`{"name":"no id"}`,
		`{"sheet_id":"s2","name":"Second","unknown_field":true}`,
	}, "\n")

	var changes []types.SheetListChange
	_, tok, err := r.ObserveSheets(func(c types.SheetListChange) { changes = append(changes, c) })
	require.NoError(t, err)
	defer tok.Stop()

	n, err := b.Load(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, changes, 1, "one load is one transaction")

	s, err := r.Sheet("s1")
	require.NoError(t, err)
	assert.Equal(t, "New", s.Name)
	require.Len(t, s.Items, 1)
	item := s.Items[0]
	assert.Equal(t, types.ItemTypeNumeric, item.Type)
	assert.Equal(t, types.FractionDigitsAuto, item.FractionDigits)
	assert.True(t, item.Visible)
	assert.Equal(t, 3.0, item.NumberValue)

	_, err = r.Sheet("s2")
	assert.NoError(t, err)
}

func TestLoadSkipsInvalidItems(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"item without id", `{"sheet_id":"bad","name":"Bad","items":[{"name":"Price"}]}`},
		{"unknown item type", `{"sheet_id":"bad","name":"Bad","items":[{"item_id":"b1","type":"bogus"}]}`},
		{"duplicate item id", `{"sheet_id":"bad","name":"Bad","items":[{"item_id":"i1"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBackend(t)
			input := `{"sheet_id":"ok","name":"Ok","items":[{"item_id":"i1","name":"Price"}]}` + "\n" + tt.line

			n, err := b.Load(strings.NewReader(input))
			require.NoError(t, err)
			assert.Equal(t, 1, n)

			r := openRealm(t, b)
			s, err := r.Sheet("ok")
			require.NoError(t, err)
			assert.Len(t, s.Items, 1)
			_, err = r.Sheet("bad")
			assert.ErrorIs(t, err, types.ErrSheetNotFound)
		})
	}
}

func TestDumpFileLoadFile(t *testing.T) {
	b := newTestBackend(t)
	addSheet(t, openRealm(t, b), "s1", "Budget", "Rent")

	path := filepath.Join(t.TempDir(), "backup.jsonl")
	require.NoError(t, b.DumpFile(path))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must be renamed away")

	dst := newTestBackend(t)
	n, err := dst.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = dst.LoadFile(filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.Error(t, err)
}

func TestSeedSample(t *testing.T) {
	b := newTestBackend(t)
	r := openRealm(t, b)

	seeded, err := b.SeedSample()
	require.NoError(t, err)
	assert.True(t, seeded)

	sheets, err := r.Sheets()
	require.NoError(t, err)
	require.Len(t, sheets, 1)
	assert.Equal(t, sampleSheetName, sheets[0].Name)
	assert.Len(t, sheets[0].Items, len(sampleItems))

	seeded, err = b.SeedSample()
	require.NoError(t, err)
	assert.False(t, seeded, "seeding a non-empty database is a no-op")
}

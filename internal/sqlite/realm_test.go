package sqlite

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/formulacalc/pkg/types"
)

func TestRealm_SheetsSortedByNameThenCreation(t *testing.T) {
	r := openRealm(t, newTestBackend(t))
	addSheet(t, r, "s1", "Zeta")
	addSheet(t, r, "s2", "Alpha")
	addSheet(t, r, "s3", "Zeta")
	addSheet(t, r, "s4", "Beta")

	sheets, err := r.Sheets()
	require.NoError(t, err)
	var ids []string
	for _, s := range sheets {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"s2", "s4", "s1", "s3"}, ids)
}

func TestRealm_WriteOperations(t *testing.T) {
	tests := []struct {
		name    string
		write   func(tx types.WriteTx) error
		wantErr error
		check   func(t *testing.T, r types.Realm)
	}{
		{
			name:  "rename sheet",
			write: func(tx types.WriteTx) error { return tx.RenameSheet("s1", "Renamed") },
			check: func(t *testing.T, r types.Realm) {
				s, err := r.Sheet("s1")
				require.NoError(t, err)
				assert.Equal(t, "Renamed", s.Name)
			},
		},
		{
			name:    "rename missing sheet",
			write:   func(tx types.WriteTx) error { return tx.RenameSheet("nope", "x") },
			wantErr: types.ErrSheetNotFound,
		},
		{
			name:  "delete sheet removes items",
			write: func(tx types.WriteTx) error { return tx.DeleteSheet("s1") },
			check: func(t *testing.T, r types.Realm) {
				_, err := r.Sheet("s1")
				assert.ErrorIs(t, err, types.ErrSheetNotFound)
				_, err = r.Item("s1/A")
				assert.ErrorIs(t, err, types.ErrItemNotFound)
			},
		},
		{
			name:    "delete missing sheet",
			write:   func(tx types.WriteTx) error { return tx.DeleteSheet("nope") },
			wantErr: types.ErrSheetNotFound,
		},
		{
			name: "append item goes last",
			write: func(tx types.WriteTx) error {
				return tx.AppendItem("s1", types.NewSheetItem("new", "C"))
			},
			check: func(t *testing.T, r types.Realm) {
				s, err := r.Sheet("s1")
				require.NoError(t, err)
				require.Len(t, s.Items, 3)
				assert.Equal(t, "new", s.Items[2].ID)
			},
		},
		{
			name: "append item to missing sheet",
			write: func(tx types.WriteTx) error {
				return tx.AppendItem("nope", types.NewSheetItem("new", "C"))
			},
			wantErr: types.ErrSheetNotFound,
		},
		{
			name:  "remove item by index",
			write: func(tx types.WriteTx) error { return tx.RemoveItem("s1", 0) },
			check: func(t *testing.T, r types.Realm) {
				s, err := r.Sheet("s1")
				require.NoError(t, err)
				require.Len(t, s.Items, 1)
				assert.Equal(t, "B", s.Items[0].Name)
			},
		},
		{
			name:    "remove item out of range",
			write:   func(tx types.WriteTx) error { return tx.RemoveItem("s1", 2) },
			wantErr: types.ErrIndexOutOfRange,
		},
		{
			name: "update item clamps fraction digits and keeps id",
			write: func(tx types.WriteTx) error {
				return tx.UpdateItem("s1/B", func(it *types.SheetItem) {
					it.ID = "hijacked"
					it.FractionDigits = 9
					it.ThousandSeparator = true
					it.Visible = false
				})
			},
			check: func(t *testing.T, r types.Realm) {
				it, err := r.Item("s1/B")
				require.NoError(t, err)
				assert.Equal(t, types.FractionDigitsMax, it.FractionDigits)
				assert.True(t, it.ThousandSeparator)
				assert.False(t, it.Visible)
			},
		},
		{
			name: "update missing item",
			write: func(tx types.WriteTx) error {
				return tx.UpdateItem("nope", func(*types.SheetItem) {})
			},
			wantErr: types.ErrItemNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := openRealm(t, newTestBackend(t))
			addSheet(t, r, "s1", "Sheet", "A", "B")

			err := r.Write(tt.write)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, r)
		})
	}
}

func TestRealm_FailedWriteRollsBack(t *testing.T) {
	r := openRealm(t, newTestBackend(t))
	addSheet(t, r, "s1", "Sheet")

	boom := errors.New("boom")
	err := r.Write(func(tx types.WriteTx) error {
		require.NoError(t, tx.RenameSheet("s1", "Changed"))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	s, err := r.Sheet("s1")
	require.NoError(t, err)
	assert.Equal(t, "Sheet", s.Name)
}

func TestRealm_ObserveSheetDeliversBeforeWriteReturns(t *testing.T) {
	r := openRealm(t, newTestBackend(t))
	addSheet(t, r, "s1", "Sheet", "A")

	var got []*types.Sheet
	initial, tok, err := r.ObserveSheet("s1", func(s *types.Sheet) { got = append(got, s) })
	require.NoError(t, err)
	defer tok.Stop()
	require.NotNil(t, initial)
	assert.Equal(t, "Sheet", initial.Name)

	require.NoError(t, r.Write(func(tx types.WriteTx) error { return tx.RenameSheet("s1", "Renamed") }))
	require.Len(t, got, 1)
	assert.Equal(t, "Renamed", got[0].Name)

	// Item edits change the sheet snapshot too.
	require.NoError(t, r.Write(func(tx types.WriteTx) error {
		return tx.UpdateItem("s1/A", func(it *types.SheetItem) { it.NumberValue = 3 })
	}))
	require.Len(t, got, 2)
	assert.Equal(t, 3.0, got[1].Items[0].NumberValue)

	// Unrelated writes do not notify.
	addSheet(t, r, "s2", "Other")
	assert.Len(t, got, 2)

	require.NoError(t, r.Write(func(tx types.WriteTx) error { return tx.DeleteSheet("s1") }))
	require.Len(t, got, 3)
	assert.Nil(t, got[2])
}

func TestRealm_ObserveMissingSheet(t *testing.T) {
	r := openRealm(t, newTestBackend(t))
	initial, tok, err := r.ObserveSheet("ghost", func(*types.Sheet) {
		t.Error("callback must not run for a sheet that never exists")
	})
	require.NoError(t, err)
	defer tok.Stop()
	assert.Nil(t, initial)
	addSheet(t, r, "s1", "Sheet")
}

func TestRealm_ObserveSheetsReportsDiffs(t *testing.T) {
	r := openRealm(t, newTestBackend(t))
	addSheet(t, r, "b", "B")
	addSheet(t, r, "d", "D")

	var changes []types.SheetListChange
	initial, tok, err := r.ObserveSheets(func(c types.SheetListChange) { changes = append(changes, c) })
	require.NoError(t, err)
	defer tok.Stop()
	require.Len(t, initial, 2)

	addSheet(t, r, "c", "C")
	require.Len(t, changes, 1)
	assert.Equal(t, []int{1}, changes[0].Insertions)
	assert.Empty(t, changes[0].Deletions)

	require.NoError(t, r.Write(func(tx types.WriteTx) error { return tx.RenameSheet("d", "D2") }))
	require.Len(t, changes, 2)
	assert.Equal(t, []int{2}, changes[1].Modifications)

	// Renaming to the front moves the row.
	require.NoError(t, r.Write(func(tx types.WriteTx) error { return tx.RenameSheet("d", "A") }))
	require.Len(t, changes, 3)
	assert.Equal(t, []int{2}, changes[2].Deletions)
	assert.Equal(t, []int{0}, changes[2].Insertions)
	assert.Equal(t, "d", changes[2].List[0].ID)

	require.NoError(t, r.Write(func(tx types.WriteTx) error { return tx.DeleteSheet("b") }))
	require.Len(t, changes, 4)
	assert.Equal(t, []int{1}, changes[3].Deletions)
}

func TestRealm_ObserveSheetItems(t *testing.T) {
	r := openRealm(t, newTestBackend(t))
	addSheet(t, r, "s1", "Sheet", "A", "B")

	var changes []types.ItemListChange
	initial, tok, err := r.ObserveSheetItems("s1", func(c types.ItemListChange) { changes = append(changes, c) })
	require.NoError(t, err)
	defer tok.Stop()
	require.Len(t, initial, 2)

	require.NoError(t, r.Write(func(tx types.WriteTx) error { return tx.RemoveItem("s1", 0) }))
	require.Len(t, changes, 1)
	assert.Equal(t, []int{0}, changes[0].Deletions)
	require.Len(t, changes[0].List, 1)

	require.NoError(t, r.Write(func(tx types.WriteTx) error {
		return tx.UpdateItem("s1/B", func(it *types.SheetItem) { it.Name = "Bee" })
	}))
	require.Len(t, changes, 2)
	assert.Equal(t, []int{0}, changes[1].Modifications)
}

func TestRealm_ObserveItem(t *testing.T) {
	r := openRealm(t, newTestBackend(t))
	addSheet(t, r, "s1", "Sheet", "A", "B")

	var got []*types.SheetItem
	initial, tok, err := r.ObserveItem("s1/A", func(it *types.SheetItem) { got = append(got, it) })
	require.NoError(t, err)
	defer tok.Stop()
	assert.Equal(t, "A", initial.Name)

	// Another item changing leaves this one untouched.
	require.NoError(t, r.Write(func(tx types.WriteTx) error {
		return tx.UpdateItem("s1/B", func(it *types.SheetItem) { it.Name = "Bee" })
	}))
	assert.Empty(t, got)

	require.NoError(t, r.Write(func(tx types.WriteTx) error {
		return tx.UpdateItem("s1/A", func(it *types.SheetItem) { it.Type = types.ItemTypeString })
	}))
	require.Len(t, got, 1)
	assert.Equal(t, types.ItemTypeString, got[0].Type)

	require.NoError(t, r.Write(func(tx types.WriteTx) error { return tx.RemoveItem("s1", 0) }))
	require.Len(t, got, 2)
	assert.Nil(t, got[1])
}

func TestToken_StopIsPermanent(t *testing.T) {
	r := openRealm(t, newTestBackend(t))
	addSheet(t, r, "s1", "Sheet")

	calls := 0
	_, tok, err := r.ObserveSheet("s1", func(*types.Sheet) { calls++ })
	require.NoError(t, err)

	tok.Stop()
	tok.Stop()
	require.NoError(t, r.Write(func(tx types.WriteTx) error { return tx.RenameSheet("s1", "x") }))
	assert.Zero(t, calls)
}

func TestToken_StopFromInsideCallback(t *testing.T) {
	r := openRealm(t, newTestBackend(t))
	addSheet(t, r, "s1", "Sheet")

	calls := 0
	var tok types.NotificationToken
	_, tok, err := r.ObserveSheet("s1", func(*types.Sheet) {
		calls++
		tok.Stop()
	})
	require.NoError(t, err)

	require.NoError(t, r.Write(func(tx types.WriteTx) error { return tx.RenameSheet("s1", "x") }))
	require.NoError(t, r.Write(func(tx types.WriteTx) error { return tx.RenameSheet("s1", "y") }))
	assert.Equal(t, 1, calls)
}

func TestRealm_WriteFromInsideCallback(t *testing.T) {
	r := openRealm(t, newTestBackend(t))
	addSheet(t, r, "s1", "Sheet", "A")

	// Every rename to "x" is immediately followed by a rename to "y" from
	// inside the callback; observers must end up seeing the final state.
	var seen []string
	_, tok, err := r.ObserveSheet("s1", func(s *types.Sheet) {
		seen = append(seen, s.Name)
		if s.Name == "x" {
			require.NoError(t, r.Write(func(tx types.WriteTx) error { return tx.RenameSheet("s1", "y") }))
		}
	})
	require.NoError(t, err)
	defer tok.Stop()

	var listNames []string
	_, tok2, err := r.ObserveSheets(func(c types.SheetListChange) { listNames = append(listNames, c.List[0].Name) })
	require.NoError(t, err)
	defer tok2.Stop()

	require.NoError(t, r.Write(func(tx types.WriteTx) error { return tx.RenameSheet("s1", "x") }))
	assert.Equal(t, []string{"x", "y"}, seen)
	require.NotEmpty(t, listNames)
	assert.Equal(t, "y", listNames[len(listNames)-1])
}

func TestRealm_ClosedHandleRejectsCalls(t *testing.T) {
	b := newTestBackend(t)
	r, err := b.Open()
	require.NoError(t, err)
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())

	_, err = r.Sheet("x")
	assert.ErrorIs(t, err, types.ErrRealmClosed)
	assert.ErrorIs(t, r.Write(func(types.WriteTx) error { return nil }), types.ErrRealmClosed)
	_, _, err = r.ObserveSheets(func(types.SheetListChange) {})
	assert.ErrorIs(t, err, types.ErrRealmClosed)
}

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/formulacalc/pkg/types"
)

func TestItemStoreReplaysCurrentValue(t *testing.T) {
	f := newFixture(t)
	f.addSheet(t, "s1", "Sheet", "Price")

	s := NewItemStore(f.db, f.errs, "s1/Price", f.opts...)
	defer s.Close()

	got := collect(t, s.Updates())
	require.Len(t, *got, 1, "first event is synchronous on subscribe")
	require.NotNil(t, (*got)[0])
	assert.Equal(t, "Price", (*got)[0].Name)
	assert.Equal(t, "s1/Price", s.ID())
}

func TestItemStoreFieldCommands(t *testing.T) {
	tests := []struct {
		name  string
		send  func(s *ItemStore)
		check func(t *testing.T, it *types.SheetItem)
	}{
		{
			name:  "name",
			send:  func(s *ItemStore) { s.OnUpdateName().Send("Cost") },
			check: func(t *testing.T, it *types.SheetItem) { assert.Equal(t, "Cost", it.Name) },
		},
		{
			name:  "type",
			send:  func(s *ItemStore) { s.OnUpdateType().Send(types.ItemTypeFormula) },
			check: func(t *testing.T, it *types.SheetItem) { assert.Equal(t, types.ItemTypeFormula, it.Type) },
		},
		{
			name:  "number value",
			send:  func(s *ItemStore) { s.OnUpdateNumberValue().Send(12.5) },
			check: func(t *testing.T, it *types.SheetItem) { assert.Equal(t, 12.5, it.NumberValue) },
		},
		{
			name:  "string value",
			send:  func(s *ItemStore) { s.OnUpdateStringValue().Send("note") },
			check: func(t *testing.T, it *types.SheetItem) { assert.Equal(t, "note", it.StringValue) },
		},
		{
			name:  "formula",
			send:  func(s *ItemStore) { s.OnUpdateFormula().Send("A + B") },
			check: func(t *testing.T, it *types.SheetItem) { assert.Equal(t, "A + B", it.Formula) },
		},
		{
			name:  "thousand separator",
			send:  func(s *ItemStore) { s.OnUpdateThousandSeparator().Send(true) },
			check: func(t *testing.T, it *types.SheetItem) { assert.True(t, it.ThousandSeparator) },
		},
		{
			name:  "fraction digits",
			send:  func(s *ItemStore) { s.OnUpdateFractionDigits().Send(3) },
			check: func(t *testing.T, it *types.SheetItem) { assert.Equal(t, 3, it.FractionDigits) },
		},
		{
			name:  "visible",
			send:  func(s *ItemStore) { s.OnUpdateVisible().Send(false) },
			check: func(t *testing.T, it *types.SheetItem) { assert.False(t, it.Visible) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.addSheet(t, "s1", "Sheet", "Price")
			s := NewItemStore(f.db, f.errs, "s1/Price", f.opts...)
			defer s.Close()
			got := collect(t, s.Updates())

			tt.send(s)
			require.Len(t, *got, 2, "update is visible before the command returns")
			tt.check(t, (*got)[1])
			tt.check(t, s.Current())
			assert.Empty(t, f.errList)
		})
	}
}

func TestItemStoreFractionDigitsSequence(t *testing.T) {
	f := newFixture(t)
	f.addSheet(t, "s1", "Sheet", "Price")
	s := NewItemStore(f.db, f.errs, "s1/Price", f.opts...)
	defer s.Close()
	got := collect(t, s.Updates())

	s.OnUpdateFractionDigits().Send(2)
	s.OnUpdateFractionDigits().Send(-1)

	require.Len(t, *got, 3)
	assert.Equal(t, 2, (*got)[1].FractionDigits)
	assert.Equal(t, types.FractionDigitsAuto, (*got)[2].FractionDigits)
}

func TestItemStoreFractionDigitsClamped(t *testing.T) {
	f := newFixture(t)
	f.addSheet(t, "s1", "Sheet", "Price")
	s := NewItemStore(f.db, f.errs, "s1/Price", f.opts...)
	defer s.Close()

	s.OnUpdateFractionDigits().Send(42)
	assert.Equal(t, types.FractionDigitsMax, s.Current().FractionDigits)
	s.OnUpdateFractionDigits().Send(-7)
	assert.Equal(t, types.FractionDigitsAuto, s.Current().FractionDigits)
}

func TestItemStoreDeletedItem(t *testing.T) {
	f := newFixture(t)
	f.addSheet(t, "s1", "Sheet", "Price")
	s := NewItemStore(f.db, f.errs, "s1/Price", f.opts...)
	defer s.Close()
	got := collect(t, s.Updates())

	f.write(t, func(tx types.WriteTx) error { return tx.RemoveItem("s1", 0) })
	require.Len(t, *got, 2)
	assert.Nil(t, (*got)[1])

	for i := 0; i < 2; i++ {
		s.OnUpdateName().Send("again")
		assert.ErrorIs(t, f.lastErr(), types.ErrItemNotFound)
	}
	assert.Len(t, f.errList, 2)
}

func TestItemStoreMissingItem(t *testing.T) {
	f := newFixture(t)
	s := NewItemStore(f.db, f.errs, "nope", f.opts...)
	defer s.Close()

	got := collect(t, s.Updates())
	assert.Equal(t, []*types.SheetItem{nil}, *got)

	s.OnUpdateVisible().Send(true)
	assert.ErrorIs(t, f.lastErr(), types.ErrItemNotFound)
}

func TestItemStoreDatabaseFailure(t *testing.T) {
	f := newFixture(t)
	s := NewItemStore(failingDB{}, f.errs, "any", f.opts...)
	defer s.Close()

	require.Len(t, f.errList, 1)
	assert.ErrorIs(t, f.errList[0], types.ErrDatabase)

	got := collect(t, s.Updates())
	assert.Equal(t, []*types.SheetItem{nil}, *got)

	s.OnUpdateNumberValue().Send(1)
	assert.ErrorIs(t, f.lastErr(), types.ErrItemNotFound)
}

func TestItemStoreCloseStopsUpdates(t *testing.T) {
	f := newFixture(t)
	f.addSheet(t, "s1", "Sheet", "Price")
	s := NewItemStore(f.db, f.errs, "s1/Price", f.opts...)
	got := collect(t, s.Updates())

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	f.write(t, func(tx types.WriteTx) error {
		return tx.UpdateItem("s1/Price", func(it *types.SheetItem) { it.Name = "changed" })
	})
	assert.Len(t, *got, 1, "no callback after Close")

	s.OnUpdateName().Send("x")
	assert.ErrorIs(t, f.lastErr(), types.ErrRealmClosed)
}

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseItemType(t *testing.T) {
	tests := []struct {
		in      string
		want    ItemType
		wantErr error
	}{
		{in: "numeric", want: ItemTypeNumeric},
		{in: "string", want: ItemTypeString},
		{in: "formula", want: ItemTypeFormula},
		{in: "", wantErr: ErrInvalidItemType},
		{in: "Numeric", wantErr: ErrInvalidItemType},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseItemType(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClampFractionDigits(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-7, FractionDigitsAuto},
		{-1, FractionDigitsAuto},
		{0, 0},
		{2, 2},
		{5, 5},
		{9, FractionDigitsMax},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampFractionDigits(tt.in), "clamp(%d)", tt.in)
	}
}

func TestNewSheetItemDefaults(t *testing.T) {
	it := NewSheetItem("item-1", "Item 1")

	assert.Equal(t, "item-1", it.ID)
	assert.Equal(t, "Item 1", it.Name)
	assert.Equal(t, ItemTypeNumeric, it.Type)
	assert.Equal(t, FractionDigitsAuto, it.FractionDigits)
	assert.True(t, it.Visible)
	assert.False(t, it.ThousandSeparator)
}

func TestSheetCloneIsIndependent(t *testing.T) {
	s := Sheet{ID: "sheet-1", Name: "Sheet 1", Items: []SheetItem{NewSheetItem("a", "A")}}

	c := s.Clone()
	c.Items[0].Name = "changed"

	assert.Equal(t, "A", s.Items[0].Name)
	assert.False(t, s.Equal(c))
	assert.True(t, s.Equal(s.Clone()))
}

func TestSheetLookups(t *testing.T) {
	hidden := NewSheetItem("b", "Item 2")
	hidden.Visible = false
	s := Sheet{Items: []SheetItem{NewSheetItem("a", "Item 1"), hidden, NewSheetItem("c", "Item 3")}}

	assert.Equal(t, 1, s.ItemIndex("b"))
	assert.Equal(t, -1, s.ItemIndex("missing"))
	assert.True(t, s.HasItemNamed("Item 3"))
	assert.False(t, s.HasItemNamed("Item 4"))

	visible := s.VisibleItems()
	assert.Len(t, visible, 2)
	assert.Equal(t, "a", visible[0].ID)
	assert.Equal(t, "c", visible[1].ID)
}

func TestInitialChange(t *testing.T) {
	c := InitialChange([]string{"x", "y", "z"})
	assert.Equal(t, []int{0, 1, 2}, c.Insertions)
	assert.Empty(t, c.Deletions)
	assert.False(t, c.Empty())

	assert.True(t, InitialChange[string](nil).Empty())
}

func TestNewIDIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		assert.NotEmpty(t, id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

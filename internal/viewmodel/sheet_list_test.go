package viewmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/formulacalc/pkg/types"
)

func TestSheetListViewModel(t *testing.T) {
	e := newEnv(t)
	e.addSheet(t, types.Sheet{ID: "b", Name: "Beta"})
	list := e.factory.SheetListStore()
	defer list.Close()

	vm := NewSheetListViewModel(list, english)
	rows := latest(t, vm.SheetList())
	assert.Equal(t, []SheetListElement{{ID: "b", Title: "Beta"}}, rows())

	vm.OnNew().Send("Alpha")
	require.Len(t, rows(), 2)
	assert.Equal(t, "Alpha", rows()[0].Title)

	vm.OnNew().Send("   ")
	require.Len(t, rows(), 3)
	assert.Equal(t, "New sheet", rows()[2].Title)

	vm.OnDelete().Send(rows()[1])
	assert.Equal(t, []string{"Alpha", "New sheet"}, []string{rows()[0].Title, rows()[1].Title})
	assert.Empty(t, e.errList)
}

func TestSheetListViewModelSelectNavigates(t *testing.T) {
	e := newEnv(t)
	list := e.factory.SheetListStore()
	defer list.Close()

	vm := NewSheetListViewModel(list, english)
	transitions := history(t, vm.Transitions())
	vm.OnSelect().Send(SheetListElement{ID: "s1", Title: "x"})
	assert.Equal(t, []Transition{{Screen: ScreenSheet, ID: "s1"}}, *transitions)
}

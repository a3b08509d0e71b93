package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/formulacalc/pkg/types"
)

func TestOpenInMemory(t *testing.T) {
	b, err := OpenInMemory(nil)
	require.NoError(t, err)
	defer b.Detach()

	err = types.WithRealm(b, func(r types.Realm) error {
		return r.Write(func(tx types.WriteTx) error {
			return tx.AddSheet(types.Sheet{ID: types.NewID(), Name: "Scratch"})
		})
	})
	require.NoError(t, err)

	err = types.WithRealm(b, func(r types.Realm) error {
		sheets, err := r.Sheets()
		require.NoError(t, err)
		assert.Len(t, sheets, 1)
		return nil
	})
	require.NoError(t, err)
}

func TestNewBackendStartsDetached(t *testing.T) {
	_, err := NewBackend(nil).Open()
	assert.ErrorIs(t, err, types.ErrDatabase)
}

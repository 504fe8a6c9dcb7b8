package sdf

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDAllocator_Allocate(t *testing.T) {
	t.Parallel()

	t.Run("implicit allocation picks lowest free id", func(t *testing.T) {
		t.Parallel()
		var a IDAllocator
		id, err := a.Allocate(nil)
		require.NoError(t, err)
		assert.Equal(t, uint8(0), id)

		id, err = a.Allocate(nil)
		require.NoError(t, err)
		assert.Equal(t, uint8(1), id)
	})

	t.Run("explicit allocation succeeds when free", func(t *testing.T) {
		t.Parallel()
		var a IDAllocator
		requested := uint8(5)
		id, err := a.Allocate(&requested)
		require.NoError(t, err)
		assert.Equal(t, uint8(5), id)
		assert.True(t, a.IsAllocated(5))
	})

	t.Run("explicit collision fails", func(t *testing.T) {
		t.Parallel()
		var a IDAllocator
		requested := uint8(3)
		_, err := a.Allocate(&requested)
		require.NoError(t, err)

		_, err = a.Allocate(&requested)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrAlreadyAllocatedID))
	})

	t.Run("explicit id out of range", func(t *testing.T) {
		t.Parallel()
		var a IDAllocator
		requested := uint8(62)
		_, err := a.Allocate(&requested)
		require.Error(t, err)
	})

	t.Run("exhaustion returns NoMoreIds", func(t *testing.T) {
		t.Parallel()
		var a IDAllocator
		for i := 0; i < MaxIDs; i++ {
			_, err := a.Allocate(nil)
			require.NoError(t, err)
		}
		_, err := a.Allocate(nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNoMoreIDs))
		assert.Equal(t, MaxIDs, a.Count())
	})

	t.Run("ids are never reused once allocated", func(t *testing.T) {
		t.Parallel()
		var a IDAllocator
		requested := uint8(0)
		id, err := a.Allocate(&requested)
		require.NoError(t, err)
		assert.Equal(t, uint8(0), id)
		assert.True(t, a.IsAllocated(0))

		next, err := a.Allocate(nil)
		require.NoError(t, err)
		assert.Equal(t, uint8(1), next)
	})
}

func TestIDAllocator_IsAllocated(t *testing.T) {
	t.Parallel()

	var a IDAllocator
	assert.False(t, a.IsAllocated(0))
	assert.False(t, a.IsAllocated(200))

	_, err := a.Allocate(nil)
	require.NoError(t, err)
	assert.True(t, a.IsAllocated(0))
}

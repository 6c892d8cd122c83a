package convstate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	// No marker until one is set.
	pending, err := store.Pending(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, FieldNone, pending)

	require.NoError(t, store.SetPending(ctx, 1, FieldLocation))

	pending, err = store.Pending(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, FieldLocation, pending)

	require.NoError(t, store.Clear(ctx, 1))

	pending, err = store.Pending(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, FieldNone, pending)
}

func TestMemoryStoreLastPromptWins(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	require.NoError(t, store.SetPending(ctx, 1, FieldLocation))
	require.NoError(t, store.SetPending(ctx, 1, FieldStatus))

	pending, err := store.Pending(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, FieldStatus, pending)
}

func TestMemoryStoreIsolatesUsers(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	require.NoError(t, store.SetPending(ctx, 1, FieldLocation))
	require.NoError(t, store.SetPending(ctx, 2, FieldStatus))
	require.NoError(t, store.Clear(ctx, 1))

	pending, err := store.Pending(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, FieldStatus, pending)
}

func TestMemoryStoreClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	require.NoError(t, store.Clear(ctx, 7))
	require.NoError(t, store.Clear(ctx, 7))
}

package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryStore_MissingSpecialtyIsEmptySet(t *testing.T) {
	store := NewRegistryStore()

	set, err := store.Indexed(context.Background(), "neurology")
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestRegistryStore_UnionSemantics(t *testing.T) {
	store := NewRegistryStore()
	ctx := context.Background()

	require.NoError(t, store.AddIndexed(ctx, "cardiology", []string{"PMC1", "PMC2"}))
	require.NoError(t, store.AddIndexed(ctx, "cardiology", []string{"PMC2", "PMC3"}))

	set, err := store.Indexed(ctx, "cardiology")
	require.NoError(t, err)
	assert.Len(t, set, 3)
	for _, id := range []string{"PMC1", "PMC2", "PMC3"} {
		assert.Contains(t, set, id)
	}
}

func TestRegistryStore_UnionIsOrderIndependent(t *testing.T) {
	ctx := context.Background()

	a := NewRegistryStore()
	require.NoError(t, a.AddIndexed(ctx, "s", []string{"PMC1", "PMC2"}))
	require.NoError(t, a.AddIndexed(ctx, "s", []string{"PMC3"}))

	b := NewRegistryStore()
	require.NoError(t, b.AddIndexed(ctx, "s", []string{"PMC3"}))
	require.NoError(t, b.AddIndexed(ctx, "s", []string{"PMC1", "PMC2"}))

	setA, err := a.Indexed(ctx, "s")
	require.NoError(t, err)
	setB, err := b.Indexed(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, setA, setB)
}

func TestRegistryStore_EmptyAddIsNoOp(t *testing.T) {
	store := NewRegistryStore()
	ctx := context.Background()

	require.NoError(t, store.AddIndexed(ctx, "pulmonology", nil))

	set, err := store.Indexed(ctx, "pulmonology")
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestRegistryStore_SpecialtiesAreIsolated(t *testing.T) {
	store := NewRegistryStore()
	ctx := context.Background()

	require.NoError(t, store.AddIndexed(ctx, "cardiology", []string{"PMC1"}))

	set, err := store.Indexed(ctx, "neurology")
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestRegistryStore_ReturnedSetIsACopy(t *testing.T) {
	store := NewRegistryStore()
	ctx := context.Background()

	require.NoError(t, store.AddIndexed(ctx, "s", []string{"PMC1"}))

	set, err := store.Indexed(ctx, "s")
	require.NoError(t, err)
	set["PMC999"] = struct{}{}

	fresh, err := store.Indexed(ctx, "s")
	require.NoError(t, err)
	assert.NotContains(t, fresh, "PMC999")
}

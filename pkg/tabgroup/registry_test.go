package tabgroup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Lifecycle(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()

	g, err := r.NewGroup(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, r.UpdateGroup(ctx, g, "mysite", Blue))
	require.NoError(t, r.AddToGroup(ctx, 2, g))

	found, err := r.QueryGroups(ctx, "mysite")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, []TabID{1, 2}, found[0].TabIDs)
	assert.Equal(t, Blue, found[0].Color)

	none, err := r.QueryGroups(ctx, "MySite")
	require.NoError(t, err)
	assert.Empty(t, none, "title match is exact")

	r.RemoveTab(1)
	id, ok := r.GroupOf(2)
	assert.True(t, ok)
	assert.Equal(t, g, id)

	r.RemoveTab(2)
	assert.Empty(t, r.Groups(), "empty groups disappear")
}

func TestRegistry_MoveBetweenGroups(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()

	a, _ := r.NewGroup(ctx, 1)
	b, _ := r.NewGroup(ctx, 2)
	require.NoError(t, r.AddToGroup(ctx, 1, b))

	groups := r.Groups()
	require.Len(t, groups, 1, "group a emptied by the move")
	assert.Equal(t, b, groups[0].ID)
	assert.NotEqual(t, a, b)
}

func TestRegistry_UnknownGroup(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()

	assert.ErrorIs(t, r.AddToGroup(ctx, 1, 99), ErrGroupNotFound)
	assert.ErrorIs(t, r.UpdateGroup(ctx, 99, "x", Red), ErrGroupNotFound)
}

func TestRegistry_QueryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()
	g, _ := r.NewGroup(ctx, 1)
	_ = r.UpdateGroup(ctx, g, "t", Red)

	found, _ := r.QueryGroups(ctx, "t")
	found[0].TabIDs[0] = 42

	again, _ := r.QueryGroups(ctx, "t")
	assert.Equal(t, TabID(1), again[0].TabIDs[0])
}

func TestPalette(t *testing.T) {
	assert.Len(t, Palette, 9)
	seen := map[Color]bool{}
	for _, c := range Palette {
		assert.False(t, seen[c], "duplicate color %s", c)
		seen[c] = true
	}
}

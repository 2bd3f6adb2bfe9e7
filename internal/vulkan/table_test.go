package vulkan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vkngwrapper/presenter/internal/gfx"
)

func TestTable(t *testing.T) {
	tbl := newTable[gfx.Buffer, string]("buffer")

	a := tbl.add("a")
	b := tbl.add("b")
	require.NotEqual(t, a, b)
	require.NotZero(t, a)
	require.Equal(t, 2, tbl.len())

	item, err := tbl.get(b)
	require.NoError(t, err)
	require.Equal(t, "b", item)

	removed, ok := tbl.remove(a)
	require.True(t, ok)
	require.Equal(t, "a", removed)

	_, ok = tbl.remove(a)
	require.False(t, ok)
	_, ok = tbl.lookup(a)
	require.False(t, ok)

	_, err = tbl.get(a)
	require.ErrorContains(t, err, "unknown buffer handle")

	// Handles are not recycled after removal.
	c := tbl.add("c")
	require.Greater(t, c, b)
}

func TestTableZeroHandleIsNeverValid(t *testing.T) {
	tbl := newTable[gfx.Image, int]("image")
	tbl.add(1)
	_, ok := tbl.lookup(0)
	require.False(t, ok)
}

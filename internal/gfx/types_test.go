package gfx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtentClamp(t *testing.T) {
	min := Extent{Width: 1, Height: 1}
	max := Extent{Width: 1920, Height: 1080}

	for _, tc := range []struct {
		name      string
		requested Extent
		expected  Extent
	}{
		{"inside", Extent{Width: 800, Height: 600}, Extent{Width: 800, Height: 600}},
		{"too large", Extent{Width: 3000, Height: 2000}, Extent{Width: 1920, Height: 1080}},
		{"too small", Extent{Width: 0, Height: -4}, Extent{Width: 1, Height: 1}},
		{"mixed", Extent{Width: 2560, Height: 10}, Extent{Width: 1920, Height: 10}},
		{"exact bounds", max, max},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, tc.requested.Clamp(min, max))
		})
	}
}

func TestExtentIsZero(t *testing.T) {
	require.True(t, Extent{}.IsZero())
	require.True(t, Extent{Width: 640}.IsZero())
	require.True(t, UndefinedExtent.IsZero())
	require.False(t, Extent{Width: 1, Height: 1}.IsZero())
}

func TestSwapchainStatusStale(t *testing.T) {
	require.False(t, StatusOK.Stale())
	require.False(t, StatusTimeout.Stale())
	require.True(t, StatusSuboptimal.Stale())
	require.True(t, StatusOutOfDate.Stale())
}

func TestFormatString(t *testing.T) {
	require.Equal(t, "B8G8R8A8SRGB", FormatB8G8R8A8SRGB.String())
	require.Equal(t, "Format(9999)", Format(9999).String())
	require.True(t, FormatD24UNormS8UInt.HasStencil())
	require.False(t, FormatD32SFloat.HasStencil())
}

package render

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vkngwrapper/presenter/internal/assets"
	"github.com/vkngwrapper/presenter/internal/gfx"
	"github.com/vkngwrapper/presenter/internal/gfx/gfxtest"
)

func testAssets() *assets.Assets {
	return &assets.Assets{
		VertexShader:   []uint32{0x07230203, 0x00010000},
		FragmentShader: []uint32{0x07230203, 0x00010000},
		Texture: assets.Texture{
			Extent: gfx.Extent{Width: 2, Height: 2},
			Pixels: make([]byte, 2*2*4),
		},
		Mesh: assets.BoxMesh(),
	}
}

type fakeSurface struct {
	extent gfx.Extent
}

func (s *fakeSurface) CurrentExtent() gfx.Extent {
	return s.extent
}

type fixedUniforms struct {
	extents []gfx.Extent
}

func (u *fixedUniforms) Uniforms(extent gfx.Extent) UniformBufferObject {
	u.extents = append(u.extents, extent)
	return SceneAt(0, extent)
}

func requireClean(t *testing.T, dev *gfxtest.Device) {
	t.Helper()
	require.Empty(t, dev.Leaks())
	require.Empty(t, dev.Errors())
}

func buildPool(t *testing.T, dev *gfxtest.Device) *ResourcePool {
	t.Helper()
	pool, err := BuildResourcePool(dev, testAssets(), PoolOptions{ClearColor: [4]float32{0, 0, 0.2, 1}})
	require.NoError(t, err)
	return pool
}

package render

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"github.com/vkngwrapper/presenter/internal/gfx/gfxtest"
)

func TestBuildResourcePool(t *testing.T) {
	dev := gfxtest.NewDevice()
	a := testAssets()

	pool, err := BuildResourcePool(dev, a, PoolOptions{CacheSeed: []byte("seed")})
	require.NoError(t, err)

	require.Equal(t, a.Mesh.VertexBytes(), dev.BufferContents(pool.VertexBuffer()))
	require.Equal(t, a.Mesh.IndexBytes(), dev.BufferContents(pool.IndexBuffer()))
	require.Equal(t, 12, pool.IndexCount())
	require.Equal(t, dev.Depth, pool.DepthFormat())
	require.Equal(t, [][]byte{[]byte("seed")}, dev.CacheSeeds)

	write := dev.DescriptorWrite(pool.DescriptorSet())
	require.Equal(t, pool.UniformBuffer(), write.UniformBuffer)
	require.Equal(t, UniformBufferSize, write.UniformRange)
	require.True(t, dev.IsLive(uint64(write.TextureView)))
	require.True(t, dev.IsLive(uint64(write.Sampler)))

	// Only the pool's own objects stay alive: staging buffers are gone.
	require.Equal(t, 3, dev.LiveCount("buffer"))
	require.Equal(t, 2, dev.Calls["CopyBuffer"])
	require.Equal(t, 1, dev.Calls["CopyBufferToImage"])

	pool.Destroy()
	pool.Destroy()
	requireClean(t, dev)
}

func TestBuildResourcePoolFailure(t *testing.T) {
	for _, op := range []string{
		"DepthFormat",
		"CreatePipelineLayout",
		"CreatePipelineCache",
		"CreateShaderModule",
		"CreateCommandPool",
		"CreateBuffer",
		"MapMemory",
		"CopyBuffer",
		"CreateImage",
		"CopyBufferToImage",
		"CreateImageView",
		"CreateSampler",
		"CreateDescriptorPool",
		"AllocateDescriptorSet",
		"UpdateDescriptorSet",
	} {
		t.Run(op, func(t *testing.T) {
			dev := gfxtest.NewDevice()
			dev.FailOn(op, errors.New("out of memory"))

			pool, err := BuildResourcePool(dev, testAssets(), PoolOptions{})
			require.Error(t, err)
			require.Nil(t, pool)
			require.True(t, errors.Is(err, ErrResourceCreation))
			requireClean(t, dev)
		})
	}
}

func TestBuildResourcePoolWithoutAssets(t *testing.T) {
	dev := gfxtest.NewDevice()
	_, err := BuildResourcePool(dev, nil, PoolOptions{})
	require.True(t, errors.Is(err, ErrResourceCreation))
	requireClean(t, dev)
}

func TestWriteUniforms(t *testing.T) {
	dev := gfxtest.NewDevice()
	pool := buildPool(t, dev)
	defer pool.Destroy()

	ubo := SceneAt(0, dev.Capabilities.MaxImageExtent)
	pool.WriteUniforms(ubo)
	require.Equal(t, ubo.Bytes(), dev.BufferContents(pool.UniformBuffer()))
}

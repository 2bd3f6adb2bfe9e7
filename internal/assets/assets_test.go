package assets

import (
	"context"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vkngwrapper/presenter/internal/gfx"
)

func writeSPIRV(t *testing.T, dir, name string, words ...uint32) string {
	t.Helper()
	b := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(b[i*4:], w)
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, b, 0o644))
	return path
}

func writePNG(t *testing.T, dir string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 7, A: 255})
		}
	}
	path := filepath.Join(dir, "tex.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestBoxMesh(t *testing.T) {
	mesh := BoxMesh()
	require.Len(t, mesh.Vertices, 8)
	require.Len(t, mesh.Indices, 12)
	for _, idx := range mesh.Indices {
		require.Less(t, int(idx), len(mesh.Vertices))
	}

	require.Equal(t, 32, VertexStride())
	require.Len(t, mesh.VertexBytes(), 8*VertexStride())
	require.Len(t, mesh.IndexBytes(), 12*4)
}

func TestVertexAttributes(t *testing.T) {
	attrs := VertexAttributes()
	require.Equal(t, []gfx.VertexAttribute{
		{Location: 0, Format: gfx.VertexFloat3, Offset: 0},
		{Location: 1, Format: gfx.VertexFloat3, Offset: 12},
		{Location: 2, Format: gfx.VertexFloat2, Offset: 24},
	}, attrs)
}

func TestReadShader(t *testing.T) {
	dir := t.TempDir()

	path := writeSPIRV(t, dir, "ok.spv", spirvMagic, 0x00010000, 42)
	code, err := ReadShader(path)
	require.NoError(t, err)
	require.Equal(t, []uint32{spirvMagic, 0x00010000, 42}, code)

	_, err = ReadShader(filepath.Join(dir, "missing.spv"))
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)

	bad := writeSPIRV(t, dir, "bad.spv", 0xdeadbeef)
	_, err = ReadShader(bad)
	require.ErrorContains(t, err, "magic")

	odd := filepath.Join(dir, "odd.spv")
	require.NoError(t, os.WriteFile(odd, []byte{1, 2, 3}, 0o644))
	_, err = ReadShader(odd)
	require.ErrorContains(t, err, "multiple of 4")
}

func TestLoadTexture(t *testing.T) {
	path := writePNG(t, t.TempDir(), 5, 3)

	tex, err := LoadTexture(path)
	require.NoError(t, err)
	require.Equal(t, gfx.Extent{Width: 5, Height: 3}, tex.Extent)
	require.Equal(t, 5*3*4, tex.Size())

	// Pixel (4, 2), the last one.
	last := tex.Pixels[len(tex.Pixels)-4:]
	require.Equal(t, []byte{4, 2, 7, 255}, last)
}

func TestToTextureRebasesSubImages(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(2, 2, color.RGBA{R: 9, A: 255})
	sub := img.SubImage(image.Rect(2, 2, 4, 4))

	tex := ToTexture(sub)
	require.Equal(t, gfx.Extent{Width: 2, Height: 2}, tex.Extent)
	require.Len(t, tex.Pixels, 16)
	require.Equal(t, []byte{9, 0, 0, 255}, tex.Pixels[:4])
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	src := Sources{
		VertexShader:   writeSPIRV(t, dir, "vert.spv", spirvMagic, 1),
		FragmentShader: writeSPIRV(t, dir, "frag.spv", spirvMagic, 2),
		Texture:        writePNG(t, dir, 2, 2),
	}

	a, err := Load(context.Background(), src)
	require.NoError(t, err)
	require.Equal(t, []uint32{spirvMagic, 1}, a.VertexShader)
	require.Equal(t, []uint32{spirvMagic, 2}, a.FragmentShader)
	require.Equal(t, gfx.Extent{Width: 2, Height: 2}, a.Texture.Extent)
	require.Len(t, a.Mesh.Indices, 12)

	src.FragmentShader = filepath.Join(dir, "nope.spv")
	_, err = Load(context.Background(), src)
	require.ErrorContains(t, err, "nope.spv")
}

func TestLoadCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Load(ctx, Sources{})
	require.ErrorIs(t, err, context.Canceled)
}

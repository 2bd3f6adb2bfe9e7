package assets

import (
	"bytes"
	"encoding/binary"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/vkngwrapper/presenter/internal/gfx"
)

type Vertex struct {
	Position mgl32.Vec3
	Color    mgl32.Vec3
	TexCoord mgl32.Vec2
}

type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// BoxMesh is two stacked textured quads, half a unit apart in depth.
func BoxMesh() Mesh {
	return Mesh{
		Vertices: []Vertex{
			{Position: mgl32.Vec3{-0.5, -0.5, 0}, Color: mgl32.Vec3{1, 0, 0}, TexCoord: mgl32.Vec2{1, 0}},
			{Position: mgl32.Vec3{0.5, -0.5, 0}, Color: mgl32.Vec3{0, 1, 0}, TexCoord: mgl32.Vec2{0, 0}},
			{Position: mgl32.Vec3{0.5, 0.5, 0}, Color: mgl32.Vec3{0, 0, 1}, TexCoord: mgl32.Vec2{0, 1}},
			{Position: mgl32.Vec3{-0.5, 0.5, 0}, Color: mgl32.Vec3{1, 1, 1}, TexCoord: mgl32.Vec2{1, 1}},

			{Position: mgl32.Vec3{-0.5, -0.5, -0.5}, Color: mgl32.Vec3{1, 0, 0}, TexCoord: mgl32.Vec2{1, 0}},
			{Position: mgl32.Vec3{0.5, -0.5, -0.5}, Color: mgl32.Vec3{0, 1, 0}, TexCoord: mgl32.Vec2{0, 0}},
			{Position: mgl32.Vec3{0.5, 0.5, -0.5}, Color: mgl32.Vec3{0, 0, 1}, TexCoord: mgl32.Vec2{0, 1}},
			{Position: mgl32.Vec3{-0.5, 0.5, -0.5}, Color: mgl32.Vec3{1, 1, 1}, TexCoord: mgl32.Vec2{1, 1}},
		},
		Indices: []uint32{
			0, 1, 2, 2, 3, 0,
			4, 5, 6, 6, 7, 4,
		},
	}
}

func VertexStride() int {
	return int(unsafe.Sizeof(Vertex{}))
}

func VertexAttributes() []gfx.VertexAttribute {
	v := Vertex{}
	return []gfx.VertexAttribute{
		{Location: 0, Format: gfx.VertexFloat3, Offset: int(unsafe.Offsetof(v.Position))},
		{Location: 1, Format: gfx.VertexFloat3, Offset: int(unsafe.Offsetof(v.Color))},
		{Location: 2, Format: gfx.VertexFloat2, Offset: int(unsafe.Offsetof(v.TexCoord))},
	}
}

// VertexBytes lays the vertices out exactly as the vertex input state describes them.
func (m Mesh) VertexBytes() []byte {
	return encode(m.Vertices)
}

func (m Mesh) IndexBytes() []byte {
	return encode(m.Indices)
}

func encode(data any) []byte {
	buf := &bytes.Buffer{}
	// Only fixed-size values reach here, so Write cannot fail.
	_ = binary.Write(buf, binary.NativeEndian, data)
	return buf.Bytes()
}

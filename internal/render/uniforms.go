package render

import (
	"bytes"
	"encoding/binary"
	"math"
	"time"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/loov/hrtime"

	"github.com/vkngwrapper/presenter/internal/gfx"
)

// UniformBufferObject matches the std140 block read by the vertex shader.
type UniformBufferObject struct {
	Model mgl32.Mat4
	View  mgl32.Mat4
	Proj  mgl32.Mat4
}

const UniformBufferSize = int(unsafe.Sizeof(UniformBufferObject{}))

func (u *UniformBufferObject) Bytes() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, UniformBufferSize))
	_ = binary.Write(buf, binary.NativeEndian, u)
	return buf.Bytes()
}

// UniformSource produces the uniforms for the frame about to be submitted.
type UniformSource interface {
	Uniforms(extent gfx.Extent) UniformBufferObject
}

// Clock returns a monotonic time. hrtime.Now is the default.
type Clock func() time.Duration

// rotationSpeed is in radians per second.
const rotationSpeed = math.Pi / 2

var (
	eye    = mgl32.Vec3{2, 2, 2}
	center = mgl32.Vec3{0, 0, 0}
	up     = mgl32.Vec3{0, 0, 1}
)

// SceneUniforms spins the box about the Z axis at a fixed rate from the moment it is created.
type SceneUniforms struct {
	clock Clock
	start time.Duration
}

func NewSceneUniforms(clock Clock) *SceneUniforms {
	if clock == nil {
		clock = hrtime.Now
	}
	return &SceneUniforms{clock: clock, start: clock()}
}

func (s *SceneUniforms) Uniforms(extent gfx.Extent) UniformBufferObject {
	return SceneAt(s.clock()-s.start, extent)
}

// RotationAngle grows without wrapping so that later frames always have larger angles.
func RotationAngle(elapsed time.Duration) float64 {
	return elapsed.Seconds() * rotationSpeed
}

func SceneAt(elapsed time.Duration, extent gfx.Extent) UniformBufferObject {
	aspect := float32(1)
	if !extent.IsZero() {
		aspect = float32(extent.Width) / float32(extent.Height)
	}

	ubo := UniformBufferObject{
		Model: mgl32.HomogRotate3DZ(float32(math.Mod(RotationAngle(elapsed), 2*math.Pi))),
		View:  mgl32.LookAtV(eye, center, up),
		Proj:  mgl32.Perspective(mgl32.DegToRad(45), aspect, 0.1, 10),
	}
	// Vulkan clip space has Y pointing down.
	ubo.Proj[5] *= -1
	return ubo
}

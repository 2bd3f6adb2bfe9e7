package render

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"

	"github.com/vkngwrapper/presenter/internal/gfx"
)

func TestUniformBufferSize(t *testing.T) {
	require.Equal(t, 3*16*4, UniformBufferSize)
	ubo := SceneAt(time.Second, gfx.Extent{Width: 800, Height: 600})
	require.Len(t, ubo.Bytes(), UniformBufferSize)
}

func TestModelIsRotationAboutZ(t *testing.T) {
	extent := gfx.Extent{Width: 800, Height: 600}
	for _, elapsed := range []time.Duration{0, 250 * time.Millisecond, 1300 * time.Millisecond, 7 * time.Second, time.Hour} {
		model := SceneAt(elapsed, extent).Model

		require.Equal(t, mgl32.Vec4{0, 0, 1, 0}, model.Col(2))
		require.Equal(t, mgl32.Vec4{0, 0, 0, 1}, model.Col(3))
		rot := model.Mat3()
		require.True(t, rot.Mul3(rot.Transpose()).ApproxEqualThreshold(mgl32.Ident3(), 1e-5))
		require.InDelta(t, 1, rot.Det(), 1e-5)

		// Compare on the circle: a full turn and no turn are the same rotation.
		want := RotationAngle(elapsed)
		got := math.Atan2(float64(model[1]), float64(model[0]))
		diff := math.Mod(got-want+3*math.Pi, 2*math.Pi) - math.Pi
		if diff < -math.Pi {
			diff += 2 * math.Pi
		}
		require.InDelta(t, 0, diff, 1e-3)
	}
}

func TestRotationAngleStrictlyIncreases(t *testing.T) {
	samples := []time.Duration{0, time.Microsecond, time.Millisecond, time.Second, 4 * time.Second, time.Minute, 24 * time.Hour}
	for i := 1; i < len(samples); i++ {
		require.Greater(t, RotationAngle(samples[i]), RotationAngle(samples[i-1]))
	}
}

func TestSceneUniformsFollowClock(t *testing.T) {
	now := 10 * time.Second
	scene := NewSceneUniforms(func() time.Duration { return now })
	extent := gfx.Extent{Width: 640, Height: 480}

	require.Equal(t, mgl32.Ident4(), scene.Uniforms(extent).Model)

	now += 500 * time.Millisecond
	require.Equal(t, SceneAt(500*time.Millisecond, extent), scene.Uniforms(extent))
}

func TestProjectionFlipsY(t *testing.T) {
	ubo := SceneAt(0, gfx.Extent{Width: 800, Height: 600})
	require.Less(t, ubo.Proj[5], float32(0))

	flipped := mgl32.Perspective(mgl32.DegToRad(45), 800.0/600.0, 0.1, 10)
	require.Equal(t, -flipped[5], ubo.Proj[5])

	// A zero extent falls back to a square aspect ratio instead of dividing by zero.
	square := SceneAt(0, gfx.Extent{})
	require.Equal(t, -square.Proj[5], square.Proj[0])
}

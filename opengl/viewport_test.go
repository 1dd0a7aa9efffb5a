package opengl

import (
	"bytes"
	"log"
	"math"
	"os"
	"testing"

	"github.com/PrincetonUniversity/boids"
	"github.com/PrincetonUniversity/boids/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZoom(t *testing.T) {
	vp := newViewport(0, 0, 100, 100)

	// zooming around the center keeps the center in place
	out := vp.zoom(0.5, 0.5, 2)
	assert.InDelta(t, -5, out[0].X, 1e-4)
	assert.InDelta(t, -5, out[0].Y, 1e-4)
	assert.InDelta(t, 105, out[1].X, 1e-4)
	assert.InDelta(t, 105, out[1].Y, 1e-4)

	// zooming around a corner keeps the corner in place
	in := vp.zoom(0, 0, -2)
	assert.Equal(t, float32(0), in[0].X)
	assert.Equal(t, float32(0), in[0].Y)
	assert.InDelta(t, 90, in[1].X, 1e-4)

	assert.Equal(t, newViewport(0, 0, 100, 100), vp, "zoom returns a copy")
}

func TestToWorld(t *testing.T) {
	vp := newViewport(0, 0, 1000, 500)
	p := vp.toWorld(0, 800, 800, 800)
	assert.Equal(t, geom.Vec2{}, p, "bottom left corner")

	p = vp.toWorld(400, 200, 800, 800)
	assert.InDelta(t, 500, p.X, 1e-9)
	assert.InDelta(t, 375, p.Y, 1e-9)
}

func TestWedge(t *testing.T) {
	pos := geom.Vec2{X: 10, Y: 20}
	v := wedge(pos, 0, math.Pi/2, 5, 4)
	require.Len(t, v, 2*6)

	// apex first
	assert.Equal(t, []float32{10, 20}, v[:2])

	// edges at ±π/4 around +Y, middle straight up
	s := float32(5 * math.Sqrt2 / 2)
	assert.InDelta(t, 10-s, v[2], 1e-4)
	assert.InDelta(t, 20+s, v[3], 1e-4)
	assert.InDelta(t, 10, v[6], 1e-4)
	assert.InDelta(t, 25, v[7], 1e-4)
	assert.InDelta(t, 10+s, v[10], 1e-4)
	assert.InDelta(t, 20+s, v[11], 1e-4)
}

func TestCycle(t *testing.T) {
	assert.Equal(t, 0, cycle(-1, 1, 3))
	assert.Equal(t, 2, cycle(1, 1, 3))
	assert.Equal(t, -1, cycle(2, 1, 3))
	assert.Equal(t, 2, cycle(-1, -1, 3))
	assert.Equal(t, -1, cycle(0, -1, 3))
	assert.Equal(t, -1, cycle(-1, 1, 0))
}

func TestSpawnLogsRefusal(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	sim, err := boids.New(&boids.Parameters{
		MaxSpeed: 2, MinSpeed: 1, FieldOfView: math.Pi, RangeOfView: 10,
		ProtectedRange: 1, WorldSize: 100, Margin: 10,
	}, nil)
	require.NoError(t, err)
	add := func(pos, dir geom.Vec2) error {
		_, err := sim.Spawn(pos, dir)
		return err
	}

	assert.True(t, spawn(add, geom.Vec2{X: 50, Y: 50}, geom.Vec2{X: 1}))
	assert.Equal(t, 1, sim.Len())
	assert.Empty(t, buf.String())

	// a zero drag direction cannot be normalized
	assert.False(t, spawn(add, geom.Vec2{X: 50, Y: 50}, geom.Vec2{}))
	assert.Equal(t, 1, sim.Len())
	assert.Contains(t, buf.String(), "cannot spawn agent")
	assert.Contains(t, buf.String(), boids.ErrInvalidInput.Error())
}

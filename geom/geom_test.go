package geom

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	assert.InDelta(t, 5.0, Distance(Vec2{1, 2}, Vec2{4, 6}), 1e-12)
	assert.InDelta(t, 5.0, Norm(Vec2{3, -4}), 1e-12)
	assert.Zero(t, Distance(Vec2{7, 7}, Vec2{7, 7}))

	// no overflow for large finite vectors
	assert.InEpsilon(t, 5e300, Norm(Vec2{3e300, -4e300}), 1e-12)
	assert.InEpsilon(t, 5e-300, Norm(Vec2{3e-300, 4e-300}), 1e-12)
}

func TestAngleConvention(t *testing.T) {
	o := Vec2{}
	cases := []struct {
		name string
		to   Vec2
		want float64
	}{
		{"up", Vec2{0, 1}, 0},
		{"right", Vec2{1, 0}, math.Pi / 2},
		{"left", Vec2{-1, 0}, -math.Pi / 2},
		{"down", Vec2{0, -1}, math.Pi},
		{"diagonal", Vec2{1, 1}, math.Pi / 4},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.InDelta(t, c.want, Angle(o, c.to), 1e-12)
		})
	}

	// relative to a, not the origin
	assert.InDelta(t, math.Pi/2, Angle(Vec2{10, 10}, Vec2{11, 10}), 1e-12)
}

func TestAngleNeverMinusPi(t *testing.T) {
	// atan2(-0, -1) is -π, which must come out as π
	a := Angle(Vec2{}, Vec2{math.Copysign(0, -1), -1})
	assert.Equal(t, math.Pi, a)
}

func TestWrapAngle(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{math.Pi + 0.4, -math.Pi + 0.4},
		{-math.Pi - 0.4, math.Pi - 0.4},
		{4*math.Pi + 1, 1},
		{-7*math.Pi/2 + 0.1, math.Pi/2 + 0.1},
		{1.2, 1.2},
	}
	for _, c := range cases {
		got := WrapAngle(c.in)
		assert.InDelta(t, c.want, got, 1e-9, "WrapAngle(%v)", c.in)
		assert.True(t, got > -math.Pi && got <= math.Pi, "WrapAngle(%v) = %v out of range", c.in, got)
	}
}

func TestPair(t *testing.T) {
	v, err := Pair(1, 2)
	require.NoError(t, err)
	assert.Equal(t, Vec2{1, 2}, v)

	for _, xs := range [][]float64{nil, {1}, {1, 2, 3}, {math.NaN(), 0}, {0, math.Inf(-1)}} {
		_, err := Pair(xs...)
		assert.True(t, errors.Is(err, ErrInvalidInput), "Pair(%v) = %v", xs, err)
	}
}

func TestDistanceOf(t *testing.T) {
	d, err := DistanceOf([]float64{3, 4})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, d, 1e-12)

	d, err = DistanceOf([]float64{1, 1}, []float64{4, 5})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, d, 1e-12)

	_, err = DistanceOf([]float64{1, 1}, []float64{4})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = DistanceOf([]float64{1, 1}, []float64{4, 5}, []float64{0, 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAngleOf(t *testing.T) {
	a, err := AngleOf([]float64{0, 0}, []float64{1, 0})
	require.NoError(t, err)
	assert.InDelta(t, math.Pi/2, a, 1e-12)

	_, err = AngleOf([]float64{0}, []float64{1, 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestVec2Ops(t *testing.T) {
	u, v := Vec2{1, 2}, Vec2{3, -1}
	assert.Equal(t, Vec2{4, 1}, u.Add(v))
	assert.Equal(t, Vec2{-2, 3}, u.Sub(v))
	assert.Equal(t, Vec2{2, 4}, u.Scale(2))
	assert.True(t, u.IsFinite())
	assert.False(t, Vec2{math.NaN(), 0}.IsFinite())
}

// Package geom provides the plane geometry shared by agents:
// distances, signed angles and angle wrapping.
package geom

import (
	"math"

	"github.com/pkg/errors"
)

// ErrInvalidInput is returned when a coordinate pair is malformed.
var ErrInvalidInput = errors.New("invalid input")

// A Vec2 is a simple 2D vector.
type Vec2 struct {
	X float64
	Y float64
}

// Add returns u+v.
func (u Vec2) Add(v Vec2) Vec2 {
	return Vec2{u.X + v.X, u.Y + v.Y}
}

// Sub returns u-v.
func (u Vec2) Sub(v Vec2) Vec2 {
	return Vec2{u.X - v.X, u.Y - v.Y}
}

// Scale returns k*u.
func (u Vec2) Scale(k float64) Vec2 {
	return Vec2{k * u.X, k * u.Y}
}

// IsFinite reports whether both coordinates are finite.
func (u Vec2) IsFinite() bool {
	return !math.IsNaN(u.X) && !math.IsInf(u.X, 0) && !math.IsNaN(u.Y) && !math.IsInf(u.Y, 0)
}

// Distance returns the euclidean distance between a and b.
func Distance(a, b Vec2) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Norm returns the length of v, i.e. its distance to the origin.
func Norm(v Vec2) float64 {
	return Distance(v, Vec2{})
}

// Angle returns the signed angle of the vector pointing from a to b, in (-π, π].
//
// The x difference is the first argument of atan2 and the y difference the second,
// so that an angle of 0 points along +Y and π/2 along +X.
// Headings and fields of view are all measured in this convention.
func Angle(a, b Vec2) float64 {
	return WrapAngle(math.Atan2(b.X-a.X, b.Y-a.Y))
}

// WrapAngle maps any angle θ in radians into (-π, π].
func WrapAngle(θ float64) float64 {
	θ = math.Mod(θ+math.Pi, 2*math.Pi)
	if θ <= 0 {
		θ += 2 * math.Pi
	}
	return θ - math.Pi
}

// Pair builds a Vec2 from exactly two finite numbers.
func Pair(xs ...float64) (Vec2, error) {
	if len(xs) != 2 {
		return Vec2{}, errors.Wrapf(ErrInvalidInput, "expected 2 coordinates, got %d", len(xs))
	}
	v := Vec2{xs[0], xs[1]}
	if !v.IsFinite() {
		return Vec2{}, errors.Wrapf(ErrInvalidInput, "non-numeric coordinates %v", xs)
	}
	return v, nil
}

// DistanceOf is Distance on raw coordinate pairs.
// With a single pair, it returns the length of that vector.
func DistanceOf(a []float64, b ...[]float64) (float64, error) {
	u, err := Pair(a...)
	if err != nil {
		return 0, err
	}
	var v Vec2
	switch len(b) {
	case 0:
	case 1:
		if v, err = Pair(b[0]...); err != nil {
			return 0, err
		}
	default:
		return 0, errors.Wrapf(ErrInvalidInput, "expected at most 2 points, got %d", 1+len(b))
	}
	return Distance(u, v), nil
}

// AngleOf is Angle on raw coordinate pairs.
func AngleOf(a, b []float64) (float64, error) {
	u, err := Pair(a...)
	if err != nil {
		return 0, err
	}
	v, err := Pair(b...)
	if err != nil {
		return 0, err
	}
	return Angle(u, v), nil
}

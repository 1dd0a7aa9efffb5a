package boids

import (
	"math"

	"github.com/pkg/errors"
)

// Parameters contains the parameters shared by all agents of a flock.
// A Parameters value must not be modified once agents refer to it.
type Parameters struct {
	MaxSpeed float64 // unit: length/time
	MinSpeed float64 // unit: length/time

	FieldOfView    float64 // full angular width of perception, unit: rad
	RangeOfView    float64 // maximum perception distance, unit: length
	ProtectedRange float64 // separation distance, unit: length

	AvoidWeight     float64 // separation strength, unit: 1/time
	MatchingWeight  float64 // alignment strength, unit: 1
	CenteringWeight float64 // cohesion strength, unit: 1/time
	TurnWeight      float64 // boundary repulsion, unit: length/time

	WorldSize float64 // side of the square world, unit: length
	Margin    float64 // width of the turning zone along edges, unit: length
}

// Validate checks the invariants of a parameter set.
// The returned error wraps ErrInvalidConfiguration.
func (p *Parameters) Validate() error {
	if p == nil {
		return errors.Wrap(ErrInvalidConfiguration, "missing parameters")
	}
	fields := []struct {
		name string
		val  float64
	}{
		{"max speed", p.MaxSpeed},
		{"min speed", p.MinSpeed},
		{"field of view", p.FieldOfView},
		{"range of view", p.RangeOfView},
		{"protected range", p.ProtectedRange},
		{"avoid weight", p.AvoidWeight},
		{"matching weight", p.MatchingWeight},
		{"centering weight", p.CenteringWeight},
		{"turn weight", p.TurnWeight},
		{"world size", p.WorldSize},
		{"margin", p.Margin},
	}
	for _, f := range fields {
		if math.IsNaN(f.val) || math.IsInf(f.val, 0) {
			return errors.Wrapf(ErrInvalidConfiguration, "%s is not finite", f.name)
		}
	}

	switch {
	case p.MinSpeed <= 0:
		return errors.Wrapf(ErrInvalidConfiguration, "min speed %g must be positive", p.MinSpeed)
	case p.MaxSpeed < p.MinSpeed:
		return errors.Wrapf(ErrInvalidConfiguration, "min speed %g exceeds max speed %g", p.MinSpeed, p.MaxSpeed)
	case p.FieldOfView < 0 || p.FieldOfView > 2*math.Pi:
		return errors.Wrapf(ErrInvalidConfiguration, "field of view %g outside [0, 2π]", p.FieldOfView)
	case p.RangeOfView <= 0:
		return errors.Wrapf(ErrInvalidConfiguration, "range of view %g must be positive", p.RangeOfView)
	case p.ProtectedRange < 0 || p.ProtectedRange > p.RangeOfView:
		return errors.Wrapf(ErrInvalidConfiguration, "protected range %g outside [0, %g]", p.ProtectedRange, p.RangeOfView)
	case p.WorldSize <= 0:
		return errors.Wrapf(ErrInvalidConfiguration, "world size %g must be positive", p.WorldSize)
	case p.Margin < 0 || 2*p.Margin >= p.WorldSize:
		return errors.Wrapf(ErrInvalidConfiguration, "margin %g outside [0, %g)", p.Margin, p.WorldSize/2)
	}
	return nil
}

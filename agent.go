package boids

import (
	"math"
	"math/rand"

	"github.com/PrincetonUniversity/boids/geom"
	"github.com/pkg/errors"
)

// State is what other agents perceive of an agent.
type State struct {
	Pos geom.Vec2 // position, unit: length
	Vel geom.Vec2 // velocity, unit: length/time
}

// An Agent is a single member of the flock.
// Its state only changes through Step.
type Agent struct {
	state   State
	speed   float64    // |Vel|
	heading float64    // angle of Vel in (-π, π]
	fov     [2]float64 // field of view window rotated to heading, possibly wrapped
	param   *Parameters
}

// NewAgent creates an agent at pos heading along dir.
// The initial speed is drawn uniformly in [MinSpeed, MaxSpeed] from rng,
// or from the global source if rng is nil.
func NewAgent(pos, dir geom.Vec2, p *Parameters, rng *rand.Rand) (*Agent, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if !pos.IsFinite() {
		return nil, errors.Wrapf(ErrInvalidInput, "position %v", pos)
	}
	n := geom.Norm(dir)
	if n == 0 || !dir.IsFinite() || math.IsInf(n, 0) {
		return nil, errors.Wrapf(ErrInvalidInput, "direction %v cannot be normalized", dir)
	}

	u := rand.Float64
	if rng != nil {
		u = rng.Float64
	}
	speed := u()*(p.MaxSpeed-p.MinSpeed) + p.MinSpeed

	a := &Agent{param: p}
	a.state.Pos = pos
	a.setVelocity(dir.Scale(speed/n), speed)
	return a, nil
}

// Pos returns the position of the agent.
func (a *Agent) Pos() geom.Vec2 { return a.state.Pos }

// Vel returns the velocity of the agent.
func (a *Agent) Vel() geom.Vec2 { return a.state.Vel }

// Speed returns the norm of the velocity.
func (a *Agent) Speed() float64 { return a.speed }

// Heading returns the angle of the velocity in (-π, π], measured as in geom.Angle.
func (a *Agent) Heading() float64 { return a.heading }

// FOV returns the bounds of the field of view window.
// The window is wrapped across ±π when FOV()[1] <= FOV()[0].
func (a *Agent) FOV() [2]float64 { return a.fov }

// State returns the perceivable state of the agent.
func (a *Agent) State() State { return a.state }

// Params returns the shared parameters of the agent.
func (a *Agent) Params() *Parameters { return a.param }

// setVelocity commits a velocity and derives heading and field of view from it.
func (a *Agent) setVelocity(v geom.Vec2, speed float64) {
	a.state.Vel = v
	a.speed = speed
	a.heading = geom.Angle(geom.Vec2{}, v)
	a.fov = rotateFOV(a.param.FieldOfView, a.heading)
}

// rotateFOV returns the window [-φ/2, φ/2] rotated by heading h.
func rotateFOV(φ, h float64) [2]float64 {
	return [2]float64{geom.WrapAngle(-φ/2 + h), geom.WrapAngle(φ/2 + h)}
}

// inWindow reports whether angle θ lies within window w.
func inWindow(θ float64, w [2]float64) bool {
	if w[1] > w[0] {
		return w[0] <= θ && θ <= w[1]
	}
	// window crosses the ±π line
	return θ >= w[0] || θ <= w[1]
}

// IsVisible reports whether other is within range and field of view.
// An agent never sees anything at its own position, itself included.
func (a *Agent) IsVisible(other State) bool {
	r := geom.Distance(a.state.Pos, other.Pos)
	if r <= 0 || r > a.param.RangeOfView {
		return false
	}
	if a.param.FieldOfView >= 2*math.Pi {
		// both bounds fall on the same angle, up to rounding
		return true
	}
	return inWindow(geom.Angle(a.state.Pos, other.Pos), a.fov)
}

// Step moves the agent by one time step dt given the state of the flock.
// The snapshot may contain the agent itself. Only the agent is modified,
// and only if the update succeeds.
func (a *Agent) Step(snapshot []State, dt float64) error {
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return errors.Wrapf(ErrInvalidInput, "time step %g", dt)
	}
	p := a.param
	pos, vel := a.state.Pos, a.state.Vel

	var sep, sumVel, sumPos geom.Vec2
	var n int
	for _, q := range snapshot {
		if !a.IsVisible(q) {
			continue
		}
		n++
		if geom.Distance(pos, q.Pos) <= p.ProtectedRange {
			sep = sep.Add(pos.Sub(q.Pos))
		}
		sumVel = sumVel.Add(q.Vel)
		sumPos = sumPos.Add(q.Pos)
	}

	// separation
	vel = vel.Add(sep.Scale(p.AvoidWeight))

	// alignment and cohesion
	if n > 0 {
		k := 1 / float64(n)
		vel = vel.
			Add(sumVel.Scale(k).Sub(vel).Scale(p.MatchingWeight)).
			Add(sumPos.Scale(k).Sub(pos).Scale(p.CenteringWeight))
	}

	// soft turn near edges, each edge on its own
	if pos.X <= p.Margin {
		vel.X += p.TurnWeight
	}
	if pos.X >= p.WorldSize-p.Margin {
		vel.X -= p.TurnWeight
	}
	if pos.Y <= p.Margin {
		vel.Y += p.TurnWeight
	}
	if pos.Y >= p.WorldSize-p.Margin {
		vel.Y -= p.TurnWeight
	}

	vel, speed, err := normalizeSpeed(vel, p)
	if err != nil {
		return err
	}

	// move and clamp to the world
	pos = pos.Add(vel.Scale(dt))
	pos.X = math.Min(math.Max(pos.X, 0), p.WorldSize)
	pos.Y = math.Min(math.Max(pos.Y, 0), p.WorldSize)

	a.state.Pos = pos
	a.setVelocity(vel, speed)
	return nil
}

// normalizeSpeed rescales v so that its norm lies in [MinSpeed, MaxSpeed]
// and returns the rescaled velocity with its norm.
func normalizeSpeed(v geom.Vec2, p *Parameters) (geom.Vec2, float64, error) {
	speed := geom.Norm(v)
	switch {
	case speed == 0 || math.IsNaN(speed) || math.IsInf(speed, 0):
		return v, speed, errors.Wrapf(ErrDegenerateState, "velocity %v cannot be normalized", v)
	case speed > p.MaxSpeed:
		return v.Scale(p.MaxSpeed / speed), p.MaxSpeed, nil
	case speed < p.MinSpeed:
		return v.Scale(p.MinSpeed / speed), p.MinSpeed, nil
	}
	return v, speed, nil
}

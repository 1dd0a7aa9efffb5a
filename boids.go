// Package boids runs flocking simulations of agents in a square 2D world.
//
// Each agent perceives the others within a limited range and field of view,
// and follows three rules: keep away from those too close (separation),
// match their velocity (alignment), move toward their center (cohesion).
// Agents also turn away from the edges of the world and keep their speed
// within fixed bounds.
//
// All agents of a flock are updated synchronously: during a tick, every agent
// perceives the same snapshot of the flock taken before any update.
package boids

import (
	"math/rand"
	"sync"

	"github.com/PrincetonUniversity/boids/geom"
	"github.com/google/uuid"
)

// A Simulation contains a flock and the parameters it moves with.
// Flock membership must only change between calls to Step.
type Simulation struct {
	ID    uuid.UUID // identifies the run in logs and outputs
	Param *Parameters
	Flock []*Agent
	Tick  uint64 // number of ticks in which agents moved

	// Workers is the number of goroutines updating agents during a tick.
	// Values below 2 update agents sequentially.
	Workers int

	rng *rand.Rand
}

// New returns an empty simulation. Agents spawned later draw their initial
// speed from rng, or from the global source if rng is nil.
func New(p *Parameters, rng *rand.Rand) (*Simulation, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Simulation{ID: uuid.New(), Param: p, rng: rng}, nil
}

// Len returns the size of the flock.
func (s *Simulation) Len() int {
	return len(s.Flock)
}

// Spawn adds an agent at pos heading along dir.
func (s *Simulation) Spawn(pos, dir geom.Vec2) (*Agent, error) {
	a, err := NewAgent(pos, dir, s.Param, s.rng)
	if err != nil {
		return nil, err
	}
	s.Flock = append(s.Flock, a)
	return a, nil
}

// SpawnRandom adds n agents scattered over the world with random directions.
func (s *Simulation) SpawnRandom(n int) error {
	u := rand.Float64
	if s.rng != nil {
		u = s.rng.Float64
	}
	L := s.Param.WorldSize
	for i := 0; i < n; i++ {
		pos := geom.Vec2{X: u()*L*0.8 + 0.1, Y: u()*L*0.8 + 0.1}
		dir := geom.Vec2{X: u() - 0.5, Y: u() - 0.5}
		if dir == (geom.Vec2{}) {
			dir.X = 1
		}
		if _, err := s.Spawn(pos, dir); err != nil {
			return err
		}
	}
	return nil
}

// Pop removes the most recently added agent, if any.
func (s *Simulation) Pop() *Agent {
	if len(s.Flock) == 0 {
		return nil
	}
	a := s.Flock[len(s.Flock)-1]
	s.Flock[len(s.Flock)-1] = nil
	s.Flock = s.Flock[:len(s.Flock)-1]
	return a
}

// Remove removes the agents at the given flock indices, keeping the order of the others.
func (s *Simulation) Remove(indices ...int) {
	if len(indices) == 0 {
		return
	}
	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		drop[i] = true
	}
	flock := s.Flock[:0]
	for i, a := range s.Flock {
		if !drop[i] {
			flock = append(flock, a)
		}
	}
	for i := len(flock); i < len(s.Flock); i++ {
		s.Flock[i] = nil
	}
	s.Flock = flock
}

// Snapshot returns a copy of the state of every agent.
func (s *Simulation) Snapshot() []State {
	states := make([]State, len(s.Flock))
	for i, a := range s.Flock {
		states[i] = a.state
	}
	return states
}

// Step runs a single tick of duration dt.
// Agents whose update fails keep their previous state and are reported in a *TickError.
// Tick is not advanced when every agent failed.
func (s *Simulation) Step(dt float64) error {
	snapshot := s.Snapshot()
	errs := make([]error, len(s.Flock))

	update := func(lo, hi int) {
		for i := lo; i < hi; i++ {
			errs[i] = s.Flock[i].Step(snapshot, dt)
		}
	}

	if w := s.Workers; w < 2 || len(s.Flock) < 2 {
		update(0, len(s.Flock))
	} else {
		if w > len(s.Flock) {
			w = len(s.Flock)
		}
		var wg sync.WaitGroup
		chunk := (len(s.Flock) + w - 1) / w
		for lo := 0; lo < len(s.Flock); lo += chunk {
			hi := lo + chunk
			if hi > len(s.Flock) {
				hi = len(s.Flock)
			}
			wg.Add(1)
			go func(lo, hi int) {
				defer wg.Done()
				update(lo, hi)
			}(lo, hi)
		}
		wg.Wait()
	}

	var failed []*AgentError
	for i, err := range errs {
		if err != nil {
			failed = append(failed, &AgentError{Index: i, Err: err})
		}
	}

	// a tick only counts if some agent moved or there was nobody to move
	if len(failed) == 0 || len(failed) < len(s.Flock) {
		s.Tick++
	}
	if len(failed) > 0 {
		return &TickError{Tick: s.Tick, Agents: failed}
	}
	return nil
}

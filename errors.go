package boids

import (
	"fmt"
	"strings"

	"github.com/PrincetonUniversity/boids/geom"
	"github.com/pkg/errors"
)

// Error kinds surfaced to the driver. Use errors.Is to test for them.
var (
	// ErrInvalidInput reports malformed geometric arguments.
	ErrInvalidInput = geom.ErrInvalidInput

	// ErrInvalidConfiguration reports a parameter set that violates an invariant.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrDegenerateState reports a velocity that cannot be normalized.
	ErrDegenerateState = errors.New("degenerate state")
)

// An AgentError is the failure of a single agent during a tick.
type AgentError struct {
	Index int // position of the agent in the flock
	Err   error
}

func (e *AgentError) Error() string {
	return fmt.Sprintf("agent %d: %v", e.Index, e.Err)
}

func (e *AgentError) Unwrap() error {
	return e.Err
}

// A TickError collects the agents whose update failed during a tick.
// Agents not listed were updated normally.
type TickError struct {
	Tick   uint64 // Simulation.Tick after the failed step
	Agents []*AgentError
}

func (e *TickError) Error() string {
	msgs := make([]string, len(e.Agents))
	for i, a := range e.Agents {
		msgs[i] = a.Error()
	}
	return fmt.Sprintf("tick %d: %d agent(s) failed: %s", e.Tick, len(e.Agents), strings.Join(msgs, "; "))
}

func (e *TickError) Unwrap() []error {
	errs := make([]error, len(e.Agents))
	for i, a := range e.Agents {
		errs[i] = a
	}
	return errs
}

// Indices returns the flock indices of the failed agents in increasing order.
func (e *TickError) Indices() []int {
	idx := make([]int, len(e.Agents))
	for i, a := range e.Agents {
		idx[i] = a.Index
	}
	return idx
}

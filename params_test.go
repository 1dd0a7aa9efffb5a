package boids

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testParams returns the default parameters of the interactive driver.
func testParams() *Parameters {
	return &Parameters{
		MaxSpeed:        200,
		MinSpeed:        100,
		FieldOfView:     math.Pi,
		RangeOfView:     40,
		ProtectedRange:  12,
		AvoidWeight:     0.05,
		MatchingWeight:  0.05,
		CenteringWeight: 0.0005,
		TurnWeight:      20,
		WorldSize:       1000,
		Margin:          100,
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, testParams().Validate())

	t.Run("nil", func(t *testing.T) {
		var p *Parameters
		assert.ErrorIs(t, p.Validate(), ErrInvalidConfiguration)
	})

	bad := map[string]func(p *Parameters){
		"zero min speed":           func(p *Parameters) { p.MinSpeed = 0 },
		"min above max":            func(p *Parameters) { p.MinSpeed, p.MaxSpeed = 3, 2 },
		"negative fov":             func(p *Parameters) { p.FieldOfView = -0.1 },
		"fov above full turn":      func(p *Parameters) { p.FieldOfView = 2*math.Pi + 0.01 },
		"zero range of view":       func(p *Parameters) { p.RangeOfView = 0 },
		"negative protected range": func(p *Parameters) { p.ProtectedRange = -1 },
		"protected above view":     func(p *Parameters) { p.ProtectedRange = p.RangeOfView + 1 },
		"zero world":               func(p *Parameters) { p.WorldSize = 0 },
		"negative margin":          func(p *Parameters) { p.Margin = -1 },
		"margin half world":        func(p *Parameters) { p.Margin = p.WorldSize / 2 },
		"nan weight":               func(p *Parameters) { p.AvoidWeight = math.NaN() },
		"infinite max speed":       func(p *Parameters) { p.MaxSpeed = math.Inf(1) },
	}
	for name, mutate := range bad {
		t.Run(name, func(t *testing.T) {
			p := testParams()
			mutate(p)
			assert.ErrorIs(t, p.Validate(), ErrInvalidConfiguration)
		})
	}

	good := map[string]func(p *Parameters){
		"equal speeds":     func(p *Parameters) { p.MinSpeed, p.MaxSpeed = 150, 150 },
		"full fov":         func(p *Parameters) { p.FieldOfView = 2 * math.Pi },
		"zero-width fov":   func(p *Parameters) { p.FieldOfView = 0 },
		"no margin":        func(p *Parameters) { p.Margin = 0 },
		"no protection":    func(p *Parameters) { p.ProtectedRange = 0 },
		"negative weights": func(p *Parameters) { p.CenteringWeight = -0.001 },
	}
	for name, mutate := range good {
		t.Run(name, func(t *testing.T) {
			p := testParams()
			mutate(p)
			assert.NoError(t, p.Validate())
		})
	}
}

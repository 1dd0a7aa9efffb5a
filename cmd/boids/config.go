package main

import (
	"math"
	"runtime"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/PrincetonUniversity/boids"
	"github.com/pkg/errors"
)

// Config holds the various parameters required for running a simulation.
type Config struct {
	// Output is either a filename (path) for the HDF5 output file,
	// or the empty string for an interactive OpenGL simulation.
	Output string

	SwarmSize    int     // number of agents created at start
	MaxSwarmSize int     // maximum number of agents displayed or recorded
	Steps        int     // number of time steps (hdf5 only)
	Dt           float64 // duration of time steps (hdf5 only), unit: s
	FPS          float64 // frames per second (opengl only)
	Workers      int     // number of goroutines updating the flock
	Seed         int64   // seed of the random initialization, 0 for a random seed

	// Agent parameters
	FieldOfView     float64 // unit: degree
	RangeOfView     float64 // unit: length
	ProtectedRange  float64 // unit: length
	MaxSpeed        float64 // unit: length/s
	MinSpeed        float64 // unit: length/s
	AvoidFactor     float64 // unit: 1/s
	MatchingFactor  float64 // unit: 1
	CenteringFactor float64 // unit: 1/s
	TurnFactor      float64 // unit: 1, keep in [0, 1]

	// World parameters
	WorldSize float64 // unit: length
	Margin    float64 // unit: length, defaults to WorldSize/10
}

// DefaultConf returns the default parameters.
func DefaultConf() *Config {
	return &Config{
		Output:          "",
		SwarmSize:       100,
		MaxSwarmSize:    1000,
		Steps:           10000,
		Dt:              0.04,
		FPS:             25,
		Workers:         runtime.NumCPU(),
		Seed:            0,
		FieldOfView:     180,
		RangeOfView:     40,
		ProtectedRange:  12,
		MaxSpeed:        200,
		MinSpeed:        100,
		AvoidFactor:     0.05,
		MatchingFactor:  0.05,
		CenteringFactor: 0.0005,
		TurnFactor:      0.4,
		WorldSize:       1000,
		Margin:          100,
	}
}

// ParseConfig parses the TOML config file whose path is provided.
// Keys missing from the file keep their default value.
func ParseConfig(path string) (*Config, error) {
	// config file overwrites default parameters
	conf := DefaultConf()
	md, err := toml.DecodeFile(path, conf)
	if err != nil {
		return nil, errors.Wrapf(boids.ErrInvalidConfiguration, "%s: %v", path, err)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		s := make([]string, len(keys))
		for i, k := range keys {
			s[i] = k.String()
		}
		sort.Strings(s)
		return nil, errors.Wrapf(boids.ErrInvalidConfiguration, "%s: unknown keys %s", path, strings.Join(s, ", "))
	}
	if !md.IsDefined("Margin") {
		conf.Margin = conf.WorldSize / 10
	}
	if err := conf.check(); err != nil {
		return nil, errors.Wrap(err, path)
	}
	return conf, nil
}

// check validates the parameters that are not agent parameters.
func (c *Config) check() error {
	switch {
	case c.SwarmSize < 0:
		return errors.Wrapf(boids.ErrInvalidConfiguration, "SwarmSize %d", c.SwarmSize)
	case c.MaxSwarmSize < c.SwarmSize:
		return errors.Wrapf(boids.ErrInvalidConfiguration, "MaxSwarmSize %d < SwarmSize %d", c.MaxSwarmSize, c.SwarmSize)
	case c.Steps < 1:
		return errors.Wrapf(boids.ErrInvalidConfiguration, "Steps %d must be positive", c.Steps)
	case !(c.Dt > 0):
		return errors.Wrapf(boids.ErrInvalidConfiguration, "Dt %g", c.Dt)
	case !(c.FPS > 0):
		return errors.Wrapf(boids.ErrInvalidConfiguration, "FPS %g", c.FPS)
	case c.Workers < 0:
		return errors.Wrapf(boids.ErrInvalidConfiguration, "Workers %d", c.Workers)
	}
	return c.Params().Validate()
}

// Params converts the agent and world parameters to simulation units.
func (c *Config) Params() *boids.Parameters {
	return &boids.Parameters{
		MaxSpeed:        c.MaxSpeed,
		MinSpeed:        c.MinSpeed,
		FieldOfView:     c.FieldOfView * math.Pi / 180,
		RangeOfView:     c.RangeOfView,
		ProtectedRange:  c.ProtectedRange,
		AvoidWeight:     c.AvoidFactor,
		MatchingWeight:  c.MatchingFactor,
		CenteringWeight: c.CenteringFactor,
		TurnWeight:      c.TurnFactor * c.MinSpeed / 2,
		WorldSize:       c.WorldSize,
		Margin:          c.Margin,
	}
}

// Command boids runs a flocking simulation of boids.
//
// # Usage
//
// The boids command takes one optional argument:
//
//	boids [config_file]
//
// It is the path to a TOML config file.
// If no config file is specified, an interactive simulation
// with default parameters will run in an OpenGL window.
//
// # Config file
//
// The config file is written in TOML. Every field of Config may be set,
// missing fields keep their default value and unknown fields are an error.
// When Output is set, the simulation runs for Steps steps of duration Dt
// and the flock is recorded in the HDF5 file at that path.
//
// # Interactive mode
//
// In interactive mode, the simulation can be paused/resumed with space.
// While in pause, pressing right arrow will perform a single step.
// Tab and shift tab allow to cycle through focal agents,
// whose field of view is shown.
// Left click adds an agent with a random direction,
// left drag adds an agent heading along the drag.
// Right click removes the most recently added agent.
// Scrolling zooms and R resets the view.
// Pressing Esc or closing the window will quit.
package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/PrincetonUniversity/boids"
	"github.com/PrincetonUniversity/boids/geom"
	"github.com/PrincetonUniversity/boids/hdf5"
	"github.com/PrincetonUniversity/boids/opengl"
	"github.com/pkg/errors"
	"github.com/ttacon/chalk"
)

const usage = `Usage: boids [config_file]

The first argument is optional and is the path to a TOML config file.
If no config file is specified, an interactive simulation
with default parameters will run in an OpenGL window.
`

func init() {
	// Most OpenGL functions have to run from the main thread.
	// This is needed to arrange that main() runs on main thread.
	// See https://github.com/golang/go/wiki/LockOSThread for more info.
	runtime.LockOSThread()
}

func main() {
	var conf *Config
	var err error
	switch len(os.Args) {
	case 1:
		conf = DefaultConf()
	case 2:
		conf, err = ParseConfig(os.Args[1])
	default:
		err = fmt.Errorf("%d arguments provided (0 required, 1 optional)\n\n%s", len(os.Args)-1, usage)
	}
	if err != nil {
		Fatal(err)
	}

	sim, err := setup(conf)
	if err != nil {
		Fatal(err)
	}
	log.Printf("run %s: %d agents, %d workers", sim.ID, sim.Len(), sim.Workers)

	// run interactively or not depending on config
	if conf.Output == "" {
		err = opengl.Run(sim, &opengl.Config{
			MaxSwarmSize: conf.MaxSwarmSize,
			FPS:          conf.FPS,
			Step:         stepper(sim),
			Spawn: func(pos, dir geom.Vec2) error {
				_, err := sim.Spawn(pos, dir)
				return err
			},
			Pop:  func() { sim.Pop() },
			Xmin: 0,
			Ymin: 0,
			Xmax: conf.WorldSize,
			Ymax: conf.WorldSize,
		})
	} else {
		step := stepper(sim)
		err = hdf5.Run(sim, &hdf5.Config{
			Output:   conf.Output,
			Steps:    conf.Steps,
			Step:     func() error { return step(conf.Dt) },
			Attrs:    conf,
			Datasets: datasets(conf),
		})
	}
	if err != nil {
		Fatal(err)
	}
}

// Fatal prints an error on the standard error and exits with a non-zero status.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "%sError: %s%s\n", chalk.Red, err, chalk.Reset)
	os.Exit(1)
}

// setup initializes the flock.
func setup(conf *Config) (*boids.Simulation, error) {
	seed := conf.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sim, err := boids.New(conf.Params(), rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}
	sim.Workers = conf.Workers
	if err := sim.SpawnRandom(conf.SwarmSize); err != nil {
		return nil, err
	}
	return sim, nil
}

// stepper returns a step function that drops the agents
// whose velocity cannot be normalized and carries on with the others.
func stepper(sim *boids.Simulation) func(dt float64) error {
	return func(dt float64) error {
		err := sim.Step(dt)
		var tick *boids.TickError
		if !errors.As(err, &tick) {
			return err
		}
		for _, a := range tick.Agents {
			if !errors.Is(a.Err, boids.ErrDegenerateState) {
				return err
			}
		}
		log.Printf("%swarning: %s, dropping %d agents%s", chalk.Yellow, tick, len(tick.Agents), chalk.Reset)
		sim.Remove(tick.Indices()...)
		return nil
	}
}

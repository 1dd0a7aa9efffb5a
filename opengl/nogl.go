//go:build nogl
// +build nogl

package opengl

import (
	"fmt"
	"os"

	"github.com/PrincetonUniversity/boids"
	"github.com/PrincetonUniversity/boids/geom"
)

// Config holds the parameters of the OpenGL driver.
type Config struct {
	MaxSwarmSize int
	FPS          float64
	Step         func(dt float64) error
	Spawn        func(pos, dir geom.Vec2) error
	Pop          func()
	ForcePause   bool

	// Bounds of default viewport.
	Xmin float64
	Ymin float64
	Xmax float64
	Ymax float64
}

// Run returns an error explaining that OpenGL support is disabled.
func Run(s *boids.Simulation, conf *Config) error {
	return fmt.Errorf("%s was built without OpenGL support", os.Args[0])
}

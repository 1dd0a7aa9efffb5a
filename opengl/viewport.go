package opengl

import (
	"log"
	"math"

	"github.com/PrincetonUniversity/boids/geom"
	"github.com/ttacon/chalk"
)

// A viewport is a rectangle delimiting the area of simulation space shown on screen.
// The first point is the bottom left corner, the second point is the top right corner.
type viewport [2]struct{ X, Y float32 }

func newViewport(xmin, ymin, xmax, ymax float64) viewport {
	return viewport{{float32(xmin), float32(ymin)}, {float32(xmax), float32(ymax)}}
}

// zoom scales the viewport around the point at relative coordinates (x, y) in [0, 1]².
// A positive amount zooms out.
func (vp viewport) zoom(x, y, amount float32) viewport {
	dx, dy := vp[1].X-vp[0].X, vp[1].Y-vp[0].Y
	z := 0.05 * amount
	vp[0].X += z * -(x * dx)
	vp[0].Y += z * -(y * dy)
	vp[1].X += z * (1 - x) * dx
	vp[1].Y += z * (1 - y) * dy
	return vp
}

// toWorld maps window coordinates, origin at the top left corner, to simulation space.
func (vp viewport) toWorld(xc, yc float64, width, height int) geom.Vec2 {
	x, y := xc/float64(width), (float64(height)-yc)/float64(height)
	return geom.Vec2{
		X: float64(vp[0].X) + x*float64(vp[1].X-vp[0].X),
		Y: float64(vp[0].Y) + y*float64(vp[1].Y-vp[0].Y),
	}
}

// wedge returns the vertices of a triangle fan covering the field of view
// of an agent at pos, as interleaved float32 coordinates.
// The window is centered on heading and spans fov radians out to radius r.
func wedge(pos geom.Vec2, heading, fov, r float64, segments int) []float32 {
	v := make([]float32, 0, 2*(segments+2))
	v = append(v, float32(pos.X), float32(pos.Y))
	for k := 0; k <= segments; k++ {
		θ := heading - fov/2 + fov*float64(k)/float64(segments)
		sin, cos := math.Sincos(θ)
		v = append(v, float32(pos.X+r*sin), float32(pos.Y+r*cos))
	}
	return v
}

// cycle moves the focal index by step through [-1, n-1], -1 meaning no focal agent.
func cycle(focal, step, n int) int {
	return (focal+1+step+n+1)%(n+1) - 1
}

// spawn adds an agent through add and logs a warning if it is refused.
func spawn(add func(pos, dir geom.Vec2) error, pos, dir geom.Vec2) bool {
	if err := add(pos, dir); err != nil {
		log.Printf("%swarning: cannot spawn agent at %v: %s%s", chalk.Yellow, pos, err, chalk.Reset)
		return false
	}
	return true
}

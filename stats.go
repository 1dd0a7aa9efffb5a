package boids

import "github.com/PrincetonUniversity/boids/geom"

// Centroid returns the mean position of the states, or the origin if there are none.
func Centroid(states []State) geom.Vec2 {
	var c geom.Vec2
	if len(states) == 0 {
		return c
	}
	for _, s := range states {
		c = c.Add(s.Pos)
	}
	return c.Scale(1 / float64(len(states)))
}

// Polarization returns the norm of the mean unit velocity:
// 1 when all agents head the same way, close to 0 when headings are disordered.
func Polarization(states []State) float64 {
	var m geom.Vec2
	var n int
	for _, s := range states {
		v := geom.Norm(s.Vel)
		if v == 0 {
			continue
		}
		m = m.Add(s.Vel.Scale(1 / v))
		n++
	}
	if n == 0 {
		return 0
	}
	return geom.Norm(m) / float64(n)
}

// MeanSpeed returns the average norm of the velocities.
func MeanSpeed(states []State) float64 {
	if len(states) == 0 {
		return 0
	}
	var sum float64
	for _, s := range states {
		sum += geom.Norm(s.Vel)
	}
	return sum / float64(len(states))
}

package main

import "github.com/PrincetonUniversity/boids/hdf5"

// datasets lists what is recorded at each step.
func datasets(conf *Config) []*hdf5.Dataset {
	return []*hdf5.Dataset{
		hdf5.Agents(conf.MaxSwarmSize),
		hdf5.Polarization(),
		hdf5.MeanSpeed(),
		hdf5.Centroid(),
	}
}

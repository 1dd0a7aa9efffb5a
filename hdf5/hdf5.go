// Package hdf5 records the evolution of a flock into an HDF5 file.
package hdf5

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/PrincetonUniversity/boids"
	"github.com/PrincetonUniversity/boids/geom"
	"github.com/pkg/errors"
	"gonum.org/v1/hdf5"
)

// A Dataset stipulates how to generate data and where to store them in the HDF5 file.
type Dataset struct {
	// Name the name of the dataset in the HDF5 file.
	Name string

	// Val is a value of the same concrete type as the underlying type of the data.
	Val interface{}

	// Dims are the dimensions of the data for a single step.
	Dims []int

	// Data is a function that produces the data
	// as a pointer to a slice of row-major concrete values,
	// or a pointer to a single value when Dims is empty.
	Data func(s *boids.Simulation) interface{}

	dset   *hdf5.Dataset
	fspace *hdf5.Dataspace
	mspace *hdf5.Dataspace
}

// Config holds the parameters of the HDF5 driver.
type Config struct {
	Output   string       // path of output file
	Steps    int          // total number of steps
	Step     func() error // go to next step
	Attrs    interface{}  // pointer to a struct saved as attributes of the "config" dataset
	Datasets []*Dataset   // list of datasets
}

// Run runs a simulation and saves data to an HDF5 file.
// Data are recorded before each step, so the first record is the initial state.
func Run(s *boids.Simulation, conf *Config) (err error) {
	if conf.Steps < 1 {
		return errors.Errorf("hdf5: %d steps, nothing to record", conf.Steps)
	}
	if err := os.MkdirAll(filepath.Dir(conf.Output), 0755); err != nil {
		return err
	}

	file, err := hdf5.CreateFile(conf.Output, hdf5.F_ACC_TRUNC)
	if err != nil {
		return errors.Wrapf(err, "hdf5: create %s", conf.Output)
	}
	defer checkClose(&err, file)

	if err := saveConfig(file, s, conf); err != nil {
		return errors.Wrap(err, "hdf5: save config")
	}

	for _, d := range conf.Datasets {
		if err := d.init(file, conf); err != nil {
			return errors.Wrapf(err, "hdf5: create dataset %q", d.Name)
		}
		defer checkClose(&err, d)
	}

	for k := uint(0); k < uint(conf.Steps); k++ {
		// show progress as percentage
		fmt.Printf("\r% 3d%%", 100*k/uint(conf.Steps))

		for _, d := range conf.Datasets {
			start := make([]uint, len(d.Dims)+1)
			start[0] = k
			if err := d.fspace.SetOffset(start); err != nil {
				return err
			}
			if err := d.dset.WriteSubset(d.Data(s), d.mspace, d.fspace); err != nil {
				return errors.Wrapf(err, "hdf5: write %q at step %d", d.Name, k)
			}
		}

		if err := conf.Step(); err != nil {
			return err
		}
	}
	fmt.Printf("\r100%%\n")
	return nil
}

// A Record is what is stored for each agent at each step.
// This structure is mapped to a compound datatype in HDF5 so member names are important.
type Record struct {
	Pos     geom.Vec2 // position
	Vel     geom.Vec2 // velocity
	Speed   float64   // norm of velocity
	Heading float64   // angle of velocity
}

// Agents returns a dataset of the records of up to capacity agents per step.
// Missing agents, e.g. dropped after a failure, are recorded as zero values.
func Agents(capacity int) *Dataset {
	return &Dataset{
		Name: "agents",
		Val:  Record{},
		Dims: []int{capacity},
		Data: func(s *boids.Simulation) interface{} {
			r := make([]Record, capacity)
			for i, a := range s.Flock {
				if i == capacity {
					break
				}
				r[i] = Record{Pos: a.Pos(), Vel: a.Vel(), Speed: a.Speed(), Heading: a.Heading()}
			}
			return &r
		},
	}
}

// Polarization returns a dataset of the polarization of the flock at each step.
func Polarization() *Dataset {
	return &Dataset{
		Name: "polarization",
		Val:  0.0,
		Data: func(s *boids.Simulation) interface{} {
			p := boids.Polarization(s.Snapshot())
			return &p
		},
	}
}

// MeanSpeed returns a dataset of the mean speed of the flock at each step.
func MeanSpeed() *Dataset {
	return &Dataset{
		Name: "speed",
		Val:  0.0,
		Data: func(s *boids.Simulation) interface{} {
			v := boids.MeanSpeed(s.Snapshot())
			return &v
		},
	}
}

// Centroid returns a dataset of the center of the flock at each step.
func Centroid() *Dataset {
	return &Dataset{
		Name: "centroid",
		Val:  geom.Vec2{},
		Data: func(s *boids.Simulation) interface{} {
			c := boids.Centroid(s.Snapshot())
			return &c
		},
	}
}

// saveConfig creates a "config" dataset with a null dataspace whose attributes
// reflect the whole configuration plus some other appropriate metadata.
func saveConfig(file *hdf5.File, s *boids.Simulation, conf *Config) (err error) {
	null, err := hdf5.CreateDataspace(hdf5.S_NULL)
	if err != nil {
		return err
	}
	defer checkClose(&err, null)

	anytype, err := hdf5.NewDatatypeFromValue(0)
	if err != nil {
		return err
	}
	defer checkClose(&err, anytype)

	dset, err := file.CreateDataset("config", anytype, null)
	if err != nil {
		return err
	}
	defer checkClose(&err, dset)

	scalar, err := hdf5.CreateDataspace(hdf5.S_SCALAR)
	if err != nil {
		return err
	}
	defer checkClose(&err, scalar)

	now := time.Now().String()
	if err := writeAttr(dset, scalar, "Time", &now); err != nil {
		return err
	}
	id := s.ID.String()
	if err := writeAttr(dset, scalar, "RunID", &id); err != nil {
		return err
	}

	if conf.Attrs == nil {
		return nil
	}
	v := reflect.ValueOf(conf.Attrs).Elem()
	for i := 0; i < v.NumField(); i++ {
		if err := writeAttr(dset, scalar, v.Type().Field(i).Name, v.Field(i).Addr().Interface()); err != nil {
			return err
		}
	}
	return nil
}

// writeAttr writes the value pointed to by ptr as a scalar attribute of dset.
func writeAttr(dset *hdf5.Dataset, scalar *hdf5.Dataspace, name string, ptr interface{}) (err error) {
	dtype, err := hdf5.NewDatatypeFromValue(reflect.ValueOf(ptr).Elem().Interface())
	if err != nil {
		return errors.Wrapf(err, "attribute %s", name)
	}
	defer checkClose(&err, dtype)

	attr, err := dset.CreateAttribute(name, dtype, scalar)
	if err != nil {
		return errors.Wrapf(err, "attribute %s", name)
	}
	defer checkClose(&err, attr)

	return attr.Write(ptr, dtype)
}

// init creates the dataset in file with room for conf.Steps records,
// and selects the record of the first step.
func (d *Dataset) init(file *hdf5.File, conf *Config) (err error) {
	// release whatever was created if anything fails
	defer func() {
		if err != nil {
			d.Close()
		}
	}()

	dtype, err := hdf5.NewDatatypeFromValue(d.Val)
	if err != nil {
		return err
	}
	defer checkClose(&err, dtype)

	// one leading dimension for steps, then the dimensions of a record
	extent := []uint{uint(conf.Steps)}
	for _, n := range d.Dims {
		extent = append(extent, uint(n))
	}
	if d.fspace, err = hdf5.CreateSimpleDataspace(extent, nil); err != nil {
		return err
	}
	record := append([]uint{1}, extent[1:]...)
	if err := d.fspace.SelectHyperslab(make([]uint, len(extent)), nil, record, nil); err != nil {
		return err
	}

	if len(d.Dims) > 0 {
		d.mspace, err = hdf5.CreateSimpleDataspace(extent[1:], nil)
	} else {
		d.mspace, err = hdf5.CreateDataspace(hdf5.S_SCALAR)
	}
	if err != nil {
		return err
	}

	d.dset, err = file.CreateDataset(d.Name, dtype, d.fspace)
	return err
}

// Close releases the dataset and its dataspaces, those that were created.
func (d *Dataset) Close() (err error) {
	if d.dset != nil {
		checkClose(&err, d.dset)
	}
	if d.mspace != nil {
		checkClose(&err, d.mspace)
	}
	if d.fspace != nil {
		checkClose(&err, d.fspace)
	}
	d.dset, d.mspace, d.fspace = nil, nil, nil
	return err
}

// checkClose checks for errors in deferred calls.
func checkClose(err *error, c io.Closer) {
	if cerr := c.Close(); *err == nil {
		*err = cerr
	}
}

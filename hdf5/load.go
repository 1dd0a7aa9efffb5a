package hdf5

import (
	"github.com/pkg/errors"
	"gonum.org/v1/hdf5"
)

// A Loader sequentially loads the agents recorded in an HDF5 file.
type Loader struct {
	i uint // index of current step
	n uint // total number of steps

	data []Record // data buffer

	file   *hdf5.File
	dset   *hdf5.Dataset
	fspace *hdf5.Dataspace
	mspace *hdf5.Dataspace
}

// NewLoader opens the "agents" dataset of the HDF5 file at path.
func NewLoader(path string) (l *Loader, err error) {
	l = new(Loader)
	l.file, err = hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, errors.Wrapf(err, "hdf5: open %s", path)
	}
	l.dset, err = l.file.OpenDataset("agents")
	if err != nil {
		checkClose(&err, l.file)
		return nil, err
	}
	l.fspace = l.dset.Space()
	dims, _, err := l.fspace.SimpleExtentDims()
	if err != nil {
		l.closeAll(&err)
		return nil, err
	}
	if len(dims) != 2 {
		err = errors.Errorf("hdf5: expected 2 dimensions, got %d", len(dims))
		l.closeAll(&err)
		return nil, err
	}
	if dims[0] == 0 {
		err = errors.New("hdf5: no recorded step")
		l.closeAll(&err)
		return nil, err
	}
	l.n = dims[0]

	l.mspace, err = hdf5.CreateSimpleDataspace(dims[1:], nil)
	if err != nil {
		l.closeAll(&err)
		return nil, err
	}

	start := []uint{0, 0}
	count := []uint{1, dims[1]}
	if err := l.fspace.SelectHyperslab(start, nil, count, nil); err != nil {
		checkClose(&err, l.mspace)
		l.closeAll(&err)
		return nil, err
	}

	l.data = make([]Record, dims[1])

	return l, nil
}

// Len returns the number of recorded steps.
func (l *Loader) Len() int {
	return int(l.n)
}

// Load loads the agents of the next step into r
// and cycles when every step has already been loaded.
func (l *Loader) Load(r *[]Record) error {
	start := []uint{l.i, 0}
	if err := l.fspace.SetOffset(start); err != nil {
		return err
	}
	l.i = (l.i + 1) % l.n

	if err := l.dset.ReadSubset(&l.data, l.mspace, l.fspace); err != nil {
		return errors.Wrap(err, "hdf5: read agents")
	}

	// records are valid until the first empty slot
	*r = (*r)[:0]
	for _, p := range l.data {
		if p.Speed == 0 {
			break
		}
		*r = append(*r, p)
	}

	return nil
}

// Close closes the dataset and the file.
func (l *Loader) Close() (err error) {
	checkClose(&err, l.mspace)
	l.closeAll(&err)
	return err
}

func (l *Loader) closeAll(err *error) {
	checkClose(err, l.fspace)
	checkClose(err, l.dset)
	checkClose(err, l.file)
}

package hdf5

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/PrincetonUniversity/boids"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/hdf5"
)

func testSimulation(t *testing.T, n int) *boids.Simulation {
	t.Helper()
	p := &boids.Parameters{
		MaxSpeed:        200,
		MinSpeed:        100,
		FieldOfView:     3.14,
		RangeOfView:     40,
		ProtectedRange:  12,
		AvoidWeight:     0.05,
		MatchingWeight:  0.05,
		CenteringWeight: 0.0005,
		TurnWeight:      20,
		WorldSize:       1000,
		Margin:          100,
	}
	s, err := boids.New(p, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.NoError(t, s.SpawnRandom(n))
	return s
}

func TestRunAndLoad(t *testing.T) {
	s := testSimulation(t, 10)
	initial := s.Snapshot()
	attrs := struct {
		SwarmSize int
		Dt        float64
		Label     string
	}{10, 0.04, "test"}

	path := filepath.Join(t.TempDir(), "run", "boids.h5")
	err := Run(s, &Config{
		Output:   path,
		Steps:    5,
		Step:     func() error { return s.Step(0.04) },
		Attrs:    &attrs,
		Datasets: []*Dataset{Agents(16), Polarization(), MeanSpeed(), Centroid()},
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(5), s.Tick)

	l, err := NewLoader(path)
	require.NoError(t, err)
	defer func() { assert.NoError(t, l.Close()) }()
	assert.Equal(t, 5, l.Len())

	var r []Record
	require.NoError(t, l.Load(&r))
	require.Len(t, r, 10, "empty slots are trimmed")
	for i, q := range r {
		assert.Equal(t, initial[i].Pos, q.Pos)
		assert.Equal(t, initial[i].Vel, q.Vel)
		assert.True(t, q.Speed >= 100 && q.Speed <= 200)
	}

	// the loader cycles through steps
	for k := 0; k < 5; k++ {
		require.NoError(t, l.Load(&r))
	}
	assert.Equal(t, initial[0].Pos, r[0].Pos)
}

func TestRunStepError(t *testing.T) {
	s := testSimulation(t, 3)
	fail := errors.New("stop")
	err := Run(s, &Config{
		Output:   filepath.Join(t.TempDir(), "boids.h5"),
		Steps:    3,
		Step:     func() error { return fail },
		Datasets: []*Dataset{Polarization()},
	})
	assert.Equal(t, fail, errors.Cause(err))
}

func TestAgentsCapacity(t *testing.T) {
	s := testSimulation(t, 5)
	r := *Agents(3).Data(s).(*[]Record)
	require.Len(t, r, 3)
	assert.Equal(t, s.Flock[2].Pos(), r[2].Pos)

	r = *Agents(8).Data(s).(*[]Record)
	require.Len(t, r, 8)
	assert.Equal(t, Record{}, r[7])
}

func TestRunWithoutSteps(t *testing.T) {
	s := testSimulation(t, 3)
	err := Run(s, &Config{
		Output:   filepath.Join(t.TempDir(), "boids.h5"),
		Steps:    0,
		Step:     func() error { return s.Step(0.04) },
		Datasets: []*Dataset{Agents(4)},
	})
	assert.Error(t, err)
	assert.Zero(t, s.Tick)
}

func TestLoaderEmptyRecording(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.h5")

	// an agents dataset with no step at all
	file, err := hdf5.CreateFile(path, hdf5.F_ACC_TRUNC)
	require.NoError(t, err)
	dtype, err := hdf5.NewDatatypeFromValue(Record{})
	require.NoError(t, err)
	space, err := hdf5.CreateSimpleDataspace([]uint{0, 4}, nil)
	require.NoError(t, err)
	dset, err := file.CreateDataset("agents", dtype, space)
	require.NoError(t, err)
	require.NoError(t, dset.Close())
	require.NoError(t, space.Close())
	require.NoError(t, dtype.Close())
	require.NoError(t, file.Close())

	l, err := NewLoader(path)
	assert.Error(t, err)
	assert.Nil(t, l)
}

func TestDatasetCloseUninitialized(t *testing.T) {
	d := Polarization()
	assert.NoError(t, d.Close())
	assert.NoError(t, d.Close())
}

package model

import (
	"os"
	"testing"

	filter "github.com/milosgajdos/go-track"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

var (
	x    *mat.VecDense
	F, H *mat.Dense
	Q    *mat.SymDense
)

func setup() {
	x = mat.NewVecDense(2, []float64{0.5, 0.6})

	F = mat.NewDense(2, 2, []float64{1.0, 1.0, 0.0, 1.0})
	Q = mat.NewSymDense(2, []float64{0.1, 0.0, 0.0, 0.1})
	H = mat.NewDense(1, 2, []float64{1.0, 0.0})
}

func TestMain(m *testing.M) {
	// set up tests
	setup()
	// run the tests
	retCode := m.Run()
	// call with result of m.Run()
	os.Exit(retCode)
}

func TestNewLinear(t *testing.T) {
	assert := assert.New(t)

	l, err := NewLinear(F, Q, H)
	assert.NotNil(l)
	assert.NoError(err)

	// no process noise
	l, err = NewLinear(F, nil, H)
	assert.NotNil(l)
	assert.NoError(err)
	assert.True(mat.Equal(mat.NewSymDense(2, nil), l.StateNoise()))

	l, err = NewLinear(nil, Q, H)
	assert.Nil(l)
	assert.Error(err)

	// non-square F
	l, err = NewLinear(mat.NewDense(2, 3, nil), Q, H)
	assert.Nil(l)
	assert.True(errors.Is(err, filter.ErrDimensionMismatch))

	// Q does not match F
	l, err = NewLinear(F, mat.NewSymDense(3, nil), H)
	assert.Nil(l)
	assert.True(errors.Is(err, filter.ErrDimensionMismatch))

	// H does not match F
	l, err = NewLinear(F, Q, mat.NewDense(1, 3, nil))
	assert.Nil(l)
	assert.True(errors.Is(err, filter.ErrDimensionMismatch))
}

func TestLinearMatricesImmutable(t *testing.T) {
	assert := assert.New(t)

	f := mat.DenseCopyOf(F)
	l, err := NewLinear(f, Q, H)
	assert.NoError(err)

	// changing the source matrix does not change the model
	f.Set(0, 1, 10.0)
	assert.True(mat.Equal(F, l.StateMatrix()))

	// nor does changing the returned matrix
	sm := l.StateMatrix().(*mat.Dense)
	sm.Set(0, 0, 5.0)
	assert.True(mat.Equal(F, l.StateMatrix()))

	assert.True(mat.Equal(H, l.OutputMatrix()))
	assert.True(mat.Equal(Q, l.StateNoise()))

	n, m := l.Dims()
	assert.Equal(2, n)
	assert.Equal(1, m)
}

func TestLinearPropagateObserve(t *testing.T) {
	assert := assert.New(t)

	l, err := NewLinear(F, Q, H)
	assert.NoError(err)

	v, err := l.Propagate(x)
	assert.NoError(err)
	assert.InDelta(1.1, v.AtVec(0), 1e-12)
	assert.InDelta(0.6, v.AtVec(1), 1e-12)

	y, err := l.Observe(x)
	assert.NoError(err)
	assert.Equal(1, y.Len())
	assert.Equal(0.5, y.AtVec(0))

	_x := mat.NewVecDense(3, nil)
	v, err = l.Propagate(_x)
	assert.Nil(v)
	assert.True(errors.Is(err, filter.ErrDimensionMismatch))

	y, err = l.Observe(_x)
	assert.Nil(y)
	assert.True(errors.Is(err, filter.ErrDimensionMismatch))

	v, err = l.Propagate(nil)
	assert.Nil(v)
	assert.Error(err)
}

func TestLinearString(t *testing.T) {
	assert := assert.New(t)

	l, err := NewLinear(F, nil, H)
	assert.NoError(err)
	assert.Contains(l.String(), "Linear{")
}

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestDiscretize(t *testing.T) {
	assert := assert.New(t)

	dt, q := 0.5, 2.0
	A := mat.NewDense(2, 2, []float64{0.0, 1.0, 0.0, 0.0})
	Qc := mat.NewSymDense(2, []float64{0.0, 0.0, 0.0, q})

	Fd, Qd, err := Discretize(A, Qc, dt)
	assert.NoError(err)

	cv, err := NewConstantVelocity(dt, q)
	assert.NoError(err)

	assert.True(mat.EqualApprox(cv.StateMatrix(), Fd, 1e-9))
	assert.True(mat.EqualApprox(cv.StateNoise(), Qd, 1e-9))

	// no process noise
	Fd, Qd, err = Discretize(A, nil, dt)
	assert.NoError(err)
	assert.NotNil(Fd)
	assert.True(mat.EqualApprox(mat.NewSymDense(2, nil), Qd, 1e-12))

	for _, tc := range []struct {
		name string
		A    mat.Matrix
		Qc   mat.Symmetric
		dt   float64
	}{
		{name: "nil A", A: nil, dt: 1.0},
		{name: "zero dt", A: A, dt: 0.0},
		{name: "non-square A", A: mat.NewDense(2, 3, nil), dt: 1.0},
		{name: "bad Qc", A: A, Qc: mat.NewSymDense(3, nil), dt: 1.0},
	} {
		Fd, Qd, err := Discretize(tc.A, tc.Qc, tc.dt)
		assert.Nil(Fd, tc.name)
		assert.Nil(Qd, tc.name)
		assert.Error(err, tc.name)
	}
}

func TestNewConstantVelocity(t *testing.T) {
	assert := assert.New(t)

	cv, err := NewConstantVelocity(1.0, 0.0)
	assert.NoError(err)

	assert.True(mat.Equal(mat.NewDense(2, 2, []float64{1, 1, 0, 1}), cv.StateMatrix()))
	assert.True(mat.Equal(mat.NewSymDense(2, nil), cv.StateNoise()))
	assert.True(mat.Equal(mat.NewDense(1, 2, []float64{1, 0}), cv.OutputMatrix()))

	cv, err = NewConstantVelocity(-1.0, 0.0)
	assert.Nil(cv)
	assert.Error(err)

	cv, err = NewConstantVelocity(1.0, -0.1)
	assert.Nil(cv)
	assert.Error(err)
}

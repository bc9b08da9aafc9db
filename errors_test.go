package filter

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestDimError(t *testing.T) {
	assert := assert.New(t)

	err := CheckDims("update", "z", mat.NewVecDense(2, nil), 1, 1)
	assert.Error(err)
	assert.True(errors.Is(err, ErrDimensionMismatch))
	assert.False(errors.Is(err, ErrSingularInnovationCovariance))
	assert.Equal("update: dimension mismatch: z is [2 x 1], expected [1 x 1]", err.Error())

	var dimErr *DimError
	assert.True(errors.As(errors.Wrap(err, "step 3"), &dimErr))
	assert.Equal(2, dimErr.Rows)
	assert.Equal(1, dimErr.WantRows)

	err = CheckDims("predict", "P", mat.NewSymDense(2, nil), 2, 2)
	assert.NoError(err)
}

func TestSingularError(t *testing.T) {
	assert := assert.New(t)

	err := errors.Wrap(&SingularError{Dim: 1, Rank: 0, Cond: math.Inf(1)}, "kalman gain")
	assert.True(errors.Is(err, ErrSingularInnovationCovariance))
	assert.Contains(err.Error(), "rank 0")
	assert.Contains(err.Error(), "[1 x 1]")
}

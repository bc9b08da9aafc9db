package filter

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrDimensionMismatch is returned when operand dimensions disagree with the model
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrSingularInnovationCovariance is returned when innovation covariance can't be inverted
	ErrSingularInnovationCovariance = errors.New("singular innovation covariance")
)

// DimError describes an operand whose shape is inconsistent with the model.
type DimError struct {
	// Op is the operation which detected the mismatch
	Op string
	// Name is the operand name
	Name string
	// Rows and Cols are the operand dimensions
	Rows, Cols int
	// WantRows and WantCols are the expected dimensions
	WantRows, WantCols int
}

// NewDimError creates new DimError and returns it.
func NewDimError(op, name string, r, c, wr, wc int) *DimError {
	return &DimError{Op: op, Name: name, Rows: r, Cols: c, WantRows: wr, WantCols: wc}
}

func (e *DimError) Error() string {
	return fmt.Sprintf("%s: %v: %s is [%d x %d], expected [%d x %d]",
		e.Op, ErrDimensionMismatch, e.Name, e.Rows, e.Cols, e.WantRows, e.WantCols)
}

// Unwrap returns ErrDimensionMismatch.
func (e *DimError) Unwrap() error { return ErrDimensionMismatch }

// SingularError describes an innovation covariance which failed to invert.
type SingularError struct {
	// Dim is the size of the innovation covariance
	Dim int
	// Rank is its numerical rank
	Rank int
	// Cond is its condition number; +Inf when factorization failed
	Cond float64
}

func (e *SingularError) Error() string {
	return fmt.Sprintf("%v: [%d x %d] rank %d, cond %g", ErrSingularInnovationCovariance, e.Dim, e.Dim, e.Rank, e.Cond)
}

// Unwrap returns ErrSingularInnovationCovariance.
func (e *SingularError) Unwrap() error { return ErrSingularInnovationCovariance }

// CheckDims returns DimError if m is not a [r x c] matrix.
func CheckDims(op, name string, m interface{ Dims() (int, int) }, r, c int) error {
	mr, mc := m.Dims()
	if mr != r || mc != c {
		return NewDimError(op, name, mr, mc, r, c)
	}
	return nil
}

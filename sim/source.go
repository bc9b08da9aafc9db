package sim

import (
	"fmt"

	filter "github.com/milosgajdos/go-track"
	"gonum.org/v1/gonum/mat"
)

// Source simulates a sensor observing a dynamical system.
// It propagates the true system state and returns noisy measurements of it.
type Source struct {
	// m is the true system model
	m filter.LinearModel
	// x is the current true state
	x *mat.VecDense
	// q is process noise added to the true state
	q filter.Noise
	// r is measurement noise
	r filter.Noise
}

// NewSource creates new measurement Source and returns it.
// It accepts the following parameters:
//   - m:  model of the true system
//   - x0: initial true state
//   - q:  process noise added to true state on every step; nil means none
//   - r:  measurement noise; its covariance is reported as measurement covariance
//
// It returns error if the noise dimensions don't match the model.
func NewSource(m filter.LinearModel, x0 mat.Vector, q, r filter.Noise) (*Source, error) {
	if m == nil || x0 == nil || r == nil {
		return nil, fmt.Errorf("invalid source: model, initial state and measurement noise must be defined")
	}

	nx, ny := m.Dims()
	if x0.Len() != nx {
		return nil, fmt.Errorf("invalid initial state dimension: %d", x0.Len())
	}

	if q != nil && q.Cov().SymmetricDim() != nx {
		return nil, fmt.Errorf("invalid state noise dimension: %d", q.Cov().SymmetricDim())
	}

	if r.Cov().SymmetricDim() != ny {
		return nil, fmt.Errorf("invalid measurement noise dimension: %d", r.Cov().SymmetricDim())
	}

	return &Source{
		m: m,
		x: mat.VecDenseCopyOf(x0),
		q: q,
		r: r,
	}, nil
}

// Next advances the true system by one step and returns its new state and
// a measurement of it corrupted by measurement noise.
func (s *Source) Next() (truth mat.Vector, z mat.Vector, err error) {
	x, err := s.m.Propagate(s.x)
	if err != nil {
		return nil, nil, fmt.Errorf("true state propagation failed: %w", err)
	}

	xNext := mat.VecDenseCopyOf(x)
	if s.q != nil {
		xNext.AddVec(xNext, s.q.Sample())
	}
	s.x = xNext

	y, err := s.m.Observe(xNext)
	if err != nil {
		return nil, nil, fmt.Errorf("true state observation failed: %w", err)
	}

	meas := mat.VecDenseCopyOf(y)
	meas.AddVec(meas, s.r.Sample())

	return mat.VecDenseCopyOf(xNext), meas, nil
}

// State returns current true state
func (s *Source) State() mat.Vector {
	return mat.VecDenseCopyOf(s.x)
}

// MeasCov returns measurement noise covariance R
func (s *Source) MeasCov() mat.Symmetric {
	return s.r.Cov()
}

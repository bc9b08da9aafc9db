package filter

import "gonum.org/v1/gonum/mat"

// Filter is a linear dynamical system filter.
// It holds no state between calls: the caller owns the state and covariance
// and threads them through consecutive Predict and Update calls.
type Filter interface {
	// Predict propagates state x and covariance p to the next step
	Predict(x mat.Vector, p mat.Symmetric) (Estimate, error)
	// Update corrects state x and covariance p using measurement z with covariance r
	Update(x mat.Vector, p mat.Symmetric, z mat.Vector, r mat.Symmetric) (Estimate, error)
}

// Propagator propagates internal state of the system to the next step
type Propagator interface {
	// Propagate propagates internal state of the system to the next step
	Propagate(mat.Vector) (mat.Vector, error)
}

// Observer observes external state (output) of the system
type Observer interface {
	// Observe observes external state of the system
	Observe(mat.Vector) (mat.Vector, error)
}

// LinearModel is a linear dynamical system whose state is driven by
// constant propagation, process noise and observation matrices
type LinearModel interface {
	// Propagator is system propagator
	Propagator
	// Observer is system observer
	Observer
	// Dims returns state (n) and measurement (m) dimensions
	Dims() (n int, m int)
	// StateMatrix returns state transition matrix F
	StateMatrix() mat.Matrix
	// StateNoise returns process noise covariance Q
	StateNoise() mat.Symmetric
	// OutputMatrix returns measurement matrix H
	OutputMatrix() mat.Matrix
}

// InitCond is initial state condition of the filter
type InitCond interface {
	// State returns initial filter state
	State() mat.Vector
	// Cov returns initial state covariance
	Cov() mat.Symmetric
}

// Estimate is dynamical system filter estimate
type Estimate interface {
	// Val returns estimate value
	Val() mat.Vector
	// Cov returns estimate covariance
	Cov() mat.Symmetric
}

// Noise is dynamical system noise
type Noise interface {
	// Mean returns noise mean
	Mean() []float64
	// Cov returns covariance matrix of the noise
	Cov() mat.Symmetric
	// Sample returns a sample of the noise
	Sample() mat.Vector
	// Reset resets the noise
	Reset() error
}

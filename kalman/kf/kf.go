package kf

import (
	"log/slog"
	"math"

	filter "github.com/milosgajdos/go-track"
	"github.com/milosgajdos/go-track/estimate"
	"github.com/milosgajdos/go-track/matrix"
	"github.com/milosgajdos/go-track/model"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// KF is linear Kalman Filter.
// KF does not keep track of the filtered state: every call is a function of its
// arguments and the model matrices captured when the filter was created.
type KF struct {
	// m is snapshot of the system model taken by New
	m *model.Linear
	// nx and ny are state and measurement dimensions
	nx, ny int
	// f is state transition matrix
	f *mat.Dense
	// q is process noise covariance
	q *mat.SymDense
	// h is measurement matrix
	h *mat.Dense
	// eye is n x n identity matrix
	eye *mat.Dense
	// form is covariance update form
	form Form
	// tol is innovation covariance reciprocal condition tolerance
	tol float64
	// log logs filter faults
	log *slog.Logger
}

// New creates new KF and returns it.
// It accepts the following parameters:
//   - m: linear dynamical system model
//   - c: KF configuration; nil means DefaultConfig
//
// It returns error if either of the following conditions is met:
//   - invalid model is given: model dimensions must be positive integers
//   - model matrices don't match model dimensions
//   - invalid configuration is given
func New(m filter.LinearModel, c *Config) (*KF, error) {
	if m == nil {
		return nil, errors.New("invalid model: nil")
	}

	if c == nil {
		c = DefaultConfig()
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	nx, ny := m.Dims()
	if nx <= 0 || ny <= 0 {
		return nil, errors.Errorf("invalid model dimensions: [%d x %d]", nx, ny)
	}

	F, Q, H := m.StateMatrix(), m.StateNoise(), m.OutputMatrix()
	if F == nil || H == nil {
		return nil, errors.New("invalid model: missing state transition or measurement matrix")
	}

	if err := filter.CheckDims("kf", "F", F, nx, nx); err != nil {
		return nil, err
	}

	if err := filter.CheckDims("kf", "H", H, ny, nx); err != nil {
		return nil, err
	}

	q := mat.NewSymDense(nx, nil)
	if Q != nil {
		if err := filter.CheckDims("kf", "Q", Q, nx, nx); err != nil {
			return nil, err
		}
		q.CopySym(Q)
	}

	snap, err := model.NewLinear(F, q, H)
	if err != nil {
		return nil, err
	}

	tol := c.Tol
	if tol == 0 {
		tol = DefaultTol
	}

	log := c.Logger
	if log == nil {
		log = discardLogger()
	}

	return &KF{
		m:    snap,
		nx:   nx,
		ny:   ny,
		f:    mat.DenseCopyOf(F),
		q:    q,
		h:    mat.DenseCopyOf(H),
		eye:  matrix.Eye(nx),
		form: c.Form,
		tol:  tol,
		log:  log,
	}, nil
}

// Predict propagates state x and its covariance p to the next step and returns the prediction:
//
//	x' = F*x
//	P' = F*P*F' + Q
//
// It returns filter.DimError if x or p don't match the model state dimension.
func (k *KF) Predict(x mat.Vector, p mat.Symmetric) (filter.Estimate, error) {
	if err := k.checkState("predict", x, p); err != nil {
		return nil, err
	}

	nx := k.nx

	xNext := mat.NewVecDense(nx, nil)
	xNext.MulVec(k.f, x)

	fp := &mat.Dense{}
	fp.Mul(k.f, p)

	cov := &mat.Dense{}
	cov.Mul(fp, k.f.T())
	cov.Add(cov, k.q)

	pNext, err := matrix.Symmetrize(cov)
	if err != nil {
		return nil, errors.Wrap(err, "predicted covariance")
	}

	return estimate.NewBaseWithCov(xNext, pNext)
}

// Update corrects predicted state x and covariance p using measurement z
// with measurement noise covariance r and returns the corrected estimate.
// It returns filter.DimError if any of the arguments don't match the model dimensions
// and filter.SingularError if innovation covariance can't be inverted.
func (k *KF) Update(x mat.Vector, p mat.Symmetric, z mat.Vector, r mat.Symmetric) (filter.Estimate, error) {
	c, err := k.Correct(x, p, z, r)
	if err != nil {
		return nil, err
	}

	return c, nil
}

// Correct works like Update, but it returns the correction which also carries
// the innovation, innovation covariance and Kalman gain:
//
//	y  = z - H*x
//	S  = H*P*H' + R
//	K  = P*H'*S^-1
//	x' = x + K*y
//	P' = (I - K*H)*P
//
// The last step is replaced by (I - K*H)*P*(I - K*H)' + K*R*K' when the filter uses the Joseph form.
func (k *KF) Correct(x mat.Vector, p mat.Symmetric, z mat.Vector, r mat.Symmetric) (*estimate.Correction, error) {
	if err := k.checkState("update", x, p); err != nil {
		return nil, err
	}

	if err := k.checkMeas("update", z, r); err != nil {
		return nil, err
	}

	nx, ny := k.nx, k.ny

	// innovation vector
	hx := mat.NewVecDense(ny, nil)
	hx.MulVec(k.h, x)
	inn := mat.NewVecDense(ny, nil)
	inn.SubVec(z, hx)

	// P*H'
	pht := mat.NewDense(nx, ny, nil)
	pht.Mul(p, k.h.T())

	// Note: pht = P * H' so we reuse the result here
	// H*P*H' + R
	hpht := mat.NewDense(ny, ny, nil)
	hpht.Mul(k.h, pht)
	hpht.Add(hpht, r)

	s, err := matrix.Symmetrize(hpht)
	if err != nil {
		return nil, errors.Wrap(err, "innovation covariance")
	}

	gain, err := k.gain(s, pht)
	if err != nil {
		k.log.Debug("measurement update failed", "error", err, "innovation", mat.Formatted(inn.T(), mat.Squeeze()))
		return nil, err
	}

	// update state x
	corr := mat.NewVecDense(nx, nil)
	corr.MulVec(gain, inn)
	xNext := mat.NewVecDense(nx, nil)
	xNext.AddVec(x, corr)

	// I - K*H
	kh := &mat.Dense{}
	kh.Mul(gain, k.h)
	a := &mat.Dense{}
	a.Sub(k.eye, kh)

	cov := &mat.Dense{}
	cov.Mul(a, p)

	if k.form == Joseph {
		// (I - K*H)*P*(I - K*H)'
		apa := &mat.Dense{}
		apa.Mul(cov, a.T())

		// K*R*K'
		kr := &mat.Dense{}
		kr.Mul(gain, r)
		krk := &mat.Dense{}
		krk.Mul(kr, gain.T())

		cov.Add(apa, krk)
	}

	pNext, err := matrix.Symmetrize(cov)
	if err != nil {
		return nil, errors.Wrap(err, "corrected covariance")
	}

	return estimate.NewCorrection(xNext, pNext, inn, s, gain)
}

// Run runs one step of KF for given state x, covariance p and measurement z with covariance r.
// It predicts the next state and corrects it using measurement z and returns the corrected estimate.
// It returns error if it either fails to propagate or correct state x.
func (k *KF) Run(x mat.Vector, p mat.Symmetric, z mat.Vector, r mat.Symmetric) (filter.Estimate, error) {
	pred, err := k.Predict(x, p)
	if err != nil {
		return nil, err
	}

	return k.Update(pred.Val(), pred.Cov(), z, r)
}

// Model returns the model matrices captured when the filter was created.
func (k *KF) Model() filter.LinearModel {
	return k.m
}

// Form returns covariance update form
func (k *KF) Form() Form {
	return k.form
}

// gain calculates Kalman gain P*H'*S^-1 given innovation covariance s and pht = P*H'.
// It returns filter.SingularError if s is not positive definite or it is ill-conditioned.
func (k *KF) gain(s *mat.SymDense, pht *mat.Dense) (*mat.Dense, error) {
	var chol mat.Cholesky
	if ok := chol.Factorize(s); !ok {
		return nil, errors.Wrap(singular(s, k.tol), "kalman gain")
	}

	if cond := chol.Cond(); math.IsNaN(cond) || cond*k.tol > 1 {
		return nil, errors.Wrap(singular(s, k.tol), "kalman gain")
	}

	// S is symmetric so K' = S^-1 * (P*H')'
	kt := &mat.Dense{}
	if err := chol.SolveTo(kt, pht.T()); err != nil {
		return nil, errors.Wrap(singular(s, k.tol), "kalman gain")
	}

	return mat.DenseCopyOf(kt.T()), nil
}

func (k *KF) checkState(op string, x mat.Vector, p mat.Symmetric) error {
	nx := k.nx

	if x == nil || p == nil {
		return errors.Errorf("%s: invalid state: x %v, P %v", op, x, p)
	}

	if err := filter.CheckDims(op, "x", x, nx, 1); err != nil {
		return err
	}

	return filter.CheckDims(op, "P", p, nx, nx)
}

func (k *KF) checkMeas(op string, z mat.Vector, r mat.Symmetric) error {
	ny := k.ny

	if z == nil || r == nil {
		return errors.Errorf("%s: invalid measurement: z %v, R %v", op, z, r)
	}

	if err := filter.CheckDims(op, "z", z, ny, 1); err != nil {
		return err
	}

	return filter.CheckDims(op, "R", r, ny, ny)
}

// singular returns SingularError describing s.
func singular(s mat.Symmetric, tol float64) *filter.SingularError {
	n := s.SymmetricDim()
	e := &filter.SingularError{Dim: n, Cond: math.Inf(1)}

	var svd mat.SVD
	if ok := svd.Factorize(s, mat.SVDNone); !ok {
		return e
	}

	e.Rank = svd.Rank(tol)
	if cond := svd.Cond(); !math.IsNaN(cond) {
		e.Cond = cond
	}

	return e
}

package sim

import (
	"fmt"
	"os"

	filter "github.com/milosgajdos/go-track"
	"github.com/milosgajdos/go-track/kalman/kf"
	"github.com/milosgajdos/go-track/matrix"
	"github.com/milosgajdos/go-track/model"
	"github.com/milosgajdos/go-track/noise"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
)

// Scenario configures a 1-D constant velocity tracking simulation.
type Scenario struct {
	// Steps is the number of measurements
	Steps int `yaml:"steps"`
	// Dt is the sampling period
	Dt float64 `yaml:"dt"`
	// Sigma is measurement noise standard deviation
	Sigma float64 `yaml:"sigma"`
	// ProcessNoise is the white acceleration spectral density used by the filter
	ProcessNoise float64 `yaml:"process_noise"`
	// Seed seeds the measurement noise; zero seeds from clock
	Seed uint64 `yaml:"seed"`
	// Truth is the initial true [position, velocity]
	Truth []float64 `yaml:"truth"`
	// State is the initial filter state
	State []float64 `yaml:"state"`
	// Cov is the diagonal of the initial filter covariance
	Cov []float64 `yaml:"cov"`
	// Form is the covariance update form: simple or joseph
	Form string `yaml:"form"`
}

// DefaultScenario returns the scenario of 100 unit spaced measurements
// of a target moving with unit velocity measured with unit noise.
func DefaultScenario() *Scenario {
	return &Scenario{
		Steps: 100,
		Dt:    1.0,
		Sigma: 1.0,
		Seed:  10,
		Truth: []float64{0.0, 1.0},
		State: []float64{0.0, 0.0},
		Cov:   []float64{25.0, 25.0},
		Form:  kf.Simple.String(),
	}
}

// LoadScenario reads scenario from YAML file at path.
// Fields missing from the file keep their DefaultScenario values.
func LoadScenario(path string) (*Scenario, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	ret := DefaultScenario()
	if err := yaml.Unmarshal(content, ret); err != nil {
		return nil, fmt.Errorf("failed to parse scenario %s: %w", path, err)
	}

	if err := ret.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}

	return ret, nil
}

// Validate checks scenario values.
func (s *Scenario) Validate() error {
	if s.Steps <= 0 {
		return fmt.Errorf("invalid number of steps: %d", s.Steps)
	}

	if s.Dt <= 0 {
		return fmt.Errorf("invalid sampling period: %v", s.Dt)
	}

	if s.Sigma < 0 || s.ProcessNoise < 0 {
		return fmt.Errorf("invalid noise: sigma %v, process noise %v", s.Sigma, s.ProcessNoise)
	}

	if len(s.Truth) != 2 || len(s.State) != 2 || len(s.Cov) != 2 {
		return fmt.Errorf("truth, state and cov must have 2 elements")
	}

	if !matrix.IsPosSemiDef(matrix.DiagSym(s.Cov), 0) {
		return fmt.Errorf("invalid initial covariance: %v", s.Cov)
	}

	if _, err := kf.ParseForm(s.Form); err != nil {
		return err
	}

	return nil
}

// Model returns constant velocity model used by the filter.
func (s *Scenario) Model() (*model.Linear, error) {
	return model.NewConstantVelocity(s.Dt, s.ProcessNoise)
}

// Config returns filter configuration.
func (s *Scenario) Config() (*kf.Config, error) {
	form, err := kf.ParseForm(s.Form)
	if err != nil {
		return nil, err
	}

	c := kf.DefaultConfig()
	c.Form = form

	return c, nil
}

// InitCond returns initial condition of the filter.
func (s *Scenario) InitCond() (*InitCond, error) {
	return NewInitCond(mat.NewVecDense(len(s.State), s.State), matrix.DiagSym(s.Cov))
}

// Source returns measurement source observing the true target.
// The true target moves with exactly constant velocity.
func (s *Scenario) Source() (*Source, error) {
	truth, err := model.NewConstantVelocity(s.Dt, 0)
	if err != nil {
		return nil, err
	}

	var r filter.Noise
	if s.Sigma == 0 {
		r, err = noise.NewZero(1)
	} else {
		r, err = noise.NewGaussianWithSeed([]float64{0}, mat.NewSymDense(1, []float64{s.Sigma * s.Sigma}), s.Seed)
	}
	if err != nil {
		return nil, err
	}

	return NewSource(truth, mat.NewVecDense(len(s.Truth), s.Truth), nil, r)
}

package sim

import (
	"fmt"

	filter "github.com/milosgajdos/go-track"
	"gonum.org/v1/gonum/mat"
)

// Step is a single step of simulation run
type Step struct {
	// Truth is the true system state
	Truth mat.Vector
	// Meas is the measurement of the true state
	Meas mat.Vector
	// Pred is the filter prediction
	Pred filter.Estimate
	// Est is the filter estimate corrected by Meas
	Est filter.Estimate
}

// Run drives filter f with n measurements from src starting from initial condition ic.
// Every step predicts the filter state, draws a measurement from src and corrects the prediction with it.
// It stops on the first failure and returns the steps completed so far together with the error.
func Run(f filter.Filter, src *Source, ic filter.InitCond, n int) ([]Step, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid number of steps: %d", n)
	}

	x, p := ic.State(), ic.Cov()
	r := src.MeasCov()

	steps := make([]Step, 0, n)
	for i := 0; i < n; i++ {
		pred, err := f.Predict(x, p)
		if err != nil {
			return steps, fmt.Errorf("step %d: prediction failed: %w", i, err)
		}

		truth, z, err := src.Next()
		if err != nil {
			return steps, fmt.Errorf("step %d: %w", i, err)
		}

		est, err := f.Update(pred.Val(), pred.Cov(), z, r)
		if err != nil {
			return steps, fmt.Errorf("step %d: update failed: %w", i, err)
		}

		steps = append(steps, Step{Truth: truth, Meas: z, Pred: pred, Est: est})
		x, p = est.Val(), est.Cov()
	}

	return steps, nil
}

// Series returns the true, measured and filtered values of state element idx
// as n x 2 matrices whose rows are [step, value].
// The filtered value is read from the filter estimate; the measured one from the first measurement element.
// It returns error if steps is empty or idx is out of range.
func Series(steps []Step, idx int) (model, measure, filtered *mat.Dense, err error) {
	if len(steps) == 0 {
		return nil, nil, nil, fmt.Errorf("no steps")
	}

	if idx < 0 || idx >= steps[0].Truth.Len() {
		return nil, nil, nil, fmt.Errorf("invalid state index: %d", idx)
	}

	model = mat.NewDense(len(steps), 2, nil)
	measure = mat.NewDense(len(steps), 2, nil)
	filtered = mat.NewDense(len(steps), 2, nil)

	for i, s := range steps {
		k := float64(i + 1)
		model.SetRow(i, []float64{k, s.Truth.AtVec(idx)})
		measure.SetRow(i, []float64{k, s.Meas.AtVec(0)})
		filtered.SetRow(i, []float64{k, s.Est.Val().AtVec(idx)})
	}

	return model, measure, filtered, nil
}

package ability

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/catadaptive/pharmcat/internal/irt"
)

// Estimator computes updated ability estimates via Newton-Raphson on the 3PL
// log-likelihood. The Hessian uses the expected-information form (Fisher
// scoring), which is negative-definite wherever item information is positive
// and keeps the iteration stable.
type Estimator struct {
	cfg Config
}

// NewEstimator creates an estimator with the given iteration constants.
func NewEstimator(cfg Config) *Estimator {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultConfig().MaxIterations
	}
	if cfg.Epsilon <= 0 {
		cfg.Epsilon = DefaultConfig().Epsilon
	}
	if cfg.MinTheta >= cfg.MaxTheta {
		d := DefaultConfig()
		cfg.MinTheta, cfg.MaxTheta = d.MinTheta, d.MaxTheta
	}
	return &Estimator{cfg: cfg}
}

// Update computes a new estimate from the full response history and the
// previous estimate.
//
// When every response is identical (all correct or all incorrect) the
// likelihood has no interior maximum and unpenalized Newton-Raphson diverges
// toward the theta bound. That case uses Bayes-modal estimation with a normal
// prior centered on the previous estimate, tagged MethodBayesModal. The
// returned theta is always finite and clamped to [MinTheta, MaxTheta].
func (e *Estimator) Update(history []Observation, prior Estimate) Estimate {
	if len(history) == 0 {
		return prior
	}

	method := MethodMLE
	usePrior := degenerate(history)

	theta, converged := e.solve(history, prior, usePrior)
	if !converged && !usePrior {
		// Divergence on mixed data is rare but possible with extreme
		// parameters; the penalized surface always has a maximum.
		usePrior = true
		theta, _ = e.solve(history, prior, true)
	}
	if usePrior {
		method = MethodBayesModal
	}

	theta = e.clamp(theta)

	se := prior.StandardError
	if info := totalInformation(history, theta); info > 0 {
		se = 1.0 / math.Sqrt(info)
	}

	return Estimate{
		ID:            uuid.New().String(),
		Theta:         theta,
		StandardError: se,
		Method:        method,
		Timestamp:     time.Now().UTC(),
	}
}

// solve runs the Fisher-scoring iteration. With usePrior set, a normal prior
// N(prior.Theta, prior.Variance) penalizes the likelihood (Bayes-modal).
func (e *Estimator) solve(history []Observation, prior Estimate, usePrior bool) (float64, bool) {
	theta := prior.Theta

	// The penalty is never weaker than the initial prior, so a previous
	// estimate with a huge standard error still regularizes the step.
	priorInfo := prior.Information()
	if floor := 1.0 / (PriorStandardError * PriorStandardError); priorInfo < floor {
		priorInfo = floor
	}

	for i := 0; i < e.cfg.MaxIterations; i++ {
		gradient := 0.0
		info := 0.0

		for _, obs := range history {
			p := obs.Parameter.ProbabilityCorrect(theta)
			gradient += scoreContribution(obs, p, theta)
			info += obs.Parameter.FisherInformation(theta)
		}

		if usePrior {
			gradient -= (theta - prior.Theta) * priorInfo
			info += priorInfo
		}

		if info <= 0 {
			return theta, false
		}

		delta := gradient / info
		theta += delta

		if math.IsNaN(theta) || math.IsInf(theta, 0) {
			return prior.Theta, false
		}
		// Keep the iterate inside the plausible range so the next
		// evaluation stays in the informative region of the items.
		theta = e.clamp(theta)

		if math.Abs(delta) < e.cfg.Epsilon {
			return theta, true
		}
	}

	return theta, false
}

// scoreContribution is the per-item term of the 3PL log-likelihood gradient:
//
//	dL/dtheta = D*a * (p-c) * (u-p) / ((1-c) * p)
func scoreContribution(obs Observation, p float64, theta float64) float64 {
	param := obs.Parameter
	oneMinusGuessing := 1.0 - param.Guessing
	if oneMinusGuessing <= 0 || p <= 0 {
		return 0.0
	}

	u := 0.0
	if obs.Correct {
		u = 1.0
	}
	return irt.ScalingD * param.Discrimination * (p - param.Guessing) * (u - p) / (oneMinusGuessing * p)
}

func totalInformation(history []Observation, theta float64) float64 {
	total := 0.0
	for _, obs := range history {
		total += obs.Parameter.FisherInformation(theta)
	}
	return total
}

// degenerate reports whether every observation has the same outcome.
func degenerate(history []Observation) bool {
	for _, obs := range history[1:] {
		if obs.Correct != history[0].Correct {
			return false
		}
	}
	return true
}

func (e *Estimator) clamp(theta float64) float64 {
	return math.Max(e.cfg.MinTheta, math.Min(e.cfg.MaxTheta, theta))
}

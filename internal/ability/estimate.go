// Package ability estimates a learner's latent ability (theta) from the
// correct/incorrect response pattern observed so far.
package ability

import (
	"time"

	"github.com/google/uuid"

	"github.com/catadaptive/pharmcat/internal/irt"
)

// Method tags how an estimate was produced, so callers and tests can
// distinguish the normal convergence path from the degenerate-data fallback.
type Method string

const (
	// MethodPrior marks the seed estimate a session starts with.
	MethodPrior Method = "Prior"

	// MethodMLE marks a converged maximum-likelihood estimate.
	MethodMLE Method = "MLE"

	// MethodBayesModal marks the fallback used when the response pattern
	// has no interior likelihood maximum (all correct or all incorrect).
	MethodBayesModal Method = "Bayes-Modal"
)

// Default prior: a below-average starting ability with wide uncertainty, so
// early items are approachable and the first responses move the estimate.
const (
	PriorTheta         = -1.5
	PriorStandardError = 1.0
)

// Estimate is a point-in-time ability estimate.
type Estimate struct {
	ID            string    `json:"id"`
	Theta         float64   `json:"theta"`
	StandardError float64   `json:"standardError"`
	Method        Method    `json:"method"`
	Timestamp     time.Time `json:"timestamp"`
}

// Initial returns the prior estimate used to seed a new session.
func Initial() Estimate {
	return Estimate{
		ID:            uuid.New().String(),
		Theta:         PriorTheta,
		StandardError: PriorStandardError,
		Method:        MethodPrior,
		Timestamp:     time.Now().UTC(),
	}
}

// Variance returns the squared standard error.
func (e Estimate) Variance() float64 {
	return e.StandardError * e.StandardError
}

// Information returns 1/variance, or 0 when the standard error is 0.
func (e Estimate) Information() float64 {
	v := e.Variance()
	if v <= 0 {
		return 0.0
	}
	return 1.0 / v
}

// Observation pairs an administered item's parameters with the scored
// response, the unit of response history the estimator consumes.
type Observation struct {
	Parameter irt.Parameter `json:"parameter"`
	Correct   bool          `json:"correct"`
}

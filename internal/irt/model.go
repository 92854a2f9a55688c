// Package irt implements the 3-parameter logistic (3PL) item response model:
// the probability that a learner at ability theta answers an item correctly,
// and the Fisher information the item carries at that ability level.
package irt

import "math"

const (
	// ScalingD is the logistic scaling constant that aligns the logistic
	// curve with the normal ogive.
	ScalingD = 1.7

	// maxExponent caps the logistic exponent so exp never overflows.
	// Saturation behavior is unaffected: the logistic is already flat
	// well before |x| reaches 35.
	maxExponent = 35.0

	// minProbability keeps p strictly inside (0, 1) before divisions.
	minProbability = 1e-9
)

// Parameter holds the calibrated 3PL parameters for a single item.
// Parameters are supplied by the item bank; the engine never re-estimates
// them.
type Parameter struct {
	// Difficulty (b) is the ability level at which information peaks.
	Difficulty float64 `json:"difficulty"`

	// Discrimination (a) scales how sharply probability rises around b.
	// Must be positive.
	Discrimination float64 `json:"discrimination"`

	// Guessing (c) is the lower asymptote, the probability of a correct
	// answer by chance. Must be in [0, 1).
	Guessing float64 `json:"guessing"`
}

// DefaultParameter returns the parameter used when an item carries no
// calibration: moderate discrimination and a 4-option-MCQ guessing floor.
func DefaultParameter(difficulty float64) Parameter {
	return Parameter{
		Difficulty:     difficulty,
		Discrimination: 1.0,
		Guessing:       0.2,
	}
}

// ProbabilityCorrect returns the 3PL probability of a correct response at
// ability theta:
//
//	p = c + (1-c) / (1 + exp(-D*a*(theta-b)))
//
// The result lies in [c, 1). As theta → -inf, p → c; as theta → +inf, p → 1.
func (p Parameter) ProbabilityCorrect(theta float64) float64 {
	exponent := -ScalingD * p.Discrimination * (theta - p.Difficulty)
	capped := math.Max(-maxExponent, math.Min(maxExponent, exponent))
	logistic := 1.0 / (1.0 + math.Exp(capped))
	return p.Guessing + (1.0-p.Guessing)*logistic
}

// FisherInformation returns the information the item contributes at ability
// theta:
//
//	I = (D*a)^2 * (q/p) * ((p-c)/(1-c))^2
//
// Information peaks at theta == b (slightly above when c > 0). A degenerate
// guessing parameter (c >= 1) carries no information.
func (p Parameter) FisherInformation(theta float64) float64 {
	oneMinusGuessing := 1.0 - p.Guessing
	if oneMinusGuessing <= 0 {
		return 0.0
	}

	prob := p.ProbabilityCorrect(theta)
	clamped := math.Max(minProbability, math.Min(1.0-minProbability, prob))
	q := 1.0 - clamped

	scaledSlope := ScalingD * p.Discrimination
	normalized := (clamped - p.Guessing) / oneMinusGuessing
	return scaledSlope * scaledSlope * (q / clamped) * normalized * normalized
}

// Valid reports whether the parameter is usable for adaptive selection:
// positive discrimination and guessing inside [0, 1).
func (p Parameter) Valid() bool {
	return p.Discrimination > 0 && p.Guessing >= 0 && p.Guessing < 1
}

// Package simulation drives full adaptive sessions against a synthetic
// test-taker with a known true ability, for calibration runs and end-to-end
// verification of the engine.
package simulation

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/catadaptive/pharmcat/internal/itembank"
	"github.com/catadaptive/pharmcat/internal/session"
)

// Config controls a simulation run.
type Config struct {
	// TrueTheta is the simulated learner's actual ability.
	TrueTheta float64

	// Seed makes the run reproducible. Runs with the same seed, pool and
	// criteria produce identical transcripts.
	Seed int64

	// Criteria are the termination criteria for the simulated session.
	// A zero value selects session.DefaultCriteria.
	Criteria session.Criteria

	// ResponseTime is recorded on every simulated response.
	ResponseTime time.Duration
}

// DefaultConfig returns a run against an average learner.
func DefaultConfig() Config {
	return Config{
		TrueTheta:    0.0,
		Seed:         1,
		ResponseTime: 30 * time.Second,
	}
}

// Step is one administered item in the transcript.
type Step struct {
	ItemID        string  `json:"itemId"`
	Difficulty    float64 `json:"difficulty"`
	Correct       bool    `json:"correct"`
	ThetaAfter    float64 `json:"thetaAfter"`
	StandardError float64 `json:"standardError"`
}

// Result is the outcome of a completed simulated session.
type Result struct {
	TrueTheta  float64          `json:"trueTheta"`
	FinalTheta float64          `json:"finalTheta"`
	Steps      []Step           `json:"steps"`
	Report     *session.Report  `json:"report"`
	Snapshot   session.Snapshot `json:"snapshot"`
}

// TestTaker answers items stochastically according to the 3PL model at a
// fixed true ability.
type TestTaker struct {
	theta float64
	rng   *rand.Rand
}

// NewTestTaker creates a simulated learner with the given true ability.
func NewTestTaker(trueTheta float64, seed int64) *TestTaker {
	return &TestTaker{
		theta: trueTheta,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Respond draws a correct/incorrect outcome for one item.
func (tt *TestTaker) Respond(item *itembank.ItemTemplate) bool {
	p := item.Parameter.ProbabilityCorrect(tt.theta)
	return tt.rng.Float64() < p
}

// Run drives a session to completion: select, respond, re-estimate, evaluate,
// until the termination policy fires. The learner profile is synthetic.
func Run(pool []*itembank.ItemTemplate, cfg Config) (*Result, error) {
	learner, err := session.NewLearnerProfile("Simulated Learner")
	if err != nil {
		return nil, err
	}

	s := session.New(learner, pool, cfg.Criteria)
	if err := s.Start(); err != nil {
		return nil, fmt.Errorf("starting simulated session: %w", err)
	}

	taker := NewTestTaker(cfg.TrueTheta, cfg.Seed)
	var steps []Step

	for !s.IsComplete() {
		item, err := s.AdvanceToNextItem()
		if err != nil {
			return nil, fmt.Errorf("selecting item: %w", err)
		}
		if item == nil {
			break
		}

		correct := taker.Respond(item)
		score := 0.0
		if correct {
			score = 1.0
		}

		resp, err := s.RecordResponse(item.ID, correct, score, cfg.ResponseTime, "")
		if err != nil {
			return nil, fmt.Errorf("recording response for %s: %w", item.ID, err)
		}

		steps = append(steps, Step{
			ItemID:        item.ID,
			Difficulty:    item.Parameter.Difficulty,
			Correct:       correct,
			ThetaAfter:    resp.AbilityAfter.Theta,
			StandardError: resp.AbilityAfter.StandardError,
		})
	}

	return &Result{
		TrueTheta:  cfg.TrueTheta,
		FinalTheta: s.CurrentAbility().Theta,
		Steps:      steps,
		Report:     session.BuildReport(s),
		Snapshot:   s.Snapshot(),
	}, nil
}

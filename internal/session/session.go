// Package session orchestrates a computerized adaptive test: item selection
// by maximum information, ability re-estimation after every response, and a
// termination policy, all guarded by an explicit state machine.
package session

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/catadaptive/pharmcat/internal/ability"
	"github.com/catadaptive/pharmcat/internal/itembank"
)

// State is the session lifecycle state. Transitions are strictly
// NotStarted → InProgress → Completed; no transition skips a state.
type State int

const (
	StateNotStarted State = iota
	StateInProgress
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not-started"
	case StateInProgress:
		return "in-progress"
	case StateCompleted:
		return "completed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Session is the aggregate root for one learner's adaptive test. It is not
// safe for concurrent use; independent sessions need no coordination.
type Session struct {
	id        string
	learner   LearnerProfile
	criteria  Criteria
	estimator *ability.Estimator

	pool     []*itembank.ItemTemplate
	poolByID map[string]*itembank.ItemTemplate

	state            State
	administeredIDs  []string
	administered     map[string]bool
	responses        []Response
	abilityHistory   []ability.Estimate
	stallCount       int
	completionReason Reason

	prior ability.Estimate
}

// Option customizes session construction.
type Option func(*Session)

// WithEstimator replaces the default ability estimator.
func WithEstimator(est *ability.Estimator) Option {
	return func(s *Session) { s.estimator = est }
}

// WithPrior overrides the seed ability estimate used at Start.
func WithPrior(prior ability.Estimate) Option {
	return func(s *Session) { s.prior = prior }
}

// WithID fixes the session ID, used when restoring a persisted session.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// New creates a session in NotStarted. The pool should already be filtered
// by topic if the caller wants a topic-scoped test; the session treats it as
// read-only for its lifetime. A zero criteria value selects DefaultCriteria.
func New(learner LearnerProfile, pool []*itembank.ItemTemplate, criteria Criteria, opts ...Option) *Session {
	if criteria == (Criteria{}) {
		criteria = DefaultCriteria()
	}

	poolCopy := make([]*itembank.ItemTemplate, len(pool))
	copy(poolCopy, pool)

	byID := make(map[string]*itembank.ItemTemplate, len(poolCopy))
	for _, item := range poolCopy {
		byID[item.ID] = item
	}

	s := &Session{
		id:           uuid.New().String(),
		learner:      learner,
		criteria:     criteria,
		estimator:    ability.NewEstimator(ability.DefaultConfig()),
		pool:         poolCopy,
		poolByID:     byID,
		state:        StateNotStarted,
		administered: make(map[string]bool),
		prior:        ability.Initial(),
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start validates the item pool and moves the session to InProgress, seeding
// the ability history with the prior estimate.
func (s *Session) Start() error {
	if s.state != StateNotStarted {
		return &ErrInvalidState{Op: "Start", State: s.state}
	}
	if len(s.pool) == 0 {
		return &ErrItemPoolEmpty{}
	}

	s.abilityHistory = append(s.abilityHistory, s.prior)
	s.state = StateInProgress
	return nil
}

// AdvanceToNextItem returns the most informative unadministered item at the
// current ability estimate. It is an idempotent peek: session state is only
// mutated when the pool is exhausted, which completes the session and
// returns (nil, nil).
func (s *Session) AdvanceToNextItem() (*itembank.ItemTemplate, error) {
	if s.state != StateInProgress {
		return nil, &ErrInvalidState{Op: "AdvanceToNextItem", State: s.state}
	}

	item := SelectNext(s.pool, s.administered, s.CurrentAbility().Theta)
	if item == nil {
		s.complete(ReasonPoolExhausted)
		return nil, nil
	}
	return item, nil
}

// RecordResponse scores one administered item: it appends the response,
// re-estimates ability from the full history, updates the stall counter, and
// evaluates termination. Validation failures leave the session unchanged.
func (s *Session) RecordResponse(itemID string, correct bool, score float64, responseTime time.Duration, rawResponse string) (*Response, error) {
	if s.state != StateInProgress {
		return nil, &ErrInvalidState{Op: "RecordResponse", State: s.state}
	}

	item, known := s.poolByID[itemID]
	if !known {
		return nil, &ErrUnknownItem{ItemID: itemID}
	}
	if s.administered[itemID] {
		return nil, &ErrDuplicateItem{ItemID: itemID}
	}
	if math.IsNaN(score) || score < 0 || score > 1 {
		return nil, fmt.Errorf("score %v outside [0, 1]", score)
	}

	previous := s.CurrentAbility()

	history := s.observations()
	history = append(history, ability.Observation{Parameter: item.Parameter, Correct: correct})
	updated := s.estimator.Update(history, previous)

	response := Response{
		ID:           uuid.New().String(),
		ItemID:       itemID,
		Correct:      correct,
		Score:        score,
		ResponseTime: responseTime,
		RawResponse:  rawResponse,
		AbilityAfter: updated,
	}

	// All validation passed; commit atomically.
	s.administeredIDs = append(s.administeredIDs, itemID)
	s.administered[itemID] = true
	s.responses = append(s.responses, response)
	s.abilityHistory = append(s.abilityHistory, updated)

	if math.Abs(updated.Theta-previous.Theta) < StallEpsilon {
		s.stallCount++
	} else {
		s.stallCount = 0
	}

	if stop, reason := ShouldStop(updated, len(s.responses), s.stallCount, s.criteria); stop {
		s.complete(reason)
	}

	return &s.responses[len(s.responses)-1], nil
}

func (s *Session) complete(reason Reason) {
	s.state = StateCompleted
	s.completionReason = reason
}

// observations rebuilds the estimator's response history from the
// administered items.
func (s *Session) observations() []ability.Observation {
	obs := make([]ability.Observation, 0, len(s.responses)+1)
	for _, r := range s.responses {
		obs = append(obs, ability.Observation{
			Parameter: s.poolByID[r.ItemID].Parameter,
			Correct:   r.Correct,
		})
	}
	return obs
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Learner returns the learner profile.
func (s *Session) Learner() LearnerProfile { return s.learner }

// Criteria returns the termination criteria.
func (s *Session) Criteria() Criteria { return s.criteria }

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// IsComplete reports whether the session has terminated.
func (s *Session) IsComplete() bool { return s.state == StateCompleted }

// CompletionReason returns why the session completed, or "" while running.
func (s *Session) CompletionReason() Reason { return s.completionReason }

// StallCount returns the current run of sub-epsilon theta movements.
func (s *Session) StallCount() int { return s.stallCount }

// CurrentAbility returns the latest ability estimate. Before Start it is the
// configured prior.
func (s *Session) CurrentAbility() ability.Estimate {
	if len(s.abilityHistory) == 0 {
		return s.prior
	}
	return s.abilityHistory[len(s.abilityHistory)-1]
}

// AbilityHistory returns a copy of the ordered estimate history: the prior
// followed by one entry per response.
func (s *Session) AbilityHistory() []ability.Estimate {
	out := make([]ability.Estimate, len(s.abilityHistory))
	copy(out, s.abilityHistory)
	return out
}

// Responses returns a copy of the ordered response list.
func (s *Session) Responses() []Response {
	out := make([]Response, len(s.responses))
	copy(out, s.responses)
	return out
}

// AdministeredItemIDs returns a copy of the ordered administered item IDs.
func (s *Session) AdministeredItemIDs() []string {
	out := make([]string, len(s.administeredIDs))
	copy(out, s.administeredIDs)
	return out
}

// Pool returns a copy of the session's item pool.
func (s *Session) Pool() []*itembank.ItemTemplate {
	out := make([]*itembank.ItemTemplate, len(s.pool))
	copy(out, s.pool)
	return out
}

// Item returns the pool item with the given ID, or nil.
func (s *Session) Item(id string) *itembank.ItemTemplate {
	return s.poolByID[id]
}

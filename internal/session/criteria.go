package session

// StallEpsilon is the minimum theta movement between successive estimates.
// Smaller shifts count as a stall: the test is no longer gaining information.
const StallEpsilon = 0.01

// Criteria configures when an adaptive session stops. Immutable after
// session start.
type Criteria struct {
	// TargetStandardError stops the test once the ability estimate is
	// precise enough.
	TargetStandardError float64 `json:"targetStandardError"`

	// MaxItems caps the number of administered items.
	MaxItems int `json:"maxItems"`

	// MasteryTheta, when set, stops the test once the learner demonstrably
	// exceeds the mastery threshold.
	MasteryTheta *float64 `json:"masteryTheta,omitempty"`

	// MaxStallCount stops the test after this many successive estimates
	// that moved theta less than StallEpsilon.
	MaxStallCount int `json:"maxStallCount"`

	// MinItemsForMastery is the floor of administered items before a
	// mastery-based stop is honored, so one lucky early response cannot
	// end the test.
	MinItemsForMastery int `json:"minItemsForMastery"`
}

// DefaultCriteria returns the standard termination policy.
func DefaultCriteria() Criteria {
	mastery := 1.2
	return Criteria{
		TargetStandardError: 0.3,
		MaxItems:            25,
		MasteryTheta:        &mastery,
		MaxStallCount:       3,
		MinItemsForMastery:  5,
	}
}

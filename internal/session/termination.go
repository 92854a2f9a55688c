package session

import "github.com/catadaptive/pharmcat/internal/ability"

// Reason explains why a session completed.
type Reason string

const (
	ReasonMaxItems        Reason = "max-items"
	ReasonTargetPrecision Reason = "target-precision"
	ReasonMastery         Reason = "mastery"
	ReasonStalled         Reason = "stalled"
	ReasonPoolExhausted   Reason = "pool-exhausted"
)

// ShouldStop evaluates the termination criteria against the current ability
// estimate. Conditions are checked in a fixed priority order so the reported
// reason is deterministic when several hold at once.
func ShouldStop(est ability.Estimate, itemsAdministered, stallCount int, criteria Criteria) (bool, Reason) {
	if itemsAdministered >= criteria.MaxItems {
		return true, ReasonMaxItems
	}

	if est.StandardError <= criteria.TargetStandardError {
		return true, ReasonTargetPrecision
	}

	if criteria.MasteryTheta != nil &&
		est.Theta >= *criteria.MasteryTheta &&
		itemsAdministered >= criteria.MinItemsForMastery {
		return true, ReasonMastery
	}

	if stallCount >= criteria.MaxStallCount {
		return true, ReasonStalled
	}

	return false, ""
}

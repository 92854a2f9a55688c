package session

import (
	"fmt"

	"github.com/catadaptive/pharmcat/internal/ability"
	"github.com/catadaptive/pharmcat/internal/itembank"
)

// SnapshotVersion is the current snapshot schema version. Bump when the
// serialized shape changes incompatibly.
const SnapshotVersion = 1

// Snapshot is the explicit, versioned serialized form of a started session:
// everything needed to reconstruct the state machine exactly, so a persisted
// session resumes deterministically after a crash.
type Snapshot struct {
	Version             int                `json:"version"`
	SessionID           string             `json:"sessionId"`
	Learner             LearnerProfile     `json:"learner"`
	Criteria            Criteria           `json:"criteria"`
	AdministeredItemIDs []string           `json:"administeredItemIds"`
	Responses           []Response         `json:"responses"`
	AbilityHistory      []ability.Estimate `json:"abilityHistory"`
	StallCount          int                `json:"stallCount"`
	Complete            bool               `json:"complete"`
	CompletionReason    Reason             `json:"completionReason,omitempty"`
}

// Snapshot captures the session's full state. Only meaningful after Start.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Version:             SnapshotVersion,
		SessionID:           s.id,
		Learner:             s.learner,
		Criteria:            s.criteria,
		AdministeredItemIDs: s.AdministeredItemIDs(),
		Responses:           s.Responses(),
		AbilityHistory:      s.AbilityHistory(),
		StallCount:          s.stallCount,
		Complete:            s.state == StateCompleted,
		CompletionReason:    s.completionReason,
	}
}

// Restore rebuilds a session from a snapshot and the item pool it was
// started with. The aggregate invariants are re-validated before any state
// is committed, so a corrupted snapshot never yields a half-built session.
// No reflection is involved; this is the package's own reconstruction path.
func Restore(snap Snapshot, pool []*itembank.ItemTemplate, opts ...Option) (*Session, error) {
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d (want %d)", snap.Version, SnapshotVersion)
	}
	if snap.SessionID == "" {
		return nil, fmt.Errorf("snapshot has no session id")
	}
	if len(snap.Responses) != len(snap.AdministeredItemIDs) {
		return nil, fmt.Errorf("snapshot invariant violated: %d responses vs %d administered items",
			len(snap.Responses), len(snap.AdministeredItemIDs))
	}
	if len(snap.AbilityHistory) != len(snap.Responses)+1 {
		return nil, fmt.Errorf("snapshot invariant violated: %d ability estimates for %d responses",
			len(snap.AbilityHistory), len(snap.Responses))
	}

	restored := New(snap.Learner, pool, snap.Criteria, opts...)
	restored.id = snap.SessionID

	seen := make(map[string]bool, len(snap.AdministeredItemIDs))
	for i, itemID := range snap.AdministeredItemIDs {
		if _, ok := restored.poolByID[itemID]; !ok {
			return nil, &ErrUnknownItem{ItemID: itemID}
		}
		if seen[itemID] {
			return nil, &ErrDuplicateItem{ItemID: itemID}
		}
		if snap.Responses[i].ItemID != itemID {
			return nil, fmt.Errorf("snapshot invariant violated: response %d is for item %q, administered %q",
				i, snap.Responses[i].ItemID, itemID)
		}
		seen[itemID] = true
	}

	restored.administeredIDs = append([]string(nil), snap.AdministeredItemIDs...)
	restored.responses = append([]Response(nil), snap.Responses...)
	restored.abilityHistory = append([]ability.Estimate(nil), snap.AbilityHistory...)
	restored.stallCount = snap.StallCount
	for _, id := range snap.AdministeredItemIDs {
		restored.administered[id] = true
	}

	restored.prior = snap.AbilityHistory[0]
	if snap.Complete {
		restored.state = StateCompleted
		restored.completionReason = snap.CompletionReason
	} else {
		restored.state = StateInProgress
	}

	return restored, nil
}

package session

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/catadaptive/pharmcat/internal/ability"
)

// answeredSession starts a session against spreadPool(10) and records n
// alternating responses.
func answeredSession(t *testing.T, n int) *Session {
	t.Helper()

	s := New(testLearner(t), spreadPool(10), openEndedCriteria())
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	for i := 0; i < n; i++ {
		item, err := s.AdvanceToNextItem()
		if err != nil || item == nil {
			t.Fatalf("AdvanceToNextItem: item=%v err=%v", item, err)
		}
		correct := i%2 == 0
		score := 0.0
		if correct {
			score = 1.0
		}
		if _, err := s.RecordResponse(item.ID, correct, score, 4*time.Second, ""); err != nil {
			t.Fatalf("RecordResponse: %v", err)
		}
	}
	return s
}

func TestSnapshot_JSONRoundTrip(t *testing.T) {
	s := answeredSession(t, 3)
	snap := s.Snapshot()

	raw, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded Snapshot
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	restored, err := Restore(decoded, s.Pool())
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if restored.ID() != s.ID() {
		t.Errorf("ID = %q, want %q", restored.ID(), s.ID())
	}
	if restored.State() != StateInProgress {
		t.Errorf("State = %s, want in-progress", restored.State())
	}
	if !reflect.DeepEqual(restored.AdministeredItemIDs(), s.AdministeredItemIDs()) {
		t.Errorf("administered IDs differ:\n got %v\nwant %v",
			restored.AdministeredItemIDs(), s.AdministeredItemIDs())
	}
	if !reflect.DeepEqual(restored.Responses(), s.Responses()) {
		t.Errorf("responses differ:\n got %+v\nwant %+v", restored.Responses(), s.Responses())
	}
	if !reflect.DeepEqual(restored.AbilityHistory(), s.AbilityHistory()) {
		t.Errorf("ability history differs:\n got %+v\nwant %+v",
			restored.AbilityHistory(), s.AbilityHistory())
	}
	if restored.StallCount() != s.StallCount() {
		t.Errorf("StallCount = %d, want %d", restored.StallCount(), s.StallCount())
	}
}

func TestRestore_SessionResumes(t *testing.T) {
	s := answeredSession(t, 3)

	restored, err := Restore(s.Snapshot(), s.Pool())
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}

	// Already-administered items stay rejected after the rebuild.
	administered := s.AdministeredItemIDs()[0]
	var dupErr *ErrDuplicateItem
	if _, err := restored.RecordResponse(administered, true, 1, time.Second, ""); !errors.As(err, &dupErr) {
		t.Fatalf("RecordResponse(%s) error = %v, want ErrDuplicateItem", administered, err)
	}

	item, err := restored.AdvanceToNextItem()
	if err != nil || item == nil {
		t.Fatalf("AdvanceToNextItem: item=%v err=%v", item, err)
	}
	if _, err := restored.RecordResponse(item.ID, true, 1, time.Second, ""); err != nil {
		t.Fatalf("RecordResponse after restore: %v", err)
	}
	if got := len(restored.Responses()); got != 4 {
		t.Errorf("len(Responses) = %d, want 4", got)
	}
}

func TestRestore_CompletedSession(t *testing.T) {
	criteria := openEndedCriteria()
	criteria.MaxItems = 2

	s := New(testLearner(t), spreadPool(10), criteria)
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	for !s.IsComplete() {
		item, err := s.AdvanceToNextItem()
		if err != nil {
			t.Fatalf("AdvanceToNextItem: %v", err)
		}
		if _, err := s.RecordResponse(item.ID, true, 1, time.Second, ""); err != nil {
			t.Fatalf("RecordResponse: %v", err)
		}
	}

	restored, err := Restore(s.Snapshot(), s.Pool())
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored.State() != StateCompleted {
		t.Errorf("State = %s, want completed", restored.State())
	}
	if restored.CompletionReason() != ReasonMaxItems {
		t.Errorf("CompletionReason = %s, want %s", restored.CompletionReason(), ReasonMaxItems)
	}
	var stateErr *ErrInvalidState
	if _, err := restored.AdvanceToNextItem(); !errors.As(err, &stateErr) {
		t.Errorf("AdvanceToNextItem on completed restore error = %v, want ErrInvalidState", err)
	}
}

func TestRestore_RejectsCorruptSnapshots(t *testing.T) {
	s := answeredSession(t, 3)
	pool := s.Pool()
	base := s.Snapshot()

	tests := []struct {
		name   string
		mutate func(*Snapshot)
	}{
		{"wrong version", func(sn *Snapshot) { sn.Version = 99 }},
		{"missing session id", func(sn *Snapshot) { sn.SessionID = "" }},
		{"response count mismatch", func(sn *Snapshot) { sn.Responses = sn.Responses[:2] }},
		{"history count mismatch", func(sn *Snapshot) { sn.AbilityHistory = sn.AbilityHistory[:2] }},
		{"unknown item", func(sn *Snapshot) {
			sn.AdministeredItemIDs[1] = "no-such-item"
			sn.Responses[1].ItemID = "no-such-item"
		}},
		{"duplicate item", func(sn *Snapshot) {
			sn.AdministeredItemIDs[1] = sn.AdministeredItemIDs[0]
			sn.Responses[1].ItemID = sn.Responses[0].ItemID
		}},
		{"response out of order", func(sn *Snapshot) {
			sn.Responses[0], sn.Responses[1] = sn.Responses[1], sn.Responses[0]
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := base
			snap.AdministeredItemIDs = append([]string(nil), base.AdministeredItemIDs...)
			snap.Responses = append([]Response(nil), base.Responses...)
			snap.AbilityHistory = append([]ability.Estimate(nil), base.AbilityHistory...)

			tt.mutate(&snap)
			if _, err := Restore(snap, pool); err == nil {
				t.Error("Restore accepted a corrupt snapshot")
			}
		})
	}
}

package session

import (
	"testing"

	"github.com/catadaptive/pharmcat/internal/itembank"
)

func TestSelectNext_MaximumInformation(t *testing.T) {
	pool := []*itembank.ItemTemplate{
		testItem("easy", -1, 1, 0.2),
		testItem("medium", 0, 1, 0.2),
		testItem("hard", 1, 1, 0.2),
	}

	got := SelectNext(pool, map[string]bool{}, 0)
	if got == nil || got.ID != "medium" {
		t.Errorf("SelectNext(theta=0) = %v, want the b=0 item", got)
	}
}

func TestSelectNext_SkipsAdministered(t *testing.T) {
	pool := []*itembank.ItemTemplate{
		testItem("easy", -1, 1, 0.2),
		testItem("medium", 0, 1, 0.2),
		testItem("hard", 1, 1, 0.2),
	}

	got := SelectNext(pool, map[string]bool{"medium": true}, 0)
	if got == nil || got.ID == "medium" {
		t.Errorf("SelectNext = %v, want an unadministered item", got)
	}
}

func TestSelectNext_DeterministicTieBreak(t *testing.T) {
	// Identical parameters: information ties exactly; lowest ID wins.
	pool := []*itembank.ItemTemplate{
		testItem("b-item", 0, 1, 0.2),
		testItem("a-item", 0, 1, 0.2),
		testItem("c-item", 0, 1, 0.2),
	}

	for i := 0; i < 5; i++ {
		got := SelectNext(pool, map[string]bool{}, 0)
		if got == nil || got.ID != "a-item" {
			t.Fatalf("SelectNext = %v, want a-item (lowest ID)", got)
		}
	}
}

func TestSelectNext_ExhaustedPool(t *testing.T) {
	pool := []*itembank.ItemTemplate{
		testItem("only", 0, 1, 0.2),
	}

	got := SelectNext(pool, map[string]bool{"only": true}, 0)
	if got != nil {
		t.Errorf("SelectNext on exhausted pool = %v, want nil", got)
	}

	if got := SelectNext(nil, map[string]bool{}, 0); got != nil {
		t.Errorf("SelectNext on empty pool = %v, want nil", got)
	}
}

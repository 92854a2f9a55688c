package session

import (
	"time"

	"github.com/catadaptive/pharmcat/internal/ability"
)

// Response records a single administered item's outcome. Responses are
// append-only: one per administered item, created exactly once.
type Response struct {
	ID           string           `json:"id"`
	ItemID       string           `json:"itemId"`
	Correct      bool             `json:"correct"`
	Score        float64          `json:"score"`
	ResponseTime time.Duration    `json:"responseTime"`
	RawResponse  string           `json:"rawResponse,omitempty"`
	AbilityAfter ability.Estimate `json:"abilityAfter"`
}

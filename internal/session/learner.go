package session

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// LearnerProfile identifies the person taking the adaptive test.
type LearnerProfile struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Objectives []string `json:"objectives,omitempty"`
}

// NewLearnerProfile creates a profile with a generated ID. The name is
// required; blank objectives are dropped.
func NewLearnerProfile(name string, objectives ...string) (LearnerProfile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return LearnerProfile{}, errors.New("learner name is required")
	}

	var goals []string
	for _, goal := range objectives {
		if g := strings.TrimSpace(goal); g != "" {
			goals = append(goals, g)
		}
	}

	return LearnerProfile{
		ID:         uuid.New().String(),
		Name:       name,
		Objectives: goals,
	}, nil
}

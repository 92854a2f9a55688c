// Package itembank holds the fixed, pre-calibrated item pool the adaptive
// engine draws from. Items are authored and calibrated externally; the engine
// only reads their IDs and 3PL parameters.
package itembank

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/catadaptive/pharmcat/internal/irt"
)

// Format identifies how an item is answered.
type Format string

const (
	FormatMultipleChoice Format = "MultipleChoice"
	FormatShortAnswer    Format = "ShortAnswer"
	FormatCaseScenario   Format = "CaseScenario"
	FormatMechanistic    Format = "MechanisticExplanation"
)

// ValidFormat reports whether f is a known item format.
func ValidFormat(f Format) bool {
	switch f {
	case FormatMultipleChoice, FormatShortAnswer, FormatCaseScenario, FormatMechanistic:
		return true
	}
	return false
}

// Choice is a single answer option for a multiple-choice item.
type Choice struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// NewChoice creates a choice with a generated ID.
func NewChoice(text string, correct bool) Choice {
	return Choice{
		ID:      uuid.New().String(),
		Text:    text,
		Correct: correct,
	}
}

// ItemTemplate is an immutable test item. Sessions reference items by ID and
// never own them; many sessions may share one pool.
type ItemTemplate struct {
	ID                string        `json:"id"`
	Stem              string        `json:"stem"`
	Choices           []Choice      `json:"choices,omitempty"`
	Format            Format        `json:"format"`
	Parameter         irt.Parameter `json:"parameter"`
	Topic             string        `json:"topic,omitempty"`
	Subtopic          string        `json:"subtopic,omitempty"`
	Explanation       string        `json:"explanation,omitempty"`
	BloomLevel        string        `json:"bloomLevel,omitempty"`
	LearningObjective string        `json:"learningObjective,omitempty"`
}

// New validates and normalizes an item template, generating an ID when none
// is supplied.
func New(t ItemTemplate) (*ItemTemplate, error) {
	t.Stem = strings.TrimSpace(t.Stem)
	t.Topic = strings.TrimSpace(t.Topic)
	t.Subtopic = strings.TrimSpace(t.Subtopic)
	t.Explanation = strings.TrimSpace(t.Explanation)
	t.LearningObjective = strings.TrimSpace(t.LearningObjective)

	if t.BloomLevel = strings.TrimSpace(t.BloomLevel); t.BloomLevel == "" {
		t.BloomLevel = "Apply"
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Format == "" {
		t.Format = FormatMultipleChoice
	}

	if err := t.validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *ItemTemplate) validate() error {
	if t.Stem == "" {
		return errors.New("stem is required")
	}
	if !ValidFormat(t.Format) {
		return fmt.Errorf("unknown item format %q", t.Format)
	}
	if t.Format == FormatMultipleChoice && len(t.Choices) == 0 {
		return errors.New("multiple choice items require at least one choice")
	}
	if !t.Parameter.Valid() {
		return fmt.Errorf("invalid item parameter: a=%v c=%v", t.Parameter.Discrimination, t.Parameter.Guessing)
	}
	return nil
}

// TopicKey returns the grouping key used for per-topic report aggregation:
// the topic when set, otherwise the item ID.
func (t *ItemTemplate) TopicKey() string {
	if t.Topic != "" {
		return t.Topic
	}
	return t.ID
}

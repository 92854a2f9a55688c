package session

// Report is the read-only summary derived from a completed or in-progress
// session, the only data the engine emits for downstream display.
type Report struct {
	SessionID        string             `json:"sessionId"`
	LearnerName      string             `json:"learnerName"`
	FinalTheta       float64            `json:"finalTheta"`
	StandardError    float64            `json:"standardError"`
	CorrectCount     int                `json:"correctCount"`
	TotalCount       int                `json:"totalCount"`
	AccuracyPercent  float64            `json:"accuracyPercent"`
	IsComplete       bool               `json:"isComplete"`
	CompletionReason Reason             `json:"completionReason,omitempty"`
	TopicPerformance map[string]float64 `json:"topicPerformance"`
}

// BuildReport summarizes the session's current state. Topic performance is
// the average score per topic; items without a topic group under their own
// item ID.
func BuildReport(s *Session) *Report {
	final := s.CurrentAbility()

	correct := 0
	topicTotals := make(map[string]float64)
	topicCounts := make(map[string]int)

	for _, r := range s.Responses() {
		if r.Correct {
			correct++
		}
		key := r.ItemID
		if item := s.Item(r.ItemID); item != nil {
			key = item.TopicKey()
		}
		topicTotals[key] += r.Score
		topicCounts[key]++
	}

	performance := make(map[string]float64, len(topicTotals))
	for key, total := range topicTotals {
		performance[key] = total / float64(topicCounts[key])
	}

	total := len(s.Responses())
	accuracy := 0.0
	if total > 0 {
		accuracy = float64(correct) / float64(total) * 100.0
	}

	return &Report{
		SessionID:        s.ID(),
		LearnerName:      s.Learner().Name,
		FinalTheta:       final.Theta,
		StandardError:    final.StandardError,
		CorrectCount:     correct,
		TotalCount:       total,
		AccuracyPercent:  accuracy,
		IsComplete:       s.IsComplete(),
		CompletionReason: s.CompletionReason(),
		TopicPerformance: performance,
	}
}

package itembank

// BankSchema defines the JSON schema an item bank file must satisfy before
// any item reaches the engine.
var BankSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"items": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": map[string]any{
						"type":        "string",
						"description": "Stable item identifier; generated when omitted",
					},
					"stem": map[string]any{
						"type":        "string",
						"minLength":   1,
						"description": "The question text shown to the learner",
					},
					"format": map[string]any{
						"type": "string",
						"enum": []any{
							"MultipleChoice", "ShortAnswer",
							"CaseScenario", "MechanisticExplanation",
						},
					},
					"choices": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"id":      map[string]any{"type": "string"},
								"text":    map[string]any{"type": "string"},
								"correct": map[string]any{"type": "boolean"},
							},
							"required": []any{"text"},
						},
					},
					"parameter": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"difficulty": map[string]any{
								"type": "number",
							},
							"discrimination": map[string]any{
								"type":             "number",
								"exclusiveMinimum": 0,
							},
							"guessing": map[string]any{
								"type":             "number",
								"minimum":          0,
								"exclusiveMaximum": 1,
							},
						},
						"required": []any{"difficulty", "discrimination", "guessing"},
					},
					"topic":             map[string]any{"type": "string"},
					"subtopic":          map[string]any{"type": "string"},
					"explanation":       map[string]any{"type": "string"},
					"bloomLevel":        map[string]any{"type": "string"},
					"learningObjective": map[string]any{"type": "string"},
				},
				"required": []any{"stem", "parameter"},
			},
		},
	},
	"required": []any{"items"},
}

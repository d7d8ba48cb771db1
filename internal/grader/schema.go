package grader

import "github.com/abhisek/homeroom/internal/llm"

// GradeSchema is the structured output requested from the model. All
// properties are required and no others are allowed, which strict
// structured-output modes demand.
var GradeSchema = &llm.Schema{
	Name:        "explanation-grade",
	Description: "A graded student explanation",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score": map[string]any{
				"type":        "number",
				"description": "Score from 0 to 100",
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "Constructive feedback for the student",
			},
			"strengths": map[string]any{
				"type":        "string",
				"description": "What the explanation does well",
			},
			"weaknesses": map[string]any{
				"type":        "string",
				"description": "What the explanation misses or gets wrong",
			},
		},
		"required":             []any{"score", "feedback", "strengths", "weaknesses"},
		"additionalProperties": false,
	},
}

// Package grader scores a student's written explanation of a learning
// objective with an LLM.
package grader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"github.com/abhisek/homeroom/internal/academic"
	"github.com/abhisek/homeroom/internal/llm"
)

// Config holds generation settings for grading requests.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the grading defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   512,
		Temperature: 0.2,
	}
}

// Grade is the grader's verdict on one explanation.
type Grade struct {
	// Score is in [0, 100].
	Score      float64
	Feedback   string
	Strengths  string
	Weaknesses string
	Model      string
}

// Grader grades explanations against an objective description.
type Grader struct {
	provider llm.Provider
	cfg      Config
	logger   *zap.Logger
}

// New creates a Grader.
func New(provider llm.Provider, cfg Config, logger *zap.Logger) *Grader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Grader{provider: provider, cfg: cfg, logger: logger.Named("grader")}
}

// gradeOutput is the raw model response.
type gradeOutput struct {
	Score      *float64 `json:"score"`
	Feedback   string   `json:"feedback"`
	Strengths  string   `json:"strengths"`
	Weaknesses string   `json:"weaknesses"`
}

// Grade asks the model to score explanation. A missing score counts as 0
// and out-of-range scores are clamped.
func (g *Grader) Grade(ctx context.Context, objective academic.LearningObjective, explanation string) (Grade, error) {
	explanation = strings.TrimSpace(explanation)
	if explanation == "" {
		return Grade{}, &academic.ValidationError{Field: "explanation", Value: explanation, Reason: "must not be empty"}
	}

	msg, err := buildGradeMessage(objective.Description, explanation)
	if err != nil {
		return Grade{}, fmt.Errorf("build grading prompt: %w", err)
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeExplanationGrade)
	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      gradeSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: msg}},
		Schema:      GradeSchema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return Grade{}, fmt.Errorf("grade explanation: %w", err)
	}

	var raw gradeOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return Grade{}, fmt.Errorf("parse grade response: %w", err)
	}

	score := 0.0
	if raw.Score != nil && !math.IsNaN(*raw.Score) {
		score = math.Max(0, math.Min(100, *raw.Score))
	}

	g.logger.Debug("graded explanation",
		zap.String("objective_id", objective.ID),
		zap.Float64("score", score),
		zap.String("model", resp.Model),
	)

	return Grade{
		Score:      score,
		Feedback:   raw.Feedback,
		Strengths:  raw.Strengths,
		Weaknesses: raw.Weaknesses,
		Model:      resp.Model,
	}, nil
}

const gradeSystemPrompt = `You are a strict teacher grading a high-school student's written explanation of a learning objective.

Evaluate the explanation on:
1. Accuracy: is it factually correct?
2. Clarity: could a classmate follow it?
3. Depth: does it show real understanding rather than a memorized phrase?

Instructions:
- Return a whole-number score from 0 to 100.
- Feedback is one or two constructive sentences addressed to the student.
- Strengths and weaknesses are one short sentence each. Use an empty string when there are none.
- Grade only what the student wrote. Do not reward length.`

var gradeUserTemplate = template.Must(template.New("grade").Parse(`Learning objective: {{.Objective}}

Student explanation:
"""
{{.Explanation}}
"""`))

func buildGradeMessage(objective, explanation string) (string, error) {
	var buf bytes.Buffer
	err := gradeUserTemplate.Execute(&buf, struct {
		Objective   string
		Explanation string
	}{objective, explanation})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

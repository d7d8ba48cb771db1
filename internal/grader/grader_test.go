package grader

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/abhisek/homeroom/internal/academic"
	"github.com/abhisek/homeroom/internal/llm"
)

var slopeObjective = academic.LearningObjective{
	ID:          "obj-1",
	CourseID:    "course-1",
	Description: "Interpret slope as a rate of change",
}

func TestGrade_ParsesResponse(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockJSON(map[string]any{
		"score":      78,
		"feedback":   "Good link to rate of change; add units.",
		"strengths":  "Connects slope to rise over run.",
		"weaknesses": "No units.",
	}))
	g := New(mock, DefaultConfig(), zaptest.NewLogger(t))

	got, err := g.Grade(context.Background(), slopeObjective, "Slope tells how fast y changes when x goes up by one.")
	require.NoError(t, err)
	assert.Equal(t, 78.0, got.Score)
	assert.Equal(t, "No units.", got.Weaknesses)
	assert.Equal(t, "mock", got.Model)

	require.Equal(t, 1, mock.CallCount())
	req := mock.Calls[0]
	assert.Equal(t, GradeSchema, req.Schema)
	assert.Contains(t, req.Messages[0].Content, "Interpret slope as a rate of change")
	assert.Contains(t, req.Messages[0].Content, "how fast y changes")
}

func TestGrade_ClampsScore(t *testing.T) {
	tests := []struct {
		raw  float64
		want float64
	}{
		{140, 100},
		{-5, 0},
		{55.5, 55.5},
	}
	for _, tt := range tests {
		mock := llm.NewMockProvider(llm.MockJSON(map[string]any{
			"score": tt.raw, "feedback": "", "strengths": "", "weaknesses": "",
		}))
		g := New(mock, DefaultConfig(), nil)

		got, err := g.Grade(context.Background(), slopeObjective, "an answer")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.Score, "raw score %v", tt.raw)
	}
}

func TestGrade_EmptyExplanation(t *testing.T) {
	mock := llm.NewMockProvider()
	g := New(mock, DefaultConfig(), nil)

	_, err := g.Grade(context.Background(), slopeObjective, "   ")
	assert.True(t, academic.IsValidation(err))
	assert.Zero(t, mock.CallCount(), "no request for empty input")
}

func TestGrade_ProviderFailure(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}})
	g := New(mock, DefaultConfig(), nil)

	_, err := g.Grade(context.Background(), slopeObjective, "an answer")
	require.Error(t, err)
	assert.True(t, llm.IsUnavailable(err))
}

func TestGrade_RejectsOffSchemaResponse(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"score":80}`)})
	g := New(mock, DefaultConfig(), nil)

	_, err := g.Grade(context.Background(), slopeObjective, "an answer")
	var inv *llm.ErrInvalidResponse
	assert.True(t, errors.As(err, &inv))
}

func TestBuildGradeMessage(t *testing.T) {
	msg, err := buildGradeMessage("Solve linear equations", "Undo each operation in reverse order.")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(msg, "Learning objective: Solve linear equations"))
	assert.Contains(t, msg, "Undo each operation in reverse order.")
}

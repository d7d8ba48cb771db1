package llm

import "context"

// Purposes recorded on request events.
const (
	PurposeExplanationGrade = "explanation-grade"
	PurposeUnknown          = "unknown"
)

type purposeKey struct{}

// WithPurpose labels requests made with ctx for the event log.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label attached by WithPurpose.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return PurposeUnknown
}

package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// ObjectiveMastery is the running mastery estimate for one
// (student, objective) pair, keyed by both columns.
type ObjectiveMastery struct {
	ent.Schema
}

func (ObjectiveMastery) Fields() []ent.Field {
	return []ent.Field{
		field.String("student_id").
			NotEmpty().
			Immutable(),
		field.String("objective_id").
			NotEmpty().
			Immutable(),
		field.Float("mastery_score").
			Default(0).
			Range(0, 100),
		field.Float("explanation_score").
			Default(0).
			Range(0, 100),
		field.Int("num_attempts").
			Default(0).
			NonNegative(),
		field.Int("num_hints_used").
			Default(0).
			NonNegative(),
		field.Time("last_assessed_at").
			Optional().
			Nillable(),
	}
}

package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// QuestionAttempt is one answered question. Attempts are append-only.
type QuestionAttempt struct {
	ent.Schema
}

func (QuestionAttempt) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (QuestionAttempt) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("student_id").
			NotEmpty().
			Immutable(),
		field.String("objective_id").
			Immutable(),
		field.Bool("correct").
			Immutable(),
		field.Int("hints_used").
			Default(0).
			NonNegative().
			Immutable(),
		field.Text("raw_answer").
			Optional().
			Nillable().
			Immutable(),
		field.Time("created_at").
			Immutable(),
	}
}

func (QuestionAttempt) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("objective", LearningObjective.Type).
			Ref("attempts").
			Field("objective_id").
			Unique().
			Required().
			Immutable(),
	}
}

func (QuestionAttempt) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("student_id", "objective_id"),
	}
}

package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// LearningObjective is one skill within a course.
type LearningObjective struct {
	ent.Schema
}

func (LearningObjective) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("course_id").
			Immutable(),
		field.Text("description").
			NotEmpty(),
		field.Int("order_index").
			NonNegative().
			Comment("Position within the course, 0-based"),
		field.Time("created_at").
			Immutable(),
	}
}

func (LearningObjective) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("course", Course.Type).
			Ref("objectives").
			Field("course_id").
			Unique().
			Required().
			Immutable(),
		edge.To("attempts", QuestionAttempt.Type),
	}
}

func (LearningObjective) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("course_id", "order_index").Unique(),
	}
}

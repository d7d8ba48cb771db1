package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Course is one course in a student's ledger. Courses are archived, never
// deleted.
type Course struct {
	ent.Schema
}

func (Course) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("student_id").
			NotEmpty().
			Immutable(),
		field.String("title").
			NotEmpty(),
		field.String("subject").
			NotEmpty().
			Comment("English, Math, Science, SocialScience, WorldLanguage, Arts or Elective"),
		field.Float("credits").
			Positive(),
		field.Int("grade_level").
			Range(9, 12),
		field.String("term").
			Default("Year"),
		field.String("grade").
			Optional().
			Nillable().
			Comment("Final letter grade; null while in progress"),
		field.Bool("lab_science").
			Default(false),
		field.Bool("eligibility_core").
			Default(false),
		field.Bool("archived").
			Default(false),
		field.Time("created_at").
			Immutable(),
	}
}

func (Course) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("objectives", LearningObjective.Type),
	}
}

func (Course) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("student_id"),
		index.Fields("student_id", "title", "grade_level"),
	}
}

package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// GuardianLink lets a guardian act for a student.
type GuardianLink struct {
	ent.Schema
}

func (GuardianLink) Fields() []ent.Field {
	return []ent.Field{
		field.String("guardian_id").
			NotEmpty(),
		field.String("student_id").
			NotEmpty(),
		field.Time("created_at").
			Immutable(),
	}
}

func (GuardianLink) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("student_id"),
	}
}

package store

import (
	"context"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	tableCourses     = "courses"
	tableObjectives  = "learning_objectives"
	tableAttempts    = "question_attempts"
	tableMastery     = "objective_masteries"
	tableGuardians   = "guardian_links"
	tableLLMRequests = "llm_request_events"
	tableSequence    = "global_sequence"
)

var (
	// CoursesColumns holds the columns for the "courses" table.
	CoursesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true},
		{Name: "student_id", Type: field.TypeString},
		{Name: "title", Type: field.TypeString},
		{Name: "subject", Type: field.TypeString},
		{Name: "credits", Type: field.TypeFloat64},
		{Name: "grade_level", Type: field.TypeInt},
		{Name: "term", Type: field.TypeString, Default: "Year"},
		{Name: "grade", Type: field.TypeString, Nullable: true},
		{Name: "lab_science", Type: field.TypeBool, Default: false},
		{Name: "eligibility_core", Type: field.TypeBool, Default: false},
		{Name: "archived", Type: field.TypeBool, Default: false},
		{Name: "created_at", Type: field.TypeTime},
	}
	// CoursesTable holds the schema information for the "courses" table.
	CoursesTable = &schema.Table{
		Name:       tableCourses,
		Columns:    CoursesColumns,
		PrimaryKey: []*schema.Column{CoursesColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "course_student_id",
				Unique:  false,
				Columns: []*schema.Column{CoursesColumns[1]},
			},
			{
				Name:    "course_student_id_title_grade_level",
				Unique:  false,
				Columns: []*schema.Column{CoursesColumns[1], CoursesColumns[2], CoursesColumns[5]},
			},
		},
	}

	// LearningObjectivesColumns holds the columns for the "learning_objectives" table.
	LearningObjectivesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true},
		{Name: "course_id", Type: field.TypeString},
		{Name: "description", Type: field.TypeString, Size: 2147483647},
		{Name: "order_index", Type: field.TypeInt},
		{Name: "created_at", Type: field.TypeTime},
	}
	// LearningObjectivesTable holds the schema information for the "learning_objectives" table.
	LearningObjectivesTable = &schema.Table{
		Name:       tableObjectives,
		Columns:    LearningObjectivesColumns,
		PrimaryKey: []*schema.Column{LearningObjectivesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "learning_objectives_courses_objectives",
				Columns:    []*schema.Column{LearningObjectivesColumns[1]},
				RefColumns: []*schema.Column{CoursesColumns[0]},
				OnDelete:   schema.NoAction,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "learningobjective_course_id_order_index",
				Unique:  true,
				Columns: []*schema.Column{LearningObjectivesColumns[1], LearningObjectivesColumns[3]},
			},
		},
	}

	// QuestionAttemptsColumns holds the columns for the "question_attempts" table.
	QuestionAttemptsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "student_id", Type: field.TypeString},
		{Name: "objective_id", Type: field.TypeString},
		{Name: "correct", Type: field.TypeBool},
		{Name: "hints_used", Type: field.TypeInt, Default: 0},
		{Name: "raw_answer", Type: field.TypeString, Nullable: true, Size: 2147483647},
		{Name: "created_at", Type: field.TypeTime},
	}
	// QuestionAttemptsTable holds the schema information for the "question_attempts" table.
	QuestionAttemptsTable = &schema.Table{
		Name:       tableAttempts,
		Columns:    QuestionAttemptsColumns,
		PrimaryKey: []*schema.Column{QuestionAttemptsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "question_attempts_learning_objectives_attempts",
				Columns:    []*schema.Column{QuestionAttemptsColumns[3]},
				RefColumns: []*schema.Column{LearningObjectivesColumns[0]},
				OnDelete:   schema.NoAction,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "questionattempt_student_id_objective_id",
				Unique:  false,
				Columns: []*schema.Column{QuestionAttemptsColumns[2], QuestionAttemptsColumns[3]},
			},
		},
	}

	// ObjectiveMasteriesColumns holds the columns for the "objective_masteries" table.
	ObjectiveMasteriesColumns = []*schema.Column{
		{Name: "student_id", Type: field.TypeString},
		{Name: "objective_id", Type: field.TypeString},
		{Name: "mastery_score", Type: field.TypeFloat64, Default: 0},
		{Name: "explanation_score", Type: field.TypeFloat64, Default: 0},
		{Name: "num_attempts", Type: field.TypeInt, Default: 0},
		{Name: "num_hints_used", Type: field.TypeInt, Default: 0},
		{Name: "last_assessed_at", Type: field.TypeTime, Nullable: true},
	}
	// ObjectiveMasteriesTable holds the schema information for the "objective_masteries" table.
	ObjectiveMasteriesTable = &schema.Table{
		Name:       tableMastery,
		Columns:    ObjectiveMasteriesColumns,
		PrimaryKey: []*schema.Column{ObjectiveMasteriesColumns[0], ObjectiveMasteriesColumns[1]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "objective_masteries_learning_objectives_mastery",
				Columns:    []*schema.Column{ObjectiveMasteriesColumns[1]},
				RefColumns: []*schema.Column{LearningObjectivesColumns[0]},
				OnDelete:   schema.NoAction,
			},
		},
	}

	// GuardianLinksColumns holds the columns for the "guardian_links" table.
	GuardianLinksColumns = []*schema.Column{
		{Name: "guardian_id", Type: field.TypeString},
		{Name: "student_id", Type: field.TypeString},
		{Name: "created_at", Type: field.TypeTime},
	}
	// GuardianLinksTable holds the schema information for the "guardian_links" table.
	GuardianLinksTable = &schema.Table{
		Name:       tableGuardians,
		Columns:    GuardianLinksColumns,
		PrimaryKey: []*schema.Column{GuardianLinksColumns[0], GuardianLinksColumns[1]},
		Indexes: []*schema.Index{
			{
				Name:    "guardianlink_student_id",
				Unique:  false,
				Columns: []*schema.Column{GuardianLinksColumns[1]},
			},
		},
	}

	// LlmRequestEventsColumns holds the columns for the "llm_request_events" table.
	LlmRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Default: "", Size: 2147483647},
		{Name: "response_body", Type: field.TypeString, Default: "", Size: 2147483647},
	}
	// LlmRequestEventsTable holds the schema information for the "llm_request_events" table.
	LlmRequestEventsTable = &schema.Table{
		Name:       tableLLMRequests,
		Columns:    LlmRequestEventsColumns,
		PrimaryKey: []*schema.Column{LlmRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "llmrequestevent_purpose",
				Unique:  false,
				Columns: []*schema.Column{LlmRequestEventsColumns[5]},
			},
			{
				Name:    "llmrequestevent_timestamp",
				Unique:  false,
				Columns: []*schema.Column{LlmRequestEventsColumns[2]},
			},
		},
	}

	// GlobalSequenceColumns holds the columns for the "global_sequence" table.
	GlobalSequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	// GlobalSequenceTable holds the schema information for the "global_sequence" table.
	GlobalSequenceTable = &schema.Table{
		Name:       tableSequence,
		Columns:    GlobalSequenceColumns,
		PrimaryKey: []*schema.Column{GlobalSequenceColumns[0]},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		CoursesTable,
		LearningObjectivesTable,
		QuestionAttemptsTable,
		ObjectiveMasteriesTable,
		GuardianLinksTable,
		LlmRequestEventsTable,
		GlobalSequenceTable,
	}
)

func init() {
	LearningObjectivesTable.ForeignKeys[0].RefTable = CoursesTable
	QuestionAttemptsTable.ForeignKeys[0].RefTable = LearningObjectivesTable
	ObjectiveMasteriesTable.ForeignKeys[0].RefTable = LearningObjectivesTable
}

// migrate creates missing tables, columns and indexes. It never drops.
func migrate(ctx context.Context, drv *entsql.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return err
	}
	return m.Create(ctx, Tables...)
}

package requirements

import (
	"fmt"
	"strconv"

	"github.com/abhisek/homeroom/internal/academic"
	"github.com/abhisek/homeroom/internal/gpa"
)

// creditEpsilon absorbs float drift when summing half credits.
const creditEpsilon = 1e-9

// ClauseStatus is the evaluated state of a secondary clause.
type ClauseStatus struct {
	Label    string
	Current  float64
	Required float64
	Met      bool
}

// Status is the evaluated state of one rule.
type Status struct {
	ID       RuleID
	Name     string
	Current  float64
	Required float64
	Met      bool
	// Message is set for compound rules, e.g. "8/10 Core, 5/7 Eng/Math/Sci".
	Message   string
	Alternate *ClauseStatus
	Subset    *ClauseStatus
}

// AdmissionReport holds the seven admission requirements.
type AdmissionReport struct {
	English       Status
	Math          Status
	SocialScience Status
	WorldLanguage Status
	LabScience    Status
	Arts          Status
	SeniorQuant   Status
}

// All returns the requirements in display order.
func (r AdmissionReport) All() []Status {
	return []Status{r.English, r.Math, r.SocialScience, r.WorldLanguage, r.LabScience, r.Arts, r.SeniorQuant}
}

// Met reports whether every admission requirement is met.
func (r AdmissionReport) Met() bool {
	for _, s := range r.All() {
		if !s.Met {
			return false
		}
	}
	return true
}

// EligibilityReport holds the eligibility rules and the core-course GPA.
type EligibilityReport struct {
	TotalCore Status
	EarlyLock Status
	GPA       gpa.Result
}

// AcademicProgress is the full compliance report for one course ledger.
type AcademicProgress struct {
	CatalogVersion string
	Admission      AdmissionReport
	Eligibility    EligibilityReport
}

// Evaluator scores course ledgers against a catalog. It holds no state
// besides the catalog and is safe for concurrent use.
type Evaluator struct {
	catalog *Catalog
}

// NewEvaluator creates an evaluator. A nil catalog uses DefaultCatalog.
func NewEvaluator(c *Catalog) *Evaluator {
	if c == nil {
		c = DefaultCatalog()
	}
	return &Evaluator{catalog: c}
}

// Catalog returns the catalog the evaluator scores against.
func (e *Evaluator) Catalog() *Catalog { return e.catalog }

// Evaluate produces the compliance report. Archived courses are ignored.
func (e *Evaluator) Evaluate(courses []academic.Course) AcademicProgress {
	active := academic.ActiveCourses(courses)
	c := e.catalog

	var core []academic.Course
	for _, course := range active {
		if course.EligibilityCore {
			core = append(core, course)
		}
	}

	return AcademicProgress{
		CatalogVersion: c.Version(),
		Admission: AdmissionReport{
			English:       EvaluateRule(c.mustRule(RuleEnglish), active),
			Math:          EvaluateRule(c.mustRule(RuleMath), active),
			SocialScience: EvaluateRule(c.mustRule(RuleSocialScience), active),
			WorldLanguage: EvaluateRule(c.mustRule(RuleWorldLanguage), active),
			LabScience:    EvaluateRule(c.mustRule(RuleLabScience), active),
			Arts:          EvaluateRule(c.mustRule(RuleArts), active),
			SeniorQuant:   EvaluateRule(c.mustRule(RuleSeniorQuant), active),
		},
		Eligibility: EligibilityReport{
			TotalCore: EvaluateRule(c.mustRule(RuleTotalCore), active),
			EarlyLock: EvaluateRule(c.mustRule(RuleEarlyLock), active),
			GPA:       gpa.Compute(core, gpa.Eligibility()),
		},
	}
}

// EvaluateRule scores a single rule against courses.
func EvaluateRule(r Rule, courses []academic.Course) Status {
	var primary []academic.Course
	for _, c := range courses {
		if r.Filter.Matches(c) {
			primary = append(primary, c)
		}
	}

	current := sumCredits(primary)
	st := Status{
		ID:       r.ID,
		Name:     r.Name,
		Current:  current,
		Required: r.MinCredits,
		Met:      atLeast(current, r.MinCredits),
	}

	if r.Alternate != nil {
		alt := evaluateClause(*r.Alternate, courses)
		st.Alternate = &alt
		st.Met = st.Met || alt.Met
	}

	if r.Subset != nil {
		sub := evaluateClause(*r.Subset, primary)
		st.Subset = &sub
		st.Met = st.Met && sub.Met
		st.Message = fmt.Sprintf("%s/%s Core, %s/%s %s",
			formatCredits(current), formatCredits(r.MinCredits),
			formatCredits(sub.Current), formatCredits(sub.Required), sub.Label)
	}

	return st
}

func evaluateClause(cl Clause, courses []academic.Course) ClauseStatus {
	var total float64
	for _, c := range courses {
		if cl.Filter.Matches(c) {
			total += c.Credits
		}
	}
	return ClauseStatus{
		Label:    cl.Label,
		Current:  total,
		Required: cl.MinCredits,
		Met:      atLeast(total, cl.MinCredits),
	}
}

func sumCredits(courses []academic.Course) float64 {
	var total float64
	for _, c := range courses {
		total += c.Credits
	}
	return total
}

func atLeast(current, required float64) bool {
	return current >= required-creditEpsilon
}

func formatCredits(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

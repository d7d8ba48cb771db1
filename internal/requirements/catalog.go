// Package requirements holds the rule tables for the admission and
// eligibility standards and evaluates a course ledger against them.
package requirements

import (
	"fmt"
	"hash/fnv"
	"math"
	"slices"

	"github.com/abhisek/homeroom/internal/academic"
)

// DefaultVersion identifies the built-in rule tables.
const DefaultVersion = "builtin-1"

// customVersionPrefix starts the derived version of an unnamed catalog whose
// thresholds differ from the defaults.
const customVersionPrefix = "custom-"

// Standard is one of the two independent rule sets.
type Standard string

const (
	StandardAdmission   Standard = "admission"
	StandardEligibility Standard = "eligibility"
)

// RuleID identifies a requirement within the catalog.
type RuleID string

const (
	RuleEnglish       RuleID = "english"
	RuleMath          RuleID = "math"
	RuleSocialScience RuleID = "social_science"
	RuleWorldLanguage RuleID = "world_language"
	RuleLabScience    RuleID = "lab_science"
	RuleArts          RuleID = "arts"
	RuleSeniorQuant   RuleID = "senior_quant"

	RuleTotalCore RuleID = "total_core"
	RuleEarlyLock RuleID = "early_lock"
)

// Filter selects the courses whose credits count toward a rule.
// Empty Subjects or GradeLevels match every course.
type Filter struct {
	Subjects    []academic.Subject
	GradeLevels []int
	LabOnly     bool
	CoreOnly    bool
}

// Matches reports whether c passes the filter.
func (f Filter) Matches(c academic.Course) bool {
	if f.LabOnly && !c.LabScience {
		return false
	}
	if f.CoreOnly && !c.EligibilityCore {
		return false
	}
	if len(f.Subjects) > 0 && !slices.Contains(f.Subjects, c.Subject) {
		return false
	}
	if len(f.GradeLevels) > 0 && !slices.Contains(f.GradeLevels, c.GradeLevel) {
		return false
	}
	return true
}

// Clause is a secondary credit condition attached to a rule.
type Clause struct {
	Label      string
	Filter     Filter
	MinCredits float64
}

// Rule is one named requirement.
//
// Alternate, when set, is a second way to satisfy the rule: the rule is met
// when either the primary filter or the alternate clause reaches its
// minimum. Subset, when set, narrows the primary courses further and must
// also reach its own minimum.
type Rule struct {
	ID         RuleID
	Name       string
	Standard   Standard
	Filter     Filter
	MinCredits float64
	Alternate  *Clause
	Subset     *Clause
}

// AdmissionThresholds are the minimum credits per admission category.
type AdmissionThresholds struct {
	English       float64 `yaml:"english"`
	Math          float64 `yaml:"math"`
	SocialScience float64 `yaml:"social_science"`
	WorldLanguage float64 `yaml:"world_language"`
	LabScience    float64 `yaml:"lab_science"`
	Arts          float64 `yaml:"arts"`
	// SeniorQuant is the grade-12 math credit needed; SeniorQuantAnyYear is
	// the total math credit that satisfies the rule regardless of year.
	SeniorQuant        float64 `yaml:"senior_quant"`
	SeniorQuantAnyYear float64 `yaml:"senior_quant_any_year"`
}

// EligibilityThresholds are the core-course minimums.
type EligibilityThresholds struct {
	TotalCore         float64 `yaml:"total_core"`
	EarlyLock         float64 `yaml:"early_lock"`
	EarlyLockSubjects float64 `yaml:"early_lock_subjects"`
}

// Thresholds holds every tunable number the catalog is built from.
type Thresholds struct {
	Admission   AdmissionThresholds   `yaml:"admission"`
	Eligibility EligibilityThresholds `yaml:"eligibility"`
}

// DefaultThresholds returns the standard minimums.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Admission: AdmissionThresholds{
			English:            4,
			Math:               3,
			SocialScience:      3,
			WorldLanguage:      2,
			LabScience:         3,
			Arts:               1,
			SeniorQuant:        1,
			SeniorQuantAnyYear: 4,
		},
		Eligibility: EligibilityThresholds{
			TotalCore:         16,
			EarlyLock:         10,
			EarlyLockSubjects: 7,
		},
	}
}

// Validate rejects non-positive and infinite thresholds.
func (t Thresholds) Validate() error {
	checks := []struct {
		field string
		v     float64
	}{
		{"admission.english", t.Admission.English},
		{"admission.math", t.Admission.Math},
		{"admission.social_science", t.Admission.SocialScience},
		{"admission.world_language", t.Admission.WorldLanguage},
		{"admission.lab_science", t.Admission.LabScience},
		{"admission.arts", t.Admission.Arts},
		{"admission.senior_quant", t.Admission.SeniorQuant},
		{"admission.senior_quant_any_year", t.Admission.SeniorQuantAnyYear},
		{"eligibility.total_core", t.Eligibility.TotalCore},
		{"eligibility.early_lock", t.Eligibility.EarlyLock},
		{"eligibility.early_lock_subjects", t.Eligibility.EarlyLockSubjects},
	}
	for _, c := range checks {
		if !(c.v > 0) || math.IsInf(c.v, 0) {
			return &academic.ValidationError{Field: c.field, Value: c.v, Reason: "must be a finite number greater than 0"}
		}
	}
	return nil
}

// Catalog is an immutable, versioned set of rules.
type Catalog struct {
	version    string
	thresholds Thresholds
	rules      []Rule
	byID       map[RuleID]int
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() *Catalog {
	c, _ := NewCatalog(DefaultVersion, DefaultThresholds())
	return c
}

// NewCatalog builds the rule tables for the given thresholds. An empty
// version is DefaultVersion for the default thresholds and a "custom-"
// digest of the thresholds otherwise, so differing tables never share one.
func NewCatalog(version string, t Thresholds) (*Catalog, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if version == "" {
		version = derivedVersion(t)
	}

	a, e := t.Admission, t.Eligibility
	preSenior := []int{9, 10, 11}

	rules := []Rule{
		subjectRule(RuleEnglish, "English", academic.SubjectEnglish, a.English),
		subjectRule(RuleMath, "Math", academic.SubjectMath, a.Math),
		subjectRule(RuleSocialScience, "Social Science", academic.SubjectSocialScience, a.SocialScience),
		subjectRule(RuleWorldLanguage, "World Language", academic.SubjectWorldLanguage, a.WorldLanguage),
		{
			ID:         RuleLabScience,
			Name:       "Lab Science",
			Standard:   StandardAdmission,
			Filter:     Filter{Subjects: []academic.Subject{academic.SubjectScience}, LabOnly: true},
			MinCredits: a.LabScience,
		},
		subjectRule(RuleArts, "Arts", academic.SubjectArts, a.Arts),
		{
			ID:         RuleSeniorQuant,
			Name:       "Senior Quant",
			Standard:   StandardAdmission,
			Filter:     Filter{Subjects: []academic.Subject{academic.SubjectMath}, GradeLevels: []int{12}},
			MinCredits: a.SeniorQuant,
			Alternate: &Clause{
				Label:      "Math any year",
				Filter:     Filter{Subjects: []academic.Subject{academic.SubjectMath}},
				MinCredits: a.SeniorQuantAnyYear,
			},
		},
		{
			ID:         RuleTotalCore,
			Name:       "Total Core Courses",
			Standard:   StandardEligibility,
			Filter:     Filter{CoreOnly: true},
			MinCredits: e.TotalCore,
		},
		{
			ID:         RuleEarlyLock,
			Name:       "10/7 Locked",
			Standard:   StandardEligibility,
			Filter:     Filter{CoreOnly: true, GradeLevels: preSenior},
			MinCredits: e.EarlyLock,
			Subset: &Clause{
				Label: "Eng/Math/Sci",
				Filter: Filter{
					Subjects: []academic.Subject{academic.SubjectEnglish, academic.SubjectMath, academic.SubjectScience},
				},
				MinCredits: e.EarlyLockSubjects,
			},
		},
	}

	c := &Catalog{version: version, thresholds: t, rules: rules, byID: make(map[RuleID]int, len(rules))}
	for i, r := range rules {
		c.byID[r.ID] = i
	}
	return c, nil
}

func derivedVersion(t Thresholds) string {
	if t == DefaultThresholds() {
		return DefaultVersion
	}
	h := fnv.New32a()
	fmt.Fprintf(h, "%+v", t)
	return fmt.Sprintf("%s%08x", customVersionPrefix, h.Sum32())
}

func subjectRule(id RuleID, name string, s academic.Subject, minCredits float64) Rule {
	return Rule{
		ID:         id,
		Name:       name,
		Standard:   StandardAdmission,
		Filter:     Filter{Subjects: []academic.Subject{s}},
		MinCredits: minCredits,
	}
}

// Version returns the catalog version string.
func (c *Catalog) Version() string { return c.version }

// Thresholds returns the numbers the catalog was built from.
func (c *Catalog) Thresholds() Thresholds { return c.thresholds }

// Rule looks up a rule by ID.
func (c *Catalog) Rule(id RuleID) (Rule, error) {
	i, ok := c.byID[id]
	if !ok {
		return Rule{}, &academic.NotFoundError{Kind: "requirement", ID: string(id)}
	}
	return c.rules[i], nil
}

// Rules returns every rule in display order.
func (c *Catalog) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// AdmissionRules returns the seven admission rules in display order.
func (c *Catalog) AdmissionRules() []Rule {
	return c.byStandard(StandardAdmission)
}

// EligibilityRules returns the eligibility credit rules.
func (c *Catalog) EligibilityRules() []Rule {
	return c.byStandard(StandardEligibility)
}

func (c *Catalog) byStandard(s Standard) []Rule {
	var out []Rule
	for _, r := range c.rules {
		if r.Standard == s {
			out = append(out, r)
		}
	}
	return out
}

func (c *Catalog) mustRule(id RuleID) Rule {
	r, err := c.Rule(id)
	if err != nil {
		panic(fmt.Sprintf("requirements: catalog missing rule %s", id))
	}
	return r
}

// Package config loads the homeroom tunables from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/abhisek/homeroom/internal/logging"
	"github.com/abhisek/homeroom/internal/mastery"
	"github.com/abhisek/homeroom/internal/requirements"
)

// Config is the full runtime configuration. LLM settings are loaded
// separately by llm.ConfigFromEnv since only grading needs them.
type Config struct {
	// DBPath overrides the default database location when set.
	DBPath string `env:"HOMEROOM_DB"`

	// CatalogPath names an optional YAML requirement catalog layered over
	// the thresholds below.
	CatalogPath string `env:"HOMEROOM_CATALOG"`

	// StudentID is the student commands act on when --student is not given.
	StudentID string `env:"HOMEROOM_STUDENT"`

	// ActorID is who is acting. Empty means the student acts for themselves.
	ActorID string `env:"HOMEROOM_ACTOR"`

	Mastery     Mastery
	Admission   Admission   `envPrefix:"HOMEROOM_ADMISSION_"`
	Eligibility Eligibility `envPrefix:"HOMEROOM_ELIGIBILITY_"`
	Log         logging.Config
}

// Mastery holds the estimator tunables.
type Mastery struct {
	HintPenalty          float64 `env:"HOMEROOM_HINT_PENALTY" envDefault:"15"`
	Alpha                float64 `env:"HOMEROOM_MASTERY_ALPHA" envDefault:"0.3"`
	MasteryThreshold     float64 `env:"HOMEROOM_MASTERY_THRESHOLD" envDefault:"85"`
	ExplanationThreshold float64 `env:"HOMEROOM_EXPLANATION_THRESHOLD" envDefault:"70"`
}

// Admission holds the admission credit minimums.
type Admission struct {
	English            float64 `env:"ENGLISH" envDefault:"4"`
	Math               float64 `env:"MATH" envDefault:"3"`
	SocialScience      float64 `env:"SOCIAL_SCIENCE" envDefault:"3"`
	WorldLanguage      float64 `env:"WORLD_LANGUAGE" envDefault:"2"`
	LabScience         float64 `env:"LAB_SCIENCE" envDefault:"3"`
	Arts               float64 `env:"ARTS" envDefault:"1"`
	SeniorQuant        float64 `env:"SENIOR_QUANT" envDefault:"1"`
	SeniorQuantAnyYear float64 `env:"SENIOR_QUANT_ANY_YEAR" envDefault:"4"`
}

// Eligibility holds the core-course minimums.
type Eligibility struct {
	TotalCore         float64 `env:"TOTAL_CORE" envDefault:"16"`
	EarlyLock         float64 `env:"EARLY_LOCK" envDefault:"10"`
	EarlyLockSubjects float64 `env:"EARLY_LOCK_SUBJECTS" envDefault:"7"`
}

// Default returns the configuration used when no variables are set.
func Default() Config {
	m := mastery.DefaultConfig()
	t := requirements.DefaultThresholds()
	return Config{
		Mastery: Mastery{
			HintPenalty:          m.HintPenalty,
			Alpha:                m.Alpha,
			MasteryThreshold:     m.MasteryThreshold,
			ExplanationThreshold: m.ExplanationThreshold,
		},
		Admission: Admission{
			English:            t.Admission.English,
			Math:               t.Admission.Math,
			SocialScience:      t.Admission.SocialScience,
			WorldLanguage:      t.Admission.WorldLanguage,
			LabScience:         t.Admission.LabScience,
			Arts:               t.Admission.Arts,
			SeniorQuant:        t.Admission.SeniorQuant,
			SeniorQuantAnyYear: t.Admission.SeniorQuantAnyYear,
		},
		Eligibility: Eligibility{
			TotalCore:         t.Eligibility.TotalCore,
			EarlyLock:         t.Eligibility.EarlyLock,
			EarlyLockSubjects: t.Eligibility.EarlyLockSubjects,
		},
		Log: logging.DefaultConfig(),
	}
}

// Load parses the environment over the defaults and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects tunables outside their meaningful ranges.
func (c Config) Validate() error {
	if err := c.MasteryConfig().Validate(); err != nil {
		return err
	}
	if err := c.Thresholds().Validate(); err != nil {
		return err
	}
	return c.Log.Validate()
}

// MasteryConfig returns the estimator tunables.
func (c Config) MasteryConfig() mastery.Config {
	return mastery.Config{
		HintPenalty:          c.Mastery.HintPenalty,
		Alpha:                c.Mastery.Alpha,
		MasteryThreshold:     c.Mastery.MasteryThreshold,
		ExplanationThreshold: c.Mastery.ExplanationThreshold,
	}
}

// Thresholds returns the requirement minimums a catalog is built from.
func (c Config) Thresholds() requirements.Thresholds {
	return requirements.Thresholds{
		Admission: requirements.AdmissionThresholds{
			English:            c.Admission.English,
			Math:               c.Admission.Math,
			SocialScience:      c.Admission.SocialScience,
			WorldLanguage:      c.Admission.WorldLanguage,
			LabScience:         c.Admission.LabScience,
			Arts:               c.Admission.Arts,
			SeniorQuant:        c.Admission.SeniorQuant,
			SeniorQuantAnyYear: c.Admission.SeniorQuantAnyYear,
		},
		Eligibility: requirements.EligibilityThresholds{
			TotalCore:         c.Eligibility.TotalCore,
			EarlyLock:         c.Eligibility.EarlyLock,
			EarlyLockSubjects: c.Eligibility.EarlyLockSubjects,
		},
	}
}

// Catalog builds the requirement catalog: the YAML file at CatalogPath
// layered over the env thresholds, or the env thresholds alone.
func (c Config) Catalog() (*requirements.Catalog, error) {
	if c.CatalogPath != "" {
		return requirements.LoadCatalog(c.CatalogPath, c.Thresholds())
	}
	return requirements.NewCatalog("", c.Thresholds())
}

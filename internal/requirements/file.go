package requirements

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// catalogFile is the on-disk catalog format. Keys left out of the file keep
// the value from the base thresholds.
type catalogFile struct {
	Version    string `yaml:"version"`
	Thresholds `yaml:",inline"`
}

// LoadCatalog reads a YAML catalog file layered over base.
//
//	version: "2025-state"
//	admission:
//	  english: 4
//	  senior_quant_any_year: 4
//	eligibility:
//	  total_core: 16
func LoadCatalog(path string, base Thresholds) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data, base)
}

// ParseCatalog decodes YAML catalog bytes layered over base.
func ParseCatalog(data []byte, base Thresholds) (*Catalog, error) {
	f := catalogFile{Thresholds: base}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	cat, err := NewCatalog(f.Version, f.Thresholds)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}
	return cat, nil
}

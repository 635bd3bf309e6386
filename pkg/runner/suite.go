package runner

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SuiteFile is the YAML description of a run: a display name plus the
// scenario filters. Settings overrides live in the settings file, not here;
// the suite file only decides what runs.
type SuiteFile struct {
	Name    string   `yaml:"name"`
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

// LoadSuiteFile reads and parses a suite file. An empty path returns a
// default suite that runs everything.
func LoadSuiteFile(path string) (SuiteFile, error) {
	if path == "" {
		return SuiteFile{Name: "tradepilot"}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return SuiteFile{}, fmt.Errorf("failed to read suite file %s: %w", path, err)
	}

	var suite SuiteFile
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return SuiteFile{}, fmt.Errorf("failed to parse suite file %s: %w", path, err)
	}
	if suite.Name == "" {
		suite.Name = "tradepilot"
	}
	return suite, nil
}

// Filter compiles the suite's include/exclude patterns.
func (s SuiteFile) Filter() (*Filter, error) {
	return NewFilter(s.Include, s.Exclude)
}

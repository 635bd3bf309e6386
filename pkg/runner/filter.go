package runner

import (
	"fmt"

	"github.com/gobwas/glob"
)

// Filter selects scenarios by glob patterns over names and tags. Patterns
// are compiled once at construction; an invalid pattern is a configuration
// error, not a silent no-match.
type Filter struct {
	include []glob.Glob
	exclude []glob.Glob
}

// NewFilter compiles include and exclude patterns. An empty include list
// means everything is included.
func NewFilter(include, exclude []string) (*Filter, error) {
	inc, err := compilePatterns(include)
	if err != nil {
		return nil, fmt.Errorf("invalid include pattern: %w", err)
	}
	exc, err := compilePatterns(exclude)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude pattern: %w", err)
	}
	return &Filter{include: inc, exclude: exc}, nil
}

func compilePatterns(patterns []string) ([]glob.Glob, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", p, err)
		}
		compiled = append(compiled, g)
	}
	return compiled, nil
}

// Matches reports whether the scenario should run. Exclude patterns win
// over include patterns; both match against the name and every tag.
func (f *Filter) Matches(s Scenario) bool {
	for _, g := range f.exclude {
		if matchesScenario(g, s) {
			return false
		}
	}
	if len(f.include) == 0 {
		return true
	}
	for _, g := range f.include {
		if matchesScenario(g, s) {
			return true
		}
	}
	return false
}

func matchesScenario(g glob.Glob, s Scenario) bool {
	if g.Match(s.Name) {
		return true
	}
	for _, tag := range s.Tags {
		if g.Match(tag) {
			return true
		}
	}
	return false
}

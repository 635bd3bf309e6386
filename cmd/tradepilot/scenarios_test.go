package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultScenarios(t *testing.T) {
	scenarios := defaultScenarios()
	require.NotEmpty(t, scenarios)

	seen := map[string]bool{}
	for _, s := range scenarios {
		assert.NotEmpty(t, s.Name)
		assert.False(t, seen[s.Name], "scenario names must be unique: %q", s.Name)
		seen[s.Name] = true

		require.NotEmpty(t, s.Steps, "scenario %q has no steps", s.Name)
		for _, step := range s.Steps {
			assert.NotEmpty(t, step.Name, "scenario %q has an unnamed step", s.Name)
			assert.NotNil(t, step.Func, "scenario %q step %q has no body", s.Name, step.Name)
		}
	}
}

func TestDefaultScenarioTags(t *testing.T) {
	// The trade and footer checks depend on settle heuristics and carry the
	// flaky tag so a retry-tag policy can target them.
	var flaky, smoke int
	for _, s := range defaultScenarios() {
		if s.HasTag("flaky") {
			flaky++
		}
		if s.HasTag("smoke") {
			smoke++
		}
	}
	assert.GreaterOrEqual(t, flaky, 2)
	assert.GreaterOrEqual(t, smoke, 2)
}

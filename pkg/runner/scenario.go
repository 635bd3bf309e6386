// Package runner executes behavior scenarios against a managed browser. It
// owns the lifecycle hooks around each scenario (context and page creation,
// per-step screenshots, failure artifacts, teardown), the retry policy, the
// name/tag filters, and the run report.
package runner

import (
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/tradepilot/pkg/browser"
	"github.com/entrhq/tradepilot/pkg/config"
	"github.com/entrhq/tradepilot/pkg/locator"
	"github.com/entrhq/tradepilot/pkg/logging"
)

// Status is a scenario's position in its lifecycle.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
)

// Step is one named action inside a scenario.
type Step struct {
	Name string
	Func func(*T) error
}

// Scenario is a named sequence of steps with optional tags for filtering
// and retry restriction.
type Scenario struct {
	Name  string
	Tags  []string
	Steps []Step
}

// HasTag reports whether the scenario carries the given tag.
func (s Scenario) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// T is the runtime handed to each step. It exposes the live page, the
// manager for artifact capture, the locator strategy, and the run settings.
type T struct {
	Settings config.Settings
	Logger   *logging.Logger
	Manager  *browser.Manager
	Page     playwright.Page
	Strategy *locator.Strategy

	scenario string
}

// ScenarioName returns the name of the scenario being executed.
func (t *T) ScenarioName() string {
	return t.scenario
}

// Attempt records one execution of a scenario.
type Attempt struct {
	Status   Status        `json:"status"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
	// FailedStep is the step name where the attempt stopped, empty on pass.
	FailedStep string `json:"failed_step,omitempty"`
}

// Outcome is the final record for one scenario across all its attempts.
type Outcome struct {
	Name     string        `json:"name"`
	Tags     []string      `json:"tags,omitempty"`
	Status   Status        `json:"status"`
	Attempts []Attempt     `json:"attempts"`
	Duration time.Duration `json:"duration"`
	// Attachments lists artifact paths captured for this scenario
	// (screenshots, traces, DOM snapshots).
	Attachments []string `json:"attachments,omitempty"`
	Skipped     bool     `json:"skipped,omitempty"`
}

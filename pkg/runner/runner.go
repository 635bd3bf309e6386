package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/entrhq/tradepilot/pkg/browser"
	"github.com/entrhq/tradepilot/pkg/config"
	"github.com/entrhq/tradepilot/pkg/locator"
	"github.com/entrhq/tradepilot/pkg/logging"
	"github.com/entrhq/tradepilot/pkg/pages"
)

// Runner executes a set of scenarios sequentially against one browser.
// A Runner belongs to one worker process; parallelism happens by running
// multiple worker processes, each with its own Runner and Manager.
type Runner struct {
	settings config.Settings
	logger   *logging.Logger
	manager  *browser.Manager
	filter   *Filter
}

// NewRunner creates a runner with its own browser manager.
func NewRunner(settings config.Settings, logger *logging.Logger) *Runner {
	return &Runner{
		settings: settings,
		logger:   logger,
		manager:  browser.NewManager(settings, logger),
	}
}

// WithFilter restricts the runner to scenarios matching the filter.
func (r *Runner) WithFilter(f *Filter) *Runner {
	r.filter = f
	return r
}

// Run executes every matching scenario and returns the run report. The
// browser is launched once, contexts and pages are per scenario, and the
// browser is closed unconditionally at the end.
func (r *Runner) Run(suiteName string, scenarios []Scenario) (*Report, error) {
	start := time.Now()
	r.prepareArtifacts()

	report := &Report{
		Suite:     suiteName,
		RunID:     logging.RunID(),
		StartTime: start,
	}

	defer r.manager.Cleanup()

	for _, scenario := range scenarios {
		if r.filter != nil && !r.filter.Matches(scenario) {
			r.logger.Debugf("scenario %q filtered out", scenario.Name)
			report.Outcomes = append(report.Outcomes, Outcome{
				Name:    scenario.Name,
				Tags:    scenario.Tags,
				Status:  StatusIdle,
				Skipped: true,
			})
			continue
		}
		report.Outcomes = append(report.Outcomes, r.runScenario(scenario))
	}

	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(start)
	report.tally()
	return report, nil
}

// runScenario executes one scenario through the retry policy. Every attempt
// starts from Idle with a fresh context and page.
func (r *Runner) runScenario(scenario Scenario) Outcome {
	outcome := Outcome{Name: scenario.Name, Tags: scenario.Tags}
	attempts := 1 + r.retryBudget(scenario)

	for i := 0; i < attempts; i++ {
		if i > 0 {
			r.logger.Infof("retrying scenario %q (attempt %d of %d)", scenario.Name, i+1, attempts)
		}

		attempt := r.runAttempt(scenario, &outcome)
		outcome.Attempts = append(outcome.Attempts, attempt)
		outcome.Duration += attempt.Duration
		outcome.Status = attempt.Status

		if attempt.Status == StatusPassed {
			break
		}
	}

	if outcome.Status == StatusPassed {
		r.logger.Infof("scenario %q passed in %d attempt(s)", scenario.Name, len(outcome.Attempts))
	} else {
		r.logger.Errorf("scenario %q failed after %d attempt(s)", scenario.Name, len(outcome.Attempts))
	}
	return outcome
}

// retryBudget returns how many re-runs a failed scenario gets. A configured
// retry tag restricts retries to scenarios carrying it.
func (r *Runner) retryBudget(scenario Scenario) int {
	if r.settings.RetryCount <= 0 {
		return 0
	}
	if r.settings.RetryTag != "" && !scenario.HasTag(r.settings.RetryTag) {
		return 0
	}
	return r.settings.RetryCount
}

// runAttempt is one pass through a scenario's steps with full lifecycle
// hooks: fresh context and page before, failure artifacts and teardown
// after. The page and context are always closed, pass or fail.
func (r *Runner) runAttempt(scenario Scenario, outcome *Outcome) Attempt {
	start := time.Now()
	attempt := Attempt{Status: StatusRunning}

	page, err := r.manager.CreatePage()
	if err != nil {
		attempt.Status = StatusFailed
		attempt.Error = fmt.Sprintf("failed to prepare browser: %v", err)
		attempt.Duration = time.Since(start)
		// CreatePage can fail after its lazy CreateContext succeeded; the
		// context must not leak into the next attempt.
		r.closeScenarioHandles(scenario.Name)
		return attempt
	}

	t := &T{
		Settings: r.settings,
		Logger:   r.logger,
		Manager:  r.manager,
		Page:     page,
		Strategy: locator.New(r.settings.CandidateTimeout, r.logger),
		scenario: scenario.Name,
	}

	for i, step := range scenario.Steps {
		r.logger.Infof("scenario %q step %d/%d: %s", scenario.Name, i+1, len(scenario.Steps), step.Name)
		err := step.Func(t)

		if r.settings.ScreenshotEachStep {
			r.stepScreenshot(scenario.Name, i, step.Name, err == nil, outcome)
		}

		if err != nil {
			attempt.Status = StatusFailed
			attempt.Error = err.Error()
			attempt.FailedStep = step.Name
			r.logger.Errorf("scenario %q step %q failed: %v", scenario.Name, step.Name, err)
			break
		}
	}
	if attempt.Status == StatusRunning {
		attempt.Status = StatusPassed
	}

	if attempt.Status == StatusFailed {
		r.captureFailureArtifacts(scenario.Name, outcome)
	} else {
		r.manager.DiscardTrace()
	}

	r.closeScenarioHandles(scenario.Name)

	attempt.Duration = time.Since(start)
	return attempt
}

// closeScenarioHandles tears down the attempt's page and context so every
// attempt starts from a fresh context. Safe with partially created or
// absent handles.
func (r *Runner) closeScenarioHandles(scenario string) {
	if err := r.manager.ClosePage(); err != nil {
		r.logger.Warnf("scenario %q: %v", scenario, err)
	}
	if err := r.manager.CloseContext(); err != nil {
		r.logger.Warnf("scenario %q: %v", scenario, err)
	}
}

// stepScreenshot captures a config-gated after-step screenshot named from
// the scenario, step position, outcome, and step text.
func (r *Runner) stepScreenshot(scenario string, index int, step string, passed bool, outcome *Outcome) {
	label := "ok"
	if !passed {
		label = "failed"
	}
	name := fmt.Sprintf("%s_step%02d_%s_%s", scenario, index+1, label, step)
	_, path, err := r.manager.TakeScreenshot(name)
	if err != nil {
		r.logger.Warnf("step screenshot failed: %v", err)
		return
	}
	outcome.Attachments = append(outcome.Attachments, path)
}

// captureFailureArtifacts persists the diagnostic bundle for a failed
// attempt: final screenshot, trace archive, and a cleaned DOM snapshot.
// Each capture is best-effort; artifact failure never masks the step error.
func (r *Runner) captureFailureArtifacts(scenario string, outcome *Outcome) {
	if _, path, err := r.manager.TakeScreenshot(scenario + "_failure"); err != nil {
		r.logger.Warnf("failure screenshot failed: %v", err)
	} else {
		outcome.Attachments = append(outcome.Attachments, path)
	}

	if path, err := r.manager.SaveTrace(scenario); err != nil {
		r.logger.Warnf("failure trace failed: %v", err)
	} else if path != "" {
		outcome.Attachments = append(outcome.Attachments, path)
	}

	page, err := r.manager.Page()
	if err != nil {
		return
	}
	snap := pages.NewSnapshot(page, filepath.Join(r.settings.ArtifactsDir, "snapshots"))
	if path, err := snap.Write(browser.SanitizeName(scenario)); err != nil {
		r.logger.Warnf("failure snapshot failed: %v", err)
	} else {
		outcome.Attachments = append(outcome.Attachments, path)
	}
}

// prepareArtifacts clears and recreates the artifact tree at suite start.
// Only the primary worker clears, so parallel workers do not delete each
// other's output mid-run. Races with a slow rival worker are logged, never
// fatal.
func (r *Runner) prepareArtifacts() {
	root := r.settings.ArtifactsDir
	if r.settings.PrimaryWorker {
		for _, sub := range []string{"screenshots", "traces", "snapshots", "videos"} {
			if err := os.RemoveAll(filepath.Join(root, sub)); err != nil {
				r.logger.Warnf("failed to clear %s artifacts: %v", sub, err)
			}
		}
	}
	if err := os.MkdirAll(root, 0750); err != nil {
		r.logger.Warnf("failed to create artifacts directory: %v", err)
	}
}

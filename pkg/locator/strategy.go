// Package locator implements ordered-fallback element resolution. A logical
// UI target ("the login button") is described by a ranked list of candidate
// selection strategies; the first candidate that becomes visible within its
// own short timeout wins. Candidate order encodes preference: semantic
// role-based selectors first, generic selectors last.
package locator

import (
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/tradepilot/pkg/logging"
)

// ErrNotFound is returned when every candidate for a target has been
// exhausted without a visible match. Callers decide whether that is fatal
// (assertions) or tolerable (best-effort flows).
var ErrNotFound = errors.New("no locator candidate matched a visible element")

// Kind identifies a candidate's selection mechanism.
type Kind string

const (
	KindRole        Kind = "role"
	KindText        Kind = "text"
	KindPlaceholder Kind = "placeholder"
	KindSelector    Kind = "selector"
)

// Candidate is one strategy for finding a UI element.
type Candidate struct {
	Kind Kind
	Role playwright.AriaRole
	// Name is the accessible name for role candidates.
	Name string
	// Value is the text, placeholder, or CSS expression.
	Value string
}

// ByRole matches by accessibility role and accessible name.
func ByRole(role playwright.AriaRole, name string) Candidate {
	return Candidate{Kind: KindRole, Role: role, Name: name}
}

// ByText matches by rendered text content.
func ByText(text string) Candidate {
	return Candidate{Kind: KindText, Value: text}
}

// ByPlaceholder matches an input by its placeholder text.
func ByPlaceholder(text string) Candidate {
	return Candidate{Kind: KindPlaceholder, Value: text}
}

// BySelector matches by CSS selector.
func BySelector(css string) Candidate {
	return Candidate{Kind: KindSelector, Value: css}
}

// Build constructs the Playwright locator for this candidate on the page.
func (c Candidate) Build(page playwright.Page) playwright.Locator {
	switch c.Kind {
	case KindRole:
		return page.GetByRole(c.Role, playwright.PageGetByRoleOptions{Name: c.Name})
	case KindText:
		return page.GetByText(c.Value)
	case KindPlaceholder:
		return page.GetByPlaceholder(c.Value)
	default:
		return page.Locator(c.Value)
	}
}

// String describes the candidate for log output.
func (c Candidate) String() string {
	switch c.Kind {
	case KindRole:
		return fmt.Sprintf("role=%s[name=%q]", c.Role, c.Name)
	case KindText:
		return fmt.Sprintf("text=%q", c.Value)
	case KindPlaceholder:
		return fmt.Sprintf("placeholder=%q", c.Value)
	default:
		return fmt.Sprintf("css=%q", c.Value)
	}
}

// Strategy resolves targets against an ordered candidate list with a short
// per-candidate visibility timeout, independent of the page's default
// action timeout.
type Strategy struct {
	timeout time.Duration
	logger  *logging.Logger
}

// New creates a Strategy. A nil logger disables candidate-level logging.
func New(perCandidateTimeout time.Duration, logger *logging.Logger) *Strategy {
	return &Strategy{timeout: perCandidateTimeout, logger: logger}
}

// Resolve returns the locator for the first candidate that becomes visible,
// or ErrNotFound once all candidates are exhausted. A candidate that errors
// during probing (malformed selector, detached frame) is treated the same
// as not-visible and the search advances. Total time is bounded by
// len(candidates) * perCandidateTimeout.
func (s *Strategy) Resolve(page playwright.Page, target string, candidates []Candidate) (playwright.Locator, error) {
	built := make([]playwright.Locator, len(candidates))

	idx, err := firstMatch(candidates, func(i int, c Candidate) (bool, error) {
		loc := c.Build(page).First()
		built[i] = loc
		waitErr := loc.WaitFor(playwright.LocatorWaitForOptions{
			State:   playwright.WaitForSelectorStateVisible,
			Timeout: playwright.Float(float64(s.timeout.Milliseconds())),
		})
		if waitErr != nil {
			return false, waitErr
		}
		return true, nil
	})
	if err != nil {
		if s.logger != nil {
			s.logger.Warnf("target %q: exhausted %d candidates", target, len(candidates))
		}
		return nil, fmt.Errorf("target %q: %w", target, ErrNotFound)
	}

	if s.logger != nil {
		s.logger.Debugf("target %q resolved by candidate %d (%s)", target, idx, candidates[idx])
	}
	return built[idx], nil
}

// firstMatch runs the probe over candidates in declaration order and returns
// the index of the first success. Probe errors are swallowed; they only
// advance the search. Candidates after the first success are never probed.
// Returns ErrNotFound when the list is exhausted.
func firstMatch(candidates []Candidate, probe func(int, Candidate) (bool, error)) (int, error) {
	for i, c := range candidates {
		ok, err := probe(i, c)
		if err != nil {
			continue
		}
		if ok {
			return i, nil
		}
	}
	return -1, ErrNotFound
}

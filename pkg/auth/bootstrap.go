// Package auth performs the one-time interactive login against the target
// site and persists the resulting session state for every later run. It is
// invoked out-of-band (cmd/tradepilot-login), never from inside a scenario.
package auth

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/tradepilot/pkg/browser"
	"github.com/entrhq/tradepilot/pkg/config"
	"github.com/entrhq/tradepilot/pkg/locator"
	"github.com/entrhq/tradepilot/pkg/logging"
)

// Result describes the outcome of a bootstrap run.
type Result struct {
	// StatePath is where session state was persisted, empty if the write
	// itself failed.
	StatePath string
	// Verified is true when a logged-in indicator resolved after submit.
	// The flow never requires verification; this only informs the operator.
	Verified bool
	// CookieCount is the number of cookies captured in the state file.
	CookieCount int
}

// Bootstrap drives the login flow and persists the context's storage state.
//
// State is persisted unconditionally: on a failed flow whatever exists
// (at minimum the anonymous cookies) is still written, so a best-effort
// artifact is always available for debugging. Persist failures are logged,
// not returned. The browser is always released on exit.
//
// Supporting more than one identity would mean keying StorageStatePath by a
// profile name; the current model is deliberately single-identity.
func Bootstrap(settings config.Settings, logger *logging.Logger) (Result, error) {
	// The context must start anonymous: injecting existing state would skip
	// the login flow when the old session is still valid, and a corrupt
	// state file would make context creation fail before it can be rewritten.
	mgr := browser.NewManager(settings, logger).WithoutStorageState()
	defer mgr.Cleanup()

	page, err := mgr.CreatePage()
	if err != nil {
		return Result{}, err
	}

	result := Result{}
	flowErr := runLoginFlow(page, settings, logger, &result)

	// Persist whatever state exists, success or not.
	ctx, err := mgr.Context()
	if err == nil {
		if path, cookies, persistErr := persistState(ctx, settings.StorageStatePath); persistErr != nil {
			logger.Errorf("failed to persist session state: %v", persistErr)
		} else {
			result.StatePath = path
			result.CookieCount = cookies
			logger.Infof("session state written to %s (%d cookies)", path, cookies)
		}
	}

	if flowErr != nil {
		return result, flowErr
	}
	return result, nil
}

// runLoginFlow navigates to the site and walks the login form with fallback
// candidate lists. Missing elements are warnings, not failures: the site
// may already consider the context authenticated or use a non-standard
// flow. Only navigation failure aborts.
func runLoginFlow(page playwright.Page, settings config.Settings, logger *logging.Logger, result *Result) error {
	strategy := locator.New(settings.CandidateTimeout, logger)

	_, err := page.Goto(settings.BaseURL, playwright.PageGotoOptions{
		Timeout:   playwright.Float(float64(settings.NavigationTimeout.Milliseconds())),
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		if browser.IsTimeout(err) {
			return fmt.Errorf("navigation to %s timed out after %v: %w", settings.BaseURL, settings.NavigationTimeout, err)
		}
		return fmt.Errorf("navigation to %s failed: %w", settings.BaseURL, err)
	}

	if entry, err := strategy.Resolve(page, "login entry", locator.LoginEntry()); err != nil {
		logger.Warnf("no login entry point found; continuing, site may already be authenticated")
	} else if err := entry.Click(); err != nil {
		logger.Warnf("failed to activate login entry: %v", err)
	}

	if email, err := strategy.Resolve(page, "email field", locator.EmailField()); err != nil {
		logger.Warnf("no email field found: %v", err)
	} else if err := email.Fill(settings.LoginEmail); err != nil {
		logger.Warnf("failed to fill email field: %v", err)
	}

	if password, err := strategy.Resolve(page, "password field", locator.PasswordField()); err != nil {
		logger.Warnf("no password field found: %v", err)
	} else if err := password.Fill(settings.LoginPassword); err != nil {
		logger.Warnf("failed to fill password field: %v", err)
	}

	if submit, err := strategy.Resolve(page, "submit control", locator.SubmitControl()); err != nil {
		logger.Warnf("no submit control found: %v", err)
	} else if err := submit.Click(); err != nil {
		logger.Warnf("failed to submit login form: %v", err)
	}

	// Let any redirect and session issuance complete. Network idle is the
	// best available signal; the settle delay covers apps that issue the
	// session cookie from a post-idle script. Known flakiness source.
	if err := page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(float64(settings.NavigationTimeout.Milliseconds())),
	}); err != nil {
		logger.Warnf("page did not reach network idle after submit: %v", err)
	}
	page.WaitForTimeout(float64(settings.SettleDelay.Milliseconds()))

	// Best-effort verification only; absence never fails the flow.
	if _, err := strategy.Resolve(page, "logged-in indicator", locator.LoggedInIndicator()); err != nil {
		logger.Warnf("no logged-in indicator found; persisting state unverified")
	} else {
		result.Verified = true
	}

	return nil
}

// stateSaver is the part of a browser context persistState needs.
type stateSaver interface {
	StorageState(path ...string) (*playwright.StorageState, error)
}

// persistState writes the context's storage state (cookies plus
// origin-scoped local storage) to path, creating parent directories.
func persistState(ctx stateSaver, path string) (string, int, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return "", 0, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}

	state, err := ctx.StorageState(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to capture storage state: %w", err)
	}
	return path, len(state.Cookies), nil
}

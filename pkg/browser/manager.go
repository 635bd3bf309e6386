// Package browser owns the browser process, its isolated browsing context,
// and the active page for one worker. A Manager is an explicit instance
// passed to scenario hooks; each worker process creates its own, so there
// is no shared mutable handle state across workers.
//
// Handle lifetimes are nested: the browser spans the whole run, the context
// and page span one scenario each. Teardown is strict (page, then context,
// then browser) and idempotent; repeated closes are safe no-ops.
package browser

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/tradepilot/pkg/config"
	"github.com/entrhq/tradepilot/pkg/logging"
)

// Viewport applied to every context. Fixed so screenshots and traces are
// comparable across runs.
const (
	ViewportWidth  = 1920
	ViewportHeight = 1080
)

// Manager controls the Browser -> Context -> Page handle chain.
type Manager struct {
	settings config.Settings
	logger   *logging.Logger

	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page

	// tracing is true while trace recording is running on the current
	// context; it must be stopped exactly once per context lifetime.
	tracing bool

	// skipStorageState forces contexts to start anonymous even when a
	// persisted state file exists.
	skipStorageState bool
}

// NewManager creates a manager for one worker process.
func NewManager(settings config.Settings, logger *logging.Logger) *Manager {
	return &Manager{settings: settings, logger: logger}
}

// WithoutStorageState makes every context this manager creates start
// anonymous, ignoring any persisted state file. The login bootstrapper uses
// this so a stale or corrupt state file can never skip or break the flow
// that regenerates it.
func (m *Manager) WithoutStorageState() *Manager {
	m.skipStorageState = true
	return m
}

// Launch starts the browser process. It is idempotent: a second call while
// a browser handle is live returns the existing handle.
func (m *Manager) Launch() (playwright.Browser, error) {
	if m.browser != nil {
		return m.browser, nil
	}

	if m.pw == nil {
		opts := &playwright.RunOptions{
			Verbose: false,
			Stdout:  io.Discard,
			Stderr:  io.Discard,
		}
		if err := playwright.Install(opts); err != nil {
			return nil, fmt.Errorf("failed to install playwright driver: %w", err)
		}
		pw, err := playwright.Run(opts)
		if err != nil {
			return nil, fmt.Errorf("failed to start playwright driver: %w", err)
		}
		m.pw = pw
	}

	engine := m.settings.NormalizedEngine()
	var browserType playwright.BrowserType
	switch engine {
	case config.EngineFirefox:
		browserType = m.pw.Firefox
	case config.EngineWebKit:
		browserType = m.pw.WebKit
	default:
		browserType = m.pw.Chromium
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(m.settings.Headless),
	}
	if m.settings.SlowMo > 0 {
		launchOpts.SlowMo = playwright.Float(float64(m.settings.SlowMo.Milliseconds()))
	}

	browser, err := browserType.Launch(launchOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to launch %s: %w", engine, err)
	}
	m.browser = browser
	m.logger.Infof("launched %s (headless=%v)", engine, m.settings.Headless)
	return browser, nil
}

// CreateContext builds an isolated browsing context, lazily launching the
// browser if needed. If the persisted session-state file exists it is
// loaded into the context; otherwise the context starts anonymous and a
// degraded-mode warning is logged. Starts trace recording when enabled.
func (m *Manager) CreateContext() (playwright.BrowserContext, error) {
	if _, err := m.Launch(); err != nil {
		return nil, err
	}
	if m.context != nil {
		return m.context, nil
	}

	context, err := m.browser.NewContext(m.contextOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	context.SetDefaultTimeout(float64(m.settings.ActionTimeout.Milliseconds()))
	context.SetDefaultNavigationTimeout(float64(m.settings.NavigationTimeout.Milliseconds()))

	if m.settings.Trace {
		err := context.Tracing().Start(playwright.TracingStartOptions{
			Screenshots: playwright.Bool(true),
			Snapshots:   playwright.Bool(true),
		})
		if err != nil {
			// Tracing is diagnostics; its failure must not block the run.
			m.logger.Warnf("failed to start tracing: %v", err)
		} else {
			m.tracing = true
		}
	}

	m.context = context
	return context, nil
}

// contextOptions builds the new-context options: fixed viewport, TLS-error
// tolerance, download acceptance, session-state injection when a state file
// exists and injection is not disabled, video recording when enabled.
func (m *Manager) contextOptions() playwright.BrowserNewContextOptions {
	opts := playwright.BrowserNewContextOptions{
		Viewport:          &playwright.Size{Width: ViewportWidth, Height: ViewportHeight},
		IgnoreHttpsErrors: playwright.Bool(true),
		AcceptDownloads:   playwright.Bool(true),
	}

	if m.skipStorageState {
		m.logger.Infof("session state injection disabled; starting anonymous")
	} else if _, err := os.Stat(m.settings.StorageStatePath); err == nil {
		opts.StorageStatePath = playwright.String(m.settings.StorageStatePath)
		m.logger.Infof("loading session state from %s", m.settings.StorageStatePath)
	} else {
		m.logger.Warnf("session state file %s not found; running unauthenticated", m.settings.StorageStatePath)
	}

	if m.settings.Video {
		opts.RecordVideo = &playwright.RecordVideo{
			Dir: filepath.Join(m.settings.ArtifactsDir, "videos"),
		}
	}
	return opts
}

// CreatePage opens the scenario's page, lazily creating a context if
// needed. The manager tracks at most one live page per context; pop-ups
// opened by navigation are the caller's responsibility.
func (m *Manager) CreatePage() (playwright.Page, error) {
	if _, err := m.CreateContext(); err != nil {
		return nil, err
	}
	if m.page != nil {
		return m.page, nil
	}

	page, err := m.context.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	m.page = page
	return page, nil
}

// Browser returns the live browser handle or ErrBrowserNotInitialized.
func (m *Manager) Browser() (playwright.Browser, error) {
	if m.browser == nil {
		return nil, ErrBrowserNotInitialized
	}
	return m.browser, nil
}

// Context returns the live context handle or ErrContextNotInitialized.
func (m *Manager) Context() (playwright.BrowserContext, error) {
	if m.context == nil {
		return nil, ErrContextNotInitialized
	}
	return m.context, nil
}

// Page returns the live page handle or ErrPageNotInitialized.
func (m *Manager) Page() (playwright.Page, error) {
	if m.page == nil {
		return nil, ErrPageNotInitialized
	}
	return m.page, nil
}

// TakeScreenshot captures a full-page screenshot of the current page. When
// name is non-empty the image is also persisted under the screenshots
// directory, created on demand, and the written path is returned so report
// entries can reference the artifact.
func (m *Manager) TakeScreenshot(name string) ([]byte, string, error) {
	if m.page == nil {
		return nil, "", ErrPageNotInitialized
	}

	opts := playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
	}

	path := ""
	if name != "" {
		var err error
		path, err = m.screenshotTarget(name)
		if err != nil {
			return nil, "", err
		}
		opts.Path = playwright.String(path)
	}

	data, err := m.page.Screenshot(opts)
	if err != nil {
		return nil, "", fmt.Errorf("failed to capture screenshot: %w", err)
	}
	return data, path, nil
}

// screenshotTarget creates the screenshots directory and returns the
// collision-free path a named capture will be written to.
func (m *Manager) screenshotTarget(name string) (string, error) {
	dir := filepath.Join(m.settings.ArtifactsDir, "screenshots")
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create screenshots directory: %w", err)
	}
	return filepath.Join(dir, ScreenshotFileName(name, os.Getpid(), time.Now())), nil
}

// SaveTrace stops trace recording and writes the archive under the traces
// directory, named from the sanitized scenario name plus process id and
// timestamp so concurrent workers never collide. Returns the written path,
// or empty when tracing was not running.
func (m *Manager) SaveTrace(scenario string) (string, error) {
	if m.context == nil {
		return "", ErrContextNotInitialized
	}
	if !m.tracing {
		return "", nil
	}
	m.tracing = false

	dir := filepath.Join(m.settings.ArtifactsDir, "traces")
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create traces directory: %w", err)
	}

	path := filepath.Join(dir, TraceFileName(scenario, os.Getpid(), time.Now()))
	if err := m.context.Tracing().Stop(path); err != nil {
		return "", fmt.Errorf("failed to save trace: %w", err)
	}
	m.logger.Infof("trace saved to %s", path)
	return path, nil
}

// DiscardTrace stops trace recording without persisting it. Used on passed
// scenarios so the context can close cleanly.
func (m *Manager) DiscardTrace() {
	if m.context == nil || !m.tracing {
		return
	}
	m.tracing = false
	if err := m.context.Tracing().Stop(); err != nil {
		m.logger.Warnf("failed to stop tracing: %v", err)
	}
}

// ClosePage closes the current page. Safe to call repeatedly.
func (m *Manager) ClosePage() error {
	if m.page == nil {
		return nil
	}
	err := m.page.Close()
	m.page = nil
	if err != nil {
		return fmt.Errorf("failed to close page: %w", err)
	}
	return nil
}

// CloseContext closes the current context, discarding any still-running
// trace first. Safe to call repeatedly.
func (m *Manager) CloseContext() error {
	if m.context == nil {
		return nil
	}
	m.DiscardTrace()
	err := m.context.Close()
	m.context = nil
	if err != nil {
		return fmt.Errorf("failed to close context: %w", err)
	}
	return nil
}

// CloseBrowser closes the browser process. Safe to call repeatedly.
func (m *Manager) CloseBrowser() error {
	if m.browser == nil {
		return nil
	}
	err := m.browser.Close()
	m.browser = nil
	if err != nil {
		return fmt.Errorf("failed to close browser: %w", err)
	}
	return nil
}

// Cleanup tears down page, context, and browser in order and stops the
// Playwright driver. Errors on the way down are logged, not returned;
// cleanup must never mask the failure that preceded it.
func (m *Manager) Cleanup() {
	if err := m.ClosePage(); err != nil {
		m.logger.Warnf("cleanup: %v", err)
	}
	if err := m.CloseContext(); err != nil {
		m.logger.Warnf("cleanup: %v", err)
	}
	if err := m.CloseBrowser(); err != nil {
		m.logger.Warnf("cleanup: %v", err)
	}
	if m.pw != nil {
		if err := m.pw.Stop(); err != nil {
			m.logger.Warnf("cleanup: failed to stop playwright driver: %v", err)
		}
		m.pw = nil
	}
}

// Package config resolves the suite's environment-driven settings into an
// immutable Settings value. Settings are loaded once at process start from
// defaults, an optional YAML file, and TRADEPILOT_* environment variables,
// in that order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Engine names accepted by Settings.Engine. Unrecognized values fall back
// to chromium at launch time rather than failing configuration.
const (
	EngineChromium = "chromium"
	EngineFirefox  = "firefox"
	EngineWebKit   = "webkit"
)

// Default values applied when neither the YAML file nor the environment
// provides a setting.
const (
	DefaultStorageStatePath  = "storage/auth.json"
	DefaultArtifactsDir      = "artifacts"
	DefaultActionTimeout     = 15 * time.Second
	DefaultNavigationTimeout = 30 * time.Second
	DefaultExpectTimeout     = 10 * time.Second
	DefaultCandidateTimeout  = 2 * time.Second
	DefaultSettleDelay       = 500 * time.Millisecond
)

// Settings holds the resolved configuration for a suite run. Values are
// fixed after Load; nothing in the harness mutates a Settings once built.
type Settings struct {
	// Target platform
	BaseURL  string `yaml:"base_url"`
	TradeURL string `yaml:"trade_url"`

	// Browser engine: chromium, firefox, or webkit
	Engine   string        `yaml:"engine"`
	Headless bool          `yaml:"headless"`
	SlowMo   time.Duration `yaml:"slow_mo"`

	// Timeouts
	ActionTimeout     time.Duration `yaml:"action_timeout"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout"`
	ExpectTimeout     time.Duration `yaml:"expect_timeout"`
	CandidateTimeout  time.Duration `yaml:"candidate_timeout"`
	SettleDelay       time.Duration `yaml:"settle_delay"`

	// Credentials for the bootstrap login flow
	LoginEmail    string `yaml:"login_email"`
	LoginPassword string `yaml:"login_password"`

	// Persisted session state
	StorageStatePath string `yaml:"storage_state_path"`

	// Artifact capture
	ArtifactsDir       string `yaml:"artifacts_dir"`
	ScreenshotEachStep bool   `yaml:"screenshot_each_step"`
	Video              bool   `yaml:"video"`
	Trace              bool   `yaml:"trace"`

	// Retry policy
	RetryCount int    `yaml:"retry_count"`
	RetryTag   string `yaml:"retry_tag"`

	// PrimaryWorker gates the initial artifact-directory cleanup so that
	// only one of several parallel worker processes deletes old runs.
	PrimaryWorker bool `yaml:"primary_worker"`
}

// DefaultSettings returns the settings used when nothing else is configured.
func DefaultSettings() Settings {
	return Settings{
		Engine:            EngineChromium,
		Headless:          true,
		ActionTimeout:     DefaultActionTimeout,
		NavigationTimeout: DefaultNavigationTimeout,
		ExpectTimeout:     DefaultExpectTimeout,
		CandidateTimeout:  DefaultCandidateTimeout,
		SettleDelay:       DefaultSettleDelay,
		StorageStatePath:  DefaultStorageStatePath,
		ArtifactsDir:      DefaultArtifactsDir,
		PrimaryWorker:     true,
	}
}

// Load resolves Settings from defaults, the optional YAML file at path
// (skipped when path is empty), and the TRADEPILOT_* environment.
func Load(path string) (Settings, error) {
	s := DefaultSettings()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Settings{}, fmt.Errorf("failed to read settings file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("failed to parse settings file %s: %w", path, err)
		}
	}

	if err := s.applyEnv(); err != nil {
		return Settings{}, err
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// applyEnv overlays TRADEPILOT_* environment variables onto s.
func (s *Settings) applyEnv() error {
	setString(&s.BaseURL, "TRADEPILOT_BASE_URL")
	setString(&s.TradeURL, "TRADEPILOT_TRADE_URL")
	setString(&s.Engine, "TRADEPILOT_ENGINE")
	setString(&s.LoginEmail, "TRADEPILOT_LOGIN_EMAIL")
	setString(&s.LoginPassword, "TRADEPILOT_LOGIN_PASSWORD")
	setString(&s.StorageStatePath, "TRADEPILOT_STORAGE_STATE")
	setString(&s.ArtifactsDir, "TRADEPILOT_ARTIFACTS_DIR")
	setString(&s.RetryTag, "TRADEPILOT_RETRY_TAG")

	boolKeys := []struct {
		dst *bool
		key string
	}{
		{&s.Headless, "TRADEPILOT_HEADLESS"},
		{&s.ScreenshotEachStep, "TRADEPILOT_SCREENSHOT_EACH_STEP"},
		{&s.Video, "TRADEPILOT_VIDEO"},
		{&s.Trace, "TRADEPILOT_TRACE"},
		{&s.PrimaryWorker, "TRADEPILOT_PRIMARY_WORKER"},
	}
	for _, b := range boolKeys {
		if err := setBool(b.dst, b.key); err != nil {
			return err
		}
	}

	if err := setInt(&s.RetryCount, "TRADEPILOT_RETRY_COUNT"); err != nil {
		return err
	}

	durationKeys := []struct {
		dst *time.Duration
		key string
	}{
		{&s.SlowMo, "TRADEPILOT_SLOW_MO"},
		{&s.ActionTimeout, "TRADEPILOT_ACTION_TIMEOUT"},
		{&s.NavigationTimeout, "TRADEPILOT_NAVIGATION_TIMEOUT"},
		{&s.ExpectTimeout, "TRADEPILOT_EXPECT_TIMEOUT"},
		{&s.CandidateTimeout, "TRADEPILOT_CANDIDATE_TIMEOUT"},
		{&s.SettleDelay, "TRADEPILOT_SETTLE_DELAY"},
	}
	for _, d := range durationKeys {
		if err := setDuration(d.dst, d.key); err != nil {
			return err
		}
	}

	return nil
}

// Validate checks that the resolved settings make sense.
func (s *Settings) Validate() error {
	if s.BaseURL == "" {
		return fmt.Errorf("base URL is required (set TRADEPILOT_BASE_URL or base_url)")
	}

	if s.ActionTimeout <= 0 {
		return fmt.Errorf("action timeout must be positive, got %v", s.ActionTimeout)
	}
	if s.NavigationTimeout <= 0 {
		return fmt.Errorf("navigation timeout must be positive, got %v", s.NavigationTimeout)
	}
	if s.ExpectTimeout <= 0 {
		return fmt.Errorf("expect timeout must be positive, got %v", s.ExpectTimeout)
	}
	if s.CandidateTimeout <= 0 {
		return fmt.Errorf("candidate timeout must be positive, got %v", s.CandidateTimeout)
	}
	if s.SettleDelay < 0 {
		return fmt.Errorf("settle delay cannot be negative, got %v", s.SettleDelay)
	}
	if s.SlowMo < 0 {
		return fmt.Errorf("slow-mo delay cannot be negative, got %v", s.SlowMo)
	}
	if s.RetryCount < 0 {
		return fmt.Errorf("retry count cannot be negative, got %d", s.RetryCount)
	}
	if s.StorageStatePath == "" {
		return fmt.Errorf("storage state path cannot be empty")
	}
	if s.ArtifactsDir == "" {
		return fmt.Errorf("artifacts directory cannot be empty")
	}

	return nil
}

// NormalizedEngine returns the configured engine name, falling back to
// chromium for unrecognized values.
func (s *Settings) NormalizedEngine() string {
	switch strings.ToLower(strings.TrimSpace(s.Engine)) {
	case EngineFirefox:
		return EngineFirefox
	case EngineWebKit:
		return EngineWebKit
	default:
		return EngineChromium
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid boolean for %s: %q", key, v)
	}
	*dst = parsed
	return nil
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid integer for %s: %q", key, v)
	}
	*dst = parsed
	return nil
}

// setDuration accepts either a Go duration string ("30s") or a bare
// millisecond count ("30000") for compatibility with CI variable styles.
func setDuration(dst *time.Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	if ms, err := strconv.Atoi(v); err == nil {
		*dst = time.Duration(ms) * time.Millisecond
		return nil
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid duration for %s: %q", key, v)
	}
	*dst = parsed
	return nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, EngineChromium, s.Engine)
	assert.True(t, s.Headless)
	assert.Equal(t, DefaultStorageStatePath, s.StorageStatePath)
	assert.Equal(t, DefaultArtifactsDir, s.ArtifactsDir)
	assert.Equal(t, DefaultCandidateTimeout, s.CandidateTimeout)
	assert.True(t, s.PrimaryWorker)
	assert.Zero(t, s.RetryCount)
}

func TestLoad(t *testing.T) {
	t.Run("env only", func(t *testing.T) {
		t.Setenv("TRADEPILOT_BASE_URL", "https://example.com")
		t.Setenv("TRADEPILOT_ENGINE", "firefox")
		t.Setenv("TRADEPILOT_HEADLESS", "false")
		t.Setenv("TRADEPILOT_RETRY_COUNT", "2")

		s, err := Load("")
		require.NoError(t, err)

		assert.Equal(t, "https://example.com", s.BaseURL)
		assert.Equal(t, EngineFirefox, s.Engine)
		assert.False(t, s.Headless)
		assert.Equal(t, 2, s.RetryCount)
	})

	t.Run("yaml file with env precedence", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.yaml")
		yaml := "base_url: https://from-file.example.com\nengine: webkit\nretry_tag: flaky\n"
		require.NoError(t, os.WriteFile(path, []byte(yaml), 0600))

		t.Setenv("TRADEPILOT_BASE_URL", "https://from-env.example.com")

		s, err := Load(path)
		require.NoError(t, err)

		// Environment wins over the file; untouched file values survive.
		assert.Equal(t, "https://from-env.example.com", s.BaseURL)
		assert.Equal(t, EngineWebKit, s.Engine)
		assert.Equal(t, "flaky", s.RetryTag)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("missing base URL", func(t *testing.T) {
		_, err := Load("")
		assert.ErrorContains(t, err, "base URL")
	})
}

func TestDurationEnv(t *testing.T) {
	t.Run("go duration string", func(t *testing.T) {
		t.Setenv("TRADEPILOT_BASE_URL", "https://example.com")
		t.Setenv("TRADEPILOT_NAVIGATION_TIMEOUT", "45s")

		s, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, 45*time.Second, s.NavigationTimeout)
	})

	t.Run("bare milliseconds", func(t *testing.T) {
		t.Setenv("TRADEPILOT_BASE_URL", "https://example.com")
		t.Setenv("TRADEPILOT_CANDIDATE_TIMEOUT", "1500")

		s, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, 1500*time.Millisecond, s.CandidateTimeout)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		t.Setenv("TRADEPILOT_BASE_URL", "https://example.com")
		t.Setenv("TRADEPILOT_ACTION_TIMEOUT", "soon")

		_, err := Load("")
		assert.ErrorContains(t, err, "TRADEPILOT_ACTION_TIMEOUT")
	})
}

func TestValidate(t *testing.T) {
	base := func() Settings {
		s := DefaultSettings()
		s.BaseURL = "https://example.com"
		return s
	}

	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{"valid", func(s *Settings) {}, ""},
		{"empty base url", func(s *Settings) { s.BaseURL = "" }, "base URL"},
		{"negative action timeout", func(s *Settings) { s.ActionTimeout = -time.Second }, "action timeout"},
		{"zero navigation timeout", func(s *Settings) { s.NavigationTimeout = 0 }, "navigation timeout"},
		{"negative slow-mo", func(s *Settings) { s.SlowMo = -time.Millisecond }, "slow-mo"},
		{"negative settle delay", func(s *Settings) { s.SettleDelay = -time.Second }, "settle delay"},
		{"zero settle delay allowed", func(s *Settings) { s.SettleDelay = 0 }, ""},
		{"negative retry count", func(s *Settings) { s.RetryCount = -1 }, "retry count"},
		{"empty storage path", func(s *Settings) { s.StorageStatePath = "" }, "storage state"},
		{"empty artifacts dir", func(s *Settings) { s.ArtifactsDir = "" }, "artifacts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestNormalizedEngine(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"chromium", EngineChromium},
		{"firefox", EngineFirefox},
		{" WebKit ", EngineWebKit},
		{"chrome", EngineChromium},
		{"", EngineChromium},
	}

	for _, tt := range tests {
		s := Settings{Engine: tt.in}
		assert.Equal(t, tt.want, s.NormalizedEngine(), "engine %q", tt.in)
	}
}

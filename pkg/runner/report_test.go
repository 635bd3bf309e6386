package runner

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *Report {
	r := &Report{
		Suite:     "smoke",
		RunID:     "run-1",
		StartTime: time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC),
		Outcomes: []Outcome{
			{
				Name:     "login menu item links to the login page",
				Status:   StatusPassed,
				Attempts: []Attempt{{Status: StatusPassed, Duration: time.Second}},
				Duration: time.Second,
			},
			{
				Name:   "trade section lists instruments",
				Status: StatusFailed,
				Attempts: []Attempt{
					{Status: StatusFailed, Error: "instrument table has no rows", FailedStep: "verify first row has quotes"},
					{Status: StatusFailed, Error: "instrument table has no rows", FailedStep: "verify first row has quotes"},
				},
				Attachments: []string{"artifacts/traces/trade_1_1.zip"},
				Duration:    3 * time.Second,
			},
			{Name: "footer exposes its link set", Status: StatusIdle, Skipped: true},
		},
	}
	r.EndTime = r.StartTime.Add(4 * time.Second)
	r.Duration = 4 * time.Second
	r.tally()
	return r
}

func TestReportTally(t *testing.T) {
	r := sampleReport()

	assert.Equal(t, 3, r.Total)
	assert.Equal(t, 1, r.Passed)
	assert.Equal(t, 1, r.Failed)
	assert.Equal(t, 1, r.Skipped)
	assert.False(t, r.Ok())

	r.Outcomes[1].Status = StatusPassed
	r.Outcomes[1].Skipped = false
	r.tally()
	assert.True(t, r.Ok())
}

func TestReportWriter(t *testing.T) {
	dir := t.TempDir()
	writer := NewReportWriter(dir)
	require.NoError(t, writer.WriteAll(sampleReport()))

	t.Run("json round trip", func(t *testing.T) {
		data, err := os.ReadFile(filepath.Join(dir, "report.json"))
		require.NoError(t, err)

		var decoded Report
		require.NoError(t, json.Unmarshal(data, &decoded))

		assert.Equal(t, "smoke", decoded.Suite)
		assert.Len(t, decoded.Outcomes, 3)
		assert.Equal(t, StatusFailed, decoded.Outcomes[1].Status)
		assert.Len(t, decoded.Outcomes[1].Attempts, 2)
		assert.Equal(t, "verify first row has quotes", decoded.Outcomes[1].Attempts[0].FailedStep)
	})

	t.Run("markdown summary", func(t *testing.T) {
		data, err := os.ReadFile(filepath.Join(dir, "summary.md"))
		require.NoError(t, err)
		md := string(data)

		assert.Contains(t, md, "# smoke Run Summary")
		assert.Contains(t, md, "1 passed, 1 failed, 1 skipped of 3")
		assert.Contains(t, md, "trade section lists instruments")
		assert.Contains(t, md, "(2 attempts)")
		assert.Contains(t, md, "instrument table has no rows")
		assert.Contains(t, md, "artifacts/traces/trade_1_1.zip")
	})

	t.Run("nested output dir created", func(t *testing.T) {
		nested := filepath.Join(t.TempDir(), "a", "b")
		require.NoError(t, NewReportWriter(nested).WriteAll(sampleReport()))
		_, err := os.Stat(filepath.Join(nested, "report.json"))
		assert.NoError(t, err)
	})
}

func TestConsoleSummary(t *testing.T) {
	out := ConsoleSummary(sampleReport())

	assert.Contains(t, out, "smoke")
	assert.Contains(t, out, "PASS")
	assert.Contains(t, out, "FAIL")
	assert.Contains(t, out, "SKIP")
	assert.Contains(t, out, "instrument table has no rows")
	assert.Contains(t, out, "1 passed, 1 failed, 1 skipped")
}

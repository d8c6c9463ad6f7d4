package harness

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradepulse/livetest/internal/common"
	"github.com/tradepulse/livetest/internal/validator"
)

func newFileRunLogger(t *testing.T, level string) *RunLogger {
	t.Helper()
	cfg := common.NewDefaultConfig()
	cfg.Logging.Level = level
	cfg.Logging.Output = []string{"file"}

	log, err := NewRunLogger(cfg, t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })
	return log
}

func readRunLog(t *testing.T, l *RunLogger) string {
	t.Helper()
	require.NoError(t, l.Close())
	data, err := os.ReadFile(l.Path())
	require.NoError(t, err)
	return string(data)
}

func TestRunLogger_FileOutput(t *testing.T) {
	t.Run("File lines are ANSI-stripped", func(t *testing.T) {
		l := newFileRunLogger(t, "info")
		l.StepPass("1.1", "open dashboard", 120*time.Millisecond)
		l.StepFail("1.2", "read price", 80*time.Millisecond, "element not found")

		content := readRunLog(t, l)
		assert.NotContains(t, content, "\x1b[", "ANSI escapes must be stripped in the file sink")
		assert.Contains(t, content, "open dashboard")
		assert.Contains(t, content, "element not found")
	})

	t.Run("Failures bypass the verbosity gate", func(t *testing.T) {
		l := newFileRunLogger(t, "error")
		l.Info("routine message")
		l.Verbose("diagnostic message")
		l.StepStart("1.1", "gated step start")
		l.StepFail("1.1", "place order", time.Millisecond, "timeout")
		l.Warn("partial results")
		l.Error("backend unreachable")

		content := readRunLog(t, l)
		assert.NotContains(t, content, "routine message")
		assert.NotContains(t, content, "diagnostic message")
		assert.NotContains(t, content, "gated step start")
		assert.Contains(t, content, "place order")
		assert.Contains(t, content, "timeout")
		assert.Contains(t, content, "partial results")
		assert.Contains(t, content, "backend unreachable")
	})

	t.Run("Verbose emits only at verbose level", func(t *testing.T) {
		l := newFileRunLogger(t, "verbose")
		l.Verbose("diagnostic message")
		content := readRunLog(t, l)
		assert.Contains(t, content, "diagnostic message")
	})

	t.Run("Validation mismatches always emit", func(t *testing.T) {
		l := newFileRunLogger(t, "error")
		measured := 7.5
		l.Validation(validator.Result{
			Field:        "price",
			UIValue:      107.5,
			APIValue:     100.0,
			Match:        false,
			TolerancePct: &measured,
		})
		l.Validation(validator.Result{
			Field:   "name",
			UIValue: "Bitcoin",
			Match:   false,
			Error:   "GET /api/assets/BTC failed: 502 Bad Gateway",
		})

		content := readRunLog(t, l)
		assert.Contains(t, content, "price")
		assert.Contains(t, content, "7.500")
		assert.Contains(t, content, "502 Bad Gateway")
	})

	t.Run("Console logger is exposed for collaborators", func(t *testing.T) {
		l := newFileRunLogger(t, "info")
		require.NotNil(t, l.Console())
		// Collaborators log through the run-scoped instance, never a global.
		l.Console().Debug().Str("attempt", "1").Msg("retrying")
	})

	t.Run("No file sink when file output is disabled", func(t *testing.T) {
		cfg := common.NewDefaultConfig()
		cfg.Logging.Output = []string{"stdout"}
		l, err := NewRunLogger(cfg, t.TempDir())
		require.NoError(t, err)
		defer l.Close()

		assert.Empty(t, l.Path())
		// Must not panic without a file sink.
		l.StepFail("1.1", "anything", time.Millisecond, "reason")
	})
}

func TestRunLogger_SuiteEvents(t *testing.T) {
	l := newFileRunLogger(t, "info")

	res := NewSuiteResult("dashboard")
	require.NoError(t, res.RecordStep(Step{ID: "1", Status: StepPassed}))
	require.NoError(t, res.RecordStep(Step{ID: "2", Status: StepFailed, Error: "boom"}))
	res.Duration = 3 * time.Second

	l.SuiteStart("dashboard")
	l.SuiteEnd(res)

	sum := Summarize("run_x", []*SuiteResult{res}, time.Now().Add(-3*time.Second), l.Path(), "shots")
	l.FinalSummary(sum)

	content := readRunLog(t, l)
	assert.Contains(t, content, "Suite: dashboard")
	assert.Contains(t, content, "1/2 steps passed")
	assert.Contains(t, content, "Live Test Results")
	if !strings.Contains(content, "50.0%") {
		t.Errorf("Final summary should include the pass rate, got:\n%s", content)
	}
}

package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/acarl005/stripansi"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"

	"github.com/tradepulse/livetest/internal/common"
	"github.com/tradepulse/livetest/internal/validator"
)

type logLevel int

const (
	levelVerbose logLevel = iota
	levelInfo
	levelWarn
	levelError
)

func parseLevel(s string) logLevel {
	switch strings.ToLower(s) {
	case "verbose", "debug":
		return levelVerbose
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// RunLogger is the single writer for all human-readable run telemetry. It
// emits to the live console and to an append-only run.log with ANSI styling
// stripped. Info and Verbose are gated by the configured level; warnings,
// errors, step failures and validations always emit, because failures must
// never be silenced by a verbosity setting.
//
// RunLogger is constructed per run and passed by reference; there is no
// process-wide singleton state.
type RunLogger struct {
	mu      sync.Mutex
	console arbor.ILogger
	file    *os.File
	path    string
	level   logLevel
}

// NewRunLogger creates the run log sink inside runDir. The console stream is
// created unconditionally; run.log only when file output is configured.
func NewRunLogger(cfg *common.Config, runDir string) (*RunLogger, error) {
	// The console writer stays at trace; RunLogger applies its own gate so
	// that failures bypass the verbosity setting.
	console := arbor.NewLogger().WithConsoleWriter(models.WriterConfiguration{
		Type:             models.LogWriterTypeConsole,
		TimeFormat:       "15:04:05",
		TextOutput:       true,
		DisableTimestamp: false,
	}).WithLevelFromString("trace")

	rl := &RunLogger{
		console: console,
		level:   parseLevel(cfg.Logging.Level),
	}

	for _, out := range cfg.Logging.Output {
		if out != "file" {
			continue
		}
		if err := os.MkdirAll(runDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create run directory: %w", err)
		}
		path := filepath.Join(runDir, "run.log")
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open run log: %w", err)
		}
		rl.file = f
		rl.path = path
		break
	}
	return rl, nil
}

// Path returns the run.log location, or "" when file output is disabled.
func (l *RunLogger) Path() string { return l.path }

// Console exposes the run-scoped structured logger for collaborators that
// emit their own diagnostics, such as retry loops.
func (l *RunLogger) Console() arbor.ILogger { return l.console }

// Close flushes and releases the file sink. Call once at run end.
func (l *RunLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// toFile appends an ANSI-stripped line to run.log.
func (l *RunLogger) toFile(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return
	}
	stamped := time.Now().Format("15:04:05.000") + " " + stripansi.Strip(line) + "\n"
	if _, err := l.file.WriteString(stamped); err != nil {
		l.console.Warn().Err(err).Msg("Failed to append to run log")
	}
}

func (l *RunLogger) emitInfo(line string) {
	l.console.Info().Msg(line)
	l.toFile(line)
}

func (l *RunLogger) emitWarn(line string) {
	l.console.Warn().Msg(line)
	l.toFile(line)
}

func (l *RunLogger) emitError(line string) {
	l.console.Error().Msg(line)
	l.toFile(line)
}

// Banner writes the run header.
func (l *RunLogger) Banner(title, version, runID string) {
	sep := strings.Repeat("=", 60)
	l.emitInfo(sep)
	l.emitInfo(fmt.Sprintf("%s %s  (%s)", title, version, runID))
	l.emitInfo(sep)
}

// SuiteStart marks the beginning of a suite.
func (l *RunLogger) SuiteStart(name string) {
	l.emitInfo("")
	l.emitInfo(fmt.Sprintf("── Suite: %s %s", name, strings.Repeat("─", max(0, 40-len(name)))))
}

// SuiteEnd reports the suite aggregate.
func (l *RunLogger) SuiteEnd(res *SuiteResult) {
	pct := 0.0
	if res.TotalSteps > 0 {
		pct = float64(res.PassedSteps) / float64(res.TotalSteps) * 100
	}
	line := fmt.Sprintf("Suite %s: %d/%d steps passed (%.0f%%) in %v",
		res.Name, res.PassedSteps, res.TotalSteps, pct, res.Duration.Round(time.Millisecond))
	if res.Fatal != "" {
		l.emitError(line + " — FATAL: " + res.Fatal)
		return
	}
	if res.FailedSteps() > 0 {
		l.emitWarn(line)
		return
	}
	l.emitInfo(line)
}

// StepStart marks a step entering the running state.
func (l *RunLogger) StepStart(id, description string) {
	if l.level > levelInfo {
		return
	}
	l.emitInfo(fmt.Sprintf("  [%s] %s ...", id, description))
}

// StepPass records a passing step with its duration.
func (l *RunLogger) StepPass(id, description string, duration time.Duration) {
	mark := text.FgGreen.Sprint("✓")
	l.emitInfo(fmt.Sprintf("  %s [%s] %s (%v)", mark, id, description, duration.Round(time.Millisecond)))
}

// StepFail records a failing step. Always emitted regardless of level.
func (l *RunLogger) StepFail(id, description string, duration time.Duration, reason string) {
	mark := text.FgRed.Sprint("✗")
	l.emitError(fmt.Sprintf("  %s [%s] %s (%v): %s", mark, id, description, duration.Round(time.Millisecond), reason))
}

// Screenshot records a captured artifact.
func (l *RunLogger) Screenshot(filename string) {
	if l.level > levelInfo {
		return
	}
	l.emitInfo("  📷 " + filename)
}

// Validation reports one field comparison. Always emitted: a mismatch is a
// failure and failures are never gated.
func (l *RunLogger) Validation(r validator.Result) {
	if r.Match {
		mark := text.FgGreen.Sprint("✓")
		if r.TolerancePct != nil {
			l.emitInfo(fmt.Sprintf("    %s %s: ui=%v api=%v (Δ %.3f%%)", mark, r.Field, r.UIValue, r.APIValue, *r.TolerancePct))
		} else {
			l.emitInfo(fmt.Sprintf("    %s %s: ui=%v api=%v", mark, r.Field, r.UIValue, r.APIValue))
		}
		return
	}

	mark := text.FgRed.Sprint("✗")
	switch {
	case r.Error != "":
		l.emitError(fmt.Sprintf("    %s %s: ui=%v api=<unavailable>: %s", mark, r.Field, r.UIValue, r.Error))
	case r.TolerancePct != nil:
		l.emitError(fmt.Sprintf("    %s %s: ui=%v api=%v (Δ %.3f%% over tolerance)", mark, r.Field, r.UIValue, r.APIValue, *r.TolerancePct))
	default:
		l.emitError(fmt.Sprintf("    %s %s: ui=%v api=%v (mismatch)", mark, r.Field, r.UIValue, r.APIValue))
	}
}

// ValidationSummary reports the aggregate of a validation batch.
func (l *RunLogger) ValidationSummary(results []validator.Result) {
	matched := 0
	for _, r := range results {
		if r.Match {
			matched++
		}
	}
	line := fmt.Sprintf("    validations: %d/%d matched", matched, len(results))
	if matched < len(results) {
		l.emitWarn(line)
		return
	}
	if l.level <= levelInfo {
		l.emitInfo(line)
	}
}

// FinalSummary renders the run-level report table and the artifact
// locations. Always emitted.
func (l *RunLogger) FinalSummary(sum RunSummary) {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("Live Test Results (%v)", sum.Duration.Round(time.Millisecond)))
	t.AppendHeader(table.Row{"Suite", "Steps", "Passed", "Failed", "Duration", "Status"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Steps", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Duration", Align: text.AlignRight},
	})

	for _, s := range sum.Suites {
		status := "pass"
		if s.Fatal != "" {
			status = "fatal"
		} else if s.FailedSteps() > 0 {
			status = "fail"
		}
		t.AppendRow(table.Row{
			s.Name, s.TotalSteps, s.PassedSteps, s.FailedSteps(),
			s.Duration.Round(time.Millisecond), status,
		})
	}
	t.AppendFooter(table.Row{
		"total", sum.TotalSteps, sum.PassedSteps, sum.FailedSteps,
		sum.Duration.Round(time.Millisecond),
		fmt.Sprintf("%.1f%%", sum.PassRate),
	})

	if sum.Passed() {
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	} else {
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	}

	rendered := t.Render()
	fmt.Fprintln(os.Stdout, rendered)
	l.toFile(rendered)

	if sum.LogPath != "" {
		l.emitInfo("Run log: " + sum.LogPath)
	}
	if sum.ScreenshotDir != "" {
		l.emitInfo("Screenshots: " + sum.ScreenshotDir)
	}
}

// Info emits a general message, gated by the configured level.
func (l *RunLogger) Info(format string, args ...interface{}) {
	if l.level > levelInfo {
		return
	}
	l.emitInfo(fmt.Sprintf(format, args...))
}

// Verbose emits a diagnostic message, only at verbose level.
func (l *RunLogger) Verbose(format string, args ...interface{}) {
	if l.level > levelVerbose {
		return
	}
	line := fmt.Sprintf(format, args...)
	l.console.Debug().Msg(line)
	l.toFile(line)
}

// Warn always emits.
func (l *RunLogger) Warn(format string, args ...interface{}) {
	l.emitWarn(fmt.Sprintf(format, args...))
}

// Error always emits.
func (l *RunLogger) Error(format string, args ...interface{}) {
	l.emitError(fmt.Sprintf(format, args...))
}

// Package harness contains the run-level machinery of the live test tool:
// the result data model, the run logger, the screenshot manager and the
// suite runner.
package harness

import (
	"fmt"
	"time"

	"github.com/tradepulse/livetest/internal/validator"
)

// StepStatus tracks a step through pending -> running -> passed|failed.
// Terminal once recorded; a step is never re-run within the same suite
// execution.
type StepStatus string

const (
	StepPending StepStatus = "pending"
	StepRunning StepStatus = "running"
	StepPassed  StepStatus = "passed"
	StepFailed  StepStatus = "failed"
)

// Step is one atomic user action plus its recorded outcome.
type Step struct {
	ID          string             `json:"id"` // suite-scoped, stable, human-sortable
	Description string             `json:"description"`
	Status      StepStatus         `json:"status"`
	Error       string             `json:"error,omitempty"`
	Duration    time.Duration      `json:"duration"`
	Validations []validator.Result `json:"validations,omitempty"`
	Screenshot  string             `json:"screenshot,omitempty"`
}

// Passed reports whether the step completed without an action error and
// with every validation matching.
func (s *Step) Passed() bool {
	return s.Status == StepPassed
}

// SuiteResult aggregates the ordered steps of one suite execution. Counters
// are maintained incrementally by RecordStep, never recomputed lazily.
type SuiteResult struct {
	Name        string        `json:"name"`
	Steps       []Step        `json:"steps"`
	TotalSteps  int           `json:"total_steps"`
	PassedSteps int           `json:"passed_steps"`
	Duration    time.Duration `json:"duration"`
	Screenshots []string      `json:"screenshots,omitempty"`
	Fatal       string        `json:"fatal,omitempty"` // suite-level failure not attributable to a step

	ids map[string]struct{}
}

// NewSuiteResult creates an empty result for the named suite.
func NewSuiteResult(name string) *SuiteResult {
	return &SuiteResult{
		Name:  name,
		Steps: make([]Step, 0),
		ids:   make(map[string]struct{}),
	}
}

// RecordStep appends a terminal step and updates the counters. A step is
// recorded exactly once: a duplicate step ID within the same suite is a
// caller defect and is rejected rather than overwritten.
func (r *SuiteResult) RecordStep(step Step) error {
	if step.Status != StepPassed && step.Status != StepFailed {
		return fmt.Errorf("step %s recorded in non-terminal status %q", step.ID, step.Status)
	}
	if r.ids == nil {
		r.ids = make(map[string]struct{})
	}
	if _, exists := r.ids[step.ID]; exists {
		return fmt.Errorf("duplicate step id %q in suite %s", step.ID, r.Name)
	}

	r.ids[step.ID] = struct{}{}
	r.Steps = append(r.Steps, step)
	r.TotalSteps++
	if step.Status == StepPassed {
		r.PassedSteps++
	}
	return nil
}

// FailedSteps returns the number of recorded steps that did not pass.
func (r *SuiteResult) FailedSteps() int {
	return r.TotalSteps - r.PassedSteps
}

// AttachScreenshots records the suite-scoped screenshot list captured by the
// screenshot manager while this suite ran.
func (r *SuiteResult) AttachScreenshots(filenames []string) {
	r.Screenshots = append([]string(nil), filenames...)
}

// RunSummary is the aggregate over all suite results of one invocation.
// Computed exactly once at the end of the run, purely from the SuiteResults.
type RunSummary struct {
	RunID         string         `json:"run_id"`
	Suites        []*SuiteResult `json:"suites"`
	TotalSuites   int            `json:"total_suites"`
	TotalSteps    int            `json:"total_steps"`
	PassedSteps   int            `json:"passed_steps"`
	FailedSteps   int            `json:"failed_steps"`
	PassRate      float64        `json:"pass_rate"` // percent
	Duration      time.Duration  `json:"duration"`
	LogPath       string         `json:"log_path,omitempty"`
	ScreenshotDir string         `json:"screenshot_dir,omitempty"`
	StartedAt     time.Time      `json:"started_at"`
}

// Summarize computes the run summary from the collected suite results.
func Summarize(runID string, suites []*SuiteResult, started time.Time, logPath, screenshotDir string) RunSummary {
	summary := RunSummary{
		RunID:         runID,
		Suites:        suites,
		TotalSuites:   len(suites),
		Duration:      time.Since(started),
		LogPath:       logPath,
		ScreenshotDir: screenshotDir,
		StartedAt:     started,
	}
	for _, s := range suites {
		summary.TotalSteps += s.TotalSteps
		summary.PassedSteps += s.PassedSteps
	}
	summary.FailedSteps = summary.TotalSteps - summary.PassedSteps
	if summary.TotalSteps > 0 {
		summary.PassRate = float64(summary.PassedSteps) / float64(summary.TotalSteps) * 100
	}
	return summary
}

// Passed reports whether the whole run succeeded: every recorded step passed
// and no suite failed at the suite level. A validation mismatch counts as a
// failure even though nothing threw.
func (s *RunSummary) Passed() bool {
	if s.FailedSteps != 0 {
		return false
	}
	for _, suite := range s.Suites {
		if suite.Fatal != "" {
			return false
		}
	}
	return true
}

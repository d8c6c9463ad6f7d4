// Package suites holds the acceptance-test flow definitions and the closed
// registry that maps suite identifiers to their implementations.
package suites

import (
	"context"
	"strings"
	"time"

	"github.com/tradepulse/livetest/internal/common"
	"github.com/tradepulse/livetest/internal/harness"
	"github.com/tradepulse/livetest/internal/pages"
	"github.com/tradepulse/livetest/internal/validator"
	"github.com/tradepulse/livetest/internal/waits"
)

// Deps carries the collaborators every suite needs. Constructed once per run
// and shared; suites never hold browser state of their own.
type Deps struct {
	Cfg       *common.Config
	Log       *harness.RunLogger
	Shots     *harness.ScreenshotManager
	Validator *validator.Validator
}

// stepRunner executes one step at a time against the shared page and records
// each outcome exactly once. A failing step never aborts the suite; later
// steps still run so the suite reports every failure it can find.
type stepRunner struct {
	ctx   context.Context
	deps  *Deps
	suite *harness.SuiteResult
	page  *pages.Page
}

func newStepRunner(ctx context.Context, deps *Deps, name string) *stepRunner {
	return &stepRunner{
		ctx:   ctx,
		deps:  deps,
		suite: harness.NewSuiteResult(name),
		page:  pages.NewPage(ctx, deps.Cfg, deps.Log),
	}
}

// run times the action, logs its validations, optionally captures a
// screenshot and records the step. The step fails on an action error or on
// any validation mismatch.
func (s *stepRunner) run(id, description, screenshotLabel string, action func() ([]validator.Result, error)) {
	s.deps.Log.StepStart(id, description)
	start := time.Now()
	results, err := action()
	duration := time.Since(start)

	step := harness.Step{
		ID:          id,
		Description: description,
		Duration:    duration,
		Validations: results,
	}

	for _, r := range results {
		s.deps.Log.Validation(r)
	}
	if len(results) > 0 {
		s.deps.Log.ValidationSummary(results)
	}

	var reasons []string
	if err != nil {
		reasons = append(reasons, err.Error())
	}
	for _, r := range results {
		if !r.Match {
			reasons = append(reasons, "validation mismatch: "+r.Field)
		}
	}

	if screenshotLabel != "" {
		step.Screenshot = s.deps.Shots.Capture(s.ctx, screenshotLabel)
	}

	if len(reasons) == 0 {
		step.Status = harness.StepPassed
		s.deps.Log.StepPass(id, description, duration)
	} else {
		step.Status = harness.StepFailed
		step.Error = strings.Join(reasons, "; ")
		s.deps.Log.StepFail(id, description, duration, step.Error)
	}

	if recErr := s.suite.RecordStep(step); recErr != nil {
		s.deps.Log.Error("Failed to record step %s: %v", id, recErr)
	}

	// Inter-step pacing. Best effort; a cancelled context surfaces on the
	// next action instead.
	_ = waits.Delay(s.ctx, s.deps.Cfg.Paced(s.deps.Cfg.Timing.StepDelay))
}

// waitForValueChange polls a read function until its result differs from the
// initial value, using the configured wait bounds.
func (s *stepRunner) waitForValueChange(initial string, read func(context.Context) (string, error)) (string, error) {
	return waits.ForValueChange(s.ctx,
		s.deps.Cfg.Paced(s.deps.Cfg.Timing.WaitTimeout),
		s.deps.Cfg.Timing.PollInterval.Std(),
		initial, read)
}

// noValidations adapts a plain action to the step signature.
func noValidations(action func() error) func() ([]validator.Result, error) {
	return func() ([]validator.Result, error) {
		return nil, action()
	}
}

package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/tradepulse/livetest/internal/common"
)

// SuiteFunc executes one suite against the shared browser page and returns
// its result. Suites must not retain the context across suite boundaries.
type SuiteFunc func(browserCtx context.Context) *SuiteResult

// NamedSuite pairs a suite identifier with its implementation, in execution
// order.
type NamedSuite struct {
	Name string
	Run  SuiteFunc
}

type runnerState int

const (
	stateUninitialized runnerState = iota
	stateSessionOpen
	stateSessionClosed
)

// Runner owns the browser session lifecycle, executes suites strictly
// sequentially and aggregates their results. One browser session serves the
// entire run: every suite drives the same page and the same authenticated
// application state.
type Runner struct {
	cfg    *common.Config
	log    *RunLogger
	shots  *ScreenshotManager
	runID  string
	runDir string

	state      runnerState
	started    time.Time
	results    []*SuiteResult
	fatal      bool
	browserCtx context.Context
	cleanup    []func()

	// sessionFactory is replaceable in tests so no browser is required.
	sessionFactory func(ctx context.Context) (context.Context, []func(), error)
}

// NewRunner wires the runner with its collaborators. Nothing is opened until
// Setup.
func NewRunner(cfg *common.Config, log *RunLogger, shots *ScreenshotManager, runID, runDir string) *Runner {
	r := &Runner{
		cfg:     cfg,
		log:     log,
		shots:   shots,
		runID:   runID,
		runDir:  runDir,
		results: make([]*SuiteResult, 0),
	}
	r.sessionFactory = r.newChromeSession
	return r
}

func (r *Runner) newChromeSession(ctx context.Context) (context.Context, []func(), error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", !r.cfg.Browser.Headed),
		chromedp.Flag("disable-gpu", true),
		chromedp.WindowSize(r.cfg.Browser.WindowWidth, r.cfg.Browser.WindowHeight),
	)
	if r.cfg.Browser.Engine != "" {
		opts = append(opts, chromedp.ExecPath(r.cfg.Browser.Engine))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// Start the browser now so session failures surface in Setup rather
	// than in the first suite.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, nil, fmt.Errorf("failed to start browser session: %w", err)
	}

	cleanup := []func(){
		cancelAlloc,
		cancelBrowser,
		func() { _ = chromedp.Cancel(browserCtx) },
	}
	return browserCtx, cleanup, nil
}

// Setup opens the single browser session for the whole run and applies the
// screenshot retention policy before any suite executes.
func (r *Runner) Setup(ctx context.Context) error {
	if r.state != stateUninitialized {
		return fmt.Errorf("runner setup called twice")
	}

	r.started = time.Now()
	r.shots.CleanupOld(r.cfg.Output.KeepRuns)

	browserCtx, cleanup, err := r.sessionFactory(ctx)
	if err != nil {
		return err
	}
	r.browserCtx = browserCtx
	r.cleanup = cleanup
	r.state = stateSessionOpen
	r.log.Verbose("Browser session open (headed=%v)", r.cfg.Browser.Headed)
	return nil
}

// Teardown closes the session. Safe to call more than once; always attempted
// via defer so no browser handle outlives the run.
func (r *Runner) Teardown() {
	if r.state != stateSessionOpen {
		return
	}
	// Cleanup functions run in reverse registration order.
	for i := len(r.cleanup) - 1; i >= 0; i-- {
		r.cleanup[i]()
	}
	r.cleanup = nil
	r.state = stateSessionClosed
	r.log.Verbose("Browser session closed")
}

// RunSuite scopes the screenshot manager to the suite, executes it against
// the shared page and records the result. An uncaught panic inside the suite
// function is contained at this boundary: the suite is marked failed as a
// whole and the run continues, because later suites (e.g. logout) must still
// attempt to leave the account in a clean state.
func (r *Runner) RunSuite(name string, fn SuiteFunc) *SuiteResult {
	if r.state != stateSessionOpen {
		res := NewSuiteResult(name)
		res.Fatal = "runner session not open"
		r.results = append(r.results, res)
		return res
	}

	r.shots.SetSuite(name)
	r.shots.Clear()
	r.log.SuiteStart(name)
	start := time.Now()

	res := r.execSuite(name, fn)
	res.Duration = time.Since(start)
	res.AttachScreenshots(r.shots.List())

	r.log.SuiteEnd(res)
	r.results = append(r.results, res)
	return res
}

func (r *Runner) execSuite(name string, fn SuiteFunc) (res *SuiteResult) {
	defer func() {
		if rec := recover(); rec != nil {
			if res == nil {
				res = NewSuiteResult(name)
			}
			res.Fatal = fmt.Sprintf("panic: %v", rec)
			r.log.Verbose("Suite %s panic stack:\n%s", name, debug.Stack())
		}
	}()

	res = fn(r.browserCtx)
	if res == nil {
		res = NewSuiteResult(name)
		res.Fatal = "suite returned no result"
	}
	return res
}

// RunAll executes the given suites in order, then computes and reports the
// run summary. The session is torn down in a deferred block so the browser
// is always closed, however the run ends.
func (r *Runner) RunAll(ctx context.Context, suites []NamedSuite) (RunSummary, error) {
	if err := r.Setup(ctx); err != nil {
		r.fatal = true
		r.log.Error("Runner setup failed: %v", err)
		return Summarize(r.runID, r.results, time.Now(), r.log.Path(), r.shots.dir), err
	}
	defer r.Teardown()

	for _, suite := range suites {
		r.RunSuite(suite.Name, suite.Run)
	}

	sum := Summarize(r.runID, r.results, r.started, r.log.Path(), r.shots.dir)
	r.log.FinalSummary(sum)

	if err := r.writeSummaryJSON(sum); err != nil {
		r.log.Warn("Failed to write summary.json: %v", err)
	}
	return sum, nil
}

// writeSummaryJSON persists the machine-readable run evidence next to the
// run log.
func (r *Runner) writeSummaryJSON(sum RunSummary) error {
	data, err := json.MarshalIndent(sum, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(r.runDir, "summary.json"), data, 0644)
}

// ExitCode derives the process status purely from the aggregate counts: any
// failed step or suite-level fatal produces a non-zero exit, even when every
// suite function returned normally.
func (r *Runner) ExitCode(sum RunSummary) int {
	if r.fatal || !sum.Passed() {
		return 1
	}
	return 0
}

package harness

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// filesPerRun approximates how many screenshots one run of a suite produces;
// the retention policy keeps keepRuns * filesPerRun files per suite prefix.
const filesPerRun = 20

var labelSanitizer = regexp.MustCompile(`[^a-z0-9]+`)

func sanitizeLabel(label string) string {
	s := labelSanitizer.ReplaceAllString(strings.ToLower(label), "_")
	return strings.Trim(s, "_")
}

var shotNameTail = regexp.MustCompile(`-[a-z0-9_]*-\d{8}-\d{6}\.\d{3}\.png$`)

// suitePrefix recovers the suite name from a screenshot filename. Sanitized
// labels never contain hyphens, so stripping the label and timestamp tail
// leaves the full suite name even when the name itself is hyphenated.
func suitePrefix(name string) string {
	if loc := shotNameTail.FindStringIndex(name); loc != nil {
		return name[:loc[0]]
	}
	return strings.TrimSuffix(name, ".png")
}

// ScreenshotManager captures page snapshots, names them deterministically
// and tracks them for the suite currently executing. It is constructed per
// run and scoped to one suite at a time by the runner.
type ScreenshotManager struct {
	enabled bool
	dir     string
	logger  *RunLogger

	suite string
	shots []string

	// captureFn is replaceable in tests so no browser is required.
	captureFn func(ctx context.Context, buf *[]byte) error
}

// NewScreenshotManager creates a manager writing PNGs into dir. When enabled
// is false every Capture call is a silent no-op.
func NewScreenshotManager(enabled bool, dir string, logger *RunLogger) *ScreenshotManager {
	return &ScreenshotManager{
		enabled: enabled,
		dir:     dir,
		logger:  logger,
		shots:   make([]string, 0),
		captureFn: func(ctx context.Context, buf *[]byte) error {
			return chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
				b, err := page.CaptureScreenshot().
					WithFormat(page.CaptureScreenshotFormatPng).
					WithCaptureBeyondViewport(true).
					Do(ctx)
				if err != nil {
					return err
				}
				*buf = b
				return nil
			}))
		},
	}
}

// SetSuite scopes subsequent captures to the named suite. The runner calls
// this before each suite starts so filenames and the in-memory list do not
// leak across suites.
func (m *ScreenshotManager) SetSuite(name string) {
	m.suite = name
}

// Clear resets the in-memory screenshot list for a fresh suite.
func (m *ScreenshotManager) Clear() {
	m.shots = m.shots[:0]
}

// List returns the filenames captured for the current suite.
func (m *ScreenshotManager) List() []string {
	return append([]string(nil), m.shots...)
}

// Capture takes a full-page snapshot named
// {suite}-{sanitizedLabel}-{timestamp}.png. Returns "" when capture is
// disabled. A failure to capture or write is logged as a warning and never
// fails the owning step.
func (m *ScreenshotManager) Capture(ctx context.Context, label string) string {
	if !m.enabled {
		return ""
	}

	filename := fmt.Sprintf("%s-%s-%s.png", m.suite, sanitizeLabel(label), time.Now().Format("20060102-150405.000"))

	var buf []byte
	if err := m.captureFn(ctx, &buf); err != nil {
		m.logger.Warn("Screenshot capture failed for %s: %v", label, err)
		return ""
	}

	if err := os.MkdirAll(m.dir, 0755); err != nil {
		m.logger.Warn("Failed to create screenshot directory: %v", err)
		return ""
	}
	if err := os.WriteFile(filepath.Join(m.dir, filename), buf, 0644); err != nil {
		m.logger.Warn("Failed to write screenshot %s: %v", filename, err)
		return ""
	}

	m.shots = append(m.shots, filename)
	m.logger.Screenshot(filename)
	return filename
}

// CleanupOld enforces the retention policy: PNGs in the output directory are
// grouped by suite-name prefix and only the most recent keepRuns runs' worth
// per prefix are kept. Best-effort; failures are logged, never raised.
func (m *ScreenshotManager) CleanupOld(keepRuns int) {
	if keepRuns <= 0 {
		return
	}

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			m.logger.Warn("Screenshot cleanup skipped: %v", err)
		}
		return
	}

	type shot struct {
		name    string
		modTime time.Time
	}
	groups := make(map[string][]shot)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".png") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		prefix := suitePrefix(e.Name())
		groups[prefix] = append(groups[prefix], shot{name: e.Name(), modTime: info.ModTime()})
	}

	keep := keepRuns * filesPerRun
	for prefix, shots := range groups {
		if len(shots) <= keep {
			continue
		}
		sort.Slice(shots, func(i, j int) bool { return shots[i].modTime.After(shots[j].modTime) })
		removed := 0
		for _, s := range shots[keep:] {
			if err := os.Remove(filepath.Join(m.dir, s.name)); err != nil {
				m.logger.Warn("Failed to remove old screenshot %s: %v", s.name, err)
				continue
			}
			removed++
		}
		if removed > 0 {
			m.logger.Verbose("Removed %d old screenshots for suite prefix %s", removed, prefix)
		}
	}
}

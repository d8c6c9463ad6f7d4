package harness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passedStep(id string) Step {
	return Step{ID: id, Description: "step " + id, Status: StepPassed, Duration: time.Millisecond}
}

func failedStep(id string) Step {
	return Step{ID: id, Description: "step " + id, Status: StepFailed, Error: "boom", Duration: time.Millisecond}
}

func TestSuiteResult_RecordStep(t *testing.T) {
	t.Run("Counters track every append incrementally", func(t *testing.T) {
		res := NewSuiteResult("demo")
		assert.Equal(t, 0, res.TotalSteps)
		assert.Equal(t, 0, res.PassedSteps)

		require.NoError(t, res.RecordStep(passedStep("1.1")))
		assert.Equal(t, 1, res.TotalSteps)
		assert.Equal(t, 1, res.PassedSteps)

		require.NoError(t, res.RecordStep(failedStep("1.2")))
		assert.Equal(t, 2, res.TotalSteps)
		assert.Equal(t, 1, res.PassedSteps)
		assert.Equal(t, 1, res.FailedSteps())

		require.NoError(t, res.RecordStep(passedStep("1.3")))
		assert.Equal(t, 3, res.TotalSteps)
		assert.Equal(t, 2, res.PassedSteps)
		assert.LessOrEqual(t, res.PassedSteps, res.TotalSteps)
		assert.Len(t, res.Steps, res.TotalSteps)
	})

	t.Run("Duplicate step id is rejected not overwritten", func(t *testing.T) {
		res := NewSuiteResult("demo")
		require.NoError(t, res.RecordStep(passedStep("1.1")))

		err := res.RecordStep(failedStep("1.1"))
		require.Error(t, err)
		assert.Equal(t, 1, res.TotalSteps, "duplicate must not be appended")
		assert.Equal(t, 1, res.PassedSteps, "original outcome must survive")
	})

	t.Run("Non-terminal status is rejected", func(t *testing.T) {
		res := NewSuiteResult("demo")
		err := res.RecordStep(Step{ID: "1.1", Status: StepRunning})
		require.Error(t, err)
		assert.Equal(t, 0, res.TotalSteps)
	})
}

func TestSuiteResult_AttachScreenshots(t *testing.T) {
	res := NewSuiteResult("demo")
	res.AttachScreenshots([]string{"demo-a.png", "demo-b.png"})
	assert.Equal(t, []string{"demo-a.png", "demo-b.png"}, res.Screenshots)
}

func TestSummarize(t *testing.T) {
	t.Run("Aggregates across suites", func(t *testing.T) {
		a := NewSuiteResult("a")
		require.NoError(t, a.RecordStep(passedStep("1.1")))
		require.NoError(t, a.RecordStep(passedStep("1.2")))

		b := NewSuiteResult("b")
		require.NoError(t, b.RecordStep(passedStep("2.1")))
		require.NoError(t, b.RecordStep(failedStep("2.2")))

		sum := Summarize("run_x", []*SuiteResult{a, b}, time.Now().Add(-time.Second), "run.log", "shots")

		assert.Equal(t, 2, sum.TotalSuites)
		assert.Equal(t, 4, sum.TotalSteps)
		assert.Equal(t, 3, sum.PassedSteps)
		assert.Equal(t, 1, sum.FailedSteps)
		assert.InDelta(t, 75.0, sum.PassRate, 0.001)
		assert.False(t, sum.Passed())
	})

	t.Run("Zero suites is a passing run", func(t *testing.T) {
		sum := Summarize("run_x", nil, time.Now(), "", "")
		assert.Equal(t, 0, sum.TotalSuites)
		assert.True(t, sum.Passed())
	})

	t.Run("A suite-level fatal fails the run even with no failed steps", func(t *testing.T) {
		a := NewSuiteResult("a")
		a.Fatal = "panic: nope"
		sum := Summarize("run_x", []*SuiteResult{a}, time.Now(), "", "")
		assert.False(t, sum.Passed())
	})
}

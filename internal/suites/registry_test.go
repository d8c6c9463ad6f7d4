package suites

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradepulse/livetest/internal/common"
	"github.com/tradepulse/livetest/internal/harness"
)

func newTestDeps(t *testing.T) *Deps {
	t.Helper()
	cfg := common.NewDefaultConfig()
	cfg.Logging.Level = "error"
	cfg.Logging.Output = []string{"stdout"}

	log, err := harness.NewRunLogger(cfg, t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })

	return &Deps{
		Cfg:   cfg,
		Log:   log,
		Shots: harness.NewScreenshotManager(false, t.TempDir(), log),
	}
}

func TestResolve(t *testing.T) {
	t.Run("Empty selection resolves the full order", func(t *testing.T) {
		deps := newTestDeps(t)
		resolved := Resolve(nil, DefaultOrder, deps)

		require.Len(t, resolved, len(DefaultOrder))
		for i, id := range DefaultOrder {
			assert.Equal(t, string(id), resolved[i].Name)
			assert.NotNil(t, resolved[i].Run)
		}
	})

	t.Run("Explicit selection preserves the requested order", func(t *testing.T) {
		deps := newTestDeps(t)
		resolved := Resolve([]string{"logout", "login"}, DefaultOrder, deps)

		require.Len(t, resolved, 2)
		assert.Equal(t, "logout", resolved[0].Name)
		assert.Equal(t, "login", resolved[1].Name)
	})

	t.Run("Unknown names are skipped never fatal", func(t *testing.T) {
		deps := newTestDeps(t)
		resolved := Resolve([]string{"bogus-name"}, DefaultOrder, deps)
		assert.Empty(t, resolved, "unknown suite resolves to nothing")
	})

	t.Run("Unknown names mixed with known ones only drop the unknowns", func(t *testing.T) {
		deps := newTestDeps(t)
		resolved := Resolve([]string{"dashboard", "bogus", "portfolio"}, DefaultOrder, deps)

		require.Len(t, resolved, 2)
		assert.Equal(t, "dashboard", resolved[0].Name)
		assert.Equal(t, "portfolio", resolved[1].Name)
	})
}

func TestRegistryCoversDefaultOrder(t *testing.T) {
	for _, id := range DefaultOrder {
		if _, ok := registry[id]; !ok {
			t.Errorf("Default order references unregistered suite %q", id)
		}
	}
	if len(registry) != len(DefaultOrder) {
		t.Errorf("Registry has %d suites but default order lists %d", len(registry), len(DefaultOrder))
	}
}

package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/tradepulse/livetest/internal/common"
)

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	cfg := common.NewDefaultConfig()
	return New(cfg, arbor.NewLogger())
}

func TestCompare_Numeric(t *testing.T) {
	v := newTestValidator(t) // default tolerance 1%

	t.Run("Within tolerance matches", func(t *testing.T) {
		match, measured := v.Compare(100.4, 100.0, nil)
		assert.True(t, match)
		require.NotNil(t, measured)
		assert.InDelta(t, 0.4, *measured, 0.0001)
	})

	t.Run("Outside tolerance does not match", func(t *testing.T) {
		match, measured := v.Compare(105.0, 100.0, nil)
		assert.False(t, match)
		require.NotNil(t, measured)
		assert.InDelta(t, 5.0, *measured, 0.0001)
	})

	t.Run("Override widens the band", func(t *testing.T) {
		override := 10.0
		match, _ := v.Compare(105.0, 100.0, &override)
		assert.True(t, match)
	})

	t.Run("Override tightens the band", func(t *testing.T) {
		override := 0.1
		match, _ := v.Compare(100.4, 100.0, &override)
		assert.False(t, match)
	})

	t.Run("Zero API value matches only zero UI value", func(t *testing.T) {
		match, measured := v.Compare(0.0, 0.0, nil)
		assert.True(t, match)
		require.NotNil(t, measured)
		assert.Equal(t, 0.0, *measured)

		match, measured = v.Compare(0.01, 0.0, nil)
		assert.False(t, match)
		assert.Nil(t, measured, "percentage is undefined at zero")
	})

	t.Run("Negative values compare by magnitude of relative difference", func(t *testing.T) {
		match, measured := v.Compare(-100.5, -100.0, nil)
		assert.True(t, match)
		require.NotNil(t, measured)
		assert.InDelta(t, 0.5, *measured, 0.0001)
	})

	t.Run("Mixed numeric kinds are normalized", func(t *testing.T) {
		match, measured := v.Compare(5, 5.0, nil)
		assert.True(t, match)
		require.NotNil(t, measured)
	})
}

func TestCompare_Strings(t *testing.T) {
	v := newTestValidator(t)

	match, measured := v.Compare("Bitcoin", "bitcoin", nil)
	assert.True(t, match, "string comparison is case-insensitive")
	assert.Nil(t, measured, "tolerance only applies to numeric comparisons")

	match, _ = v.Compare("Bitcoin", "Ethereum", nil)
	assert.False(t, match)
}

func TestCompare_Other(t *testing.T) {
	v := newTestValidator(t)

	t.Run("Booleans compare strictly", func(t *testing.T) {
		match, measured := v.Compare(true, true, nil)
		assert.True(t, match)
		assert.Nil(t, measured)

		match, _ = v.Compare(true, false, nil)
		assert.False(t, match)
	})

	t.Run("Both nil matches", func(t *testing.T) {
		match, _ := v.Compare(nil, nil, nil)
		assert.True(t, match)
	})

	t.Run("Number against string does not match", func(t *testing.T) {
		match, measured := v.Compare(5.0, "5", nil)
		assert.False(t, match)
		assert.Nil(t, measured)
	})
}

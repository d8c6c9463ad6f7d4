package suites

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/tradepulse/livetest/internal/common"
	"github.com/tradepulse/livetest/internal/validator"
	"github.com/tradepulse/livetest/pkg/models"
)

func TestCostCheck(t *testing.T) {
	v := validator.New(common.NewDefaultConfig(), arbor.NewLogger())

	t.Run("Preview within the price band passes", func(t *testing.T) {
		// 0.01 BTC at 50000 is 500; preview of 501 is 0.2% off.
		res := costCheck(v, 1.0, 501.0, 50000.0, 0.01)
		assert.True(t, res.Match)
		require.NotNil(t, res.TolerancePct)
		assert.InDelta(t, 0.2, *res.TolerancePct, 0.001)
	})

	t.Run("Preview outside the price band fails", func(t *testing.T) {
		res := costCheck(v, 1.0, 520.0, 50000.0, 0.01)
		assert.False(t, res.Match)
	})
}

func TestOrderChecks(t *testing.T) {
	v := validator.New(common.NewDefaultConfig(), arbor.NewLogger())

	t.Run("Casing and float representation never fail the check", func(t *testing.T) {
		order := models.Order{
			Symbol:   "btc",
			Quantity: 0.010000000000000002,
			Status:   "FILLED",
		}

		results := orderChecks(v, "BTC", 0.01, order)

		require.Len(t, results, 3)
		for _, r := range results {
			assert.True(t, r.Match, "field %s should match", r.Field)
		}
	})

	t.Run("Quantity carries a measured tolerance", func(t *testing.T) {
		order := models.Order{Symbol: "BTC", Quantity: 0.01, Status: "filled"}

		results := orderChecks(v, "BTC", 0.01, order)

		var quantity *validator.Result
		for i := range results {
			if results[i].Field == "quantity" {
				quantity = &results[i]
			}
		}
		require.NotNil(t, quantity)
		require.NotNil(t, quantity.TolerancePct, "numeric comparison reports the measured difference")
		assert.Zero(t, *quantity.TolerancePct)
	})

	t.Run("Wrong symbol or unfilled status fails", func(t *testing.T) {
		order := models.Order{Symbol: "ETH", Quantity: 0.01, Status: "pending"}

		results := orderChecks(v, "BTC", 0.01, order)

		byField := map[string]bool{}
		for _, r := range results {
			byField[r.Field] = r.Match
		}
		assert.False(t, byField["symbol"])
		assert.True(t, byField["quantity"])
		assert.False(t, byField["status"])
	})
}

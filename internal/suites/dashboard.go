package suites

import (
	"context"
	"fmt"

	"github.com/tradepulse/livetest/internal/harness"
	"github.com/tradepulse/livetest/internal/pages"
	"github.com/tradepulse/livetest/internal/validator"
)

// Dashboard opens the market overview and cross-checks each watchlist row
// against the API oracle: name, live price and 24h change.
func Dashboard(ctx context.Context, deps *Deps) *harness.SuiteResult {
	s := newStepRunner(ctx, deps, string(IDDashboard))
	dash := pages.NewDashboardPage(s.page)

	s.run("2.1", "Open dashboard", "dashboard", noValidations(func() error {
		if err := dash.Open(); err != nil {
			return err
		}
		return dash.WaitForRows(len(deps.Cfg.Suites.Watchlist))
	}))

	for i, symbol := range deps.Cfg.Suites.Watchlist {
		symbol := symbol
		id := fmt.Sprintf("2.%d", i+2)
		s.run(id, fmt.Sprintf("Validate %s row against API", symbol), "", func() ([]validator.Result, error) {
			name, err := dash.AssetName(symbol)
			if err != nil {
				return nil, err
			}
			price, err := dash.AssetPrice(symbol)
			if err != nil {
				return nil, err
			}
			changePct, err := dash.AssetChangePct(symbol)
			if err != nil {
				return nil, err
			}
			return deps.Validator.ValidateAsset(ctx, symbol, validator.ObservedAsset{
				Name:      name,
				Price:     price,
				ChangePct: changePct,
			}), nil
		})
	}

	return s.suite
}

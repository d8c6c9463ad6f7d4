package suites

import (
	"context"
	"fmt"
	"strconv"

	"github.com/tradepulse/livetest/internal/harness"
	"github.com/tradepulse/livetest/internal/pages"
	"github.com/tradepulse/livetest/internal/validator"
)

// Portfolio cross-checks the account aggregates and the top open position
// against the API, then confirms the unrealized P&L field is actually live.
func Portfolio(ctx context.Context, deps *Deps) *harness.SuiteResult {
	s := newStepRunner(ctx, deps, string(IDPortfolio))
	pf := pages.NewPortfolioPage(s.page)

	s.run("4.1", "Open portfolio", "portfolio", noValidations(func() error {
		return pf.Open()
	}))

	s.run("4.2", "Validate account aggregates against API", "", func() ([]validator.Result, error) {
		cash, err := pf.CashBalance()
		if err != nil {
			return nil, err
		}
		equity, err := pf.Equity()
		if err != nil {
			return nil, err
		}
		total, err := pf.TotalValue()
		if err != nil {
			return nil, err
		}
		pnl, err := pf.UnrealizedPnL()
		if err != nil {
			return nil, err
		}
		return deps.Validator.ValidatePortfolio(ctx, validator.ObservedPortfolio{
			CashBalance:   cash,
			Equity:        equity,
			TotalValue:    total,
			UnrealizedPnL: pnl,
		}), nil
	})

	s.run("4.3", "Validate top open position against API", "", func() ([]validator.Result, error) {
		id, err := pf.FirstPositionID()
		if err != nil {
			return nil, err
		}
		if id == "" {
			return nil, fmt.Errorf("no open positions rendered; place-order should have created one")
		}
		quantity, err := pf.PositionQuantity(id)
		if err != nil {
			return nil, err
		}
		entry, err := pf.PositionEntryPrice(id)
		if err != nil {
			return nil, err
		}
		pnl, err := pf.PositionPnL(id)
		if err != nil {
			return nil, err
		}
		return deps.Validator.ValidatePosition(ctx, id, validator.ObservedPosition{
			Quantity:      quantity,
			EntryPrice:    entry,
			UnrealizedPnL: pnl,
		}), nil
	})

	s.run("4.4", "Confirm unrealized P&L updates in real time", "", noValidations(func() error {
		initial, err := pf.UnrealizedPnL()
		if err != nil {
			return err
		}
		_, err = s.waitForValueChange(
			strconv.FormatFloat(initial, 'f', -1, 64),
			func(ctx context.Context) (string, error) {
				v, err := pf.UnrealizedPnL()
				if err != nil {
					return "", err
				}
				return strconv.FormatFloat(v, 'f', -1, 64), nil
			})
		return err
	}))

	return s.suite
}

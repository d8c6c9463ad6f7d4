package suites

import (
	"context"
	"fmt"

	"github.com/tradepulse/livetest/internal/harness"
	"github.com/tradepulse/livetest/internal/pages"
	"github.com/tradepulse/livetest/internal/validator"
	"github.com/tradepulse/livetest/pkg/models"
)

// PlaceOrder executes the core trading flow: open the configured asset,
// confirm the live quote is streaming, submit a small market buy and verify
// the backend recorded the order.
func PlaceOrder(ctx context.Context, deps *Deps) *harness.SuiteResult {
	s := newStepRunner(ctx, deps, string(IDPlaceOrder))
	dash := pages.NewDashboardPage(s.page)
	ticket := pages.NewOrderTicketPage(s.page)

	symbol := deps.Cfg.Suites.OrderSymbol
	quantity := deps.Cfg.Suites.OrderQuantity

	s.run("3.1", fmt.Sprintf("Open %s order ticket", symbol), "", noValidations(func() error {
		if err := dash.Open(); err != nil {
			return err
		}
		return dash.OpenAsset(symbol)
	}))

	s.run("3.2", "Wait for live quote to tick", "", noValidations(func() error {
		initial, err := ticket.ReadQuote(ctx)
		if err != nil {
			return err
		}
		_, err = s.waitForValueChange(initial, ticket.ReadQuote)
		return err
	}))

	var orderID string
	s.run("3.3", fmt.Sprintf("Place market buy for %g %s", quantity, symbol), "order-confirmation", func() ([]validator.Result, error) {
		if err := ticket.EnterOrder("buy", quantity); err != nil {
			return nil, err
		}
		quoteText, err := ticket.ReadQuote(ctx)
		if err != nil {
			return nil, err
		}
		quote, err := pages.ParseNumber(quoteText)
		if err != nil {
			return nil, err
		}
		cost, err := ticket.EstimatedCost()
		if err != nil {
			return nil, err
		}
		results := []validator.Result{
			costCheck(deps.Validator, deps.Cfg.Tolerance.PricePercent, cost, quote, quantity),
		}

		if err := ticket.Submit(); err != nil {
			return results, err
		}
		if err := ticket.ConfirmationVisible(); err != nil {
			return results, err
		}
		id, err := ticket.ConfirmedOrderID()
		if err != nil {
			return results, err
		}
		orderID = id
		return results, nil
	})

	s.run("3.4", "Verify order recorded by API", "", func() ([]validator.Result, error) {
		if orderID == "" {
			return nil, fmt.Errorf("no order id captured from confirmation")
		}
		var order models.Order
		if err := deps.Validator.FetchJSON(ctx, "/api/orders/"+orderID, &order); err != nil {
			return nil, err
		}
		return orderChecks(deps.Validator, symbol, quantity, order), nil
	})

	return s.suite
}

// costCheck verifies the ticket's cost preview against quote times quantity
// within the price tolerance.
func costCheck(v *validator.Validator, tolerancePct, cost, quote, quantity float64) validator.Result {
	expected := quote * quantity
	match, measured := v.Compare(cost, expected, &tolerancePct)
	return validator.Result{
		Field:        "estimated_cost",
		UIValue:      cost,
		APIValue:     expected,
		Match:        match,
		TolerancePct: measured,
	}
}

// orderChecks cross-validates the recorded order against what the UI placed.
// Comparisons run through the tolerance engine so string casing and float
// representation differences never produce false failures.
func orderChecks(v *validator.Validator, symbol string, quantity float64, order models.Order) []validator.Result {
	checks := []struct {
		field   string
		ui, api interface{}
	}{
		{"symbol", symbol, order.Symbol},
		{"quantity", quantity, order.Quantity},
		{"status", "filled", order.Status},
	}

	results := make([]validator.Result, 0, len(checks))
	for _, c := range checks {
		match, measured := v.Compare(c.ui, c.api, nil)
		results = append(results, validator.Result{
			Field:        c.field,
			UIValue:      c.ui,
			APIValue:     c.api,
			Match:        match,
			TolerancePct: measured,
		})
	}
	return results
}

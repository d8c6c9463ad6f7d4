package suites

import (
	"context"

	"github.com/tradepulse/livetest/internal/harness"
)

// ID names a suite. The set of valid identifiers is closed: suites are
// registered here at compile time, not looked up from an open string space.
type ID string

const (
	IDLogin       ID = "login"
	IDDashboard   ID = "dashboard"
	IDPlaceOrder  ID = "place-order"
	IDPortfolio   ID = "portfolio"
	IDPredictions ID = "predictions"
	IDLeaderboard ID = "leaderboard"
	IDLogout      ID = "logout"
)

// Func is one suite implementation. It drives the shared browser context and
// returns the suite's recorded result.
type Func func(ctx context.Context, deps *Deps) *harness.SuiteResult

var registry = map[ID]Func{
	IDLogin:       Login,
	IDDashboard:   Dashboard,
	IDPlaceOrder:  PlaceOrder,
	IDPortfolio:   Portfolio,
	IDPredictions: Predictions,
	IDLeaderboard: Leaderboard,
	IDLogout:      Logout,
}

// DefaultOrder is the canonical execution order. Later suites depend on the
// application state earlier ones establish (authentication, open positions),
// so the order is part of the contract.
var DefaultOrder = []ID{
	IDLogin,
	IDDashboard,
	IDPlaceOrder,
	IDPortfolio,
	IDPredictions,
	IDLeaderboard,
	IDLogout,
}

// Resolve turns requested suite names into executable NamedSuites in the
// order given. Unknown names are logged as warnings and skipped, never
// fatal. An empty selection resolves to every name in order.
func Resolve(selected []string, order []ID, deps *Deps) []harness.NamedSuite {
	names := selected
	if len(names) == 0 {
		names = make([]string, 0, len(order))
		for _, id := range order {
			names = append(names, string(id))
		}
	}

	resolved := make([]harness.NamedSuite, 0, len(names))
	for _, name := range names {
		fn, ok := registry[ID(name)]
		if !ok {
			deps.Log.Warn("Unknown suite %q requested, skipping", name)
			continue
		}
		suiteFn := fn
		resolved = append(resolved, harness.NamedSuite{
			Name: name,
			Run: func(ctx context.Context) *harness.SuiteResult {
				return suiteFn(ctx, deps)
			},
		})
	}
	return resolved
}

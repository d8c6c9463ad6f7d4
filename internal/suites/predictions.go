package suites

import (
	"context"
	"fmt"

	"github.com/tradepulse/livetest/internal/harness"
	"github.com/tradepulse/livetest/internal/pages"
	"github.com/tradepulse/livetest/internal/validator"
)

// Predictions cross-checks the rendered signal scores against the API.
func Predictions(ctx context.Context, deps *Deps) *harness.SuiteResult {
	s := newStepRunner(ctx, deps, string(IDPredictions))
	pr := pages.NewPredictionsPage(s.page)

	s.run("5.1", "Open predictions", "predictions", noValidations(func() error {
		return pr.Open()
	}))

	for i, symbol := range deps.Cfg.Suites.Watchlist {
		symbol := symbol
		id := fmt.Sprintf("5.%d", i+2)
		s.run(id, fmt.Sprintf("Validate %s signal against API", symbol), "", func() ([]validator.Result, error) {
			score, err := pr.SignalScore(symbol)
			if err != nil {
				return nil, err
			}
			direction, err := pr.SignalDirection(symbol)
			if err != nil {
				return nil, err
			}
			confidence, err := pr.SignalConfidence(symbol)
			if err != nil {
				return nil, err
			}
			return deps.Validator.ValidateSignalScore(ctx, symbol, validator.ObservedSignal{
				Score:      score,
				Direction:  direction,
				Confidence: confidence,
			}), nil
		})
	}

	return s.suite
}

package suites

import (
	"context"

	"github.com/tradepulse/livetest/internal/harness"
	"github.com/tradepulse/livetest/internal/pages"
	"github.com/tradepulse/livetest/internal/validator"
)

// Leaderboard cross-checks the test account's ranking row against the API.
func Leaderboard(ctx context.Context, deps *Deps) *harness.SuiteResult {
	s := newStepRunner(ctx, deps, string(IDLeaderboard))
	lb := pages.NewLeaderboardPage(s.page)
	username := deps.Cfg.Target.Username

	s.run("6.1", "Open leaderboard", "leaderboard", noValidations(func() error {
		return lb.Open()
	}))

	s.run("6.2", "Validate own ranking row against API", "", func() ([]validator.Result, error) {
		rank, err := lb.EntryRank(username)
		if err != nil {
			return nil, err
		}
		name, err := lb.EntryUsername(username)
		if err != nil {
			return nil, err
		}
		returnPct, err := lb.EntryReturnPct(username)
		if err != nil {
			return nil, err
		}
		return deps.Validator.ValidateLeaderboardEntry(ctx, validator.ObservedLeaderboardEntry{
			Rank:      int(rank),
			Username:  name,
			ReturnPct: returnPct,
		}), nil
	})

	return s.suite
}

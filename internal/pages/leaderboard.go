package pages

import "fmt"

// LeaderboardPage drives the ranking screen.
type LeaderboardPage struct {
	*Page
}

func NewLeaderboardPage(p *Page) *LeaderboardPage { return &LeaderboardPage{Page: p} }

func (lb *LeaderboardPage) Open() error {
	if err := lb.Navigate("/leaderboard", `#leaderboard-table`); err != nil {
		return err
	}
	return lb.WaitLoadingGone()
}

func (lb *LeaderboardPage) entryRow(username string) string {
	return fmt.Sprintf(`#leaderboard-table tr[data-username=%q]`, username)
}

func (lb *LeaderboardPage) EntryRank(username string) (float64, error) {
	return lb.Number(lb.entryRow(username) + ` .entry-rank`)
}

func (lb *LeaderboardPage) EntryUsername(username string) (string, error) {
	return lb.Text(lb.entryRow(username) + ` .entry-username`)
}

func (lb *LeaderboardPage) EntryReturnPct(username string) (float64, error) {
	return lb.Number(lb.entryRow(username) + ` .entry-return`)
}

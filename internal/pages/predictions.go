package pages

import "fmt"

// PredictionsPage drives the signal-score screen.
type PredictionsPage struct {
	*Page
}

func NewPredictionsPage(p *Page) *PredictionsPage { return &PredictionsPage{Page: p} }

func (pr *PredictionsPage) Open() error {
	if err := pr.Navigate("/predictions", `#signal-table`); err != nil {
		return err
	}
	return pr.WaitLoadingGone()
}

func (pr *PredictionsPage) signalRow(symbol string) string {
	return fmt.Sprintf(`#signal-table tr[data-symbol=%q]`, symbol)
}

func (pr *PredictionsPage) SignalScore(symbol string) (float64, error) {
	return pr.Number(pr.signalRow(symbol) + ` .signal-score`)
}

func (pr *PredictionsPage) SignalDirection(symbol string) (string, error) {
	return pr.Text(pr.signalRow(symbol) + ` .signal-direction`)
}

func (pr *PredictionsPage) SignalConfidence(symbol string) (float64, error) {
	return pr.Number(pr.signalRow(symbol) + ` .signal-confidence`)
}

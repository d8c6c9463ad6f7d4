package pages

import "fmt"

// PortfolioPage drives the holdings screen: account balances and the open
// position table with real-time unrealized P&L.
type PortfolioPage struct {
	*Page
}

func NewPortfolioPage(p *Page) *PortfolioPage { return &PortfolioPage{Page: p} }

func (pf *PortfolioPage) Open() error {
	if err := pf.Navigate("/portfolio", `#portfolio-summary`); err != nil {
		return err
	}
	return pf.WaitLoadingGone()
}

func (pf *PortfolioPage) CashBalance() (float64, error) {
	return pf.Number(`#portfolio-cash`)
}

func (pf *PortfolioPage) Equity() (float64, error) {
	return pf.Number(`#portfolio-equity`)
}

func (pf *PortfolioPage) TotalValue() (float64, error) {
	return pf.Number(`#portfolio-total`)
}

func (pf *PortfolioPage) UnrealizedPnL() (float64, error) {
	return pf.Number(`#portfolio-unrealized-pnl`)
}

func (pf *PortfolioPage) positionRow(id string) string {
	return fmt.Sprintf(`#position-table tr[data-position-id=%q]`, id)
}

func (pf *PortfolioPage) PositionQuantity(id string) (float64, error) {
	return pf.Number(pf.positionRow(id) + ` .position-quantity`)
}

func (pf *PortfolioPage) PositionEntryPrice(id string) (float64, error) {
	return pf.Number(pf.positionRow(id) + ` .position-entry`)
}

func (pf *PortfolioPage) PositionPnL(id string) (float64, error) {
	return pf.Number(pf.positionRow(id) + ` .position-pnl`)
}

// FirstPositionID reads the id of the top row, or "" when the table is
// empty.
func (pf *PortfolioPage) FirstPositionID() (string, error) {
	var id string
	script := `(() => {
		const row = document.querySelector('#position-table tr[data-position-id]');
		return row ? row.getAttribute('data-position-id') : '';
	})()`
	if err := pf.evaluate(script, &id); err != nil {
		return "", err
	}
	return id, nil
}

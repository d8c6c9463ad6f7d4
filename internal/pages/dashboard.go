package pages

import (
	"context"
	"fmt"

	"github.com/tradepulse/livetest/internal/waits"
)

// DashboardPage drives the market-overview screen: the asset table with live
// prices and 24h changes.
type DashboardPage struct {
	*Page
}

func NewDashboardPage(p *Page) *DashboardPage { return &DashboardPage{Page: p} }

func (d *DashboardPage) Open() error {
	if err := d.Navigate("/dashboard", `#asset-table`); err != nil {
		return err
	}
	return d.WaitLoadingGone()
}

func (d *DashboardPage) assetRow(symbol string) string {
	return fmt.Sprintf(`#asset-table tr[data-symbol=%q]`, symbol)
}

func (d *DashboardPage) AssetName(symbol string) (string, error) {
	return d.Text(d.assetRow(symbol) + ` .asset-name`)
}

func (d *DashboardPage) AssetPrice(symbol string) (float64, error) {
	return d.Number(d.assetRow(symbol) + ` .asset-price`)
}

func (d *DashboardPage) AssetChangePct(symbol string) (float64, error) {
	return d.Number(d.assetRow(symbol) + ` .asset-change`)
}

// WaitForRows polls until the asset table holds at least min rows. The table
// fills asynchronously from the price stream after the page itself is ready.
func (d *DashboardPage) WaitForRows(min int) error {
	return waits.ForCondition(d.Ctx(),
		d.cfg.Paced(d.cfg.Timing.WaitTimeout),
		d.cfg.Timing.PollInterval.Std(),
		func(ctx context.Context) (bool, error) {
			var count int
			if err := d.evaluate(`document.querySelectorAll('#asset-table tr[data-symbol]').length`, &count); err != nil {
				return false, err
			}
			return count >= min, nil
		})
}

// OpenAsset clicks through to the asset detail view with its order ticket.
func (d *DashboardPage) OpenAsset(symbol string) error {
	if err := d.Click(d.assetRow(symbol)); err != nil {
		return err
	}
	return d.WaitLoadingGone()
}

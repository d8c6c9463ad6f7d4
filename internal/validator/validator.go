// Package validator fetches ground truth from the backend API and compares
// it against values extracted from the rendered UI. Validation failures are
// data, not exceptions: every operation returns structured Results so a
// batch always completes and reports every field's status.
package validator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/tradepulse/livetest/internal/common"
	"github.com/tradepulse/livetest/pkg/models"
)

// Result is the outcome of one fact comparison. Immutable once produced.
type Result struct {
	Field        string      `json:"field"`
	UIValue      interface{} `json:"ui_value"`
	APIValue     interface{} `json:"api_value,omitempty"` // nil when the fetch failed
	Match        bool        `json:"match"`
	TolerancePct *float64    `json:"tolerance_pct,omitempty"` // measured relative difference, numeric comparisons only
	Error        string      `json:"error,omitempty"`
}

// Extract pulls one comparable field out of a raw API response body.
type Extract func(body []byte) (interface{}, error)

// Validator cross-checks UI-observed values against the backend oracle.
type Validator struct {
	client    *Client
	tolerance common.ToleranceConfig
	logger    arbor.ILogger
}

// New builds a Validator with its own oracle client.
func New(cfg *common.Config, logger arbor.ILogger) *Validator {
	return &Validator{
		client:    NewClient(cfg, logger),
		tolerance: cfg.Tolerance,
		logger:    logger,
	}
}

// ValidateField fetches the endpoint, extracts the ground-truth value and
// compares it against the UI observation. Fetch or extraction failures are
// converted into a failed Result with a nil APIValue; they never escape as
// errors, so a batch of validations can always run to completion.
func (v *Validator) ValidateField(ctx context.Context, field string, uiValue interface{}, endpoint string, extract Extract, overridePct *float64) Result {
	body, err := v.client.Get(ctx, endpoint)
	if err != nil {
		v.logger.Warn().Str("field", field).Err(err).Msg("Ground-truth fetch failed")
		return Result{Field: field, UIValue: uiValue, Match: false, Error: err.Error()}
	}

	apiValue, err := extract(body)
	if err != nil {
		v.logger.Warn().Str("field", field).Err(err).Msg("Ground-truth extraction failed")
		return Result{Field: field, UIValue: uiValue, Match: false, Error: err.Error()}
	}

	match, measured := v.Compare(uiValue, apiValue, overridePct)
	return Result{
		Field:        field,
		UIValue:      uiValue,
		APIValue:     apiValue,
		Match:        match,
		TolerancePct: measured,
	}
}

// jsonField builds an Extract that decodes the body into T and picks one
// field from it.
func jsonField[T any](pick func(T) interface{}) Extract {
	return func(body []byte) (interface{}, error) {
		var dto T
		if err := json.Unmarshal(body, &dto); err != nil {
			return nil, fmt.Errorf("failed to decode API response: %w", err)
		}
		return pick(dto), nil
	}
}

// ObservedAsset holds the asset facts read off the dashboard.
type ObservedAsset struct {
	Name      string
	Price     float64
	ChangePct float64
}

// ValidateAsset cross-checks one asset row against /api/assets/{symbol}.
// Partial failures in one field never block evaluation of the others.
func (v *Validator) ValidateAsset(ctx context.Context, symbol string, ui ObservedAsset) []Result {
	endpoint := "/api/assets/" + symbol
	return []Result{
		v.ValidateField(ctx, "name", ui.Name, endpoint,
			jsonField(func(a models.Asset) interface{} { return a.Name }), nil),
		v.ValidateField(ctx, "price", ui.Price, endpoint,
			jsonField(func(a models.Asset) interface{} { return a.Price }), &v.tolerance.PricePercent),
		v.ValidateField(ctx, "change_pct_24h", ui.ChangePct, endpoint,
			jsonField(func(a models.Asset) interface{} { return a.ChangePct24h }), &v.tolerance.ChangePercent),
	}
}

// ObservedPosition holds the position facts read off the portfolio screen.
type ObservedPosition struct {
	Quantity      float64
	EntryPrice    float64
	UnrealizedPnL float64
}

// ValidatePosition cross-checks an open position against /api/positions/{id}.
func (v *Validator) ValidatePosition(ctx context.Context, positionID string, ui ObservedPosition) []Result {
	endpoint := "/api/positions/" + positionID
	return []Result{
		v.ValidateField(ctx, "quantity", ui.Quantity, endpoint,
			jsonField(func(p models.Position) interface{} { return p.Quantity }), nil),
		v.ValidateField(ctx, "entry_price", ui.EntryPrice, endpoint,
			jsonField(func(p models.Position) interface{} { return p.EntryPrice }), &v.tolerance.PricePercent),
		v.ValidateField(ctx, "unrealized_pnl", ui.UnrealizedPnL, endpoint,
			jsonField(func(p models.Position) interface{} { return p.UnrealizedPnL }), &v.tolerance.PnLPercent),
	}
}

// ObservedPortfolio holds the account aggregates rendered on the portfolio
// screen.
type ObservedPortfolio struct {
	CashBalance   float64
	Equity        float64
	TotalValue    float64
	UnrealizedPnL float64
}

// ValidatePortfolio cross-checks the account aggregates against
// /api/portfolio.
func (v *Validator) ValidatePortfolio(ctx context.Context, ui ObservedPortfolio) []Result {
	endpoint := "/api/portfolio"
	return []Result{
		v.ValidateField(ctx, "cash_balance", ui.CashBalance, endpoint,
			jsonField(func(p models.Portfolio) interface{} { return p.CashBalance }), nil),
		v.ValidateField(ctx, "equity", ui.Equity, endpoint,
			jsonField(func(p models.Portfolio) interface{} { return p.Equity }), &v.tolerance.PnLPercent),
		v.ValidateField(ctx, "total_value", ui.TotalValue, endpoint,
			jsonField(func(p models.Portfolio) interface{} { return p.TotalValue }), &v.tolerance.PnLPercent),
		v.ValidateField(ctx, "unrealized_pnl", ui.UnrealizedPnL, endpoint,
			jsonField(func(p models.Portfolio) interface{} { return p.UnrealizedPnL }), &v.tolerance.PnLPercent),
	}
}

// ObservedLeaderboardEntry holds one leaderboard row as rendered.
type ObservedLeaderboardEntry struct {
	Rank      int
	Username  string
	ReturnPct float64
}

// ValidateLeaderboardEntry cross-checks a leaderboard row against
// /api/leaderboard/{username}.
func (v *Validator) ValidateLeaderboardEntry(ctx context.Context, ui ObservedLeaderboardEntry) []Result {
	endpoint := "/api/leaderboard/" + ui.Username
	return []Result{
		v.ValidateField(ctx, "rank", ui.Rank, endpoint,
			jsonField(func(e models.LeaderboardEntry) interface{} { return e.Rank }), nil),
		v.ValidateField(ctx, "username", ui.Username, endpoint,
			jsonField(func(e models.LeaderboardEntry) interface{} { return e.Username }), nil),
		v.ValidateField(ctx, "return_pct", ui.ReturnPct, endpoint,
			jsonField(func(e models.LeaderboardEntry) interface{} { return e.ReturnPct }), &v.tolerance.ChangePercent),
	}
}

// ObservedSignal holds the prediction facts rendered for one symbol.
type ObservedSignal struct {
	Score      float64
	Direction  string
	Confidence float64
}

// ValidateSignalScore cross-checks a prediction display against
// /api/signals/{symbol}.
func (v *Validator) ValidateSignalScore(ctx context.Context, symbol string, ui ObservedSignal) []Result {
	endpoint := "/api/signals/" + symbol
	return []Result{
		v.ValidateField(ctx, "score", ui.Score, endpoint,
			jsonField(func(s models.SignalScore) interface{} { return s.Score }), nil),
		v.ValidateField(ctx, "direction", ui.Direction, endpoint,
			jsonField(func(s models.SignalScore) interface{} { return s.Direction }), nil),
		v.ValidateField(ctx, "confidence", ui.Confidence, endpoint,
			jsonField(func(s models.SignalScore) interface{} { return s.Confidence }), nil),
	}
}

// FetchJSON fetches an endpoint and decodes it into dest. Suites use this
// when they need a whole entity (e.g. resolving an order ID after placing
// an order) rather than a single-field comparison.
func (v *Validator) FetchJSON(ctx context.Context, endpoint string, dest interface{}) error {
	body, err := v.client.Get(ctx, endpoint)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to decode %s: %w", endpoint, err)
	}
	return nil
}

// Package models defines the backend JSON entities the validator fetches as
// ground truth. The API is treated purely as an oracle: these are read-only
// representations, never written back.
package models

import "time"

// Asset is a tradable instrument with its live quote.
type Asset struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	ChangePct24h  float64 `json:"change_pct_24h"`
	Volume24h     float64 `json:"volume_24h"`
	MarketCap     float64 `json:"market_cap"`
	PricePrevious float64 `json:"price_previous"`
}

// Position is an open holding in the test account.
type Position struct {
	ID               string  `json:"id"`
	Symbol           string  `json:"symbol"`
	Quantity         float64 `json:"quantity"`
	EntryPrice       float64 `json:"entry_price"`
	CurrentPrice     float64 `json:"current_price"`
	UnrealizedPnL    float64 `json:"unrealized_pnl"`
	UnrealizedPnLPct float64 `json:"unrealized_pnl_pct"`
}

// Order is a submitted order and its lifecycle status.
type Order struct {
	ID        string    `json:"id"`
	Symbol    string    `json:"symbol"`
	Side      string    `json:"side"` // "buy" or "sell"
	Type      string    `json:"type"` // "market" or "limit"
	Quantity  float64   `json:"quantity"`
	Price     float64   `json:"price"`
	Status    string    `json:"status"` // "open", "filled", "cancelled"
	CreatedAt time.Time `json:"created_at"`
}

// Portfolio is the account-level aggregate.
type Portfolio struct {
	UserID        string  `json:"user_id"`
	CashBalance   float64 `json:"cash_balance"`
	Equity        float64 `json:"equity"`
	TotalValue    float64 `json:"total_value"`
	RealizedPnL   float64 `json:"realized_pnl"`
	UnrealizedPnL float64 `json:"unrealized_pnl"`
	ReturnPct     float64 `json:"return_pct"`
}

// LeaderboardEntry is one row of the public leaderboard.
type LeaderboardEntry struct {
	Rank      int     `json:"rank"`
	Username  string  `json:"username"`
	Equity    float64 `json:"equity"`
	ReturnPct float64 `json:"return_pct"`
}

// SignalScore is the prediction engine's published score for a symbol.
type SignalScore struct {
	Symbol     string    `json:"symbol"`
	Score      float64   `json:"score"`
	Direction  string    `json:"direction"` // "bullish", "bearish", "neutral"
	Confidence float64   `json:"confidence"`
	UpdatedAt  time.Time `json:"updated_at"`
}

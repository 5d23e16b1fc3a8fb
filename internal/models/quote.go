package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote represents the latest scraped snapshot for a CSE symbol.
// Rows come from the ticker_raw_data table; the feed appends a new row per
// scrape and readers pick the most recent one per symbol.
type Quote struct {
	ID               int             `json:"id"`
	Symbol           string          `json:"symbol"`
	Name             string          `json:"name"`
	LastTradedPrice  decimal.Decimal `json:"lasttradedprice"`
	PreviousClose    decimal.Decimal `json:"previousclose"`
	Change           decimal.Decimal `json:"change"`
	ChangePercentage decimal.Decimal `json:"changepercentage"`
	TimeCreated      time.Time       `json:"timecreated"`
}

// IndexQuote represents the latest snapshot for a market index.
// Tickers are lowercase ("aspi", "sl20").
type IndexQuote struct {
	ID               int             `json:"id"`
	Ticker           string          `json:"ticker"`
	Value            decimal.Decimal `json:"value"`
	Change           decimal.Decimal `json:"change"`
	ChangePercentage decimal.Decimal `json:"percentage"`
	TimeCreated      time.Time       `json:"timecreated"`
}

// Index tickers tracked by the service.
const (
	IndexTickerASPI = "aspi"
	IndexTickerSL20 = "sl20"
)

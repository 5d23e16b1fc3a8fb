package portfolio

import "github.com/shopspring/decimal"

// RelativePerformance returns how far a stock's percentage change is ahead
// of (or behind) an index's percentage change.
func RelativePerformance(stockChangePercent, indexChangePercent decimal.Decimal) decimal.Decimal {
	return stockChangePercent.Sub(indexChangePercent)
}

package models

import "github.com/shopspring/decimal"

// PricePoint is a single point on a chart: a calendar day and the value
// observed on that day. Time uses the YYYY-MM-DD format expected by the
// charting frontend.
type PricePoint struct {
	Time  string          `json:"time"`
	Value decimal.Decimal `json:"value"`
}

package portfolio

import "github.com/shopspring/decimal"

// Change directions reported alongside formatted figures.
const (
	DirectionGain    = "gain"
	DirectionLoss    = "loss"
	DirectionNeutral = "neutral"
)

// ChangeDirection classifies a change value for display styling.
func ChangeDirection(value decimal.Decimal) string {
	switch {
	case value.IsPositive():
		return DirectionGain
	case value.IsNegative():
		return DirectionLoss
	default:
		return DirectionNeutral
	}
}

// FormatPercent renders a percentage with an explicit sign and two
// decimals, e.g. "+2.35%".
func FormatPercent(value decimal.Decimal) string {
	s := value.StringFixed(2)
	if !value.IsNegative() {
		s = "+" + s
	}
	return s + "%"
}

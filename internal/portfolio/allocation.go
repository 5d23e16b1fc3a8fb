package portfolio

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/veritasight/portfolio-service/internal/models"
)

// Segment source tags.
const (
	SegmentEquity = "equity"
	SegmentManual = "manual"
)

// Segment is one slice of the allocation donut.
type Segment struct {
	Label      string          `json:"label"`
	Value      decimal.Decimal `json:"value"`
	Percentage decimal.Decimal `json:"percentage"`
	Color      string          `json:"color"`
	Type       string          `json:"type"`
}

// allocationColors is the donut palette. Colors are assigned by rank after
// sorting, so a segment's color tracks its prominence rather than its label.
var allocationColors = []string{
	"#4C9FFF", // blue
	"#10B981", // green
	"#FFB800", // amber
	"#F97316", // orange
	"#8B5CF6", // purple
	"#EC4899", // pink
	"#06B6D4", // cyan
	"#EF4444", // red
	"#84CC16", // lime
	"#F59E0B", // yellow
	"#6366F1", // indigo
	"#14B8A6", // teal
	"#A855F7", // violet
	"#22C55E", // emerald
	"#FB923C", // light orange
	"#A0A0A0", // gray
	"#666666", // dark gray
}

var oneHundred = decimal.NewFromInt(100)

// CalculateAllocation produces the allocation breakdown: one segment per
// priced holding plus one per manual asset type, sorted by value descending
// (ties keep encounter order) with percentages that sum to exactly 100.
// The last segment receives 100 minus the sum of the others, so rounding in
// the per-segment divisions can never leave the total short of 100.
// Returns an empty slice when the combined value is zero.
func CalculateAllocation(holdings []models.Holding, quotes map[string]models.Quote, assets []models.ManualAsset) []Segment {
	segments := make([]Segment, 0, len(holdings)+4)

	for _, h := range holdings {
		q, ok := quotes[h.Symbol]
		if !ok {
			continue
		}
		segments = append(segments, Segment{
			Label: q.Symbol,
			Value: h.SharesHeld.Mul(q.LastTradedPrice),
			Type:  SegmentEquity,
		})
	}

	// Group manual assets by type, keeping first-seen type order so sorting
	// stays deterministic for equal values.
	typeOrder := make([]models.AssetType, 0, 4)
	byType := make(map[models.AssetType]decimal.Decimal)
	for _, a := range assets {
		if _, seen := byType[a.Type]; !seen {
			typeOrder = append(typeOrder, a.Type)
		}
		byType[a.Type] = byType[a.Type].Add(a.Value)
	}
	for _, t := range typeOrder {
		segments = append(segments, Segment{
			Label: string(t),
			Value: byType[t],
			Type:  SegmentManual,
		})
	}

	total := decimal.Zero
	for _, s := range segments {
		total = total.Add(s.Value)
	}
	if total.IsZero() {
		return []Segment{}
	}

	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].Value.GreaterThan(segments[j].Value)
	})

	assigned := decimal.Zero
	for i := range segments {
		segments[i].Color = allocationColors[i%len(allocationColors)]
		if i == len(segments)-1 {
			segments[i].Percentage = oneHundred.Sub(assigned)
		} else {
			segments[i].Percentage = segments[i].Value.Div(total).Mul(oneHundred)
			assigned = assigned.Add(segments[i].Percentage)
		}
	}

	return segments
}

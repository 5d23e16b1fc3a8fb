package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Portfolio event types published when user data changes.
const (
	EventHoldingUpserted = "HOLDING_UPSERTED"
	EventHoldingDeleted  = "HOLDING_DELETED"
	EventAssetCreated    = "ASSET_CREATED"
	EventAssetUpdated    = "ASSET_UPDATED"
	EventAssetDeleted    = "ASSET_DELETED"
)

// PortfolioEvent represents a Kafka event for holding or asset changes.
type PortfolioEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Symbol    string       `json:"symbol,omitempty"`
	Holding   *Holding     `json:"holding,omitempty"`
	Asset     *ManualAsset `json:"asset,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// Feed event types produced by the external CSE scraper.
const (
	EventQuoteScraped = "QUOTE_SCRAPED"
	EventIndexScraped = "INDEX_SCRAPED"
)

// QuoteEvent is an inbound market-data message. Exactly one of Quote or
// Index is set, depending on the event type. Numeric fields arrive as
// strings and are parsed at the consumer boundary.
type QuoteEvent struct {
	EventType string        `json:"event_type"`
	Quote     *QuotePayload `json:"quote,omitempty"`
	Index     *IndexPayload `json:"index,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// QuotePayload carries one scraped equity snapshot.
type QuotePayload struct {
	Symbol           string `json:"symbol"`
	Name             string `json:"name"`
	LastTradedPrice  string `json:"lasttradedprice"`
	PreviousClose    string `json:"previousclose"`
	Change           string `json:"change"`
	ChangePercentage string `json:"changepercentage"`
}

// IndexPayload carries one scraped index snapshot.
type IndexPayload struct {
	Ticker           string `json:"ticker"`
	Value            string `json:"value"`
	Change           string `json:"change"`
	ChangePercentage string `json:"percentage"`
}

// ParsedQuote converts the string payload into a Quote. Used by the feed
// consumer after validation.
func (p *QuotePayload) ParsedQuote(at time.Time) (*Quote, error) {
	price, err := decimal.NewFromString(p.LastTradedPrice)
	if err != nil {
		return nil, err
	}
	prev, err := decimal.NewFromString(p.PreviousClose)
	if err != nil {
		return nil, err
	}
	change := decimal.Zero
	if p.Change != "" {
		change, err = decimal.NewFromString(p.Change)
		if err != nil {
			return nil, err
		}
	}
	changePct := decimal.Zero
	if p.ChangePercentage != "" {
		changePct, err = decimal.NewFromString(p.ChangePercentage)
		if err != nil {
			return nil, err
		}
	}
	return &Quote{
		Symbol:           p.Symbol,
		Name:             p.Name,
		LastTradedPrice:  price,
		PreviousClose:    prev,
		Change:           change,
		ChangePercentage: changePct,
		TimeCreated:      at,
	}, nil
}

// ParsedIndex converts the string payload into an IndexQuote.
func (p *IndexPayload) ParsedIndex(at time.Time) (*IndexQuote, error) {
	value, err := decimal.NewFromString(p.Value)
	if err != nil {
		return nil, err
	}
	change := decimal.Zero
	if p.Change != "" {
		change, err = decimal.NewFromString(p.Change)
		if err != nil {
			return nil, err
		}
	}
	changePct := decimal.Zero
	if p.ChangePercentage != "" {
		changePct, err = decimal.NewFromString(p.ChangePercentage)
		if err != nil {
			return nil, err
		}
	}
	return &IndexQuote{
		Ticker:           p.Ticker,
		Value:            value,
		Change:           change,
		ChangePercentage: changePct,
		TimeCreated:      at,
	}, nil
}

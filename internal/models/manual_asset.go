package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetType categorizes a manually tracked asset.
type AssetType string

const (
	AssetTypeFD    AssetType = "FD"
	AssetTypeBond  AssetType = "BOND"
	AssetTypeCash  AssetType = "CASH"
	AssetTypeOther AssetType = "OTHER"
)

// ValidAssetType reports whether t is one of the supported asset types.
func ValidAssetType(t AssetType) bool {
	switch t {
	case AssetTypeFD, AssetTypeBond, AssetTypeCash, AssetTypeOther:
		return true
	}
	return false
}

// ManualAsset represents a non-equity asset entered by hand, such as a
// fixed deposit or cash balance. It has no market quote and no day change.
type ManualAsset struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	Type      AssetType       `json:"type"`
	Value     decimal.Decimal `json:"value"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

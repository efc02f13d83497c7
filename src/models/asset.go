package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AssetType string

const (
	AssetTypeStock      AssetType = "Stock"
	AssetTypeMutualFund AssetType = "Mutual Fund"
	AssetTypeBond       AssetType = "Bond"
	AssetTypeCash       AssetType = "Cash"
	AssetTypeOther      AssetType = "Other"
)

// AssetTypes lists the known types in display order.
var AssetTypes = []AssetType{AssetTypeStock, AssetTypeMutualFund, AssetTypeBond, AssetTypeCash, AssetTypeOther}

// ParseAssetType maps a wire value to a known type; anything unrecognised is Other.
func ParseAssetType(value string) AssetType {
	for _, t := range AssetTypes {
		if string(t) == value {
			return t
		}
	}
	return AssetTypeOther
}

// Asset is an investable instrument. Price is the latest market price.
type Asset struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	Type      AssetType       `json:"type"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holding is an owned quantity of one asset with its cost basis metadata.
type Holding struct {
	ID            int             `json:"id"`
	AssetID       int             `json:"asset_id"`
	Name          string          `json:"name"`
	AssetType     AssetType       `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	PurchaseDate  time.Time       `json:"purchase_date"`
}

// HoldingPerformance is a holding enriched with its current valuation.
type HoldingPerformance struct {
	Holding
	CurrentPrice      decimal.Decimal `json:"current_price"`
	LivePrice         bool            `json:"live_price"`
	CostBasis         decimal.Decimal `json:"total_cost"`
	CurrentValue      decimal.Decimal `json:"total_value"`
	ProfitLoss        decimal.Decimal `json:"profit_loss"`
	ProfitLossPercent decimal.Decimal `json:"profit_loss_percentage"`
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountBalance is the available uninvested cash.
type AccountBalance struct {
	Amount    decimal.Decimal `json:"amount"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// NetWorthPoint is one snapshot of the net-worth history.
type NetWorthPoint struct {
	Date  time.Time       `json:"date"`
	Value decimal.Decimal `json:"value"`
}

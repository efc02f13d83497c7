package schemas

import (
	"fmt"

	"portfolio/src/models"

	"github.com/shopspring/decimal"
)

// SettlementResponse is one element of GET /api/settlements/viewBalance. Only the first
// element is authoritative.
type SettlementResponse struct {
	Amount decimal.NullDecimal `json:"amount"`
}

type NetWorthPointResponse struct {
	Date  Date                `json:"date"`
	Value decimal.NullDecimal `json:"value"`
}

func (p NetWorthPointResponse) ToModel() (models.NetWorthPoint, error) {
	if p.Date.IsZero() || !p.Value.Valid {
		return models.NetWorthPoint{}, fmt.Errorf("net worth point without date or value")
	}
	return models.NetWorthPoint{Date: p.Date.ToTime(), Value: p.Value.Decimal}, nil
}

// PortfolioSummaryResponse is the subset of GET /api/portfolio/summary the service reads.
type PortfolioSummaryResponse struct {
	TotalValue decimal.NullDecimal     `json:"total_value"`
	History    []NetWorthPointResponse `json:"history"`
}

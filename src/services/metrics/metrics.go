// Package metrics derives portfolio figures from holdings, live prices and net-worth
// history. Every function is pure; callers recompute after each data refresh.
package metrics

import (
	"sort"
	"time"

	"portfolio/src/models"
	"portfolio/src/utils"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Prices maps asset ids to their live price.
type Prices map[int]decimal.Decimal

// CostBasis is the invested amount of one holding.
func CostBasis(h models.Holding) decimal.Decimal {
	return h.Quantity.Mul(h.PurchasePrice)
}

func PortfolioCostBasis(holdings []models.Holding) decimal.Decimal {
	total := decimal.Zero
	for _, h := range holdings {
		total = total.Add(CostBasis(h))
	}
	return total
}

// CurrentPrice returns the live price of the holding's asset, or its purchase price when no
// live price is known. The boolean reports whether the price is live.
func CurrentPrice(h models.Holding, prices Prices) (decimal.Decimal, bool) {
	if p, ok := prices[h.AssetID]; ok {
		return p, true
	}
	return h.PurchasePrice, false
}

func CurrentValue(h models.Holding, prices Prices) decimal.Decimal {
	p, _ := CurrentPrice(h, prices)
	return h.Quantity.Mul(p)
}

func PortfolioValue(holdings []models.Holding, prices Prices) decimal.Decimal {
	total := decimal.Zero
	for _, h := range holdings {
		total = total.Add(CurrentValue(h, prices))
	}
	return total
}

type PL struct {
	Absolute decimal.Decimal `json:"absolute"`
	Percent  decimal.Decimal `json:"percent"`
}

// ProfitLoss compares a value against its cost. The percentage is 0 when cost is 0.
func ProfitLoss(cost, value decimal.Decimal) PL {
	abs := value.Sub(cost)
	if cost.IsZero() {
		return PL{Absolute: abs, Percent: decimal.Zero}
	}
	return PL{Absolute: abs, Percent: abs.Div(cost).Mul(hundred)}
}

// HoldingPerformance values one holding.
func HoldingPerformance(h models.Holding, prices Prices) models.HoldingPerformance {
	price, live := CurrentPrice(h, prices)
	cost := CostBasis(h)
	value := h.Quantity.Mul(price)
	pl := ProfitLoss(cost, value)
	return models.HoldingPerformance{
		Holding:           h,
		CurrentPrice:      price,
		LivePrice:         live,
		CostBasis:         utils.RoundMoney(cost),
		CurrentValue:      utils.RoundMoney(value),
		ProfitLoss:        utils.RoundMoney(pl.Absolute),
		ProfitLossPercent: pl.Percent.Round(2),
	}
}

func HoldingPerformances(holdings []models.Holding, prices Prices) []models.HoldingPerformance {
	out := make([]models.HoldingPerformance, 0, len(holdings))
	for _, h := range holdings {
		out = append(out, HoldingPerformance(h, prices))
	}
	return out
}

// Timeframe windows for the dashboard deltas.
const (
	Daily   = 24 * time.Hour
	Weekly  = 7 * Daily
	Monthly = 30 * Daily
	Yearly  = 365 * Daily
)

// TimeframeDelta is the percentage change between the earliest history point dated at or
// after now-window and the latest point. It is 0 when the series has fewer than two points,
// no point falls inside the window, or the reference value is 0.
func TimeframeDelta(history []models.NetWorthPoint, now time.Time, window time.Duration) decimal.Decimal {
	if len(history) < 2 {
		return decimal.Zero
	}
	cutoff := now.Add(-window)

	var latest, found *models.NetWorthPoint
	for i := range history {
		p := &history[i]
		if latest == nil || p.Date.After(latest.Date) {
			latest = p
		}
		if p.Date.Before(cutoff) {
			continue
		}
		if found == nil || p.Date.Before(found.Date) {
			found = p
		}
	}
	if found == nil || found.Value.IsZero() {
		return decimal.Zero
	}
	return latest.Value.Sub(found.Value).Div(found.Value).Mul(hundred)
}

// HistoryWindow keeps the points inside a chart timeframe ("1W", "1M", "3M", "1Y", "ALL").
func HistoryWindow(history []models.NetWorthPoint, timeframe string, now time.Time) ([]models.NetWorthPoint, error) {
	cutoff, active, err := utils.TimeframeCutoff(timeframe, now)
	if err != nil {
		return nil, err
	}
	out := make([]models.NetWorthPoint, 0, len(history))
	for _, p := range history {
		if active && p.Date.Before(cutoff) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// CategoryFunc names the allocation bucket of a holding.
type CategoryFunc func(models.Holding) string

// ByAssetType buckets by the holding's asset type, optionally renamed through names.
func ByAssetType(names map[string]string) CategoryFunc {
	return func(h models.Holding) string {
		if name, ok := names[string(h.AssetType)]; ok {
			return name
		}
		return string(h.AssetType)
	}
}

// Allocation splits the current portfolio value by category. Categories worth nothing are
// left out, and so is everything when the portfolio is worth nothing. Slices are ordered by
// percentage, largest first, then by name.
func Allocation(holdings []models.Holding, prices Prices, categoryOf CategoryFunc) []models.AllocationSlice {
	totals := map[string]decimal.Decimal{}
	var order []string
	grand := decimal.Zero
	for _, h := range holdings {
		v := CurrentValue(h, prices)
		if v.IsZero() {
			continue
		}
		c := categoryOf(h)
		if _, ok := totals[c]; !ok {
			order = append(order, c)
		}
		totals[c] = totals[c].Add(v)
		grand = grand.Add(v)
	}
	if grand.IsZero() {
		return []models.AllocationSlice{}
	}

	out := make([]models.AllocationSlice, 0, len(order))
	for _, c := range order {
		if totals[c].IsZero() {
			continue
		}
		out = append(out, models.AllocationSlice{
			Category: c,
			Value:    utils.RoundMoney(totals[c]),
			Percent:  totals[c].Div(grand).Mul(hundred).Round(2),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Percent.Cmp(out[j].Percent); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

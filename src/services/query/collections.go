package query

import (
	"time"

	"portfolio/src/models"
	"portfolio/src/utils"

	"github.com/shopspring/decimal"
)

func always(d decimal.Decimal) (decimal.Decimal, bool) { return d, true }

var AssetFields = FieldSet[models.Asset]{
	"name":       TextField(func(a models.Asset) string { return a.Name }),
	"type":       TextField(func(a models.Asset) string { return string(a.Type) }),
	"price":      NumberField(func(a models.Asset) (decimal.Decimal, bool) { return always(a.Price) }),
	"created_at": DateField(func(a models.Asset) time.Time { return a.CreatedAt }),
}

var HoldingFields = FieldSet[models.HoldingPerformance]{
	"name":           TextField(func(h models.HoldingPerformance) string { return h.Name }),
	"type":           TextField(func(h models.HoldingPerformance) string { return string(h.AssetType) }),
	"quantity":       NumberField(func(h models.HoldingPerformance) (decimal.Decimal, bool) { return always(h.Quantity) }),
	"purchase_price": NumberField(func(h models.HoldingPerformance) (decimal.Decimal, bool) { return always(h.PurchasePrice) }),
	"current_price":  NumberField(func(h models.HoldingPerformance) (decimal.Decimal, bool) { return h.CurrentPrice, h.LivePrice }),
	"total_cost":     NumberField(func(h models.HoldingPerformance) (decimal.Decimal, bool) { return always(h.CostBasis) }),
	"total_value":    NumberField(func(h models.HoldingPerformance) (decimal.Decimal, bool) { return always(h.CurrentValue) }),
	"profit_loss":    NumberField(func(h models.HoldingPerformance) (decimal.Decimal, bool) { return always(h.ProfitLoss) }),
	"purchase_date":  DateField(func(h models.HoldingPerformance) time.Time { return h.PurchaseDate }),
}

var TransactionFields = FieldSet[models.Transaction]{
	"date":        DateField(func(t models.Transaction) time.Time { return t.Date }),
	"created_at":  DateField(func(t models.Transaction) time.Time { return t.CreatedAt }),
	"amount":      NumberField(func(t models.Transaction) (decimal.Decimal, bool) { return always(t.Amount) }),
	"type":        TextField(func(t models.Transaction) string { return string(t.Type) }),
	"description": TextField(func(t models.Transaction) string { return t.Description }),
}

func AssetSearchFields(a models.Asset) []string { return []string{a.Name} }

func HoldingSearchFields(h models.HoldingPerformance) []string { return []string{h.Name} }

// TransactionSearchFields matches the description, the type and the amount as displayed
// (for example "$1,755.00").
func TransactionSearchFields(t models.Transaction) []string {
	return []string{t.Description, string(t.Type), utils.FormatMoney(t.Amount)}
}

// DateRange builds the filter for a range token such as "last30days". The "all" token
// yields a nil predicate.
func DateRange[T any](get func(T) time.Time, token string, now time.Time) (Predicate[T], error) {
	cutoff, active, err := utils.RangeCutoff(token, now)
	if err != nil || !active {
		return nil, err
	}
	return Between(get, cutoff, now), nil
}

// Default sorts used when a view does not ask for one.
var (
	DefaultAssetSort       = SortState{Key: "name", Direction: Ascending}
	DefaultHoldingSort     = SortState{Key: "name", Direction: Ascending}
	DefaultTransactionSort = SortState{Key: "date", Direction: Descending}
)

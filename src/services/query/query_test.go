package query_test

import (
	"testing"
	"time"

	"portfolio/src/models"
	"portfolio/src/services/query"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids[T any](items []T, id func(T) int) []int {
	out := make([]int, 0, len(items))
	for _, item := range items {
		out = append(out, id(item))
	}
	return out
}

func assetID(a models.Asset) int { return a.ID }
func transactionID(tx models.Transaction) int { return tx.ID }

func sampleAssets() []models.Asset {
	return []models.Asset{
		{ID: 1, Name: "Microsoft", Type: models.AssetTypeStock, Price: decimal.RequireFromString("320.75")},
		{ID: 2, Name: "Apple Inc.", Type: models.AssetTypeStock, Price: decimal.RequireFromString("196.50")},
		{ID: 3, Name: "Vanguard 500", Type: models.AssetTypeMutualFund, Price: decimal.RequireFromString("196.50")},
		{ID: 4, Name: "Treasury 2030", Type: models.AssetTypeBond, Price: decimal.RequireFromString("98.10")},
	}
}

func TestProject(t *testing.T) {
	t.Run("should search case-insensitively over the search fields", func(t *testing.T) {
		out := query.Project(sampleAssets(), query.Spec[models.Asset]{
			Search:       "APPLE",
			SearchFields: query.AssetSearchFields,
		})
		assert.Equal(t, []int{2}, ids(out, assetID))
	})

	t.Run("should treat blank search as no filter", func(t *testing.T) {
		out := query.Project(sampleAssets(), query.Spec[models.Asset]{SearchFields: query.AssetSearchFields})
		assert.Equal(t, []int{1, 2, 3, 4}, ids(out, assetID))
	})

	t.Run("should filter by category and ignore All", func(t *testing.T) {
		typeOf := func(a models.Asset) string { return string(a.Type) }

		out := query.Project(sampleAssets(), query.Spec[models.Asset]{
			Filters: []query.Predicate[models.Asset]{query.Equals(typeOf, "Stock")},
		})
		assert.Equal(t, []int{1, 2}, ids(out, assetID))

		out = query.Project(sampleAssets(), query.Spec[models.Asset]{
			Filters: []query.Predicate[models.Asset]{query.Equals(typeOf, "All")},
		})
		assert.Len(t, out, 4)
	})

	t.Run("should keep the input order for equal keys", func(t *testing.T) {
		spec := query.Spec[models.Asset]{
			Sort:   query.SortState{Key: "price", Direction: query.Ascending},
			Fields: query.AssetFields,
		}
		out := query.Project(sampleAssets(), spec)
		assert.Equal(t, []int{4, 2, 3, 1}, ids(out, assetID))

		again := query.Project(out, spec)
		assert.Equal(t, ids(out, assetID), ids(again, assetID))
	})

	t.Run("should reverse for descending", func(t *testing.T) {
		out := query.Project(sampleAssets(), query.Spec[models.Asset]{
			Sort:   query.SortState{Key: "name", Direction: query.Descending},
			Fields: query.AssetFields,
		})
		assert.Equal(t, []int{3, 4, 1, 2}, ids(out, assetID))
	})

	t.Run("should leave the order untouched for unknown keys", func(t *testing.T) {
		out := query.Project(sampleAssets(), query.Spec[models.Asset]{
			Sort:   query.SortState{Key: "color", Direction: query.Descending},
			Fields: query.AssetFields,
		})
		assert.Equal(t, []int{1, 2, 3, 4}, ids(out, assetID))
	})

	t.Run("should not modify the input", func(t *testing.T) {
		in := sampleAssets()
		query.Project(in, query.Spec[models.Asset]{
			Sort:   query.SortState{Key: "name", Direction: query.Ascending},
			Fields: query.AssetFields,
		})
		assert.Equal(t, []int{1, 2, 3, 4}, ids(in, assetID))
	})

	t.Run("should sort missing values lowest", func(t *testing.T) {
		rows := []models.HoldingPerformance{
			{Holding: models.Holding{ID: 1}, CurrentPrice: decimal.NewFromInt(10), LivePrice: true},
			{Holding: models.Holding{ID: 2}, CurrentPrice: decimal.NewFromInt(99), LivePrice: false},
			{Holding: models.Holding{ID: 3}, CurrentPrice: decimal.NewFromInt(5), LivePrice: true},
		}
		id := func(h models.HoldingPerformance) int { return h.ID }

		asc := query.Project(rows, query.Spec[models.HoldingPerformance]{
			Sort:   query.SortState{Key: "current_price", Direction: query.Ascending},
			Fields: query.HoldingFields,
		})
		assert.Equal(t, []int{2, 3, 1}, ids(asc, id))

		desc := query.Project(rows, query.Spec[models.HoldingPerformance]{
			Sort:   query.SortState{Key: "current_price", Direction: query.Descending},
			Fields: query.HoldingFields,
		})
		assert.Equal(t, []int{1, 3, 2}, ids(desc, id))
	})
}

func TestSortStateToggle(t *testing.T) {
	s := query.SortState{Key: "name", Direction: query.Ascending}

	s = s.Toggle("name")
	assert.Equal(t, query.SortState{Key: "name", Direction: query.Descending}, s)

	s = s.Toggle("name")
	assert.Equal(t, query.Ascending, s.Direction)

	s = s.Toggle("name").Toggle("price")
	assert.Equal(t, query.SortState{Key: "price", Direction: query.Ascending}, s)
}

func TestParseDirection(t *testing.T) {
	assert.Equal(t, query.Descending, query.ParseDirection("DESC"))
	assert.Equal(t, query.Descending, query.ParseDirection("descending"))
	assert.Equal(t, query.Ascending, query.ParseDirection(""))
	assert.Equal(t, query.Ascending, query.ParseDirection("sideways"))
}

func TestTransactionProjection(t *testing.T) {
	now := time.Date(2025, time.March, 31, 12, 0, 0, 0, time.UTC)
	transactions := []models.Transaction{
		{ID: 1, Type: models.TransactionInvestment, Amount: decimal.RequireFromString("1755.00"), Date: now.AddDate(0, 0, -3), Description: "Purchased 10 units of Apple Inc."},
		{ID: 2, Type: models.TransactionIncome, Amount: decimal.RequireFromString("42.10"), Date: now.AddDate(0, 0, -45), Description: "Dividend"},
		{ID: 3, Type: models.TransactionInvestment, Amount: decimal.RequireFromString("120.00"), Date: now.AddDate(0, 0, -10), Description: "Purchased 1 unit of Vanguard 500"},
		{ID: 4, Type: models.TransactionExpense, Amount: decimal.RequireFromString("9.99"), Date: now.AddDate(0, 0, -1), Description: "Advisory fee"},
	}

	t.Run("should keep investments from the last 30 days newest first", func(t *testing.T) {
		inRange, err := query.DateRange(func(tx models.Transaction) time.Time { return tx.Date }, "last30days", now)
		require.NoError(t, err)

		out := query.Project(transactions, query.Spec[models.Transaction]{
			Filters: []query.Predicate[models.Transaction]{
				query.Equals(func(tx models.Transaction) string { return string(tx.Type) }, "Investment"),
				inRange,
			},
			Sort:   query.DefaultTransactionSort,
			Fields: query.TransactionFields,
		})
		assert.Equal(t, []int{1, 3}, ids(out, transactionID))
	})

	t.Run("should match the displayed amount", func(t *testing.T) {
		out := query.Project(transactions, query.Spec[models.Transaction]{
			Search:       "$1,755",
			SearchFields: query.TransactionSearchFields,
		})
		assert.Equal(t, []int{1}, ids(out, transactionID))
	})

	t.Run("should match the transaction type", func(t *testing.T) {
		out := query.Project(transactions, query.Spec[models.Transaction]{
			Search:       "income",
			SearchFields: query.TransactionSearchFields,
		})
		assert.Equal(t, []int{2}, ids(out, transactionID))
	})

	t.Run("should reject unknown range tokens", func(t *testing.T) {
		_, err := query.DateRange(func(tx models.Transaction) time.Time { return tx.Date }, "lastCentury", now)
		assert.Error(t, err)
	})

	t.Run("should not filter for the all token", func(t *testing.T) {
		p, err := query.DateRange(func(tx models.Transaction) time.Time { return tx.Date }, "all", now)
		require.NoError(t, err)
		assert.Nil(t, p)
	})
}

package metrics_test

import (
	"testing"
	"time"

	"portfolio/src/models"
	"portfolio/src/services/metrics"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleHoldings() []models.Holding {
	return []models.Holding{
		{ID: 1, AssetID: 10, Name: "Apple Inc.", AssetType: models.AssetTypeStock, Quantity: d("10"), PurchasePrice: d("150")},
		{ID: 2, AssetID: 20, Name: "Vanguard 500", AssetType: models.AssetTypeMutualFund, Quantity: d("2.5"), PurchasePrice: d("400")},
		{ID: 3, AssetID: 30, Name: "Treasury 2030", AssetType: models.AssetTypeBond, Quantity: d("5"), PurchasePrice: d("100")},
	}
}

func TestValuation(t *testing.T) {
	holdings := sampleHoldings()
	prices := metrics.Prices{10: d("175.50"), 20: d("420")}

	t.Run("should compute the cost basis", func(t *testing.T) {
		assert.True(t, d("1500").Equal(metrics.CostBasis(holdings[0])))
		assert.True(t, d("3000").Equal(metrics.PortfolioCostBasis(holdings)))
	})

	t.Run("should fall back to the purchase price without a live price", func(t *testing.T) {
		price, live := metrics.CurrentPrice(holdings[2], prices)
		assert.False(t, live)
		assert.True(t, d("100").Equal(price))

		price, live = metrics.CurrentPrice(holdings[0], prices)
		assert.True(t, live)
		assert.True(t, d("175.50").Equal(price))
	})

	t.Run("should sum the current value", func(t *testing.T) {
		// 1755 + 1050 + 500
		assert.True(t, d("3305").Equal(metrics.PortfolioValue(holdings, prices)))
	})

	t.Run("should report zero percent when nothing was invested", func(t *testing.T) {
		pl := metrics.ProfitLoss(decimal.Zero, d("10"))
		assert.True(t, d("10").Equal(pl.Absolute))
		assert.True(t, pl.Percent.IsZero())
	})

	t.Run("should compute profit and loss", func(t *testing.T) {
		pl := metrics.ProfitLoss(d("1500"), d("1755"))
		assert.True(t, d("255").Equal(pl.Absolute))
		assert.True(t, d("17").Equal(pl.Percent))
	})

	t.Run("should value a holding row", func(t *testing.T) {
		row := metrics.HoldingPerformance(holdings[0], prices)
		assert.True(t, row.LivePrice)
		assert.Equal(t, "1500.00", row.CostBasis.StringFixed(2))
		assert.Equal(t, "1755.00", row.CurrentValue.StringFixed(2))
		assert.Equal(t, "255.00", row.ProfitLoss.StringFixed(2))
		assert.Equal(t, "17.00", row.ProfitLossPercent.StringFixed(2))
	})
}

func TestTimeframeDelta(t *testing.T) {
	now := time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)

	t.Run("should compute the change over the window", func(t *testing.T) {
		history := []models.NetWorthPoint{
			{Date: now.AddDate(0, 0, -5), Value: d("100000")},
			{Date: now, Value: d("110000")},
		}
		delta := metrics.TimeframeDelta(history, now, metrics.Weekly)
		assert.Equal(t, "10.00", delta.StringFixed(2))
	})

	t.Run("should use the earliest point inside the window", func(t *testing.T) {
		history := []models.NetWorthPoint{
			{Date: now, Value: d("120")},
			{Date: now.AddDate(0, 0, -40), Value: d("50")},
			{Date: now.AddDate(0, 0, -20), Value: d("100")},
		}
		delta := metrics.TimeframeDelta(history, now, metrics.Monthly)
		assert.Equal(t, "20.00", delta.StringFixed(2))
	})

	t.Run("should be zero with fewer than two points", func(t *testing.T) {
		history := []models.NetWorthPoint{{Date: now, Value: d("100")}}
		assert.True(t, metrics.TimeframeDelta(history, now, metrics.Yearly).IsZero())
		assert.True(t, metrics.TimeframeDelta(nil, now, metrics.Yearly).IsZero())
	})

	t.Run("should be zero when no point falls in the window", func(t *testing.T) {
		history := []models.NetWorthPoint{
			{Date: now.AddDate(0, 0, -30), Value: d("100")},
			{Date: now.AddDate(0, 0, -20), Value: d("110")},
		}
		assert.True(t, metrics.TimeframeDelta(history, now, metrics.Daily).IsZero())
	})

	t.Run("should be zero when the reference value is zero", func(t *testing.T) {
		history := []models.NetWorthPoint{
			{Date: now.AddDate(0, 0, -1), Value: decimal.Zero},
			{Date: now, Value: d("110")},
		}
		assert.True(t, metrics.TimeframeDelta(history, now, metrics.Weekly).IsZero())
	})
}

func TestHistoryWindow(t *testing.T) {
	now := time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)
	history := []models.NetWorthPoint{
		{Date: now, Value: d("3")},
		{Date: now.AddDate(0, 0, -100), Value: d("1")},
		{Date: now.AddDate(0, 0, -20), Value: d("2")},
	}

	out, err := metrics.HistoryWindow(history, "1m", now)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.True(t, d("2").Equal(out[0].Value))

	out, err = metrics.HistoryWindow(history, "ALL", now)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.True(t, d("1").Equal(out[0].Value))

	_, err = metrics.HistoryWindow(history, "2Y", now)
	assert.Error(t, err)
}

func TestAllocation(t *testing.T) {
	t.Run("should split the value by category", func(t *testing.T) {
		holdings := []models.Holding{
			{AssetID: 1, AssetType: models.AssetTypeBond, Quantity: d("1"), PurchasePrice: d("250")},
			{AssetID: 2, AssetType: models.AssetTypeStock, Quantity: d("1"), PurchasePrice: d("500")},
			{AssetID: 3, AssetType: models.AssetTypeCash, Quantity: d("1"), PurchasePrice: d("250")},
			{AssetID: 4, AssetType: models.AssetTypeOther, Quantity: decimal.Zero, PurchasePrice: d("10")},
		}
		out := metrics.Allocation(holdings, nil, metrics.ByAssetType(nil))
		require.Len(t, out, 3)
		assert.Equal(t, "Stock", out[0].Category)
		assert.Equal(t, "50.00", out[0].Percent.StringFixed(2))
		assert.Equal(t, "Bond", out[1].Category)
		assert.Equal(t, "Cash", out[2].Category)
		assert.Equal(t, "25.00", out[2].Percent.StringFixed(2))
	})

	t.Run("should rename categories", func(t *testing.T) {
		holdings := []models.Holding{
			{AssetType: models.AssetTypeStock, Quantity: d("1"), PurchasePrice: d("1")},
			{AssetType: models.AssetTypeMutualFund, Quantity: d("1"), PurchasePrice: d("1")},
		}
		out := metrics.Allocation(holdings, nil, metrics.ByAssetType(map[string]string{
			"Stock":       "Equity",
			"Mutual Fund": "Equity",
		}))
		require.Len(t, out, 1)
		assert.Equal(t, "Equity", out[0].Category)
		assert.Equal(t, "100.00", out[0].Percent.StringFixed(2))
	})

	t.Run("should be empty when the portfolio is worth nothing", func(t *testing.T) {
		out := metrics.Allocation(nil, nil, metrics.ByAssetType(nil))
		assert.NotNil(t, out)
		assert.Empty(t, out)
	})
}

func TestSummaries(t *testing.T) {
	now := time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)
	transactions := []models.Transaction{
		{ID: 1, Type: models.TransactionInvestment, Amount: d("1000"), Date: now.AddDate(0, 0, -9)},
		{ID: 2, Type: models.TransactionIncome, Amount: d("50"), Date: now.AddDate(0, 0, -2)},
		{ID: 3, Type: models.TransactionWithdrawal, Amount: d("200"), Date: now.AddDate(0, 0, -5)},
		{ID: 4, Type: models.TransactionExpense, Amount: d("10"), Date: now.AddDate(0, 0, -1)},
	}

	t.Run("should total transactions per type", func(t *testing.T) {
		totals := metrics.TransactionTotals(transactions)
		assert.Equal(t, 4, totals.Count)
		assert.True(t, d("1260").Equal(totals.Total))
		assert.True(t, d("1000").Equal(totals.Investment))
		assert.True(t, d("840").Equal(totals.Net))
	})

	t.Run("should list the most recent transactions", func(t *testing.T) {
		out := metrics.RecentTransactions(transactions, 2)
		require.Len(t, out, 2)
		assert.Equal(t, 4, out[0].ID)
		assert.Equal(t, 2, out[1].ID)
		assert.Equal(t, 1, transactions[0].ID)
	})

	t.Run("should rank holdings by value", func(t *testing.T) {
		out := metrics.TopHoldings(sampleHoldings(), metrics.Prices{10: d("175.50")}, 2)
		require.Len(t, out, 2)
		assert.Equal(t, 1, out[0].ID)
		assert.Equal(t, 2, out[1].ID)
	})

	t.Run("should summarize the portfolio", func(t *testing.T) {
		cash := d("48245")
		summary, err := metrics.Summarize(metrics.Input{
			Holdings:     sampleHoldings(),
			Prices:       metrics.Prices{10: d("175.50"), 20: d("420")},
			Transactions: transactions,
			History: []models.NetWorthPoint{
				{Date: now.AddDate(0, 0, -3), Value: d("100000")},
				{Date: now, Value: d("110000")},
			},
			Cash:      &cash,
			Timeframe: "ALL",
			Now:       now,
		})
		require.NoError(t, err)
		assert.Equal(t, "3305.00", summary.TotalValue.StringFixed(2))
		assert.Equal(t, "3000.00", summary.TotalInvested.StringFixed(2))
		assert.Equal(t, "305.00", summary.ProfitLoss.StringFixed(2))
		assert.Equal(t, "51550.00", summary.NetWorth.StringFixed(2))
		assert.Equal(t, "10.00", summary.WeeklyChange.StringFixed(2))
		assert.True(t, summary.DailyChange.IsZero())
		assert.Equal(t, 3, summary.HoldingsCount)
		assert.Len(t, summary.History, 2)
		assert.Len(t, summary.RecentTransactions, 4)
		require.NotNil(t, summary.CashBalance)
	})

	t.Run("should leave cash out when the balance is unknown", func(t *testing.T) {
		summary, err := metrics.Summarize(metrics.Input{Holdings: sampleHoldings(), Now: now})
		require.NoError(t, err)
		assert.Nil(t, summary.CashBalance)
		assert.True(t, summary.NetWorth.Equal(summary.TotalValue))
	})
}

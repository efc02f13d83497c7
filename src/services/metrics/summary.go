package metrics

import (
	"sort"
	"time"

	"portfolio/src/models"
	"portfolio/src/utils"

	"github.com/shopspring/decimal"
)

// TransactionTotals sums the amounts of ts per transaction type.
func TransactionTotals(ts []models.Transaction) models.TransactionTotals {
	totals := models.TransactionTotals{Count: len(ts)}
	for _, t := range ts {
		switch t.Type {
		case models.TransactionInvestment:
			totals.Investment = totals.Investment.Add(t.Amount)
		case models.TransactionWithdrawal:
			totals.Withdrawal = totals.Withdrawal.Add(t.Amount)
		case models.TransactionIncome:
			totals.Income = totals.Income.Add(t.Amount)
		case models.TransactionExpense:
			totals.Expense = totals.Expense.Add(t.Amount)
		}
		totals.Total = totals.Total.Add(t.Amount)
	}
	totals.Net = totals.Investment.Add(totals.Income).Sub(totals.Withdrawal).Sub(totals.Expense)
	return totals
}

// TopHoldings returns the n holdings worth the most, largest first.
func TopHoldings(holdings []models.Holding, prices Prices, n int) []models.HoldingPerformance {
	rows := HoldingPerformances(holdings, prices)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].CurrentValue.GreaterThan(rows[j].CurrentValue)
	})
	if len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

// RecentTransactions returns the n latest transactions, newest first.
func RecentTransactions(ts []models.Transaction, n int) []models.Transaction {
	out := make([]models.Transaction, len(ts))
	copy(out, ts)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Input gathers everything a dashboard summary is computed from.
type Input struct {
	Holdings     []models.Holding
	Prices       Prices
	Transactions []models.Transaction
	History      []models.NetWorthPoint
	// Cash is nil when the balance could not be read.
	Cash       *decimal.Decimal
	CategoryOf CategoryFunc
	Timeframe  string
	Now        time.Time
}

// Summarize computes the dashboard figures. The timeframe only narrows the history series;
// the deltas always use their own fixed windows over the full history.
func Summarize(in Input) (models.PortfolioSummary, error) {
	history, err := HistoryWindow(in.History, in.Timeframe, in.Now)
	if err != nil {
		return models.PortfolioSummary{}, err
	}
	categoryOf := in.CategoryOf
	if categoryOf == nil {
		categoryOf = ByAssetType(nil)
	}

	cost := PortfolioCostBasis(in.Holdings)
	value := PortfolioValue(in.Holdings, in.Prices)
	pl := ProfitLoss(cost, value)

	summary := models.PortfolioSummary{
		TotalValue:           utils.RoundMoney(value),
		TotalInvested:        utils.RoundMoney(cost),
		ProfitLoss:           utils.RoundMoney(pl.Absolute),
		ProfitLossPercentage: pl.Percent.Round(2),
		HoldingsCount:        len(in.Holdings),
		TransactionsCount:    len(in.Transactions),
		DailyChange:          TimeframeDelta(in.History, in.Now, Daily).Round(2),
		WeeklyChange:         TimeframeDelta(in.History, in.Now, Weekly).Round(2),
		MonthlyChange:        TimeframeDelta(in.History, in.Now, Monthly).Round(2),
		YearlyChange:         TimeframeDelta(in.History, in.Now, Yearly).Round(2),
		NetWorth:             utils.RoundMoney(value),
		History:              history,
		AssetAllocation:      Allocation(in.Holdings, in.Prices, categoryOf),
		TopHoldings:          TopHoldings(in.Holdings, in.Prices, utils.SummaryListSize),
		RecentTransactions:   RecentTransactions(in.Transactions, utils.SummaryListSize),
	}
	if in.Cash != nil {
		cash := utils.RoundMoney(*in.Cash)
		summary.CashBalance = &cash
		summary.NetWorth = utils.RoundMoney(value.Add(cash))
	}
	return summary, nil
}

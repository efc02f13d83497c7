package models

import "github.com/shopspring/decimal"

type AllocationSlice struct {
	Category string          `json:"name"`
	Value    decimal.Decimal `json:"amount"`
	Percent  decimal.Decimal `json:"value"`
}

type TransactionTotals struct {
	Total      decimal.Decimal `json:"total"`
	Investment decimal.Decimal `json:"investment"`
	Withdrawal decimal.Decimal `json:"withdrawal"`
	Income     decimal.Decimal `json:"income"`
	Expense    decimal.Decimal `json:"expense"`
	// Net is investment plus income minus withdrawals and expenses.
	Net   decimal.Decimal `json:"net"`
	Count int             `json:"count"`
}

type PortfolioSummary struct {
	TotalValue           decimal.Decimal      `json:"total_value"`
	TotalInvested        decimal.Decimal      `json:"total_invested"`
	ProfitLoss           decimal.Decimal      `json:"profit_loss"`
	ProfitLossPercentage decimal.Decimal      `json:"profit_loss_percentage"`
	HoldingsCount        int                  `json:"holdings_count"`
	TransactionsCount    int                  `json:"transactions_count"`
	DailyChange          decimal.Decimal      `json:"daily_change"`
	WeeklyChange         decimal.Decimal      `json:"weekly_change"`
	MonthlyChange        decimal.Decimal      `json:"monthly_change"`
	YearlyChange         decimal.Decimal      `json:"yearly_change"`
	CashBalance          *decimal.Decimal     `json:"cash_balance"`
	NetWorth             decimal.Decimal      `json:"net_worth"`
	History              []NetWorthPoint      `json:"history"`
	AssetAllocation      []AllocationSlice    `json:"asset_allocation"`
	TopHoldings          []HoldingPerformance `json:"top_holdings"`
	RecentTransactions   []Transaction        `json:"recent_transactions"`
}

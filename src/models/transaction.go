package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionInvestment TransactionType = "Investment"
	TransactionWithdrawal TransactionType = "Withdrawal"
	TransactionIncome     TransactionType = "Income"
	TransactionExpense    TransactionType = "Expense"
)

var TransactionTypes = []TransactionType{TransactionInvestment, TransactionWithdrawal, TransactionIncome, TransactionExpense}

// Transaction is an immutable ledger entry created by the backend for each completed order.
type Transaction struct {
	ID          int             `json:"id"`
	Type        TransactionType `json:"type"`
	HoldingID   int             `json:"holding_id"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

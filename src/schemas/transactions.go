package schemas

import (
	"fmt"

	"portfolio/src/models"

	"github.com/shopspring/decimal"
)

// TransactionResponse is one row of GET /api/transactions/get-all-transactions.
type TransactionResponse struct {
	ID          int                 `json:"id"`
	Type        string              `json:"type"`
	HoldingID   int                 `json:"holding_id"`
	Amount      decimal.NullDecimal `json:"amount"`
	Date        Date                `json:"date"`
	Description string              `json:"description"`
	CreatedAt   Date                `json:"created_at"`
}

func (t TransactionResponse) ToModel() (models.Transaction, error) {
	if t.ID <= 0 {
		return models.Transaction{}, fmt.Errorf("transaction without id")
	}
	if !t.Amount.Valid {
		return models.Transaction{}, fmt.Errorf("transaction %d has no amount", t.ID)
	}
	txType := models.TransactionType(t.Type)
	known := false
	for _, candidate := range models.TransactionTypes {
		if candidate == txType {
			known = true
			break
		}
	}
	if !known {
		return models.Transaction{}, fmt.Errorf("transaction %d has unknown type %q", t.ID, t.Type)
	}
	return models.Transaction{
		ID:          t.ID,
		Type:        txType,
		HoldingID:   t.HoldingID,
		Amount:      t.Amount.Decimal,
		Date:        t.Date.ToTime(),
		Description: t.Description,
		CreatedAt:   t.CreatedAt.ToTime(),
	}, nil
}

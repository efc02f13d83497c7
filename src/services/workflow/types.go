package workflow

import (
	"errors"

	"portfolio/src/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Stage string

const (
	StageIdle            Stage = "idle"
	StageSelecting       Stage = "selecting"
	StageConfirming      Stage = "confirming"
	StagePINVerification Stage = "pin_verification"
	StageSubmitting      Stage = "submitting"
	StageResult          Stage = "result"
)

// Outcome is only set in StageResult.
type Outcome string

const (
	OutcomeNone    Outcome = ""
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

func ParseSide(value string) (Side, error) {
	switch Side(value) {
	case SideBuy, SideSell:
		return Side(value), nil
	}
	return "", &ValidationError{Field: "side", Message: "side must be buy or sell"}
}

var (
	ErrOrderOpen            = errors.New("another order is already open")
	ErrNoOrder              = errors.New("no order is open")
	ErrInvalidStage         = errors.New("operation not allowed at the current stage")
	ErrSubmissionInProgress = errors.New("an order is being submitted")
	ErrOrderChanged         = errors.New("order changed while it was being validated")
)

// ValidationError is a local check that failed. It never involves a network call and never
// moves the workflow to another stage.
type ValidationError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// PendingOrder is the buy or sell request being prepared. It only lives inside a Workflow.
type PendingOrder struct {
	ID        uuid.UUID        `json:"id"`
	Side      Side             `json:"side"`
	AssetID   int              `json:"asset_id,omitempty"`
	HoldingID int              `json:"holding_id,omitempty"`
	Name      string           `json:"name"`
	AssetType models.AssetType `json:"type"`
	UnitPrice decimal.Decimal  `json:"unit_price"`
	Quantity  decimal.Decimal  `json:"quantity"`
	// TotalPrice is UnitPrice * Quantity rounded to cents.
	TotalPrice decimal.Decimal `json:"total_price"`
	// Available is the owned quantity; sell orders only.
	Available  decimal.Decimal `json:"available"`
	Fractional bool            `json:"fractional"`
}

// View is a snapshot of a workflow, safe to hand to other goroutines.
type View struct {
	Stage        Stage                  `json:"stage"`
	Outcome      Outcome                `json:"outcome,omitempty"`
	Order        *PendingOrder          `json:"order,omitempty"`
	Error        *ValidationError       `json:"error,omitempty"`
	Message      string                 `json:"message,omitempty"`
	Balance      *models.AccountBalance `json:"balance,omitempty"`
	BalanceStale bool                   `json:"balance_stale,omitempty"`
	Processing   bool                   `json:"processing"`
}

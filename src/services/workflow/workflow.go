// Package workflow drives one buy or sell order from selection to its result. Each session
// owns a single Workflow; the stage enum is the only source of truth for what the user is
// looking at.
package workflow

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"portfolio/src/models"
	"portfolio/src/schemas"
	"portfolio/src/session"
	"portfolio/src/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	msgInvalidQuantity = "Please enter a valid quantity"
	msgPINRequired     = "Please enter your security PIN"
	msgPINMismatch     = "Invalid PIN. Please try again."
	msgBuyFailed       = "Purchase failed. Please try again."
	msgSellFailed      = "Failed to sell holding. Please try again."
	msgBalanceFailed   = "Could not read your balance. Please try again."
	msgPINFailed       = "Could not verify your PIN. Please try again."
)

type Orders interface {
	Buy(ctx context.Context, sess *session.Session, assetID int, quantity decimal.Decimal) (*schemas.OrderResponse, error)
	Sell(ctx context.Context, sess *session.Session, holdingID int, quantity decimal.Decimal) (*schemas.OrderResponse, error)
}

type Balances interface {
	GetBalance(ctx context.Context, sess *session.Session) (models.AccountBalance, error)
	RefreshAfterOrder(ctx context.Context, sess *session.Session) (models.AccountBalance, error)
}

type Dependencies struct {
	Orders   Orders
	Balances Balances
	PINs     PINVerifier
	Units    Units
	Logger   *logrus.Logger
}

// Workflow is safe for concurrent use. Its mutex is released before every network call;
// while an order is in flight the processing flag rejects anything that would touch it.
type Workflow struct {
	sess *session.Session
	deps Dependencies

	mutex        sync.Mutex
	stage        Stage
	outcome      Outcome
	order        *PendingOrder
	validation   *ValidationError
	message      string
	balance      *models.AccountBalance
	balanceStale bool
	processing   bool
	// revision changes on every edit of the order so that checks done without the lock
	// can tell whether they are still about the same order.
	revision int
}

func New(sess *session.Session, deps Dependencies) *Workflow {
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	return &Workflow{sess: sess, deps: deps, stage: StageIdle}
}

// OpenBuy starts a buy order for asset at its catalogue price.
func (w *Workflow) OpenBuy(asset models.Asset) (View, error) {
	if !asset.Price.IsPositive() {
		return w.View(), &ValidationError{Field: "asset_id", Message: "This asset has no price and cannot be bought"}
	}
	fractional := w.deps.Units.Fractional(asset.Type)
	return w.open(&PendingOrder{
		Side:       SideBuy,
		AssetID:    asset.ID,
		Name:       asset.Name,
		AssetType:  asset.Type,
		UnitPrice:  asset.Price,
		Fractional: fractional,
	})
}

// OpenSell starts a sell order for holding at unitPrice.
func (w *Workflow) OpenSell(holding models.Holding, unitPrice decimal.Decimal) (View, error) {
	if !holding.Quantity.IsPositive() {
		return w.View(), &ValidationError{Field: "holding_id", Message: "You don't own any units of this holding"}
	}
	return w.open(&PendingOrder{
		Side:       SideSell,
		AssetID:    holding.AssetID,
		HoldingID:  holding.ID,
		Name:       holding.Name,
		AssetType:  holding.AssetType,
		UnitPrice:  unitPrice,
		Available:  holding.Quantity,
		Fractional: w.deps.Units.Fractional(holding.AssetType),
	})
}

func (w *Workflow) open(order *PendingOrder) (View, error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.processing {
		return w.view(), ErrSubmissionInProgress
	}
	if w.stage != StageIdle {
		return w.view(), ErrOrderOpen
	}

	order.ID = uuid.New()
	order.Quantity = step(order.Fractional)
	order.TotalPrice = total(order)
	w.order = order
	w.revision++
	w.moveTo(StageSelecting)
	return w.view(), nil
}

// SetQuantity replaces the order quantity. Values below the minimum unit are raised to it;
// zero and negative values are rejected.
func (w *Workflow) SetQuantity(q decimal.Decimal) (View, error) {
	return w.edit(func(order *PendingOrder) (decimal.Decimal, error) {
		if !q.IsPositive() {
			return decimal.Zero, &ValidationError{Field: "quantity", Message: msgInvalidQuantity}
		}
		return q, nil
	})
}

func (w *Workflow) Increment() (View, error) {
	return w.edit(func(order *PendingOrder) (decimal.Decimal, error) {
		return order.Quantity.Add(step(order.Fractional)), nil
	})
}

// Decrement never goes below the minimum unit.
func (w *Workflow) Decrement() (View, error) {
	return w.edit(func(order *PendingOrder) (decimal.Decimal, error) {
		return order.Quantity.Sub(step(order.Fractional)), nil
	})
}

func (w *Workflow) edit(next func(*PendingOrder) (decimal.Decimal, error)) (View, error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if err := w.guard(StageSelecting, StageConfirming); err != nil {
		return w.view(), err
	}
	q, err := next(w.order)
	if err != nil {
		w.validation, _ = err.(*ValidationError)
		return w.view(), err
	}

	w.order.Quantity = normalize(q, w.order.Fractional)
	w.order.TotalPrice = total(w.order)
	w.validation = nil
	w.revision++
	w.moveTo(StageConfirming)
	return w.view(), nil
}

// Confirm validates the order and asks for the PIN. Buy orders are checked against the
// balance as the backend reports it now, never against a cached value.
func (w *Workflow) Confirm(ctx context.Context) (View, error) {
	w.mutex.Lock()
	if err := w.guard(StageSelecting, StageConfirming); err != nil {
		defer w.mutex.Unlock()
		return w.view(), err
	}
	order := *w.order
	revision := w.revision
	w.mutex.Unlock()

	var (
		available models.AccountBalance
		readErr   error
	)
	if order.Side == SideBuy {
		available, readErr = w.deps.Balances.GetBalance(ctx, w.sess)
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()

	if err := w.guard(StageSelecting, StageConfirming); err != nil {
		return w.view(), err
	}
	if w.revision != revision {
		return w.view(), ErrOrderChanged
	}
	if readErr != nil {
		w.logger(ctx).WithError(readErr).Warn("balance read failed during confirmation")
		w.fail(utils.MessageOr(readErr, msgBalanceFailed))
		return w.view(), nil
	}

	if verr := check(&order, available.Amount); verr != nil {
		w.validation = verr
		return w.view(), verr
	}

	w.validation = nil
	w.moveTo(StagePINVerification)
	return w.view(), nil
}

func check(order *PendingOrder, balance decimal.Decimal) *ValidationError {
	switch order.Side {
	case SideBuy:
		if order.TotalPrice.GreaterThan(balance) {
			return &ValidationError{
				Field: "quantity",
				Message: fmt.Sprintf("Insufficient balance. This order costs %s and you have %s available.",
					utils.FormatMoney(order.TotalPrice), utils.FormatMoney(balance)),
			}
		}
	case SideSell:
		if order.Quantity.GreaterThan(order.Available) {
			return &ValidationError{
				Field:   "quantity",
				Message: fmt.Sprintf("can't sell more than you own (%s available)", order.Available.String()),
			}
		}
	}
	return nil
}

// SubmitPIN verifies pin and, when it matches, sends the order. The order call does not
// observe the caller's cancellation: once sent it runs to completion and the workflow
// always reaches a result.
func (w *Workflow) SubmitPIN(ctx context.Context, pin string) (View, error) {
	w.mutex.Lock()
	if err := w.guard(StagePINVerification); err != nil {
		defer w.mutex.Unlock()
		return w.view(), err
	}
	pin = strings.TrimSpace(pin)
	if pin == "" {
		defer w.mutex.Unlock()
		w.validation = &ValidationError{Field: "pin", Message: msgPINRequired}
		return w.view(), w.validation
	}
	w.processing = true
	order := *w.order
	w.mutex.Unlock()

	ok, err := w.deps.PINs.Verify(ctx, w.sess, pin)

	w.mutex.Lock()
	if err != nil {
		defer w.mutex.Unlock()
		w.logger(ctx).WithError(err).Warn("pin verification failed")
		w.processing = false
		w.fail(utils.MessageOr(err, msgPINFailed))
		return w.view(), nil
	}
	if !ok {
		defer w.mutex.Unlock()
		w.processing = false
		w.validation = &ValidationError{Field: "pin", Message: msgPINMismatch}
		return w.view(), w.validation
	}
	w.validation = nil
	w.moveTo(StageSubmitting)
	w.logger(ctx).WithField("quantity", order.Quantity.String()).Info("submitting order")
	w.mutex.Unlock()

	return w.submit(context.WithoutCancel(ctx), &order), nil
}

func (w *Workflow) submit(ctx context.Context, order *PendingOrder) View {
	var (
		resp *schemas.OrderResponse
		err  error
	)
	switch order.Side {
	case SideBuy:
		resp, err = w.deps.Orders.Buy(ctx, w.sess, order.AssetID, order.Quantity)
	case SideSell:
		resp, err = w.deps.Orders.Sell(ctx, w.sess, order.HoldingID, order.Quantity)
	}

	if err != nil {
		w.mutex.Lock()
		defer w.mutex.Unlock()
		w.logger(ctx).WithError(err).Error("order rejected")
		w.processing = false
		w.fail(utils.MessageOr(err, failureMessage(order.Side)))
		return w.view()
	}

	refreshed, refreshErr := w.deps.Balances.RefreshAfterOrder(ctx, w.sess)

	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.processing = false
	w.outcome = OutcomeSuccess
	w.message = successMessage(order, resp)
	if refreshErr != nil {
		w.logger(ctx).WithError(refreshErr).Warn("balance refresh after order failed")
		w.balanceStale = true
	} else {
		w.balance = &refreshed
	}
	w.moveTo(StageResult)
	w.logger(ctx).Info("order executed")
	return w.view()
}

func failureMessage(side Side) string {
	if side == SideSell {
		return msgSellFailed
	}
	return msgBuyFailed
}

func successMessage(order *PendingOrder, resp *schemas.OrderResponse) string {
	if resp != nil && resp.Message != "" {
		return resp.Message
	}
	verb := "purchased"
	if order.Side == SideSell {
		verb = "sold"
	}
	return fmt.Sprintf("Successfully %s %s units of %s", verb, order.Quantity.String(), order.Name)
}

// Retry goes back to confirmation after a failed result. The same order is kept and every
// check runs again.
func (w *Workflow) Retry() (View, error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if err := w.guard(StageResult); err != nil {
		return w.view(), err
	}
	if w.outcome != OutcomeFailure {
		return w.view(), ErrInvalidStage
	}
	w.outcome = OutcomeNone
	w.message = ""
	w.revision++
	w.moveTo(StageConfirming)
	return w.view(), nil
}

// Cancel discards the order from any stage except while it is being submitted.
func (w *Workflow) Cancel() (View, error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.processing {
		return w.view(), ErrSubmissionInProgress
	}
	w.reset()
	return w.view(), nil
}

// Dismiss closes the result. It behaves like Cancel.
func (w *Workflow) Dismiss() (View, error) {
	return w.Cancel()
}

func (w *Workflow) View() View {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.view()
}

func (w *Workflow) view() View {
	v := View{
		Stage:        w.stage,
		Outcome:      w.outcome,
		Error:        w.validation,
		Message:      w.message,
		BalanceStale: w.balanceStale,
		Processing:   w.processing,
	}
	if w.order != nil {
		order := *w.order
		v.Order = &order
	}
	if w.balance != nil {
		b := *w.balance
		v.Balance = &b
	}
	return v
}

// guard must be called with the mutex held.
func (w *Workflow) guard(allowed ...Stage) error {
	if w.processing {
		return ErrSubmissionInProgress
	}
	if w.order == nil {
		return ErrNoOrder
	}
	for _, s := range allowed {
		if w.stage == s {
			return nil
		}
	}
	return ErrInvalidStage
}

func (w *Workflow) fail(message string) {
	w.outcome = OutcomeFailure
	w.message = message
	w.moveTo(StageResult)
}

func (w *Workflow) reset() {
	if w.stage != StageIdle {
		w.moveTo(StageIdle)
	}
	w.order = nil
	w.outcome = OutcomeNone
	w.validation = nil
	w.message = ""
	w.balance = nil
	w.balanceStale = false
	w.revision++
}

func (w *Workflow) moveTo(stage Stage) {
	if w.stage != stage {
		entry := w.deps.Logger.WithFields(logrus.Fields{"from": w.stage, "stage": stage})
		if w.order != nil {
			entry = entry.WithFields(logrus.Fields{"order_id": w.order.ID, "side": w.order.Side})
		}
		entry.Debug("order workflow transition")
	}
	w.stage = stage
}

// logger must be called with the mutex held.
func (w *Workflow) logger(ctx context.Context) *logrus.Entry {
	fields := logrus.Fields{"stage": w.stage}
	if w.order != nil {
		fields["order_id"] = w.order.ID
		fields["side"] = w.order.Side
	}
	return w.deps.Logger.WithContext(ctx).WithFields(fields)
}

func total(order *PendingOrder) decimal.Decimal {
	return utils.RoundMoney(order.UnitPrice.Mul(order.Quantity))
}

package controllers

import (
	"context"
	"fmt"

	"portfolio/src/models"
	"portfolio/src/schemas"
	"portfolio/src/services/metrics"
	"portfolio/src/services/workflow"
	"portfolio/src/session"
	"portfolio/src/utils"
)

const (
	StepUp   = "up"
	StepDown = "down"
)

type OrdersControllerI interface {
	Current(sess *session.Session) workflow.View
	Open(ctx context.Context, sess *session.Session, req schemas.OpenOrderRequest) (workflow.View, error)
	UpdateQuantity(sess *session.Session, req schemas.QuantityRequest) (workflow.View, error)
	Confirm(ctx context.Context, sess *session.Session) (workflow.View, error)
	SubmitPIN(ctx context.Context, sess *session.Session, pin string) (workflow.View, error)
	Retry(sess *session.Session) (workflow.View, error)
	Cancel(sess *session.Session) (workflow.View, error)
}

type OrdersController struct {
	Dependencies
}

func NewOrdersController(deps Dependencies) *OrdersController {
	return &OrdersController{Dependencies: deps}
}

func (c *OrdersController) Current(sess *session.Session) workflow.View {
	return c.Workflows.For(sess).View()
}

// Open starts a buy from the catalogue or a sell of an owned holding. The asset is read
// fresh so that the order is priced at the latest market price.
func (c *OrdersController) Open(ctx context.Context, sess *session.Session, req schemas.OpenOrderRequest) (workflow.View, error) {
	flow := c.Workflows.For(sess)

	side, err := workflow.ParseSide(req.Side)
	if err != nil {
		return flow.View(), err
	}

	switch side {
	case workflow.SideBuy:
		asset, err := c.Catalog.Asset(ctx, sess, req.AssetID)
		if err != nil {
			return flow.View(), err
		}
		return flow.OpenBuy(asset)
	default:
		holding, err := c.holding(ctx, sess, req.HoldingID)
		if err != nil {
			return flow.View(), err
		}
		prices, err := c.Pricing.Prices(ctx, sess, []models.Holding{holding})
		if err != nil {
			return flow.View(), err
		}
		price, _ := metrics.CurrentPrice(holding, prices)
		return flow.OpenSell(holding, price)
	}
}

func (c *OrdersController) holding(ctx context.Context, sess *session.Session, id int) (models.Holding, error) {
	holdings, err := c.Backend.GetHoldings(ctx, sess)
	if err != nil {
		return models.Holding{}, err
	}
	for _, h := range holdings {
		if h.ID == id {
			return h, nil
		}
	}
	return models.Holding{}, utils.NotFound(fmt.Sprintf("holding %d not found", id))
}

// UpdateQuantity applies either an explicit quantity or a single step.
func (c *OrdersController) UpdateQuantity(sess *session.Session, req schemas.QuantityRequest) (workflow.View, error) {
	flow := c.Workflows.For(sess)

	switch {
	case req.Quantity != nil:
		return flow.SetQuantity(*req.Quantity)
	case req.Step == StepUp:
		return flow.Increment()
	case req.Step == StepDown:
		return flow.Decrement()
	}
	return flow.View(), &workflow.ValidationError{Field: "quantity", Message: "Please enter a valid quantity"}
}

func (c *OrdersController) Confirm(ctx context.Context, sess *session.Session) (workflow.View, error) {
	return c.Workflows.For(sess).Confirm(ctx)
}

func (c *OrdersController) SubmitPIN(ctx context.Context, sess *session.Session, pin string) (workflow.View, error) {
	return c.Workflows.For(sess).SubmitPIN(ctx, pin)
}

func (c *OrdersController) Retry(sess *session.Session) (workflow.View, error) {
	return c.Workflows.For(sess).Retry()
}

// Cancel abandons the open order, or dismisses a result.
func (c *OrdersController) Cancel(sess *session.Session) (workflow.View, error) {
	flow := c.Workflows.For(sess)
	if flow.View().Stage == workflow.StageResult {
		return flow.Dismiss()
	}
	return flow.Cancel()
}

package controllers

import (
	"context"
	"time"

	"portfolio/src/clients/backend"
	"portfolio/src/models"
	"portfolio/src/services/metrics"
	"portfolio/src/services/query"
	"portfolio/src/session"
	"portfolio/src/utils"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
)

// ListParams are the list view controls sent by the UI.
type ListParams struct {
	Search string
	Type   string
	Range  string
	Sort   query.SortState
}

type TransactionList struct {
	Transactions []models.Transaction     `json:"transactions"`
	Summary      models.TransactionTotals `json:"summary"`
}

type PortfolioControllerI interface {
	ListAssets(ctx context.Context, sess *session.Session, params ListParams) ([]models.Asset, error)
	ListHoldings(ctx context.Context, sess *session.Session, params ListParams) ([]models.HoldingPerformance, error)
	ListTransactions(ctx context.Context, sess *session.Session, params ListParams) (*TransactionList, error)
	GetSummary(ctx context.Context, sess *session.Session, timeframe string) (*models.PortfolioSummary, error)
	ExportXLSX(ctx context.Context, sess *session.Session, params ListParams) (*excelize.File, error)
}

type PortfolioController struct {
	Dependencies
}

func NewPortfolioController(deps Dependencies) *PortfolioController {
	return &PortfolioController{Dependencies: deps}
}

func withDefault(s, fallback query.SortState) query.SortState {
	if s.Key == "" {
		return fallback
	}
	return s
}

func (c *PortfolioController) ListAssets(ctx context.Context, sess *session.Session, params ListParams) ([]models.Asset, error) {
	assets, err := c.Catalog.Assets(ctx, sess)
	if err != nil {
		return nil, err
	}
	return query.Project(assets, query.Spec[models.Asset]{
		Search:       params.Search,
		SearchFields: query.AssetSearchFields,
		Filters: []query.Predicate[models.Asset]{
			query.Equals(func(a models.Asset) string { return string(a.Type) }, params.Type),
		},
		Sort:   withDefault(params.Sort, query.DefaultAssetSort),
		Fields: query.AssetFields,
	}), nil
}

// valuedHoldings returns every holding with its current valuation.
func (c *PortfolioController) valuedHoldings(ctx context.Context, sess *session.Session) ([]models.Holding, metrics.Prices, error) {
	holdings, err := c.Backend.GetHoldings(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	prices, err := c.Pricing.Prices(ctx, sess, holdings)
	if err != nil {
		return nil, nil, err
	}
	return holdings, prices, nil
}

func (c *PortfolioController) ListHoldings(ctx context.Context, sess *session.Session, params ListParams) ([]models.HoldingPerformance, error) {
	holdings, prices, err := c.valuedHoldings(ctx, sess)
	if err != nil {
		return nil, err
	}
	return query.Project(metrics.HoldingPerformances(holdings, prices), query.Spec[models.HoldingPerformance]{
		Search:       params.Search,
		SearchFields: query.HoldingSearchFields,
		Filters: []query.Predicate[models.HoldingPerformance]{
			query.Equals(func(h models.HoldingPerformance) string { return string(h.AssetType) }, params.Type),
		},
		Sort:   withDefault(params.Sort, query.DefaultHoldingSort),
		Fields: query.HoldingFields,
	}), nil
}

func (c *PortfolioController) filterTransactions(transactions []models.Transaction, params ListParams) ([]models.Transaction, error) {
	inRange, err := query.DateRange(func(t models.Transaction) time.Time { return t.Date }, params.Range, c.now())
	if err != nil {
		return nil, utils.BadRequest(err.Error())
	}
	return query.Project(transactions, query.Spec[models.Transaction]{
		Search:       params.Search,
		SearchFields: query.TransactionSearchFields,
		Filters: []query.Predicate[models.Transaction]{
			query.Equals(func(t models.Transaction) string { return string(t.Type) }, params.Type),
			inRange,
		},
		Sort:   withDefault(params.Sort, query.DefaultTransactionSort),
		Fields: query.TransactionFields,
	}), nil
}

// ListTransactions returns the projected transactions and the totals of exactly that list.
func (c *PortfolioController) ListTransactions(ctx context.Context, sess *session.Session, params ListParams) (*TransactionList, error) {
	transactions, err := c.Backend.GetTransactions(ctx, sess)
	if err != nil {
		return nil, err
	}
	filtered, err := c.filterTransactions(transactions, params)
	if err != nil {
		return nil, err
	}
	return &TransactionList{Transactions: filtered, Summary: metrics.TransactionTotals(filtered)}, nil
}

// GetSummary gathers holdings, prices, transactions, history and cash concurrently. The cash
// balance is optional: when it cannot be read the summary is still produced without it.
func (c *PortfolioController) GetSummary(ctx context.Context, sess *session.Session, timeframe string) (*models.PortfolioSummary, error) {
	if _, _, err := utils.TimeframeCutoff(timeframe, c.now()); err != nil {
		return nil, utils.BadRequest(err.Error())
	}
	logger := utils.LoggerFromContext(ctx)

	var (
		holdings     []models.Holding
		prices       metrics.Prices
		transactions []models.Transaction
		history      []models.NetWorthPoint
		cash         *decimal.Decimal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		holdings, prices, err = c.valuedHoldings(gctx, sess)
		return err
	})
	g.Go(func() error {
		var err error
		transactions, err = c.Backend.GetTransactions(gctx, sess)
		return err
	})
	g.Go(func() error {
		var err error
		history, err = c.history(gctx, sess)
		return err
	})
	g.Go(func() error {
		b, err := c.Balances.GetBalance(gctx, sess)
		if err != nil {
			logger.WithError(err).Warn("summary without cash balance")
			return nil
		}
		cash = &b.Amount
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary, err := metrics.Summarize(metrics.Input{
		Holdings:     holdings,
		Prices:       prices,
		Transactions: transactions,
		History:      history,
		Cash:         cash,
		CategoryOf:   metrics.ByAssetType(c.Categories),
		Timeframe:    timeframe,
		Now:          c.now(),
	})
	if err != nil {
		return nil, utils.BadRequest(err.Error())
	}
	return &summary, nil
}

// history reads the net-worth series, falling back to the one embedded in the backend's
// portfolio summary when the dedicated endpoint has nothing.
func (c *PortfolioController) history(ctx context.Context, sess *session.Session) ([]models.NetWorthPoint, error) {
	logger := utils.LoggerFromContext(ctx)

	history, err := c.Backend.GetNetWorth(ctx, sess)
	if err == nil && len(history) > 0 {
		return history, nil
	}
	if err != nil {
		logger.WithError(err).Warn("net worth unavailable, using portfolio summary history")
	}

	resp, sumErr := c.Backend.GetPortfolioSummary(ctx, sess)
	if sumErr != nil {
		if err != nil {
			return nil, err
		}
		logger.WithError(sumErr).Warn("portfolio summary unavailable")
		return history, nil
	}
	return backend.HistoryFromSummary(resp)
}

// ExportXLSX writes the transactions selected by params, and every holding, to a workbook.
func (c *PortfolioController) ExportXLSX(ctx context.Context, sess *session.Session, params ListParams) (*excelize.File, error) {
	list, err := c.ListTransactions(ctx, sess, params)
	if err != nil {
		return nil, err
	}
	holdings, err := c.ListHoldings(ctx, sess, ListParams{})
	if err != nil {
		return nil, err
	}
	return c.Reports.GenerateXLSXReport(ctx, list.Transactions, holdings)
}

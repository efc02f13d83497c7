package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"portfolio/src/config"
	"portfolio/src/models"
	"portfolio/src/schemas"
	"portfolio/src/session"
	"portfolio/src/utils"
	"portfolio/src/utils/requests"

	"github.com/shopspring/decimal"
)

// ErrNoBalance is returned when the settlements endpoint answers with an empty list.
var ErrNoBalance = fmt.Errorf("%w: settlements response carries no balance", utils.ErrUnexpectedShape)

type BackendClientI interface {
	Login(ctx context.Context, username, password string) (*schemas.LoginResponse, error)
	VerifyPIN(ctx context.Context, sess *session.Session, pin string) (bool, error)
	GetAssets(ctx context.Context, sess *session.Session) ([]models.Asset, error)
	GetAsset(ctx context.Context, sess *session.Session, id int) (*models.Asset, error)
	GetHoldings(ctx context.Context, sess *session.Session) ([]models.Holding, error)
	GetTransactions(ctx context.Context, sess *session.Session) ([]models.Transaction, error)
	GetBalance(ctx context.Context, sess *session.Session) (decimal.Decimal, error)
	GetNetWorth(ctx context.Context, sess *session.Session) ([]models.NetWorthPoint, error)
	GetPortfolioSummary(ctx context.Context, sess *session.Session) (*schemas.PortfolioSummaryResponse, error)
	Buy(ctx context.Context, sess *session.Session, assetID int, quantity decimal.Decimal) (*schemas.OrderResponse, error)
	Sell(ctx context.Context, sess *session.Session, holdingID int, quantity decimal.Decimal) (*schemas.OrderResponse, error)
}

// BackendServiceClient talks to the upstream portfolio backend.
type BackendServiceClient struct {
	API     *requests.ExternalAPIService
	BaseURL string
}

// NewClient creates a new instance of BackendServiceClient
func NewClient(cfg *config.Config, httpClient *http.Client) *BackendServiceClient {
	return &BackendServiceClient{
		API:     requests.NewExternalAPIService(httpClient, cfg.Backend.Timeout),
		BaseURL: cfg.Backend.BaseURL,
	}
}

func (c *BackendServiceClient) endpoint(path string) string {
	return c.BaseURL + path
}

func token(sess *session.Session) string {
	if sess == nil {
		return ""
	}
	return sess.Token
}

// Login posts the user's credentials and returns the session token.
func (c *BackendServiceClient) Login(ctx context.Context, username, password string) (*schemas.LoginResponse, error) {
	var resp schemas.LoginResponse
	err := c.API.Post(ctx, c.endpoint("/api/auth/login"), "", schemas.LoginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("%w: login response without token", utils.ErrUnexpectedShape)
	}
	return &resp, nil
}

func (c *BackendServiceClient) VerifyPIN(ctx context.Context, sess *session.Session, pin string) (bool, error) {
	var resp schemas.VerifyPINResponse
	err := c.API.Post(ctx, c.endpoint("/api/auth/verify-pin"), token(sess), schemas.VerifyPINRequest{PIN: pin}, &resp)
	if err != nil {
		return false, err
	}
	return resp.Valid, nil
}

// GetAssets fetches the whole asset catalogue. Rows that fail validation are reported as
// a shape error instead of being passed on with zero values.
func (c *BackendServiceClient) GetAssets(ctx context.Context, sess *session.Session) ([]models.Asset, error) {
	var rows []schemas.AssetResponse
	if err := c.API.Get(ctx, c.endpoint("/api/assets/get-all"), token(sess), nil, &rows); err != nil {
		return nil, err
	}
	assets := make([]models.Asset, 0, len(rows))
	for _, row := range rows {
		asset, err := row.ToModel()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", utils.ErrUnexpectedShape, err)
		}
		assets = append(assets, asset)
	}
	return assets, nil
}

// GetAsset fetches one asset. A missing asset is not an error: it returns nil, nil so that
// callers can fall back to another valuation.
func (c *BackendServiceClient) GetAsset(ctx context.Context, sess *session.Session, id int) (*models.Asset, error) {
	var row *schemas.AssetResponse
	err := c.API.Get(ctx, c.endpoint("/api/assets/get/"+url.PathEscape(strconv.Itoa(id))), token(sess), nil, &row)
	if err != nil {
		var httpErr *utils.HTTPError
		if errors.As(err, &httpErr) && httpErr.Code == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	if row == nil || row.ID == 0 {
		return nil, nil
	}
	asset, err := row.ToModel()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrUnexpectedShape, err)
	}
	return &asset, nil
}

func (c *BackendServiceClient) GetHoldings(ctx context.Context, sess *session.Session) ([]models.Holding, error) {
	var rows []schemas.HoldingResponse
	if err := c.API.Get(ctx, c.endpoint("/api/holdings"), token(sess), nil, &rows); err != nil {
		return nil, err
	}
	holdings := make([]models.Holding, 0, len(rows))
	for _, row := range rows {
		h, err := row.ToModel()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", utils.ErrUnexpectedShape, err)
		}
		holdings = append(holdings, h)
	}
	return holdings, nil
}

func (c *BackendServiceClient) GetTransactions(ctx context.Context, sess *session.Session) ([]models.Transaction, error) {
	var rows []schemas.TransactionResponse
	if err := c.API.Get(ctx, c.endpoint("/api/transactions/get-all-transactions"), token(sess), nil, &rows); err != nil {
		return nil, err
	}
	transactions := make([]models.Transaction, 0, len(rows))
	for _, row := range rows {
		t, err := row.ToModel()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", utils.ErrUnexpectedShape, err)
		}
		transactions = append(transactions, t)
	}
	return transactions, nil
}

// GetBalance reads the available cash. The first settlement row is authoritative.
func (c *BackendServiceClient) GetBalance(ctx context.Context, sess *session.Session) (decimal.Decimal, error) {
	var rows []schemas.SettlementResponse
	if err := c.API.Get(ctx, c.endpoint("/api/settlements/viewBalance"), token(sess), nil, &rows); err != nil {
		return decimal.Zero, err
	}
	if len(rows) == 0 {
		return decimal.Zero, ErrNoBalance
	}
	if !rows[0].Amount.Valid {
		return decimal.Zero, fmt.Errorf("%w: settlement without amount", utils.ErrUnexpectedShape)
	}
	return rows[0].Amount.Decimal, nil
}

func (c *BackendServiceClient) GetNetWorth(ctx context.Context, sess *session.Session) ([]models.NetWorthPoint, error) {
	var rows []schemas.NetWorthPointResponse
	if err := c.API.Get(ctx, c.endpoint("/api/networth/get-networth"), token(sess), nil, &rows); err != nil {
		return nil, err
	}
	return toHistory(rows)
}

func (c *BackendServiceClient) GetPortfolioSummary(ctx context.Context, sess *session.Session) (*schemas.PortfolioSummaryResponse, error) {
	var resp schemas.PortfolioSummaryResponse
	if err := c.API.Get(ctx, c.endpoint("/api/portfolio/summary"), token(sess), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *BackendServiceClient) Buy(ctx context.Context, sess *session.Session, assetID int, quantity decimal.Decimal) (*schemas.OrderResponse, error) {
	body := schemas.BuyRequest{AssetID: assetID, Quantity: schemas.Quantity(quantity)}
	raw, err := c.API.PostRaw(ctx, c.endpoint("/api/holdings/buy"), token(sess), body)
	if err != nil {
		return nil, err
	}
	resp := schemas.ParseOrderResponse(raw)
	return &resp, nil
}

func (c *BackendServiceClient) Sell(ctx context.Context, sess *session.Session, holdingID int, quantity decimal.Decimal) (*schemas.OrderResponse, error) {
	body := schemas.SellRequest{HoldingID: holdingID, Quantity: schemas.Quantity(quantity)}
	raw, err := c.API.PostRaw(ctx, c.endpoint("/api/holdings/sell"), token(sess), body)
	if err != nil {
		return nil, err
	}
	resp := schemas.ParseOrderResponse(raw)
	return &resp, nil
}

// toHistory converts wire points; a malformed point is a shape error.
func toHistory(rows []schemas.NetWorthPointResponse) ([]models.NetWorthPoint, error) {
	history := make([]models.NetWorthPoint, 0, len(rows))
	for _, row := range rows {
		p, err := row.ToModel()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", utils.ErrUnexpectedShape, err)
		}
		history = append(history, p)
	}
	return history, nil
}

// HistoryFromSummary extracts the net-worth series embedded in a portfolio summary.
func HistoryFromSummary(resp *schemas.PortfolioSummaryResponse) ([]models.NetWorthPoint, error) {
	if resp == nil {
		return nil, nil
	}
	return toHistory(resp.History)
}

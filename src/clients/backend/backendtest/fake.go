// Package backendtest provides an in-memory portfolio backend for tests.
package backendtest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"portfolio/src/models"
	"portfolio/src/schemas"
	"portfolio/src/session"
	"portfolio/src/utils"

	"github.com/shopspring/decimal"
)

// Fake implements backend.BackendClientI. Buy and Sell move cash and units the way the
// real backend does so that balance refreshes observe the order.
type Fake struct {
	mutex sync.Mutex

	Password     string
	PIN          string
	Assets       []models.Asset
	Holdings     []models.Holding
	Transactions []models.Transaction
	Balance      decimal.Decimal
	History      []models.NetWorthPoint

	// Errors returned instead of the normal behaviour, keyed by method name.
	Errors map[string]error

	calls map[string]int
}

func New() *Fake {
	return &Fake{Password: "secret", PIN: "1234", Errors: map[string]error{}, calls: map[string]int{}}
}

// Calls counts the invocations of a method.
func (f *Fake) Calls(method string) int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.calls[method]
}

func (f *Fake) enter(method string, sess *session.Session) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[method]++
	if err := f.Errors[method]; err != nil {
		return err
	}
	if method != "Login" && (sess == nil || sess.Token == "") {
		return utils.Unauthorized("Unauthorized")
	}
	return nil
}

func (f *Fake) Login(ctx context.Context, username, password string) (*schemas.LoginResponse, error) {
	if err := f.enter("Login", nil); err != nil {
		return nil, err
	}
	if password != f.Password {
		return nil, utils.Unauthorized("Invalid credentials")
	}
	return &schemas.LoginResponse{
		Token: "token-" + username,
		User:  schemas.User{ID: 1, Username: username},
	}, nil
}

func (f *Fake) VerifyPIN(ctx context.Context, sess *session.Session, pin string) (bool, error) {
	if err := f.enter("VerifyPIN", sess); err != nil {
		return false, err
	}
	return pin == f.PIN, nil
}

func (f *Fake) GetAssets(ctx context.Context, sess *session.Session) ([]models.Asset, error) {
	if err := f.enter("GetAssets", sess); err != nil {
		return nil, err
	}
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return append([]models.Asset(nil), f.Assets...), nil
}

func (f *Fake) GetAsset(ctx context.Context, sess *session.Session, id int) (*models.Asset, error) {
	if err := f.enter("GetAsset", sess); err != nil {
		return nil, err
	}
	f.mutex.Lock()
	defer f.mutex.Unlock()
	for _, a := range f.Assets {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, nil
}

func (f *Fake) GetHoldings(ctx context.Context, sess *session.Session) ([]models.Holding, error) {
	if err := f.enter("GetHoldings", sess); err != nil {
		return nil, err
	}
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return append([]models.Holding(nil), f.Holdings...), nil
}

func (f *Fake) GetTransactions(ctx context.Context, sess *session.Session) ([]models.Transaction, error) {
	if err := f.enter("GetTransactions", sess); err != nil {
		return nil, err
	}
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return append([]models.Transaction(nil), f.Transactions...), nil
}

func (f *Fake) GetBalance(ctx context.Context, sess *session.Session) (decimal.Decimal, error) {
	if err := f.enter("GetBalance", sess); err != nil {
		return decimal.Zero, err
	}
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.Balance, nil
}

func (f *Fake) GetNetWorth(ctx context.Context, sess *session.Session) ([]models.NetWorthPoint, error) {
	if err := f.enter("GetNetWorth", sess); err != nil {
		return nil, err
	}
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return append([]models.NetWorthPoint(nil), f.History...), nil
}

func (f *Fake) GetPortfolioSummary(ctx context.Context, sess *session.Session) (*schemas.PortfolioSummaryResponse, error) {
	if err := f.enter("GetPortfolioSummary", sess); err != nil {
		return nil, err
	}
	f.mutex.Lock()
	defer f.mutex.Unlock()
	resp := &schemas.PortfolioSummaryResponse{}
	for _, p := range f.History {
		resp.History = append(resp.History, schemas.NetWorthPointResponse{
			Date:  schemas.Date{Time: p.Date},
			Value: decimal.NewNullDecimal(p.Value),
		})
	}
	return resp, nil
}

func (f *Fake) Buy(ctx context.Context, sess *session.Session, assetID int, quantity decimal.Decimal) (*schemas.OrderResponse, error) {
	if err := f.enter("Buy", sess); err != nil {
		return nil, err
	}
	f.mutex.Lock()
	defer f.mutex.Unlock()

	var asset *models.Asset
	for i := range f.Assets {
		if f.Assets[i].ID == assetID {
			asset = &f.Assets[i]
		}
	}
	if asset == nil {
		return nil, utils.NotFound("Asset not found")
	}
	cost := utils.RoundMoney(asset.Price.Mul(quantity))
	if cost.GreaterThan(f.Balance) {
		return nil, utils.BadRequest("Insufficient funds")
	}
	f.Balance = f.Balance.Sub(cost)

	now := time.Now()
	holding := models.Holding{
		ID:            len(f.Holdings) + 1,
		AssetID:       asset.ID,
		Name:          asset.Name,
		AssetType:     asset.Type,
		Quantity:      quantity,
		PurchasePrice: asset.Price,
		PurchaseDate:  now,
	}
	f.Holdings = append(f.Holdings, holding)
	f.Transactions = append(f.Transactions, models.Transaction{
		ID:          len(f.Transactions) + 1,
		Type:        models.TransactionInvestment,
		HoldingID:   holding.ID,
		Amount:      cost,
		Date:        now,
		Description: fmt.Sprintf("Purchased %s units of %s", quantity.String(), asset.Name),
		CreatedAt:   now,
	})
	return &schemas.OrderResponse{Message: "Holding purchased successfully"}, nil
}

func (f *Fake) Sell(ctx context.Context, sess *session.Session, holdingID int, quantity decimal.Decimal) (*schemas.OrderResponse, error) {
	if err := f.enter("Sell", sess); err != nil {
		return nil, err
	}
	f.mutex.Lock()
	defer f.mutex.Unlock()

	for i := range f.Holdings {
		h := &f.Holdings[i]
		if h.ID != holdingID {
			continue
		}
		if quantity.GreaterThan(h.Quantity) {
			return nil, utils.BadRequest("Not enough units")
		}
		price := h.PurchasePrice
		for _, a := range f.Assets {
			if a.ID == h.AssetID {
				price = a.Price
			}
		}
		proceeds := utils.RoundMoney(price.Mul(quantity))
		h.Quantity = h.Quantity.Sub(quantity)
		f.Balance = f.Balance.Add(proceeds)
		now := time.Now()
		f.Transactions = append(f.Transactions, models.Transaction{
			ID:          len(f.Transactions) + 1,
			Type:        models.TransactionWithdrawal,
			HoldingID:   h.ID,
			Amount:      proceeds,
			Date:        now,
			Description: fmt.Sprintf("Sold %s units of %s", quantity.String(), h.Name),
			CreatedAt:   now,
		})
		return &schemas.OrderResponse{Message: "Holding sold successfully"}, nil
	}
	return nil, utils.NotFound("Holding not found")
}

// Package balance reads the user's available cash from the backend and remembers the last
// value confirmed after an order.
package balance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"portfolio/src/models"
	"portfolio/src/session"

	"github.com/shopspring/decimal"
)

type BalanceReader interface {
	GetBalance(ctx context.Context, sess *session.Session) (decimal.Decimal, error)
}

type GatewayI interface {
	GetBalance(ctx context.Context, sess *session.Session) (models.AccountBalance, error)
	RefreshAfterOrder(ctx context.Context, sess *session.Session) (models.AccountBalance, error)
	LastConfirmed(sess *session.Session) (models.AccountBalance, bool)
}

type Gateway struct {
	reader BalanceReader
	now    func() time.Time

	mutex     sync.RWMutex
	confirmed map[string]models.AccountBalance
}

func NewGateway(reader BalanceReader) *Gateway {
	return &Gateway{
		reader:    reader,
		now:       time.Now,
		confirmed: make(map[string]models.AccountBalance),
	}
}

// GetBalance reads the current balance. Nothing is cached: order validation must always
// see the value the backend holds right now.
func (g *Gateway) GetBalance(ctx context.Context, sess *session.Session) (models.AccountBalance, error) {
	amount, err := g.reader.GetBalance(ctx, sess)
	if err != nil {
		return models.AccountBalance{}, fmt.Errorf("failed to read balance: %w", err)
	}
	return models.AccountBalance{Amount: amount, FetchedAt: g.now()}, nil
}

// RefreshAfterOrder re-reads the balance once an order went through and records it as the
// last confirmed value for the session.
func (g *Gateway) RefreshAfterOrder(ctx context.Context, sess *session.Session) (models.AccountBalance, error) {
	b, err := g.GetBalance(ctx, sess)
	if err != nil {
		return models.AccountBalance{}, err
	}
	g.mutex.Lock()
	g.confirmed[sess.Token] = b
	g.mutex.Unlock()
	return b, nil
}

func (g *Gateway) LastConfirmed(sess *session.Session) (models.AccountBalance, bool) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	b, ok := g.confirmed[sess.Token]
	return b, ok
}

// Forget drops what was recorded for a session token. It is registered as a session close
// hook.
func (g *Gateway) Forget(token string) {
	g.mutex.Lock()
	delete(g.confirmed, token)
	g.mutex.Unlock()
}

package controllers

import (
	"context"

	"portfolio/src/schemas"
	"portfolio/src/session"
)

type SessionControllerI interface {
	Login(ctx context.Context, username, password string) (*schemas.LoginResponse, error)
	Logout(ctx context.Context, token string) error
	Resolve(token string) (*session.Session, error)
}

type SessionController struct {
	Dependencies
}

func NewSessionController(deps Dependencies) *SessionController {
	return &SessionController{Dependencies: deps}
}

// Login authenticates against the backend and opens a session for the returned token.
func (c *SessionController) Login(ctx context.Context, username, password string) (*schemas.LoginResponse, error) {
	resp, err := c.Backend.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if _, err := c.Sessions.Open(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Logout closes the session. Everything held for it (open order, confirmed balance) is
// dropped by the registry's close hooks.
func (c *SessionController) Logout(_ context.Context, token string) error {
	return c.Sessions.Close(token)
}

func (c *SessionController) Resolve(token string) (*session.Session, error) {
	return c.Sessions.Get(token)
}

package workflow

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"portfolio/src/session"
	"portfolio/src/utils"
)

// PINVerifier checks the security PIN entered before an order is sent. The PIN is never
// part of the order payload.
type PINVerifier interface {
	Verify(ctx context.Context, sess *session.Session, pin string) (bool, error)
}

// LocalVerifier compares against a PIN held by this service. It is a confirmation step for
// the user, not an authorization boundary: the backend still authorizes every order.
type LocalVerifier struct {
	pin []byte
}

func NewLocalVerifier(pin string) *LocalVerifier {
	return &LocalVerifier{pin: []byte(strings.TrimSpace(pin))}
}

func (v *LocalVerifier) Verify(_ context.Context, _ *session.Session, pin string) (bool, error) {
	return subtle.ConstantTimeCompare([]byte(pin), v.pin) == 1, nil
}

type RemotePINChecker interface {
	VerifyPIN(ctx context.Context, sess *session.Session, pin string) (bool, error)
}

// RemoteVerifier asks the backend to check the PIN of the session's user. A rejection
// status from the backend counts as a mismatch, not as a failure.
type RemoteVerifier struct {
	client RemotePINChecker
}

func NewRemoteVerifier(client RemotePINChecker) *RemoteVerifier {
	return &RemoteVerifier{client: client}
}

func (v *RemoteVerifier) Verify(ctx context.Context, sess *session.Session, pin string) (bool, error) {
	ok, err := v.client.VerifyPIN(ctx, sess, pin)
	var httpErr *utils.HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.Code {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusUnprocessableEntity:
			return false, nil
		}
	}
	return ok, err
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"portfolio/src/api/controllers"
	"portfolio/src/services/workflow"
	"portfolio/src/session"
	"portfolio/src/utils"

	"github.com/go-chi/jwtauth"
	"github.com/sirupsen/logrus"
)

type contextKey string

const sessionKey = contextKey("session")

type Handler struct {
	SessionController   controllers.SessionControllerI
	PortfolioController controllers.PortfolioControllerI
	OrdersController    controllers.OrdersControllerI
	Logger              *logrus.Logger
}

func NewHandler(deps controllers.Dependencies, logger *logrus.Logger) *Handler {
	return &Handler{
		SessionController:   controllers.NewSessionController(deps),
		PortfolioController: controllers.NewPortfolioController(deps),
		OrdersController:    controllers.NewOrdersController(deps),
		Logger:              logger,
	}
}

func Healthcheck(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("Im alive!"))
}

// RequireSession resolves the bearer token to an open session and stores it, together with
// a request scoped logger, in the request context.
func (h *Handler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := jwtauth.TokenFromHeader(r)
		if token == "" {
			h.HandleErrors(w, utils.Unauthorized("empty token detected"))
			return
		}
		sess, err := h.SessionController.Resolve(token)
		if err != nil {
			h.HandleErrors(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey, sess)
		ctx = utils.WithLogger(ctx, h.Logger)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(r *http.Request) *session.Session {
	sess, _ := r.Context().Value(sessionKey).(*session.Session)
	return sess
}

func (h *Handler) respond(w http.ResponseWriter, _ *http.Request, data interface{}, status int) {
	res, err := json.Marshal(data)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write(res)
}

func statusFor(err error) int {
	var (
		httpErr    *utils.HTTPError
		validation *workflow.ValidationError
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &validation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, workflow.ErrOrderOpen),
		errors.Is(err, workflow.ErrNoOrder),
		errors.Is(err, workflow.ErrInvalidStage),
		errors.Is(err, workflow.ErrSubmissionInProgress),
		errors.Is(err, workflow.ErrOrderChanged):
		return http.StatusConflict
	case errors.Is(err, session.ErrUnknownSession):
		return http.StatusUnauthorized
	case errors.Is(err, utils.ErrUnexpectedShape):
		return http.StatusBadGateway
	case errors.As(err, &httpErr):
		return httpErr.Code
	}
	return http.StatusInternalServerError
}

func errorMessage(err error) string {
	var httpErr *utils.HTTPError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "Request timed out"
	case errors.As(err, &httpErr):
		return httpErr.Message
	}
	return err.Error()
}

func (h *Handler) HandleErrors(w http.ResponseWriter, err error) {
	if err == nil {
		h.respond(w, nil, map[string]string{"error": "Unhandled error"}, http.StatusInternalServerError)
		return
	}
	status := statusFor(err)
	if status >= http.StatusInternalServerError && h.Logger != nil {
		h.Logger.WithError(err).Error("request failed")
	}
	h.respond(w, nil, map[string]string{"error": errorMessage(err)}, status)
}

type orderError struct {
	Error string        `json:"error"`
	Order workflow.View `json:"order"`
}

// respondOrder answers with the workflow view. Refused operations still carry the view so
// the client can render the stage it is actually in.
func (h *Handler) respondOrder(w http.ResponseWriter, r *http.Request, view workflow.View, err error) {
	if err == nil {
		h.respond(w, r, view, http.StatusOK)
		return
	}
	status := statusFor(err)
	if status != http.StatusUnprocessableEntity && status != http.StatusConflict {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, orderError{Error: errorMessage(err), Order: view}, status)
}

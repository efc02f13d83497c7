package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"portfolio/src/schemas"
	"portfolio/src/utils"
)

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	h.respondOrder(w, r, h.OrdersController.Current(sessionFrom(r)), nil)
}

func (h *Handler) OpenOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req schemas.OpenOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleErrors(w, utils.BadRequest("invalid request body"))
		return
	}

	view, err := h.OrdersController.Open(ctx, sessionFrom(r), req)
	h.respondOrder(w, r, view, err)
}

func (h *Handler) UpdateOrderQuantity(w http.ResponseWriter, r *http.Request) {
	var req schemas.QuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleErrors(w, utils.BadRequest("invalid request body"))
		return
	}

	view, err := h.OrdersController.UpdateQuantity(sessionFrom(r), req)
	h.respondOrder(w, r, view, err)
}

func (h *Handler) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	view, err := h.OrdersController.Confirm(ctx, sessionFrom(r))
	h.respondOrder(w, r, view, err)
}

// SubmitOrderPIN blocks until the order reaches its result. The order call itself is not
// bound to the request: a client that goes away still leaves the workflow in a result.
func (h *Handler) SubmitOrderPIN(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var req schemas.PINRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleErrors(w, utils.BadRequest("invalid request body"))
		return
	}

	view, err := h.OrdersController.SubmitPIN(ctx, sessionFrom(r), req.PIN)
	h.respondOrder(w, r, view, err)
}

func (h *Handler) RetryOrder(w http.ResponseWriter, r *http.Request) {
	view, err := h.OrdersController.Retry(sessionFrom(r))
	h.respondOrder(w, r, view, err)
}

func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	view, err := h.OrdersController.Cancel(sessionFrom(r))
	h.respondOrder(w, r, view, err)
}

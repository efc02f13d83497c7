package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"portfolio/src/schemas"
	"portfolio/src/utils"

	"github.com/go-chi/jwtauth"
)

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	ctx = utils.WithLogger(ctx, h.Logger)

	var req schemas.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleErrors(w, utils.BadRequest("invalid request body"))
		return
	}
	if req.Username == "" || req.Password == "" {
		h.HandleErrors(w, utils.BadRequest("username and password are required"))
		return
	}

	resp, err := h.SessionController.Login(ctx, req.Username, req.Password)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, resp, http.StatusOK)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	token := jwtauth.TokenFromHeader(r)
	if token == "" {
		h.HandleErrors(w, utils.Unauthorized("empty token detected"))
		return
	}
	if err := h.SessionController.Logout(ctx, token); err != nil {
		h.HandleErrors(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

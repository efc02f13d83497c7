package handlers

import (
	"context"
	"net/http"
	"time"

	"portfolio/src/api/controllers"
	"portfolio/src/services/query"
	"portfolio/src/utils"
)

// listParams reads the list query. sort and direction carry the current sort state; a
// toggle key applies a header click on top of it, so selecting the sorted key again flips
// the direction and any other key starts ascending.
func listParams(r *http.Request) controllers.ListParams {
	q := r.URL.Query()
	sort := query.SortState{
		Key:       q.Get("sort"),
		Direction: query.ParseDirection(q.Get("direction")),
	}
	if key := q.Get("toggle"); key != "" {
		sort = sort.Toggle(key)
	}
	return controllers.ListParams{
		Search: q.Get("search"),
		Type:   q.Get("type"),
		Range:  q.Get("range"),
		Sort:   sort,
	}
}

// writeSort echoes the applied sort state so the client can send it back with the next toggle.
func writeSort(w http.ResponseWriter, params controllers.ListParams) {
	if params.Sort.Key == "" {
		return
	}
	w.Header().Set("X-Sort-Key", params.Sort.Key)
	w.Header().Set("X-Sort-Direction", string(params.Sort.Direction))
}

func (h *Handler) GetAssets(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	params := listParams(r)
	assets, err := h.PortfolioController.ListAssets(ctx, sessionFrom(r), params)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	writeSort(w, params)
	h.respond(w, r, assets, http.StatusOK)
}

func (h *Handler) GetHoldings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	params := listParams(r)
	holdings, err := h.PortfolioController.ListHoldings(ctx, sessionFrom(r), params)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	writeSort(w, params)
	h.respond(w, r, holdings, http.StatusOK)
}

func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	params := listParams(r)
	list, err := h.PortfolioController.ListTransactions(ctx, sessionFrom(r), params)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	writeSort(w, params)
	h.respond(w, r, list, http.StatusOK)
}

func (h *Handler) ExportTransactions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	xlsxFile, err := h.PortfolioController.ExportXLSX(ctx, sessionFrom(r), listParams(r))
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	defer xlsxFile.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=portfolio.xlsx")

	if err := xlsxFile.Write(w); err != nil {
		h.Logger.WithError(err).Error("failed to write xlsx export")
	}
}

func (h *Handler) GetPortfolioSummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	timeframe := r.URL.Query().Get("timeframe")
	if timeframe == "" {
		timeframe = utils.TimeframeAll
	}

	summary, err := h.PortfolioController.GetSummary(ctx, sessionFrom(r), timeframe)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, summary, http.StatusOK)
}

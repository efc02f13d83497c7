package api

import (
	"net/http"
	"time"

	"portfolio/src/api/handlers"

	"github.com/go-chi/chi/v5"
)

type Server struct {
	Router  *chi.Mux
	Handler *handlers.Handler
}

func NewServer(handler *handlers.Handler) *Server {
	server := &Server{
		Router:  chi.NewRouter(),
		Handler: handler,
	}
	server.InitRoutes()
	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) InitRoutes() {
	s.Router.Get("/alive", handlers.Healthcheck)

	s.Router.Route("/api/session", func(r chi.Router) {
		r.Post("/login", s.Handler.Login)
		r.Post("/logout", s.Handler.Logout)
	})

	s.Router.Group(func(r chi.Router) {
		r.Use(s.Handler.RequireSession)

		r.Get("/api/assets", s.Handler.GetAssets)
		r.Get("/api/holdings", s.Handler.GetHoldings)
		r.Get("/api/transactions", s.Handler.GetTransactions)
		r.Get("/api/transactions/export", s.Handler.ExportTransactions)
		r.Get("/api/portfolio/summary", s.Handler.GetPortfolioSummary)

		r.Route("/api/orders", func(r chi.Router) {
			r.Get("/", s.Handler.GetOrder)
			r.Post("/", s.Handler.OpenOrder)
			r.Delete("/", s.Handler.CancelOrder)
			r.Put("/quantity", s.Handler.UpdateOrderQuantity)
			r.Post("/confirm", s.Handler.ConfirmOrder)
			r.Post("/pin", s.Handler.SubmitOrderPIN)
			r.Post("/retry", s.Handler.RetryOrder)
		})
	})
}

func NewHTTPServer(server *Server, port string) *http.Server {
	httpServer := &http.Server{
		Addr:         ":" + port,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Handler:      server,
	}
	return httpServer
}

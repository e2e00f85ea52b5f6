package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/tally/internal/http/auth"
	"github.com/MrJamesThe3rd/tally/internal/http/classification"
	"github.com/MrJamesThe3rd/tally/internal/http/importcsv"
	"github.com/MrJamesThe3rd/tally/internal/http/obligation"
	"github.com/MrJamesThe3rd/tally/internal/http/reconcile"
	"github.com/MrJamesThe3rd/tally/internal/http/recurrence"
	"github.com/MrJamesThe3rd/tally/internal/http/transaction"
)

type Handlers struct {
	Transactions   *transaction.Handler
	Import         *importcsv.Handler
	Classification *classification.Handler
	Obligations    *obligation.Handler
	Reconcile      *reconcile.Handler
	Recurrence     *recurrence.Handler
}

type Options struct {
	AllowedOrigins []string
	// JWTSecret enables bearer token checks on the API routes when set.
	JWTSecret []byte
}

func New(h Handlers, opts Options) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		if len(opts.JWTSecret) > 0 {
			r.Use(auth.Middleware(opts.JWTSecret))
		}

		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Transactions.Routes(r)
		})

		r.Route("/import", h.Import.Routes)

		r.Route("/classification", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Classification.Routes(r)
		})

		r.Route("/obligations", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Obligations.Routes(r)
		})

		r.Route("/reconcile", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Reconcile.Routes(r)
		})

		r.Route("/recurrence/patterns", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Recurrence.Routes(r)
		})
	})

	return router
}

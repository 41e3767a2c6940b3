package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/finboard/internal/http/bulk"
	"github.com/MrJamesThe3rd/finboard/internal/http/export"
	"github.com/MrJamesThe3rd/finboard/internal/http/importcsv"
	"github.com/MrJamesThe3rd/finboard/internal/http/matching"
	"github.com/MrJamesThe3rd/finboard/internal/http/session"
	"github.com/MrJamesThe3rd/finboard/internal/http/transaction"
)

type Handlers struct {
	Sessions     *session.Handler
	Transactions *transaction.Handler
	Bulk         *bulk.Handler
	Export       *export.Handler
	Import       *importcsv.Handler
	Rules        *matching.Handler
}

func New(allowedOrigins []string, h Handlers) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/sessions", func(r chi.Router) {
			h.Sessions.Routes(r)

			r.Route("/{sessionID}", func(r chi.Router) {
				r.Use(h.Sessions.Load)
				h.Sessions.SessionRoutes(r)

				r.Group(func(r chi.Router) {
					r.Use(middleware.AllowContentType("application/json"))
					h.Transactions.Routes(r)
				})

				r.Route("/bulk", func(r chi.Router) {
					r.Use(middleware.AllowContentType("application/json"))
					h.Bulk.Routes(r)
				})

				r.Route("/export", func(r chi.Router) {
					r.Use(middleware.AllowContentType("application/json"))
					h.Export.Routes(r)
				})
			})
		})

		r.Route("/import", h.Import.Routes)

		r.Route("/rules", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Rules.Routes(r)
		})
	})

	return router
}

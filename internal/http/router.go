package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/bankrec/bankrec/internal/auth"
	exportHandler "github.com/bankrec/bankrec/internal/http/export"
	fieldHandler "github.com/bankrec/bankrec/internal/http/field"
	importHandler "github.com/bankrec/bankrec/internal/http/importfile"
	txHandler "github.com/bankrec/bankrec/internal/http/transaction"
	userHandler "github.com/bankrec/bankrec/internal/http/user"
)

type Options struct {
	JWTSecret      []byte
	Users          auth.UserStore
	AllowedOrigins []string
}

func New(
	opts Options,
	transactionsV1 *txHandler.Handler,
	fieldsV1 *fieldHandler.Handler,
	importV1 *importHandler.Handler,
	exportV1 *exportHandler.Handler,
	usersV1 *userHandler.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(opts.JWTSecret, opts.Users))

		usersV1.Routes(r)

		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			transactionsV1.Routes(r)
		})

		r.Route("/field-settings", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			fieldsV1.Routes(r)
		})

		r.Get("/field-config", fieldsV1.Config)

		r.Route("/import", importV1.Routes)

		r.Route("/export", exportV1.Routes)
	})

	return router
}

// Package router assembles the chi HTTP router: public auth endpoints,
// token-guarded item endpoints, and a liveness probe, with logging, CORS
// and gzip middleware applied to everything.
package router

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/dkolesni/itemstash/internal/gzippedhttp"
	"github.com/dkolesni/itemstash/internal/item"
	"github.com/dkolesni/itemstash/internal/logger"
	"github.com/dkolesni/itemstash/internal/models"
)

type authServicer interface {
	Register(ctx context.Context, email, password string) error
	Login(ctx context.Context, email, password string) (string, error)
}

type itemServicer interface {
	Create(ctx context.Context, ownerID, name string, price float64) (*item.Item, error)
	List(ctx context.Context, ownerID string) ([]item.Item, error)
	Update(ctx context.Context, ownerID, itemID string, patch models.ItemPatch) (*item.Item, error)
	Delete(ctx context.Context, ownerID, itemID string) error
}

type guard interface {
	Authenticate(h http.Handler) http.Handler
}

type pinger interface {
	Ping(ctx context.Context) error
}

// New builds the application router over the given services, authentication
// middleware, and storage health probe.
func New(
	authService authServicer,
	itemService itemServicer,
	authGuard guard,
	db pinger,
) *chi.Mux {
	h := newHandlers(authService, itemService, db)

	router := chi.NewRouter()
	router.Use(logger.WithLoggingHTTPMiddleware)
	router.Use(cors.Handler(cors.Options{
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(gzippedhttp.UngzipRequest)
	router.Use(gzippedhttp.GzipResponse)

	router.Get(`/health`, h.getHealth)

	router.Route(`/api/auth`, func(router chi.Router) {
		router.Post(`/register`, h.postRegister)
		router.Post(`/login`, h.postLogin)
	})

	router.Route(`/api/items`, func(router chi.Router) {
		router.Use(authGuard.Authenticate)
		router.Post(`/`, h.postItem)
		router.Get(`/`, h.getItems)
		router.Put(`/{id}`, h.putItem)
		router.Delete(`/{id}`, h.deleteItem)
	})

	return router
}

package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fashionchips/storefront/internal/handler"
	"github.com/fashionchips/storefront/internal/session"
)

func NewRouter(svc handler.Service, sessions *session.Store) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	h := handler.NewStorefrontHandler(svc, sessions)
	r.Route("/api", func(api chi.Router) {
		h.RegisterRoutes(api)
	})

	return r
}

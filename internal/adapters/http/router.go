package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func NewRouter(handler *Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { writeMessage(w, http.StatusOK, "ok") })
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) { writeMessage(w, http.StatusOK, "ready") })

	r.Route("/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", handler.listProducts)
			r.Get("/{id}", handler.getProduct)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", handler.getCart)
			r.Delete("/", handler.clearCart)
			r.Post("/items", handler.addItem)
			r.Put("/items/{product_id}", handler.updateItem)
			r.Delete("/items/{product_id}", handler.removeItem)
		})

		r.Route("/session", func(r chi.Router) {
			r.Post("/sign-in", handler.signIn)
			r.Post("/sign-out", handler.signOut)
		})
	})
	return r
}

package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrijs2005/mydrive/internal/common"
)

// Routes builds the API router. Any origin may call it.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(Logger(h.logger))
	r.Use(Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", common.RequestIDHeaderName},
		ExposedHeaders: []string{"Content-Disposition", "Content-Length", common.RequestIDHeaderName},
	}))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/add", h.Register)
			r.Post("/login", h.Login)
			r.Get("/file/favourites/{username}", h.listFiles(h.store.Favourites))
			r.Put("/file/favourite/{id}/{value}", h.SetFavourite)
		})

		r.Route("/file", func(r chi.Router) {
			r.Get("/viewall/{username}", h.listFiles(h.store.Files))
			r.Post("/upload/{ownerID}", h.Upload)
			r.Get("/download/{id}", h.Download)
			r.Delete("/delete/{id}", h.Delete)
		})

		r.Route("/groups", func(r chi.Router) {
			r.Get("/user/{username}", h.Groups)
			r.Get("/shared-files/{username}", h.listFiles(h.store.SharedFiles))
			r.Post("/create", h.CreateGroup)
			r.Post("/join/{id}", h.JoinGroup)
			r.Post("/leave/{id}", h.LeaveGroup)
			r.Get("/messages/{id}", h.Messages)
			r.Post("/message/{id}", h.SendMessage)
		})
	})

	return r
}

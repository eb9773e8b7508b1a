package main

import (
	"log/slog"
	"net/http"

	"github.com/backoffice-labs/catalog/internal/config"
	"github.com/backoffice-labs/catalog/internal/products"
	"github.com/backoffice-labs/catalog/internal/storage"
	"github.com/backoffice-labs/catalog/internal/web"
	"github.com/backoffice-labs/catalog/pkg/middleware"
)

func routes(
	cfg *config.Config,
	logger *slog.Logger,
	views *web.Renderer,
	productHandler *products.Handler,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.Handle("GET "+cfg.Storage.PublicPrefix+"/", storage.FileServer(&cfg.Storage))

	productHandler.Register(mux)

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/products", http.StatusSeeOther)
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		views.NotFound(w)
	})

	var handler http.Handler = mux
	handler = middleware.TrimSlash()(handler)
	handler = middleware.MethodOverride()(handler)
	handler = middleware.Logger(logger)(handler)

	return handler
}

package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/diydelight/customizer-api/internal/api"
	apiMiddleware "github.com/diydelight/customizer-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	itemHandler := api.NewItemHandler(app.itemStore, app.catalog, app.rules, app.logger)
	catalogHandler := api.NewCatalogHandler(app.catalog, app.rules, app.logger)

	// Register routes
	r.Get("/catalog", catalogHandler.GetCatalog)

	r.Route("/items", func(r chi.Router) {
		r.Get("/", itemHandler.ListItems)
		r.Post("/", itemHandler.CreateItem)
		r.Post("/quote", catalogHandler.QuoteItem)
		r.Get("/{id}", itemHandler.GetItem)
		r.Put("/{id}", itemHandler.UpdateItem)
		r.Delete("/{id}", itemHandler.DeleteItem)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}

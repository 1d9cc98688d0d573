package api

import (
	"log/slog"
	"net/http"

	"github.com/diydelight/customizer-api/internal/api/shared"
	"github.com/diydelight/customizer-api/internal/domain"
)

// CatalogResponse represents the response data for the feature catalog:
// everything a client needs to render the picker and compute a preview.
type CatalogResponse struct {
	BasePrice       int64                         `json:"base_price"`
	Slots           []domain.FeatureSlot          `json:"slots"`
	ForbiddenCombos []domain.ForbiddenCombination `json:"forbidden_combinations"`
}

// QuoteResponse represents a non-persisting price and compatibility
// preview for a draft.
type QuoteResponse struct {
	Price   int64  `json:"price"`
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// CatalogHandler serves the static catalog and live price quotes.
type CatalogHandler struct {
	catalog *domain.Catalog
	rules   domain.Ruleset
	logger  *slog.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalog *domain.Catalog, rules domain.Ruleset, logger *slog.Logger) *CatalogHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CatalogHandler")
	}

	return &CatalogHandler{
		catalog: catalog,
		rules:   rules,
		logger:  logger.With(slog.String("component", "catalog_handler")),
	}
}

// GetCatalog handles GET /catalog requests.
// The catalog is read-only after startup, so the response is the same for
// every request.
func (h *CatalogHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, CatalogResponse{
		BasePrice:       h.catalog.BasePrice,
		Slots:           h.catalog.Slots,
		ForbiddenCombos: h.rules,
	})
}

// QuoteItem handles POST /items/quote requests.
// It prices a draft and reports whether the combination would be accepted,
// without persisting anything. This backs the live preview: the price is
// recomputed on every selection change, and partial selections are priced
// with the missing slots contributing zero.
func (h *CatalogHandler) QuoteItem(w http.ResponseWriter, r *http.Request) {
	var req ItemDraftRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	resp := QuoteResponse{
		Price: domain.ComputePrice(h.catalog, req.Selections),
		Valid: true,
	}
	if v := h.rules.Check(req.ItemType, req.Selections); v != nil {
		resp.Valid = false
		resp.Message = v.Message
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/diydelight/customizer-api/internal/api/shared"
	"github.com/diydelight/customizer-api/internal/domain"
	"github.com/diydelight/customizer-api/internal/platform/logger"
	"github.com/diydelight/customizer-api/internal/store"
)

// ItemDraftRequest represents the request body for creating or updating a
// custom item. The price is never part of the request: it is derived
// server-side from the catalog regardless of what a client sends.
type ItemDraftRequest struct {
	ItemName   string            `json:"item_name"  validate:"required,min=1"`
	ItemType   string            `json:"item_type"  validate:"required,min=1"`
	Selections map[string]string `json:"selections" validate:"required"`
	UserNotes  string            `json:"user_notes"`
}

// ItemResponse represents the response data for a custom item.
type ItemResponse struct {
	ID         int64             `json:"id"`
	ItemName   string            `json:"item_name"`
	ItemType   string            `json:"item_type"`
	Selections map[string]string `json:"selections"`
	UserNotes  string            `json:"user_notes,omitempty"`
	Price      int64             `json:"price"`
	CreatedAt  time.Time         `json:"created_at"`
}

// DeleteItemResponse represents the response for a successful deletion,
// carrying the removed snapshot.
type DeleteItemResponse struct {
	Message     string       `json:"message"`
	DeletedItem ItemResponse `json:"deletedItem"`
}

// ItemHandler handles custom-item HTTP requests. It runs the
// compatibility check at the boundary before any write is attempted; the
// store independently re-checks the same registry before commit.
type ItemHandler struct {
	itemStore store.ItemStore
	catalog   *domain.Catalog
	rules     domain.Ruleset
	logger    *slog.Logger
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(
	itemStore store.ItemStore,
	catalog *domain.Catalog,
	rules domain.Ruleset,
	logger *slog.Logger,
) *ItemHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ItemHandler")
	}

	return &ItemHandler{
		itemStore: itemStore,
		catalog:   catalog,
		rules:     rules,
		logger:    logger.With(slog.String("component", "item_handler")),
	}
}

// ListItems handles GET /items requests.
// It returns all saved items in ascending id order; an empty list is a
// valid response, not an error.
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.itemStore.List(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to list custom items", err)
		return
	}

	responses := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, itemToResponse(item))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// GetItem handles GET /items/{id} requests.
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	item, err := h.itemStore.GetByID(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("retrieved custom item", slog.Int64("item_id", id))
	shared.RespondWithJSON(w, r, http.StatusOK, itemToResponse(item))
}

// CreateItem handles POST /items requests.
// The draft is validated and checked against the forbidden-combination
// registry here before the store is asked to persist it.
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	draft, ok := h.decodeDraft(w, r)
	if !ok {
		return
	}

	item, err := h.itemStore.Create(r.Context(), draft)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("created custom item",
		slog.Int64("item_id", item.ID),
		slog.Int64("price", item.Price))
	shared.RespondWithJSON(w, r, http.StatusCreated, itemToResponse(item))
}

// UpdateItem handles PUT /items/{id} requests.
// The update is a full replace of the mutable fields; id and creation
// timestamp are preserved by the store.
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	draft, ok := h.decodeDraft(w, r)
	if !ok {
		return
	}

	item, err := h.itemStore.Update(r.Context(), id, draft)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("updated custom item",
		slog.Int64("item_id", item.ID),
		slog.Int64("price", item.Price))
	shared.RespondWithJSON(w, r, http.StatusOK, itemToResponse(item))
}

// DeleteItem handles DELETE /items/{id} requests.
// A successful deletion returns the removed snapshot.
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	item, err := h.itemStore.Delete(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("deleted custom item", slog.Int64("item_id", id))
	shared.RespondWithJSON(w, r, http.StatusOK, DeleteItemResponse{
		Message:     "Custom item deleted successfully",
		DeletedItem: itemToResponse(item),
	})
}

// itemID extracts and parses the {id} path parameter, writing a 400
// response and returning ok=false on failure.
func (h *ItemHandler) itemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	raw := chi.URLParam(r, "id")
	if raw == "" {
		log.Warn("item ID not found in URL path")
		shared.RespondWithError(w, r, http.StatusBadRequest, "Item ID is required")
		return 0, false
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		log.Warn("invalid item ID format", slog.String("item_id", raw))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid item ID format")
		return 0, false
	}

	return id, true
}

// decodeDraft parses and validates the draft body shared by create and
// update, including the boundary-level compatibility check. Writes an
// error response and returns ok=false on any rejection.
func (h *ItemHandler) decodeDraft(w http.ResponseWriter, r *http.Request) (*domain.ItemDraft, bool) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req ItemDraftRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return nil, false
	}

	if err := shared.Validate.Struct(req); err != nil {
		log.Warn("validation error", slog.String("error", err.Error()))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Validation error", err)
		return nil, false
	}

	draft := &domain.ItemDraft{
		ItemName:   req.ItemName,
		ItemType:   req.ItemType,
		Selections: req.Selections,
		UserNotes:  req.UserNotes,
	}

	if err := draft.Validate(h.catalog); err != nil {
		log.Warn("draft validation failed", slog.String("error", err.Error()))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, err.Error(), err)
		return nil, false
	}

	// Boundary enforcement of the forbidden-combination registry. The
	// store runs the identical check again before commit, so the two can
	// never diverge on the same registry.
	if v := h.rules.Check(draft.ItemType, draft.Selections); v != nil {
		log.Warn("forbidden combination rejected at boundary",
			slog.String("item_type", draft.ItemType),
			slog.String("message", v.Message))
		shared.RespondWithError(w, r, http.StatusBadRequest, v.Message)
		return nil, false
	}

	return draft, true
}

// itemToResponse converts a domain.CustomItem to an ItemResponse.
func itemToResponse(item *domain.CustomItem) ItemResponse {
	return ItemResponse{
		ID:         item.ID,
		ItemName:   item.ItemName,
		ItemType:   item.ItemType,
		Selections: item.Selections,
		UserNotes:  item.UserNotes,
		Price:      item.Price,
		CreatedAt:  item.CreatedAt,
	}
}

package store

import (
	"context"

	"github.com/diydelight/customizer-api/internal/domain"
)

// ItemStore defines persistence for custom items. Implementations own the
// canonical copy of every record: they validate drafts against the
// catalog, recompute the price server-side (any caller-supplied price is
// ignored), and re-check the forbidden-combination registry immediately
// before commit, regardless of checks the caller already ran.
//
// Every operation may block on storage I/O; callers must treat them as
// potentially suspending and must not hold locks across them. There is
// no optimistic concurrency: concurrent writes to the same id are
// last-write-wins.
type ItemStore interface {
	// Create validates the draft, derives the price, assigns a new id and
	// creation timestamp, persists the item, and returns the stored record.
	// Returns ErrInvalidEntity (wrapped) on field validation failures and
	// ErrForbiddenCombination (wrapped, carrying the rule message) when the
	// draft matches a forbidden combination.
	Create(ctx context.Context, draft *domain.ItemDraft) (*domain.CustomItem, error)

	// GetByID retrieves an item by its id.
	// Returns ErrItemNotFound if no such item exists.
	GetByID(ctx context.Context, id int64) (*domain.CustomItem, error)

	// List returns all items in ascending id order. An empty result is a
	// valid outcome, returned as an empty slice rather than nil.
	List(ctx context.Context) ([]*domain.CustomItem, error)

	// Update replaces all mutable fields of the item with the draft
	// (full replace, not merge), recomputing the price and re-checking the
	// forbidden-combination registry. Id and creation timestamp are
	// preserved. Returns ErrItemNotFound if the id is absent, and the same
	// validation/conflict errors as Create otherwise.
	Update(ctx context.Context, id int64, draft *domain.ItemDraft) (*domain.CustomItem, error)

	// Delete removes the item and returns the deleted snapshot.
	// Returns ErrItemNotFound if the id is absent.
	Delete(ctx context.Context, id int64) (*domain.CustomItem, error)
}

package domain

import (
	"errors"
	"fmt"
	"time"
)

// Draft validation errors for CustomItem
var (
	// ErrItemNameEmpty is returned when a draft's item name is empty.
	ErrItemNameEmpty = errors.New("item name cannot be empty")

	// ErrItemTypeEmpty is returned when a draft's item type is empty.
	ErrItemTypeEmpty = errors.New("item type cannot be empty")

	// ErrSelectionMissing is returned when a draft lacks a selection for
	// a catalog slot.
	ErrSelectionMissing = errors.New("missing selection for slot")

	// ErrUnknownSlot is returned when a draft names a slot the catalog
	// does not define.
	ErrUnknownSlot = errors.New("unknown slot")

	// ErrUnknownOption is returned when a draft's selection names an
	// option that does not exist in its slot.
	ErrUnknownOption = errors.New("unknown option")
)

// CustomItem represents one saved customization: the user's per-slot
// feature selections together with the derived price. The store assigns
// ID and CreatedAt on creation; both are immutable thereafter. Price is
// derived from the catalog and is never accepted as caller input.
type CustomItem struct {
	ID         int64             `json:"id"`
	ItemName   string            `json:"item_name"`
	ItemType   string            `json:"item_type"`
	Selections map[string]string `json:"selections"`
	UserNotes  string            `json:"user_notes,omitempty"`
	Price      int64             `json:"price"`
	CreatedAt  time.Time         `json:"created_at"`
}

// ItemDraft is caller-supplied, not-yet-validated configuration data
// submitted for create or update. Updates are a full replace: omitted
// fields are treated as empty.
type ItemDraft struct {
	ItemName   string            `json:"item_name"`
	ItemType   string            `json:"item_type"`
	Selections map[string]string `json:"selections"`
	UserNotes  string            `json:"user_notes"`
}

// Validate checks the draft against the catalog: name and type must be
// non-empty, every catalog slot must have exactly one selection naming an
// existing option, and slot keys outside the catalog are rejected.
// Returns the first violation found, wrapped with field context.
func (d *ItemDraft) Validate(catalog *Catalog) error {
	if d.ItemName == "" {
		return ErrItemNameEmpty
	}
	if d.ItemType == "" {
		return ErrItemTypeEmpty
	}

	for i := range catalog.Slots {
		slot := &catalog.Slots[i]
		name, ok := d.Selections[slot.Name]
		if !ok || name == "" {
			return fmt.Errorf("%w: %s", ErrSelectionMissing, slot.Name)
		}
		if slot.Option(name) == nil {
			return fmt.Errorf("%w: %q is not an option for slot %s", ErrUnknownOption, name, slot.Name)
		}
	}

	for slotName := range d.Selections {
		if catalog.Slot(slotName) == nil {
			return fmt.Errorf("%w: %s", ErrUnknownSlot, slotName)
		}
	}

	return nil
}

// NewCustomItem builds a CustomItem from a validated draft, deriving the
// price from the catalog and stamping the creation time. The caller is
// expected to have run Validate first; the store assigns the ID when the
// item is persisted.
func NewCustomItem(catalog *Catalog, draft *ItemDraft) *CustomItem {
	return &CustomItem{
		ItemName:   draft.ItemName,
		ItemType:   draft.ItemType,
		Selections: draft.Selections,
		UserNotes:  draft.UserNotes,
		Price:      ComputePrice(catalog, draft.Selections),
		CreatedAt:  time.Now().UTC(),
	}
}

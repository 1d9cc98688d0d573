package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/diydelight/customizer-api/internal/domain"
	"github.com/diydelight/customizer-api/internal/store"
)

// MemoryItemStore implements store.ItemStore with a mutex-guarded map.
// It honors the full store contract: drafts are validated against the
// catalog, prices are derived server-side, and the forbidden-combination
// registry is re-checked before every write.
type MemoryItemStore struct {
	mu      sync.Mutex
	catalog *domain.Catalog
	rules   domain.Ruleset
	items   map[int64]*domain.CustomItem
	nextID  int64

	// ForcedErr, when set, is returned by every operation. Used to test
	// storage-failure paths.
	ForcedErr error
}

// NewMemoryItemStore creates an empty in-memory item store enforcing the
// given catalog and ruleset.
func NewMemoryItemStore(catalog *domain.Catalog, rules domain.Ruleset) *MemoryItemStore {
	return &MemoryItemStore{
		catalog: catalog,
		rules:   rules,
		items:   make(map[int64]*domain.CustomItem),
		nextID:  1,
	}
}

// Ensure MemoryItemStore implements store.ItemStore interface
var _ store.ItemStore = (*MemoryItemStore)(nil)

func (s *MemoryItemStore) checkDraft(draft *domain.ItemDraft) error {
	if err := draft.Validate(s.catalog); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	if v := s.rules.Check(draft.ItemType, draft.Selections); v != nil {
		return fmt.Errorf("%w: %s", store.ErrForbiddenCombination, v.Message)
	}
	return nil
}

// Create implements store.ItemStore.Create.
func (s *MemoryItemStore) Create(ctx context.Context, draft *domain.ItemDraft) (*domain.CustomItem, error) {
	if s.ForcedErr != nil {
		return nil, s.ForcedErr
	}

	if err := s.checkDraft(draft); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item := domain.NewCustomItem(s.catalog, draft)
	item.ID = s.nextID
	s.nextID++
	// Keep our own copy so later caller mutations of the draft's
	// selections map can't reach the stored record.
	s.items[item.ID] = copyItem(item)

	return copyItem(item), nil
}

// GetByID implements store.ItemStore.GetByID.
func (s *MemoryItemStore) GetByID(ctx context.Context, id int64) (*domain.CustomItem, error) {
	if s.ForcedErr != nil {
		return nil, s.ForcedErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return nil, store.ErrItemNotFound
	}
	return copyItem(item), nil
}

// List implements store.ItemStore.List.
func (s *MemoryItemStore) List(ctx context.Context) ([]*domain.CustomItem, error) {
	if s.ForcedErr != nil {
		return nil, s.ForcedErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]*domain.CustomItem, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, copyItem(item))
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

// Update implements store.ItemStore.Update.
func (s *MemoryItemStore) Update(ctx context.Context, id int64, draft *domain.ItemDraft) (*domain.CustomItem, error) {
	if s.ForcedErr != nil {
		return nil, s.ForcedErr
	}

	if err := s.checkDraft(draft); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.items[id]
	if !ok {
		return nil, store.ErrItemNotFound
	}

	item := domain.NewCustomItem(s.catalog, draft)
	item.ID = id
	item.CreatedAt = existing.CreatedAt
	s.items[id] = copyItem(item)

	return copyItem(item), nil
}

// Delete implements store.ItemStore.Delete.
func (s *MemoryItemStore) Delete(ctx context.Context, id int64) (*domain.CustomItem, error) {
	if s.ForcedErr != nil {
		return nil, s.ForcedErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return nil, store.ErrItemNotFound
	}
	delete(s.items, id)
	return copyItem(item), nil
}

// copyItem returns a deep copy so callers can't mutate the stored record.
func copyItem(item *domain.CustomItem) *domain.CustomItem {
	selections := make(map[string]string, len(item.Selections))
	for k, v := range item.Selections {
		selections[k] = v
	}
	cp := *item
	cp.Selections = selections
	return &cp
}

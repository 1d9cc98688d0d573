package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diydelight/customizer-api/internal/domain"
	"github.com/diydelight/customizer-api/internal/store"
)

func newTestStore() *MemoryItemStore {
	return NewMemoryItemStore(domain.DefaultCatalog(), domain.DefaultRuleset())
}

func carDraft(color, wheels string) *domain.ItemDraft {
	return &domain.ItemDraft{
		ItemName: "Test Car",
		ItemType: "Car",
		Selections: map[string]string{
			domain.SlotExteriorColor: color,
			domain.SlotWheelStyle:    wheels,
		},
	}
}

func TestMemoryItemStoreCreateRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore()

	created, err := s.Create(ctx, carDraft("Blue", "Sport"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, int64(23000), created.Price)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got, "get after create should return an equal record")

	items, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, created.ID, items[0].ID)
}

func TestMemoryItemStoreCreateRejectsForbiddenCombination(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore()

	_, err := s.Create(ctx, carDraft("Red", "Gold"))
	require.Error(t, err)
	assert.True(t, store.IsConflictError(err))

	items, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items, "a rejected draft must never reach storage")
}

func TestMemoryItemStoreCreateRejectsInvalidDraft(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore()

	draft := carDraft("Blue", "Sport")
	draft.ItemName = ""
	_, err := s.Create(ctx, draft)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)

	draft = carDraft("Blue", "Sport")
	delete(draft.Selections, domain.SlotWheelStyle)
	_, err = s.Create(ctx, draft)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}

// Walks the full scenario: a Black/Standard car is created at 20800,
// updating exterior color to Red reprices it to 21500, and a further
// update to Gold wheels is rejected leaving the stored record untouched.
func TestMemoryItemStoreUpdateScenario(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore()

	created, err := s.Create(ctx, carDraft("Black", "Standard"))
	require.NoError(t, err)
	assert.Equal(t, int64(20800), created.Price)

	updated, err := s.Update(ctx, created.ID, carDraft("Red", "Standard"))
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, int64(21500), updated.Price)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt,
		"update must preserve the original creation timestamp")

	_, err = s.Update(ctx, created.ID, carDraft("Red", "Gold"))
	require.Error(t, err)
	assert.True(t, store.IsConflictError(err))

	got, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Standard", got.Selections[domain.SlotWheelStyle],
		"rejected update must leave the stored record unchanged")
	assert.Equal(t, int64(21500), got.Price)
}

func TestMemoryItemStoreUpdateNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore()

	_, err := s.Update(ctx, 42, carDraft("Blue", "Sport"))
	assert.ErrorIs(t, err, store.ErrItemNotFound)
}

func TestMemoryItemStoreDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore()

	created, err := s.Create(ctx, carDraft("Blue", "Sport"))
	require.NoError(t, err)

	deleted, err := s.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, deleted, "delete should return the removed snapshot")

	_, err = s.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, store.ErrItemNotFound)

	_, err = s.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, store.ErrItemNotFound,
		"a second delete of the same id must also fail with not found")
}

func TestMemoryItemStoreListOrderingAndEmpty(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore()

	items, err := s.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items, "listing with no records returns an empty sequence, not an error")

	for _, color := range []string{"Red", "Blue", "Black"} {
		_, err := s.Create(ctx, carDraft(color, "Standard"))
		require.NoError(t, err)
	}

	items, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	for i := 1; i < len(items); i++ {
		assert.Less(t, items[i-1].ID, items[i].ID, "list must be ascending by id")
	}
}

func TestMemoryItemStoreIgnoresCallerPrice(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore()

	// The draft type has no price field at all; this asserts the derived
	// price is authoritative for a known selection.
	created, err := s.Create(ctx, carDraft("Blue", "Sport"))
	require.NoError(t, err)
	assert.Equal(t, int64(20000+1000+2000), created.Price)
}

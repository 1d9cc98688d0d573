package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diydelight/customizer-api/internal/domain"
	"github.com/diydelight/customizer-api/internal/store"
	"github.com/diydelight/customizer-api/migrations"
)

// openTestDB connects to the database named by CUSTOMIZER_TEST_DATABASE_URL,
// applies migrations, and truncates the table. Tests are skipped when the
// variable is unset so the suite runs without a database.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	url := os.Getenv("CUSTOMIZER_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("CUSTOMIZER_TEST_DATABASE_URL not set, skipping database integration test")
	}

	db, err := sql.Open("pgx", url)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	goose.SetBaseFS(migrations.FS)
	require.NoError(t, goose.SetDialect("postgres"))
	require.NoError(t, goose.Up(db, "."))

	_, err = db.Exec("TRUNCATE custom_items RESTART IDENTITY")
	require.NoError(t, err)

	return db
}

func newTestItemStore(t *testing.T) *PostgresItemStore {
	t.Helper()
	return NewPostgresItemStore(openTestDB(t), domain.DefaultCatalog(), domain.DefaultRuleset(), nil)
}

func carDraft(color, wheels string) *domain.ItemDraft {
	return &domain.ItemDraft{
		ItemName: "Integration Car",
		ItemType: "Car",
		Selections: map[string]string{
			domain.SlotExteriorColor: color,
			domain.SlotWheelStyle:    wheels,
		},
		UserNotes: "integration test",
	}
}

func TestPostgresItemStoreCreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestItemStore(t)

	created, err := s.Create(ctx, carDraft("Blue", "Sport"))
	require.NoError(t, err)
	assert.Positive(t, created.ID)
	assert.Equal(t, int64(23000), created.Price)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.ItemName, got.ItemName)
	assert.Equal(t, created.Selections, got.Selections)
	assert.Equal(t, created.Price, got.Price)
	assert.WithinDuration(t, created.CreatedAt, got.CreatedAt, time.Microsecond)
}

func TestPostgresItemStoreForbiddenCombination(t *testing.T) {
	ctx := context.Background()
	s := newTestItemStore(t)

	_, err := s.Create(ctx, carDraft("Red", "Gold"))
	require.Error(t, err)
	assert.True(t, store.IsConflictError(err))

	items, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestPostgresItemStoreListOrdering(t *testing.T) {
	ctx := context.Background()
	s := newTestItemStore(t)

	items, err := s.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	for _, color := range []string{"Red", "Blue", "Black"} {
		_, err := s.Create(ctx, carDraft(color, "Standard"))
		require.NoError(t, err)
	}

	items, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	for i := 1; i < len(items); i++ {
		assert.Less(t, items[i-1].ID, items[i].ID)
	}
}

func TestPostgresItemStoreUpdate(t *testing.T) {
	ctx := context.Background()
	s := newTestItemStore(t)

	created, err := s.Create(ctx, carDraft("Black", "Standard"))
	require.NoError(t, err)
	assert.Equal(t, int64(20800), created.Price)

	updated, err := s.Update(ctx, created.ID, carDraft("Red", "Standard"))
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, int64(21500), updated.Price)
	assert.WithinDuration(t, created.CreatedAt, updated.CreatedAt, time.Microsecond,
		"update must preserve the original creation timestamp")

	_, err = s.Update(ctx, created.ID, carDraft("Red", "Gold"))
	require.Error(t, err)
	assert.True(t, store.IsConflictError(err))

	got, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Standard", got.Selections[domain.SlotWheelStyle])
	assert.Equal(t, int64(21500), got.Price)

	_, err = s.Update(ctx, created.ID+1000, carDraft("Blue", "Sport"))
	assert.ErrorIs(t, err, store.ErrItemNotFound)
}

func TestPostgresItemStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestItemStore(t)

	created, err := s.Create(ctx, carDraft("Blue", "Sport"))
	require.NoError(t, err)

	deleted, err := s.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)
	assert.Equal(t, created.Selections, deleted.Selections)

	_, err = s.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, store.ErrItemNotFound)

	_, err = s.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, store.ErrItemNotFound)
}

func TestPostgresItemStoreValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestItemStore(t)

	draft := carDraft("Blue", "Sport")
	draft.ItemName = ""
	_, err := s.Create(ctx, draft)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)

	draft = carDraft("Blue", "Sport")
	delete(draft.Selections, domain.SlotWheelStyle)
	_, err = s.Create(ctx, draft)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}

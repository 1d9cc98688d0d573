package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/diydelight/customizer-api/internal/domain"
	"github.com/diydelight/customizer-api/internal/platform/logger"
	"github.com/diydelight/customizer-api/internal/store"
)

// PostgreSQL error codes
const pgCheckViolationCode = "23514"

// PostgresItemStore implements the store.ItemStore interface using a
// PostgreSQL database as the storage backend. It owns the canonical copy
// of every custom item: drafts are validated against the injected
// catalog, the price is recomputed here regardless of caller input, and
// the forbidden-combination registry is re-checked immediately before
// every write as a defense-in-depth guard.
type PostgresItemStore struct {
	db      store.DBTX
	catalog *domain.Catalog
	rules   domain.Ruleset
	logger  *slog.Logger
}

// NewPostgresItemStore creates a new PostgreSQL implementation of the
// ItemStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller, plus the
// process-wide catalog and forbidden-combination registry.
// If logger is nil, a default logger will be used.
func NewPostgresItemStore(
	db store.DBTX,
	catalog *domain.Catalog,
	rules domain.Ruleset,
	logger *slog.Logger,
) *PostgresItemStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if catalog == nil {
		panic("catalog cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresItemStore{
		db:      db,
		catalog: catalog,
		rules:   rules,
		logger:  logger.With(slog.String("component", "item_store")),
	}
}

// Ensure PostgresItemStore implements store.ItemStore interface
var _ store.ItemStore = (*PostgresItemStore)(nil)

// checkDraft runs field validation and the compatibility check shared by
// Create and Update. The returned error is already wrapped with the
// appropriate store sentinel.
func (s *PostgresItemStore) checkDraft(draft *domain.ItemDraft) error {
	if err := draft.Validate(s.catalog); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	if v := s.rules.Check(draft.ItemType, draft.Selections); v != nil {
		return fmt.Errorf("%w: %s", store.ErrForbiddenCombination, v.Message)
	}
	return nil
}

// Create implements store.ItemStore.Create
// It validates the draft, derives the price from the catalog, assigns a
// new id and creation timestamp, and persists the item.
func (s *PostgresItemStore) Create(ctx context.Context, draft *domain.ItemDraft) (*domain.CustomItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.checkDraft(draft); err != nil {
		log.Warn("draft rejected during create",
			slog.String("error", err.Error()),
			slog.String("item_name", draft.ItemName))
		return nil, err
	}

	item := domain.NewCustomItem(s.catalog, draft)

	selections, err := json.Marshal(item.Selections)
	if err != nil {
		return nil, store.NewStoreError("custom item", "create", "failed to encode selections", err)
	}

	query := `
		INSERT INTO custom_items (item_name, item_type, selections, user_notes, price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err = s.db.QueryRowContext(
		ctx,
		query,
		item.ItemName,
		item.ItemType,
		selections,
		item.UserNotes,
		item.Price,
		item.CreatedAt,
	).Scan(&item.ID)

	if err != nil {
		// The CHECK constraint on custom_items re-enforces the Red/Gold
		// Car rule beneath this store; a violation here means a rule the
		// registry missed, surfaced with the same conflict semantics.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgCheckViolationCode {
			log.Warn("check constraint violation during item creation",
				slog.String("error", err.Error()),
				slog.String("item_name", item.ItemName))
			return nil, fmt.Errorf("%w: combination rejected by storage constraint",
				store.ErrForbiddenCombination)
		}

		log.Error("failed to create custom item",
			slog.String("error", err.Error()),
			slog.String("item_name", item.ItemName))
		return nil, err
	}

	log.Info("custom item created successfully",
		slog.Int64("item_id", item.ID),
		slog.String("item_name", item.ItemName),
		slog.Int64("price", item.Price))
	return item, nil
}

// GetByID implements store.ItemStore.GetByID
// It retrieves a custom item by its unique ID.
// Returns store.ErrItemNotFound if the item does not exist.
func (s *PostgresItemStore) GetByID(ctx context.Context, id int64) (*domain.CustomItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving custom item by ID", slog.Int64("item_id", id))

	query := `
		SELECT id, item_name, item_type, selections, user_notes, price, created_at
		FROM custom_items
		WHERE id = $1
	`

	item, err := scanItem(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("custom item not found", slog.Int64("item_id", id))
			return nil, store.ErrItemNotFound
		}
		log.Error("failed to get custom item by ID",
			slog.String("error", err.Error()),
			slog.Int64("item_id", id))
		return nil, err
	}

	log.Debug("custom item retrieved successfully", slog.Int64("item_id", id))
	return item, nil
}

// List implements store.ItemStore.List
// It retrieves all custom items in ascending id order.
// Returns an empty slice if the table is empty.
func (s *PostgresItemStore) List(ctx context.Context) ([]*domain.CustomItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, item_name, item_type, selections, user_notes, price, created_at
		FROM custom_items
		ORDER BY id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query custom items", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var items []*domain.CustomItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			log.Error("failed to scan custom item row",
				slog.String("error", err.Error()))
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	// Return empty slice instead of nil if no items found
	if items == nil {
		items = []*domain.CustomItem{}
	}

	log.Debug("listed custom items", slog.Int("count", len(items)))
	return items, nil
}

// Update implements store.ItemStore.Update
// It replaces all mutable fields of the item with the draft, recomputing
// the price and re-checking the forbidden-combination registry. The id
// and original creation timestamp are preserved.
// Returns store.ErrItemNotFound if the item does not exist.
func (s *PostgresItemStore) Update(ctx context.Context, id int64, draft *domain.ItemDraft) (*domain.CustomItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.checkDraft(draft); err != nil {
		log.Warn("draft rejected during update",
			slog.String("error", err.Error()),
			slog.Int64("item_id", id))
		return nil, err
	}

	price := domain.ComputePrice(s.catalog, draft.Selections)

	selections, err := json.Marshal(draft.Selections)
	if err != nil {
		return nil, store.NewStoreError("custom item", "update", "failed to encode selections", err)
	}

	query := `
		UPDATE custom_items
		SET item_name = $1, item_type = $2, selections = $3, user_notes = $4, price = $5
		WHERE id = $6
		RETURNING id, item_name, item_type, selections, user_notes, price, created_at
	`

	item, err := scanItem(s.db.QueryRowContext(
		ctx,
		query,
		draft.ItemName,
		draft.ItemType,
		selections,
		draft.UserNotes,
		price,
		id,
	))

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("custom item not found for update", slog.Int64("item_id", id))
			return nil, store.ErrItemNotFound
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgCheckViolationCode {
			log.Warn("check constraint violation during item update",
				slog.String("error", err.Error()),
				slog.Int64("item_id", id))
			return nil, fmt.Errorf("%w: combination rejected by storage constraint",
				store.ErrForbiddenCombination)
		}

		log.Error("failed to update custom item",
			slog.String("error", err.Error()),
			slog.Int64("item_id", id))
		return nil, err
	}

	log.Info("custom item updated successfully",
		slog.Int64("item_id", item.ID),
		slog.Int64("price", item.Price))
	return item, nil
}

// Delete implements store.ItemStore.Delete
// It removes the item and returns the deleted snapshot.
// Returns store.ErrItemNotFound if the item does not exist.
func (s *PostgresItemStore) Delete(ctx context.Context, id int64) (*domain.CustomItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM custom_items
		WHERE id = $1
		RETURNING id, item_name, item_type, selections, user_notes, price, created_at
	`

	item, err := scanItem(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("custom item not found for deletion", slog.Int64("item_id", id))
			return nil, store.ErrItemNotFound
		}
		log.Error("failed to delete custom item",
			slog.String("error", err.Error()),
			slog.Int64("item_id", id))
		return nil, err
	}

	log.Info("custom item deleted successfully", slog.Int64("item_id", id))
	return item, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanItem maps one custom_items row onto a domain.CustomItem, decoding
// the selections JSONB column and normalizing the nullable notes column.
func scanItem(row rowScanner) (*domain.CustomItem, error) {
	var item domain.CustomItem
	var selections []byte
	var notes sql.NullString
	var createdAt time.Time

	err := row.Scan(
		&item.ID,
		&item.ItemName,
		&item.ItemType,
		&selections,
		&notes,
		&item.Price,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(selections, &item.Selections); err != nil {
		return nil, fmt.Errorf("failed to decode selections: %w", err)
	}

	item.UserNotes = notes.String
	item.CreatedAt = createdAt.UTC()
	return &item, nil
}

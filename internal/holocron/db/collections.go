package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/holocron/holocron-server/pkg/holocron"
)

// CollectionStore handles collectible definitions and ownership.
type CollectionStore struct {
	db *DB
}

// NewCollectionStore creates a new CollectionStore.
func NewCollectionStore(db *DB) *CollectionStore {
	return &CollectionStore{db: db}
}

// BulkInsertCollectibles upserts collectible definitions.
func (s *CollectionStore) BulkInsertCollectibles(ctx context.Context, items []holocron.Collectible) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO collectibles
			(item_id, name, type, source, difficulty, expansion)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing collectible statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, c := range items {
			_, err := stmt.ExecContext(ctx,
				c.ItemID, c.Name, string(c.Type), c.Source, c.Difficulty, c.Expansion,
			)
			if err != nil {
				return fmt.Errorf("inserting collectible %d: %w", c.ItemID, err)
			}
		}

		return nil
	})
}

// MarkOwned records that a character owns the given collectibles.
// Ownership is additive; collectibles are never unlearned.
func (s *CollectionStore) MarkOwned(ctx context.Context, guid string, itemIDs []int64) error {
	if len(itemIDs) == 0 {
		return nil
	}

	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT OR IGNORE INTO collectible_owned (item_id, guid) VALUES (?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing owned statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, id := range itemIDs {
			if _, err := stmt.ExecContext(ctx, id, guid); err != nil {
				return fmt.Errorf("marking collectible %d owned: %w", id, err)
			}
		}

		return nil
	})
}

// ListCollectibles returns all collectible definitions, optionally
// filtered by type ("" means all).
func (s *CollectionStore) ListCollectibles(ctx context.Context, ctype holocron.CollectionType) ([]holocron.Collectible, error) {
	query := `SELECT item_id, name, type, source, difficulty, expansion FROM collectibles`
	args := []any{}
	if ctype != "" {
		query += ` WHERE type = ?`
		args = append(args, string(ctype))
	}
	query += ` ORDER BY item_id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing collectibles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []holocron.Collectible
	for rows.Next() {
		var c holocron.Collectible
		var t string
		if err := rows.Scan(&c.ItemID, &c.Name, &t, &c.Source, &c.Difficulty, &c.Expansion); err != nil {
			return nil, fmt.Errorf("scanning collectible: %w", err)
		}
		c.Type = holocron.CollectionType(t)
		items = append(items, c)
	}

	return items, rows.Err()
}

// OwnedSet returns the account-wide owned collectible IDs. Collections
// are shared across characters, so ownership by any character counts.
func (s *CollectionStore) OwnedSet(ctx context.Context) (map[int64]bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT item_id FROM collectible_owned`)
	if err != nil {
		return nil, fmt.Errorf("querying owned collectibles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	owned := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning owned id: %w", err)
		}
		owned[id] = true
	}

	return owned, rows.Err()
}

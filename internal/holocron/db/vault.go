package db

import (
	"context"
	"fmt"

	"github.com/holocron/holocron-server/pkg/holocron"
)

// VaultStore handles weekly Great Vault activity counters.
type VaultStore struct {
	db *DB
}

// NewVaultStore creates a new VaultStore.
func NewVaultStore(db *DB) *VaultStore {
	return &VaultStore{db: db}
}

// SetProgress records a character's activity count for one category.
func (s *VaultStore) SetProgress(ctx context.Context, guid string, category holocron.VaultCategory, progress int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vault_progress (guid, category, progress, updated_at)
		VALUES (?, ?, ?, datetime('now'))
		ON CONFLICT(guid, category) DO UPDATE SET
			progress = excluded.progress,
			updated_at = excluded.updated_at
	`, guid, string(category), progress)

	if err != nil {
		return fmt.Errorf("setting vault progress for %s: %w", guid, err)
	}

	return nil
}

// GetProgress returns a character's activity counts keyed by category.
// Categories with no recorded activity are absent.
func (s *VaultStore) GetProgress(ctx context.Context, guid string) (map[holocron.VaultCategory]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, progress FROM vault_progress WHERE guid = ?
	`, guid)
	if err != nil {
		return nil, fmt.Errorf("querying vault progress: %w", err)
	}
	defer func() { _ = rows.Close() }()

	progress := make(map[holocron.VaultCategory]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("scanning vault progress: %w", err)
		}
		progress[holocron.VaultCategory(category)] = count
	}

	return progress, rows.Err()
}

// ResetAll clears all vault counters, used at the weekly reset.
func (s *VaultStore) ResetAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM vault_progress`); err != nil {
		return fmt.Errorf("resetting vault progress: %w", err)
	}
	return nil
}

package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/holocron/holocron-server/pkg/holocron"
)

// CharacterStore handles roster and quest history data access.
type CharacterStore struct {
	db *DB
}

// NewCharacterStore creates a new CharacterStore.
func NewCharacterStore(db *DB) *CharacterStore {
	return &CharacterStore{db: db}
}

// UpsertCharacter inserts or updates one roster entry.
func (s *CharacterStore) UpsertCharacter(ctx context.Context, c holocron.Character) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO characters (guid, name, realm, class, race, level, last_seen_zone, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT(guid) DO UPDATE SET
			name = excluded.name,
			realm = excluded.realm,
			class = excluded.class,
			race = excluded.race,
			level = excluded.level,
			last_seen_zone = excluded.last_seen_zone,
			updated_at = excluded.updated_at
	`, c.GUID, c.Name, c.Realm, c.Class, c.Race, c.Level, c.LastSeenZone)

	if err != nil {
		return fmt.Errorf("upserting character %s: %w", c.GUID, err)
	}

	return nil
}

// GetCharacter retrieves one character by GUID. Returns nil if not found.
func (s *CharacterStore) GetCharacter(ctx context.Context, guid string) (*holocron.Character, error) {
	var c holocron.Character
	err := s.db.QueryRowContext(ctx, `
		SELECT guid, name, realm, class, race, level, last_seen_zone
		FROM characters WHERE guid = ?
	`, guid).Scan(&c.GUID, &c.Name, &c.Realm, &c.Class, &c.Race, &c.Level, &c.LastSeenZone)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying character: %w", err)
	}

	return &c, nil
}

// ListCharacters returns the full roster ordered by name.
func (s *CharacterStore) ListCharacters(ctx context.Context) ([]holocron.Character, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT guid, name, realm, class, race, level, last_seen_zone
		FROM characters
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var roster []holocron.Character
	for rows.Next() {
		var c holocron.Character
		if err := rows.Scan(&c.GUID, &c.Name, &c.Realm, &c.Class, &c.Race, &c.Level, &c.LastSeenZone); err != nil {
			return nil, fmt.Errorf("scanning character: %w", err)
		}
		roster = append(roster, c)
	}

	return roster, rows.Err()
}

// RecordCompletedQuests marks quests completed for a character.
func (s *CharacterStore) RecordCompletedQuests(ctx context.Context, guid string, questIDs []int64) error {
	if len(questIDs) == 0 {
		return nil
	}

	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT OR IGNORE INTO character_quest_history (guid, quest_id)
			VALUES (?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing quest history statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, id := range questIDs {
			if _, err := stmt.ExecContext(ctx, guid, id); err != nil {
				return fmt.Errorf("recording quest %d for %s: %w", id, guid, err)
			}
		}

		return nil
	})
}

// CompletedQuests returns the completed quest set for one character.
func (s *CharacterStore) CompletedQuests(ctx context.Context, guid string) (map[int64]bool, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT quest_id FROM character_quest_history WHERE guid = ?
	`, guid)
	if err != nil {
		return nil, fmt.Errorf("querying quest history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	completed := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning quest id: %w", err)
		}
		completed[id] = true
	}

	return completed, rows.Err()
}

// CompletedQuestsByCharacter returns every character's completed set,
// keyed by GUID.
func (s *CharacterStore) CompletedQuestsByCharacter(ctx context.Context) (map[string]map[int64]bool, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT guid, quest_id FROM character_quest_history
	`)
	if err != nil {
		return nil, fmt.Errorf("querying quest history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	completions := make(map[string]map[int64]bool)
	for rows.Next() {
		var guid string
		var id int64
		if err := rows.Scan(&guid, &id); err != nil {
			return nil, fmt.Errorf("scanning quest history row: %w", err)
		}
		set := completions[guid]
		if set == nil {
			set = make(map[int64]bool)
			completions[guid] = set
		}
		set[id] = true
	}

	return completions, rows.Err()
}

// CountCharacters returns the roster size.
func (s *CharacterStore) CountCharacters(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM characters`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting characters: %w", err)
	}
	return count, nil
}

package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/holocron/holocron-server/pkg/holocron"
)

// ReputationStore handles faction, reputation, and world quest data.
type ReputationStore struct {
	db *DB
}

// NewReputationStore creates a new ReputationStore.
func NewReputationStore(db *DB) *ReputationStore {
	return &ReputationStore{db: db}
}

// BulkInsertFactions inserts faction definitions in a transaction.
func (s *ReputationStore) BulkInsertFactions(ctx context.Context, factions []holocron.Faction) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO factions (id, name, expansion, paragon_threshold)
			VALUES (?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing faction statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, f := range factions {
			threshold := f.ParagonThreshold
			if threshold == 0 {
				threshold = 10000
			}
			if _, err := stmt.ExecContext(ctx, f.ID, f.Name, f.Expansion, threshold); err != nil {
				return fmt.Errorf("inserting faction %d: %w", f.ID, err)
			}
		}

		return nil
	})
}

// GetFaction retrieves one faction. Returns nil if not found.
func (s *ReputationStore) GetFaction(ctx context.Context, id int64) (*holocron.Faction, error) {
	var f holocron.Faction
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, expansion, paragon_threshold FROM factions WHERE id = ?
	`, id).Scan(&f.ID, &f.Name, &f.Expansion, &f.ParagonThreshold)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying faction: %w", err)
	}

	return &f, nil
}

// RecordReputation stores the latest earned total for one character and
// faction, replacing any previous reading.
func (s *ReputationStore) RecordReputation(ctx context.Context, guid string, factionID int64, earned int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reputation_history (guid, faction_id, earned, recorded_at)
		VALUES (?, ?, ?, datetime('now'))
		ON CONFLICT(guid, faction_id) DO UPDATE SET
			earned = excluded.earned,
			recorded_at = excluded.recorded_at
	`, guid, factionID, earned)

	if err != nil {
		return fmt.Errorf("recording reputation for %s: %w", guid, err)
	}

	return nil
}

// ReputationReading is one character's latest standing with a faction.
type ReputationReading struct {
	GUID      string
	FactionID int64
	Earned    int
}

// BulkRecordReputation stores many readings in one transaction.
func (s *ReputationStore) BulkRecordReputation(ctx context.Context, readings []ReputationReading) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO reputation_history (guid, faction_id, earned, recorded_at)
			VALUES (?, ?, ?, datetime('now'))
			ON CONFLICT(guid, faction_id) DO UPDATE SET
				earned = excluded.earned,
				recorded_at = excluded.recorded_at
		`)
		if err != nil {
			return fmt.Errorf("preparing reputation statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, r := range readings {
			if _, err := stmt.ExecContext(ctx, r.GUID, r.FactionID, r.Earned); err != nil {
				return fmt.Errorf("recording reputation %s/%d: %w", r.GUID, r.FactionID, err)
			}
		}

		return nil
	})
}

// AccountReputation returns the account's best earned total per
// faction, across all characters.
func (s *ReputationStore) AccountReputation(ctx context.Context) (map[int64]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT faction_id, MAX(earned) FROM reputation_history GROUP BY faction_id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying account reputation: %w", err)
	}
	defer func() { _ = rows.Close() }()

	standings := make(map[int64]int)
	for rows.Next() {
		var factionID int64
		var earned int
		if err := rows.Scan(&factionID, &earned); err != nil {
			return nil, fmt.Errorf("scanning reputation row: %w", err)
		}
		standings[factionID] = earned
	}

	return standings, rows.Err()
}

// ListFactions returns all known factions ordered by ID.
func (s *ReputationStore) ListFactions(ctx context.Context) ([]holocron.Faction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, expansion, paragon_threshold FROM factions ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing factions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var factions []holocron.Faction
	for rows.Next() {
		var f holocron.Faction
		if err := rows.Scan(&f.ID, &f.Name, &f.Expansion, &f.ParagonThreshold); err != nil {
			return nil, fmt.Errorf("scanning faction: %w", err)
		}
		factions = append(factions, f)
	}

	return factions, rows.Err()
}

// BulkInsertWorldQuests replaces the active world quest set.
func (s *ReputationStore) BulkInsertWorldQuests(ctx context.Context, quests []holocron.WorldQuest) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM world_quests`); err != nil {
			return fmt.Errorf("clearing world quests: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO world_quests
			(quest_id, title, zone_id, faction_id, rep_reward, estimated_time_sec, gold_reward, expires_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing world quest statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, wq := range quests {
			expires := ""
			if !wq.ExpiresAt.IsZero() {
				expires = wq.ExpiresAt.UTC().Format(time.RFC3339)
			}
			_, err := stmt.ExecContext(ctx,
				wq.QuestID, wq.Title, wq.ZoneID, wq.FactionID,
				wq.RepReward, wq.EstimatedTimeSec, wq.GoldReward, expires,
			)
			if err != nil {
				return fmt.Errorf("inserting world quest %d: %w", wq.QuestID, err)
			}
		}

		return nil
	})
}

// ListWorldQuests returns the active world quests joined to zone names.
func (s *ReputationStore) ListWorldQuests(ctx context.Context) ([]holocron.WorldQuest, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT wq.quest_id, wq.title, wq.zone_id, COALESCE(z.name, ''),
		       wq.faction_id, wq.rep_reward, wq.estimated_time_sec, wq.gold_reward, wq.expires_at
		FROM world_quests wq
		LEFT JOIN zones z ON z.id = wq.zone_id
		ORDER BY wq.quest_id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing world quests: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var quests []holocron.WorldQuest
	for rows.Next() {
		var wq holocron.WorldQuest
		var expires string
		if err := rows.Scan(
			&wq.QuestID, &wq.Title, &wq.ZoneID, &wq.ZoneName,
			&wq.FactionID, &wq.RepReward, &wq.EstimatedTimeSec, &wq.GoldReward, &expires,
		); err != nil {
			return nil, fmt.Errorf("scanning world quest: %w", err)
		}
		if expires != "" {
			if t, err := time.Parse(time.RFC3339, expires); err == nil {
				wq.ExpiresAt = t
			}
		}
		quests = append(quests, wq)
	}

	return quests, rows.Err()
}

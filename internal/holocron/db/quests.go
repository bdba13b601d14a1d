package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/holocron/holocron-server/pkg/holocron"
)

// QuestStore handles quest reference data: definitions, prerequisite
// edges, and campaigns. It implements the resolver's Graph interface.
type QuestStore struct {
	db *DB
}

// NewQuestStore creates a new QuestStore.
func NewQuestStore(db *DB) *QuestStore {
	return &QuestStore{db: db}
}

// Prerequisites returns the required quest IDs for a quest.
// Unknown quests have no prerequisites.
func (s *QuestStore) Prerequisites(ctx context.Context, questID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT required_quest_id FROM quest_dependencies WHERE quest_id = ?
	`, questID)
	if err != nil {
		return nil, fmt.Errorf("querying prerequisites: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var prereqs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning prerequisite: %w", err)
		}
		prereqs = append(prereqs, id)
	}

	return prereqs, rows.Err()
}

// Title returns the quest title, or "" if the quest is unknown.
func (s *QuestStore) Title(ctx context.Context, questID int64) (string, error) {
	var title string
	err := s.db.QueryRowContext(ctx, `
		SELECT title FROM quest_definitions WHERE quest_id = ?
	`, questID).Scan(&title)

	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying quest title: %w", err)
	}

	return title, nil
}

// LookupQuestID resolves a numeric ID string or a partial title to a
// quest ID. Returns 0 if nothing matches.
func (s *QuestStore) LookupQuestID(ctx context.Context, query string) (int64, error) {
	if id, err := strconv.ParseInt(query, 10, 64); err == nil {
		return id, nil
	}

	var id int64
	err := s.db.QueryRowContext(ctx, `
		SELECT quest_id FROM quest_definitions
		WHERE title LIKE ? COLLATE NOCASE
		ORDER BY quest_id
		LIMIT 1
	`, "%"+query+"%").Scan(&id)

	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("looking up quest by title: %w", err)
	}

	return id, nil
}

// BulkInsertQuests inserts quest definitions in a transaction.
func (s *QuestStore) BulkInsertQuests(ctx context.Context, quests []holocron.Quest) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO quest_definitions (quest_id, title)
			VALUES (?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing quest statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, q := range quests {
			if _, err := stmt.ExecContext(ctx, q.ID, q.Title); err != nil {
				return fmt.Errorf("inserting quest %d: %w", q.ID, err)
			}
		}

		return nil
	})
}

// BulkInsertDependencies inserts prerequisite edges in a transaction.
func (s *QuestStore) BulkInsertDependencies(ctx context.Context, deps []holocron.QuestDependency) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO quest_dependencies (quest_id, required_quest_id)
			VALUES (?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing dependency statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, d := range deps {
			if _, err := stmt.ExecContext(ctx, d.QuestID, d.RequiredQuestID); err != nil {
				return fmt.Errorf("inserting dependency %d -> %d: %w", d.QuestID, d.RequiredQuestID, err)
			}
		}

		return nil
	})
}

// BulkInsertCampaigns replaces campaign definitions and their quest
// chains in a transaction.
func (s *QuestStore) BulkInsertCampaigns(ctx context.Context, campaigns []holocron.Campaign) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		campaignStmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO campaigns (id, name) VALUES (?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing campaign statement: %w", err)
		}
		defer func() { _ = campaignStmt.Close() }()

		questStmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO campaign_quests (campaign_id, quest_id, position)
			VALUES (?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing campaign quest statement: %w", err)
		}
		defer func() { _ = questStmt.Close() }()

		for _, c := range campaigns {
			if _, err := campaignStmt.ExecContext(ctx, c.ID, c.Name); err != nil {
				return fmt.Errorf("inserting campaign %d: %w", c.ID, err)
			}
			for pos, q := range c.QuestIDs {
				if _, err := questStmt.ExecContext(ctx, c.ID, q, pos); err != nil {
					return fmt.Errorf("inserting campaign quest for %d: %w", c.ID, err)
				}
			}
		}

		return nil
	})
}

// ListCampaigns returns all campaigns with their quest chains in
// position order.
func (s *QuestStore) ListCampaigns(ctx context.Context) ([]holocron.Campaign, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, cq.quest_id
		FROM campaigns c
		JOIN campaign_quests cq ON cq.campaign_id = c.id
		ORDER BY c.id, cq.position
	`)
	if err != nil {
		return nil, fmt.Errorf("listing campaigns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var campaigns []holocron.Campaign
	for rows.Next() {
		var id, questID int64
		var name string
		if err := rows.Scan(&id, &name, &questID); err != nil {
			return nil, fmt.Errorf("scanning campaign row: %w", err)
		}
		if len(campaigns) == 0 || campaigns[len(campaigns)-1].ID != id {
			campaigns = append(campaigns, holocron.Campaign{ID: id, Name: name})
		}
		last := &campaigns[len(campaigns)-1]
		last.QuestIDs = append(last.QuestIDs, questID)
	}

	return campaigns, rows.Err()
}

// CountQuests returns the number of known quest definitions.
func (s *QuestStore) CountQuests(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quest_definitions`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting quests: %w", err)
	}
	return count, nil
}

package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/holocron/holocron-server/pkg/holocron"
)

// TravelStore handles the zone graph.
type TravelStore struct {
	db *DB
}

// NewTravelStore creates a new TravelStore.
func NewTravelStore(db *DB) *TravelStore {
	return &TravelStore{db: db}
}

// BulkInsertZones upserts zone definitions in a transaction.
func (s *TravelStore) BulkInsertZones(ctx context.Context, zones []holocron.Zone) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO zones (id, name, expansion) VALUES (?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing zone statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, z := range zones {
			if _, err := stmt.ExecContext(ctx, z.ID, z.Name, z.Expansion); err != nil {
				return fmt.Errorf("inserting zone %d: %w", z.ID, err)
			}
		}

		return nil
	})
}

// BulkInsertEdges upserts travel connections in a transaction.
func (s *TravelStore) BulkInsertEdges(ctx context.Context, edges []holocron.TravelEdge) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO travel_edges
			(source_zone_id, dest_zone_id, method, time_sec, requirement)
			VALUES (?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing edge statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, e := range edges {
			_, err := stmt.ExecContext(ctx,
				e.SourceZoneID, e.DestZoneID, e.Method, e.TimeSec, e.Requirement,
			)
			if err != nil {
				return fmt.Errorf("inserting edge %d -> %d: %w", e.SourceZoneID, e.DestZoneID, err)
			}
		}

		return nil
	})
}

// GetZone retrieves one zone. Returns nil if unknown.
func (s *TravelStore) GetZone(ctx context.Context, id int64) (*holocron.Zone, error) {
	var z holocron.Zone
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, expansion FROM zones WHERE id = ?
	`, id).Scan(&z.ID, &z.Name, &z.Expansion)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying zone: %w", err)
	}

	return &z, nil
}

// ListZones returns all zones keyed by ID.
func (s *TravelStore) ListZones(ctx context.Context) (map[int64]holocron.Zone, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, expansion FROM zones`)
	if err != nil {
		return nil, fmt.Errorf("listing zones: %w", err)
	}
	defer func() { _ = rows.Close() }()

	zones := make(map[int64]holocron.Zone)
	for rows.Next() {
		var z holocron.Zone
		if err := rows.Scan(&z.ID, &z.Name, &z.Expansion); err != nil {
			return nil, fmt.Errorf("scanning zone: %w", err)
		}
		zones[z.ID] = z
	}

	return zones, rows.Err()
}

// ListEdges returns the full directed edge list.
func (s *TravelStore) ListEdges(ctx context.Context) ([]holocron.TravelEdge, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source_zone_id, dest_zone_id, method, time_sec, requirement
		FROM travel_edges
	`)
	if err != nil {
		return nil, fmt.Errorf("listing travel edges: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var edges []holocron.TravelEdge
	for rows.Next() {
		var e holocron.TravelEdge
		if err := rows.Scan(&e.SourceZoneID, &e.DestZoneID, &e.Method, &e.TimeSec, &e.Requirement); err != nil {
			return nil, fmt.Errorf("scanning travel edge: %w", err)
		}
		edges = append(edges, e)
	}

	return edges, rows.Err()
}

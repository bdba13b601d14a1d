// Package ingest turns addon SavedVariables files and reference data
// exports into database rows.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/holocron/holocron-server/internal/holocron/db"
	"github.com/holocron/holocron-server/internal/holocron/luatable"
	"github.com/holocron/holocron-server/pkg/holocron"
)

// Ingestor handles data ingestion from the bridge and import files.
type Ingestor struct {
	db          *db.DB
	characters  *db.CharacterStore
	reputation  *db.ReputationStore
	collections *db.CollectionStore
	logger      *slog.Logger
}

// NewIngestor creates a new Ingestor.
func NewIngestor(database *db.DB, logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{
		db:          database,
		characters:  db.NewCharacterStore(database),
		reputation:  db.NewReputationStore(database),
		collections: db.NewCollectionStore(database),
		logger:      logger,
	}
}

// IngestSavedVariables parses a SavedVariables file body and routes it
// by addon source name. Unknown sources are recorded but not an error:
// the bridge forwards whatever the watch directory contains.
func (ing *Ingestor) IngestSavedVariables(ctx context.Context, source, luaText string) error {
	root := luatable.Parse(luaText)

	var err error
	switch source {
	case "DataStore_Reputations":
		err = ing.ingestReputations(ctx, root)
	case "SavedInstances":
		err = ing.ingestSavedInstances(ctx, root)
	case "DataStore_Mounts":
		err = ing.ingestMounts(ctx, root)
	default:
		ing.logger.Info("no handler for SavedVariables source", "source", source)
	}
	if err != nil {
		return fmt.Errorf("ingesting %s: %w", source, err)
	}

	return ing.db.SetSyncMetadata(ctx, "ingest_"+source+"_last", time.Now().UTC().Format(time.RFC3339))
}

// findSection locates a named field inside any of the file's top-level
// assignments. Addon files name their top-level variable after the
// addon, so the section is searched one level down.
func findSection(root luatable.Value, name string) luatable.Value {
	table := root.Table()
	if table == nil {
		return luatable.Nil()
	}
	for _, key := range table.Keys() {
		v, _ := table.Get(key)
		if section := v.Field(name); !section.IsNil() {
			return section
		}
	}
	return luatable.Nil()
}

// ingestReputations walks global.Characters[GUID].Factions and records
// the latest earned value per faction. Faction entries are either a
// mapping with an "earned" field or a positional tuple with the earned
// value second.
func (ing *Ingestor) ingestReputations(ctx context.Context, root luatable.Value) error {
	characters := findSection(root, "global").Field("Characters")
	table := characters.Table()
	if table == nil {
		ing.logger.Warn("reputation file has no character data")
		return nil
	}

	var readings []db.ReputationReading
	for _, charKey := range table.Keys() {
		charData, _ := table.Get(charKey)
		factions := charData.Field("Factions").Table()
		if factions == nil {
			continue
		}

		for _, factionKey := range factions.Keys() {
			factionID, ok := keyAsInt(factionKey)
			if !ok {
				continue
			}
			entry, _ := factions.Get(factionKey)

			earned := 0
			if v, ok := entry.Field("earned").Int64(); ok {
				earned = int(v)
			} else if v, ok := entry.Index(2).Int64(); ok {
				earned = int(v)
			}

			readings = append(readings, db.ReputationReading{
				GUID:      charKey.String(),
				FactionID: factionID,
				Earned:    earned,
			})
		}
	}

	if len(readings) == 0 {
		return nil
	}
	ing.logger.Info("ingested reputation readings", "count", len(readings))
	return ing.reputation.BulkRecordReputation(ctx, readings)
}

// ingestSavedInstances upserts roster entries from the Toons section.
// Toon keys are "Realm - Name".
func (ing *Ingestor) ingestSavedInstances(ctx context.Context, root luatable.Value) error {
	toons := findSection(root, "Toons").Table()
	if toons == nil {
		ing.logger.Warn("saved instances file has no toon data")
		return nil
	}

	count := 0
	for _, toonKey := range toons.Keys() {
		info, _ := toons.Get(toonKey)

		realm, name := "Unknown", toonKey.String()
		if before, after, found := strings.Cut(toonKey.String(), " - "); found {
			realm, name = before, after
		}

		level := 0
		if v, ok := info.Field("Level").Int64(); ok {
			level = int(v)
		}

		char := holocron.Character{
			// SavedInstances carries no GUID, so one is synthesized
			// from the toon key.
			GUID:         name + "-" + realm,
			Name:         name,
			Realm:        realm,
			Class:        info.Field("Class").Str(),
			Race:         info.Field("Race").Str(),
			Level:        level,
			LastSeenZone: info.Field("Zone").Str(),
		}
		if err := ing.characters.UpsertCharacter(ctx, char); err != nil {
			return err
		}
		count++
	}

	ing.logger.Info("ingested roster entries", "count", count)
	return nil
}

// ingestMounts marks mounts owned per character. The Mounts section is
// either a positional list of ids or a mapping of id to a truthy flag.
func (ing *Ingestor) ingestMounts(ctx context.Context, root luatable.Value) error {
	characters := findSection(root, "global").Field("Characters")
	table := characters.Table()
	if table == nil {
		ing.logger.Warn("mount file has no character data")
		return nil
	}

	for _, charKey := range table.Keys() {
		charData, _ := table.Get(charKey)
		mounts := charData.Field("Mounts")

		var ids []int64
		switch mounts.Kind() {
		case luatable.KindArray:
			for _, item := range mounts.Items() {
				if id, ok := item.Int64(); ok {
					ids = append(ids, id)
				}
			}
		case luatable.KindTable:
			for _, key := range mounts.Table().Keys() {
				id, ok := keyAsInt(key)
				if !ok {
					continue
				}
				if v, _ := mounts.Table().Get(key); v.Kind() == luatable.KindBool && !v.Bool() {
					continue
				}
				ids = append(ids, id)
			}
		}

		if err := ing.collections.MarkOwned(ctx, charKey.String(), ids); err != nil {
			return err
		}
	}

	return nil
}

func keyAsInt(key luatable.Key) (int64, bool) {
	if key.IsInt {
		return key.N, true
	}
	n, err := strconv.ParseInt(key.Str, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

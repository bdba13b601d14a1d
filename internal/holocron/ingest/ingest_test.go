package ingest

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holocron/holocron-server/internal/holocron/db"
	"github.com/holocron/holocron-server/pkg/holocron"
)

func testIngestor(t *testing.T) (*Ingestor, *db.DB) {
	t.Helper()
	database, err := db.OpenAndInit(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return NewIngestor(database, nil), database
}

const reputationsLua = `
DataStore_ReputationsDB = {
	["global"] = {
		["Characters"] = {
			["Default.Dornogal.Alda"] = {
				["Factions"] = {
					[2600] = { ["earned"] = 8500 },
					[2601] = { 0, 4200, 0 },
					["2602"] = { ["earned"] = 9100 },
				},
				["lastUpdate"] = 1700000000,
			},
		},
	},
}
`

func TestIngestReputations(t *testing.T) {
	ing, database := testIngestor(t)
	ctx := context.Background()

	require.NoError(t, ing.IngestSavedVariables(ctx, "DataStore_Reputations", reputationsLua))

	standings, err := db.NewReputationStore(database).AccountReputation(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8500, standings[2600])
	// Positional tuples carry the earned value in the second slot.
	assert.Equal(t, 4200, standings[2601])
	// String faction keys are accepted.
	assert.Equal(t, 9100, standings[2602])

	last, err := database.GetSyncMetadata(ctx, "ingest_DataStore_Reputations_last")
	require.NoError(t, err)
	assert.NotEmpty(t, last)
}

const savedInstancesLua = `
SavedInstancesDB = {
	["Toons"] = {
		["Dornogal - Alda"] = {
			["Zone"] = "Isle of Dorn",
			["Level"] = 80,
			["Race"] = "Dwarf",
			["Class"] = "Warrior",
		},
		["Oddball"] = {
			["Level"] = 70,
		},
	},
}
`

func TestIngestSavedInstances(t *testing.T) {
	ing, database := testIngestor(t)
	ctx := context.Background()

	require.NoError(t, ing.IngestSavedVariables(ctx, "SavedInstances", savedInstancesLua))

	chars := db.NewCharacterStore(database)
	alda, err := chars.GetCharacter(ctx, "Alda-Dornogal")
	require.NoError(t, err)
	require.NotNil(t, alda)
	assert.Equal(t, "Alda", alda.Name)
	assert.Equal(t, "Dornogal", alda.Realm)
	assert.Equal(t, "Warrior", alda.Class)
	assert.Equal(t, 80, alda.Level)
	assert.Equal(t, "Isle of Dorn", alda.LastSeenZone)

	// Keys without the "Realm - Name" shape fall back to Unknown realm.
	odd, err := chars.GetCharacter(ctx, "Oddball-Unknown")
	require.NoError(t, err)
	require.NotNil(t, odd)
	assert.Equal(t, 70, odd.Level)
}

const mountsLua = `
DataStore_MountsDB = {
	["global"] = {
		["Characters"] = {
			["Default.Dornogal.Alda"] = {
				["Mounts"] = {2143, 40192},
			},
			["Default.Dornogal.Borin"] = {
				["Mounts"] = {
					[1222] = true,
					[999] = false,
				},
			},
		},
	},
}
`

func TestIngestMounts(t *testing.T) {
	ing, database := testIngestor(t)
	ctx := context.Background()

	require.NoError(t, ing.IngestSavedVariables(ctx, "DataStore_Mounts", mountsLua))

	owned, err := db.NewCollectionStore(database).OwnedSet(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{2143: true, 40192: true, 1222: true}, owned)
}

func TestIngestUnknownSource(t *testing.T) {
	ing, database := testIngestor(t)
	ctx := context.Background()

	require.NoError(t, ing.IngestSavedVariables(ctx, "DataStore_Containers", "DataStore_ContainersDB = {}"))

	last, err := database.GetSyncMetadata(ctx, "ingest_DataStore_Containers_last")
	require.NoError(t, err)
	assert.NotEmpty(t, last)
}

func TestIngestTruncatedFile(t *testing.T) {
	ing, database := testIngestor(t)
	ctx := context.Background()

	// A file caught mid-write still yields the complete entries.
	truncated := `DataStore_ReputationsDB = {
	["global"] = {
		["Characters"] = {
			["Default.Dornogal.Alda"] = {
				["Factions"] = {
					[2600] = { ["earned"] = 8500 },
					[2601] = { ["ear`
	require.NoError(t, ing.IngestSavedVariables(ctx, "DataStore_Reputations", truncated))

	standings, err := db.NewReputationStore(database).AccountReputation(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8500, standings[2600])
}

func TestImportReferenceFile(t *testing.T) {
	ing, database := testIngestor(t)
	ctx := context.Background()

	bundle := ReferenceBundle{
		Quests:       []holocron.Quest{{ID: 1, Title: "First Steps"}},
		Dependencies: []holocron.QuestDependency{{QuestID: 2, RequiredQuestID: 1}},
		Campaigns:    []holocron.Campaign{{ID: 1, Name: "Opening Act", QuestIDs: []int64{1, 2}}},
		Factions:     []holocron.Faction{{ID: 2600, Name: "Council of Dornogal"}},
		Zones:        []holocron.Zone{{ID: 84, Name: "Stormwind"}},
		TravelEdges:  []holocron.TravelEdge{{SourceZoneID: 84, DestZoneID: 84, Method: "WALK", TimeSec: 1}},
		ItemPrices:   []holocron.ItemPrice{{ItemID: 7, Name: "Bismuth", MarketValue: 10}},
		Collectibles: []holocron.Collectible{{ItemID: 1, Name: "Invincible", Type: holocron.CollectionMount}},
	}

	data, err := json.Marshal(bundle)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "reference.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	require.NoError(t, ing.ImportReferenceFile(ctx, path))

	quests := db.NewQuestStore(database)
	title, err := quests.Title(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "First Steps", title)

	campaigns, err := quests.ListCampaigns(ctx)
	require.NoError(t, err)
	require.Len(t, campaigns, 1)

	last, err := database.GetSyncMetadata(ctx, "reference_last_import")
	require.NoError(t, err)
	assert.NotEmpty(t, last)
}

func TestImportReferenceFileMissing(t *testing.T) {
	ing, _ := testIngestor(t)
	err := ing.ImportReferenceFile(context.Background(), "/does/not/exist.json")
	require.Error(t, err)
}

package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holocron/holocron-server/pkg/holocron"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenAndInit(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSyncMetadataRoundTrip(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	got, err := db.GetSyncMetadata(ctx, "last_import")
	require.NoError(t, err)
	assert.Equal(t, "", got)

	require.NoError(t, db.SetSyncMetadata(ctx, "last_import", "2026-08-20"))
	require.NoError(t, db.SetSyncMetadata(ctx, "last_import", "2026-08-23"))

	got, err = db.GetSyncMetadata(ctx, "last_import")
	require.NoError(t, err)
	assert.Equal(t, "2026-08-23", got)
}

func TestCharacterStoreRosterAndHistory(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	store := NewCharacterStore(db)

	char := holocron.Character{
		GUID: "Player-1-ABC", Name: "Thorgrim", Realm: "Dornogal",
		Class: "Warrior", Race: "Dwarf", Level: 80, LastSeenZone: "Isle of Dorn",
	}
	require.NoError(t, store.UpsertCharacter(ctx, char))

	// Upsert replaces on the same GUID.
	char.Level = 81
	require.NoError(t, store.UpsertCharacter(ctx, char))

	got, err := store.GetCharacter(ctx, "Player-1-ABC")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 81, got.Level)

	missing, err := store.GetCharacter(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, store.RecordCompletedQuests(ctx, "Player-1-ABC", []int64{100, 200}))
	require.NoError(t, store.RecordCompletedQuests(ctx, "Player-1-ABC", []int64{200, 300}))

	completed, err := store.CompletedQuests(ctx, "Player-1-ABC")
	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{100: true, 200: true, 300: true}, completed)

	all, err := store.CompletedQuestsByCharacter(ctx)
	require.NoError(t, err)
	assert.Len(t, all["Player-1-ABC"], 3)

	count, err := store.CountCharacters(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestQuestStoreGraphAndLookup(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	store := NewQuestStore(db)

	require.NoError(t, store.BulkInsertQuests(ctx, []holocron.Quest{
		{ID: 1, Title: "Uniting the Isles"},
		{ID: 2, Title: "Armies of Legionfall"},
	}))
	require.NoError(t, store.BulkInsertDependencies(ctx, []holocron.QuestDependency{
		{QuestID: 2, RequiredQuestID: 1},
	}))

	prereqs, err := store.Prerequisites(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, prereqs)

	none, err := store.Prerequisites(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, none)

	title, err := store.Title(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Uniting the Isles", title)

	title, err = store.Title(ctx, 999)
	require.NoError(t, err)
	assert.Equal(t, "", title)

	id, err := store.LookupQuestID(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)

	id, err = store.LookupQuestID(ctx, "legionfall")
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)

	id, err = store.LookupQuestID(ctx, "no such quest")
	require.NoError(t, err)
	assert.Equal(t, int64(0), id)
}

func TestQuestStoreCampaigns(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	store := NewQuestStore(db)

	require.NoError(t, store.BulkInsertCampaigns(ctx, []holocron.Campaign{
		{ID: 1, Name: "Breaching the Tomb", QuestIDs: []int64{10, 20, 30}},
		{ID: 2, Name: "The War Within", QuestIDs: []int64{40}},
	}))

	campaigns, err := store.ListCampaigns(ctx)
	require.NoError(t, err)
	require.Len(t, campaigns, 2)
	assert.Equal(t, []int64{10, 20, 30}, campaigns[0].QuestIDs)
	assert.Equal(t, "The War Within", campaigns[1].Name)
}

func TestReputationStoreLatestWins(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	store := NewReputationStore(db)

	require.NoError(t, store.BulkInsertFactions(ctx, []holocron.Faction{
		{ID: 2600, Name: "The Assembly of the Deeps"},
	}))

	f, err := store.GetFaction(ctx, 2600)
	require.NoError(t, err)
	require.NotNil(t, f)
	// Default paragon cycle applies when the import omits it.
	assert.Equal(t, 10000, f.ParagonThreshold)

	require.NoError(t, store.RecordReputation(ctx, "guid-a", 2600, 4000))
	require.NoError(t, store.RecordReputation(ctx, "guid-a", 2600, 8500))
	require.NoError(t, store.RecordReputation(ctx, "guid-b", 2600, 7000))

	standings, err := store.AccountReputation(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8500, standings[2600])
}

func TestReputationStoreWorldQuests(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	store := NewReputationStore(db)
	travel := NewTravelStore(db)

	require.NoError(t, travel.BulkInsertZones(ctx, []holocron.Zone{{ID: 5, Name: "Azj-Kahet"}}))
	require.NoError(t, store.BulkInsertWorldQuests(ctx, []holocron.WorldQuest{
		{QuestID: 70001, Title: "Spreading the Word", ZoneID: 5, FactionID: 2600, RepReward: 250, EstimatedTimeSec: 300},
	}))

	quests, err := store.ListWorldQuests(ctx)
	require.NoError(t, err)
	require.Len(t, quests, 1)
	assert.Equal(t, "Azj-Kahet", quests[0].ZoneName)

	// Re-import replaces the whole active set.
	require.NoError(t, store.BulkInsertWorldQuests(ctx, []holocron.WorldQuest{
		{QuestID: 70002, Title: "Another Day", ZoneID: 5, FactionID: 2600, RepReward: 100, EstimatedTimeSec: 120},
	}))
	quests, err = store.ListWorldQuests(ctx)
	require.NoError(t, err)
	require.Len(t, quests, 1)
	assert.Equal(t, int64(70002), quests[0].QuestID)
}

func TestMarketStorePricesRecipesListings(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	store := NewMarketStore(db)

	require.NoError(t, store.BulkInsertPrices(ctx, []holocron.ItemPrice{
		{ItemID: 1, Name: "Bismuth", MarketValue: 50, SaleRate: 0.9},
		{ItemID: 2, Name: "Gleaming Shard", MarketValue: 1200, SaleRate: 0.4},
	}))

	p, err := store.GetPrice(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 1200, p.MarketValue)

	none, err := store.GetPrice(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, none)

	require.NoError(t, store.BulkInsertRecipes(ctx, []holocron.CraftRecipe{
		{ID: 10, Name: "Cut Shard", ResultItemID: 2, Reagents: []holocron.Reagent{{ItemID: 1, Quantity: 3}}},
	}))

	recipes, err := store.ListRecipes(ctx)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, 1, recipes[0].OutputQuantity)
	require.Len(t, recipes[0].Reagents, 1)
	assert.Equal(t, 3, recipes[0].Reagents[0].Quantity)

	require.NoError(t, store.ReplaceAuctionListings(ctx, []holocron.SniperHit{
		{ItemID: 2, ListedPrice: 400},
		{ItemID: 2, ListedPrice: 900},
	}))

	hits, err := store.SniperCandidates(ctx)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, 400, hits[0].ListedPrice)
	assert.Equal(t, "Gleaming Shard", hits[0].Name)
	assert.Equal(t, 1200, hits[0].MarketValue)
}

func TestTravelStoreGraph(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	store := NewTravelStore(db)

	require.NoError(t, store.BulkInsertZones(ctx, []holocron.Zone{
		{ID: 1, Name: "Dornogal"},
		{ID: 2, Name: "The Ringing Deeps"},
	}))
	require.NoError(t, store.BulkInsertEdges(ctx, []holocron.TravelEdge{
		{SourceZoneID: 1, DestZoneID: 2, Method: "flight", TimeSec: 90},
	}))

	zones, err := store.ListZones(ctx)
	require.NoError(t, err)
	assert.Len(t, zones, 2)

	edges, err := store.ListEdges(ctx)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, "flight", edges[0].Method)
}

func TestCollectionStoreAccountWideOwnership(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	store := NewCollectionStore(db)

	require.NoError(t, store.BulkInsertCollectibles(ctx, []holocron.Collectible{
		{ItemID: 1, Name: "Invincible", Type: holocron.CollectionMount, Difficulty: "Hard"},
		{ItemID: 2, Name: "Sky Golem", Type: holocron.CollectionMount, Difficulty: "Medium"},
		{ItemID: 3, Name: "Toy Train Set", Type: holocron.CollectionToy, Difficulty: "Easy"},
	}))

	require.NoError(t, store.MarkOwned(ctx, "guid-a", []int64{2}))
	require.NoError(t, store.MarkOwned(ctx, "guid-b", []int64{2, 3}))

	mounts, err := store.ListCollectibles(ctx, holocron.CollectionMount)
	require.NoError(t, err)
	assert.Len(t, mounts, 2)

	all, err := store.ListCollectibles(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	owned, err := store.OwnedSet(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{2: true, 3: true}, owned)
}

func TestVaultStoreProgress(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	store := NewVaultStore(db)

	require.NoError(t, store.SetProgress(ctx, "guid-a", holocron.VaultRaid, 2))
	require.NoError(t, store.SetProgress(ctx, "guid-a", holocron.VaultRaid, 3))
	require.NoError(t, store.SetProgress(ctx, "guid-a", holocron.VaultDungeon, 5))

	progress, err := store.GetProgress(ctx, "guid-a")
	require.NoError(t, err)
	assert.Equal(t, 3, progress[holocron.VaultRaid])
	assert.Equal(t, 5, progress[holocron.VaultDungeon])
	_, ok := progress[holocron.VaultWorld]
	assert.False(t, ok)

	require.NoError(t, store.ResetAll(ctx))
	progress, err = store.GetProgress(ctx, "guid-a")
	require.NoError(t, err)
	assert.Empty(t, progress)
}

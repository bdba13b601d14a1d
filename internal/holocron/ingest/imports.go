package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/holocron/holocron-server/internal/holocron/db"
	"github.com/holocron/holocron-server/pkg/holocron"
)

// ReferenceBundle is the JSON format for reference data imports. Every
// section is optional; absent sections are left untouched.
type ReferenceBundle struct {
	Quests       []holocron.Quest           `json:"quests,omitempty"`
	Dependencies []holocron.QuestDependency `json:"dependencies,omitempty"`
	Campaigns    []holocron.Campaign        `json:"campaigns,omitempty"`
	Factions     []holocron.Faction         `json:"factions,omitempty"`
	WorldQuests  []holocron.WorldQuest      `json:"world_quests,omitempty"`
	ItemPrices   []holocron.ItemPrice       `json:"item_prices,omitempty"`
	Recipes      []holocron.CraftRecipe     `json:"recipes,omitempty"`
	Zones        []holocron.Zone            `json:"zones,omitempty"`
	TravelEdges  []holocron.TravelEdge      `json:"travel_edges,omitempty"`
	Collectibles []holocron.Collectible     `json:"collectibles,omitempty"`
}

// ImportReferenceFile loads a reference bundle from a JSON file.
func (ing *Ingestor) ImportReferenceFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	var bundle ReferenceBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return fmt.Errorf("parsing JSON: %w", err)
	}

	return ing.ImportReference(ctx, bundle)
}

// ImportReference stores every populated section of a bundle.
func (ing *Ingestor) ImportReference(ctx context.Context, bundle ReferenceBundle) error {
	quests := db.NewQuestStore(ing.db)
	market := db.NewMarketStore(ing.db)
	travel := db.NewTravelStore(ing.db)

	if len(bundle.Quests) > 0 {
		if err := quests.BulkInsertQuests(ctx, bundle.Quests); err != nil {
			return fmt.Errorf("importing quests: %w", err)
		}
	}
	if len(bundle.Dependencies) > 0 {
		if err := quests.BulkInsertDependencies(ctx, bundle.Dependencies); err != nil {
			return fmt.Errorf("importing dependencies: %w", err)
		}
	}
	if len(bundle.Campaigns) > 0 {
		if err := quests.BulkInsertCampaigns(ctx, bundle.Campaigns); err != nil {
			return fmt.Errorf("importing campaigns: %w", err)
		}
	}
	if len(bundle.Factions) > 0 {
		if err := ing.reputation.BulkInsertFactions(ctx, bundle.Factions); err != nil {
			return fmt.Errorf("importing factions: %w", err)
		}
	}
	if len(bundle.WorldQuests) > 0 {
		if err := ing.reputation.BulkInsertWorldQuests(ctx, bundle.WorldQuests); err != nil {
			return fmt.Errorf("importing world quests: %w", err)
		}
	}
	if len(bundle.ItemPrices) > 0 {
		if err := market.BulkInsertPrices(ctx, bundle.ItemPrices); err != nil {
			return fmt.Errorf("importing item prices: %w", err)
		}
	}
	if len(bundle.Recipes) > 0 {
		if err := market.BulkInsertRecipes(ctx, bundle.Recipes); err != nil {
			return fmt.Errorf("importing recipes: %w", err)
		}
	}
	if len(bundle.Zones) > 0 {
		if err := travel.BulkInsertZones(ctx, bundle.Zones); err != nil {
			return fmt.Errorf("importing zones: %w", err)
		}
	}
	if len(bundle.TravelEdges) > 0 {
		if err := travel.BulkInsertEdges(ctx, bundle.TravelEdges); err != nil {
			return fmt.Errorf("importing travel edges: %w", err)
		}
	}
	if len(bundle.Collectibles) > 0 {
		if err := ing.collections.BulkInsertCollectibles(ctx, bundle.Collectibles); err != nil {
			return fmt.Errorf("importing collectibles: %w", err)
		}
	}

	return ing.db.SetSyncMetadata(ctx, "reference_last_import", time.Now().UTC().Format(time.RFC3339))
}

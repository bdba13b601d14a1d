// Package engine contains the account analysis business logic.
package engine

import (
	"log/slog"

	"github.com/holocron/holocron-server/internal/holocron/db"
	"github.com/holocron/holocron-server/internal/holocron/quest"
)

// Options tunes the analysis thresholds.
type Options struct {
	// ParagonOpportunityPct is the cycle percentage at which a faction
	// becomes an opportunity.
	ParagonOpportunityPct int
	// ParagonHighPct is the cycle percentage at which an opportunity
	// gets HIGH priority.
	ParagonHighPct int
	// RecommendedQuestLimit caps per-faction quest recommendations.
	RecommendedQuestLimit int
}

// DefaultOptions returns the standard thresholds.
func DefaultOptions() Options {
	return Options{
		ParagonOpportunityPct: 80,
		ParagonHighPct:        90,
		RecommendedQuestLimit: 5,
	}
}

// Engine is the main query engine for account operations.
type Engine struct {
	characters  *db.CharacterStore
	quests      *db.QuestStore
	reputation  *db.ReputationStore
	market      *db.MarketStore
	travel      *db.TravelStore
	collections *db.CollectionStore
	vault       *db.VaultStore
	resolver    *quest.Resolver
	opts        Options
	logger      *slog.Logger
}

// New creates a new Engine with the given database stores.
func New(database *db.DB, opts Options, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	quests := db.NewQuestStore(database)
	return &Engine{
		characters:  db.NewCharacterStore(database),
		quests:      quests,
		reputation:  db.NewReputationStore(database),
		market:      db.NewMarketStore(database),
		travel:      db.NewTravelStore(database),
		collections: db.NewCollectionStore(database),
		vault:       db.NewVaultStore(database),
		resolver:    quest.NewResolver(quests, logger),
		opts:        opts,
		logger:      logger,
	}
}

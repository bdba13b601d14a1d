package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/holocron/holocron-server/pkg/holocron"
)

var difficultyOrder = map[string]int{
	"Easy":      1,
	"Medium":    2,
	"Hard":      3,
	"Very Hard": 4,
}

// CollectionSummary reports account-wide collection progress per type.
func (e *Engine) CollectionSummary(ctx context.Context) (*holocron.CollectionSummary, error) {
	owned, err := e.collections.OwnedSet(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading owned collectibles: %w", err)
	}

	mounts, err := e.collectionProgress(ctx, holocron.CollectionMount, owned)
	if err != nil {
		return nil, err
	}
	toys, err := e.collectionProgress(ctx, holocron.CollectionToy, owned)
	if err != nil {
		return nil, err
	}
	spells, err := e.collectionProgress(ctx, holocron.CollectionSpell, owned)
	if err != nil {
		return nil, err
	}
	overall, err := e.collectionProgress(ctx, "", owned)
	if err != nil {
		return nil, err
	}

	return &holocron.CollectionSummary{
		Mounts:  mounts,
		Toys:    toys,
		Spells:  spells,
		Overall: overall,
	}, nil
}

func (e *Engine) collectionProgress(ctx context.Context, ctype holocron.CollectionType, owned map[int64]bool) (holocron.CollectionProgress, error) {
	items, err := e.collections.ListCollectibles(ctx, ctype)
	if err != nil {
		return holocron.CollectionProgress{}, fmt.Errorf("listing collectibles: %w", err)
	}

	progress := holocron.CollectionProgress{
		Type:                ctype,
		Total:               len(items),
		MissingByDifficulty: map[string]int{"Easy": 0, "Medium": 0, "Hard": 0, "Very Hard": 0},
	}
	for _, item := range items {
		if owned[item.ItemID] {
			progress.Owned++
		} else {
			progress.MissingByDifficulty[item.Difficulty]++
		}
	}
	progress.Missing = progress.Total - progress.Owned
	if progress.Total > 0 {
		progress.Percent = progress.Owned * 100 / progress.Total
	}

	return progress, nil
}

// MissingCollectibles returns uncollected items of one type, easiest
// sources first.
func (e *Engine) MissingCollectibles(ctx context.Context, ctype holocron.CollectionType, limit int) ([]holocron.Collectible, error) {
	owned, err := e.collections.OwnedSet(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading owned collectibles: %w", err)
	}
	items, err := e.collections.ListCollectibles(ctx, ctype)
	if err != nil {
		return nil, fmt.Errorf("listing collectibles: %w", err)
	}

	var missing []holocron.Collectible
	for _, item := range items {
		if !owned[item.ItemID] {
			missing = append(missing, item)
		}
	}

	sort.SliceStable(missing, func(i, j int) bool {
		oi, ok := difficultyOrder[missing[i].Difficulty]
		if !ok {
			oi = 99
		}
		oj, ok := difficultyOrder[missing[j].Difficulty]
		if !ok {
			oj = 99
		}
		return oi < oj
	})

	if limit > 0 && len(missing) > limit {
		missing = missing[:limit]
	}

	return missing, nil
}

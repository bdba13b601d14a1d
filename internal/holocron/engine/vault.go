package engine

import (
	"context"
	"fmt"

	"github.com/holocron/holocron-server/pkg/holocron"
)

// vaultThresholds are the activity counts required to unlock each of
// the three reward slots per category.
var vaultThresholds = map[holocron.VaultCategory][3]int{
	holocron.VaultRaid:    {2, 4, 6},
	holocron.VaultDungeon: {1, 4, 8},
	holocron.VaultWorld:   {2, 4, 8},
}

var vaultCategories = []holocron.VaultCategory{
	holocron.VaultRaid,
	holocron.VaultDungeon,
	holocron.VaultWorld,
}

// VaultStatus reports a character's Great Vault slot state.
func (e *Engine) VaultStatus(ctx context.Context, guid string) (*holocron.VaultStatus, error) {
	progress, err := e.vault.GetProgress(ctx, guid)
	if err != nil {
		return nil, fmt.Errorf("loading vault progress: %w", err)
	}

	status := &holocron.VaultStatus{CharacterGUID: guid}
	for _, category := range vaultCategories {
		count := progress[category]
		cat := holocron.VaultCategoryStatus{Category: category, Progress: count}
		for i, required := range vaultThresholds[category] {
			slot := holocron.VaultSlot{
				SlotIndex: i + 1,
				Required:  required,
				Progress:  count,
				Unlocked:  count >= required,
			}
			if slot.Unlocked {
				status.UnlockedSlots++
			}
			cat.Slots = append(cat.Slots, slot)
			status.TotalSlots++
		}
		status.Categories = append(status.Categories, cat)
	}

	return status, nil
}

// BestVaultStatus returns the roster's most advanced vault, used for
// account-level summaries. Returns an empty status when the roster is
// empty.
func (e *Engine) BestVaultStatus(ctx context.Context) (*holocron.VaultStatus, error) {
	roster, err := e.characters.ListCharacters(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading roster: %w", err)
	}

	best, err := e.VaultStatus(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, char := range roster {
		status, err := e.VaultStatus(ctx, char.GUID)
		if err != nil {
			return nil, err
		}
		if status.UnlockedSlots > best.UnlockedSlots {
			best = status
		}
	}

	return best, nil
}

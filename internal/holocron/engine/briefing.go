package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/holocron/holocron-server/pkg/holocron"
)

// DailyBriefing aggregates high-priority items from every module into
// one report.
func (e *Engine) DailyBriefing(ctx context.Context, now time.Time) (*holocron.Briefing, error) {
	opportunities, err := e.ParagonOpportunities(ctx)
	if err != nil {
		return nil, err
	}
	vault, err := e.BestVaultStatus(ctx)
	if err != nil {
		return nil, err
	}
	market, err := e.AnalyzeMarket(ctx)
	if err != nil {
		return nil, err
	}
	collections, err := e.CollectionSummary(ctx)
	if err != nil {
		return nil, err
	}

	var items []holocron.ActionItem
	for _, opp := range opportunities {
		if opp.Percent < e.opts.ParagonHighPct {
			continue
		}
		items = append(items, holocron.ActionItem{
			Priority: "High",
			Source:   "Diplomat",
			Text:     fmt.Sprintf("%s is %d%% to Paragon", opp.FactionName, opp.Percent),
			Action:   "Complete WQs",
		})
	}
	if vault.UnlockedSlots < 3 {
		items = append(items, holocron.ActionItem{
			Priority: "Medium",
			Source:   "Vault",
			Text:     "Great Vault is mostly empty",
			Action:   "Run M+ or Raid",
		})
	}

	highlights := market.Opportunities
	if len(highlights) > 3 {
		highlights = highlights[:3]
	}

	return &holocron.Briefing{
		Date:        now.Format("Monday, January 2, 2006"),
		Greeting:    greeting(now),
		ActionItems: items,
		Market:      highlights,
		Progression: holocron.ProgressionSnapshot{
			VaultUnlocked:        vault.UnlockedSlots,
			VaultTotal:           vault.TotalSlots,
			CollectionPercent:    collections.Overall.Percent,
			ParagonOpportunities: len(opportunities),
		},
	}, nil
}

func greeting(now time.Time) string {
	switch hour := now.Hour(); {
	case hour < 12:
		return "Good morning, Champion."
	case hour < 18:
		return "Good afternoon, Champion."
	default:
		return "Good evening, Champion."
	}
}

package engine

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/holocron/holocron-server/pkg/holocron"
)

// ParagonOpportunities finds factions close to their next Paragon
// reward, sorted most-complete first.
func (e *Engine) ParagonOpportunities(ctx context.Context) ([]holocron.ParagonOpportunity, error) {
	standings, err := e.reputation.AccountReputation(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading reputation standings: %w", err)
	}

	var opportunities []holocron.ParagonOpportunity
	for factionID, earned := range standings {
		faction, err := e.reputation.GetFaction(ctx, factionID)
		if err != nil {
			return nil, err
		}
		if faction == nil {
			continue
		}

		threshold := faction.ParagonThreshold
		if threshold <= 0 {
			threshold = 10000
		}
		// Standings above the cycle wrap into the current one.
		current := earned % threshold
		percent := current * 100 / threshold
		if percent < e.opts.ParagonOpportunityPct {
			continue
		}

		priority := "MEDIUM"
		if percent >= e.opts.ParagonHighPct {
			priority = "HIGH"
		}

		opportunities = append(opportunities, holocron.ParagonOpportunity{
			FactionID:   factionID,
			FactionName: faction.Name,
			Current:     current,
			Max:         threshold,
			Remaining:   threshold - current,
			Percent:     percent,
			Priority:    priority,
		})
	}

	sort.Slice(opportunities, func(i, j int) bool {
		if opportunities[i].Percent != opportunities[j].Percent {
			return opportunities[i].Percent > opportunities[j].Percent
		}
		return opportunities[i].FactionID < opportunities[j].FactionID
	})

	return opportunities, nil
}

// RecommendedQuests returns the best active world quests for a faction,
// most efficient first.
func (e *Engine) RecommendedQuests(ctx context.Context, factionID int64, limit int) ([]holocron.QuestRecommendation, error) {
	quests, err := e.reputation.ListWorldQuests(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading world quests: %w", err)
	}

	var matching []holocron.WorldQuest
	for _, wq := range quests {
		if wq.FactionID == factionID {
			matching = append(matching, wq)
		}
	}

	sort.Slice(matching, func(i, j int) bool {
		return matching[i].Efficiency() > matching[j].Efficiency()
	})

	if limit > 0 && len(matching) > limit {
		matching = matching[:limit]
	}

	now := time.Now()
	recs := make([]holocron.QuestRecommendation, 0, len(matching))
	for _, wq := range matching {
		rec := holocron.QuestRecommendation{
			QuestID:         wq.QuestID,
			Title:           wq.Title,
			Zone:            wq.ZoneName,
			RepReward:       wq.RepReward,
			TimeSec:         wq.EstimatedTimeSec,
			Efficiency:      math.Round(wq.Efficiency()*10) / 10,
			EfficiencyScore: wq.EfficiencyScore(),
			Gold:            wq.GoldReward,
		}
		if !wq.ExpiresAt.IsZero() {
			rec.ExpiresHours = wq.ExpiresAt.Sub(now).Hours()
		}
		recs = append(recs, rec)
	}

	return recs, nil
}

// DiplomatReport generates the full reputation report: Paragon
// opportunities with their recommended quests, plus every active world
// quest ranked by efficiency.
func (e *Engine) DiplomatReport(ctx context.Context) (*holocron.DiplomatReport, error) {
	opportunities, err := e.ParagonOpportunities(ctx)
	if err != nil {
		return nil, err
	}

	for i := range opportunities {
		recs, err := e.RecommendedQuests(ctx, opportunities[i].FactionID, e.opts.RecommendedQuestLimit)
		if err != nil {
			return nil, err
		}
		opportunities[i].RecommendedQuests = recs
	}

	quests, err := e.reputation.ListWorldQuests(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading world quests: %w", err)
	}

	all := make([]holocron.QuestRecommendation, 0, len(quests))
	for _, wq := range quests {
		factionName := "Unknown"
		if f, err := e.reputation.GetFaction(ctx, wq.FactionID); err == nil && f != nil {
			factionName = f.Name
		}
		all = append(all, holocron.QuestRecommendation{
			QuestID:         wq.QuestID,
			Title:           wq.Title,
			Faction:         factionName,
			Zone:            wq.ZoneName,
			RepReward:       wq.RepReward,
			TimeSec:         wq.EstimatedTimeSec,
			Efficiency:      math.Round(wq.Efficiency()*10) / 10,
			EfficiencyScore: wq.EfficiencyScore(),
			Gold:            wq.GoldReward,
		})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Efficiency > all[j].Efficiency })

	return &holocron.DiplomatReport{
		Opportunities: opportunities,
		AllQuests:     all,
		Timestamp:     time.Now(),
	}, nil
}

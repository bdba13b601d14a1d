package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/holocron/holocron-server/pkg/holocron"
)

// goblinTitles maps score thresholds to gold-making ranks, lowest
// first so later entries override earlier ones.
var goblinTitles = []struct {
	threshold int
	title     string
}{
	{0, "Peon"},
	{25, "Grunt"},
	{50, "Merchant"},
	{75, "Baron"},
	{90, "Trade Prince"},
}

const tradePrinceWeeklyAvg = 100000

// AnalyzeMarket evaluates every known recipe against current prices
// and ranks crafting opportunities by score.
func (e *Engine) AnalyzeMarket(ctx context.Context) (*holocron.MarketAnalysis, error) {
	recipes, err := e.market.ListRecipes(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading recipes: %w", err)
	}
	prices, err := e.market.AllPrices(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading prices: %w", err)
	}

	var opportunities []holocron.CraftingOpportunity
	for _, r := range recipes {
		cost := 0
		for _, reagent := range r.Reagents {
			cost += prices[reagent.ItemID].MarketValue * reagent.Quantity
		}

		result := prices[r.ResultItemID]
		outputQty := r.OutputQuantity
		if outputQty == 0 {
			outputQty = 1
		}

		profit := result.MarketValue*outputQty - cost
		margin := 0
		if cost > 0 {
			margin = profit * 100 / cost
		}
		// High profit items that never sell get lower priority.
		score := int(float64(profit) * result.SaleRate)

		opportunities = append(opportunities, holocron.CraftingOpportunity{
			RecipeID:        r.ID,
			RecipeName:      r.Name,
			OutputItem:      result.Name,
			ItemType:        result.ItemType,
			CraftingCost:    cost,
			MarketValue:     result.MarketValue,
			Profit:          profit,
			ProfitMarginPct: margin,
			SaleRate:        result.SaleRate,
			Score:           score,
			Recommendation:  craftRecommendation(profit, result.SaleRate),
		})
	}

	sort.Slice(opportunities, func(i, j int) bool {
		if opportunities[i].Score != opportunities[j].Score {
			return opportunities[i].Score > opportunities[j].Score
		}
		return opportunities[i].RecipeID < opportunities[j].RecipeID
	})

	total := 0
	for _, o := range opportunities {
		if o.Profit > 0 {
			total += o.Profit
		}
	}

	return &holocron.MarketAnalysis{
		Opportunities:        opportunities,
		TotalPotentialProfit: total,
		Timestamp:            time.Now(),
	}, nil
}

func craftRecommendation(profit int, saleRate float64) string {
	if profit <= 0 {
		return "DO NOT CRAFT (Loss)"
	}
	if saleRate >= 0.5 {
		switch {
		case profit > 500:
			return "CRAFT IMMEDIATELY (High Profit/High Vol)"
		case profit > 100:
			return "Craft (Good Profit)"
		default:
			return "Craft (Low Margin)"
		}
	}
	if profit > 1000 {
		return "Craft 1-2 (High Profit/Low Vol)"
	}
	return "Avoid (Low Vol/Low Profit)"
}

// SniperList returns auctions listed below market value, best flip
// first.
func (e *Engine) SniperList(ctx context.Context) ([]holocron.SniperHit, error) {
	candidates, err := e.market.SniperCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading auction listings: %w", err)
	}

	var hits []holocron.SniperHit
	for _, c := range candidates {
		if c.MarketValue <= c.ListedPrice {
			continue
		}
		c.PotentialProfit = c.MarketValue - c.ListedPrice
		hits = append(hits, c)
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].PotentialProfit != hits[j].PotentialProfit {
			return hits[i].PotentialProfit > hits[j].PotentialProfit
		}
		return hits[i].ItemID < hits[j].ItemID
	})

	return hits, nil
}

// GoblinScore rates weekly gold-making performance: up to 50 points
// for income (capped at 20k/week), up to 30 for margin, and 20 for
// activity.
func GoblinScore(weeklyIncome, profitMarginPct int) holocron.GoblinScore {
	incomeScore := weeklyIncome * 50 / 20000
	if incomeScore > 50 {
		incomeScore = 50
	}
	marginScore := profitMarginPct
	if marginScore > 30 {
		marginScore = 30
	}
	if marginScore < 0 {
		marginScore = 0
	}
	const activityScore = 20

	total := incomeScore + marginScore + activityScore
	if total > 100 {
		total = 100
	}

	title := goblinTitles[0].title
	for _, t := range goblinTitles {
		if total >= t.threshold {
			title = t.title
		}
	}

	return holocron.GoblinScore{
		Score:      total,
		Title:      title,
		Comparison: fmt.Sprintf("You are earning %d%% of a Trade Prince's weekly average.", weeklyIncome*100/tradePrinceWeeklyAvg),
	}
}

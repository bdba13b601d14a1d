// Package holocron contains the core types for the Holocron account server.
package holocron

import "time"

// ============================================
// ROSTER TYPES
// ============================================

// Character represents one character on the account roster.
type Character struct {
	GUID         string `json:"guid"`
	Name         string `json:"name"`
	Realm        string `json:"realm,omitempty"`
	Class        string `json:"class,omitempty"`
	Race         string `json:"race,omitempty"`
	Level        int    `json:"level,omitempty"`
	LastSeenZone string `json:"last_seen_zone,omitempty"`
}

// ============================================
// QUEST / CAMPAIGN TYPES
// ============================================

// Quest is a quest definition from the reference database.
type Quest struct {
	ID    int64  `json:"quest_id"`
	Title string `json:"title"`
}

// QuestDependency is one prerequisite edge in the quest graph.
type QuestDependency struct {
	QuestID         int64 `json:"quest_id"`
	RequiredQuestID int64 `json:"required_quest_id"`
}

// Campaign is an ordered chain of quests.
type Campaign struct {
	ID       int64   `json:"campaign_id"`
	Name     string  `json:"name"`
	QuestIDs []int64 `json:"quest_ids"`
}

// CampaignState classifies a character's progress through a campaign.
type CampaignState string

const (
	CampaignNotStarted CampaignState = "not_started"
	CampaignInProgress CampaignState = "in_progress"
	CampaignLocked     CampaignState = "locked"
	CampaignDone       CampaignState = "done"
)

// CampaignStatus is one character's status for one campaign.
type CampaignStatus struct {
	CampaignID     int64         `json:"campaign_id"`
	Name           string        `json:"name"`
	Percent        int           `json:"percent"`
	State          CampaignState `json:"state"`
	StatusText     string        `json:"status_text"`
	StepLabel      string        `json:"step_label"`
	NextQuestID    int64         `json:"next_quest_id,omitempty"`
	NextQuestTitle string        `json:"next_quest_title,omitempty"`
}

// CharacterCampaigns is one row of the campaign matrix.
type CharacterCampaigns struct {
	Character Character        `json:"character"`
	Campaigns []CampaignStatus `json:"campaigns"`
}

// CampaignSummary aggregates one campaign across the whole roster.
type CampaignSummary struct {
	CampaignID int64  `json:"campaign_id"`
	Name       string `json:"name"`
	Progress   int    `json:"progress"`
	Status     string `json:"status"`
}

// BlockerState classifies a blocker query result.
type BlockerState string

const (
	BlockerComplete BlockerState = "complete"
	BlockerReady    BlockerState = "ready"
	BlockerBlocked  BlockerState = "blocked"
	BlockerCycle    BlockerState = "cycle"
	BlockerUnknown  BlockerState = "unknown"
)

// BlockerRequest asks which quest blocks progress toward a target.
type BlockerRequest struct {
	// Quest is a numeric quest ID or a (partial) quest title.
	Quest string `json:"quest"`
	// Completed supplements the stored history with extra quest IDs.
	Completed []int64 `json:"completed,omitempty"`
	// CharacterGUID pulls completion history for a specific character.
	CharacterGUID string `json:"character_guid,omitempty"`
}

// BlockerReport is the blocker query result.
type BlockerReport struct {
	TargetQuestID   int64        `json:"target_quest_id"`
	BlockingQuestID int64        `json:"blocking_quest_id,omitempty"`
	BlockingTitle   string       `json:"blocking_title,omitempty"`
	State           BlockerState `json:"state"`
	Message         string       `json:"message"`
}

// CampaignReport is the campaign matrix plus roster-wide summaries.
type CampaignReport struct {
	Campaigns []CampaignSummary    `json:"campaigns"`
	Matrix    []CharacterCampaigns `json:"matrix"`
}

// ============================================
// REPUTATION TYPES
// ============================================

// Faction is a reputation faction definition.
type Faction struct {
	ID               int64  `json:"faction_id"`
	Name             string `json:"name"`
	Expansion        string `json:"expansion,omitempty"`
	ParagonThreshold int    `json:"paragon_threshold"`
}

// ParagonOpportunity is a faction close to its next Paragon reward.
type ParagonOpportunity struct {
	FactionID         int64                 `json:"faction_id"`
	FactionName       string                `json:"faction_name"`
	Current           int                   `json:"current"`
	Max               int                   `json:"max"`
	Remaining         int                   `json:"remaining"`
	Percent           int                   `json:"percent"`
	Priority          string                `json:"priority"`
	RecommendedQuests []QuestRecommendation `json:"recommended_quests,omitempty"`
}

// WorldQuest is an active world quest rewarding faction reputation.
type WorldQuest struct {
	QuestID          int64     `json:"quest_id"`
	Title            string    `json:"title"`
	ZoneID           int64     `json:"zone_id,omitempty"`
	ZoneName         string    `json:"zone_name,omitempty"`
	FactionID        int64     `json:"faction_id"`
	RepReward        int       `json:"rep_reward"`
	EstimatedTimeSec int       `json:"estimated_time_sec"`
	GoldReward       int       `json:"gold_reward,omitempty"`
	ExpiresAt        time.Time `json:"expires_at,omitempty"`
}

// Efficiency returns reputation gained per minute.
func (wq WorldQuest) Efficiency() float64 {
	if wq.EstimatedTimeSec == 0 {
		return 0
	}
	return float64(wq.RepReward) / float64(wq.EstimatedTimeSec) * 60
}

// EfficiencyScore bands the efficiency into a label.
func (wq WorldQuest) EfficiencyScore() string {
	switch eff := wq.Efficiency(); {
	case eff >= 400:
		return "Excellent"
	case eff >= 200:
		return "Good"
	case eff >= 100:
		return "Average"
	default:
		return "Poor"
	}
}

// QuestRecommendation is a world quest ranked for a faction.
type QuestRecommendation struct {
	QuestID         int64   `json:"quest_id"`
	Title           string  `json:"title"`
	Faction         string  `json:"faction,omitempty"`
	Zone            string  `json:"zone"`
	RepReward       int     `json:"rep_reward"`
	TimeSec         int     `json:"time_seconds"`
	Efficiency      float64 `json:"efficiency"`
	EfficiencyScore string  `json:"efficiency_score"`
	Gold            int     `json:"gold"`
	ExpiresHours    float64 `json:"expires_hours,omitempty"`
}

// DiplomatReport bundles opportunities with the full ranked quest list.
type DiplomatReport struct {
	Opportunities []ParagonOpportunity  `json:"opportunities"`
	AllQuests     []QuestRecommendation `json:"all_quests"`
	Timestamp     time.Time             `json:"timestamp"`
}

// ============================================
// MARKET TYPES
// ============================================

// ItemPrice is the current market pricing for one item.
type ItemPrice struct {
	ItemID      int64   `json:"item_id"`
	Name        string  `json:"name"`
	ItemType    string  `json:"item_type,omitempty"`
	MarketValue int     `json:"market_value"`
	MinBuyout   int     `json:"min_buyout"`
	RegionAvg   int     `json:"region_avg,omitempty"`
	SaleRate    float64 `json:"sale_rate"`
}

// Reagent is one input of a crafting recipe.
type Reagent struct {
	ItemID   int64 `json:"item_id"`
	Quantity int   `json:"quantity"`
}

// CraftRecipe is a profession recipe with its reagent list.
type CraftRecipe struct {
	ID             int64     `json:"recipe_id"`
	Name           string    `json:"name"`
	Profession     string    `json:"profession,omitempty"`
	Reagents       []Reagent `json:"reagents"`
	ResultItemID   int64     `json:"result_item_id"`
	OutputQuantity int       `json:"output_quantity"`
}

// CraftingOpportunity is the profitability analysis for one recipe.
type CraftingOpportunity struct {
	RecipeID        int64   `json:"recipe_id"`
	RecipeName      string  `json:"recipe_name"`
	OutputItem      string  `json:"output_item"`
	ItemType        string  `json:"type,omitempty"`
	CraftingCost    int     `json:"crafting_cost"`
	MarketValue     int     `json:"market_value"`
	Profit          int     `json:"profit"`
	ProfitMarginPct int     `json:"profit_margin"`
	SaleRate        float64 `json:"sale_rate"`
	Score           int     `json:"score"`
	Recommendation  string  `json:"recommendation"`
}

// MarketAnalysis is the full market scan result.
type MarketAnalysis struct {
	Opportunities        []CraftingOpportunity `json:"opportunities"`
	TotalPotentialProfit int                   `json:"total_potential_profit"`
	Timestamp            time.Time             `json:"timestamp"`
}

// SniperHit is an auction listed below market value.
type SniperHit struct {
	ItemID          int64  `json:"item_id"`
	Name            string `json:"item"`
	ListedPrice     int    `json:"listed_price"`
	MarketValue     int    `json:"market_value"`
	PotentialProfit int    `json:"potential_profit"`
}

// GoblinScore rates account-wide gold-making performance.
type GoblinScore struct {
	Score      int    `json:"score"`
	Title      string `json:"title"`
	Comparison string `json:"comparison"`
}

// ============================================
// TRAVEL TYPES
// ============================================

// Zone is a travel graph node.
type Zone struct {
	ID        int64  `json:"zone_id"`
	Name      string `json:"name"`
	Expansion string `json:"expansion,omitempty"`
}

// TravelEdge is a directed travel connection between two zones.
type TravelEdge struct {
	SourceZoneID int64  `json:"source_zone_id"`
	DestZoneID   int64  `json:"dest_zone_id"`
	Method       string `json:"method"`
	TimeSec      int    `json:"travel_time_sec"`
	Requirement  string `json:"requirement,omitempty"`
}

// RouteRequest asks for the fastest route between two zones.
type RouteRequest struct {
	SourceZoneID         int64  `json:"source"`
	DestZoneID           int64  `json:"dest"`
	CharacterClass       string `json:"char_class,omitempty"`
	HearthstoneAvailable bool   `json:"hearthstone"`
}

// TravelStep is one hop of a computed route.
type TravelStep struct {
	FromZone string `json:"from_zone"`
	ToZone   string `json:"to_zone"`
	Method   string `json:"method"`
	TimeSec  int    `json:"time"`
}

// Route is a computed travel route.
type Route struct {
	Found        bool         `json:"success"`
	Path         []int64      `json:"path,omitempty"`
	Steps        []TravelStep `json:"steps,omitempty"`
	TotalTimeSec int          `json:"total_time"`
	Source       string       `json:"source,omitempty"`
	Destination  string       `json:"destination,omitempty"`
	Reason       string       `json:"error,omitempty"`
}

// ReachableZone is a zone reachable within a time budget.
type ReachableZone struct {
	ZoneID   int64  `json:"zone_id"`
	ZoneName string `json:"zone_name"`
	TimeSec  int    `json:"time"`
	Steps    int    `json:"steps"`
}

// ============================================
// COLLECTION TYPES
// ============================================

// CollectionType is a collectible category.
type CollectionType string

const (
	CollectionMount CollectionType = "Mount"
	CollectionToy   CollectionType = "Toy"
	CollectionSpell CollectionType = "Spell"
	CollectionPet   CollectionType = "Battle Pet"
)

// Collectible is one collectible item definition.
type Collectible struct {
	ItemID     int64          `json:"id"`
	Name       string         `json:"name"`
	Type       CollectionType `json:"collection_type"`
	Source     string         `json:"source"`
	Difficulty string         `json:"difficulty"`
	Expansion  string         `json:"expansion"`
}

// CollectionProgress is progress stats for one collection slice.
type CollectionProgress struct {
	Type                CollectionType `json:"type,omitempty"`
	Total               int            `json:"total"`
	Owned               int            `json:"owned"`
	Missing             int            `json:"missing"`
	Percent             int            `json:"percent"`
	MissingByDifficulty map[string]int `json:"missing_by_difficulty"`
}

// CollectionSummary is the account-wide collection overview.
type CollectionSummary struct {
	Mounts  CollectionProgress `json:"mounts"`
	Toys    CollectionProgress `json:"toys"`
	Spells  CollectionProgress `json:"spells"`
	Overall CollectionProgress `json:"overall"`
}

// ============================================
// VAULT TYPES
// ============================================

// VaultCategory is one row of the Great Vault.
type VaultCategory string

const (
	VaultRaid    VaultCategory = "Raid"
	VaultDungeon VaultCategory = "Dungeon"
	VaultWorld   VaultCategory = "World"
)

// VaultSlot is one reward slot within a vault category.
type VaultSlot struct {
	SlotIndex int  `json:"slot"`
	Required  int  `json:"required"`
	Progress  int  `json:"progress"`
	Unlocked  bool `json:"unlocked"`
}

// VaultCategoryStatus is the slot state for one vault category.
type VaultCategoryStatus struct {
	Category VaultCategory `json:"category"`
	Progress int           `json:"progress"`
	Slots    []VaultSlot   `json:"slots"`
}

// VaultStatus is a character's Great Vault state.
type VaultStatus struct {
	CharacterGUID string                `json:"character_guid,omitempty"`
	Categories    []VaultCategoryStatus `json:"categories"`
	UnlockedSlots int                   `json:"unlocked_slots"`
	TotalSlots    int                   `json:"total_slots"`
}

// ============================================
// BRIEFING TYPES
// ============================================

// ActionItem is one prioritized entry of the daily briefing.
type ActionItem struct {
	Priority string `json:"priority"`
	Source   string `json:"source"`
	Text     string `json:"text"`
	Action   string `json:"action"`
}

// ProgressionSnapshot is the briefing's account progression overview.
type ProgressionSnapshot struct {
	VaultUnlocked        int `json:"vault_unlocked"`
	VaultTotal           int `json:"vault_total"`
	CollectionPercent    int `json:"collection_percent"`
	ParagonOpportunities int `json:"paragon_opportunities"`
}

// Briefing is the aggregated daily report.
type Briefing struct {
	Date        string                `json:"date"`
	Greeting    string                `json:"greeting"`
	ActionItems []ActionItem          `json:"action_items"`
	Market      []CraftingOpportunity `json:"market"`
	Progression ProgressionSnapshot   `json:"progression"`
}

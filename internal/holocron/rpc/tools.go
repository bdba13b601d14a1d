package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/holocron/holocron-server/pkg/holocron"
)

// ToolDefinition describes an exposed tool.
type ToolDefinition struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	InputSchema JSONSchema `json:"inputSchema"`
}

// JSONSchema is a simplified JSON Schema representation.
type JSONSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties,omitempty"`
	Required   []string            `json:"required,omitempty"`
}

// Property describes a schema property.
type Property struct {
	Type                 string              `json:"type,omitempty"`
	Description          string              `json:"description,omitempty"`
	Default              any                 `json:"default,omitempty"`
	Enum                 []string            `json:"enum,omitempty"`
	Minimum              *float64            `json:"minimum,omitempty"`
	Maximum              *float64            `json:"maximum,omitempty"`
	Items                *Property           `json:"items,omitempty"`
	Properties           map[string]Property `json:"properties,omitempty"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties *Property           `json:"additionalProperties,omitempty"`
}

// GetToolDefinitions returns all tool definitions.
func GetToolDefinitions() []ToolDefinition {
	return []ToolDefinition{
		questBlockerTool(),
		campaignStatusTool(),
		diplomatOpportunitiesTool(),
		recommendedQuestsTool(),
		marketAnalysisTool(),
		sniperListTool(),
		travelRouteTool(),
		reachableZonesTool(),
		collectionSummaryTool(),
		missingCollectiblesTool(),
		vaultStatusTool(),
		dailyBriefingTool(),
	}
}

func questBlockerTool() ToolDefinition {
	return ToolDefinition{
		Name:        "quest_blocker",
		Description: "Find the earliest uncompleted prerequisite blocking a quest. Accepts a quest ID or a partial quest title.",
		InputSchema: JSONSchema{
			Type: "object",
			Properties: map[string]Property{
				"quest": {
					Type:        "string",
					Description: "Quest ID or (partial) quest title",
				},
				"completed": {
					Type:        "array",
					Description: "Extra completed quest IDs to supplement the stored history",
					Items:       &Property{Type: "integer"},
				},
				"character_guid": {
					Type:        "string",
					Description: "Character GUID whose completion history to use",
				},
			},
			Required: []string{"quest"},
		},
	}
}

func campaignStatusTool() ToolDefinition {
	return ToolDefinition{
		Name:        "campaign_status",
		Description: "Campaign progress matrix for every character on the roster, plus roster-wide summaries.",
		InputSchema: JSONSchema{Type: "object"},
	}
}

func diplomatOpportunitiesTool() ToolDefinition {
	return ToolDefinition{
		Name:        "diplomat_opportunities",
		Description: "Factions close to their next Paragon reward, with recommended world quests for each.",
		InputSchema: JSONSchema{Type: "object"},
	}
}

func recommendedQuestsTool() ToolDefinition {
	minLimit := 1.0
	maxLimit := 50.0

	return ToolDefinition{
		Name:        "recommended_quests",
		Description: "Active world quests for a faction, ranked by reputation per minute.",
		InputSchema: JSONSchema{
			Type: "object",
			Properties: map[string]Property{
				"faction_id": {
					Type:        "integer",
					Description: "Faction ID to rank quests for",
				},
				"limit": {
					Type:        "integer",
					Description: "Max quests to return",
					Default:     5,
					Minimum:     &minLimit,
					Maximum:     &maxLimit,
				},
			},
			Required: []string{"faction_id"},
		},
	}
}

func marketAnalysisTool() ToolDefinition {
	return ToolDefinition{
		Name:        "market_analysis",
		Description: "Profitability analysis for every known recipe against current market prices.",
		InputSchema: JSONSchema{Type: "object"},
	}
}

func sniperListTool() ToolDefinition {
	return ToolDefinition{
		Name:        "sniper_list",
		Description: "Auction listings priced below market value, sorted by potential profit.",
		InputSchema: JSONSchema{Type: "object"},
	}
}

func travelRouteTool() ToolDefinition {
	return ToolDefinition{
		Name:        "travel_route",
		Description: "Fastest travel route between two zones, honoring class-restricted methods and hearthstone availability.",
		InputSchema: JSONSchema{
			Type: "object",
			Properties: map[string]Property{
				"source": {
					Type:        "integer",
					Description: "Source zone ID",
				},
				"dest": {
					Type:        "integer",
					Description: "Destination zone ID",
				},
				"char_class": {
					Type:        "string",
					Description: "Character class, unlocks class-only travel methods",
				},
				"hearthstone": {
					Type:        "boolean",
					Description: "Whether the hearthstone is off cooldown",
					Default:     true,
				},
			},
			Required: []string{"source", "dest"},
		},
	}
}

func reachableZonesTool() ToolDefinition {
	return ToolDefinition{
		Name:        "reachable_zones",
		Description: "All zones reachable from a source zone within a travel time budget.",
		InputSchema: JSONSchema{
			Type: "object",
			Properties: map[string]Property{
				"source": {
					Type:        "integer",
					Description: "Source zone ID",
				},
				"max_time": {
					Type:        "integer",
					Description: "Travel time budget in seconds",
					Default:     300,
				},
				"char_class": {
					Type:        "string",
					Description: "Character class, unlocks class-only travel methods",
				},
				"hearthstone": {
					Type:        "boolean",
					Description: "Whether the hearthstone is off cooldown",
					Default:     true,
				},
			},
			Required: []string{"source"},
		},
	}
}

func collectionSummaryTool() ToolDefinition {
	return ToolDefinition{
		Name:        "collection_summary",
		Description: "Account-wide mount, toy, and spell collection progress with missing counts by difficulty.",
		InputSchema: JSONSchema{Type: "object"},
	}
}

func missingCollectiblesTool() ToolDefinition {
	minLimit := 1.0
	maxLimit := 100.0

	return ToolDefinition{
		Name:        "missing_collectibles",
		Description: "Uncollected items of a given type, easiest sources first.",
		InputSchema: JSONSchema{
			Type: "object",
			Properties: map[string]Property{
				"type": {
					Type:        "string",
					Description: "Collection type",
					Enum:        []string{"Mount", "Toy", "Spell"},
					Default:     "Mount",
				},
				"limit": {
					Type:        "integer",
					Description: "Max items to return",
					Default:     10,
					Minimum:     &minLimit,
					Maximum:     &maxLimit,
				},
			},
		},
	}
}

func vaultStatusTool() ToolDefinition {
	return ToolDefinition{
		Name:        "vault_status",
		Description: "Great Vault slot progress for one character, or the best-progressed character when no GUID is given.",
		InputSchema: JSONSchema{
			Type: "object",
			Properties: map[string]Property{
				"character_guid": {
					Type:        "string",
					Description: "Character GUID, omit for the roster's best vault",
				},
			},
		},
	}
}

func dailyBriefingTool() ToolDefinition {
	return ToolDefinition{
		Name:        "daily_briefing",
		Description: "Aggregated daily report: prioritized action items, top market opportunities, and account progression.",
		InputSchema: JSONSchema{Type: "object"},
	}
}

// callTool dispatches a tool call to the engine.
func (s *Server) callTool(ctx context.Context, name string, args json.RawMessage) (any, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	case "quest_blocker":
		var req holocron.BlockerRequest
		if err := json.Unmarshal(args, &req); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		if req.Quest == "" {
			return nil, fmt.Errorf("quest is required")
		}
		return s.engine.QuestBlocker(ctx, req)

	case "campaign_status":
		return s.engine.CampaignReport(ctx)

	case "diplomat_opportunities":
		return s.engine.DiplomatReport(ctx)

	case "recommended_quests":
		var p struct {
			FactionID int64 `json:"faction_id"`
			Limit     int   `json:"limit"`
		}
		if err := json.Unmarshal(args, &p); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		if p.FactionID == 0 {
			return nil, fmt.Errorf("faction_id is required")
		}
		if p.Limit <= 0 {
			p.Limit = 5
		}
		return s.engine.RecommendedQuests(ctx, p.FactionID, p.Limit)

	case "market_analysis":
		return s.engine.AnalyzeMarket(ctx)

	case "sniper_list":
		return s.engine.SniperList(ctx)

	case "travel_route":
		var p struct {
			Source      int64  `json:"source"`
			Dest        int64  `json:"dest"`
			CharClass   string `json:"char_class"`
			Hearthstone *bool  `json:"hearthstone"`
		}
		if err := json.Unmarshal(args, &p); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		req := holocron.RouteRequest{
			SourceZoneID:         p.Source,
			DestZoneID:           p.Dest,
			CharacterClass:       p.CharClass,
			HearthstoneAvailable: p.Hearthstone == nil || *p.Hearthstone,
		}
		return s.engine.FindRoute(ctx, req)

	case "reachable_zones":
		var p struct {
			Source      int64  `json:"source"`
			MaxTime     int    `json:"max_time"`
			CharClass   string `json:"char_class"`
			Hearthstone *bool  `json:"hearthstone"`
		}
		if err := json.Unmarshal(args, &p); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		if p.MaxTime <= 0 {
			p.MaxTime = 300
		}
		hearthstone := p.Hearthstone == nil || *p.Hearthstone
		return s.engine.ReachableZones(ctx, p.Source, p.MaxTime, p.CharClass, hearthstone)

	case "collection_summary":
		return s.engine.CollectionSummary(ctx)

	case "missing_collectibles":
		var p struct {
			Type  string `json:"type"`
			Limit int    `json:"limit"`
		}
		if err := json.Unmarshal(args, &p); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		if p.Type == "" {
			p.Type = string(holocron.CollectionMount)
		}
		if p.Limit <= 0 {
			p.Limit = 10
		}
		return s.engine.MissingCollectibles(ctx, holocron.CollectionType(p.Type), p.Limit)

	case "vault_status":
		var p struct {
			CharacterGUID string `json:"character_guid"`
		}
		if err := json.Unmarshal(args, &p); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		if p.CharacterGUID == "" {
			return s.engine.BestVaultStatus(ctx)
		}
		return s.engine.VaultStatus(ctx, p.CharacterGUID)

	case "daily_briefing":
		return s.engine.DailyBriefing(ctx, time.Now())

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

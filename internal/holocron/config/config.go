// Package config loads server configuration from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the server configuration.
type Config struct {
	// DBPath is the SQLite database file, or ":memory:".
	DBPath string `yaml:"db_path"`
	// WatchDir is the SavedVariables directory the bridge watches.
	// Empty disables the bridge.
	WatchDir string `yaml:"watch_dir"`
	// Verbose enables debug logging.
	Verbose bool `yaml:"verbose"`

	Diplomat DiplomatConfig `yaml:"diplomat"`
}

// DiplomatConfig tunes the reputation analysis.
type DiplomatConfig struct {
	// OpportunityPct is the Paragon cycle percentage at which a faction
	// becomes an opportunity.
	OpportunityPct int `yaml:"opportunity_pct"`
	// HighPriorityPct is the percentage at which it gets HIGH priority.
	HighPriorityPct int `yaml:"high_priority_pct"`
	// RecommendedQuestLimit caps per-faction quest recommendations.
	RecommendedQuestLimit int `yaml:"recommended_quest_limit"`
}

// Default returns the standard configuration.
func Default() Config {
	return Config{
		DBPath: "holocron.db",
		Diplomat: DiplomatConfig{
			OpportunityPct:        80,
			HighPriorityPct:       90,
			RecommendedQuestLimit: 5,
		},
	}
}

// Load reads a YAML config file, filling unset fields with defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.DBPath == "" {
		cfg.DBPath = "holocron.db"
	}
	if cfg.Diplomat.OpportunityPct == 0 {
		cfg.Diplomat.OpportunityPct = 80
	}
	if cfg.Diplomat.HighPriorityPct == 0 {
		cfg.Diplomat.HighPriorityPct = 90
	}
	if cfg.Diplomat.RecommendedQuestLimit == 0 {
		cfg.Diplomat.RecommendedQuestLimit = 5
	}

	return cfg, nil
}

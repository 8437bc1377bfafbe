package query

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings are the user toggles deciding which facets of an item go into
// the default trade query.
type Settings struct {
	// ItemLevel keeps the item level of non-gem items.
	ItemLevel bool `yaml:"item_level"`
	// MinLinks keeps the sockets when the largest link group reaches it.
	// Zero never keeps sockets.
	MinLinks int `yaml:"min_links"`
	// Type keeps the base type of rare items.
	Type bool `yaml:"type"`
	// Attack keeps weapon properties and damage figures.
	Attack bool `yaml:"attack"`
	// Defense keeps armour, evasion, energy shield, ward and block.
	Defense bool `yaml:"defense"`
	// Miscs keeps quality, gem, map and league properties.
	Miscs bool `yaml:"miscs"`

	// StatsEnchants selects every enchant stat.
	StatsEnchants bool `yaml:"stats_enchants"`
	// StatsUnique selects every stat of a unique item.
	StatsUnique bool `yaml:"stats_unique"`
	// StatsPseudo selects every pseudo stat.
	StatsPseudo bool `yaml:"stats_pseudo"`
	// Stats selects stats by key ("explicit.stat_3299347043"); an entry
	// wins over the category defaults above.
	Stats map[string]bool `yaml:"stats"`
}

// DefaultSettings returns the settings used when no file is given.
func DefaultSettings() Settings {
	return Settings{
		ItemLevel:     true,
		MinLinks:      5,
		Type:          false,
		Attack:        true,
		Defense:       true,
		Miscs:         true,
		StatsEnchants: true,
		StatsUnique:   true,
		StatsPseudo:   true,
		Stats:         map[string]bool{},
	}
}

// LoadSettings reads settings from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadSettings(path string) (Settings, error) {
	cfg := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading settings %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing settings %s: %w", path, err)
	}
	if cfg.Stats == nil {
		cfg.Stats = map[string]bool{}
	}
	return cfg, nil
}

package refdata

import (
	"sort"
	"strings"

	"poe-overlay/internal/item"
)

// StatMod scopes a stat template.
type StatMod string

const (
	StatModNone StatMod = ""
	// StatModLocal templates apply to the item carrying them.
	StatModLocal StatMod = "local"
	// StatModMaps templates only appear on maps.
	StatModMaps StatMod = "maps"
)

// LocalFlag names an item property whose presence decides between the
// local and the global reading of identically worded stats. The set is
// closed; the stat matcher carries one boolean per flag.
type LocalFlag string

const (
	LocalAttackSpeed          LocalFlag = "attack_speed"
	LocalCriticalStrikeChance LocalFlag = "critical_strike_chance"
	LocalAccuracyRating       LocalFlag = "accuracy_rating"
	LocalPhysicalDamage       LocalFlag = "physical_damage"
	LocalArmour               LocalFlag = "armour"
	LocalEvasionRating        LocalFlag = "evasion_rating"
	LocalEnergyShield         LocalFlag = "energy_shield"
	LocalWard                 LocalFlag = "ward"
	LocalBlockChance          LocalFlag = "block_chance"
)

// LocalFlags lists the closed flag set.
var LocalFlags = []LocalFlag{
	LocalAttackSpeed,
	LocalCriticalStrikeChance,
	LocalAccuracyRating,
	LocalPhysicalDamage,
	LocalArmour,
	LocalEvasionRating,
	LocalEnergyShield,
	LocalWard,
	LocalBlockChance,
}

// StatDesc is one localized phrasing of a stat. Predicate is the value
// condition ("#", "1", "#|-1"); Source is either an anchored regex or a
// display template with # slots.
type StatDesc struct {
	Predicate string
	Source    string
}

// Negative reports phrasings that print a negated value ("reduced").
func (d StatDesc) Negative() bool {
	return strings.Contains(d.Predicate, "|-")
}

// StatTemplate is one trade stat with its phrasings per language.
type StatTemplate struct {
	TradeID string
	ID      string
	Mod     StatMod
	Negated bool
	Option  bool
	GenType item.StatGenType
	Related []string
	Text    map[Language][]StatDesc
}

// StatTable is the ordered template list of one stat type.
type StatTable struct {
	Type    item.StatType
	Entries []*StatTemplate
	byTrade map[string]*StatTemplate
}

// NewStatTable indexes entries, keeping their order.
func NewStatTable(typ item.StatType, entries []*StatTemplate) *StatTable {
	t := &StatTable{Type: typ, Entries: entries, byTrade: make(map[string]*StatTemplate, len(entries))}
	for _, e := range entries {
		t.byTrade[e.TradeID] = e
	}
	return t
}

// Get returns the template of a trade id.
func (t *StatTable) Get(tradeID string) (*StatTemplate, bool) {
	s, ok := t.byTrade[tradeID]
	return s, ok
}

// FindByID returns the first template with the canonical id.
func (t *StatTable) FindByID(id string) (*StatTemplate, bool) {
	for _, e := range t.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// Stats serves the stat template corpus together with its local and
// indistinguishable lookup tables. It is read-only once built.
type Stats struct {
	tables            map[item.StatType]*StatTable
	local             map[item.StatType]map[string]LocalFlag
	indistinguishable map[item.StatType]map[string][]string
}

// NewStats assembles the corpus. Nil maps are treated as empty.
func NewStats(tables map[item.StatType]*StatTable, local map[item.StatType]map[string]LocalFlag, indistinguishable map[item.StatType]map[string][]string) *Stats {
	if tables == nil {
		tables = map[item.StatType]*StatTable{}
	}
	return &Stats{tables: tables, local: local, indistinguishable: indistinguishable}
}

// Provide returns the templates of a stat type; unknown types give an
// empty table.
func (s *Stats) Provide(typ item.StatType) *StatTable {
	if t, ok := s.tables[typ]; ok {
		return t
	}
	return NewStatTable(typ, nil)
}

// Local returns trade id → disambiguating flag for a stat type.
func (s *Stats) Local(typ item.StatType) map[string]LocalFlag {
	return s.local[typ]
}

// Indistinguishable returns trade id → trade ids rendering identically.
func (s *Stats) Indistinguishable(typ item.StatType) map[string][]string {
	return s.indistinguishable[typ]
}

// descsFromMaps converts the YAML shape [{predicate: source}] into
// ordered StatDescs. Keys of one map are sorted for a stable order.
func descsFromMaps(in []map[string]string) []StatDesc {
	var out []StatDesc
	for _, m := range in {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			out = append(out, StatDesc{Predicate: k, Source: m[k]})
		}
	}
	return out
}

package processor

import (
	"math"
	"slices"

	"poe-overlay/internal/item"

	"github.com/rs/zerolog/log"
)

// Combination is how a source stat adds to its pseudo aggregate.
type Combination int

const (
	// Addition adds the value times the source multiplier.
	Addition Combination = iota
	// MinimumRequired sources must all be present; the smallest of them is
	// added once. A missing one drops the whole pseudo stat.
	MinimumRequired
	// Addition5Every10 adds 5 for every full 10.
	Addition5Every10
	// Addition1Every2 adds 1 for every full 2.
	Addition1Every2
)

func (c Combination) String() string {
	switch c {
	case Addition:
		return "addition"
	case MinimumRequired:
		return "minimum_required"
	case Addition5Every10:
		return "addition_5_every_10"
	case Addition1Every2:
		return "addition_1_every_2"
	}
	return "unknown"
}

// PseudoSource references a stat folded into a pseudo stat.
type PseudoSource struct {
	ID string
	// Type restricts the source to one provenance; empty matches any.
	Type item.StatType
	// Count multiplies the value; zero means 1.
	Count   float64
	Combine Combination
}

// PseudoModifier defines one pseudo stat, either from source stats or from
// an item property.
type PseudoModifier struct {
	ID   string
	Mods []PseudoSource
	Prop func(*item.Item) *item.Value
	// Count is the number of source stats needed before the pseudo stat
	// is emitted; zero means 1.
	Count int
}

func attributeSources(own string) []PseudoSource {
	return []PseudoSource{{ID: own}, {ID: "additional_all_attributes"}}
}

var elementalResistances = []PseudoSource{
	{ID: "base_fire_damage_resistance_%"},
	{ID: "base_cold_damage_resistance_%"},
	{ID: "base_lightning_damage_resistance_%"},
	{ID: "base_resist_all_elements_%", Count: 3},
}

// PseudoModifiers returns a copy of the pseudo stat definitions in
// evaluation order.
func PseudoModifiers() []PseudoModifier {
	return slices.Clone(pseudoModifiers)
}

// pseudoModifiers are evaluated in order.
var pseudoModifiers = []PseudoModifier{
	{ID: "pseudo_total_fire_resistance", Mods: []PseudoSource{{ID: "base_fire_damage_resistance_%"}, {ID: "base_resist_all_elements_%"}}},
	{ID: "pseudo_total_cold_resistance", Mods: []PseudoSource{{ID: "base_cold_damage_resistance_%"}, {ID: "base_resist_all_elements_%"}}},
	{ID: "pseudo_total_lightning_resistance", Mods: []PseudoSource{{ID: "base_lightning_damage_resistance_%"}, {ID: "base_resist_all_elements_%"}}},
	{ID: "pseudo_total_chaos_resistance", Mods: []PseudoSource{{ID: "base_chaos_damage_resistance_%"}}},
	{ID: "pseudo_total_elemental_resistance", Mods: elementalResistances, Count: 2},
	{ID: "pseudo_total_resistance", Mods: append(slices.Clone(elementalResistances), PseudoSource{ID: "base_chaos_damage_resistance_%"}), Count: 2},
	{ID: "pseudo_total_strength", Mods: attributeSources("additional_strength")},
	{ID: "pseudo_total_dexterity", Mods: attributeSources("additional_dexterity")},
	{ID: "pseudo_total_intelligence", Mods: attributeSources("additional_intelligence")},
	{ID: "pseudo_total_all_attributes", Mods: []PseudoSource{
		{ID: "additional_all_attributes"},
		{ID: "additional_strength", Combine: MinimumRequired},
		{ID: "additional_dexterity", Combine: MinimumRequired},
		{ID: "additional_intelligence", Combine: MinimumRequired},
	}},
	{ID: "pseudo_total_life", Mods: []PseudoSource{
		{ID: "base_maximum_life"},
		{ID: "additional_strength", Combine: Addition5Every10},
		{ID: "additional_all_attributes", Combine: Addition5Every10},
	}},
	{ID: "pseudo_total_mana", Mods: []PseudoSource{
		{ID: "base_maximum_mana"},
		{ID: "additional_intelligence", Combine: Addition1Every2},
		{ID: "additional_all_attributes", Combine: Addition1Every2},
	}},
	{ID: "pseudo_total_energy_shield", Mods: []PseudoSource{
		{ID: "base_maximum_energy_shield"},
		{ID: "local_energy_shield"},
	}},
	{ID: "pseudo_increased_rarity", Mods: []PseudoSource{{ID: "base_item_found_rarity_+%"}}},
	{ID: "pseudo_increased_movement_speed", Mods: []PseudoSource{{ID: "base_movement_velocity_+%"}}},
	{ID: "pseudo_total_quality", Prop: func(it *item.Item) *item.Value {
		if it.Properties == nil || it.Properties.Quality == nil {
			return nil
		}
		v := it.Properties.Quality.Value
		return &v
	}},
}

const (
	statPrefixesAllowed = "local_maximum_prefixes_allowed_+"
	statSuffixesAllowed = "local_maximum_suffixes_allowed_+"
)

// pseudoProcessor synthesizes the pseudo stats trade searches filter on.
type pseudoProcessor struct {
	templates StatTemplates
	modifiers []PseudoModifier
}

func (p *pseudoProcessor) process(it *item.Item) {
	var pseudo []*item.Stat
	pseudo = append(pseudo, p.emptyAffixes(it)...)
	pseudo = append(pseudo, p.craftedCounts(it)...)
	pseudo = append(pseudo, p.group(it)...)
	it.Stats = append(it.Stats, pseudo...)
	it.Stats = collapse(it.Stats)
}

// affixLimits returns the prefix and suffix slots of an item, or false
// when its rarity rolls no counted affixes.
func affixLimits(it *item.Item) (int, int, bool) {
	var prefixes, suffixes int
	switch it.Rarity {
	case item.RarityMagic:
		prefixes, suffixes = 1, 1
	case item.RarityRare:
		prefixes, suffixes = 3, 3
		if it.Category.Is(item.CategoryJewel) {
			prefixes, suffixes = 2, 2
		}
	default:
		return 0, 0, false
	}
	for _, s := range it.StatsByID(statPrefixesAllowed) {
		prefixes += int(signedValue(s))
	}
	for _, s := range it.StatsByID(statSuffixesAllowed) {
		suffixes += int(signedValue(s))
	}
	return prefixes, suffixes, true
}

// countsAsAffix reports whether a stat occupies an affix slot.
func countsAsAffix(it *item.Item, s *item.Stat) bool {
	if s.GenType == item.StatGenTypeUnknown {
		return false
	}
	switch s.Type {
	case item.StatTypeExplicit, item.StatTypeFractured, item.StatTypeVeiled:
		return true
	case item.StatTypeCrafted:
		return it.Corrupted
	}
	return false
}

func (p *pseudoProcessor) emptyAffixes(it *item.Item) []*item.Stat {
	if !it.Category.IsEquipment() {
		return nil
	}
	maxPrefixes, maxSuffixes, ok := affixLimits(it)
	if !ok {
		return nil
	}

	var prefixes, suffixes int
	for _, s := range it.Stats {
		if !countsAsAffix(it, s) {
			continue
		}
		if s.GenType == item.StatGenTypePrefix {
			prefixes++
		} else {
			suffixes++
		}
	}
	total := prefixes + suffixes
	if total == 0 || total >= maxPrefixes+maxSuffixes {
		return nil
	}

	var out []*item.Stat
	out = p.appendCount(out, "pseudo_number_of_empty_affix_mods", maxPrefixes+maxSuffixes-total)
	out = p.appendCount(out, "pseudo_number_of_empty_prefix_mods", maxPrefixes-prefixes)
	out = p.appendCount(out, "pseudo_number_of_empty_suffix_mods", maxSuffixes-suffixes)
	return out
}

func (p *pseudoProcessor) craftedCounts(it *item.Item) []*item.Stat {
	var prefixes, suffixes, total int
	for _, s := range it.Stats {
		if s.Type != item.StatTypeCrafted {
			continue
		}
		total++
		switch s.GenType {
		case item.StatGenTypePrefix:
			prefixes++
		case item.StatGenTypeSuffix:
			suffixes++
		}
	}
	var out []*item.Stat
	out = p.appendCount(out, "pseudo_number_of_crafted_mods", total)
	out = p.appendCount(out, "pseudo_number_of_crafted_prefix_mods", prefixes)
	out = p.appendCount(out, "pseudo_number_of_crafted_suffix_mods", suffixes)
	return out
}

func (p *pseudoProcessor) appendCount(out []*item.Stat, id string, n int) []*item.Stat {
	if n <= 0 {
		return out
	}
	if s := p.stat(id, float64(n)); s != nil {
		out = append(out, s)
	}
	return out
}

// stat builds a pseudo stat from its template. Unknown ids yield nil.
func (p *pseudoProcessor) stat(id string, value float64) *item.Stat {
	tpl, ok := p.templates.Provide(item.StatTypePseudo).FindByID(id)
	if !ok {
		log.Debug().Str("id", id).Msg("Pseudo stat template not found")
		return nil
	}
	s := &item.Stat{
		ID:        tpl.ID,
		TradeID:   tpl.TradeID,
		Type:      item.StatTypePseudo,
		Predicate: "#",
		Option:    tpl.Option,
		GenType:   tpl.GenType,
	}
	setSigned(s, value)
	return s
}

func setSigned(s *item.Stat, value float64) {
	s.Negated = value < 0
	v := math.Abs(value)
	s.Values = []item.Value{{Text: item.FormatNumber(v), Value: v}}
}

// group folds source stats into the configured pseudo stats. Sources are
// read from the stats as they were before grouping, so one stat can feed
// several pseudo stats; it is removed once any of them is emitted.
func (p *pseudoProcessor) group(it *item.Item) []*item.Stat {
	snapshot := slices.Clone(it.Stats)
	removed := make(map[*item.Stat]bool)

	var out []*item.Stat
	for _, mod := range p.modifiers {
		if mod.Prop != nil {
			if v := mod.Prop(it); v != nil {
				if s := p.stat(mod.ID, v.Value); s != nil {
					out = append(out, s)
				}
			}
			continue
		}

		value, sources, ok := accumulate(snapshot, mod.Mods)
		minCount := max(mod.Count, 1)
		if !ok || len(sources) < minCount {
			continue
		}
		if value == 0 {
			log.Debug().Str("id", mod.ID).Int("sources", len(sources)).Msg("Skipping pseudo stat adding up to zero")
			continue
		}
		s := p.stat(mod.ID, value)
		if s == nil {
			continue
		}
		out = append(out, s)
		if removable(it, sources) {
			for _, src := range sources {
				if !exempt(it, src) {
					removed[src] = true
				}
			}
		}
	}

	if len(removed) > 0 {
		it.Stats = slices.DeleteFunc(it.Stats, func(s *item.Stat) bool { return removed[s] })
	}
	return out
}

// accumulate combines the source values. ok is false when a required
// source is missing.
func accumulate(stats []*item.Stat, mods []PseudoSource) (float64, []*item.Stat, bool) {
	var (
		total    float64
		minimum  = math.Inf(1)
		required bool
		sources  []*item.Stat
	)
	for _, src := range mods {
		var matched []*item.Stat
		for _, s := range stats {
			if s.ID == src.ID && (src.Type == "" || s.Type == src.Type) {
				matched = append(matched, s)
			}
		}
		if len(matched) == 0 {
			if src.Combine == MinimumRequired {
				return 0, nil, false
			}
			continue
		}

		count := src.Count
		if count == 0 {
			count = 1
		}
		sum := 0.0
		for _, s := range matched {
			sum += signedValue(s)
		}
		switch src.Combine {
		case Addition:
			total += sum * count
		case MinimumRequired:
			required = true
			minimum = min(minimum, sum*count)
		case Addition5Every10:
			total += math.Trunc(sum/10) * 5 * count
		case Addition1Every2:
			total += math.Trunc(sum/2) * count
		}
		sources = append(sources, matched...)
	}
	if required {
		total += minimum
	}
	return total, sources, len(sources) > 0
}

// removable reports whether the sources of a pseudo stat may be dropped.
// Unique items keep their lines, and a scourge source anywhere in the
// group keeps every source.
func removable(it *item.Item, sources []*item.Stat) bool {
	if it.Rarity.IsUnique() {
		return false
	}
	for _, s := range sources {
		if s.Type == item.StatTypeScourge {
			return false
		}
	}
	return true
}

// exempt reports whether a single source stat stays on the item.
func exempt(it *item.Item, s *item.Stat) bool {
	switch s.Type {
	case item.StatTypePseudo, item.StatTypeFractured, item.StatTypeScourge:
		return true
	case item.StatTypeImplicit:
		return it.Influences != nil && it.Influences.Synthesised
	}
	return false
}

// collapse merges stats sharing trade id and type by adding their values.
func collapse(stats []*item.Stat) []*item.Stat {
	type key struct {
		tradeID string
		typ     item.StatType
	}
	first := make(map[key]*item.Stat, len(stats))
	out := stats[:0]
	for _, s := range stats {
		k := key{s.TradeID, s.Type}
		kept, ok := first[k]
		if !ok {
			first[k] = s
			out = append(out, s)
			continue
		}
		if kept.Option || len(kept.Values) == 0 || len(s.Values) == 0 {
			continue
		}
		if len(kept.Values) == 1 && len(s.Values) == 1 {
			setSigned(kept, signedValue(kept)+signedValue(s))
			continue
		}
		for i := range min(len(kept.Values), len(s.Values)) {
			v := &kept.Values[i]
			v.Value += s.Values[i].Value
			v.Text = item.FormatNumber(v.Value)
			v.Min, v.Max = nil, nil
		}
	}
	clear(stats[len(out):])
	return out
}

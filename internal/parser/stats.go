package parser

import (
	"poe-overlay/internal/item"
	"poe-overlay/internal/stats"
)

// statsParser hands the remaining sections to the stat matcher. A section
// is consumed once every line of it was matched.
type statsParser struct {
	*labels
	matcher StatMatcher
}

func (p *statsParser) Section() SectionID { return SectionStats }
func (p *statsParser) Optional() bool     { return true }

func (p *statsParser) Parse(exported *item.ExportedItem, target *item.Item) []*item.Section {
	if len(exported.Sections) == 0 || p.matcher == nil {
		return nil
	}

	texts := make([]string, len(exported.Sections))
	for i, s := range exported.Sections {
		texts[i] = s.Content
	}
	results, remaining := p.matcher.Search(stats.NewWorklist(texts), p.options(target))
	if len(results) == 0 {
		return nil
	}
	for _, r := range results {
		target.Stats = append(target.Stats, r.Stat)
	}

	left := make(map[int]bool, len(remaining))
	for _, e := range remaining {
		left[e.Index] = true
	}
	var consumed []*item.Section
	for i, s := range exported.Sections {
		if !left[i] {
			consumed = append(consumed, s)
		}
	}
	return consumed
}

// options derives the matcher options from what earlier parsers found.
func (p *statsParser) options(target *item.Item) stats.SearchOptions {
	opts := stats.SearchOptions{
		Language:      p.lang,
		Map:           target.Category.Is(item.CategoryMap),
		MonsterSample: target.Category.Is(item.CategoryMonsterSample),
	}
	weapon := target.Category.Is(item.CategoryWeapon)
	opts.Local.AccuracyRating = weapon
	opts.Local.PhysicalDamage = weapon
	if props := target.Properties; props != nil {
		opts.Ultimatum = props.Ultimatum != nil
		opts.Local.AttackSpeed = props.WeaponAttacksPerSecond != nil
		opts.Local.CriticalStrikeChance = props.WeaponCriticalStrikeChance != nil
		opts.Local.Armour = props.ArmourArmour != nil
		opts.Local.EvasionRating = props.ArmourEvasionRating != nil
		opts.Local.EnergyShield = props.ArmourEnergyShield != nil
		opts.Local.Ward = props.ArmourWard != nil
		opts.Local.BlockChance = props.ShieldBlockChance != nil
	}
	return opts
}

var logbookFactions = []struct {
	labelID string
	tradeID string
}{
	{"ExpeditionFactionDruids", "pseudo_logbook_faction_druids"},
	{"ExpeditionFactionMercenaries", "pseudo_logbook_faction_mercenaries"},
	{"ExpeditionFactionChalice", "pseudo_logbook_faction_order"},
	{"ExpeditionFactionKnights", "pseudo_logbook_faction_knights"},
}

// specialStatsParser turns lines the matcher cannot see into stats. Today
// that is the faction names of an expedition logbook.
type specialStatsParser struct {
	*labels
	templates StatTemplates
}

func (p *specialStatsParser) Section() SectionID { return SectionSpecialStats }
func (p *specialStatsParser) Optional() bool     { return true }

func (p *specialStatsParser) Parse(exported *item.ExportedItem, target *item.Item) []*item.Section {
	if !target.Category.Is(item.CategoryExpeditionLogbook) || p.templates == nil {
		return nil
	}
	pseudo := p.templates.Provide(item.StatTypePseudo)

	var consumed []*item.Section
	for _, s := range exported.Sections {
		owned := false
		for _, line := range s.Lines {
			for _, f := range logbookFactions {
				if !p.is(f.labelID, line) {
					continue
				}
				tpl, ok := pseudo.Get(f.tradeID)
				if !ok {
					continue
				}
				target.Stats = append(target.Stats, &item.Stat{
					ID:        tpl.ID,
					TradeID:   tpl.TradeID,
					Type:      item.StatTypePseudo,
					Predicate: "1",
					Values:    []item.Value{{Text: "1", Value: 1}},
					Option:    true,
				})
				owned = true
			}
		}
		if owned && len(s.Lines) == 1 {
			consumed = append(consumed, s)
		}
	}
	return consumed
}

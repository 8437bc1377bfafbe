package parser

import (
	"strings"

	"poe-overlay/internal/item"
)

// mapBaseAreaLevel is the area level of a tier 0 map.
const mapBaseAreaLevel = 67

// phrase binds a property label to the field it fills.
type phrase struct {
	id       string
	decimals int
	set      func(p *item.Properties, v item.ValueProperty)
}

// propertyPhrases are tried in order against every line. The first eleven
// only appear on weapons and armour.
var propertyPhrases = []phrase{
	{"ItemDisplayWeaponPhysicalDamage", 0, func(p *item.Properties, v item.ValueProperty) { p.WeaponPhysicalDamage = &v }},
	{"ItemDisplayWeaponElementalDamage", 0, nil},
	{"ItemDisplayWeaponChaosDamage", 0, func(p *item.Properties, v item.ValueProperty) { p.WeaponChaosDamage = &v }},
	{"ItemDisplayWeaponCriticalStrikeChance", 2, func(p *item.Properties, v item.ValueProperty) { p.WeaponCriticalStrikeChance = &v }},
	{"ItemDisplayWeaponAttacksPerSecond", 2, func(p *item.Properties, v item.ValueProperty) { p.WeaponAttacksPerSecond = &v }},
	{"ItemDisplayWeaponRange", 0, func(p *item.Properties, v item.ValueProperty) { p.WeaponRange = &v }},
	{"ItemDisplayShieldBlockChance", 0, func(p *item.Properties, v item.ValueProperty) { p.ShieldBlockChance = &v }},
	{"ItemDisplayArmourArmour", 0, func(p *item.Properties, v item.ValueProperty) { p.ArmourArmour = &v }},
	{"ItemDisplayArmourEvasionRating", 0, func(p *item.Properties, v item.ValueProperty) { p.ArmourEvasionRating = &v }},
	{"ItemDisplayArmourEnergyShield", 0, func(p *item.Properties, v item.ValueProperty) { p.ArmourEnergyShield = &v }},
	{"ItemDisplayArmourWard", 0, func(p *item.Properties, v item.ValueProperty) { p.ArmourWard = &v }},
	{"ItemDisplayStringQuality", 0, func(p *item.Properties, v item.ValueProperty) { p.Quality = &v }},
	{"ItemDisplayStringQualityType", 0, nil},
	{"ItemDisplayGemLevel", 0, func(p *item.Properties, v item.ValueProperty) { p.GemLevel = &v }},
	{"ItemDisplayMapTier", 0, func(p *item.Properties, v item.ValueProperty) { p.MapTier = &v }},
	{"ItemDisplayMapQuantity", 0, func(p *item.Properties, v item.ValueProperty) { p.MapQuantity = &v }},
	{"ItemDisplayMapRarity", 0, func(p *item.Properties, v item.ValueProperty) { p.MapRarity = &v }},
	{"ItemDisplayMapPackSize", 0, func(p *item.Properties, v item.ValueProperty) { p.MapPacksize = &v }},
	{"ItemDisplayMapMoreScarabs", 0, func(p *item.Properties, v item.ValueProperty) { p.MapMoreScarabs = &v }},
	{"ItemDisplayMapMoreCurrency", 0, func(p *item.Properties, v item.ValueProperty) { p.MapMoreCurrency = &v }},
	{"ItemDisplayMapMoreMaps", 0, func(p *item.Properties, v item.ValueProperty) { p.MapMoreMaps = &v }},
	{"ItemDisplayMapMoreDivCards", 0, func(p *item.Properties, v item.ValueProperty) { p.MapMoreDivCards = &v }},
	{"ItemDisplayStackSize", 0, func(p *item.Properties, v item.ValueProperty) { p.StackSize = &v }},
	{"ItemDisplayAreaLevel", 0, func(p *item.Properties, v item.ValueProperty) { p.AreaLevel = &v }},
	{"ItemDisplayJewelRadius", 0, func(p *item.Properties, v item.ValueProperty) { p.JewelRadius = &v }},
	{"ItemDisplayLimitedTo", 0, func(p *item.Properties, v item.ValueProperty) { p.LimitedTo = &v }},
	{"ItemDisplayDurability", 0, func(p *item.Properties, v item.ValueProperty) { p.Durability = &v }},
	{"ItemDisplayStoredExperience", 0, func(p *item.Properties, v item.ValueProperty) { p.StoredExperience = &v }},
}

// firstGenericPhrase is the index of the quality phrase.
const firstGenericPhrase = 11

// propertiesParser reads the labelled numeric lines. A section is consumed
// only when every line but an optional class header is a property, so
// flask, gem and prophecy lines stay for their own parsers.
type propertiesParser struct {
	*labels
}

func (p *propertiesParser) Section() SectionID { return SectionProperties }
func (p *propertiesParser) Optional() bool     { return true }

func (p *propertiesParser) Parse(exported *item.ExportedItem, target *item.Item) []*item.Section {
	start := 0
	switch {
	case target.Rarity == item.RarityCurrency, target.Rarity == item.RarityGem,
		target.Rarity == item.RarityDivinationCard, target.Category.Is(item.CategoryMap):
		start = firstGenericPhrase
	}

	var consumed []*item.Section
	for _, s := range exported.Sections {
		matched := 0
		for _, line := range s.Lines {
			if p.parseLine(line, start, target) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}
		if matched == len(s.Lines) || (matched == len(s.Lines)-1 && !p.parseable(s.Lines[0], start)) {
			consumed = append(consumed, s)
		}
	}

	if props := target.Properties; props != nil && props.MapTier != nil && props.AreaLevel == nil {
		level := mapBaseAreaLevel + props.MapTier.Value.Value
		props.AreaLevel = &item.ValueProperty{Value: item.Value{Text: item.FormatNumber(level), Value: level}}
	}
	return consumed
}

// parseable reports whether line is a property, without recording it.
func (p *propertiesParser) parseable(line string, start int) bool {
	for _, ph := range propertyPhrases[start:] {
		if _, ok := p.prefix(ph.id, line); ok {
			return true
		}
		if ph.id == "ItemDisplayStringQualityType" {
			if _, _, ok := p.matchPrefix(ph.id, line); ok {
				return true
			}
		}
	}
	return false
}

func (p *propertiesParser) parseLine(line string, start int, target *item.Item) bool {
	for _, ph := range propertyPhrases[start:] {
		switch ph.id {
		case "ItemDisplayWeaponElementalDamage":
			v, ok := p.prefix(ph.id, line)
			if !ok {
				continue
			}
			props := target.EnsureProperties()
			for _, part := range strings.Split(v, ", ") {
				props.WeaponElementalDamage = append(props.WeaponElementalDamage, p.valueProperty(part, 0))
			}
			return true
		case "ItemDisplayStringQualityType":
			m, rest, ok := p.matchPrefix(ph.id, line)
			if !ok || len(m) != 1 {
				continue
			}
			props := target.EnsureProperties()
			props.QualityType = m[0]
			q := p.valueProperty(rest, 0)
			props.Quality = &q
			return true
		default:
			v, ok := p.prefix(ph.id, line)
			if !ok {
				continue
			}
			ph.set(target.EnsureProperties(), p.valueProperty(v, ph.decimals))
			return true
		}
	}
	return false
}

// flaskParser reads the duration and charge lines of a flask.
type flaskParser struct {
	*labels
}

func (p *flaskParser) Section() SectionID { return SectionFlask }
func (p *flaskParser) Optional() bool     { return true }

func (p *flaskParser) Parse(exported *item.ExportedItem, target *item.Item) []*item.Section {
	if !target.Category.Is(item.CategoryFlask) {
		return nil
	}

	flask := &item.FlaskProperties{}
	section := sectionWithLine(exported, func(line string) bool {
		return p.parseLine(line, &item.FlaskProperties{})
	})
	if section == nil {
		return nil
	}
	for _, line := range section.Lines {
		p.parseLine(line, flask)
	}
	target.EnsureProperties().Flask = flask
	return []*item.Section{section}
}

func (p *flaskParser) parseLine(line string, flask *item.FlaskProperties) bool {
	if m, ok := p.match("ItemDisplayFlaskDuration", line); ok && len(m) == 1 {
		v := item.ParseValue(m[0], 2)
		flask.Duration = &v
		return true
	}
	if m, ok := p.match("ItemDisplayFlaskChargesUsed", line); ok && len(m) == 2 {
		used, max := item.ParseValue(m[0], 0), item.ParseValue(m[1], 0)
		flask.ChargesUsed, flask.ChargesMax = &used, &max
		return true
	}
	if m, ok := p.match("ItemDisplayFlaskChargesCurrent", line); ok && len(m) == 1 {
		v := item.ParseValue(m[0], 0)
		flask.ChargesCurrent = &v
		return true
	}
	return false
}

// prophecyParser keeps the prophecy text, the section before the
// right-click hint.
type prophecyParser struct {
	*labels
}

func (p *prophecyParser) Section() SectionID { return SectionProphecy }
func (p *prophecyParser) Optional() bool     { return true }

func (p *prophecyParser) Parse(exported *item.ExportedItem, target *item.Item) []*item.Section {
	for i, s := range exported.Sections {
		if len(s.Lines) != 1 || !p.is("ItemDisplayProphecyUse", s.Lines[0]) {
			continue
		}
		if i == 0 {
			return []*item.Section{s}
		}
		text := exported.Sections[0]
		target.Prophecy = &item.Prophecy{Text: text.Content}
		return []*item.Section{text, s}
	}
	return nil
}

// gemExperienceParser reads "Experience: 1/15249" of a levelled gem.
type gemExperienceParser struct {
	*labels
}

func (p *gemExperienceParser) Section() SectionID { return SectionGemExperience }
func (p *gemExperienceParser) Optional() bool     { return true }

func (p *gemExperienceParser) Parse(exported *item.ExportedItem, target *item.Item) []*item.Section {
	if target.Properties == nil || target.Properties.GemLevel == nil {
		return nil
	}
	for _, s := range exported.Sections {
		for _, line := range s.Lines {
			v, ok := p.prefix("ItemDisplayGemExperience", line)
			if !ok {
				continue
			}
			exp := p.valueProperty(v, 0)
			target.Properties.GemExperience = &exp
			if len(s.Lines) == 1 {
				return []*item.Section{s}
			}
			return nil
		}
	}
	return nil
}

package query

import "poe-overlay/internal/item"

// Result pairs the full item with the query built from it.
type Result struct {
	// DefaultItem is a deep copy of the parsed item.
	DefaultItem *item.Item `json:"defaultItem"`
	// QueryItem holds only the selected facets. Its Stats are aligned with
	// DefaultItem.Stats; unselected positions are nil.
	QueryItem *item.Item `json:"queryItem"`
}

// Provide builds the default trade query of an item. it is not modified.
func Provide(it *item.Item, settings Settings) Result {
	if it == nil {
		return Result{}
	}
	def := it.Clone()
	src := it.Clone()

	q := &item.Item{
		ItemClass:     src.ItemClass,
		Rarity:        src.Rarity,
		Category:      src.Category,
		TypeID:        src.TypeID,
		Type:          src.Type,
		Corrupted:     src.Corrupted,
		Unidentified:  src.Unidentified,
		Blighted:      src.Blighted,
		BlightRavaged: src.BlightRavaged,
		Relic:         src.Relic,
		Influences:    src.Influences,
	}
	if src.Rarity.IsUnique() {
		q.Name, q.NameID = src.Name, src.NameID
	}
	if src.Rarity == item.RarityRare && !settings.Type {
		q.TypeID, q.Type = "", ""
	}

	if settings.ItemLevel && src.Level != nil && !src.Category.Is(item.CategoryGem) {
		q.Level = src.Level
	}
	if settings.MinLinks > 0 && src.Links() >= settings.MinLinks {
		q.Sockets = src.Sockets
	}
	if settings.Attack {
		q.Damage = src.Damage
	}
	q.Properties = properties(src.Properties, settings)

	q.Stats = make([]*item.Stat, len(src.Stats))
	for i, s := range src.Stats {
		if selected(src, s, settings) {
			q.Stats[i] = s
		}
	}
	return Result{DefaultItem: def, QueryItem: q}
}

func properties(p *item.Properties, settings Settings) *item.Properties {
	if p == nil {
		return nil
	}
	out := &item.Properties{}
	empty := true
	if settings.Attack {
		out.WeaponPhysicalDamage = p.WeaponPhysicalDamage
		out.WeaponElementalDamage = p.WeaponElementalDamage
		out.WeaponChaosDamage = p.WeaponChaosDamage
		out.WeaponCriticalStrikeChance = p.WeaponCriticalStrikeChance
		out.WeaponAttacksPerSecond = p.WeaponAttacksPerSecond
		out.WeaponRange = p.WeaponRange
		empty = false
	}
	if settings.Defense {
		out.ArmourArmour = p.ArmourArmour
		out.ArmourEvasionRating = p.ArmourEvasionRating
		out.ArmourEnergyShield = p.ArmourEnergyShield
		out.ArmourWard = p.ArmourWard
		out.ShieldBlockChance = p.ShieldBlockChance
		empty = false
	}
	if settings.Miscs {
		out.Quality = p.Quality
		out.QualityType = p.QualityType
		out.GemLevel = p.GemLevel
		out.GemExperience = p.GemExperience
		out.MapTier = p.MapTier
		out.MapQuantity = p.MapQuantity
		out.MapRarity = p.MapRarity
		out.MapPacksize = p.MapPacksize
		out.AreaLevel = p.AreaLevel
		out.StackSize = p.StackSize
		out.Heist = p.Heist
		out.Incursion = p.Incursion
		out.Ultimatum = p.Ultimatum
		out.Sentinel = p.Sentinel
		empty = false
	}
	if empty {
		return nil
	}
	return out
}

// selected decides whether a stat goes into the query. An explicit
// per-key setting wins; otherwise the category defaults apply.
func selected(it *item.Item, s *item.Stat, settings Settings) bool {
	if v, ok := settings.Stats[s.Key()]; ok {
		return v
	}
	switch {
	case s.Type == item.StatTypeEnchant:
		return settings.StatsEnchants
	case s.Type == item.StatTypePseudo:
		return settings.StatsPseudo
	case it.Rarity.IsUnique():
		return settings.StatsUnique
	}
	return false
}

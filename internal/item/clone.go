package item

import "slices"

// Clone returns a copy of v sharing no pointers with it.
func (v Value) Clone() Value {
	out := v
	if v.Min != nil {
		out.Min = Float(*v.Min)
	}
	if v.Max != nil {
		out.Max = Float(*v.Max)
	}
	if v.Tier != nil {
		tier := ValueTier{}
		if v.Tier.Min != nil {
			tier.Min = Float(*v.Tier.Min)
		}
		if v.Tier.Max != nil {
			tier.Max = Float(*v.Tier.Max)
		}
		out.Tier = &tier
	}
	return out
}

func cloneValue(v *Value) *Value {
	if v == nil {
		return nil
	}
	c := v.Clone()
	return &c
}

func cloneProperty(p *ValueProperty) *ValueProperty {
	if p == nil {
		return nil
	}
	return &ValueProperty{Value: p.Value.Clone(), Augmented: p.Augmented}
}

// Clone deep-copies a stat.
func (s *Stat) Clone() *Stat {
	if s == nil {
		return nil
	}
	out := *s
	out.Values = make([]Value, len(s.Values))
	for i, v := range s.Values {
		out.Values[i] = v.Clone()
	}
	out.Indistinguishables = slices.Clone(s.Indistinguishables)
	out.RelatedStats = slices.Clone(s.RelatedStats)
	return &out
}

// Clone deep-copies the property group.
func (p *Properties) Clone() *Properties {
	if p == nil {
		return nil
	}
	out := &Properties{
		WeaponPhysicalDamage:       cloneProperty(p.WeaponPhysicalDamage),
		WeaponChaosDamage:          cloneProperty(p.WeaponChaosDamage),
		WeaponCriticalStrikeChance: cloneProperty(p.WeaponCriticalStrikeChance),
		WeaponAttacksPerSecond:     cloneProperty(p.WeaponAttacksPerSecond),
		WeaponRange:                cloneProperty(p.WeaponRange),
		ShieldBlockChance:          cloneProperty(p.ShieldBlockChance),
		ArmourArmour:               cloneProperty(p.ArmourArmour),
		ArmourEvasionRating:        cloneProperty(p.ArmourEvasionRating),
		ArmourEnergyShield:         cloneProperty(p.ArmourEnergyShield),
		ArmourWard:                 cloneProperty(p.ArmourWard),
		Quality:                    cloneProperty(p.Quality),
		QualityType:                p.QualityType,
		GemLevel:                   cloneProperty(p.GemLevel),
		GemExperience:              cloneProperty(p.GemExperience),
		MapTier:                    cloneProperty(p.MapTier),
		MapQuantity:                cloneProperty(p.MapQuantity),
		MapRarity:                  cloneProperty(p.MapRarity),
		MapPacksize:                cloneProperty(p.MapPacksize),
		MapMoreScarabs:             cloneProperty(p.MapMoreScarabs),
		MapMoreCurrency:            cloneProperty(p.MapMoreCurrency),
		MapMoreMaps:                cloneProperty(p.MapMoreMaps),
		MapMoreDivCards:            cloneProperty(p.MapMoreDivCards),
		StackSize:                  cloneProperty(p.StackSize),
		AreaLevel:                  cloneProperty(p.AreaLevel),
		JewelRadius:                cloneProperty(p.JewelRadius),
		LimitedTo:                  cloneProperty(p.LimitedTo),
		Durability:                 cloneProperty(p.Durability),
		StoredExperience:           cloneProperty(p.StoredExperience),
	}
	for _, e := range p.WeaponElementalDamage {
		out.WeaponElementalDamage = append(out.WeaponElementalDamage, *cloneProperty(&e))
	}
	if p.Flask != nil {
		out.Flask = &FlaskProperties{
			Duration:       cloneValue(p.Flask.Duration),
			ChargesUsed:    cloneValue(p.Flask.ChargesUsed),
			ChargesMax:     cloneValue(p.Flask.ChargesMax),
			ChargesCurrent: cloneValue(p.Flask.ChargesCurrent),
		}
	}
	if p.Heist != nil {
		h := *p.Heist
		h.Skills = slices.Clone(p.Heist.Skills)
		h.WingsRevealed = cloneValue(p.Heist.WingsRevealed)
		h.EscapeRoutes = cloneValue(p.Heist.EscapeRoutes)
		h.RewardRooms = cloneValue(p.Heist.RewardRooms)
		out.Heist = &h
	}
	if p.Incursion != nil {
		out.Incursion = &IncursionProperties{
			OpenRooms:   slices.Clone(p.Incursion.OpenRooms),
			ClosedRooms: slices.Clone(p.Incursion.ClosedRooms),
		}
	}
	if p.Ultimatum != nil {
		u := *p.Ultimatum
		out.Ultimatum = &u
	}
	if p.Sentinel != nil {
		out.Sentinel = &SentinelProperties{
			Duration:      cloneProperty(p.Sentinel.Duration),
			Empowers:      cloneProperty(p.Sentinel.Empowers),
			Empowerment:   cloneProperty(p.Sentinel.Empowerment),
			Durability:    cloneValue(p.Sentinel.Durability),
			DurabilityMax: cloneValue(p.Sentinel.DurabilityMax),
			Charge:        cloneValue(p.Sentinel.Charge),
			ChargeMax:     cloneValue(p.Sentinel.ChargeMax),
		}
	}
	return out
}

// Clone deep-copies the item so the copy can be handed to consumers that
// mutate it.
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	out := *i
	out.Level = cloneValue(i.Level)
	if i.Influences != nil {
		inf := *i.Influences
		out.Influences = &inf
	}
	if i.Damage != nil {
		out.Damage = &Damage{
			DPS:  cloneValue(i.Damage.DPS),
			EDPS: cloneValue(i.Damage.EDPS),
			PDPS: cloneValue(i.Damage.PDPS),
			CDPS: cloneValue(i.Damage.CDPS),
		}
	}
	out.Sockets = slices.Clone(i.Sockets)
	out.Properties = i.Properties.Clone()
	if i.Requirements != nil {
		r := *i.Requirements
		out.Requirements = &r
	}
	if i.Prophecy != nil {
		p := *i.Prophecy
		out.Prophecy = &p
	}
	out.Stats = nil
	for _, s := range i.Stats {
		out.Stats = append(out.Stats, s.Clone())
	}
	return &out
}

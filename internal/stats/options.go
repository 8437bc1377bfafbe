package stats

import "poe-overlay/internal/refdata"

// LocalFlags records which local properties the item shows. Each flag
// suppresses the global reading of the stats bound to it in the local
// table and accepts their local reading instead:
//
//   - AttackSpeed: the item shows "Attacks per Second" (weapons).
//   - CriticalStrikeChance: the item shows "Critical Strike Chance".
//   - AccuracyRating: the item is a weapon; accuracy is then local.
//   - PhysicalDamage: the item is a weapon; added and increased
//     physical damage are then local.
//   - Armour, EvasionRating, EnergyShield, Ward: the item shows the
//     matching defence property.
//   - BlockChance: the item shows "Chance to Block" (shields).
type LocalFlags struct {
	AttackSpeed          bool
	CriticalStrikeChance bool
	AccuracyRating       bool
	PhysicalDamage       bool
	Armour               bool
	EvasionRating        bool
	EnergyShield         bool
	Ward                 bool
	BlockChance          bool
}

// Has reports the flag bound to a local table entry.
func (f LocalFlags) Has(flag refdata.LocalFlag) bool {
	switch flag {
	case refdata.LocalAttackSpeed:
		return f.AttackSpeed
	case refdata.LocalCriticalStrikeChance:
		return f.CriticalStrikeChance
	case refdata.LocalAccuracyRating:
		return f.AccuracyRating
	case refdata.LocalPhysicalDamage:
		return f.PhysicalDamage
	case refdata.LocalArmour:
		return f.Armour
	case refdata.LocalEvasionRating:
		return f.EvasionRating
	case refdata.LocalEnergyShield:
		return f.EnergyShield
	case refdata.LocalWard:
		return f.Ward
	case refdata.LocalBlockChance:
		return f.BlockChance
	}
	return false
}

// SearchOptions tune one matcher run.
type SearchOptions struct {
	// Language selects the phrasings and markers; empty means English.
	Language refdata.Language
	// Map enables map-only modifiers.
	Map bool
	// MonsterSample adds the monster stat corpus.
	MonsterSample bool
	// Ultimatum adds the ultimatum modifier corpus.
	Ultimatum bool
	Local     LocalFlags
}

func (o SearchOptions) language() refdata.Language {
	if o.Language == "" {
		return refdata.English
	}
	return o.Language
}

package item

// SocketColor is the letter the client prints for a socket.
type SocketColor string

const (
	SocketRed   SocketColor = "R"
	SocketGreen SocketColor = "G"
	SocketBlue  SocketColor = "B"
	SocketWhite SocketColor = "W"
	SocketAbyss SocketColor = "A"
)

// Socket is one socket; Linked means it is linked to the next socket.
type Socket struct {
	Color  SocketColor `json:"color"`
	Linked bool        `json:"linked,omitempty"`
}

// Requirements lists the equip requirements section.
type Requirements struct {
	Level int    `json:"level,omitempty"`
	Str   int    `json:"str,omitempty"`
	Dex   int    `json:"dex,omitempty"`
	Int   int    `json:"int,omitempty"`
	Class string `json:"class,omitempty"`
}

// Influences are the influence markers of an item.
type Influences struct {
	Shaper        bool `json:"shaper,omitempty"`
	Elder         bool `json:"elder,omitempty"`
	Crusader      bool `json:"crusader,omitempty"`
	Hunter        bool `json:"hunter,omitempty"`
	Redeemer      bool `json:"redeemer,omitempty"`
	Warlord       bool `json:"warlord,omitempty"`
	Synthesised   bool `json:"synthesised,omitempty"`
	Fractured     bool `json:"fractured,omitempty"`
	SearingExarch bool `json:"searingExarch,omitempty"`
	EaterOfWorlds bool `json:"eaterOfWorlds,omitempty"`
}

// Damage holds the per-second damage figures of a weapon.
type Damage struct {
	DPS  *Value `json:"dps,omitempty"`
	EDPS *Value `json:"edps,omitempty"`
	PDPS *Value `json:"pdps,omitempty"`
	CDPS *Value `json:"cdps,omitempty"`
}

// HeistObjectiveValue is the value class of a contract target.
type HeistObjectiveValue string

const (
	HeistObjectiveValueUnknown   HeistObjectiveValue = ""
	HeistObjectiveValueModerate  HeistObjectiveValue = "moderate"
	HeistObjectiveValueHigh      HeistObjectiveValue = "high"
	HeistObjectiveValuePrecious  HeistObjectiveValue = "precious"
	HeistObjectiveValuePriceless HeistObjectiveValue = "priceless"
)

// HeistSkill is a job requirement of a contract or blueprint.
type HeistSkill struct {
	Job   string `json:"job"`
	Level int    `json:"level"`
}

// HeistProperties are read from contracts and blueprints.
type HeistProperties struct {
	ObjectiveName  string              `json:"objectiveName,omitempty"`
	ObjectiveValue HeistObjectiveValue `json:"objectiveValue,omitempty"`
	Skills         []HeistSkill        `json:"skills,omitempty"`
	WingsRevealed  *Value              `json:"wingsRevealed,omitempty"`
	EscapeRoutes   *Value              `json:"escapeRoutes,omitempty"`
	RewardRooms    *Value              `json:"rewardRooms,omitempty"`
}

// IncursionRoom is a temple room listed on a Chronicle of Atzoatl.
type IncursionRoom struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Tier int    `json:"tier"`
}

// IncursionProperties lists open and obstructed temple rooms.
type IncursionProperties struct {
	OpenRooms   []IncursionRoom `json:"openRooms,omitempty"`
	ClosedRooms []IncursionRoom `json:"closedRooms,omitempty"`
}

// UltimatumChallengeType is the encounter of an inscribed ultimatum.
type UltimatumChallengeType string

const (
	UltimatumChallengeExterminate UltimatumChallengeType = "exterminate"
	UltimatumChallengeSurvive     UltimatumChallengeType = "survive"
	UltimatumChallengeDefense     UltimatumChallengeType = "defense"
	UltimatumChallengeConquer     UltimatumChallengeType = "conquer"
)

// UltimatumRewardType is what completing the trials pays out.
type UltimatumRewardType string

const (
	UltimatumRewardCurrency   UltimatumRewardType = "currency"
	UltimatumRewardDivCards   UltimatumRewardType = "divcards"
	UltimatumRewardMirrorRare UltimatumRewardType = "mirror"
	UltimatumRewardUniqueItem UltimatumRewardType = "unique"
)

// UltimatumProperties are read from an inscribed ultimatum.
type UltimatumProperties struct {
	ChallengeType      UltimatumChallengeType `json:"challengeType,omitempty"`
	RewardType         UltimatumRewardType    `json:"rewardType,omitempty"`
	RequiredItem       string                 `json:"requiredItem,omitempty"`
	RequiredItemAmount int                    `json:"requiredItemAmount,omitempty"`
	RewardUnique       string                 `json:"rewardUnique,omitempty"`
	TrialCount         int                    `json:"trialCount,omitempty"`
}

// SentinelProperties are the drone lines of a sentinel.
type SentinelProperties struct {
	Duration      *ValueProperty `json:"duration,omitempty"`
	Empowers      *ValueProperty `json:"empowers,omitempty"`
	Empowerment   *ValueProperty `json:"empowerment,omitempty"`
	Durability    *Value         `json:"durability,omitempty"`
	DurabilityMax *Value         `json:"durabilityMax,omitempty"`
	Charge        *Value         `json:"charge,omitempty"`
	ChargeMax     *Value         `json:"chargeMax,omitempty"`
}

// FlaskProperties are the charge and duration lines of a flask.
type FlaskProperties struct {
	Duration       *Value `json:"duration,omitempty"`
	ChargesUsed    *Value `json:"chargesUsed,omitempty"`
	ChargesMax     *Value `json:"chargesMax,omitempty"`
	ChargesCurrent *Value `json:"chargesCurrent,omitempty"`
}

// Properties are the labelled numeric lines of an item.
type Properties struct {
	WeaponPhysicalDamage       *ValueProperty  `json:"weaponPhysicalDamage,omitempty"`
	WeaponElementalDamage      []ValueProperty `json:"weaponElementalDamage,omitempty"`
	WeaponChaosDamage          *ValueProperty  `json:"weaponChaosDamage,omitempty"`
	WeaponCriticalStrikeChance *ValueProperty  `json:"weaponCriticalStrikeChance,omitempty"`
	WeaponAttacksPerSecond     *ValueProperty  `json:"weaponAttacksPerSecond,omitempty"`
	WeaponRange                *ValueProperty  `json:"weaponRange,omitempty"`
	ShieldBlockChance          *ValueProperty  `json:"shieldBlockChance,omitempty"`
	ArmourArmour               *ValueProperty  `json:"armourArmour,omitempty"`
	ArmourEvasionRating        *ValueProperty  `json:"armourEvasionRating,omitempty"`
	ArmourEnergyShield         *ValueProperty  `json:"armourEnergyShield,omitempty"`
	ArmourWard                 *ValueProperty  `json:"armourWard,omitempty"`
	Quality                    *ValueProperty  `json:"quality,omitempty"`
	QualityType                string          `json:"qualityType,omitempty"`
	GemLevel                   *ValueProperty  `json:"gemLevel,omitempty"`
	GemExperience              *ValueProperty  `json:"gemExperience,omitempty"`
	MapTier                    *ValueProperty  `json:"mapTier,omitempty"`
	MapQuantity                *ValueProperty  `json:"mapQuantity,omitempty"`
	MapRarity                  *ValueProperty  `json:"mapRarity,omitempty"`
	MapPacksize                *ValueProperty  `json:"mapPacksize,omitempty"`
	MapMoreScarabs             *ValueProperty  `json:"mapMoreScarabs,omitempty"`
	MapMoreCurrency            *ValueProperty  `json:"mapMoreCurrency,omitempty"`
	MapMoreMaps                *ValueProperty  `json:"mapMoreMaps,omitempty"`
	MapMoreDivCards            *ValueProperty  `json:"mapMoreDivCards,omitempty"`
	StackSize                  *ValueProperty  `json:"stackSize,omitempty"`
	AreaLevel                  *ValueProperty  `json:"areaLevel,omitempty"`
	JewelRadius                *ValueProperty  `json:"jewelRadius,omitempty"`
	LimitedTo                  *ValueProperty  `json:"limitedTo,omitempty"`
	Durability                 *ValueProperty  `json:"durability,omitempty"`
	StoredExperience           *ValueProperty  `json:"storedExperience,omitempty"`

	Flask     *FlaskProperties     `json:"flask,omitempty"`
	Heist     *HeistProperties     `json:"heist,omitempty"`
	Incursion *IncursionProperties `json:"incursion,omitempty"`
	Ultimatum *UltimatumProperties `json:"ultimatum,omitempty"`
	Sentinel  *SentinelProperties  `json:"sentinel,omitempty"`
}

// Prophecy is the text of a prophecy item.
type Prophecy struct {
	Text string `json:"text"`
}

// Item is the accumulator filled by the section parsers and the
// processors. Fields stay zero when their facet is absent.
type Item struct {
	ItemClass string   `json:"itemClass,omitempty"`
	Rarity    Rarity   `json:"rarity"`
	Category  Category `json:"category"`
	NameID    string   `json:"nameId,omitempty"`
	Name      string   `json:"name,omitempty"`
	TypeID    string   `json:"typeId"`
	Type      string   `json:"type"`
	Note      string   `json:"note,omitempty"`

	// Level is the item level.
	Level *Value `json:"level,omitempty"`

	Corrupted     bool `json:"corrupted,omitempty"`
	Unmodifiable  bool `json:"unmodifiable,omitempty"`
	Unidentified  bool `json:"unidentified,omitempty"`
	Veiled        bool `json:"veiled,omitempty"`
	Blighted      bool `json:"blighted,omitempty"`
	BlightRavaged bool `json:"blightRavaged,omitempty"`
	Relic         bool `json:"relic,omitempty"`

	Influences   *Influences   `json:"influences,omitempty"`
	Damage       *Damage       `json:"damage,omitempty"`
	Sockets      []Socket      `json:"sockets,omitempty"`
	Properties   *Properties   `json:"properties,omitempty"`
	Requirements *Requirements `json:"requirements,omitempty"`
	Prophecy     *Prophecy     `json:"prophecy,omitempty"`
	Stats        []*Stat       `json:"stats,omitempty"`
}

// EnsureProperties returns the property group, creating it on first use.
func (i *Item) EnsureProperties() *Properties {
	if i.Properties == nil {
		i.Properties = &Properties{}
	}
	return i.Properties
}

// StatsByID returns every stat with the given canonical id.
func (i *Item) StatsByID(id string) []*Stat {
	var out []*Stat
	for _, s := range i.Stats {
		if s.ID == id {
			out = append(out, s)
		}
	}
	return out
}

// Links returns the size of the largest linked socket group.
func (i *Item) Links() int {
	best, run := 0, 0
	for _, s := range i.Sockets {
		run++
		if run > best {
			best = run
		}
		if !s.Linked {
			run = 0
		}
	}
	return best
}

package parser

import (
	"errors"
	"strings"
	"testing"

	"poe-overlay/internal/item"
	"poe-overlay/internal/refdata"
	"poe-overlay/internal/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParser(t *testing.T, lang refdata.Language) *ItemParserService {
	t.Helper()
	data, err := refdata.Default()
	require.NoError(t, err)
	matcher := stats.NewService(data.ClientStrings, data.Stats)
	return NewItemParserService(DepsFrom(data, matcher), lang)
}

func sections(blocks ...string) string {
	return strings.Join(blocks, "\n--------\n")
}

const victoryCorona = `Item Class: Helmets
Rarity: Rare
Victory Corona
Steel Circlet
--------
Energy Shield: 46
--------
Requirements:
Level: 60
Str: 96
Int: 125
--------
Sockets: R-B-B-B
--------
Item Level: 47
--------
+25 to Intelligence
+29 to maximum Life
6% increased Rarity of Items found
+7% to Cold Resistance`

func TestParseVictoryCorona(t *testing.T) {
	t.Parallel()

	svc := newTestParser(t, refdata.English)
	it, err := svc.Parse(victoryCorona)
	require.NoError(t, err)

	assert.Equal(t, "Helmets", it.ItemClass)
	assert.Equal(t, item.RarityRare, it.Rarity)
	assert.True(t, it.Category.Is(item.CategoryArmourHelmet))
	assert.Equal(t, "Victory Corona", it.Name)
	assert.Equal(t, "Steel Circlet", it.TypeID)
	assert.Equal(t, &item.Requirements{Level: 60, Str: 96, Int: 125}, it.Requirements)

	require.NotNil(t, it.Level)
	assert.Equal(t, 47.0, it.Level.Value)
	assert.Len(t, it.Sockets, 4)
	assert.Equal(t, 4, it.Links())

	require.NotNil(t, it.Properties)
	require.NotNil(t, it.Properties.ArmourEnergyShield)
	assert.Equal(t, 46.0, it.Properties.ArmourEnergyShield.Value.Value)

	require.Len(t, it.Stats, 4)
	var values []float64
	for _, s := range it.Stats {
		assert.Equal(t, item.StatTypeExplicit, s.Type)
		require.Len(t, s.Values, 1)
		values = append(values, s.Values[0].Value)
	}
	assert.Equal(t, []float64{25, 29, 6, 7}, values)
}

func TestParseUnparsable(t *testing.T) {
	t.Parallel()

	svc := newTestParser(t, refdata.English)
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"no rarity", "Steel Circlet\n--------\n+25 to Intelligence"},
		{"unknown rarity", "Rarity: Legendary\nSteel Circlet"},
		{"unknown base type", "Rarity: Rare\nVictory Corona\nIron Bucket"},
		{"missing type line", "Rarity: Normal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			it, err := svc.Parse(tt.text)
			assert.Nil(t, it)
			assert.True(t, errors.Is(err, ErrUnparsable))
		})
	}
}

func TestParseRestrictsSections(t *testing.T) {
	t.Parallel()

	svc := newTestParser(t, refdata.English)
	it, err := svc.Parse(victoryCorona, SectionItemLevel)
	require.NoError(t, err)

	assert.Equal(t, item.RarityRare, it.Rarity)
	require.NotNil(t, it.Level)
	assert.Equal(t, 47.0, it.Level.Value)
	assert.Nil(t, it.Requirements)
	assert.Empty(t, it.Sockets)
	assert.Empty(t, it.Stats)
}

func TestParserOrder(t *testing.T) {
	t.Parallel()

	svc := newTestParser(t, refdata.English)
	assert.Equal(t, []SectionID{
		SectionRarity, SectionRequirements, SectionNote, SectionItemLevel, SectionSockets,
		SectionUltimatum, SectionRelic, SectionIncursion, SectionHeist, SectionSentinel, SectionProperties,
		SectionFlask, SectionProphecy, SectionGemExperience, SectionCorrupted, SectionUnmodifiable,
		SectionVeiled, SectionInfluences, SectionUnidentified, SectionStats, SectionSpecialStats,
	}, svc.Sections())
}

func TestParseMapTierDerivesAreaLevel(t *testing.T) {
	t.Parallel()

	svc := newTestParser(t, refdata.English)
	for _, tier := range []int{1, 5, 10, 14, 16} {
		text := sections(
			"Rarity: Normal\nTower Map",
			"Map Tier: "+item.FormatNumber(float64(tier)),
			"Item Level: 80",
		)
		it, err := svc.Parse(text)
		require.NoError(t, err)
		require.NotNil(t, it.Properties)
		require.NotNil(t, it.Properties.AreaLevel)
		assert.Equal(t, float64(67+tier), it.Properties.AreaLevel.Value.Value, "tier %d", tier)
	}
}

func TestParseMapProperties(t *testing.T) {
	t.Parallel()

	svc := newTestParser(t, refdata.English)
	it, err := svc.Parse(sections(
		"Item Class: Maps\nRarity: Magic\nTower Map",
		"Map Tier: 5\nItem Quantity: +22% (augmented)\nItem Rarity: +13% (augmented)\nMonster Pack Size: +8% (augmented)\nQuality: +10% (augmented)",
		"Item Level: 72",
		"40% increased Monster Damage",
	))
	require.NoError(t, err)

	props := it.Properties
	require.NotNil(t, props)
	assert.Equal(t, 22.0, props.MapQuantity.Value.Value)
	assert.True(t, props.MapQuantity.Augmented)
	assert.Equal(t, 13.0, props.MapRarity.Value.Value)
	assert.Equal(t, 8.0, props.MapPacksize.Value.Value)
	assert.Equal(t, 10.0, props.Quality.Value.Value)
	assert.Equal(t, 72.0, props.AreaLevel.Value.Value)

	require.Len(t, it.Stats, 1)
	assert.Equal(t, 40.0, it.Stats[0].Values[0].Value)
}

func TestParseWeaponProperties(t *testing.T) {
	t.Parallel()

	svc := newTestParser(t, refdata.English)
	it, err := svc.Parse(sections(
		"Rarity: Rare\nDoom Edge\nVaal Axe",
		"Two Hand Axe\nQuality: +20% (augmented)\nPhysical Damage: 150-250 (augmented)\nElemental Damage: 10-20 (augmented), 5-30 (augmented)\nCritical Strike Chance: 5.00%\nAttacks per Second: 1.35 (augmented)\nWeapon Range: 13",
		"Item Level: 84",
		"100% increased Physical Damage\n10% increased Attack Speed",
	))
	require.NoError(t, err)

	props := it.Properties
	require.NotNil(t, props)
	require.NotNil(t, props.WeaponPhysicalDamage)
	assert.Equal(t, 150.0, *props.WeaponPhysicalDamage.Value.Min)
	assert.Equal(t, 250.0, *props.WeaponPhysicalDamage.Value.Max)
	require.Len(t, props.WeaponElementalDamage, 2)
	assert.Equal(t, 30.0, *props.WeaponElementalDamage[1].Value.Max)
	assert.Equal(t, 5.0, props.WeaponCriticalStrikeChance.Value.Value)
	assert.Equal(t, 1.35, props.WeaponAttacksPerSecond.Value.Value)
	assert.Equal(t, 13.0, props.WeaponRange.Value.Value)
	assert.Equal(t, 20.0, props.Quality.Value.Value)

	require.Len(t, it.Stats, 2)
	assert.Equal(t, "local_physical_damage_+%", it.Stats[0].ID)
	assert.Equal(t, "stat_210067635", it.Stats[1].TradeID)
}

func TestParseCatalystQuality(t *testing.T) {
	t.Parallel()

	svc := newTestParser(t, refdata.English)
	it, err := svc.Parse(sections(
		"Rarity: Rare\nRift Clasp\nLeather Belt",
		"Quality (Life and Mana Modifiers): +20% (augmented)",
		"Item Level: 80",
	))
	require.NoError(t, err)
	require.NotNil(t, it.Properties)
	assert.Equal(t, "Life and Mana Modifiers", it.Properties.QualityType)
	assert.Equal(t, 20.0, it.Properties.Quality.Value.Value)
	assert.True(t, it.Properties.Quality.Augmented)
}

const ultimatumEncounter = "Encounter: Protect the Altar\nArea Level: 75\nNumber of Trials: 10"
const ultimatumSacrifice = "Requires Sacrifice: Chaos Orb x30\nReward: Doubles sacrificed Currency"
const ultimatumMods = "Ruin\nLimited Arena"

func TestParseUltimatum(t *testing.T) {
	t.Parallel()

	svc := newTestParser(t, refdata.English)
	it, err := svc.Parse(sections("Rarity: Normal\nInscribed Ultimatum", ultimatumEncounter, ultimatumSacrifice, ultimatumMods))
	require.NoError(t, err)

	require.NotNil(t, it.Properties)
	u := it.Properties.Ultimatum
	require.NotNil(t, u)
	assert.Equal(t, item.UltimatumChallengeDefense, u.ChallengeType)
	assert.Equal(t, item.UltimatumRewardCurrency, u.RewardType)
	assert.Equal(t, "Chaos Orb", u.RequiredItem)
	assert.Equal(t, 30, u.RequiredItemAmount)
	assert.Equal(t, 10, u.TrialCount)
	require.NotNil(t, it.Properties.AreaLevel)
	assert.Equal(t, 75.0, it.Properties.AreaLevel.Value.Value)

	var mods []string
	for _, s := range it.Stats {
		assert.Equal(t, item.StatTypeUltimatum, s.Type)
		mods = append(mods, s.ID)
	}
	assert.Equal(t, []string{"ultimatum_ruin", "ultimatum_limited_arena"}, mods)
}

func TestParseUltimatumUniqueReward(t *testing.T) {
	t.Parallel()

	svc := newTestParser(t, refdata.English)
	it, err := svc.Parse(sections(
		"Rarity: Normal\nInscribed Ultimatum",
		"Encounter: Exterminate\nArea Level: 80",
		"Requires Sacrifice: Headhunter x1\nReward: Kaom's Heart",
	))
	require.NoError(t, err)

	u := it.Properties.Ultimatum
	require.NotNil(t, u)
	assert.Equal(t, item.UltimatumChallengeExterminate, u.ChallengeType)
	assert.Equal(t, item.UltimatumRewardUniqueItem, u.RewardType)
	assert.Equal(t, "Kaom's Heart", u.RewardUnique)
	assert.Equal(t, "Headhunter", u.RequiredItem)
}

func TestParseSectionOrderInvariance(t *testing.T) {
	t.Parallel()

	svc := newTestParser(t, refdata.English)
	tests := []struct {
		name   string
		header string
		blocks []string
		pick   func(*item.Item) any
	}{
		{
			name:   "ultimatum",
			header: "Rarity: Normal\nInscribed Ultimatum",
			blocks: []string{ultimatumEncounter, ultimatumSacrifice, "Item Level: 80", ultimatumMods},
			pick: func(it *item.Item) any {
				return []any{it.Properties.Ultimatum, it.Properties.AreaLevel}
			},
		},
		{
			name:   "heist",
			header: "Rarity: Normal\nContract: Bunker",
			blocks: []string{
				"Heist Target: Golden Idol (Precious)\nArea Level: 81",
				"Requires Lockpicking (Level 3)\nRequires Agility (Level 2)",
				"Item Level: 82",
				"Wings Revealed: 1/3\nEscape Routes Revealed: 2/6",
			},
			pick: func(it *item.Item) any {
				return []any{it.Properties.Heist, it.Properties.AreaLevel}
			},
		},
		{
			name:   "incursion",
			header: "Rarity: Normal\nChronicle of Atzoatl",
			blocks: []string{
				"Open Rooms:\nDoryani's Institute (Tier 3)\nSanctum of Unity (Tier 2)",
				"Item Level: 75",
				"Obstructed Rooms:\nCrucible of Flame (Tier 1)",
				"Area Level: 75",
			},
			pick: func(it *item.Item) any {
				return []any{it.Properties.Incursion, it.Properties.AreaLevel}
			},
		},
		{
			name:   "sentinel",
			header: "Rarity: Rare\nDread Watcher\nStalker Sentinel",
			blocks: []string{
				"Duration: 21 seconds (augmented)\nEmpowers: 30",
				"Item Level: 68",
				"Empowerment: 15 (augmented)\nDurability: 28/40\nCharge: 1/4",
			},
			pick: func(it *item.Item) any {
				return []any{it.Properties.Sentinel, it.Properties.Durability}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			forward, err := svc.Parse(sections(append([]string{tt.header}, tt.blocks...)...))
			require.NoError(t, err)
			reversed := make([]string, 0, len(tt.blocks)+1)
			reversed = append(reversed, tt.header)
			for i := len(tt.blocks) - 1; i >= 0; i-- {
				reversed = append(reversed, tt.blocks[i])
			}
			backward, err := svc.Parse(sections(reversed...))
			require.NoError(t, err)

			require.NotNil(t, forward.Properties)
			assert.Equal(t, tt.pick(forward), tt.pick(backward))
		})
	}
}

func TestParseHeistContract(t *testing.T) {
	t.Parallel()

	svc := newTestParser(t, refdata.English)
	it, err := svc.Parse(sections(
		"Rarity: Normal\nContract: Bunker",
		"Heist Target: Golden Idol (Precious)\nArea Level: 81",
		"Requires Lockpicking (Level 3)",
		"Item Level: 82",
	))
	require.NoError(t, err)

	h := it.Properties.Heist
	require.NotNil(t, h)
	assert.Equal(t, "Golden Idol", h.ObjectiveName)
	assert.Equal(t, item.HeistObjectiveValuePrecious, h.ObjectiveValue)
	assert.Equal(t, []item.HeistSkill{{Job: "Lockpicking", Level: 3}}, h.Skills)
	assert.Equal(t, 81.0, it.Properties.AreaLevel.Value.Value)
}

func TestParseSentinel(t *testing.T) {
	t.Parallel()

	svc := newTestParser(t, refdata.English)
	it, err := svc.Parse(sections(
		"Rarity: Rare\nDread Watcher\nStalker Sentinel",
		"Duration: 21 seconds (augmented)\nEmpowers: 30\nEmpowerment: 15 (augmented)\nDurability: 28/40\nCharge: 1/4",
		"Item Level: 68",
	))
	require.NoError(t, err)

	assert.Equal(t, item.CategorySentinel, it.Category)
	require.NotNil(t, it.Properties)
	assert.Nil(t, it.Properties.Durability)
	s := it.Properties.Sentinel
	require.NotNil(t, s)
	require.NotNil(t, s.Duration)
	assert.Equal(t, 21.0, s.Duration.Value.Value)
	assert.True(t, s.Duration.Augmented)
	assert.Equal(t, 30.0, s.Empowers.Value.Value)
	assert.False(t, s.Empowers.Augmented)
	assert.Equal(t, 15.0, s.Empowerment.Value.Value)
	assert.True(t, s.Empowerment.Augmented)
	assert.Equal(t, 28.0, s.Durability.Value)
	assert.Equal(t, 40.0, s.DurabilityMax.Value)
	assert.Equal(t, 1.0, s.Charge.Value)
	assert.Equal(t, 4.0, s.ChargeMax.Value)
	require.NotNil(t, it.Level)
	assert.Equal(t, 68.0, it.Level.Value)
}

func TestParseSentinelNeedsCategory(t *testing.T) {
	t.Parallel()

	svc := newTestParser(t, refdata.English)
	it, err := svc.Parse(sections("Rarity: Rare\nVictory Corona\nSteel Circlet", "Durability: 28/40", "Item Level: 47"))
	require.NoError(t, err)

	require.NotNil(t, it.Properties)
	assert.Nil(t, it.Properties.Sentinel)
	assert.NotNil(t, it.Properties.Durability)
}

func TestParseIncursionRooms(t *testing.T) {
	t.Parallel()

	svc := newTestParser(t, refdata.English)
	it, err := svc.Parse(sections(
		"Rarity: Normal\nChronicle of Atzoatl",
		"Open Rooms:\nDoryani's Institute (Tier 3)",
		"Obstructed Rooms:\nCrucible of Flame (Tier 1)",
	))
	require.NoError(t, err)

	inc := it.Properties.Incursion
	require.NotNil(t, inc)
	assert.Equal(t, []item.IncursionRoom{{ID: "doryani's_institute", Text: "Doryani's Institute", Tier: 3}}, inc.OpenRooms)
	assert.Equal(t, []item.IncursionRoom{{ID: "crucible_of_flame", Text: "Crucible of Flame", Tier: 1}}, inc.ClosedRooms)
}

func TestParseRelic(t *testing.T) {
	t.Parallel()

	svc := newTestParser(t, refdata.English)
	it, err := svc.Parse(sections(
		"Rarity: Unique\nHeadhunter\nLeather Belt",
		"Item Level: 80",
		"Relic Unique",
	))
	require.NoError(t, err)
	assert.True(t, it.Relic)
	assert.Equal(t, item.RarityUniqueRelic, it.Rarity)
	assert.Equal(t, "Headhunter", it.NameID)
}

func TestParseFlask(t *testing.T) {
	t.Parallel()

	svc := newTestParser(t, refdata.English)
	it, err := svc.Parse(sections(
		"Rarity: Magic\nGranite Flask",
		"Quality: +20% (augmented)\nLasts 4.80 Seconds\nConsumes 30 of 60 Charges on use\nCurrently has 60 Charges\n+1500 to Armour",
		"Item Level: 68",
	))
	require.NoError(t, err)

	flask := it.Properties.Flask
	require.NotNil(t, flask)
	assert.Equal(t, 4.8, flask.Duration.Value)
	assert.Equal(t, 30.0, flask.ChargesUsed.Value)
	assert.Equal(t, 60.0, flask.ChargesMax.Value)
	assert.Equal(t, 60.0, flask.ChargesCurrent.Value)
	assert.Equal(t, 20.0, it.Properties.Quality.Value.Value)
}

func TestParseGem(t *testing.T) {
	t.Parallel()

	svc := newTestParser(t, refdata.English)
	it, err := svc.Parse(sections(
		"Rarity: Gem\nFireball",
		"Projectile, Spell, AoE, Fire\nLevel: 20 (Max)\nMana Cost: 12\nCast Time: 0.75 sec",
		"Requirements:\nLevel: 70\nInt: 155",
		"Experience: 1/15249",
		"Corrupted",
	))
	require.NoError(t, err)

	assert.Equal(t, item.CategoryGemActive, it.Category)
	require.NotNil(t, it.Properties.GemLevel)
	assert.Equal(t, 20.0, it.Properties.GemLevel.Value.Value)
	require.NotNil(t, it.Properties.GemExperience)
	assert.Equal(t, 15249.0, *it.Properties.GemExperience.Value.Max)
	assert.True(t, it.Corrupted)
	assert.Equal(t, 70, it.Requirements.Level)
}

func TestParseProphecy(t *testing.T) {
	t.Parallel()

	svc := newTestParser(t, refdata.English)
	it, err := svc.Parse(sections(
		"Rarity: Normal\nThe Queen's Sacrifice",
		"Sacrifice the queen to claim the crown.",
		"Right-click to add this prophecy to your character.",
	))
	require.NoError(t, err)
	require.NotNil(t, it.Prophecy)
	assert.Equal(t, "Sacrifice the queen to claim the crown.", it.Prophecy.Text)
}

func TestParseFlagsAndInfluences(t *testing.T) {
	t.Parallel()

	svc := newTestParser(t, refdata.English)
	it, err := svc.Parse(sections(
		"Rarity: Rare\nGrim Crown\nSynthesised Steel Circlet",
		"Energy Shield: 46",
		"Item Level: 86",
		"Veiled Prefix",
		"Shaper Item\nHunter Item",
		"Unidentified",
		"Corrupted",
		"Unmodifiable",
		"Note: ~price 5 chaos",
	))
	require.NoError(t, err)

	assert.Equal(t, "Steel Circlet", it.TypeID)
	assert.True(t, it.Corrupted)
	assert.True(t, it.Unmodifiable)
	assert.True(t, it.Unidentified)
	assert.True(t, it.Veiled)
	assert.Equal(t, "~price 5 chaos", it.Note)
	require.NotNil(t, it.Influences)
	assert.True(t, it.Influences.Shaper)
	assert.True(t, it.Influences.Hunter)
	assert.True(t, it.Influences.Synthesised)
	assert.False(t, it.Influences.Elder)
}

func TestParseLogbookFactions(t *testing.T) {
	t.Parallel()

	svc := newTestParser(t, refdata.English)
	it, err := svc.Parse(sections(
		"Rarity: Magic\nExpedition Logbook",
		"Area Level: 81",
		"Item Level: 81",
		"Knights of the Sun",
		"Druids of the Broken Circle",
	))
	require.NoError(t, err)

	var got []string
	for _, s := range it.Stats {
		assert.Equal(t, item.StatTypePseudo, s.Type)
		assert.True(t, s.Option)
		assert.Equal(t, []item.Value{{Text: "1", Value: 1}}, s.Values)
		got = append(got, s.TradeID)
	}
	assert.Equal(t, []string{"pseudo_logbook_faction_knights", "pseudo_logbook_faction_druids"}, got)
}

func TestParseFrench(t *testing.T) {
	t.Parallel()

	svc := newTestParser(t, refdata.French)
	it, err := svc.Parse(sections(
		"Rareté: Rare\nCouronne victorieuse\nCercle d'acier",
		"Bouclier d'énergie: 46",
		"Niveau de l'objet: 47",
		"+25 à l'Intelligence",
	))
	require.NoError(t, err)

	assert.Equal(t, refdata.French, svc.Language())
	assert.Equal(t, "Steel Circlet", it.TypeID)
	assert.Equal(t, 47.0, it.Level.Value)
	assert.Equal(t, 46.0, it.Properties.ArmourEnergyShield.Value.Value)
	require.Len(t, it.Stats, 1)
	assert.Equal(t, "additional_intelligence", it.Stats[0].ID)
}

func TestParseSockets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in    string
		links int
		want  []item.Socket
	}{
		{"R", 1, []item.Socket{{Color: item.SocketRed}}},
		{"R-G B", 2, []item.Socket{{Color: item.SocketRed, Linked: true}, {Color: item.SocketGreen}, {Color: item.SocketBlue}}},
		{"W-A", 2, []item.Socket{{Color: item.SocketWhite, Linked: true}, {Color: item.SocketAbyss}}},
		{"", 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got := parseSockets(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.links, (&item.Item{Sockets: got}).Links())
		})
	}
}

package processor

import (
	"fmt"
	"testing"

	"poe-overlay/internal/item"
	"poe-overlay/internal/refdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func templates(t *testing.T) StatTemplates {
	t.Helper()
	data, err := refdata.Default()
	require.NoError(t, err)
	return data.Stats
}

func newStat(id string, typ item.StatType, gen item.StatGenType, value float64) *item.Stat {
	return &item.Stat{
		ID:      id,
		TradeID: id,
		Type:    typ,
		GenType: gen,
		Values:  []item.Value{{Text: item.FormatNumber(value), Value: value}},
	}
}

func explicit(id string, value float64) *item.Stat {
	return newStat(id, item.StatTypeExplicit, item.StatGenTypeSuffix, value)
}

func prop(v float64) *item.ValueProperty {
	return &item.ValueProperty{Value: item.Value{Text: item.FormatNumber(v), Value: v}}
}

func rangeProp(lo, hi float64) *item.ValueProperty {
	return &item.ValueProperty{Value: item.Value{Value: lo, Min: item.Float(lo), Max: item.Float(hi)}}
}

// find returns the value of the first stat with id, or false.
func find(it *item.Item, id string) (float64, bool) {
	for _, s := range it.Stats {
		if s.ID == id {
			return signedValue(s), true
		}
	}
	return 0, false
}

func TestEmptyAffixCountRare(t *testing.T) {
	t.Parallel()

	p := &pseudoProcessor{templates: templates(t)}
	for k := 0; k <= 6; k++ {
		t.Run(fmt.Sprintf("k=%d", k), func(t *testing.T) {
			t.Parallel()

			it := &item.Item{Rarity: item.RarityRare, Category: item.CategoryArmourHelmet}
			for i := range k {
				gen := item.StatGenTypePrefix
				if i >= 3 {
					gen = item.StatGenTypeSuffix
				}
				it.Stats = append(it.Stats, newStat(fmt.Sprintf("affix_%d", i), item.StatTypeExplicit, gen, 1))
			}
			p.process(it)

			got, ok := find(it, "pseudo_number_of_empty_affix_mods")
			if k == 0 || k >= 6 {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, float64(6-k), got)
		})
	}
}

func TestEmptyAffixLimits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		it       *item.Item
		affix    float64
		prefix   float64
		suffix   float64
		noPrefix bool
	}{
		{
			name:     "magic with a prefix",
			it:       &item.Item{Rarity: item.RarityMagic, Category: item.CategoryAccessoryRing, Stats: []*item.Stat{newStat("a", item.StatTypeExplicit, item.StatGenTypePrefix, 1)}},
			affix:    1,
			suffix:   1,
			noPrefix: true,
		},
		{
			name:   "rare jewel",
			it:     &item.Item{Rarity: item.RarityRare, Category: item.CategoryJewel, Stats: []*item.Stat{newStat("a", item.StatTypeExplicit, item.StatGenTypeSuffix, 1)}},
			affix:  3,
			prefix: 2,
			suffix: 1,
		},
		{
			name: "extra prefix allowed",
			it: &item.Item{Rarity: item.RarityRare, Category: item.CategoryArmourChest, Stats: []*item.Stat{
				newStat(statPrefixesAllowed, item.StatTypeExplicit, item.StatGenTypeUnknown, 1),
				newStat("a", item.StatTypeFractured, item.StatGenTypePrefix, 1),
				newStat("b", item.StatTypeVeiled, item.StatGenTypeSuffix, 1),
			}},
			affix:  5,
			prefix: 3,
			suffix: 2,
		},
	}

	p := &pseudoProcessor{templates: templates(t)}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p.process(tt.it)

			affix, ok := find(tt.it, "pseudo_number_of_empty_affix_mods")
			require.True(t, ok)
			assert.Equal(t, tt.affix, affix)
			prefix, ok := find(tt.it, "pseudo_number_of_empty_prefix_mods")
			assert.Equal(t, !tt.noPrefix, ok)
			assert.Equal(t, tt.prefix, prefix)
			suffix, _ := find(tt.it, "pseudo_number_of_empty_suffix_mods")
			assert.Equal(t, tt.suffix, suffix)
		})
	}
}

func TestEmptyAffixSkipsNonEquipment(t *testing.T) {
	t.Parallel()

	p := &pseudoProcessor{templates: templates(t)}
	for _, it := range []*item.Item{
		{Rarity: item.RarityRare, Category: item.CategoryMap, Stats: []*item.Stat{explicit("a", 1)}},
		{Rarity: item.RarityUnique, Category: item.CategoryArmourHelmet, Stats: []*item.Stat{explicit("a", 1)}},
		{Rarity: item.RarityNormal, Category: item.CategoryArmourHelmet, Stats: []*item.Stat{explicit("a", 1)}},
	} {
		p.process(it)
		_, ok := find(it, "pseudo_number_of_empty_affix_mods")
		assert.False(t, ok, "%s %s", it.Rarity, it.Category)
	}
}

func TestCraftedModifiers(t *testing.T) {
	t.Parallel()

	p := &pseudoProcessor{templates: templates(t)}
	crafted := func() []*item.Stat {
		return []*item.Stat{
			explicit("a", 1),
			newStat("b", item.StatTypeCrafted, item.StatGenTypePrefix, 1),
		}
	}

	it := &item.Item{Rarity: item.RarityRare, Category: item.CategoryArmourGloves, Stats: crafted()}
	p.process(it)
	n, _ := find(it, "pseudo_number_of_crafted_mods")
	assert.Equal(t, 1.0, n)
	n, _ = find(it, "pseudo_number_of_crafted_prefix_mods")
	assert.Equal(t, 1.0, n)
	_, ok := find(it, "pseudo_number_of_crafted_suffix_mods")
	assert.False(t, ok)
	// The crafted prefix is not an occupied slot on an uncorrupted item.
	n, _ = find(it, "pseudo_number_of_empty_affix_mods")
	assert.Equal(t, 5.0, n)

	corrupted := &item.Item{Rarity: item.RarityRare, Category: item.CategoryArmourGloves, Corrupted: true, Stats: crafted()}
	p.process(corrupted)
	n, _ = find(corrupted, "pseudo_number_of_empty_affix_mods")
	assert.Equal(t, 4.0, n)
}

func TestPseudoResistances(t *testing.T) {
	t.Parallel()

	p := &pseudoProcessor{templates: templates(t), modifiers: pseudoModifiers}
	it := &item.Item{Rarity: item.RarityRare, Category: item.CategoryArmourBoots, Stats: []*item.Stat{
		explicit("base_fire_damage_resistance_%", 10),
		explicit("base_cold_damage_resistance_%", 20),
		explicit("base_resist_all_elements_%", 5),
	}}
	p.process(it)

	want := map[string]float64{
		"pseudo_total_fire_resistance":      15,
		"pseudo_total_cold_resistance":      25,
		"pseudo_total_lightning_resistance": 5,
		"pseudo_total_elemental_resistance": 45,
		"pseudo_total_resistance":           45,
	}
	for id, v := range want {
		got, ok := find(it, id)
		require.True(t, ok, id)
		assert.Equal(t, v, got, id)
	}
	_, ok := find(it, "pseudo_total_chaos_resistance")
	assert.False(t, ok)

	for _, s := range it.Stats {
		assert.Equal(t, item.StatTypePseudo, s.Type, "source %s should be folded", s.ID)
	}
}

func TestPseudoMinimumSourceCount(t *testing.T) {
	t.Parallel()

	p := &pseudoProcessor{templates: templates(t), modifiers: pseudoModifiers}
	it := &item.Item{Rarity: item.RarityRare, Category: item.CategoryArmourBoots, Stats: []*item.Stat{
		explicit("base_fire_damage_resistance_%", 10),
	}}
	p.process(it)

	_, ok := find(it, "pseudo_total_elemental_resistance")
	assert.False(t, ok)
	got, ok := find(it, "pseudo_total_fire_resistance")
	require.True(t, ok)
	assert.Equal(t, 10.0, got)
}

func TestPseudoCombinations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		stats []*item.Stat
		id    string
		want  float64
		none  bool
	}{
		{
			name:  "multiplier",
			stats: []*item.Stat{explicit("base_fire_damage_resistance_%", 10), explicit("base_resist_all_elements_%", 10)},
			id:    "pseudo_total_elemental_resistance",
			want:  40,
		},
		{
			name:  "five every ten",
			stats: []*item.Stat{explicit("base_maximum_life", 40), explicit("additional_strength", 25)},
			id:    "pseudo_total_life",
			want:  50,
		},
		{
			name:  "one every two",
			stats: []*item.Stat{explicit("base_maximum_mana", 30), explicit("additional_intelligence", 25)},
			id:    "pseudo_total_mana",
			want:  42,
		},
		{
			name: "minimum required",
			stats: []*item.Stat{
				explicit("additional_strength", 10),
				explicit("additional_dexterity", 20),
				explicit("additional_intelligence", 30),
				explicit("additional_all_attributes", 5),
			},
			id:   "pseudo_total_all_attributes",
			want: 15,
		},
		{
			name:  "minimum required missing",
			stats: []*item.Stat{explicit("additional_strength", 10), explicit("additional_dexterity", 20)},
			id:    "pseudo_total_all_attributes",
			none:  true,
		},
		{
			name: "negated source",
			stats: []*item.Stat{
				explicit("base_item_found_rarity_+%", 20),
				{ID: "base_item_found_rarity_+%", TradeID: "other", Type: item.StatTypeExplicit, Negated: true, Values: []item.Value{{Text: "5", Value: 5}}},
			},
			id:   "pseudo_increased_rarity",
			want: 15,
		},
	}

	p := &pseudoProcessor{templates: templates(t), modifiers: pseudoModifiers}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			it := &item.Item{Rarity: item.RarityRare, Category: item.CategoryAccessoryAmulet, Stats: tt.stats}
			p.process(it)

			got, ok := find(it, tt.id)
			if tt.none {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPseudoSkipsZeroSum(t *testing.T) {
	t.Parallel()

	p := &pseudoProcessor{templates: templates(t), modifiers: pseudoModifiers}
	strength := explicit("additional_strength", 8)
	intelligence := explicit("additional_intelligence", 1)
	it := &item.Item{Rarity: item.RarityRare, Category: item.CategoryAccessoryRing, Stats: []*item.Stat{strength, intelligence}}
	p.process(it)

	for _, id := range []string{"pseudo_total_life", "pseudo_total_mana"} {
		_, ok := find(it, id)
		assert.False(t, ok, id)
	}
	got, ok := find(it, "pseudo_total_strength")
	require.True(t, ok)
	assert.Equal(t, 8.0, got)

	fire := explicit("base_fire_damage_resistance_%", 10)
	negated := newStat("base_fire_damage_resistance_%", item.StatTypeImplicit, item.StatGenTypeSuffix, 10)
	negated.Negated = true
	it = &item.Item{Rarity: item.RarityRare, Category: item.CategoryAccessoryRing, Stats: []*item.Stat{fire, negated}}
	p.process(it)

	_, ok = find(it, "pseudo_total_fire_resistance")
	assert.False(t, ok)
	assert.True(t, containsStat(it.Stats, fire), "sources of a skipped pseudo stat stay")
	assert.True(t, containsStat(it.Stats, negated))
}

func TestPseudoUnknownTemplateIsSkipped(t *testing.T) {
	t.Parallel()

	p := &pseudoProcessor{templates: templates(t), modifiers: []PseudoModifier{
		{ID: "pseudo_not_in_corpus", Mods: []PseudoSource{{ID: "base_maximum_life"}}},
	}}
	life := explicit("base_maximum_life", 40)
	it := &item.Item{Rarity: item.RarityRare, Category: item.CategoryAccessoryRing, Stats: []*item.Stat{life}}
	p.process(it)

	_, ok := find(it, "pseudo_not_in_corpus")
	assert.False(t, ok)
	assert.True(t, containsStat(it.Stats, life))
}

func TestPseudoQualityProperty(t *testing.T) {
	t.Parallel()

	p := &pseudoProcessor{templates: templates(t), modifiers: pseudoModifiers}
	it := &item.Item{Rarity: item.RarityNormal, Category: item.CategoryFlask, Properties: &item.Properties{Quality: prop(18)}}
	p.process(it)

	got, ok := find(it, "pseudo_total_quality")
	require.True(t, ok)
	assert.Equal(t, 18.0, got)
}

func TestPseudoRemovalExemptions(t *testing.T) {
	t.Parallel()

	fire := func(typ item.StatType) *item.Stat {
		return newStat("base_fire_damage_resistance_%", typ, item.StatGenTypeSuffix, 10)
	}
	life := func(typ item.StatType) *item.Stat {
		return newStat("base_maximum_life", typ, item.StatGenTypePrefix, 30)
	}

	tests := []struct {
		name string
		it   *item.Item
		kept []*item.Stat
	}{
		{
			name: "explicit source is folded",
			it:   &item.Item{Rarity: item.RarityRare, Stats: []*item.Stat{fire(item.StatTypeExplicit)}},
		},
		{
			name: "unique item keeps sources",
			it:   &item.Item{Rarity: item.RarityUnique, Stats: []*item.Stat{fire(item.StatTypeExplicit)}},
		},
		{
			name: "fractured source stays",
			it:   &item.Item{Rarity: item.RarityRare, Stats: []*item.Stat{fire(item.StatTypeFractured)}},
		},
		{
			name: "scourge source stays",
			it:   &item.Item{Rarity: item.RarityRare, Stats: []*item.Stat{fire(item.StatTypeScourge)}},
		},
		{
			name: "scourge in the group keeps the explicit source",
			it:   &item.Item{Rarity: item.RarityRare, Stats: []*item.Stat{fire(item.StatTypeExplicit), fire(item.StatTypeScourge)}},
		},
		{
			name: "synthesised implicit stays",
			it: &item.Item{Rarity: item.RarityRare, Influences: &item.Influences{Synthesised: true},
				Stats: []*item.Stat{life(item.StatTypeImplicit)}},
		},
		{
			name: "plain implicit is folded",
			it:   &item.Item{Rarity: item.RarityRare, Stats: []*item.Stat{life(item.StatTypeImplicit)}},
		},
	}
	// Which inputs survive, by test name.
	survives := map[string][]int{
		"unique item keeps sources":                      {0},
		"fractured source stays":                         {0},
		"scourge source stays":                           {0},
		"scourge in the group keeps the explicit source": {0, 1},
		"synthesised implicit stays":                     {0},
	}

	p := &pseudoProcessor{templates: templates(t), modifiers: pseudoModifiers}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			inputs := append([]*item.Stat(nil), tt.it.Stats...)
			p.process(tt.it)

			for i, in := range inputs {
				want := false
				for _, j := range survives[tt.name] {
					want = want || i == j
				}
				assert.Equal(t, want, containsStat(tt.it.Stats, in), "input %d", i)
			}
		})
	}
}

func TestPseudoSourceOfPseudoStays(t *testing.T) {
	t.Parallel()

	p := &pseudoProcessor{templates: templates(t), modifiers: []PseudoModifier{
		{ID: "pseudo_total_life", Mods: []PseudoSource{{ID: "pseudo_total_strength", Type: item.StatTypePseudo}}},
	}}
	src := newStat("pseudo_total_strength", item.StatTypePseudo, item.StatGenTypeUnknown, 20)
	it := &item.Item{Rarity: item.RarityRare, Stats: []*item.Stat{src}}
	p.process(it)

	assert.True(t, containsStat(it.Stats, src))
	got, ok := find(it, "pseudo_total_life")
	require.True(t, ok)
	assert.Equal(t, 20.0, got)
}

func containsStat(stats []*item.Stat, s *item.Stat) bool {
	for _, x := range stats {
		if x == s {
			return true
		}
	}
	return false
}

func TestCollapseIdenticalStats(t *testing.T) {
	t.Parallel()

	a := explicit("stat_a", 10)
	b := explicit("stat_a", 15)
	implicit := newStat("stat_a", item.StatTypeImplicit, item.StatGenTypeUnknown, 3)
	adds := &item.Stat{ID: "adds", TradeID: "adds", Type: item.StatTypeExplicit, Values: []item.Value{{Value: 1}, {Value: 2}}}
	adds2 := &item.Stat{ID: "adds", TradeID: "adds", Type: item.StatTypeExplicit, Values: []item.Value{{Value: 3}, {Value: 4}}}

	out := collapse([]*item.Stat{a, implicit, b, adds, adds2})
	require.Len(t, out, 3)
	assert.Same(t, a, out[0])
	assert.Equal(t, 25.0, a.Values[0].Value)
	assert.Equal(t, "25", a.Values[0].Text)
	assert.Equal(t, 3.0, out[1].Values[0].Value)
	assert.Equal(t, []float64{4, 6}, []float64{adds.Values[0].Value, adds.Values[1].Value})
}

func TestProcessQuality(t *testing.T) {
	t.Parallel()

	build := func(quality float64, corrupted bool) *item.Item {
		it := &item.Item{
			Category:  item.CategoryArmourHelmet,
			Corrupted: corrupted,
			Properties: &item.Properties{
				ArmourEnergyShield: prop(100),
			},
			Stats: []*item.Stat{explicit("local_energy_shield_+%", 50)},
		}
		if quality > 0 {
			it.Properties.Quality = prop(quality)
		}
		return it
	}

	it := build(0, false)
	processQuality(it, true)
	assert.Equal(t, 113.0, it.Properties.ArmourEnergyShield.Value.Value)
	assert.Equal(t, "113", it.Properties.ArmourEnergyShield.Value.Text)
	assert.Equal(t, 20.0, it.Properties.Quality.Value.Value)

	for name, it := range map[string]*item.Item{
		"corrupted":   build(0, true),
		"max quality": build(20, false),
	} {
		processQuality(it, true)
		assert.Equal(t, 100.0, it.Properties.ArmourEnergyShield.Value.Value, name)
	}

	off := build(0, false)
	processQuality(off, false)
	assert.Equal(t, 100.0, off.Properties.ArmourEnergyShield.Value.Value)
	assert.Nil(t, off.Properties.Quality)
}

func TestProcessQualityWeaponRange(t *testing.T) {
	t.Parallel()

	it := &item.Item{
		Category:   item.CategoryWeaponTwoAxe,
		Properties: &item.Properties{WeaponPhysicalDamage: rangeProp(100, 200), Quality: prop(10)},
	}
	processQuality(it, true)

	v := it.Properties.WeaponPhysicalDamage.Value
	assert.Equal(t, 109.0, *v.Min)
	assert.Equal(t, 218.0, *v.Max)
	assert.Equal(t, "109-218", v.Text)
}

func TestProcessDamage(t *testing.T) {
	t.Parallel()

	it := &item.Item{Properties: &item.Properties{
		WeaponPhysicalDamage:   rangeProp(100, 200),
		WeaponElementalDamage:  []item.ValueProperty{*rangeProp(10, 20)},
		WeaponAttacksPerSecond: prop(1.5),
	}}
	processDamage(it)

	require.NotNil(t, it.Damage)
	assert.Equal(t, 225.0, it.Damage.PDPS.Value)
	assert.Equal(t, 22.5, it.Damage.EDPS.Value)
	assert.Nil(t, it.Damage.CDPS)
	assert.Equal(t, 247.5, it.Damage.DPS.Value)

	noAPS := &item.Item{Properties: &item.Properties{WeaponPhysicalDamage: rangeProp(1, 2)}}
	processDamage(noAPS)
	assert.Nil(t, noAPS.Damage)
}

func TestProcessClusterJewel(t *testing.T) {
	t.Parallel()

	build := func() *item.Item {
		level := item.Value{Text: "70", Value: 70}
		return &item.Item{
			Category: item.CategoryJewelCluster,
			TypeID:   "Large Cluster Jewel",
			Level:    &level,
			Stats:    []*item.Stat{newStat(clusterPassiveCountStat, item.StatTypeEnchant, item.StatGenTypeUnknown, 8)},
		}
	}

	it := build()
	processClusterJewel(it)
	assert.Equal(t, 8.0, *it.Stats[0].Values[0].Min)
	assert.Equal(t, 9.0, *it.Stats[0].Values[0].Max)
	assert.Equal(t, 68.0, *it.Level.Min)
	assert.Equal(t, 74.0, *it.Level.Max)

	svc := NewItemProcessorService(templates(t))
	off := build()
	svc.Process(off, Options{})
	assert.Nil(t, off.Level.Min)
}

func TestProcessMagnitude(t *testing.T) {
	t.Parallel()

	implicit := newStat("base_maximum_life", item.StatTypeImplicit, item.StatGenTypeUnknown, 20)
	other := explicit("base_maximum_mana", 20)
	it := &item.Item{Stats: []*item.Stat{implicit, other, explicit(implicitMagnitudeStat, 50)}}
	processMagnitude(it)

	assert.Equal(t, 30.0, implicit.Values[0].Value)
	assert.Equal(t, "30", implicit.Values[0].Text)
	assert.Equal(t, 20.0, other.Values[0].Value)
}

func TestProcessRunsEveryStep(t *testing.T) {
	t.Parallel()

	svc := NewItemProcessorService(templates(t))
	it := &item.Item{
		Rarity:   item.RarityRare,
		Category: item.CategoryWeaponTwoAxe,
		Properties: &item.Properties{
			WeaponPhysicalDamage:   rangeProp(100, 200),
			WeaponAttacksPerSecond: prop(1),
		},
		Stats: []*item.Stat{
			newStat("base_maximum_life", item.StatTypeImplicit, item.StatGenTypeUnknown, 20),
			explicit(implicitMagnitudeStat, 100),
		},
	}
	svc.Process(it, Options{NormalizeQuality: true})

	// Quality first, so damage sees the normalized physical damage.
	assert.Equal(t, 180.0, it.Damage.PDPS.Value)
	life, ok := find(it, "pseudo_total_life")
	require.True(t, ok)
	assert.Equal(t, 40.0, life)
	_, ok = find(it, "base_maximum_life")
	assert.False(t, ok)

	svc.Process(nil, Options{})
}

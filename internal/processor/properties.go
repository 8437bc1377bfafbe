package processor

import (
	"math"

	"poe-overlay/internal/item"
)

// targetQuality is the quality a normalized item is shown at.
const targetQuality = 20

// qualityScaled pairs a property with the local stat increasing it.
type qualityScaled struct {
	prop      func(*item.Properties) *item.ValueProperty
	increased string
}

var qualityScaledProperties = []qualityScaled{
	{func(p *item.Properties) *item.ValueProperty { return p.WeaponPhysicalDamage }, "local_physical_damage_+%"},
	{func(p *item.Properties) *item.ValueProperty { return p.ArmourArmour }, "local_physical_damage_reduction_rating_+%"},
	{func(p *item.Properties) *item.ValueProperty { return p.ArmourEvasionRating }, "local_evasion_rating_+%"},
	{func(p *item.Properties) *item.ValueProperty { return p.ArmourEnergyShield }, "local_energy_shield_+%"},
	{func(p *item.Properties) *item.ValueProperty { return p.ArmourWard }, ""},
}

// processQuality shows weapons and armour as if they had 20% quality.
// Corrupted items cannot be improved and are left alone.
func processQuality(it *item.Item, normalize bool) {
	if !normalize || it.Corrupted || it.Properties == nil {
		return
	}
	if !it.Category.Is(item.CategoryWeapon) && !it.Category.Is(item.CategoryArmour) {
		return
	}
	props := it.Properties
	quality := 0.0
	if props.Quality != nil {
		quality = props.Quality.Value.Value
	}
	if quality >= targetQuality {
		return
	}

	changed := false
	for _, q := range qualityScaledProperties {
		p := q.prop(props)
		if p == nil {
			continue
		}
		inc := 0.0
		if q.increased != "" {
			for _, s := range it.StatsByID(q.increased) {
				inc += signedValue(s)
			}
		}
		scale := func(v float64) float64 {
			return math.Round(v * (100 + inc + targetQuality) / (100 + inc + quality))
		}
		rescale(&p.Value, scale)
		p.Augmented = true
		changed = true
	}
	if !changed {
		return
	}
	text := "+" + item.FormatNumber(targetQuality) + "%"
	props.Quality = &item.ValueProperty{Value: item.Value{Text: text, Value: targetQuality}, Augmented: true}
}

// rescale applies fn to a value and its bounds and rewrites the text.
func rescale(v *item.Value, fn func(float64) float64) {
	v.Value = fn(v.Value)
	if v.Min != nil {
		v.Min = item.Float(fn(*v.Min))
	}
	if v.Max != nil {
		v.Max = item.Float(fn(*v.Max))
	}
	if v.Min != nil && v.Max != nil && *v.Min != *v.Max {
		v.Text = item.FormatNumber(*v.Min) + "-" + item.FormatNumber(*v.Max)
		return
	}
	v.Text = item.FormatNumber(v.Value)
}

// processDamage derives the per-second damage of a weapon.
func processDamage(it *item.Item) {
	props := it.Properties
	if props == nil || props.WeaponAttacksPerSecond == nil {
		return
	}
	aps := props.WeaponAttacksPerSecond.Value.Value

	var pdps, edps, cdps float64
	if props.WeaponPhysicalDamage != nil {
		pdps = props.WeaponPhysicalDamage.Value.Average() * aps
	}
	for _, e := range props.WeaponElementalDamage {
		edps += e.Value.Average() * aps
	}
	if props.WeaponChaosDamage != nil {
		cdps = props.WeaponChaosDamage.Value.Average() * aps
	}
	dps := pdps + edps + cdps
	if dps <= 0 {
		return
	}

	it.Damage = &item.Damage{DPS: dpsValue(dps)}
	if pdps > 0 {
		it.Damage.PDPS = dpsValue(pdps)
	}
	if edps > 0 {
		it.Damage.EDPS = dpsValue(edps)
	}
	if cdps > 0 {
		it.Damage.CDPS = dpsValue(cdps)
	}
}

func dpsValue(f float64) *item.Value {
	f = math.Round(f*100) / 100
	return &item.Value{Text: item.FormatNumber(f), Value: f}
}

// Passive count buckets per cluster jewel base type.
var clusterPassiveRanges = map[string][][2]float64{
	"Large Cluster Jewel":  {{8, 9}, {10, 11}, {12, 12}},
	"Medium Cluster Jewel": {{4, 5}, {6, 6}},
	"Small Cluster Jewel":  {{2, 2}, {3, 3}},
}

// clusterLevelRanges are the item level tiers cluster jewels roll in.
var clusterLevelRanges = [][2]float64{{1, 49}, {50, 67}, {68, 74}, {75, 83}, {84, 100}}

const clusterPassiveCountStat = "local_jewel_expansion_passive_node_count"

// processClusterJewel widens the passive count and item level of a cluster
// jewel into the ranges trade searches use.
func processClusterJewel(it *item.Item) {
	if !it.Category.Is(item.CategoryJewelCluster) || it.Level == nil {
		return
	}
	counts := it.StatsByID(clusterPassiveCountStat)
	if len(counts) == 0 {
		return
	}
	for _, s := range counts {
		if len(s.Values) == 0 {
			continue
		}
		if r, ok := bucket(clusterPassiveRanges[it.TypeID], s.Values[0].Value); ok {
			s.Values[0].Min, s.Values[0].Max = item.Float(r[0]), item.Float(r[1])
		}
	}
	if r, ok := bucket(clusterLevelRanges, it.Level.Value); ok {
		it.Level.Min, it.Level.Max = item.Float(r[0]), item.Float(r[1])
	}
}

func bucket(ranges [][2]float64, v float64) ([2]float64, bool) {
	for _, r := range ranges {
		if v >= r[0] && v <= r[1] {
			return r, true
		}
	}
	return [2]float64{}, false
}

const implicitMagnitudeStat = "local_implicit_stat_magnitude_+%"

// processMagnitude scales implicit values by the item's implicit modifier
// magnitude stat.
func processMagnitude(it *item.Item) {
	magnitude := 0.0
	found := false
	for _, s := range it.StatsByID(implicitMagnitudeStat) {
		magnitude += signedValue(s)
		found = true
	}
	if !found {
		return
	}
	factor := (magnitude + 100) / 100
	for _, s := range it.Stats {
		if s.Type != item.StatTypeImplicit {
			continue
		}
		for i := range s.Values {
			rescale(&s.Values[i], func(v float64) float64 {
				return math.Round(v*factor*100) / 100
			})
		}
	}
}

// signedValue is the first value of a stat, negative for negated
// phrasings.
func signedValue(s *item.Stat) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	if s.Negated {
		return -s.Values[0].Value
	}
	return s.Values[0].Value
}

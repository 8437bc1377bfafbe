package parser

import (
	"strings"

	"poe-overlay/internal/item"
)

var ultimatumChallenges = []struct {
	id  string
	typ item.UltimatumChallengeType
}{
	{"ItemDisplayUltimatumExterminate", item.UltimatumChallengeExterminate},
	{"ItemDisplayUltimatumSurvive", item.UltimatumChallengeSurvive},
	{"ItemDisplayUltimatumDefense", item.UltimatumChallengeDefense},
	{"ItemDisplayUltimatumConquer", item.UltimatumChallengeConquer},
}

var ultimatumRewards = []struct {
	id  string
	typ item.UltimatumRewardType
}{
	{"ItemDisplayUltimatumRewardCurrency", item.UltimatumRewardCurrency},
	{"ItemDisplayUltimatumRewardDivCards", item.UltimatumRewardDivCards},
	{"ItemDisplayUltimatumRewardMirror", item.UltimatumRewardMirrorRare},
}

// ultimatumParser reads inscribed ultimatums. It runs before the generic
// properties parser so the area level line lands in the trial's block.
type ultimatumParser struct {
	*labels
	types BaseItemTypes
	words Words
}

func (p *ultimatumParser) Section() SectionID { return SectionUltimatum }
func (p *ultimatumParser) Optional() bool     { return true }

func (p *ultimatumParser) Parse(exported *item.ExportedItem, target *item.Item) []*item.Section {
	if exported.Find(p.hasEncounter) == nil {
		return nil
	}

	ultimatum := &item.UltimatumProperties{}
	var consumed []*item.Section
	for _, s := range exported.Sections {
		owned := false
		for _, line := range s.Lines {
			if p.parseLine(line, ultimatum, target) {
				owned = true
			}
		}
		if owned {
			consumed = append(consumed, s)
		}
	}
	target.EnsureProperties().Ultimatum = ultimatum
	return consumed
}

func (p *ultimatumParser) hasEncounter(s *item.Section) bool {
	for _, line := range s.Lines {
		if _, ok := p.prefix("ItemDisplayUltimatumEncounter", line); ok {
			return true
		}
	}
	return false
}

func (p *ultimatumParser) parseLine(line string, u *item.UltimatumProperties, target *item.Item) bool {
	if v, ok := p.prefix("ItemDisplayUltimatumEncounter", line); ok {
		for _, c := range ultimatumChallenges {
			if p.is(c.id, v) {
				u.ChallengeType = c.typ
			}
		}
		return true
	}
	if v, ok := p.prefix("ItemDisplayAreaLevel", line); ok {
		prop := p.valueProperty(v, 0)
		target.EnsureProperties().AreaLevel = &prop
		return true
	}
	if v, ok := p.prefix("ItemDisplayUltimatumTrials", line); ok {
		u.TrialCount = int(item.ParseNumber(v))
		return true
	}
	if m, ok := p.match("ItemDisplayUltimatumSacrifice", line); ok && len(m) == 2 {
		u.RequiredItem = m[0]
		if base, ok := p.types.Search(m[0], p.lang); ok {
			u.RequiredItem = base.ID
		}
		u.RequiredItemAmount = int(item.ParseNumber(m[1]))
		return true
	}
	if m, ok := p.match("ItemDisplayUltimatumReward", line); ok && len(m) == 1 {
		reward := strings.TrimSpace(m[0])
		for _, r := range ultimatumRewards {
			if p.is(r.id, reward) {
				u.RewardType = r.typ
				return true
			}
		}
		u.RewardType = item.UltimatumRewardUniqueItem
		u.RewardUnique = reward
		if id, ok := p.words.Search(reward, p.lang); ok {
			u.RewardUnique = id
		}
		return true
	}
	return false
}

// relicParser flags relic uniques.
type relicParser struct {
	*labels
}

func (p *relicParser) Section() SectionID { return SectionRelic }
func (p *relicParser) Optional() bool     { return true }

func (p *relicParser) Parse(exported *item.ExportedItem, target *item.Item) []*item.Section {
	section := exported.Find(func(s *item.Section) bool {
		return len(s.Lines) == 1 && p.is("ItemDisplayStringRelicUnique", s.Lines[0])
	})
	if section == nil {
		return nil
	}
	target.Relic = true
	if target.Rarity == item.RarityUnique {
		target.Rarity = item.RarityUniqueRelic
	}
	return []*item.Section{section}
}

// incursionParser reads the room lists of a Chronicle of Atzoatl.
type incursionParser struct {
	*labels
}

func (p *incursionParser) Section() SectionID { return SectionIncursion }
func (p *incursionParser) Optional() bool     { return true }

func (p *incursionParser) Parse(exported *item.ExportedItem, target *item.Item) []*item.Section {
	incursion := &item.IncursionProperties{}
	var consumed []*item.Section
	for _, s := range exported.Sections {
		var rooms *[]item.IncursionRoom
		owned := false
		for _, line := range s.Lines {
			switch {
			case p.is("ItemDisplayIncursionOpenRooms", line):
				rooms, owned = &incursion.OpenRooms, true
			case p.is("ItemDisplayIncursionObstructedRooms", line):
				rooms, owned = &incursion.ClosedRooms, true
			case rooms != nil:
				*rooms = append(*rooms, p.room(line))
			}
		}
		if owned {
			consumed = append(consumed, s)
		}
	}
	if len(consumed) == 0 {
		return nil
	}
	target.EnsureProperties().Incursion = incursion
	return consumed
}

func (p *incursionParser) room(line string) item.IncursionRoom {
	if m, ok := p.match("ItemDisplayIncursionRoom", line); ok && len(m) == 2 {
		name := strings.TrimSpace(m[0])
		return item.IncursionRoom{ID: roomID(name), Text: name, Tier: int(item.ParseNumber(m[1]))}
	}
	return item.IncursionRoom{ID: roomID(line), Text: line}
}

func roomID(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

var heistValues = []struct {
	id    string
	value item.HeistObjectiveValue
}{
	{"ItemDisplayHeistValueModerate", item.HeistObjectiveValueModerate},
	{"ItemDisplayHeistValueHigh", item.HeistObjectiveValueHigh},
	{"ItemDisplayHeistValuePrecious", item.HeistObjectiveValuePrecious},
	{"ItemDisplayHeistValuePriceless", item.HeistObjectiveValuePriceless},
}

// heistParser reads contracts and blueprints.
type heistParser struct {
	*labels
}

func (p *heistParser) Section() SectionID { return SectionHeist }
func (p *heistParser) Optional() bool     { return true }

func (p *heistParser) Parse(exported *item.ExportedItem, target *item.Item) []*item.Section {
	if !target.Category.Is(item.CategoryHeistContract) && !target.Category.Is(item.CategoryHeistBlueprint) {
		return nil
	}

	heist := &item.HeistProperties{}
	var consumed []*item.Section
	for _, s := range exported.Sections {
		owned := false
		for _, line := range s.Lines {
			if p.parseLine(line, heist, target) {
				owned = true
			}
		}
		if owned {
			consumed = append(consumed, s)
		}
	}
	if len(consumed) == 0 {
		return nil
	}
	target.EnsureProperties().Heist = heist
	return consumed
}

func (p *heistParser) parseLine(line string, h *item.HeistProperties, target *item.Item) bool {
	if m, ok := p.match("ItemDisplayHeistTarget", line); ok && len(m) == 2 {
		h.ObjectiveName = strings.TrimSpace(m[0])
		for _, v := range heistValues {
			if p.is(v.id, m[1]) {
				h.ObjectiveValue = v.value
			}
		}
		return true
	}
	if m, ok := p.match("ItemDisplayHeistRequires", line); ok && len(m) == 2 {
		h.Skills = append(h.Skills, item.HeistSkill{Job: strings.TrimSpace(m[0]), Level: int(item.ParseNumber(m[1]))})
		return true
	}
	if v, ok := p.prefix("ItemDisplayHeistWingsRevealed", line); ok {
		val := item.ParseValue(v, 0)
		h.WingsRevealed = &val
		return true
	}
	if v, ok := p.prefix("ItemDisplayHeistEscapeRoutes", line); ok {
		val := item.ParseValue(v, 0)
		h.EscapeRoutes = &val
		return true
	}
	if v, ok := p.prefix("ItemDisplayHeistRewardRooms", line); ok {
		val := item.ParseValue(v, 0)
		h.RewardRooms = &val
		return true
	}
	if v, ok := p.prefix("ItemDisplayAreaLevel", line); ok {
		prop := p.valueProperty(v, 0)
		target.EnsureProperties().AreaLevel = &prop
		return true
	}
	return false
}

// sentinelParser reads the drone block of a sentinel. It runs before the
// generic properties parser, which would otherwise take the durability line.
type sentinelParser struct {
	*labels
}

func (p *sentinelParser) Section() SectionID { return SectionSentinel }
func (p *sentinelParser) Optional() bool     { return true }

func (p *sentinelParser) Parse(exported *item.ExportedItem, target *item.Item) []*item.Section {
	if !target.Category.Is(item.CategorySentinel) {
		return nil
	}

	sentinel := &item.SentinelProperties{}
	var consumed []*item.Section
	for _, s := range exported.Sections {
		owned := false
		for _, line := range s.Lines {
			if p.parseLine(line, sentinel) {
				owned = true
			}
		}
		if owned {
			consumed = append(consumed, s)
		}
	}
	if len(consumed) == 0 {
		return nil
	}
	target.EnsureProperties().Sentinel = sentinel
	return consumed
}

func (p *sentinelParser) parseLine(line string, s *item.SentinelProperties) bool {
	if m, rest, ok := p.matchPrefix("ItemDisplaySentinelDuration", line); ok && len(m) == 1 {
		text := m[0]
		if rest != "" {
			text += " " + rest
		}
		prop := p.valueProperty(text, 0)
		s.Duration = &prop
		return true
	}
	if v, ok := p.prefix("ItemDisplaySentinelEmpowerment", line); ok {
		prop := p.valueProperty(v, 0)
		s.Empowerment = &prop
		return true
	}
	if v, ok := p.prefix("ItemDisplaySentinelEmpowers", line); ok {
		prop := p.valueProperty(v, 0)
		s.Empowers = &prop
		return true
	}
	if m, ok := p.match("ItemDisplaySentinelDurability", line); ok && len(m) == 2 {
		cur, max := item.ParseValue(m[0], 0), item.ParseValue(m[1], 0)
		s.Durability, s.DurabilityMax = &cur, &max
		return true
	}
	if m, ok := p.match("ItemDisplaySentinelCharge", line); ok && len(m) == 2 {
		cur, max := item.ParseValue(m[0], 0), item.ParseValue(m[1], 0)
		s.Charge, s.ChargeMax = &cur, &max
		return true
	}
	return false
}

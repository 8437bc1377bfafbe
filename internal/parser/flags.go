package parser

import "poe-overlay/internal/item"

// flagParser consumes a single-line section equal to a label and sets a
// boolean on the item.
type flagParser struct {
	*labels
	section SectionID
	labelID string
	set     func(*item.Item)
}

func newFlagParser(l *labels, section SectionID, labelID string, set func(*item.Item)) *flagParser {
	return &flagParser{labels: l, section: section, labelID: labelID, set: set}
}

func (p *flagParser) Section() SectionID { return p.section }
func (p *flagParser) Optional() bool     { return true }

func (p *flagParser) Parse(exported *item.ExportedItem, target *item.Item) []*item.Section {
	section := exported.Find(func(s *item.Section) bool {
		return len(s.Lines) == 1 && p.is(p.labelID, s.Lines[0])
	})
	if section == nil {
		return nil
	}
	p.set(target)
	return []*item.Section{section}
}

// veiledParser flags items carrying veiled modifiers. The veiled lines
// stay in place for the stat matcher, so nothing is consumed.
type veiledParser struct {
	*labels
}

func (p *veiledParser) Section() SectionID { return SectionVeiled }
func (p *veiledParser) Optional() bool     { return true }

func (p *veiledParser) Parse(exported *item.ExportedItem, target *item.Item) []*item.Section {
	veiled := sectionWithLine(exported, func(line string) bool {
		return p.is("ItemDisplayStringVeiledPrefix", line) || p.is("ItemDisplayStringVeiledSuffix", line)
	})
	if veiled != nil {
		target.Veiled = true
	}
	return nil
}

var influenceLabels = []struct {
	id  string
	set func(*item.Influences)
}{
	{"ItemDisplayStringShaperItem", func(i *item.Influences) { i.Shaper = true }},
	{"ItemDisplayStringElderItem", func(i *item.Influences) { i.Elder = true }},
	{"ItemDisplayStringCrusaderItem", func(i *item.Influences) { i.Crusader = true }},
	{"ItemDisplayStringHunterItem", func(i *item.Influences) { i.Hunter = true }},
	{"ItemDisplayStringRedeemerItem", func(i *item.Influences) { i.Redeemer = true }},
	{"ItemDisplayStringWarlordItem", func(i *item.Influences) { i.Warlord = true }},
	{"ItemDisplayStringSynthesisedItem", func(i *item.Influences) { i.Synthesised = true }},
	{"ItemDisplayStringFracturedItem", func(i *item.Influences) { i.Fractured = true }},
	{"ItemDisplayStringSearingExarchItem", func(i *item.Influences) { i.SearingExarch = true }},
	{"ItemDisplayStringEaterOfWorldsItem", func(i *item.Influences) { i.EaterOfWorlds = true }},
}

// influencesParser reads the block of "Shaper Item" style lines.
type influencesParser struct {
	*labels
}

func (p *influencesParser) Section() SectionID { return SectionInfluences }
func (p *influencesParser) Optional() bool     { return true }

func (p *influencesParser) Parse(exported *item.ExportedItem, target *item.Item) []*item.Section {
	section := exported.Find(func(s *item.Section) bool {
		for _, line := range s.Lines {
			if p.influence(line) < 0 {
				return false
			}
		}
		return true
	})
	if section == nil {
		return nil
	}
	if target.Influences == nil {
		target.Influences = &item.Influences{}
	}
	for _, line := range section.Lines {
		influenceLabels[p.influence(line)].set(target.Influences)
	}
	return []*item.Section{section}
}

func (p *influencesParser) influence(line string) int {
	for i, l := range influenceLabels {
		if p.is(l.id, line) {
			return i
		}
	}
	return -1
}

package parser

import (
	"strings"

	"poe-overlay/internal/item"

	"github.com/rs/zerolog/log"
)

var rarityLabels = []struct {
	id     string
	rarity item.Rarity
}{
	{"ItemDisplayStringNormal", item.RarityNormal},
	{"ItemDisplayStringMagic", item.RarityMagic},
	{"ItemDisplayStringRare", item.RarityRare},
	{"ItemDisplayStringUnique", item.RarityUnique},
	{"ItemDisplayStringCurrency", item.RarityCurrency},
	{"ItemDisplayStringGem", item.RarityGem},
	{"ItemDisplayStringDivinationCard", item.RarityDivinationCard},
}

// rarityParser reads the header block: item class, rarity, name and type.
// Every later parser branches on what it sets, so it is the only required
// parser.
type rarityParser struct {
	*labels
	types BaseItemTypes
	words Words
}

func (p *rarityParser) Section() SectionID { return SectionRarity }
func (p *rarityParser) Optional() bool     { return false }

func (p *rarityParser) Parse(exported *item.ExportedItem, target *item.Item) []*item.Section {
	section := exported.Find(func(s *item.Section) bool {
		return p.rarityLine(s) >= 0
	})
	if section == nil {
		return nil
	}

	at := p.rarityLine(section)
	if at > 0 {
		target.ItemClass, _ = p.prefix("ItemDisplayStringItemClass", section.Lines[0])
	}
	rarityText, _ := p.prefix("ItemDisplayStringRarity", section.Lines[at])
	rarity, ok := p.rarity(rarityText)
	if !ok {
		log.Debug().Str("rarity", rarityText).Msg("Unknown rarity")
		return nil
	}
	target.Rarity = rarity

	names := section.Lines[at+1:]
	if len(names) == 0 {
		return nil
	}
	typeLine := names[len(names)-1]
	if len(names) > 1 {
		target.Name = names[0]
	}

	typeLine = p.stripPrefixes(typeLine, target)
	base, ok := p.types.Search(typeLine, p.lang)
	if !ok {
		log.Debug().Str("type", typeLine).Msg("Unresolved base item type")
		return nil
	}
	target.TypeID = base.ID
	target.Type = typeLine
	target.Category = base.Category

	if target.Name != "" && target.Rarity.IsUnique() {
		if id, ok := p.words.Search(target.Name, p.lang); ok {
			target.NameID = id
		}
	}
	return []*item.Section{section}
}

// rarityLine returns the index of the rarity line: first, or second after
// an item class line. -1 when the section is not the header.
func (p *rarityParser) rarityLine(s *item.Section) int {
	for i := 0; i < len(s.Lines) && i < 2; i++ {
		if _, ok := p.prefix("ItemDisplayStringRarity", s.Lines[i]); ok {
			return i
		}
	}
	return -1
}

func (p *rarityParser) rarity(text string) (item.Rarity, bool) {
	for _, r := range rarityLabels {
		if p.is(r.id, text) {
			return r.rarity, true
		}
	}
	return "", false
}

// stripPrefixes removes the quality, synthesis and blight words the client
// puts in front of a type line.
func (p *rarityParser) stripPrefixes(line string, target *item.Item) string {
	for _, id := range []string{
		"ItemDisplayStringSuperior",
		"ItemDisplayStringSynthesised",
		"ItemDisplayStringBlightRavaged",
		"ItemDisplayStringBlighted",
	} {
		m, ok := p.match(id, line)
		if !ok || len(m) == 0 {
			continue
		}
		switch id {
		case "ItemDisplayStringSynthesised":
			if target.Influences == nil {
				target.Influences = &item.Influences{}
			}
			target.Influences.Synthesised = true
		case "ItemDisplayStringBlighted":
			target.Blighted = true
		case "ItemDisplayStringBlightRavaged":
			target.BlightRavaged = true
		}
		line = strings.TrimSpace(m[0])
	}
	return line
}

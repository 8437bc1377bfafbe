package parser

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"poe-overlay/internal/interpolation"
	"poe-overlay/internal/item"
	"poe-overlay/internal/refdata"
	"poe-overlay/internal/stats"

	"github.com/rs/zerolog/log"
)

// SectionID names the facet a section parser extracts.
type SectionID string

const (
	SectionRarity        SectionID = "rarity"
	SectionRequirements  SectionID = "requirements"
	SectionNote          SectionID = "note"
	SectionItemLevel     SectionID = "itemLevel"
	SectionSockets       SectionID = "sockets"
	SectionUltimatum     SectionID = "ultimatum"
	SectionRelic         SectionID = "relic"
	SectionIncursion     SectionID = "incursion"
	SectionHeist         SectionID = "heist"
	SectionSentinel      SectionID = "sentinel"
	SectionProperties    SectionID = "properties"
	SectionFlask         SectionID = "flask"
	SectionProphecy      SectionID = "prophecy"
	SectionGemExperience SectionID = "gemExperience"
	SectionCorrupted     SectionID = "corrupted"
	SectionUnmodifiable  SectionID = "unmodifiable"
	SectionVeiled        SectionID = "veiled"
	SectionInfluences    SectionID = "influences"
	SectionUnidentified  SectionID = "unidentified"
	SectionStats         SectionID = "stats"
	SectionSpecialStats  SectionID = "specialStats"
)

// SectionParser extracts one facet of an item.
type SectionParser interface {
	// Section identifies the facet.
	Section() SectionID
	// Optional parsers may find nothing; a required parser finding nothing
	// fails the whole parse.
	Optional() bool
	// Parse fills target and returns the exact sections it consumed.
	Parse(exported *item.ExportedItem, target *item.Item) []*item.Section
}

// ClientStrings resolves localized labels by id.
type ClientStrings interface {
	Translate(id string, lang refdata.Language) string
	Has(id string, lang refdata.Language) bool
}

// BaseItemTypes resolves type lines.
type BaseItemTypes interface {
	Search(name string, lang refdata.Language) (*refdata.BaseItemType, bool)
}

// Words resolves unique names.
type Words interface {
	Search(name string, lang refdata.Language) (string, bool)
}

// StatMatcher is the stat search the stats parsers delegate to.
type StatMatcher interface {
	Search(wl stats.Worklist, opts stats.SearchOptions) ([]stats.SearchResult, stats.Worklist)
}

// StatTemplates gives access to stat templates by type.
type StatTemplates interface {
	Provide(typ item.StatType) *refdata.StatTable
}

// Deps are the collaborators of the parser chain.
type Deps struct {
	Strings       ClientStrings
	BaseItemTypes BaseItemTypes
	Words         Words
	Templates     StatTemplates
	Matcher       StatMatcher
}

// DepsFrom wires the reference tables and a matcher.
func DepsFrom(data *refdata.Data, matcher StatMatcher) Deps {
	return Deps{
		Strings:       data.ClientStrings,
		BaseItemTypes: data.BaseItemTypes,
		Words:         data.Words,
		Templates:     data.Stats,
		Matcher:       matcher,
	}
}

// labels reads client strings of one language. Patterns compiled from
// them are cached in a map shared by every language.
type labels struct {
	strings  ClientStrings
	lang     refdata.Language
	patterns *sync.Map
}

// text returns the label, or false when the language lacks it.
func (l *labels) text(id string) (string, bool) {
	if !l.strings.Has(id, l.lang) {
		return "", false
	}
	t := l.strings.Translate(id, l.lang)
	return t, t != ""
}

// prefix returns what follows the label at the start of line.
func (l *labels) prefix(id, line string) (string, bool) {
	t, ok := l.text(id)
	if !ok || !strings.HasPrefix(line, t) {
		return "", false
	}
	return strings.TrimSpace(line[len(t):]), true
}

// is reports whether line is exactly the label.
func (l *labels) is(id, line string) bool {
	t, ok := l.text(id)
	return ok && strings.TrimSpace(t) == line
}

// match matches line against a label with {N} slots and returns the slot
// values.
func (l *labels) match(id, line string) ([]string, bool) {
	re := l.pattern(id, true)
	if re == nil {
		return nil, false
	}
	m := re.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	return m[1:], true
}

// matchPrefix is match for labels that lead a line; it also returns the
// trimmed rest of the line.
func (l *labels) matchPrefix(id, line string) ([]string, string, bool) {
	re := l.pattern(id, false)
	if re == nil {
		return nil, "", false
	}
	m := re.FindStringSubmatchIndex(line)
	if m == nil {
		return nil, "", false
	}
	slots := make([]string, 0, len(m)/2-1)
	for i := 2; i < len(m); i += 2 {
		slots = append(slots, line[m[i]:m[i+1]])
	}
	return slots, strings.TrimSpace(line[m[1]:]), true
}

func (l *labels) pattern(id string, whole bool) *regexp.Regexp {
	key := fmt.Sprintf("%s\x00%s\x00%t", l.lang, id, whole)
	if cached, ok := l.patterns.Load(key); ok {
		return cached.(*regexp.Regexp)
	}
	var re *regexp.Regexp
	if t, ok := l.text(id); ok {
		src := "^" + interpolation.ClientPattern(t)
		if whole {
			src += "$"
		}
		var err error
		re, err = regexp.Compile(src)
		if err != nil {
			log.Warn().Err(err).Str("id", id).Msg("Invalid client string pattern")
			re = nil
		}
	}
	l.patterns.Store(key, re)
	return re
}

// sectionWithLine finds the first section holding a line accepted by fn.
func sectionWithLine(exported *item.ExportedItem, fn func(string) bool) *item.Section {
	return exported.Find(func(s *item.Section) bool {
		for _, line := range s.Lines {
			if fn(line) {
				return true
			}
		}
		return false
	})
}

// valueProperty reads a property value, stripping the augmented marker.
func (l *labels) valueProperty(text string, decimals int) item.ValueProperty {
	augmented := false
	if marker, ok := l.text("ItemDisplayStringAugmented"); ok && strings.Contains(text, marker) {
		augmented = true
		text = strings.TrimSpace(strings.ReplaceAll(text, marker, ""))
	}
	return item.ValueProperty{Value: item.ParseValue(text, decimals), Augmented: augmented}
}

package parser

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"poe-overlay/internal/item"
	"poe-overlay/internal/refdata"

	"github.com/rs/zerolog/log"
)

// ErrUnparsable is returned when a required parser finds nothing: the text
// is not an item the chain understands.
var ErrUnparsable = errors.New("unparsable item text")

// ItemParserService runs the section parser chain over clipboard text.
// It is safe for concurrent use.
type ItemParserService struct {
	lang    refdata.Language
	parsers []SectionParser
}

// NewItemParserService builds the chain for one client language.
func NewItemParserService(deps Deps, lang refdata.Language) *ItemParserService {
	if lang == "" {
		lang = refdata.English
	}
	l := &labels{strings: deps.Strings, lang: lang, patterns: &sync.Map{}}

	// Later parsers read fields set by earlier ones; keep this order.
	parsers := []SectionParser{
		&rarityParser{labels: l, types: deps.BaseItemTypes, words: deps.Words},
		&requirementsParser{labels: l},
		&noteParser{labels: l},
		&itemLevelParser{labels: l},
		&socketsParser{labels: l},
		&ultimatumParser{labels: l, types: deps.BaseItemTypes, words: deps.Words},
		&relicParser{labels: l},
		&incursionParser{labels: l},
		&heistParser{labels: l},
		&sentinelParser{labels: l},
		&propertiesParser{labels: l},
		&flaskParser{labels: l},
		&prophecyParser{labels: l},
		&gemExperienceParser{labels: l},
		newFlagParser(l, SectionCorrupted, "ItemDisplayStringCorrupted", func(i *item.Item) { i.Corrupted = true }),
		newFlagParser(l, SectionUnmodifiable, "ItemDisplayStringUnmodifiable", func(i *item.Item) { i.Unmodifiable = true }),
		&veiledParser{labels: l},
		&influencesParser{labels: l},
		newFlagParser(l, SectionUnidentified, "ItemDisplayStringUnidentified", func(i *item.Item) { i.Unidentified = true }),
		&statsParser{labels: l, matcher: deps.Matcher},
		&specialStatsParser{labels: l, templates: deps.Templates},
	}
	return &ItemParserService{lang: lang, parsers: parsers}
}

// Language returns the client language the chain reads.
func (s *ItemParserService) Language() refdata.Language {
	return s.lang
}

// Sections lists the chain order.
func (s *ItemParserService) Sections() []SectionID {
	out := make([]SectionID, len(s.parsers))
	for i, p := range s.parsers {
		out[i] = p.Section()
	}
	return out
}

// Parse turns clipboard text into an item. When sections are given only
// those optional parsers run; required parsers always run. A failing
// required parser yields ErrUnparsable and no item.
func (s *ItemParserService) Parse(text string, sections ...SectionID) (*item.Item, error) {
	exported := item.Split(text)
	target := &item.Item{}

	for _, p := range s.parsers {
		if p.Optional() && len(sections) > 0 && !slices.Contains(sections, p.Section()) {
			continue
		}
		consumed := p.Parse(exported, target)
		if len(consumed) == 0 {
			if !p.Optional() {
				log.Debug().Str("section", string(p.Section())).Msg("Required section missing")
				return nil, fmt.Errorf("%w: %s", ErrUnparsable, p.Section())
			}
			continue
		}
		exported.Remove(consumed...)
	}
	return target, nil
}

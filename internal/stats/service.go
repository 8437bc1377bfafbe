package stats

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"poe-overlay/internal/interpolation"
	"poe-overlay/internal/item"
	"poe-overlay/internal/refdata"

	"github.com/rs/zerolog/log"
)

// Client string ids of the provenance markers appended to modifier lines.
const (
	MarkerImplicit     = "ItemDisplayStringImplicit"
	MarkerEnchant      = "ItemDisplayStringEnchant"
	MarkerCrafted      = "ItemDisplayStringCrafted"
	MarkerFractured    = "ItemDisplayStringFractured"
	MarkerScourge      = "ItemDisplayStringScourge"
	MarkerVeiledPrefix = "ItemDisplayStringVeiledPrefix"
	MarkerVeiledSuffix = "ItemDisplayStringVeiledSuffix"
)

// suffixMarkers maps stat types to the marker their lines end with.
var suffixMarkers = map[item.StatType]string{
	item.StatTypeImplicit:  MarkerImplicit,
	item.StatTypeEnchant:   MarkerEnchant,
	item.StatTypeCrafted:   MarkerCrafted,
	item.StatTypeFractured: MarkerFractured,
	item.StatTypeScourge:   MarkerScourge,
}

// markedTypes join the explicit search when one of their markers shows up.
var markedTypes = []struct {
	typ     item.StatType
	markers []string
}{
	{item.StatTypeEnchant, []string{MarkerEnchant}},
	{item.StatTypeCrafted, []string{MarkerCrafted}},
	{item.StatTypeFractured, []string{MarkerFractured}},
	{item.StatTypeScourge, []string{MarkerScourge}},
	{item.StatTypeVeiled, []string{MarkerVeiledPrefix, MarkerVeiledSuffix}},
}

// ClientStrings resolves localized labels.
type ClientStrings interface {
	Translate(id string, lang refdata.Language) string
	Has(id string, lang refdata.Language) bool
}

// StatsProvider serves the template corpus and its lookup tables.
type StatsProvider interface {
	Provide(typ item.StatType) *refdata.StatTable
	Local(typ item.StatType) map[string]refdata.LocalFlag
	Indistinguishable(typ item.StatType) map[string][]string
}

// SearchResult is one matched modifier line.
type SearchResult struct {
	Stat *item.Stat
	// Index is the position of the input text the line came from.
	Index int
	// Text is the matched line.
	Text string
	// Offset is where Text starts in the original input text.
	Offset int
}

// Service matches modifier lines against the stat template corpus.
// It is safe for concurrent use.
type Service struct {
	strings ClientStrings
	stats   StatsProvider
	regexes sync.Map // type_tradeId_predicateIndex_language → *regexp.Regexp
}

// NewService creates a matcher over the given reference tables.
func NewService(cs ClientStrings, stats StatsProvider) *Service {
	return &Service{strings: cs, stats: stats}
}

// SearchMultiple matches every text and returns the stats found, ordered by
// input index then by position inside the text.
func (s *Service) SearchMultiple(texts []string, opts SearchOptions) []SearchResult {
	results, _ := s.Search(NewWorklist(texts), opts)
	return results
}

// Search matches the worklist and returns the results together with the
// text left unmatched.
func (s *Service) Search(wl Worklist, opts SearchOptions) ([]SearchResult, Worklist) {
	lang := opts.language()

	var implicits, explicits Worklist
	implicitMarker, hasImplicit := s.marker(MarkerImplicit, lang)
	for _, e := range wl {
		if hasImplicit && strings.Contains(e.Text, implicitMarker) {
			implicits = append(implicits, e)
		} else {
			explicits = append(explicits, e)
		}
	}

	var results []SearchResult
	found, implicits := s.searchTypes(implicits, []item.StatType{item.StatTypeImplicit}, opts)
	results = append(results, found...)
	found, explicits = s.searchTypes(explicits, s.explicitTypes(explicits, opts), opts)
	results = append(results, found...)

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Index != results[j].Index {
			return results[i].Index < results[j].Index
		}
		return results[i].Offset < results[j].Offset
	})

	remaining := append(implicits, explicits...)
	sort.SliceStable(remaining, func(i, j int) bool { return remaining[i].Index < remaining[j].Index })
	return results, remaining
}

func (s *Service) marker(id string, lang refdata.Language) (string, bool) {
	if !s.strings.Has(id, lang) {
		return "", false
	}
	m := s.strings.Translate(id, lang)
	return m, m != ""
}

func (s *Service) explicitTypes(wl Worklist, opts SearchOptions) []item.StatType {
	lang := opts.language()
	types := []item.StatType{item.StatTypeExplicit}
	for _, mt := range markedTypes {
		if s.anyContains(wl, mt.markers, lang) {
			types = append(types, mt.typ)
		}
	}
	if opts.MonsterSample {
		types = append(types, item.StatTypeMonster)
	}
	if opts.Ultimatum {
		types = append(types, item.StatTypeUltimatum)
	}
	return types
}

func (s *Service) anyContains(wl Worklist, markers []string, lang refdata.Language) bool {
	for _, id := range markers {
		m, ok := s.marker(id, lang)
		if !ok {
			continue
		}
		for _, e := range wl {
			if strings.Contains(e.Text, m) {
				return true
			}
		}
	}
	return false
}

func (s *Service) searchTypes(wl Worklist, types []item.StatType, opts SearchOptions) ([]SearchResult, Worklist) {
	lang := opts.language()

	var results []SearchResult
	for _, typ := range types {
		if len(wl) == 0 {
			break
		}
		marker := ""
		if id, ok := suffixMarkers[typ]; ok {
			marker, _ = s.marker(id, lang)
		}
		local := s.stats.Local(typ)

		for _, tpl := range s.stats.Provide(typ).Entries {
			if len(wl) == 0 {
				break
			}
			if !accepts(tpl, local, opts) {
				continue
			}

			descs := tpl.Text[lang]
			matched := make(map[int]bool)
			for pi, desc := range descs {
				re := s.regex(typ, tpl, pi, desc, marker, lang)
				if re == nil {
					continue
				}
				for i := len(wl) - 1; i >= 0; i-- {
					if matched[wl[i].Index] {
						continue
					}
					loc := re.FindStringSubmatchIndex(wl[i].Text)
					if loc == nil {
						continue
					}

					text := wl[i].Text[loc[0]:loc[1]]
					results = append(results, SearchResult{
						Stat:   s.buildStat(typ, tpl, descs, pi, wl[i].Text, loc),
						Index:  wl[i].Index,
						Text:   text,
						Offset: wl[i].Offset(loc[0]),
					})
					matched[wl[i].Index] = true
					wl = Consume(wl, i, loc[0], loc[1])
				}
			}
		}
	}
	return results, wl
}

// accepts applies the map-only and the local/global rules to a template.
func accepts(tpl *refdata.StatTemplate, local map[string]refdata.LocalFlag, opts SearchOptions) bool {
	if tpl.Mod == refdata.StatModMaps && !opts.Map {
		return false
	}
	flag, ok := local[tpl.TradeID]
	if !ok {
		return true
	}
	if tpl.Mod == refdata.StatModLocal {
		return opts.Local.Has(flag)
	}
	return !opts.Local.Has(flag)
}

func (s *Service) regex(typ item.StatType, tpl *refdata.StatTemplate, pi int, desc refdata.StatDesc, marker string, lang refdata.Language) *regexp.Regexp {
	key := fmt.Sprintf("%s_%s_%d_%s", typ, tpl.TradeID, pi, lang)
	if cached, ok := s.regexes.Load(key); ok {
		return cached.(*regexp.Regexp)
	}

	re, err := regexp.Compile(`(?m)^` + interpolation.Pattern(desc.Source) + regexp.QuoteMeta(marker) + `$`)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Invalid stat pattern")
		re = nil
	}
	s.regexes.Store(key, re)
	return re
}

func (s *Service) buildStat(typ item.StatType, tpl *refdata.StatTemplate, descs []refdata.StatDesc, pi int, text string, loc []int) *item.Stat {
	desc := descs[pi]
	stat := &item.Stat{
		ID:                 tpl.ID,
		TradeID:            tpl.TradeID,
		Type:               typ,
		Predicate:          desc.Predicate,
		PredicateIndex:     pi,
		Negated:            tpl.Negated || desc.Negative(),
		Option:             tpl.Option,
		GenType:            tpl.GenType,
		Indistinguishables: s.stats.Indistinguishable(typ)[tpl.TradeID],
		RelatedStats:       tpl.Related,
	}

	switch {
	case tpl.Option:
		stat.Values = []item.Value{{Text: desc.Predicate, Value: item.ParseNumber(desc.Predicate)}}
	case desc.Predicate == "1" && pi+1 < len(descs) && strings.Contains(descs[pi+1].Predicate, interpolation.Placeholder):
		// Singular phrasing of a counted stat; report it as the # variant.
		stat.PredicateIndex = pi + 1
		stat.Predicate = descs[pi+1].Predicate
		stat.Negated = tpl.Negated || descs[pi+1].Negative()
		stat.Values = []item.Value{{Text: "1", Value: 1}}
	default:
		for g := 2; g+1 < len(loc); g += 2 {
			if loc[g] < 0 {
				continue
			}
			stat.Values = append(stat.Values, item.ParseValue(text[loc[g]:loc[g+1]], 0))
		}
	}
	return stat
}

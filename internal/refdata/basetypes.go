package refdata

import (
	"regexp"
	"sync"

	"poe-overlay/internal/item"
	"poe-overlay/internal/textutil"

	"github.com/rs/zerolog/log"
)

// BaseItemType is a base type with its trade category and localized names.
// ID is the English name, which is what the trade API keys types by.
type BaseItemType struct {
	ID       string
	Category item.Category
	Names    map[Language]string
}

// namedEntry is anything Search can resolve: base types and unique words.
type namedEntry interface {
	entryID() string
	entryName(Language) (string, bool)
}

func (b *BaseItemType) entryID() string { return b.ID }

func (b *BaseItemType) entryName(lang Language) (string, bool) {
	n, ok := b.Names[lang]
	return n, ok
}

// nameIndex resolves localized names to entries: an exact folded lookup
// first, then a word-bounded scan keeping the longest name found inside
// the input. Compiled patterns are cached; the cache only grows and a
// recomputed entry is identical, so concurrent use needs no lock.
type nameIndex[T namedEntry] struct {
	entries []T
	byID    map[string]T
	exact   map[Language]map[string]T
	regexes sync.Map // language + "\x00" + id → *regexp.Regexp
}

func newNameIndex[T namedEntry](entries []T) *nameIndex[T] {
	idx := &nameIndex[T]{
		entries: entries,
		byID:    make(map[string]T, len(entries)),
		exact:   make(map[Language]map[string]T),
	}
	for _, e := range entries {
		idx.byID[e.entryID()] = e
		for _, lang := range Languages {
			name, ok := e.entryName(lang)
			if !ok || name == "" {
				continue
			}
			if idx.exact[lang] == nil {
				idx.exact[lang] = make(map[string]T)
			}
			idx.exact[lang][textutil.Fold(name)] = e
		}
	}
	return idx
}

func (idx *nameIndex[T]) search(name string, lang Language) (T, bool) {
	folded := textutil.Fold(name)
	if e, ok := idx.exact[lang][folded]; ok {
		return e, true
	}

	var best T
	bestLen := 0
	for _, e := range idx.entries {
		n, ok := e.entryName(lang)
		if !ok || n == "" {
			continue
		}
		fn := textutil.Fold(n)
		if len(fn) <= bestLen {
			continue
		}
		re := idx.regex(e, fn, lang)
		if re != nil && re.MatchString(folded) {
			best, bestLen = e, len(fn)
		}
	}
	return best, bestLen > 0
}

func (idx *nameIndex[T]) regex(e T, foldedName string, lang Language) *regexp.Regexp {
	key := string(lang) + "\x00" + e.entryID()
	if cached, ok := idx.regexes.Load(key); ok {
		return cached.(*regexp.Regexp)
	}
	re, err := regexp.Compile(`(?:^|[\s,])` + regexp.QuoteMeta(foldedName) + `(?:$|[\s,])`)
	if err != nil {
		log.Warn().Err(err).Str("id", e.entryID()).Msg("Invalid name pattern")
		return nil
	}
	idx.regexes.Store(key, re)
	return re
}

func (idx *nameIndex[T]) translate(id string, lang Language) string {
	if e, ok := idx.byID[id]; ok {
		if n, ok := e.entryName(lang); ok && n != "" {
			return n
		}
	}
	return Untranslated(id, lang)
}

// BaseItemTypes resolves item type lines to base types.
type BaseItemTypes struct {
	index *nameIndex[*BaseItemType]
}

// NewBaseItemTypes indexes the given base types.
func NewBaseItemTypes(entries []*BaseItemType) *BaseItemTypes {
	return &BaseItemTypes{index: newNameIndex(entries)}
}

// Search resolves a localized type line. Magic affixes and prefixes such as
// "Superior" are tolerated by the longest-contained-name fallback.
func (b *BaseItemTypes) Search(name string, lang Language) (*BaseItemType, bool) {
	return b.index.search(name, lang)
}

// Get returns a base type by id.
func (b *BaseItemTypes) Get(id string) (*BaseItemType, bool) {
	e, ok := b.index.byID[id]
	return e, ok
}

// Translate returns the name of a base type id in lang, or the
// Untranslated sentinel.
func (b *BaseItemTypes) Translate(id string, lang Language) string {
	return b.index.translate(id, lang)
}

// Word is a unique item name.
type Word struct {
	ID    string
	Names map[Language]string
}

func (w *Word) entryID() string { return w.ID }

func (w *Word) entryName(lang Language) (string, bool) {
	n, ok := w.Names[lang]
	return n, ok
}

// Words resolves unique item names to ids.
type Words struct {
	index *nameIndex[*Word]
}

// NewWords indexes the given unique names.
func NewWords(entries []*Word) *Words {
	return &Words{index: newNameIndex(entries)}
}

// Search resolves a localized unique name exactly (after folding).
func (w *Words) Search(name string, lang Language) (string, bool) {
	e, ok := w.index.exact[lang][textutil.Fold(name)]
	if !ok {
		return "", false
	}
	return e.ID, true
}

// Translate returns the name of a unique id in lang.
func (w *Words) Translate(id string, lang Language) string {
	return w.index.translate(id, lang)
}

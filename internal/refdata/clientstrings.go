package refdata

import (
	"regexp"
	"sort"
)

// Translation is one client string resolved by TranslateMultiple.
type Translation struct {
	ID   string
	Text string
}

// ClientStrings resolves localized UI labels by id. Parsers are written
// against ids only, so the same parser serves every language.
type ClientStrings struct {
	byLanguage map[Language]map[string]string
	ids        map[Language][]string
}

// NewClientStrings builds the table from language → id → text.
func NewClientStrings(table map[Language]map[string]string) *ClientStrings {
	c := &ClientStrings{
		byLanguage: table,
		ids:        make(map[Language][]string, len(table)),
	}
	for lang, strs := range table {
		ids := make([]string, 0, len(strs))
		for id := range strs {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		c.ids[lang] = ids
	}
	return c
}

// Translate returns the text of id, or the Untranslated sentinel.
func (c *ClientStrings) Translate(id string, lang Language) string {
	if s, ok := c.byLanguage[lang][id]; ok {
		return s
	}
	return Untranslated(id, lang)
}

// Has reports whether id is translated in lang.
func (c *ClientStrings) Has(id string, lang Language) bool {
	_, ok := c.byLanguage[lang][id]
	return ok
}

// TranslateMultiple returns every string whose id matches re, ordered by id.
func (c *ClientStrings) TranslateMultiple(re *regexp.Regexp, lang Language) []Translation {
	var out []Translation
	for _, id := range c.ids[lang] {
		if re.MatchString(id) {
			out = append(out, Translation{ID: id, Text: c.byLanguage[lang][id]})
		}
	}
	return out
}

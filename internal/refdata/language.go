package refdata

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownLanguage is returned for a language name outside Languages.
var ErrUnknownLanguage = errors.New("unknown language")

// Language is a client language the reference tables are keyed by.
type Language string

const (
	English            Language = "english"
	Portuguese         Language = "portuguese"
	Russian            Language = "russian"
	Thai               Language = "thai"
	German             Language = "german"
	French             Language = "french"
	Spanish            Language = "spanish"
	Korean             Language = "korean"
	TraditionalChinese Language = "traditionalchinese"
	Japanese           Language = "japanese"
)

// Languages lists every supported client language.
var Languages = []Language{
	English, Portuguese, Russian, Thai, German, French, Spanish, Korean, TraditionalChinese, Japanese,
}

// ParseLanguage resolves a configured language name.
func ParseLanguage(s string) (Language, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, l := range Languages {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, s)
}

// Untranslated is the sentinel returned for ids missing in a language.
func Untranslated(id string, lang Language) string {
	return fmt.Sprintf("untranslated: '%s' for language: '%s'", id, lang)
}

// IsUntranslated reports whether s is an Untranslated sentinel.
func IsUntranslated(s string) bool {
	return strings.HasPrefix(s, "untranslated:")
}

package item

// StatType is the provenance class of a modifier. The classes are mutually
// exclusive and each has its own template corpus.
type StatType string

const (
	StatTypePseudo    StatType = "pseudo"
	StatTypeExplicit  StatType = "explicit"
	StatTypeImplicit  StatType = "implicit"
	StatTypeCrafted   StatType = "crafted"
	StatTypeFractured StatType = "fractured"
	StatTypeEnchant   StatType = "enchant"
	StatTypeVeiled    StatType = "veiled"
	StatTypeMonster   StatType = "monster"
	StatTypeUltimatum StatType = "ultimatum"
	StatTypeScourge   StatType = "scourge"
)

// StatTypes lists every provenance class in corpus order.
var StatTypes = []StatType{
	StatTypePseudo,
	StatTypeExplicit,
	StatTypeImplicit,
	StatTypeCrafted,
	StatTypeFractured,
	StatTypeEnchant,
	StatTypeVeiled,
	StatTypeMonster,
	StatTypeUltimatum,
	StatTypeScourge,
}

// StatGenType tells whether a modifier occupies a prefix or a suffix slot.
type StatGenType string

const (
	StatGenTypeUnknown StatGenType = ""
	StatGenTypePrefix  StatGenType = "prefix"
	StatGenTypeSuffix  StatGenType = "suffix"
)

// Stat is a matched modifier line.
type Stat struct {
	ID      string   `json:"id"`
	TradeID string   `json:"tradeId"`
	Type    StatType `json:"type"`
	// Predicate is the template key that matched, "#" for parametrized
	// phrasings.
	Predicate      string      `json:"predicate"`
	PredicateIndex int         `json:"predicateIndex"`
	Values         []Value     `json:"values,omitempty"`
	Negated        bool        `json:"negated,omitempty"`
	Option         bool        `json:"option,omitempty"`
	GenType        StatGenType `json:"genType,omitempty"`
	// Indistinguishables are trade ids rendering the same text.
	Indistinguishables []string `json:"indistinguishables,omitempty"`
	RelatedStats       []string `json:"relatedStats,omitempty"`
}

// Key identifies the trade filter a stat maps to.
func (s *Stat) Key() string {
	return string(s.Type) + "." + s.TradeID
}

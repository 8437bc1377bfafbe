package item

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ValueTier is the roll range of a modifier tier when the client shows it.
type ValueTier struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Value is a number read from item text. Ranges ("10-20") keep the first
// number in Value and both bounds in Min/Max.
type Value struct {
	Text  string     `json:"text"`
	Value float64    `json:"value"`
	Min   *float64   `json:"min,omitempty"`
	Max   *float64   `json:"max,omitempty"`
	Tier  *ValueTier `json:"tier,omitempty"`
}

// Average returns the midpoint of a range, or Value when no range is set.
func (v Value) Average() float64 {
	if v.Min != nil && v.Max != nil {
		return (*v.Min + *v.Max) / 2
	}
	return v.Value
}

// ValueProperty is a numeric property with its "(augmented)" marker.
type ValueProperty struct {
	Value     Value `json:"value"`
	Augmented bool  `json:"augmented"`
}

// Float returns a pointer to f, for the optional bounds of Value.
func Float(f float64) *float64 {
	return &f
}

var numberPattern = regexp.MustCompile(`[+-]?\d+(?:[.,]\d+)?`)

// ParseNumber reads the first number of text. Unparsable text yields 0.
func ParseNumber(text string) float64 {
	m := numberPattern.FindString(text)
	if m == "" {
		return 0
	}
	f, err := strconv.ParseFloat(strings.Replace(m, ",", ".", 1), 64)
	if err != nil {
		return 0
	}
	return f
}

// ParseDecimal reads a number by shifting its digit string: the fractional
// part is padded or cut to decimals places and the whole integer divided by
// 10^decimals. Either "." or "," is accepted as the separator.
func ParseDecimal(text string, decimals int) float64 {
	m := numberPattern.FindString(text)
	if m == "" {
		return 0
	}
	sign := 1.0
	switch m[0] {
	case '-':
		sign = -1
		m = m[1:]
	case '+':
		m = m[1:]
	}
	whole, frac, _ := strings.Cut(strings.Replace(m, ",", ".", 1), ".")
	if len(frac) > decimals {
		frac = frac[:decimals]
	}
	frac += strings.Repeat("0", decimals-len(frac))
	n, err := strconv.ParseInt(whole+frac, 10, 64)
	if err != nil {
		return 0
	}
	return sign * float64(n) / math.Pow10(decimals)
}

// ParseValue reads a Value from text such as "46", "+12%", "10-20" or
// "1/15249". decimals > 0 switches to ParseDecimal for every number.
func ParseValue(text string, decimals int) Value {
	v := Value{Text: text}
	read := func(s string) float64 {
		if decimals > 0 {
			return ParseDecimal(s, decimals)
		}
		return ParseNumber(s)
	}

	numbers := numberPattern.FindAllStringIndex(text, -1)
	if len(numbers) == 0 {
		return v
	}
	first := text[numbers[0][0]:numbers[0][1]]
	if len(numbers) >= 2 {
		between := text[numbers[0][1]:numbers[1][0]]
		second := text[numbers[1][0]:numbers[1][1]]
		// "10-20" lexes as "10" and "-20"; the dash belongs to the range.
		if between == "" && strings.HasPrefix(second, "-") {
			between, second = "-", second[1:]
		}
		switch strings.TrimSpace(between) {
		case "-", "to":
			v.Min = Float(read(first))
			v.Max = Float(read(second))
			v.Value = *v.Min
			return v
		case "/":
			v.Value = read(first)
			v.Min = Float(v.Value)
			v.Max = Float(read(second))
			return v
		}
	}
	v.Value = read(first)
	return v
}

// FormatNumber renders f without trailing zeros.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

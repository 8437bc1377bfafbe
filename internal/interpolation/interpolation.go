package interpolation

import (
	"regexp"
	"strconv"
	"strings"
)

// Placeholder marks a value slot in a stat template ("+# to Strength").
const Placeholder = "#"

// NumberGroup is the capture group substituted for each template slot.
const NumberGroup = `([+-]?\d+(?:[.,]\d+)?)`

// TextGroup is the capture group substituted for client string slots.
const TextGroup = `(.+?)`

// clientSlot matches the positional slots of client strings: {0}, {1}.
var clientSlot = regexp.MustCompile(`\{[0-9]+\}`)

// IsRegex reports whether source is already a regular expression rather
// than a display template. Corpus regexes are always anchored.
func IsRegex(source string) bool {
	return strings.HasPrefix(source, "^")
}

// Pattern turns a stat template into an unanchored regex source: the
// literal text is quoted and each # becomes NumberGroup. Regex sources are
// returned with their anchors stripped.
func Pattern(source string) string {
	if IsRegex(source) {
		source = strings.TrimPrefix(source, "^")
		if strings.HasSuffix(source, "$") && !strings.HasSuffix(source, `\$`) {
			source = strings.TrimSuffix(source, "$")
		}
		return source
	}
	parts := strings.Split(source, Placeholder)
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return strings.Join(parts, NumberGroup)
}

// Count returns the number of value slots in a template.
func Count(template string) int {
	if IsRegex(template) {
		re, err := regexp.Compile(template)
		if err != nil {
			return 0
		}
		return re.NumSubexp()
	}
	return strings.Count(template, Placeholder)
}

// Format fills the # slots of a template in order. Missing values leave
// the slot untouched.
func Format(template string, values []string) string {
	var sb strings.Builder
	next := 0
	for {
		idx := strings.Index(template, Placeholder)
		if idx < 0 || next >= len(values) {
			sb.WriteString(template)
			break
		}
		sb.WriteString(template[:idx])
		sb.WriteString(values[next])
		next++
		template = template[idx+len(Placeholder):]
	}
	return sb.String()
}

// ClientPattern turns a localized client string with {N} slots into a regex
// source matching the whole string; every slot becomes TextGroup.
func ClientPattern(s string) string {
	locs := clientSlot.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return regexp.QuoteMeta(s)
	}
	var sb strings.Builder
	last := 0
	for _, loc := range locs {
		sb.WriteString(regexp.QuoteMeta(s[last:loc[0]]))
		sb.WriteString(TextGroup)
		last = loc[1]
	}
	sb.WriteString(regexp.QuoteMeta(s[last:]))
	return sb.String()
}

// FormatClient fills {N} slots of a client string by position.
func FormatClient(s string, args ...string) string {
	return clientSlot.ReplaceAllStringFunc(s, func(slot string) string {
		n, err := strconv.Atoi(slot[1 : len(slot)-1])
		if err != nil || n >= len(args) {
			return slot
		}
		return args[n]
	})
}

// Package normalize folds place names into comparable keys.
//
// Two key families exist. MakeKey is the corpus indexing key: transliterated,
// uppercased, alphanumeric only. Simplify additionally drops parenthetical
// suffixes and canonicalizes leading-word abbreviations, so that "Mt Rainier"
// and "Mount Rainier" collide. Both truncate to MaxKeyLength.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxKeyLength must match the width of the corpus key columns.
const MaxKeyLength = 40

var specialLetters = strings.NewReplacer(
	"ß", "ss", "ẞ", "SS",
	"æ", "ae", "Æ", "AE",
	"œ", "oe", "Œ", "OE",
	"ø", "o", "Ø", "O",
	"ł", "l", "Ł", "L",
	"đ", "d", "Đ", "D",
	"ð", "d", "Ð", "D",
	"þ", "th", "Þ", "TH",
	"ı", "i",
	"‘", "'", "’", "'",
)

// leading words folded to their abbreviation by Simplify
var abbreviations = map[string]string{
	"FORT":   "FT",
	"MOUNT":  "MT",
	"POINT":  "PT",
	"SAINT":  "ST",
	"SAINTE": "STE",
}

// leading words dropped by SimplifyVariant
var qualifiers = map[string]bool{
	"MOUNT": true,
	"MT":    true,
	"LAKE":  true,
	"FORT":  true,
	"FT":    true,
	"POINT": true,
	"PT":    true,
	"CAPE":  true,
	"PORT":  true,
}

// Transliterate removes diacritics and expands letters that have no
// decomposition (ß, Æ, Ø, ...). Letters outside the Latin script are kept.
func Transliterate(s string) string {
	s = specialLetters.Replace(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// MakeKey returns the corpus indexing key for name.
func MakeKey(name string) string {
	return truncate(strip(strings.ToUpper(Transliterate(name)), false))
}

// Simplify returns the matching key for name with abbreviations folded.
func Simplify(name string) string {
	return simplify(name, false, true)
}

// SimplifyVariant returns the matching key for name without its leading
// qualifier word, e.g. "Mount Rainier" gives "RAINIER".
func SimplifyVariant(name string) string {
	return simplify(name, true, false)
}

// SimplifyLiteral is Simplify without abbreviation folding.
func SimplifyLiteral(name string) string {
	return simplify(name, false, false)
}

func simplify(name string, asVariant, processAbbreviations bool) string {
	if i := strings.IndexByte(name, '('); i > 0 {
		name = name[:i]
	}

	words := strings.Fields(strip(strings.ToUpper(Transliterate(name)), true))
	if len(words) > 1 {
		switch {
		case asVariant && qualifiers[words[0]]:
			words = words[1:]
		case processAbbreviations:
			if abbr, ok := abbreviations[words[0]]; ok {
				words[0] = abbr
			}
		}
	}

	return truncate(strings.Join(words, ""))
}

// strip keeps ASCII letters and digits. With keepSpaces, whitespace and
// hyphens become word separators.
func strip(s string, keepSpaces bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case keepSpaces && (unicode.IsSpace(r) || r == '-' || r == '/'):
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func truncate(key string) string {
	if len(key) > MaxKeyLength {
		return key[:MaxKeyLength]
	}
	return key
}

// HasDigit reports whether s contains a decimal digit.
func HasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

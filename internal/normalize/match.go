package normalize

import "strings"

// NameLookup resolves long-form display names for state and country codes.
// An empty lang means the default language.
type NameLookup interface {
	CountryName(country, lang string) (string, bool)
	StateName(country, state, lang string) (string, bool)
	CountryCode2(country string) (string, bool)
}

var ukAliases = []string{"Great Britain", "England"}

// CloseMatchForCity reports whether candidate starts with target once both
// are folded to matching keys.
func CloseMatchForCity(target, candidate string) bool {
	return keyPrefix(target, candidate)
}

// CloseMatchForState reports whether target plausibly names the given
// state or country. It is permissive: an empty target, or a row without any
// state or country, always matches.
func CloseMatchForState(names NameLookup, target, state, country, lang string) bool {
	if Simplify(target) == "" && MakeKey(target) == "" {
		return true
	}
	if state == "" && country == "" {
		return true
	}

	candidates := []string{state, country}
	if names != nil {
		for _, l := range uniqueLanguages(lang) {
			if state != "" {
				if n, ok := names.StateName(country, state, l); ok {
					candidates = append(candidates, n)
				}
			}
			if n, ok := names.CountryName(country, l); ok {
				candidates = append(candidates, n)
			}
		}
		if code2, ok := names.CountryCode2(country); ok {
			candidates = append(candidates, code2)
		}
	}
	if country == "GBR" {
		candidates = append(candidates, ukAliases...)
	}

	for _, c := range candidates {
		if keyPrefix(target, c) {
			return true
		}
	}
	return false
}

func uniqueLanguages(lang string) []string {
	if lang == "" {
		return []string{""}
	}
	return []string{lang, ""}
}

// keyPrefix compares under both key families, since a target that already
// went through MakeKey has lost the word boundaries Simplify folds on.
func keyPrefix(target, candidate string) bool {
	t, c := Simplify(target), Simplify(candidate)
	if t != "" && c != "" && strings.HasPrefix(c, t) {
		return true
	}
	t, c = MakeKey(target), MakeKey(candidate)
	return t != "" && c != "" && strings.HasPrefix(c, t)
}

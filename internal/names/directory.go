// Package names holds the read-mostly lookup tables used to interpret and
// display place data: countries, first-level administrative divisions and
// postal-code patterns.
package names

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"atlas-api/internal/normalize"

	"github.com/rs/zerolog/log"
)

// DefaultLanguage is the language used when a request does not name one.
const DefaultLanguage = "en"

// Country is one row of the country table.
type Country struct {
	Code3 string
	Code2 string
	Name  string
	// Names holds localized names keyed by language.
	Names map[string]string
}

// Directory answers name lookups. The built-in tables are immutable; admin
// names loaded from the corpus are added under a lock.
type Directory struct {
	countries map[string]Country
	byCode2   map[string]string
	byKey     map[string]string // MakeKey(any country name) -> code3
	localized map[string]string // "lang:CCC.CODE" -> name
	postal    map[string]*regexp.Regexp

	stateKeys  map[string]bool
	stateCodes map[string]string // "CCC.MAKEKEY(name)" -> code

	mu     sync.RWMutex
	admins map[string]string // "CCC.CODE" -> name
}

var (
	defaultOnce sync.Once
	defaultDir  *Directory
)

// Default returns the directory built from the embedded tables.
func Default() *Directory {
	defaultOnce.Do(func() {
		defaultDir = New()
	})
	return defaultDir
}

// New builds a directory from the embedded tables.
func New() *Directory {
	d := &Directory{
		countries:  make(map[string]Country, len(countryTable)),
		byCode2:    make(map[string]string, len(countryTable)),
		byKey:      make(map[string]string),
		localized:  make(map[string]string, len(localizedAdminNames)),
		postal:     make(map[string]*regexp.Regexp, len(postalPatterns)),
		stateKeys:  make(map[string]bool),
		stateCodes: make(map[string]string),
		admins:     make(map[string]string),
	}

	for _, c := range countryTable {
		d.countries[c.Code3] = c
		d.byCode2[c.Code2] = c.Code3
		d.byKey[normalize.MakeKey(c.Name)] = c.Code3
		d.byKey[c.Code3] = c.Code3
		for _, n := range c.Names {
			d.byKey[normalize.MakeKey(n)] = c.Code3
		}
	}
	for _, alias := range countryAliases {
		d.byKey[normalize.MakeKey(alias.name)] = alias.code3
	}

	for country, divisions := range adminDivisions {
		for code, name := range divisions {
			d.admins[country+"."+code] = name
			d.stateKeys[code] = true
			d.stateKeys[normalize.MakeKey(name)] = true
			d.stateCodes[country+"."+normalize.MakeKey(name)] = code
		}
	}
	for k, v := range localizedAdminNames {
		d.localized[k] = v
	}
	for country, pattern := range postalPatterns {
		d.postal[country] = regexp.MustCompile(pattern)
	}

	return d
}

// AddAdminName registers the long name of an administrative division,
// e.g. AddAdminName("FRA", "11", "Île-de-France").
func (d *Directory) AddAdminName(country, code, name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.admins[country+"."+code] = name
}

// AddLocalizedName registers a language-specific division name.
func (d *Directory) AddLocalizedName(lang, country, code, name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.localized[lang+":"+country+"."+code] = name
}

// Country returns the country row for an alpha-3 code.
func (d *Directory) Country(code3 string) (Country, bool) {
	c, ok := d.countries[code3]
	return c, ok
}

// CountryName returns the name of a country in lang, falling back to the
// default language.
func (d *Directory) CountryName(country, lang string) (string, bool) {
	c, ok := d.countries[country]
	if !ok {
		return "", false
	}
	return Resolve(func(l string) (string, bool) {
		if l == DefaultLanguage {
			return c.Name, true
		}
		n, ok := c.Names[l]
		return n, ok
	}, langOrEmpty(lang), DefaultLanguage)
}

// StateName returns the long name of a first-level division: in lang, then
// in the default language, then from the plain admin table.
func (d *Directory) StateName(country, state, lang string) (string, bool) {
	if state == "" {
		return "", false
	}
	key := country + "." + state

	d.mu.RLock()
	defer d.mu.RUnlock()

	localized := func(k string) (string, bool) {
		n, ok := d.localized[k]
		return n, ok
	}
	if lang != "" && lang != DefaultLanguage {
		if n, ok := Resolve(localized, lang+":"+key); ok {
			return n, true
		}
	}
	if n, ok := Resolve(localized, DefaultLanguage+":"+key); ok {
		return n, true
	}
	n, ok := d.admins[key]
	return n, ok
}

// StateCode returns the code of a built-in division given its name, e.g.
// StateCode("USA", "Illinois") returns "IL".
func (d *Directory) StateCode(country, name string) (string, bool) {
	code, ok := d.stateCodes[country+"."+normalize.MakeKey(name)]
	return code, ok
}

// CountryCode2 returns the alpha-2 code for an alpha-3 code.
func (d *Directory) CountryCode2(country string) (string, bool) {
	c, ok := d.countries[country]
	if !ok {
		return "", false
	}
	return c.Code2, true
}

// FlagCode returns the flag icon code for an alpha-3 country code.
func (d *Directory) FlagCode(country string) string {
	if c, ok := d.countries[country]; ok {
		return strings.ToLower(c.Code2)
	}
	return ""
}

// CountryCode converts an alpha-2 code, alpha-3 code or country name to an
// alpha-3 code. Unknown input is logged and reduced to a placeholder made
// of its first three letters.
func (d *Directory) CountryCode(nameOrCode string) string {
	key := normalize.MakeKey(nameOrCode)
	if key == "" {
		return ""
	}
	if len(key) == 2 {
		if code3, ok := d.byCode2[key]; ok {
			return code3
		}
	}
	if code3, ok := d.byKey[key]; ok {
		return code3
	}

	placeholder := key
	if len(placeholder) > 3 {
		placeholder = placeholder[:3]
	}
	log.Warn().Str("country", nameOrCode).Str("placeholder", placeholder).Msg("unrecognized country")
	return placeholder
}

// IsStateOrCountry reports whether token names a first-level division from
// the built-in tables, or any country by code or name.
func (d *Directory) IsStateOrCountry(token string) bool {
	key := normalize.MakeKey(token)
	if key == "" {
		return false
	}
	if d.stateKeys[key] {
		return true
	}
	if _, ok := d.byKey[key]; ok {
		return true
	}
	_, ok := d.byCode2[key]
	return ok
}

// PostalCountries returns the sorted countries whose postal-code pattern
// matches code.
func (d *Directory) PostalCountries(code string) []string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	var matched []string
	for country, re := range d.postal {
		if re.MatchString(code) {
			matched = append(matched, country)
		}
	}
	sort.Strings(matched)
	return matched
}

// IsPostalCode reports whether code matches any known postal-code pattern.
func (d *Directory) IsPostalCode(code string) bool {
	return len(d.PostalCountries(code)) > 0
}

func langOrEmpty(lang string) string {
	if lang == DefaultLanguage {
		return ""
	}
	return lang
}

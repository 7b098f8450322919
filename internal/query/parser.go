// Package query turns a free-form search string into a models.ParsedQuery.
package query

import (
	"regexp"
	"strings"

	"atlas-api/internal/models"
	"atlas-api/internal/names"
	"atlas-api/internal/normalize"
)

// Mode selects how a trailing word is interpreted in a comma-less query.
type Mode int

const (
	// Loose promotes a trailing state or country name to the target state.
	Loose Mode = iota
	// Strict keeps the whole text as the city and offers the split only as
	// an alternate parse.
	Strict
)

// ParseMode converts "loose" or "strict" to a Mode. Anything else is Loose.
func ParseMode(s string) Mode {
	if strings.EqualFold(s, "strict") {
		return Strict
	}
	return Loose
}

func (m Mode) String() string {
	if m == Strict {
		return "strict"
	}
	return "loose"
}

var trailingWord = regexp.MustCompile(`^(.+?)\s+([\p{L}.]{2,})$`)

// Parser parses queries against a name directory.
type Parser struct {
	dir *names.Directory
}

// NewParser creates a parser.
func NewParser(dir *names.Directory) *Parser {
	return &Parser{dir: dir}
}

// Parse decomposes raw into search targets.
func (p *Parser) Parse(raw string, mode Mode) *models.ParsedQuery {
	q := strings.Join(strings.Fields(raw), " ")
	pq := &models.ParsedQuery{Original: raw}

	parts := strings.Split(q, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	city := field(parts, 0)
	state := field(parts, 1)
	country := field(parts, 2)
	words := strings.Fields(strings.ReplaceAll(q, ",", " "))

	postalSplit := p.splitPostal(pq, words)
	if !postalSplit {
		switch {
		case p.dir.IsPostalCode(city):
			pq.PostalCode = strings.ToUpper(city)
			city = ""
		case state != "" && p.dir.IsPostalCode(state):
			pq.PostalCode = strings.ToUpper(state)
			state = ""
		}
		if city != "" {
			setCity(pq, city)
		}
		if state != "" {
			pq.DisplayState = state
			pq.TargetState = normalize.MakeKey(state)
		}
	}

	// country and state share one matching slot
	if country != "" {
		pq.DisplayState = country
		pq.TargetState = normalize.MakeKey(country)
	}

	if !postalSplit && pq.PostalCode == "" && pq.TargetState == "" && city != "" {
		p.splitTrailingWord(pq, city, mode)
	}

	pq.NormalizedSearch = normalizedSearch(pq)
	return pq
}

// splitPostal handles "<postal> <place>" and "<place> <postal> ..." forms.
func (p *Parser) splitPostal(pq *models.ParsedQuery, words []string) bool {
	if len(words) < 2 {
		return false
	}
	first, second := p.dir.IsPostalCode(words[0]), p.dir.IsPostalCode(words[1])
	if first == second {
		return false
	}

	var rest []string
	if first {
		pq.PostalCode = strings.ToUpper(words[0])
		rest = words[1:]
	} else {
		pq.PostalCode = strings.ToUpper(words[1])
		rest = append([]string{words[0]}, words[2:]...)
	}

	other := strings.Join(rest, " ")
	if p.dir.IsStateOrCountry(other) {
		pq.DisplayState = other
		pq.TargetState = normalize.MakeKey(other)
	} else {
		setCity(pq, other)
	}
	return true
}

func (p *Parser) splitTrailingWord(pq *models.ParsedQuery, city string, mode Mode) {
	m := trailingWord.FindStringSubmatch(city)
	if m == nil {
		return
	}
	rest, abbr := m[1], m[2]

	if mode == Loose && p.dir.IsStateOrCountry(abbr) {
		setCity(pq, rest)
		pq.DisplayState = abbr
		pq.TargetState = normalize.MakeKey(abbr)
		return
	}

	pq.AltCity = normalize.MakeKey(rest)
	pq.AltSimpleCity = normalize.Simplify(rest)
	pq.AltState = normalize.MakeKey(abbr)
}

func setCity(pq *models.ParsedQuery, city string) {
	pq.DisplayCity = city
	pq.TargetCity = normalize.MakeKey(city)
	pq.SimpleCity = normalize.Simplify(city)
}

func normalizedSearch(pq *models.ParsedQuery) string {
	var s string
	switch {
	case pq.PostalCode != "" && pq.TargetCity != "":
		s = pq.TargetCity + ", " + pq.PostalCode
	case pq.PostalCode != "":
		s = pq.PostalCode
	default:
		s = pq.TargetCity
	}
	if pq.TargetState != "" {
		s += ", " + pq.TargetState
	}
	return s
}

func field(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}
	return ""
}

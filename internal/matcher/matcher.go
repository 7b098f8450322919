// Package matcher finds candidate locations for a parsed query in the local
// corpus.
package matcher

import (
	"context"
	"fmt"
	"strings"

	"atlas-api/internal/models"
	"atlas-api/internal/names"
	"atlas-api/internal/normalize"

	"github.com/rs/zerolog"
)

// Options tune one Match call.
type Options struct {
	// Extended admits rows from the external-update tier on the first pass.
	Extended bool
	// MaxMatches is the requested result cap. Scanning stops once four
	// times this many matches were collected. Zero means unbounded.
	MaxMatches int
	// SoundsLike permits phonetic matching.
	SoundsLike bool
	// Language selects localized names. Empty means the default language.
	Language string
}

// Matcher runs the multi-pass search against a corpus.
type Matcher struct {
	corpus Corpus
	dir    *names.Directory
}

// New creates a matcher.
func New(corpus Corpus, dir *names.Directory) *Matcher {
	return &Matcher{corpus: corpus, dir: dir}
}

type target struct {
	city   string
	simple string
	state  string
	postal string
}

type passResult struct {
	found         int
	soundOnly     bool
	localizedHits int
}

type search struct {
	m       *Matcher
	pq      *models.ParsedQuery
	opts    Options
	log     *zerolog.Logger
	matches *models.LocationMap
	seen    map[int64]bool
	count   int
	altUsed bool
	nextID  int64
}

// Match returns the candidates for pq keyed by group key, in the order
// they were found. It clears the alternate parse of pq when no match came
// from it.
func (m *Matcher) Match(ctx context.Context, pq *models.ParsedQuery, opts Options) (*models.LocationMap, error) {
	s := &search{
		m:       m,
		pq:      pq,
		opts:    opts,
		log:     zerolog.Ctx(ctx),
		matches: models.NewLocationMap(),
		seen:    make(map[int64]bool),
	}
	if err := s.run(ctx); err != nil {
		return nil, fmt.Errorf("matcher: %w", err)
	}
	return s.matches, nil
}

func (s *search) run(ctx context.Context) error {
	lang := s.opts.Language
	if lang == names.DefaultLanguage {
		lang = ""
	}
	postal := s.pq.PostalCode
	bonus := 0
	var stateCleared, postalTrimmed, altExhausted bool

	for pass := 0; pass < 2; pass++ {
		t := target{city: s.pq.TargetCity, simple: s.pq.SimpleCity, state: s.pq.TargetState, postal: postal}
		usingAlt := pass == 1 && postal == "" && s.pq.HasAlt() && !altExhausted
		if usingAlt {
			t.city, t.simple, t.state = s.pq.AltCity, s.pq.AltSimpleCity, s.pq.AltState
		}
		if stateCleared {
			t.state = ""
		}
		if t.city == "" && t.postal == "" {
			continue
		}

		res, err := s.runPass(ctx, pass, t, lang, bonus)
		if err != nil {
			return err
		}
		s.log.Debug().
			Int("pass", pass).
			Str("city", t.city).
			Str("state", t.state).
			Str("postal", t.postal).
			Str("lang", lang).
			Int("found", res.found).
			Msg("corpus pass")

		// retries of the same pass with a modified target
		switch {
		case lang != "" && t.postal == "" && res.found == 0:
			if res.localizedHits > 0 {
				bonus = 1
			}
			lang = ""
			pass--
			continue
		case usingAlt && res.found == 0:
			altExhausted = true
			pass--
			continue
		case (res.found == 0 || res.soundOnly) && !stateCleared && t.state != "" && t.state == t.city:
			stateCleared = true
			pass--
			continue
		case res.found == 0 && pass == 1 && t.postal != "" && !postalTrimmed && strings.ContainsAny(t.postal, " -"):
			// both passes missed the full code; start over with its prefix
			postal = t.postal[:strings.IndexAny(t.postal, " -")]
			postalTrimmed = true
			pass = -1
			continue
		}

		if usingAlt && res.found > 0 {
			s.altUsed = true
		}
		if s.matches.Len() > 0 {
			break
		}
	}

	if !s.altUsed {
		s.pq.ClearAlt()
	}
	return nil
}

func (s *search) runPass(ctx context.Context, pass int, t target, lang string, bonus int) (passResult, error) {
	var res passResult
	rankAboveZero := pass == 0

	if t.postal != "" {
		rows, err := s.m.corpus.Search(ctx, Query{
			Type:          ExactMatch,
			Key:           t.postal,
			Postal:        true,
			RankAboveZero: rankAboveZero,
		})
		if err != nil {
			return res, err
		}
		res.found = s.acceptPostal(rows, pass, t, lang)
		return res, nil
	}

	sound := 0
	for mt := ExactMatch; mt <= SoundsLike; mt++ {
		if mt == SoundsLike && (res.found > 0 || !s.opts.SoundsLike || lang != "" || normalize.HasDigit(t.city)) {
			continue
		}

		rows, hits, err := s.fetch(ctx, mt, t, lang, rankAboveZero)
		if err != nil {
			return res, err
		}
		res.localizedHits += hits

		n, curated := s.acceptRows(rows, mt, pass, t, lang, bonus)
		res.found += n
		if mt == SoundsLike {
			sound = n
		}

		if s.overSoftCap() {
			break
		}
		if n > 0 && (mt >= StartsWith || curated) {
			break
		}
	}
	res.soundOnly = res.found > 0 && res.found == sound
	return res, nil
}

// fetch runs one strategy. hits counts localized alternate-name ids, which
// decide the rank bonus of a default-language retry.
func (s *search) fetch(ctx context.Context, mt MatchType, t target, lang string, rankAboveZero bool) ([]Row, int, error) {
	q := Query{Type: mt, Key: t.city, RankAboveZero: rankAboveZero}

	switch mt {
	case ExactMatchAlt:
		q.Type = ExactMatch
		q.Languages = alternateLanguages(lang)
		rows, _, err := s.byAlternateName(ctx, q)
		return rows, 0, err
	case SoundsLike:
		primary, secondary, ok := normalize.SoundCodes(t.city)
		if !ok {
			return nil, 0, nil
		}
		q.Key, q.AltKey = primary, secondary
	default:
		if lang != "" {
			q.Languages = []string{lang}
			return s.byAlternateName(ctx, q)
		}
		q.SimpleKey = t.simple
	}

	rows, err := s.m.corpus.Search(ctx, q)
	return rows, 0, err
}

func (s *search) byAlternateName(ctx context.Context, q Query) ([]Row, int, error) {
	ids, err := s.m.corpus.AlternateNameIDs(ctx, q)
	if err != nil || len(ids) == 0 {
		return nil, 0, err
	}
	rows, err := s.m.corpus.RowsByID(ctx, ids, q.RankAboveZero)
	return rows, len(ids), err
}

func alternateLanguages(lang string) []string {
	langs := []string{"", names.DefaultLanguage, "abbr"}
	if lang != "" {
		langs = append(langs, lang)
	}
	return langs
}

// acceptRows filters rows and adds the survivors. curated reports whether
// any survivor came from the curated corpus.
func (s *search) acceptRows(rows []Row, mt MatchType, pass int, t target, lang string, bonus int) (n int, curated bool) {
	for _, row := range rows {
		if s.overSoftCap() {
			break
		}
		if !s.admit(row, pass, t, lang) {
			continue
		}

		loc := s.toLocation(row, lang)
		loc.Rank = clampRank(row.Rank + adjustment(mt) + bonus)
		loc.MatchedByAlternateName = mt == ExactMatchAlt || lang != ""
		loc.MatchedBySound = mt == SoundsLike

		s.add(row.ID, loc)
		n++
		if row.Origin == models.OriginAtlas {
			curated = true
		}
	}
	return n, curated
}

func (s *search) admit(row Row, pass int, t target, lang string) bool {
	if s.seen[row.ID] {
		return false
	}
	if pass == 0 && row.Origin == models.OriginAtlasUpdate && !s.opts.Extended {
		return false
	}
	return normalize.CloseMatchForState(s.m.dir, t.state, row.State, row.Country, lang)
}

func (s *search) add(id int64, loc *models.Location) {
	s.seen[id] = true
	s.matches.Add(loc)
	s.count++
}

func (s *search) overSoftCap() bool {
	return s.opts.MaxMatches > 0 && s.count > 4*s.opts.MaxMatches
}

func (s *search) toLocation(row Row, lang string) *models.Location {
	loc := &models.Location{
		City:      row.Name,
		Variant:   row.Variant,
		County:    row.County,
		State:     s.stateName(row.Country, row.State, lang),
		Country:   row.Country,
		Flag:      s.m.dir.FlagCode(row.Country),
		Latitude:  row.Latitude,
		Longitude: row.Longitude,
		Elevation: row.Elevation,
		Zone:      row.Zone,
		ZipCode:   row.PostalCode,
		PlaceType: row.PlaceType,
		Rank:      row.Rank,
		Origin:    row.Origin,
		GeonameID: row.GeonameID,
	}
	if name, ok := s.m.dir.CountryName(row.Country, lang); ok {
		loc.LongCountry = name
	} else {
		s.log.Warn().Str("country", row.Country).Int64("id", row.ID).Msg("unrecognized country code")
	}
	return loc
}

// stateName replaces numeric division codes, and all-caps codes outside
// the US and Canada, with their long names.
func (s *search) stateName(country, state, lang string) string {
	if !needsLongName(country, state) {
		return state
	}
	if name, ok := s.m.dir.StateName(country, state, lang); ok {
		return name
	}
	return state
}

func needsLongName(country, state string) bool {
	if state == "" {
		return false
	}
	if isDigits(state) {
		return true
	}
	return country != "USA" && country != "CAN" && len(state) >= 3 && isUpper(state)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isUpper(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func adjustment(mt MatchType) int {
	switch mt {
	case ExactMatch:
		return 1
	case SoundsLike:
		return -1
	}
	return 0
}

func clampRank(rank int) int {
	return max(0, min(rank, models.ZipRank-1))
}

package matcher

import (
	"context"
	"strings"
	"testing"

	"atlas-api/internal/models"
	"atlas-api/internal/names"
	"atlas-api/internal/normalize"
	"atlas-api/internal/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type altName struct {
	id   int64
	lang string
	key  string
}

type fakeCorpus struct {
	rows    []Row
	postal  []Row
	alt     []altName
	err     error
	queries []Query
}

func (f *fakeCorpus) Search(_ context.Context, q Query) ([]Row, error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}

	var out []Row
	if q.Postal {
		for _, r := range f.rows {
			if r.PostalCode == q.Key && (!q.RankAboveZero || r.Rank > 0) {
				out = append(out, r)
			}
		}
		for _, r := range f.postal {
			if r.PostalCode == q.Key {
				out = append(out, r)
			}
		}
		return out, nil
	}

	for _, r := range f.rows {
		if q.RankAboveZero && r.Rank <= 0 {
			continue
		}
		key, simple := normalize.MakeKey(r.Name), normalize.Simplify(r.Name)
		switch q.Type {
		case ExactMatch:
			if key == q.Key || normalize.SimplifyVariant(r.Name) == q.Key || (q.SimpleKey != "" && simple == q.SimpleKey) {
				out = append(out, r)
			}
		case StartsWith:
			if strings.HasPrefix(key, q.Key) || (q.SimpleKey != "" && strings.HasPrefix(simple, q.SimpleKey)) {
				out = append(out, r)
			}
		case SoundsLike:
			p, s, _ := normalize.SoundCodes(r.Name)
			if p == q.Key || p == q.AltKey || (s != "" && (s == q.Key || s == q.AltKey)) {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func (f *fakeCorpus) AlternateNameIDs(_ context.Context, q Query) ([]int64, error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	var ids []int64
	for _, a := range f.alt {
		if !contains(q.Languages, a.lang) {
			continue
		}
		if (q.Type == ExactMatch && a.key == q.Key) || (q.Type == StartsWith && strings.HasPrefix(a.key, q.Key)) {
			ids = append(ids, a.id)
		}
	}
	return ids, nil
}

func (f *fakeCorpus) RowsByID(_ context.Context, ids []int64, rankAboveZero bool) ([]Row, error) {
	var out []Row
	for _, r := range f.rows {
		for _, id := range ids {
			if r.ID == id && (!rankAboveZero || r.Rank > 0) {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func parse(raw string, mode query.Mode) *models.ParsedQuery {
	return query.NewParser(names.Default()).Parse(raw, mode)
}

func match(t *testing.T, corpus *fakeCorpus, pq *models.ParsedQuery, opts Options) []*models.Location {
	t.Helper()
	m := New(corpus, names.Default())
	got, err := m.Match(context.Background(), pq, opts)
	require.NoError(t, err)
	return got.Values()
}

func cities(locs []*models.Location) []string {
	var out []string
	for _, l := range locs {
		out = append(out, l.City+","+l.State)
	}
	return out
}

var springfields = []Row{
	{ID: 1, GeonameID: 4250542, Name: "Springfield", State: "IL", Country: "USA", Rank: 5, PlaceType: "P.PPLA"},
	{ID: 2, GeonameID: 4409896, Name: "Springfield", State: "MO", Country: "USA", Rank: 5, PlaceType: "P.PPL"},
	{ID: 3, GeonameID: 5136433, Name: "Springfield Gardens", State: "NY", Country: "USA", Rank: 3, PlaceType: "P.PPLX"},
}

func TestMatcher_ExactMatchShortCircuits(t *testing.T) {
	corpus := &fakeCorpus{rows: springfields}

	got := match(t, corpus, parse("Springfield, IL", query.Loose), Options{SoundsLike: true})

	require.Len(t, got, 1)
	assert.Equal(t, "Springfield", got[0].City)
	assert.Equal(t, "IL", got[0].State)
	assert.Equal(t, 6, got[0].Rank)
	assert.Equal(t, "United States", got[0].LongCountry)
	assert.Equal(t, "us", got[0].Flag)
	require.Len(t, corpus.queries, 1)
	assert.Equal(t, ExactMatch, corpus.queries[0].Type)
	assert.True(t, corpus.queries[0].RankAboveZero)
}

func TestMatcher_StartsWith(t *testing.T) {
	corpus := &fakeCorpus{rows: springfields}

	got := match(t, corpus, parse("Springf", query.Loose), Options{SoundsLike: true})

	assert.Equal(t, []string{"Springfield,IL", "Springfield,MO", "Springfield Gardens,NY"}, cities(got))
	for _, l := range got {
		assert.False(t, l.MatchedBySound)
	}
	assert.Equal(t, 5, got[0].Rank)
}

func TestMatcher_AbbreviationsFolded(t *testing.T) {
	corpus := &fakeCorpus{rows: []Row{
		{ID: 11, Name: "Mt. Rainier", State: "WA", Country: "USA", Rank: 5, PlaceType: "T.PK"},
		{ID: 12, Name: "St. Louis", State: "MO", Country: "USA", Rank: 7, PlaceType: "P.PPL"},
		{ID: 13, Name: "Fort Worth", State: "TX", Country: "USA", Rank: 7, PlaceType: "P.PPL"},
	}}

	tests := []struct {
		raw      string
		expected string
	}{
		{raw: "Mount Rainier", expected: "Mt. Rainier,WA"},
		{raw: "Saint Louis, MO", expected: "St. Louis,MO"},
		{raw: "Ft Worth, TX", expected: "Fort Worth,TX"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			corpus.queries = nil
			got := match(t, corpus, parse(tt.raw, query.Loose), Options{})
			require.Len(t, got, 1)
			assert.Equal(t, tt.expected, cities(got)[0])
			assert.Equal(t, ExactMatch, corpus.queries[0].Type)
		})
	}

	t.Run("prefix", func(t *testing.T) {
		got := match(t, corpus, parse("Saint Lou", query.Loose), Options{})
		assert.Equal(t, []string{"St. Louis,MO"}, cities(got))
	})
}

func TestMatcher_PassEscalation(t *testing.T) {
	corpus := &fakeCorpus{rows: []Row{
		{ID: 7, Name: "Smallville", State: "KS", Country: "USA", Rank: 0},
	}}

	got := match(t, corpus, parse("Smallville", query.Loose), Options{})

	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Rank)
	assert.True(t, corpus.queries[0].RankAboveZero)
	assert.False(t, corpus.queries[len(corpus.queries)-1].RankAboveZero)
}

func TestMatcher_UpdateTier(t *testing.T) {
	rows := []Row{
		{ID: 1, Name: "Newtown", Country: "AUS", State: "NSW", Rank: 0},
		{ID: 2, Name: "Newtown", Country: "USA", State: "PA", Rank: 4, Origin: models.OriginAtlasUpdate},
	}

	t.Run("excluded from first pass", func(t *testing.T) {
		got := match(t, &fakeCorpus{rows: rows}, parse("Newtown", query.Loose), Options{})
		assert.Len(t, got, 2)
	})

	t.Run("extended search admits it on first pass", func(t *testing.T) {
		got := match(t, &fakeCorpus{rows: rows}, parse("Newtown", query.Loose), Options{Extended: true})
		require.Len(t, got, 1)
		assert.Equal(t, models.OriginAtlasUpdate, got[0].Origin)
		assert.Equal(t, 5, got[0].Rank)
	})
}

func TestMatcher_StateFilter(t *testing.T) {
	got := match(t, &fakeCorpus{rows: springfields}, parse("Springfield, Missouri", query.Loose), Options{})
	assert.Equal(t, []string{"Springfield,MO"}, cities(got))

	got = match(t, &fakeCorpus{rows: springfields}, parse("Springfield, TX", query.Loose), Options{})
	assert.Empty(t, got)
}

func TestMatcher_SoundsLike(t *testing.T) {
	rows := []Row{{ID: 9, Name: "Smith", State: "NV", Country: "USA", Rank: 3}}

	got := match(t, &fakeCorpus{rows: rows}, parse("Smyth", query.Loose), Options{SoundsLike: true})
	require.Len(t, got, 1)
	assert.True(t, got[0].MatchedBySound)
	assert.Equal(t, 2, got[0].Rank)

	got = match(t, &fakeCorpus{rows: rows}, parse("Smyth", query.Loose), Options{})
	assert.Empty(t, got)
}

func TestMatcher_SoundsLikeSkippedForDigits(t *testing.T) {
	corpus := &fakeCorpus{}
	match(t, corpus, parse("Route 66", query.Loose), Options{SoundsLike: true})
	for _, q := range corpus.queries {
		assert.NotEqual(t, SoundsLike, q.Type)
	}
}

func TestMatcher_StateEqualsCityRetry(t *testing.T) {
	rows := []Row{{ID: 5, Name: "Georgia", Country: "GEO", Rank: 6, PlaceType: "A.PCLI"}}

	got := match(t, &fakeCorpus{rows: rows}, parse("Georgia, Georgia", query.Loose), Options{})

	require.Len(t, got, 1)
	assert.Equal(t, "Georgia", got[0].City)
}

func TestMatcher_RankClamped(t *testing.T) {
	rows := []Row{{ID: 1, Name: "Tokyo", Country: "JPN", Rank: 8}}

	got := match(t, &fakeCorpus{rows: rows}, parse("Tokyo", query.Loose), Options{})

	require.Len(t, got, 1)
	assert.Equal(t, models.ZipRank-1, got[0].Rank)
}

func TestMatcher_AdminLongNames(t *testing.T) {
	rows := []Row{
		{ID: 1, Name: "Paris", State: "11", Country: "FRA", Rank: 7},
		{ID: 2, Name: "Paris", State: "TX", Country: "USA", Rank: 4},
		{ID: 3, Name: "Paris", State: "ENG", Country: "GBR", Rank: 1},
		{ID: 4, Name: "Paris", State: "QQQ", Country: "ITA", Rank: 1},
	}

	got := match(t, &fakeCorpus{rows: rows}, parse("Paris", query.Loose), Options{})

	assert.Equal(t, []string{"Paris,Île-de-France", "Paris,TX", "Paris,England", "Paris,QQQ"}, cities(got))
}

func TestMatcher_Localized(t *testing.T) {
	corpus := &fakeCorpus{
		rows: []Row{{ID: 20, Name: "Munich", State: "02", Country: "DEU", Rank: 6}},
		alt:  []altName{{id: 20, lang: "de", key: "MUNCHEN"}},
	}

	got := match(t, corpus, parse("München", query.Loose), Options{Language: "de"})

	require.Len(t, got, 1)
	assert.Equal(t, "Munich", got[0].City)
	assert.Equal(t, "Bayern", got[0].State)
	assert.Equal(t, "Deutschland", got[0].LongCountry)
	assert.True(t, got[0].MatchedByAlternateName)
	assert.Equal(t, 7, got[0].Rank)
}

func TestMatcher_LocalizedFallbackBonus(t *testing.T) {
	corpus := &fakeCorpus{
		rows: []Row{
			{ID: 40, Name: "Paris-l'Hôpital", State: "27", Country: "FRA", Rank: 0},
			{ID: 41, Name: "Paris", State: "11", Country: "FRA", Rank: 5},
		},
		alt: []altName{{id: 40, lang: "fr", key: "PARIS"}},
	}

	got := match(t, corpus, parse("Paris", query.Loose), Options{Language: "fr"})

	require.Len(t, got, 1)
	assert.Equal(t, int64(0), got[0].GeonameID)
	assert.Equal(t, "Paris", got[0].City)
	assert.Equal(t, 7, got[0].Rank)
	assert.False(t, got[0].MatchedByAlternateName)
}

func TestMatcher_ExactMatchAlt(t *testing.T) {
	corpus := &fakeCorpus{
		rows: []Row{{ID: 50, Name: "New York City", State: "NY", Country: "USA", Rank: 8}},
		alt:  []altName{{id: 50, lang: "abbr", key: "NYC"}},
	}

	got := match(t, corpus, parse("NYC", query.Loose), Options{})

	require.Len(t, got, 1)
	assert.True(t, got[0].MatchedByAlternateName)
	assert.Equal(t, 8, got[0].Rank)
}

func TestMatcher_AlternateParse(t *testing.T) {
	t.Run("kept when it produced the match", func(t *testing.T) {
		pq := parse("Rome Italy", query.Strict)
		corpus := &fakeCorpus{rows: []Row{{ID: 1, Name: "Rome", State: "07", Country: "ITA", Rank: 7}}}

		got := match(t, corpus, pq, Options{SoundsLike: true})

		require.Len(t, got, 1)
		assert.Equal(t, "Lazio", got[0].State)
		assert.True(t, pq.HasAlt())
	})

	t.Run("cleared when primary parse matched", func(t *testing.T) {
		pq := parse("Bear Lake", query.Strict)
		require.True(t, pq.HasAlt())
		corpus := &fakeCorpus{rows: []Row{{ID: 1, Name: "Bear Lake", State: "MI", Country: "USA", Rank: 3}}}

		got := match(t, corpus, pq, Options{})

		require.Len(t, got, 1)
		assert.False(t, pq.HasAlt())
	})

	t.Run("falls back to relaxed primary parse", func(t *testing.T) {
		pq := parse("Bear Lake", query.Strict)
		corpus := &fakeCorpus{rows: []Row{{ID: 1, Name: "Bear Lake", State: "MI", Country: "USA", Rank: 0}}}

		got := match(t, corpus, pq, Options{})

		require.Len(t, got, 1)
		assert.False(t, pq.HasAlt())
	})
}

func TestMatcher_SoftCap(t *testing.T) {
	var rows []Row
	for i, st := range []string{"AL", "AR", "CA", "CO", "FL", "GA", "IL", "KY", "MA", "MO"} {
		rows = append(rows, Row{ID: int64(i + 1), Name: "Springfield", State: st, Country: "USA", Rank: 3})
	}

	got := match(t, &fakeCorpus{rows: rows}, parse("Spring", query.Loose), Options{MaxMatches: 1})

	assert.Len(t, got, 5)
}

func TestMatcher_DedupByID(t *testing.T) {
	row := Row{ID: 1, Name: "Springfield", State: "IL", Country: "USA", Rank: 5}

	got := match(t, &fakeCorpus{rows: []Row{row, row}}, parse("Springfield", query.Loose), Options{})

	assert.Len(t, got, 1)
}

func TestMatcher_Postal(t *testing.T) {
	newCorpus := func() *fakeCorpus {
		return &fakeCorpus{
			rows: []Row{
				{ID: 10, GeonameID: 5328041, Name: "Beverly Hills", State: "CA", Country: "USA", Latitude: 34.07, Longitude: -118.40, Zone: "America/Los_Angeles", Rank: 5, PostalCode: "90210"},
			},
			postal: []Row{
				{ID: 10, Name: "Beverly Hills", State: "CA", Country: "USA", Latitude: 34.0736, Longitude: -118.4004, Zone: "America/Los_Angeles", Origin: models.OriginPostal, PostalCode: "90210"},
				{Name: "West Hollywood", State: "CA", Country: "USA", Latitude: 34.09, Longitude: -118.36, Zone: "America/Los_Angeles", Origin: models.OriginPostal, PostalCode: "90210"},
				{Name: "West Hollywood 2", State: "CA", Country: "USA", Latitude: 34.091, Longitude: -118.361, Zone: "America/Los_Angeles?", Origin: models.OriginPostal, PostalCode: "90210"},
			},
		}
	}

	t.Run("postal only", func(t *testing.T) {
		got := match(t, newCorpus(), parse("90210", query.Loose), Options{SoundsLike: true})

		require.Len(t, got, 2)
		assert.Equal(t, "Beverly Hills", got[0].City)
		assert.Equal(t, models.ZipRank, got[0].Rank)
		assert.Equal(t, 34.0736, got[0].Latitude)
		assert.Equal(t, "90210", got[0].ZipCode)

		assert.Equal(t, "West Hollywood", got[1].City)
		assert.Equal(t, int64(-1), got[1].GeonameID)
		assert.Equal(t, models.OriginPostal, got[1].Origin)
		assert.Equal(t, models.ZipRank, got[1].Rank)
	})

	t.Run("boosts the candidate named in the query", func(t *testing.T) {
		got := match(t, newCorpus(), parse("90210 Beverly Hills", query.Loose), Options{})

		require.Len(t, got, 2)
		assert.Equal(t, models.ZipRank+1, got[0].Rank)
		assert.Equal(t, models.ZipRank, got[1].Rank)
	})

	t.Run("postal search stops after the first strategy", func(t *testing.T) {
		corpus := newCorpus()
		match(t, corpus, parse("90210", query.Loose), Options{SoundsLike: true})
		require.Len(t, corpus.queries, 1)
		assert.True(t, corpus.queries[0].Postal)
	})
}

func TestMatcher_PostalTrimmedRetry(t *testing.T) {
	corpus := &fakeCorpus{rows: []Row{
		{ID: 1, Name: "Westminster", State: "ENG", Country: "GBR", Rank: 5, PostalCode: "SW1A"},
	}}

	got := match(t, corpus, parse("SW1A 1AA", query.Loose), Options{})

	require.Len(t, got, 1)
	assert.Equal(t, "SW1A", got[0].ZipCode)
	require.Len(t, corpus.queries, 3)
	assert.Equal(t, "SW1A 1AA", corpus.queries[0].Key)
	assert.True(t, corpus.queries[0].RankAboveZero)
	assert.Equal(t, "SW1A 1AA", corpus.queries[1].Key)
	assert.False(t, corpus.queries[1].RankAboveZero)
	assert.Equal(t, "SW1A", corpus.queries[2].Key)
	assert.True(t, corpus.queries[2].RankAboveZero)
}

func TestMatcher_PostalFullCodeBeforeTrim(t *testing.T) {
	corpus := &fakeCorpus{rows: []Row{
		{ID: 1, Name: "Westminster", State: "ENG", Country: "GBR", Rank: 5, PostalCode: "SW1A"},
		{ID: 2, Name: "St James's", State: "ENG", Country: "GBR", Rank: 0, PostalCode: "SW1A 1AA"},
	}}

	got := match(t, corpus, parse("SW1A 1AA", query.Loose), Options{})

	require.Len(t, got, 1)
	assert.Equal(t, "SW1A 1AA", got[0].ZipCode)
	for _, q := range corpus.queries {
		assert.Equal(t, "SW1A 1AA", q.Key)
	}
}

func TestMatcher_CorpusError(t *testing.T) {
	m := New(&fakeCorpus{err: assert.AnError}, names.Default())

	_, err := m.Match(context.Background(), parse("Springfield", query.Loose), Options{})

	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

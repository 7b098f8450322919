package matcher

import (
	"context"

	"atlas-api/internal/models"
)

// MatchType is one matching strategy, tried in declaration order.
type MatchType int

const (
	ExactMatch MatchType = iota
	ExactMatchAlt
	StartsWith
	SoundsLike
)

func (t MatchType) String() string {
	switch t {
	case ExactMatch:
		return "EXACT_MATCH"
	case ExactMatchAlt:
		return "EXACT_MATCH_ALT"
	case StartsWith:
		return "STARTS_WITH"
	case SoundsLike:
		return "SOUNDS_LIKE"
	}
	return "UNKNOWN"
}

// Query is one request to the corpus.
type Query struct {
	Type MatchType
	// Key is a MakeKey key, a postal code, or a primary sound code.
	Key string
	// AltKey is the secondary sound code for SoundsLike.
	AltKey string
	// SimpleKey is the Simplify key of the city, matched against the
	// simplified corpus key by ExactMatch and StartsWith on canonical names.
	SimpleKey string
	Postal    bool
	// Languages scopes alternate-name lookups. Empty means canonical names.
	Languages []string
	// RankAboveZero excludes rows of rank zero.
	RankAboveZero bool
}

// Row is a raw corpus record.
type Row struct {
	ID         int64
	GeonameID  int64
	Name       string
	Variant    string
	County     string
	State      string
	Country    string
	Latitude   float64
	Longitude  float64
	Elevation  float64
	Zone       string
	Rank       int
	PlaceType  string
	Origin     models.Origin
	PostalCode string
}

// Corpus is the gazetteer the matcher searches. Rows may come back in any
// order.
type Corpus interface {
	// Search runs an ExactMatch, StartsWith or SoundsLike query against
	// canonical names, or a postal-code equality query when q.Postal is set.
	// Postal queries also return rows of the postal gazetteer, whose ID is
	// the linked corpus id or zero.
	Search(ctx context.Context, q Query) ([]Row, error)
	// AlternateNameIDs returns corpus ids whose alternate names in
	// q.Languages match q.Key under q.Type.
	AlternateNameIDs(ctx context.Context, q Query) ([]int64, error)
	// RowsByID loads canonical rows for ids.
	RowsByID(ctx context.Context, ids []int64, rankAboveZero bool) ([]Row, error)
}

package models

import (
	"math"
	"strings"

	"atlas-api/internal/normalize"
)

// ZipRank is the rank given to postal-code matches. Place matches are
// clamped below it.
const ZipRank = 9

// UncertainZone marks a timezone that was guessed rather than known.
const UncertainZone = "?"

// Location is one resolved place candidate.
type Location struct {
	City        string  `json:"city"`
	Variant     string  `json:"variant,omitempty"`
	County      string  `json:"county,omitempty"`
	State       string  `json:"state,omitempty"`
	Country     string  `json:"country"`
	LongCountry string  `json:"longCountry,omitempty"`
	Flag        string  `json:"flag,omitempty"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Elevation   float64 `json:"elevation"`
	Zone        string  `json:"zone,omitempty"`
	ZipCode     string  `json:"zipCode,omitempty"`
	PlaceType   string  `json:"placeType,omitempty"`
	Rank        int     `json:"rank"`
	Origin      Origin  `json:"source"`
	// GeonameID is the external reference id. Negative ids mark records
	// synthesized from postal data.
	GeonameID int64 `json:"geonameId,omitempty"`

	MatchedByAlternateName bool `json:"matchedByAlternateName,omitempty"`
	MatchedBySound         bool `json:"matchedBySound,omitempty"`
	ShowCounty             bool `json:"-"`
	ShowState              bool `json:"-"`
	UseAsUpdate            bool `json:"-"`

	Display string `json:"displayName,omitempty"`
}

// ZoneUncertain reports whether the timezone carries the uncertainty marker.
func (l *Location) ZoneUncertain() bool {
	return strings.HasSuffix(l.Zone, UncertainZone)
}

// BaseZone returns the timezone without the uncertainty marker.
func (l *Location) BaseZone() string {
	return strings.TrimSuffix(l.Zone, UncertainZone)
}

// SameZone compares timezones ignoring the uncertainty marker.
func (l *Location) SameZone(other *Location) bool {
	return l.BaseZone() == other.BaseZone()
}

// GroupKey is the dedup key: city plus state inside the US and Canada,
// city plus country elsewhere.
func (l *Location) GroupKey() string {
	region := l.Country
	if l.Country == "USA" || l.Country == "CAN" {
		region = l.State
	}
	return normalize.MakeKey(l.City) + "," + normalize.MakeKey(region)
}

const coordinateTolerance = 0.0001

// IsCloseMatch reports whether other would display the same as l. Names
// compare case- and diacritic-insensitively.
func (l *Location) IsCloseMatch(other *Location) bool {
	return sameText(l.City, other.City) &&
		sameText(l.Variant, other.Variant) &&
		sameText(l.County, other.County) &&
		sameText(l.State, other.State) &&
		sameText(l.Country, other.Country) &&
		math.Abs(l.Latitude-other.Latitude) < coordinateTolerance &&
		math.Abs(l.Longitude-other.Longitude) < coordinateTolerance &&
		l.Elevation == other.Elevation &&
		l.Zone == other.Zone &&
		l.ZipCode == other.ZipCode &&
		l.PlaceType == other.PlaceType
}

func sameText(a, b string) bool {
	return strings.EqualFold(normalize.Transliterate(a), normalize.Transliterate(b))
}

// Package merge reconciles candidate locations from the corpus and the
// remote sources into one ranked list.
package merge

import (
	"strings"

	"atlas-api/internal/models"

	"github.com/rs/zerolog/log"
)

// NearbyKm is the distance under which two records may be the same place.
const NearbyKm = 10.0

const (
	placeTypePeak     = "T.PK"
	placeTypeMountain = "T.MT"
)

type entry struct {
	loc  *models.Location
	live bool
}

type bucket struct {
	entries []*entry
}

// Merge deduplicates the given collections, sorts the survivors under lang's
// collation and returns at most limit of them. Nil collections are skipped.
// A limit of zero or less means no limit.
func Merge(limit int, lang string, collections ...*models.LocationMap) []*models.Location {
	var order []string
	buckets := make(map[string]*bucket)
	for _, c := range collections {
		if c == nil {
			continue
		}
		for _, loc := range c.Values() {
			key := loc.GroupKey()
			b, ok := buckets[key]
			if !ok {
				b = &bucket{}
				buckets[key] = b
				order = append(order, key)
			}
			b.entries = append(b.entries, &entry{loc: loc, live: true})
		}
	}

	var out []*models.Location
	for _, key := range order {
		b := buckets[key]
		b.reconcile()
		for _, e := range b.entries {
			if e.live {
				out = append(out, e.loc)
			}
		}
	}

	models.SortLocations(out, lang)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	for _, loc := range out {
		loc.Display = loc.DisplayName()
	}
	return out
}

func (b *bucket) reconcile() {
	for i := 0; i < len(b.entries); i++ {
		for j := i + 1; j < len(b.entries); j++ {
			if !b.entries[i].live {
				break
			}
			if !b.entries[j].live {
				continue
			}
			resolve(b.entries[i], b.entries[j])
		}
	}
}

// resolve applies the pairwise rules to two live entries and tombstones at
// most one of them.
func resolve(x, y *entry) {
	a, b := x.loc, y.loc
	dist := DistanceKm(a, b)
	near := dist < NearbyKm

	if near {
		shareZone(a, b)
	}

	if a.GeonameID != 0 && a.GeonameID == b.GeonameID {
		winner, loser := x, y
		if b.Origin > a.Origin {
			winner, loser = y, x
		}
		if !winner.loc.IsCloseMatch(loser.loc) {
			winner.loc.UseAsUpdate = true
		}
		fold(winner.loc, loser.loc)
		loser.live = false
		return
	}

	if near {
		switch {
		case a.PlaceType == placeTypePeak && b.PlaceType == placeTypeMountain:
			y.live = false
			return
		case b.PlaceType == placeTypePeak && a.PlaceType == placeTypeMountain:
			x.live = false
			return
		}
	}

	if a.PlaceType != b.PlaceType {
		return
	}

	switch {
	case !strings.EqualFold(a.State, b.State):
		disambiguate(x, y, near, "state", func(l *models.Location) { l.ShowState = true })
	case !strings.EqualFold(a.County, b.County):
		disambiguate(x, y, near, "county", func(l *models.Location) { l.ShowCounty = true })
	default:
		winner, loser := x, y
		switch {
		case b.Rank > a.Rank:
			winner, loser = y, x
		case b.Rank == a.Rank && a.Origin.External() && !b.Origin.External():
			winner, loser = y, x
		}
		fold(winner.loc, loser.loc)
		loser.live = false
	}
}

// shareZone copies a certain timezone onto an uncertain one.
func shareZone(a, b *models.Location) {
	switch {
	case a.ZoneUncertain() && !b.ZoneUncertain() && b.Zone != "":
		a.Zone = b.Zone
	case b.ZoneUncertain() && !a.ZoneUncertain() && a.Zone != "":
		b.Zone = a.Zone
	}
}

// disambiguate keeps the higher-ranked entry, or keeps both and marks them
// for display when ranks tie.
func disambiguate(x, y *entry, near bool, field string, show func(*models.Location)) {
	a, b := x.loc, y.loc
	switch {
	case a.Rank > b.Rank:
		y.live = false
	case b.Rank > a.Rank:
		x.live = false
	default:
		show(a)
		show(b)
		if near {
			log.Warn().
				Str("city", a.City).
				Str("field", field).
				Str("first", a.Origin.String()).
				Str("second", b.Origin.String()).
				Msg("possible duplicate places")
		}
	}
}

// fold merges the loser's rank and zip code into the winner.
func fold(winner, loser *models.Location) {
	winner.Rank = max(winner.Rank, loser.Rank)
	if winner.ZipCode == "" {
		winner.ZipCode = loser.ZipCode
	}
}

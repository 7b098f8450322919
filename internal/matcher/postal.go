package matcher

import (
	"math"
	"strings"

	"atlas-api/internal/models"
	"atlas-api/internal/normalize"
)

// Supplemental postal records closer than this, in degrees on both axes,
// are treated as one place.
const supplementalProximity = 0.1

// acceptPostal adds the corpus places carrying the postal code, refines their
// coordinates from the postal gazetteer, and synthesizes records with
// negative ids for postal entries no corpus place accounts for.
func (s *search) acceptPostal(rows []Row, pass int, t target, lang string) int {
	byID := make(map[int64]*models.Location)
	var found []*models.Location
	var gazetteer []Row

	for _, row := range rows {
		if row.Origin == models.OriginPostal {
			gazetteer = append(gazetteer, row)
			continue
		}
		if !s.admit(row, pass, t, lang) {
			continue
		}
		loc := s.toLocation(row, lang)
		loc.Rank = models.ZipRank
		if loc.ZipCode == "" {
			loc.ZipCode = t.postal
		}
		s.add(row.ID, loc)
		byID[row.ID] = loc
		found = append(found, loc)
	}

	var supplemental []*models.Location
	for _, row := range gazetteer {
		if loc, ok := byID[row.ID]; ok && row.ID != 0 {
			loc.Latitude, loc.Longitude = row.Latitude, row.Longitude
			continue
		}
		if !normalize.CloseMatchForState(s.m.dir, t.state, row.State, row.Country, lang) {
			continue
		}

		loc := s.toLocation(row, lang)
		loc.Rank = models.ZipRank
		loc.Origin = models.OriginPostal
		if loc.ZipCode == "" {
			loc.ZipCode = t.postal
		}
		if duplicateSupplemental(supplemental, loc) {
			continue
		}
		s.nextID--
		loc.GeonameID = s.nextID
		s.matches.Add(loc)
		s.count++
		supplemental = append(supplemental, loc)
	}
	found = append(found, supplemental...)

	// with several candidates, prefer those named like the rest of the query
	slot := t.city
	if slot == "" {
		slot = t.state
	}
	if len(found) > 1 && slot != "" {
		for _, loc := range found {
			if normalize.CloseMatchForCity(slot, loc.City) || normalize.CloseMatchForCity(slot, loc.State) {
				loc.Rank = models.ZipRank + 1
			}
		}
	}

	return len(found)
}

func duplicateSupplemental(existing []*models.Location, loc *models.Location) bool {
	for _, e := range existing {
		if math.Abs(e.Latitude-loc.Latitude) < supplementalProximity &&
			math.Abs(e.Longitude-loc.Longitude) < supplementalProximity &&
			e.SameZone(loc) &&
			strings.EqualFold(trimTrailingDigits(e.City), trimTrailingDigits(loc.City)) {
			return true
		}
	}
	return false
}

func trimTrailingDigits(name string) string {
	return strings.TrimRight(name, "0123456789 ")
}

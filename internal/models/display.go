package models

import "strings"

var placeQualifiers = map[string]string{
	"A.PCL":  "nation",
	"A.PCLD": "nation",
	"A.PCLF": "nation",
	"A.PCLI": "nation",
	"A.PCLS": "nation",
	"H.BAY":  "bay",
	"H.LK":   "lake",
	"H.LKS":  "lakes",
	"H.RSV":  "reservoir",
	"L.PRK":  "park",
	"L.RESN": "reserve",
	"S.AIRP": "airport",
	"S.OBS":  "observatory",
	"S.OBSR": "observatory",
	"T.CAPE": "cape",
	"T.ISL":  "island",
	"T.ISLS": "islands",
	"T.MT":   "mountain",
	"T.MTS":  "mountains",
	"T.PK":   "peak",
	"T.PKS":  "peaks",
	"T.VLC":  "volcano",
}

var ukNations = map[string]bool{
	"England":          true,
	"Northern Ireland": true,
	"Scotland":         true,
	"Wales":            true,
}

// IsNation reports whether the place type is a country-level entity.
func IsNation(placeType string) bool {
	return strings.HasPrefix(placeType, "A.PCL")
}

// DisplayName formats the location for result lists, e.g.
// "Springfield, IL", "Paris, France" or "Ben Nevis (Scotland, mountain), United Kingdom".
func (l *Location) DisplayName() string {
	var notes []string
	if l.ShowCounty && l.County != "" {
		notes = append(notes, l.County)
	}

	state := l.State
	if l.Country == "GBR" && ukNations[l.State] {
		if l.ShowState {
			notes = append(notes, l.State)
		}
		state = ""
	}
	if q := placeQualifiers[l.PlaceType]; q != "" {
		notes = append(notes, q)
	}

	var b strings.Builder
	b.WriteString(l.City)
	if len(notes) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(notes, ", "))
		b.WriteString(")")
	}

	country := l.LongCountry
	if country == "" {
		country = l.Country
	}

	switch {
	case IsNation(l.PlaceType):
	case l.Country == "USA" && state != "":
		b.WriteString(", ")
		b.WriteString(state)
	case l.Country == "CAN" && state != "":
		b.WriteString(", ")
		b.WriteString(state)
		b.WriteString(", ")
		b.WriteString(country)
	default:
		if l.ShowState && state != "" {
			b.WriteString(", ")
			b.WriteString(state)
		}
		if country != "" {
			b.WriteString(", ")
			b.WriteString(country)
		}
	}

	return b.String()
}

package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"atlas-api/internal/names"
	"atlas-api/internal/normalize"
	"atlas-api/internal/repository"
)

// PlaceRecord is one row of a geonames cities or allCountries dump.
type PlaceRecord struct {
	GeonameID   int64
	Name        string
	Alternates  []string
	Lat         float64
	Lon         float64
	FeatureCode string
	Country     string
	Admin1      string
	Admin2      string
	Population  int64
	Elevation   float64
	Timezone    string
	Keys        repository.Keys
	Rank        int
}

// AdminRecord is one row of admin1CodesASCII.txt.
type AdminRecord struct {
	Country string
	Code    string
	Name    string
}

// PostalRecord is one row of a geonames postal-code dump.
type PostalRecord struct {
	Country    string
	PostalCode string
	Name       string
	SearchKey  string
	Admin1     string
	Admin2     string
	Lat        float64
	Lon        float64
}

// AlternateRecord is one row of alternateNamesV2.txt.
type AlternateRecord struct {
	GeonameID int64
	Lang      string
	Name      string
	SearchKey string
}

// scanTSV calls fn with the fields of every non-empty, non-comment line.
// geonames dumps are not valid CSV: fields may contain bare quotes.
func scanTSV(r io.Reader, fn func(line int, fields []string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if err := fn(line, strings.Split(text, "\t")); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	return scanner.Err()
}

// admin1Lookup converts geonames admin1 codes to the codes used by the
// corpus: postal abbreviations for the US and Canada, geonames codes
// elsewhere.
type admin1Lookup map[string]string

func newAdmin1Lookup(dir *names.Directory, admins []AdminRecord) admin1Lookup {
	l := make(admin1Lookup)
	for _, a := range admins {
		if a.Country != "USA" && a.Country != "CAN" {
			continue
		}
		if code, ok := dir.StateCode(a.Country, a.Name); ok {
			l[a.Country+"."+a.Code] = code
		}
	}
	return l
}

func (l admin1Lookup) convert(country, code string) string {
	if c, ok := l[country+"."+code]; ok {
		return c
	}
	return code
}

func parsePlaces(r io.Reader, dir *names.Directory, admin1 admin1Lookup) ([]PlaceRecord, error) {
	var records []PlaceRecord
	err := scanTSV(r, func(_ int, f []string) error {
		if len(f) < 18 {
			return fmt.Errorf("invalid record length: %d, expected at least 18 columns", len(f))
		}
		class := f[6]
		if class != "P" && class != "T" && class != "H" && class != "L" && class != "S" && class != "A" {
			return nil
		}

		id, err := strconv.ParseInt(f[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid geonameid: %s", f[0])
		}
		lat, err := strconv.ParseFloat(f[4], 64)
		if err != nil {
			return fmt.Errorf("invalid latitude: %s", f[4])
		}
		lon, err := strconv.ParseFloat(f[5], 64)
		if err != nil {
			return fmt.Errorf("invalid longitude: %s", f[5])
		}
		population, _ := strconv.ParseInt(f[14], 10, 64)
		elevation, err := strconv.ParseFloat(f[15], 64)
		if err != nil {
			elevation, _ = strconv.ParseFloat(f[16], 64)
		}

		country := dir.CountryCode(f[8])
		rec := PlaceRecord{
			GeonameID:   id,
			Name:        f[1],
			Lat:         lat,
			Lon:         lon,
			FeatureCode: class + "." + f[7],
			Country:     country,
			Admin1:      admin1.convert(country, f[10]),
			Admin2:      f[11],
			Population:  population,
			Elevation:   elevation,
			Timezone:    f[17],
		}
		if f[3] != "" {
			rec.Alternates = strings.Split(f[3], ",")
		}
		rec.Keys = repository.KeysFor(rec.Name, "")
		if rec.Keys.Search == "" {
			rec.Keys = repository.KeysFor(f[2], "")
		}
		if rec.Keys.Search == "" {
			return nil
		}
		rec.Rank = rankFor(rec.FeatureCode, population)
		records = append(records, rec)
		return nil
	})
	return records, err
}

func parseAdmin1(r io.Reader, dir *names.Directory) ([]AdminRecord, error) {
	var records []AdminRecord
	err := scanTSV(r, func(_ int, f []string) error {
		if len(f) < 2 {
			return fmt.Errorf("invalid record length: %d, expected at least 2 columns", len(f))
		}
		country, code, ok := strings.Cut(f[0], ".")
		if !ok {
			return fmt.Errorf("invalid admin code: %s", f[0])
		}
		records = append(records, AdminRecord{Country: dir.CountryCode(country), Code: code, Name: f[1]})
		return nil
	})
	return records, err
}

func parsePostal(r io.Reader, dir *names.Directory, admin1 admin1Lookup) ([]PostalRecord, error) {
	var records []PostalRecord
	err := scanTSV(r, func(_ int, f []string) error {
		if len(f) < 11 {
			return fmt.Errorf("invalid record length: %d, expected at least 11 columns", len(f))
		}
		lat, err := strconv.ParseFloat(f[9], 64)
		if err != nil {
			return fmt.Errorf("invalid latitude: %s", f[9])
		}
		lon, err := strconv.ParseFloat(f[10], 64)
		if err != nil {
			return fmt.Errorf("invalid longitude: %s", f[10])
		}
		country := dir.CountryCode(f[0])
		records = append(records, PostalRecord{
			Country:    country,
			PostalCode: strings.ToUpper(strings.TrimSpace(f[1])),
			Name:       f[2],
			SearchKey:  normalize.MakeKey(f[2]),
			Admin1:     admin1.convert(country, f[4]),
			Admin2:     f[5],
			Lat:        lat,
			Lon:        lon,
		})
		return nil
	})
	return records, err
}

// parseAlternates keeps names of known places in wanted languages, skipping
// historic names and links.
func parseAlternates(r io.Reader, known map[int64]bool, wanted map[string]bool) ([]AlternateRecord, error) {
	var records []AlternateRecord
	err := scanTSV(r, func(_ int, f []string) error {
		if len(f) < 4 {
			return fmt.Errorf("invalid record length: %d, expected at least 4 columns", len(f))
		}
		id, err := strconv.ParseInt(f[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid geonameid: %s", f[1])
		}
		lang := f[2]
		if !known[id] || !wanted[lang] || (len(f) > 7 && f[7] == "1") {
			return nil
		}
		key := normalize.MakeKey(f[3])
		if key == "" {
			return nil
		}
		records = append(records, AlternateRecord{GeonameID: id, Lang: lang, Name: f[3], SearchKey: key})
		return nil
	})
	return records, err
}

// rankFor scores a place in [0, ZipRank) from its feature code and
// population. Capitals rank highest; unpopulated places rank zero.
func rankFor(featureCode string, population int64) int {
	switch featureCode {
	case "P.PPLC":
		return 8
	case "A.PCLI", "A.PCLD":
		return 8
	}

	rank := 0
	switch {
	case population >= 1_000_000:
		rank = 7
	case population >= 100_000:
		rank = 6
	case population >= 10_000:
		rank = 5
	case population >= 1_000:
		rank = 4
	case population >= 100:
		rank = 2
	case population > 0:
		rank = 1
	}

	switch featureCode {
	case "P.PPLA":
		rank = max(rank, 5)
	case "P.PPLA2":
		rank = max(rank, 3)
	case "T.PK", "T.MT":
		rank = max(rank, 1)
	}
	return rank
}

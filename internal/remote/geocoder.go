package remote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"atlas-api/internal/models"
	"atlas-api/internal/names"
	"atlas-api/internal/normalize"

	"github.com/agnivade/levenshtein"
	geo "github.com/codingsince1985/geo-golang"
	"github.com/codingsince1985/geo-golang/opencage"
	"github.com/codingsince1985/geo-golang/openstreetmap"
	"github.com/rs/zerolog"
)

// errSoftTarget ends a lookup early with the matches collected so far.
var errSoftTarget = errors.New("soft target reached")

const (
	// remoteRank is the rank given to places found by external services.
	remoteRank = 3
	// maxNameEdits is how far a returned city name may stray from the query.
	maxNameEdits = 2
)

// GeocoderSource adapts a geo.Geocoder to Source. Each query variant costs
// a forward and a reverse geocode; once the soft target elapses the lookup
// stops and returns what it has.
type GeocoderSource struct {
	name       string
	origin     models.Origin
	geocoder   geo.Geocoder
	dir        *names.Directory
	softTarget time.Duration
}

// NewGeocoderSource wraps any geo.Geocoder. A zero softTarget disables
// partial results.
func NewGeocoderSource(name string, origin models.Origin, geocoder geo.Geocoder, dir *names.Directory, softTarget time.Duration) *GeocoderSource {
	return &GeocoderSource{
		name:       name,
		origin:     origin,
		geocoder:   geocoder,
		dir:        dir,
		softTarget: softTarget,
	}
}

// NewNominatimSource creates the OpenStreetMap Nominatim source. An empty
// baseURL uses the public endpoint.
func NewNominatimSource(baseURL string, dir *names.Directory) *GeocoderSource {
	geocoder := openstreetmap.Geocoder()
	if baseURL != "" {
		geocoder = openstreetmap.GeocoderWithURL(baseURL)
	}
	return NewGeocoderSource("nominatim", models.OriginNominatim, geocoder, dir, 0)
}

// NewOpenCageSource creates the OpenCage source.
func NewOpenCageSource(apiKey string, dir *names.Directory, softTarget time.Duration) *GeocoderSource {
	return NewGeocoderSource("opencage", models.OriginOpenCage, opencage.Geocoder(apiKey), dir, softTarget)
}

func (s *GeocoderSource) Name() string {
	return s.name
}

// Lookup implements Source.
func (s *GeocoderSource) Lookup(ctx context.Context, city, state, postal string) (*models.LocationMap, models.SourceMetrics, error) {
	var metrics models.SourceMetrics
	start := time.Now()
	out := models.NewLocationMap()
	logger := zerolog.Ctx(ctx)

	var soft <-chan time.Time
	if s.softTarget > 0 {
		timer := time.NewTimer(s.softTarget)
		defer timer.Stop()
		soft = timer.C
	}

	variants := queryVariants(city, state, postal)
	for i, q := range variants {
		if err := ctx.Err(); err != nil {
			return nil, metrics, err
		}

		loc, err := s.resolve(ctx, soft, q)
		if errors.Is(err, errSoftTarget) {
			logger.Info().Str("source", s.name).Int("done", i).Int("planned", len(variants)).Msg("soft target reached, returning partial results")
			break
		}
		if err != nil {
			if out.Len() == 0 && i == len(variants)-1 {
				return nil, metrics, fmt.Errorf("remote: %s: %w", s.name, err)
			}
			logger.Debug().Err(err).Str("source", s.name).Str("query", q).Msg("geocode failed")
			continue
		}
		if loc == nil {
			continue
		}
		metrics.Raw++
		if !s.matches(loc, city, state, postal) || s.duplicate(out, loc) {
			continue
		}
		metrics.Matched++
		out.Add(loc)
	}

	metrics.Latency = time.Since(start)
	return out, metrics, nil
}

// queryVariants lists the free-text queries to send, most specific first.
func queryVariants(city, state, postal string) []string {
	var variants []string
	add := func(parts ...string) {
		var kept []string
		for _, p := range parts {
			if p != "" {
				kept = append(kept, p)
			}
		}
		if len(kept) == 0 {
			return
		}
		q := strings.Join(kept, ", ")
		for _, v := range variants {
			if v == q {
				return
			}
		}
		variants = append(variants, q)
	}

	if postal != "" {
		add(postal, city, state)
		add(postal)
		return variants
	}
	add(city, state)
	add(city)
	return variants
}

// resolve runs one forward and reverse geocode. It gives up with
// errSoftTarget when soft fires first. The geocoder itself cannot be
// cancelled, so an abandoned call finishes in the background.
func (s *GeocoderSource) resolve(ctx context.Context, soft <-chan time.Time, q string) (*models.Location, error) {
	type result struct {
		loc *models.Location
		err error
	}
	ch := make(chan result, 1)

	go func() {
		point, err := s.geocoder.Geocode(q)
		if err != nil || point == nil {
			ch <- result{err: err}
			return
		}
		addr, err := s.geocoder.ReverseGeocode(point.Lat, point.Lng)
		if err != nil {
			ch <- result{err: err}
			return
		}
		ch <- result{loc: s.toLocation(point, addr)}
	}()

	select {
	case r := <-ch:
		return r.loc, r.err
	case <-soft:
		return nil, errSoftTarget
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *GeocoderSource) toLocation(point *geo.Location, addr *geo.Address) *models.Location {
	loc := &models.Location{
		Latitude:  point.Lat,
		Longitude: point.Lng,
		Rank:      remoteRank,
		PlaceType: "P.PPL",
		Origin:    s.origin,
	}
	if addr == nil {
		return loc
	}

	loc.City = firstNonEmpty(addr.City, addr.Suburb, addr.County)
	loc.County = addr.County
	loc.ZipCode = addr.Postcode
	loc.Country = s.dir.CountryCode(firstNonEmpty(addr.CountryCode, addr.Country))
	loc.Flag = s.dir.FlagCode(loc.Country)
	if name, ok := s.dir.CountryName(loc.Country, ""); ok {
		loc.LongCountry = name
	} else {
		loc.LongCountry = addr.Country
	}

	loc.State = addr.State
	if loc.Country == "USA" || loc.Country == "CAN" {
		if code, ok := s.dir.StateCode(loc.Country, addr.State); ok {
			loc.State = code
		} else if len(addr.StateCode) == 2 {
			loc.State = strings.ToUpper(addr.StateCode)
		}
	}
	return loc
}

// matches reports whether a returned place answers the query: same postal
// code, or a city name within a few edits, in a plausible state.
func (s *GeocoderSource) matches(loc *models.Location, city, state, postal string) bool {
	if loc.City == "" {
		return false
	}
	if state != "" && !normalize.CloseMatchForState(s.dir, state, loc.State, loc.Country, "") {
		return false
	}
	if postal != "" && strings.EqualFold(strings.ReplaceAll(loc.ZipCode, " ", ""), strings.ReplaceAll(postal, " ", "")) {
		return true
	}
	if city == "" {
		return postal == ""
	}
	if normalize.CloseMatchForCity(city, loc.City) {
		return true
	}
	return levenshtein.ComputeDistance(normalize.Simplify(city), normalize.Simplify(loc.City)) <= maxNameEdits
}

func (s *GeocoderSource) duplicate(out *models.LocationMap, loc *models.Location) bool {
	for _, existing := range out.Values() {
		if existing.GroupKey() == loc.GroupKey() &&
			existing.Latitude == loc.Latitude && existing.Longitude == loc.Longitude {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

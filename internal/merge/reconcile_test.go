package merge

import (
	"testing"

	"atlas-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collection(locs ...*models.Location) *models.LocationMap {
	m := models.NewLocationMap()
	for _, l := range locs {
		m.Add(l)
	}
	return m
}

func TestDistanceKm(t *testing.T) {
	paris := &models.Location{Latitude: 48.8566, Longitude: 2.3522}
	london := &models.Location{Latitude: 51.5074, Longitude: -0.1278}

	assert.InDelta(t, 344, DistanceKm(paris, london), 2)
	assert.InDelta(t, 0, DistanceKm(paris, paris), 1e-9)
}

func TestMerge_SameGeonameID(t *testing.T) {
	corpus := &models.Location{
		City: "Springfield", State: "IL", Country: "USA", Rank: 7,
		Latitude: 39.80, Longitude: -89.64, GeonameID: 4250542, Origin: models.OriginAtlas,
	}
	remote := &models.Location{
		City: "Springfield", State: "IL", Country: "USA", Rank: 4, ZipCode: "62701",
		Latitude: 39.80, Longitude: -89.64, GeonameID: 4250542, Origin: models.OriginNominatim,
	}

	tests := []struct {
		name        string
		corpusFirst bool
	}{
		{name: "corpus first", corpusFirst: true},
		{name: "remote first", corpusFirst: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, r := *corpus, *remote
			var got []*models.Location
			if tt.corpusFirst {
				got = Merge(10, "en", collection(&c), collection(&r))
			} else {
				got = Merge(10, "en", collection(&r), collection(&c))
			}

			require.Len(t, got, 1)
			assert.Equal(t, models.OriginNominatim, got[0].Origin)
			assert.Equal(t, 7, got[0].Rank)
			assert.Equal(t, "62701", got[0].ZipCode)
			assert.True(t, got[0].UseAsUpdate)
		})
	}
}

func TestMerge_SameGeonameIDCloseMatchNotFlagged(t *testing.T) {
	a := &models.Location{City: "Oslo", Country: "NOR", Rank: 8, GeonameID: 3143244, Origin: models.OriginAtlas}
	b := &models.Location{City: "Oslo", Country: "NOR", Rank: 8, GeonameID: 3143244, Origin: models.OriginAtlasUpdate}

	got := Merge(10, "en", collection(a, b))

	require.Len(t, got, 1)
	assert.Same(t, b, got[0])
	assert.False(t, got[0].UseAsUpdate)
}

func TestMerge_PeakBeatsMountain(t *testing.T) {
	for _, peakFirst := range []bool{true, false} {
		peak := &models.Location{City: "Mount Hood", State: "OR", Country: "USA", PlaceType: "T.PK", Rank: 3, Latitude: 45.37, Longitude: -121.69}
		mountain := &models.Location{City: "Mount Hood", State: "OR", Country: "USA", PlaceType: "T.MT", Rank: 5, Latitude: 45.37, Longitude: -121.69}

		var got []*models.Location
		if peakFirst {
			got = Merge(10, "en", collection(peak), collection(mountain))
		} else {
			got = Merge(10, "en", collection(mountain), collection(peak))
		}

		require.Len(t, got, 1)
		assert.Equal(t, "T.PK", got[0].PlaceType)
	}
}

func TestMerge_DifferentPlaceTypesKept(t *testing.T) {
	city := &models.Location{City: "Orleans", Country: "FRA", PlaceType: "P.PPLA", Rank: 6, Latitude: 47.90, Longitude: 1.90}
	county := &models.Location{City: "Orleans", Country: "FRA", PlaceType: "A.ADM3", Rank: 3, Latitude: 47.90, Longitude: 1.90}

	got := Merge(10, "en", collection(city, county))

	assert.Len(t, got, 2)
}

func TestMerge_StateDiffers(t *testing.T) {
	t.Run("higher rank wins", func(t *testing.T) {
		a := &models.Location{City: "Frankfurt", State: "Hesse", Country: "DEU", PlaceType: "P.PPL", Rank: 7, Latitude: 50.11, Longitude: 8.68}
		b := &models.Location{City: "Frankfurt", State: "Brandenburg", Country: "DEU", PlaceType: "P.PPL", Rank: 5, Latitude: 52.34, Longitude: 14.55}

		got := Merge(10, "en", collection(b), collection(a))

		require.Len(t, got, 1)
		assert.Equal(t, "Hesse", got[0].State)
	})

	t.Run("tie shows both states", func(t *testing.T) {
		a := &models.Location{City: "Frankfurt", State: "Hesse", Country: "DEU", LongCountry: "Germany", PlaceType: "P.PPL", Rank: 5, Latitude: 50.11, Longitude: 8.68}
		b := &models.Location{City: "Frankfurt", State: "Brandenburg", Country: "DEU", LongCountry: "Germany", PlaceType: "P.PPL", Rank: 5, Latitude: 52.34, Longitude: 14.55}

		got := Merge(10, "en", collection(a, b))

		require.Len(t, got, 2)
		assert.True(t, got[0].ShowState)
		assert.True(t, got[1].ShowState)
		assert.Equal(t, "Frankfurt, Brandenburg, Germany", got[0].Display)
		assert.Equal(t, "Frankfurt, Hesse, Germany", got[1].Display)
	})
}

func TestMerge_CountyDiffers(t *testing.T) {
	a := &models.Location{City: "Franklin", County: "Williamson County", State: "TN", Country: "USA", PlaceType: "P.PPL", Rank: 4, Latitude: 35.92, Longitude: -86.87}
	b := &models.Location{City: "Franklin", County: "Macon County", State: "TN", Country: "USA", PlaceType: "P.PPL", Rank: 4, Latitude: 36.72, Longitude: -86.58}

	got := Merge(10, "en", collection(a, b))

	require.Len(t, got, 2)
	assert.Equal(t, "Franklin (Williamson County), TN", got[0].Display)
	assert.Equal(t, "Franklin (Macon County), TN", got[1].Display)
}

func TestMerge_SameStateAndCounty(t *testing.T) {
	t.Run("higher rank wins and keeps zip", func(t *testing.T) {
		a := &models.Location{City: "Aspen", State: "CO", Country: "USA", PlaceType: "P.PPL", Rank: 6, Origin: models.OriginAtlas}
		b := &models.Location{City: "Aspen", State: "CO", Country: "USA", PlaceType: "P.PPL", Rank: 3, ZipCode: "81611", Origin: models.OriginOpenCage}

		got := Merge(10, "en", collection(a), collection(b))

		require.Len(t, got, 1)
		assert.Same(t, a, got[0])
		assert.Equal(t, "81611", got[0].ZipCode)
	})

	t.Run("tie prefers curated record", func(t *testing.T) {
		remote := &models.Location{City: "Aspen", State: "CO", Country: "USA", PlaceType: "P.PPL", Rank: 4, ZipCode: "81611", Origin: models.OriginNominatim}
		curated := &models.Location{City: "Aspen", State: "CO", Country: "USA", PlaceType: "P.PPL", Rank: 4, Origin: models.OriginAtlas}

		got := Merge(10, "en", collection(remote), collection(curated))

		require.Len(t, got, 1)
		assert.Same(t, curated, got[0])
		assert.Equal(t, "81611", got[0].ZipCode)
	})
}

func TestMerge_ZoneBackfill(t *testing.T) {
	a := &models.Location{City: "Boise", State: "ID", Country: "USA", PlaceType: "P.PPLA", Zone: "America/Boise?", Latitude: 43.61, Longitude: -116.20}
	b := &models.Location{City: "Boise", State: "ID", Country: "USA", PlaceType: "T.MT", Zone: "America/Boise", Latitude: 43.62, Longitude: -116.21}

	got := Merge(10, "en", collection(a, b))

	require.Len(t, got, 2)
	for _, l := range got {
		assert.Equal(t, "America/Boise", l.Zone)
	}
}

func TestMerge_SortedAndCapped(t *testing.T) {
	corpus := collection(
		&models.Location{City: "Paris", State: "TX", Country: "USA", Rank: 4},
		&models.Location{City: "Paris", Country: "FRA", Rank: 8},
		&models.Location{City: "Paris", State: "TN", Country: "USA", Rank: 4},
	)
	a := collection(
		&models.Location{City: "Paris", State: "KY", Country: "USA", Rank: 3},
		&models.Location{City: "Paris", State: "ON", Country: "CAN", Rank: 4},
	)
	b := collection(
		&models.Location{City: "Paris", State: "ID", Country: "USA", Rank: 2},
	)

	got := Merge(4, "en", corpus, a, nil, b)

	require.Len(t, got, 4)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Rank, got[i].Rank)
	}
	assert.Equal(t, "FRA", got[0].Country)
	assert.Equal(t, "CAN", got[1].Country)
	assert.Equal(t, "TN", got[2].State)
	assert.Equal(t, "TX", got[3].State)
}

func TestMerge_Empty(t *testing.T) {
	assert.Empty(t, Merge(10, "en"))
	assert.Empty(t, Merge(10, "en", nil, models.NewLocationMap()))
}

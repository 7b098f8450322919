package repository

import (
	"context"
	"fmt"

	"atlas-api/internal/models"

	"github.com/jackc/pgx/v5"
)

const upsertUpdate = `
	INSERT INTO places (geoname_id, name, variant, search_key, variant_key, simple_key, sound_key1,
		sound_key2, admin2, admin1, country, latitude, longitude, elevation, timezone, rank,
		feature_code, origin, postal_code)
	VALUES (NULLIF($1, 0), $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	ON CONFLICT (search_key, admin1, country) WHERE origin = 'UPDT'
	DO UPDATE SET
		geoname_id = COALESCE(EXCLUDED.geoname_id, places.geoname_id),
		latitude = EXCLUDED.latitude,
		longitude = EXCLUDED.longitude,
		timezone = CASE WHEN EXCLUDED.timezone <> '' THEN EXCLUDED.timezone ELSE places.timezone END,
		postal_code = CASE WHEN EXCLUDED.postal_code <> '' THEN EXCLUDED.postal_code ELSE places.postal_code END,
		rank = GREATEST(places.rank, EXCLUDED.rank)`

// SaveUpdates writes locations into the corpus as the update tier. Each
// location is keyed by name, state and country, so saving the same place
// twice refreshes the earlier row.
func (r *Repository) SaveUpdates(ctx context.Context, locs []*models.Location) error {
	if len(locs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, loc := range locs {
		keys := KeysFor(loc.City, loc.Variant)
		if keys.Search == "" {
			continue
		}
		rank := min(max(loc.Rank, 0), models.ZipRank-1)
		batch.Queue(upsertUpdate,
			max(loc.GeonameID, 0),
			loc.City,
			loc.Variant,
			keys.Search,
			keys.Variant,
			keys.Simple,
			keys.Sound1,
			keys.Sound2,
			loc.County,
			loc.State,
			loc.Country,
			loc.Latitude,
			loc.Longitude,
			loc.Elevation,
			loc.BaseZone(),
			rank,
			loc.PlaceType,
			models.OriginAtlasUpdate.String(),
			postalKey(loc.ZipCode),
		)
	}
	if batch.Len() == 0 {
		return nil
	}

	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("repository: failed to save updates: %w", err)
	}
	return nil
}

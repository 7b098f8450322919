package repository

import (
	"context"
	"fmt"

	"atlas-api/internal/normalize"

	"github.com/jackc/pgx/v5/pgconn"
)

// Execer is satisfied by *pgx.Conn and *pgxpool.Pool.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

const schema = `
CREATE TABLE IF NOT EXISTS places (
	id BIGSERIAL PRIMARY KEY,
	geoname_id BIGINT,
	name TEXT NOT NULL,
	variant TEXT NOT NULL DEFAULT '',
	search_key VARCHAR(40) NOT NULL,
	variant_key VARCHAR(40) NOT NULL DEFAULT '',
	simple_key VARCHAR(40) NOT NULL DEFAULT '',
	sound_key1 VARCHAR(40) NOT NULL DEFAULT '',
	sound_key2 VARCHAR(40) NOT NULL DEFAULT '',
	admin2 TEXT NOT NULL DEFAULT '',
	admin1 TEXT NOT NULL DEFAULT '',
	country VARCHAR(3) NOT NULL,
	latitude DOUBLE PRECISION NOT NULL,
	longitude DOUBLE PRECISION NOT NULL,
	elevation DOUBLE PRECISION NOT NULL DEFAULT 0,
	timezone TEXT NOT NULL DEFAULT '',
	rank SMALLINT NOT NULL DEFAULT 0,
	feature_code TEXT NOT NULL DEFAULT '',
	origin VARCHAR(5) NOT NULL DEFAULT 'ATLAS',
	postal_code TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS places_search_key_idx ON places (search_key text_pattern_ops);
ALTER TABLE places ADD COLUMN IF NOT EXISTS simple_key VARCHAR(40) NOT NULL DEFAULT '';
CREATE INDEX IF NOT EXISTS places_variant_key_idx ON places (variant_key text_pattern_ops);
CREATE INDEX IF NOT EXISTS places_simple_key_idx ON places (simple_key text_pattern_ops);
CREATE INDEX IF NOT EXISTS places_sound_key1_idx ON places (sound_key1);
CREATE INDEX IF NOT EXISTS places_sound_key2_idx ON places (sound_key2);
CREATE INDEX IF NOT EXISTS places_postal_code_idx ON places (postal_code) WHERE postal_code <> '';
CREATE INDEX IF NOT EXISTS places_geoname_id_idx ON places (geoname_id);
CREATE UNIQUE INDEX IF NOT EXISTS places_update_identity_idx ON places (search_key, admin1, country) WHERE origin = 'UPDT';

CREATE TABLE IF NOT EXISTS alt_names (
	place_id BIGINT NOT NULL REFERENCES places (id) ON DELETE CASCADE,
	lang VARCHAR(8) NOT NULL DEFAULT '',
	name TEXT NOT NULL,
	search_key VARCHAR(40) NOT NULL
);
CREATE INDEX IF NOT EXISTS alt_names_search_key_idx ON alt_names (search_key text_pattern_ops, lang);

CREATE TABLE IF NOT EXISTS postal_codes (
	place_id BIGINT,
	postal_code TEXT NOT NULL,
	name TEXT NOT NULL,
	search_key VARCHAR(40) NOT NULL DEFAULT '',
	admin1 TEXT NOT NULL DEFAULT '',
	admin2 TEXT NOT NULL DEFAULT '',
	country VARCHAR(3) NOT NULL,
	latitude DOUBLE PRECISION NOT NULL,
	longitude DOUBLE PRECISION NOT NULL,
	timezone TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS postal_codes_postal_code_idx ON postal_codes (postal_code);

CREATE TABLE IF NOT EXISTS admin_names (
	country VARCHAR(3) NOT NULL,
	code TEXT NOT NULL,
	lang VARCHAR(8) NOT NULL DEFAULT '',
	name TEXT NOT NULL,
	PRIMARY KEY (country, code, lang)
);
`

// linkPostal attaches postal gazetteer entries to the nearby corpus place of
// the same name, then copies the code onto places that have none.
const linkPostal = `
UPDATE postal_codes pc SET place_id = p.id
FROM places p
WHERE pc.place_id IS NULL
	AND pc.search_key <> ''
	AND p.search_key = pc.search_key
	AND p.admin1 = pc.admin1
	AND p.country = pc.country
	AND abs(p.latitude - pc.latitude) < 0.2
	AND abs(p.longitude - pc.longitude) < 0.2;

UPDATE places p SET postal_code = pc.postal_code
FROM postal_codes pc
WHERE pc.place_id = p.id AND p.postal_code = '';
`

// LinkPostalCodes connects imported postal codes to corpus places.
func LinkPostalCodes(ctx context.Context, db Execer) error {
	if _, err := db.Exec(ctx, linkPostal); err != nil {
		return fmt.Errorf("repository: failed to link postal codes: %w", err)
	}
	return nil
}

// CreateSchema creates the corpus tables and indexes if they are missing.
func CreateSchema(ctx context.Context, db Execer) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("repository: failed to create schema: %w", err)
	}
	return nil
}

// Keys holds the indexed forms of a place name.
type Keys struct {
	Search  string
	Variant string
	// Simple folds leading abbreviations, so "Mount Rainier" and
	// "Mt. Rainier" share it.
	Simple string
	Sound1 string
	Sound2 string
}

// KeysFor computes the indexed forms of name. The variant key is taken from
// variant when given, otherwise from name without its leading qualifier,
// and is left empty when it adds nothing over the search key.
func KeysFor(name, variant string) Keys {
	k := Keys{Search: normalize.MakeKey(name), Simple: normalize.Simplify(name)}
	if variant != "" {
		k.Variant = normalize.MakeKey(variant)
	} else {
		k.Variant = normalize.SimplifyVariant(name)
	}
	if k.Variant == k.Search {
		k.Variant = ""
	}
	k.Sound1, k.Sound2, _ = normalize.SoundCodes(name)
	return k
}

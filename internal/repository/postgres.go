package repository

import (
	"context"
	"fmt"
	"strings"

	"atlas-api/internal/matcher"
	"atlas-api/internal/models"
	"atlas-api/internal/names"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// maxRows bounds a single corpus query.
const maxRows = 2000

const placeColumns = `id, COALESCE(geoname_id, 0), name, variant, admin2, admin1, country,
	latitude, longitude, elevation, timezone, rank, feature_code, origin, postal_code`

// Repository implements matcher.Corpus for PostgreSQL
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Search runs a canonical-name or postal-code query against the places table
func (r *Repository) Search(ctx context.Context, q matcher.Query) ([]matcher.Row, error) {
	if q.Postal {
		return r.searchPostal(ctx, q)
	}

	var where string
	var args []any
	if q.Type == matcher.SoundsLike {
		where, args = soundCondition(q)
	} else {
		var err error
		where, args, err = keyCondition(q, "search_key", "variant_key", "simple_key")
		if err != nil {
			return nil, err
		}
	}
	if q.RankAboveZero {
		where += " AND rank > 0"
	}

	sql := "SELECT " + placeColumns + " FROM places WHERE " + where + fmt.Sprintf(" LIMIT %d", maxRows)
	return r.queryRows(ctx, sql, args...)
}

// AlternateNameIDs returns ids of places whose alternate names in the
// requested languages match the key
func (r *Repository) AlternateNameIDs(ctx context.Context, q matcher.Query) ([]int64, error) {
	if q.Type == matcher.SoundsLike {
		return nil, nil
	}
	where, args, err := keyCondition(q, "search_key", "", "")
	if err != nil {
		return nil, err
	}
	args = append(args, q.Languages)
	sql := fmt.Sprintf(`SELECT DISTINCT place_id FROM alt_names WHERE %s AND lang = ANY($%d) LIMIT %d`,
		where, len(args), maxRows)

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute alternate name query: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("repository: failed to scan alternate name ids: %w", err)
	}
	return ids, nil
}

// RowsByID loads places by primary key
func (r *Repository) RowsByID(ctx context.Context, ids []int64, rankAboveZero bool) ([]matcher.Row, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	sql := "SELECT " + placeColumns + " FROM places WHERE id = ANY($1)"
	if rankAboveZero {
		sql += " AND rank > 0"
	}
	return r.queryRows(ctx, sql, ids)
}

// searchPostal returns the places carrying the postal code followed by the
// postal gazetteer entries for it
func (r *Repository) searchPostal(ctx context.Context, q matcher.Query) ([]matcher.Row, error) {
	rank := ""
	if q.RankAboveZero {
		rank = " AND rank > 0"
	}
	sql := `
		SELECT ` + placeColumns + `
		FROM places
		WHERE postal_code = $1` + rank + `
		UNION ALL
		SELECT COALESCE(place_id, 0), 0, name, '', admin2, admin1, country,
			latitude, longitude, 0, timezone, 0, 'P.PPL', $2::varchar, postal_code
		FROM postal_codes
		WHERE postal_code = $1`
	return r.queryRows(ctx, sql, postalKey(q.Key), models.OriginPostal.String())
}

func (r *Repository) queryRows(ctx context.Context, sql string, args ...any) ([]matcher.Row, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute search query: %w", err)
	}
	defer rows.Close()

	var result []matcher.Row
	for rows.Next() {
		var row matcher.Row
		var origin string
		err := rows.Scan(
			&row.ID,
			&row.GeonameID,
			&row.Name,
			&row.Variant,
			&row.County,
			&row.State,
			&row.Country,
			&row.Latitude,
			&row.Longitude,
			&row.Elevation,
			&row.Zone,
			&row.Rank,
			&row.PlaceType,
			&origin,
			&row.PostalCode,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan place: %w", err)
		}
		if err := row.Origin.UnmarshalText([]byte(origin)); err != nil {
			return nil, fmt.Errorf("repository: place %d: %w", row.ID, err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return result, nil
}

// keyCondition builds the WHERE fragment for an exact or prefix key match
// on up to two key columns, plus the simplified key column when the query
// carries a simplified key
func keyCondition(q matcher.Query, column, altColumn, simpleColumn string) (string, []any, error) {
	var op string
	switch q.Type {
	case matcher.ExactMatch, matcher.ExactMatchAlt:
		op = "= $%d"
	case matcher.StartsWith:
		op = "LIKE $%d::text || '%%'"
	default:
		return "", nil, fmt.Errorf("repository: unsupported match type %s", q.Type)
	}

	args := []any{q.Key}
	conds := []string{column + " " + fmt.Sprintf(op, 1)}
	if altColumn != "" {
		conds = append(conds, altColumn+" "+fmt.Sprintf(op, 1))
	}
	if simpleColumn != "" && q.SimpleKey != "" {
		args = append(args, q.SimpleKey)
		conds = append(conds, simpleColumn+" "+fmt.Sprintf(op, 2))
	}

	if len(conds) == 1 {
		return conds[0], args, nil
	}
	return "(" + strings.Join(conds, " OR ") + ")", args, nil
}

func soundCondition(q matcher.Query) (string, []any) {
	alt := q.AltKey
	if alt == "" {
		alt = q.Key
	}
	return "(sound_key1 IN ($1, $2) OR sound_key2 IN ($1, $2))", []any{q.Key, alt}
}

// postalKey is the stored form of a postal code.
func postalKey(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// LoadAdminNames copies the corpus division names into dir. Rows without a
// language extend the plain admin table.
func (r *Repository) LoadAdminNames(ctx context.Context, dir *names.Directory) (int, error) {
	rows, err := r.db.Query(ctx, `SELECT country, code, lang, name FROM admin_names`)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to load admin names: %w", err)
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		var country, code, lang, name string
		if err := rows.Scan(&country, &code, &lang, &name); err != nil {
			return n, fmt.Errorf("repository: failed to scan admin name: %w", err)
		}
		if lang == "" {
			dir.AddAdminName(country, code, name)
		} else {
			dir.AddLocalizedName(lang, country, code, name)
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return n, fmt.Errorf("repository: error iterating admin names: %w", err)
	}
	return n, nil
}

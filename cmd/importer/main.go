package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"atlas-api/internal/config"
	"atlas-api/internal/names"
	"atlas-api/internal/repository"

	"github.com/jackc/pgx/v5"
)

func main() {
	file := flag.String("file", "", "Path to the geonames cities file to import")
	admin1File := flag.String("admin1", "", "Path to admin1CodesASCII.txt")
	postalFile := flag.String("postal", "", "Path to a geonames postal-code file")
	alternatesFile := flag.String("alternates", "", "Path to alternateNamesV2.txt")
	languages := flag.String("languages", "en,de,fr,es,it,abbr", "Comma-separated alternate name languages to keep")
	flag.Parse()

	if *file == "" {
		fmt.Println("Error: --file flag is required")
		os.Exit(1)
	}

	ctx := context.Background()
	dir := names.Default()

	var admins []AdminRecord
	if *admin1File != "" {
		var err error
		admins, err = readFile(*admin1File, func(f *os.File) ([]AdminRecord, error) { return parseAdmin1(f, dir) })
		if err != nil {
			fmt.Printf("Error parsing admin1 names: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Parsed %d admin1 names\n", len(admins))
	}
	admin1 := newAdmin1Lookup(dir, admins)

	fmt.Printf("Starting import from file: %s\n", *file)

	places, err := readFile(*file, func(f *os.File) ([]PlaceRecord, error) { return parsePlaces(f, dir, admin1) })
	if err != nil {
		fmt.Printf("Error parsing places: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Parsed %d places\n", len(places))

	// Load config
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Connect to DB
	conn, err := pgx.Connect(ctx, cfg.DBSource)
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	// Ensure tables exist
	if err := repository.CreateSchema(ctx, conn); err != nil {
		fmt.Printf("Error creating tables: %v\n", err)
		os.Exit(1)
	}

	// Insert records
	if err := insertPlaces(ctx, conn, places); err != nil {
		fmt.Printf("Error inserting places: %v\n", err)
		os.Exit(1)
	}
	if err := insertAdmins(ctx, conn, admins); err != nil {
		fmt.Printf("Error inserting admin names: %v\n", err)
		os.Exit(1)
	}

	known := make(map[int64]bool, len(places))
	var alternates []AlternateRecord
	for _, p := range places {
		known[p.GeonameID] = true
		for _, name := range p.Alternates {
			if key := repository.KeysFor(name, "").Search; key != "" && key != p.Keys.Search {
				alternates = append(alternates, AlternateRecord{GeonameID: p.GeonameID, Name: name, SearchKey: key})
			}
		}
	}
	if *alternatesFile != "" {
		wanted := make(map[string]bool)
		for _, l := range strings.Split(*languages, ",") {
			wanted[strings.TrimSpace(l)] = true
		}
		localized, err := readFile(*alternatesFile, func(f *os.File) ([]AlternateRecord, error) {
			return parseAlternates(f, known, wanted)
		})
		if err != nil {
			fmt.Printf("Error parsing alternate names: %v\n", err)
			os.Exit(1)
		}
		alternates = append(alternates, localized...)
	}
	if err := insertAlternates(ctx, conn, alternates); err != nil {
		fmt.Printf("Error inserting alternate names: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Imported %d alternate names\n", len(alternates))

	if *postalFile != "" {
		postal, err := readFile(*postalFile, func(f *os.File) ([]PostalRecord, error) { return parsePostal(f, dir, admin1) })
		if err != nil {
			fmt.Printf("Error parsing postal codes: %v\n", err)
			os.Exit(1)
		}
		if err := insertPostal(ctx, conn, postal); err != nil {
			fmt.Printf("Error inserting postal codes: %v\n", err)
			os.Exit(1)
		}
		if err := repository.LinkPostalCodes(ctx, conn); err != nil {
			fmt.Printf("Error linking postal codes: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Imported %d postal codes\n", len(postal))
	}

	// Verify data
	if err := verifyImport(ctx, conn, len(places)); err != nil {
		fmt.Printf("Error verifying import: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully imported %d places\n", len(places))
}

func readFile[T any](path string, parse func(*os.File) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return parse(f)
}

func insertPlaces(ctx context.Context, conn *pgx.Conn, records []PlaceRecord) error {
	// Use CopyFrom for bulk insert; ids are geonameids so alternate names can
	// refer to them directly
	_, err := conn.CopyFrom(
		ctx,
		pgx.Identifier{"places"},
		[]string{"id", "geoname_id", "name", "search_key", "variant_key", "simple_key", "sound_key1",
			"sound_key2", "admin2", "admin1", "country", "latitude", "longitude", "elevation", "timezone",
			"rank", "feature_code", "origin"},
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			r := records[i]
			return []any{r.GeonameID, r.GeonameID, r.Name, r.Keys.Search, r.Keys.Variant, r.Keys.Simple, r.Keys.Sound1, r.Keys.Sound2,
				r.Admin2, r.Admin1, r.Country, r.Lat, r.Lon, r.Elevation, r.Timezone, r.Rank,
				r.FeatureCode, "ATLAS"}, nil
		}),
	)
	if err != nil {
		return err
	}
	_, err = conn.Exec(ctx, `SELECT setval('places_id_seq', GREATEST((SELECT MAX(id) FROM places), 1))`)
	return err
}

func insertAdmins(ctx context.Context, conn *pgx.Conn, records []AdminRecord) error {
	if len(records) == 0 {
		return nil
	}
	_, err := conn.CopyFrom(
		ctx,
		pgx.Identifier{"admin_names"},
		[]string{"country", "code", "lang", "name"},
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			r := records[i]
			return []any{r.Country, r.Code, "", r.Name}, nil
		}),
	)
	return err
}

func insertAlternates(ctx context.Context, conn *pgx.Conn, records []AlternateRecord) error {
	if len(records) == 0 {
		return nil
	}
	_, err := conn.CopyFrom(
		ctx,
		pgx.Identifier{"alt_names"},
		[]string{"place_id", "lang", "name", "search_key"},
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			r := records[i]
			return []any{r.GeonameID, r.Lang, r.Name, r.SearchKey}, nil
		}),
	)
	return err
}

func insertPostal(ctx context.Context, conn *pgx.Conn, records []PostalRecord) error {
	_, err := conn.CopyFrom(
		ctx,
		pgx.Identifier{"postal_codes"},
		[]string{"postal_code", "name", "search_key", "admin1", "admin2", "country", "latitude", "longitude"},
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			r := records[i]
			return []any{r.PostalCode, r.Name, r.SearchKey, r.Admin1, r.Admin2, r.Country, r.Lat, r.Lon}, nil
		}),
	)
	return err
}

func verifyImport(ctx context.Context, conn *pgx.Conn, expectedCount int) error {
	var count int
	err := conn.QueryRow(ctx, "SELECT COUNT(*) FROM places WHERE origin = 'ATLAS'").Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count records: %w", err)
	}

	if count < expectedCount {
		return fmt.Errorf("record count mismatch: expected at least %d, got %d", expectedCount, count)
	}

	// Check a sample place
	var name, country string
	var lat, lon float64
	err = conn.QueryRow(ctx, "SELECT name, country, latitude, longitude FROM places ORDER BY rank DESC LIMIT 1").
		Scan(&name, &country, &lat, &lon)
	if err != nil {
		return fmt.Errorf("failed to check sample: %w", err)
	}

	fmt.Printf("Sample place: %s, %s (%.4f, %.4f)\n", name, country, lat, lon)
	return nil
}

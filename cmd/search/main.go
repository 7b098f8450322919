package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"atlas-api/internal/app"
	"atlas-api/internal/config"
	"atlas-api/internal/logger"
	"atlas-api/internal/models"
	"atlas-api/internal/query"
	"atlas-api/internal/service"

	"github.com/olekukonko/tablewriter"
)

func main() {
	limit := flag.Int("limit", 0, "Maximum number of matches (0 uses the configured default)")
	lang := flag.String("lang", "", "Language for place names")
	mode := flag.String("mode", "", "Parse mode: loose or strict")
	extend := flag.Bool("extend", false, "Extended search: include the update tier and always ask the remote sources")
	sources := flag.String("remote", "all", "Remote sources to ask: all, a, b or none")
	sound := flag.Bool("sound", true, "Allow phonetic matching")
	configPath := flag.String("config", "configs", "Directory containing app.env")
	flag.Parse()

	q := strings.Join(flag.Args(), " ")
	if strings.TrimSpace(q) == "" {
		fmt.Println("Usage: search [flags] <place name>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup("warn", true)

	ctx := context.Background()
	a, err := app.New(ctx, cfg)
	if err != nil {
		fmt.Printf("Error initializing: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	req := service.Request{
		Query:      q,
		Limit:      *limit,
		Language:   *lang,
		Mode:       a.Mode,
		Extend:     *extend,
		SoundsLike: *sound,
	}
	if *mode != "" {
		req.Mode = query.ParseMode(*mode)
	}
	switch *sources {
	case "all":
		req.UseA, req.UseB = true, true
	case "a":
		req.UseA = true
	case "b":
		req.UseB = true
	case "none":
	default:
		fmt.Printf("Error: unknown remote value %q\n", *sources)
		os.Exit(2)
	}

	result, err := a.Service.Search(ctx, req)
	if err != nil {
		fmt.Printf("Error searching: %v\n", err)
		os.Exit(1)
	}

	printResult(result)
}

func printResult(result *models.SearchResult) {
	fmt.Printf("Search: %s (%s)\n", result.OriginalSearch, result.NormalizedSearch)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Place", "Latitude", "Longitude", "Zone", "Rank", "Source"})
	for _, loc := range result.Matches {
		table.Append([]string{
			loc.Display,
			strconv.FormatFloat(loc.Latitude, 'f', 4, 64),
			strconv.FormatFloat(loc.Longitude, 'f', 4, 64),
			loc.Zone,
			strconv.Itoa(loc.Rank),
			loc.Origin.String(),
		})
	}
	table.Render()

	for name, msg := range result.SourceErrors {
		fmt.Printf("%s: %s\n", name, msg)
	}
	if result.Warning != "" {
		fmt.Printf("Warning: %s\n", result.Warning)
	}
	fmt.Printf("%d matches in %s\n", result.Count, result.Elapsed)
}

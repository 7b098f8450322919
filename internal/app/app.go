// Package app wires the search service from the configuration.
package app

import (
	"context"
	"fmt"

	"atlas-api/internal/config"
	"atlas-api/internal/history"
	"atlas-api/internal/matcher"
	"atlas-api/internal/names"
	"atlas-api/internal/query"
	"atlas-api/internal/remote"
	"atlas-api/internal/repository"
	"atlas-api/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// App holds the long-lived dependencies of a running process.
type App struct {
	Pool    *pgxpool.Pool
	Repo    *repository.Repository
	History *history.Tracker
	Service *service.SearchService
	Mode    query.Mode
}

// New connects to the corpus and, when configured, to Redis, then builds
// the search service. Redis is optional: without it every unmatched search
// goes to the remote sources.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	pool, err := pgxpool.New(ctx, cfg.DBSource)
	if err != nil {
		return nil, fmt.Errorf("app: cannot connect to db: %w", err)
	}

	repo := repository.NewRepository(pool)
	dir := names.Default()
	if n, err := repo.LoadAdminNames(ctx, dir); err != nil {
		log.Warn().Err(err).Msg("admin names not loaded, using built-in tables")
	} else {
		log.Info().Int("count", n).Msg("admin names loaded")
	}

	var tracker *history.Tracker
	if cfg.RedisURL != "" {
		tracker, err = history.Connect(ctx, cfg.RedisURL, cfg.RecentSearchWindow)
		if err != nil {
			log.Warn().Err(err).Msg("search history disabled")
			tracker = nil
		}
	}

	var sourceA, sourceB remote.Source
	if cfg.NominatimEnabled {
		sourceA = remote.NewNominatimSource(cfg.NominatimURL, dir)
	}
	if cfg.OpenCageEnabled {
		sourceB = remote.NewOpenCageSource(cfg.OpenCageAPIKey, dir, cfg.OpenCageSoftTarget)
	}
	aggregator := remote.NewAggregator(sourceA, cfg.NominatimTimeout, sourceB, cfg.OpenCageTimeout)

	svc := service.NewSearchService(
		query.NewParser(dir),
		matcher.New(repo, dir),
		aggregator,
		tracker,
		repo,
		service.Limits{Default: cfg.DefaultLimit, Max: cfg.MaxLimit},
	)

	return &App{
		Pool:    pool,
		Repo:    repo,
		History: tracker,
		Service: svc,
		Mode:    query.ParseMode(cfg.DefaultParseMode),
	}, nil
}

// Close releases the connections.
func (a *App) Close() {
	if err := a.History.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close redis client")
	}
	a.Pool.Close()
}

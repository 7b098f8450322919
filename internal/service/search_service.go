package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"atlas-api/internal/matcher"
	"atlas-api/internal/merge"
	"atlas-api/internal/models"
	"atlas-api/internal/query"
	"atlas-api/internal/remote"

	"github.com/rs/zerolog"
)

var (
	// ErrEmptyQuery is returned for a blank search string.
	ErrEmptyQuery = errors.New("service: query cannot be empty")
	// ErrCorpusUnavailable is returned when the corpus could not be searched.
	ErrCorpusUnavailable = errors.New("service: corpus unavailable")
)

// corpusSource names the local corpus in result metrics.
const corpusSource = "atlas"

// Parser interface for dependency injection
type Parser interface {
	Parse(raw string, mode query.Mode) *models.ParsedQuery
}

// CorpusMatcher interface for dependency injection
type CorpusMatcher interface {
	Match(ctx context.Context, pq *models.ParsedQuery, opts matcher.Options) (*models.LocationMap, error)
}

// RemoteSearcher interface for dependency injection
type RemoteSearcher interface {
	Search(ctx context.Context, pq *models.ParsedQuery, useA, useB bool) remote.Result
}

// History interface for dependency injection
type History interface {
	SearchedRecently(ctx context.Context, search string) bool
	Forget(ctx context.Context, search string) error
}

// UpdateStore interface for dependency injection
type UpdateStore interface {
	SaveUpdates(ctx context.Context, locs []*models.Location) error
}

// Request is one search request.
type Request struct {
	Query    string
	Limit    int
	Language string
	Mode     query.Mode
	// Extend admits the update tier on the first pass and always consults
	// the remote sources.
	Extend     bool
	UseA       bool
	UseB       bool
	SoundsLike bool
}

// Limits bound the number of matches returned.
type Limits struct {
	Default int
	Max     int
}

// SearchService coordinates one search: parse, corpus match, optional
// remote lookups, merge.
type SearchService struct {
	parser  Parser
	matcher CorpusMatcher
	remote  RemoteSearcher
	history History
	updates UpdateStore
	limits  Limits
}

// NewSearchService creates a new search service. remote, history and
// updates may be nil.
func NewSearchService(parser Parser, m CorpusMatcher, r RemoteSearcher, h History, u UpdateStore, limits Limits) *SearchService {
	return &SearchService{
		parser:  parser,
		matcher: m,
		remote:  r,
		history: h,
		updates: u,
		limits:  limits,
	}
}

// Search runs a full search. Remote failures never fail the request; they
// are reported per source in the result.
func (s *SearchService) Search(ctx context.Context, req Request) (*models.SearchResult, error) {
	start := time.Now()
	raw := strings.TrimSpace(req.Query)
	if raw == "" {
		return nil, ErrEmptyQuery
	}

	logger := zerolog.Ctx(ctx)
	limit := s.limit(req.Limit)
	pq := s.parser.Parse(raw, req.Mode)
	opts := matcher.Options{
		Extended:   req.Extend,
		MaxMatches: limit,
		SoundsLike: req.SoundsLike,
		Language:   req.Language,
	}

	corpusStart := time.Now()
	local, err := s.matcher.Match(ctx, pq, opts)
	if err != nil {
		logger.Warn().Err(err).Msg("corpus search failed, retrying")
		local, err = s.matcher.Match(ctx, pq, opts)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorpusUnavailable, err)
		}
	}

	result := &models.SearchResult{
		OriginalSearch:   raw,
		NormalizedSearch: pq.NormalizedSearch,
		Metrics: map[string]models.SourceMetrics{
			corpusSource: {Raw: local.Len(), Matched: local.Len(), Latency: time.Since(corpusStart)},
		},
	}

	collections := []*models.LocationMap{local}
	if s.consultRemote(ctx, req, pq, local) {
		// the postal lookup of source B is unreliable
		useB := req.UseB && pq.PostalCode == ""
		res := s.remote.Search(ctx, pq, req.UseA, useB)
		collections = append(collections, res.Collections()...)

		for name, m := range res.Metrics() {
			result.Metrics[name] = m
		}
		if errs := res.Errors(); len(errs) > 0 {
			result.SourceErrors = errs
			if req.Extend {
				result.Warning = warning(errs)
			}
			if res.Successes == 0 {
				s.forget(ctx, pq.NormalizedSearch)
			}
		}
	}

	result.Matches = merge.Merge(limit, req.Language, collections...)
	result.Count = len(result.Matches)
	s.saveUpdates(ctx, result.Matches)

	result.Elapsed = time.Since(start)
	logger.Info().
		Str("search", raw).
		Str("normalized", pq.NormalizedSearch).
		Int("count", result.Count).
		Dur("elapsed", result.Elapsed).
		Msg("search completed")
	return result, nil
}

// forget drops a search whose remote lookups all failed from the history,
// so the next request asks again.
func (s *SearchService) forget(ctx context.Context, search string) {
	if s.history == nil {
		return
	}
	if err := s.history.Forget(ctx, search); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("search", search).Msg("failed to forget search")
	}
}

func (s *SearchService) limit(requested int) int {
	limit := requested
	if limit <= 0 {
		limit = s.limits.Default
	}
	if s.limits.Max > 0 && limit > s.limits.Max {
		limit = s.limits.Max
	}
	return limit
}

// consultRemote decides whether the remote sources are asked: always for an
// extended search, otherwise only when the corpus found nothing and the
// same search did not go out recently.
func (s *SearchService) consultRemote(ctx context.Context, req Request, pq *models.ParsedQuery, local *models.LocationMap) bool {
	if s.remote == nil || (!req.UseA && !req.UseB) {
		return false
	}
	if req.Extend {
		return true
	}
	if local.Len() > 0 {
		return false
	}
	if s.history != nil && s.history.SearchedRecently(ctx, pq.NormalizedSearch) {
		zerolog.Ctx(ctx).Debug().Str("search", pq.NormalizedSearch).Msg("searched recently, skipping remote sources")
		return false
	}
	return true
}

// saveUpdates writes remote results and flagged updates back to the corpus.
func (s *SearchService) saveUpdates(ctx context.Context, matches []*models.Location) {
	if s.updates == nil {
		return
	}
	var updates []*models.Location
	for _, loc := range matches {
		switch {
		case loc.Origin == models.OriginOpenCage, loc.Origin == models.OriginNominatim:
			updates = append(updates, loc)
		case loc.UseAsUpdate && loc.Origin != models.OriginPostal:
			updates = append(updates, loc)
		}
	}
	if len(updates) == 0 {
		return
	}
	if err := s.updates.SaveUpdates(ctx, updates); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Int("count", len(updates)).Msg("failed to save corpus updates")
	}
}

func warning(errs map[string]string) string {
	sources := make([]string, 0, len(errs))
	for name := range errs {
		sources = append(sources, name)
	}
	sort.Strings(sources)
	return "extended search incomplete, unavailable: " + strings.Join(sources, ", ")
}

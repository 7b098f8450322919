package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"atlas-api/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ErrTimeout is reported for a source that did not answer in time.
var ErrTimeout = errors.New("remote: lookup timed out")

// Outcome is the result of one source lookup.
type Outcome struct {
	Source  string
	Matches *models.LocationMap
	Metrics models.SourceMetrics
	Err     error
}

// Result collects both lookups. An outcome of a disabled source is zero.
type Result struct {
	A         Outcome
	B         Outcome
	Successes int
}

// Collections returns the match collections of both sources; absent ones
// are nil.
func (r Result) Collections() []*models.LocationMap {
	return []*models.LocationMap{r.A.Matches, r.B.Matches}
}

// Errors returns the error message of each failed source by name.
func (r Result) Errors() map[string]string {
	errs := make(map[string]string)
	for _, o := range []Outcome{r.A, r.B} {
		if o.Err != nil {
			errs[o.Source] = o.Err.Error()
		}
	}
	return errs
}

// Metrics returns the metrics of each source that answered, by name.
func (r Result) Metrics() map[string]models.SourceMetrics {
	metrics := make(map[string]models.SourceMetrics)
	for _, o := range []Outcome{r.A, r.B} {
		if o.Source != "" && o.Err == nil {
			metrics[o.Source] = o.Metrics
		}
	}
	return metrics
}

// Aggregator fans a query out to two sources, each under its own timeout.
type Aggregator struct {
	a        Source
	b        Source
	timeoutA time.Duration
	timeoutB time.Duration
}

// NewAggregator creates an aggregator. Either source may be nil.
func NewAggregator(a Source, timeoutA time.Duration, b Source, timeoutB time.Duration) *Aggregator {
	return &Aggregator{a: a, b: b, timeoutA: timeoutA, timeoutB: timeoutB}
}

// Search runs the enabled lookups concurrently and waits for both. A failing
// or slow source never affects the other.
func (g *Aggregator) Search(ctx context.Context, pq *models.ParsedQuery, useA, useB bool) Result {
	var res Result
	var eg errgroup.Group

	if useA && g.a != nil {
		eg.Go(func() error {
			res.A = lookup(ctx, g.a, g.timeoutA, pq)
			return nil
		})
	}
	if useB && g.b != nil {
		eg.Go(func() error {
			res.B = lookup(ctx, g.b, g.timeoutB, pq)
			return nil
		})
	}
	_ = eg.Wait()

	for _, o := range []Outcome{res.A, res.B} {
		if o.Source != "" && o.Err == nil {
			res.Successes++
		}
	}
	return res
}

type reply struct {
	matches *models.LocationMap
	metrics models.SourceMetrics
	err     error
}

func lookup(ctx context.Context, src Source, timeout time.Duration, pq *models.ParsedQuery) Outcome {
	out := Outcome{Source: src.Name()}
	logger := zerolog.Ctx(ctx).With().Str("source", out.Source).Logger()

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	ch := make(chan reply, 1)
	go func() {
		m, metrics, err := src.Lookup(ctx, pq.DisplayCity, pq.DisplayState, pq.PostalCode)
		ch <- reply{matches: m, metrics: metrics, err: err}
	}()

	select {
	case r := <-ch:
		out.Matches, out.Metrics, out.Err = r.matches, r.metrics, r.err
		if r.err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			out.Err = ErrTimeout
		}
	case <-ctx.Done():
		out.Err = ErrTimeout
		if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			out.Err = fmt.Errorf("remote: %s: %w", out.Source, ctx.Err())
		}
	}
	if out.Err != nil {
		out.Matches = nil
	}
	if out.Metrics.Latency == 0 {
		out.Metrics.Latency = time.Since(start)
	}

	if out.Err != nil {
		logger.Warn().Err(out.Err).Dur("latency", out.Metrics.Latency).Msg("remote lookup failed")
	} else {
		logger.Debug().
			Int("raw", out.Metrics.Raw).
			Int("matched", out.Metrics.Matched).
			Dur("latency", out.Metrics.Latency).
			Msg("remote lookup")
	}
	return out
}

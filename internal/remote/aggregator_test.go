package remote

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"atlas-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	name  string
	delay time.Duration
	locs  []*models.Location
	err   error
	calls atomic.Int32
	seen  [3]string
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Lookup(ctx context.Context, city, state, postal string) (*models.LocationMap, models.SourceMetrics, error) {
	f.calls.Add(1)
	f.seen = [3]string{city, state, postal}
	select {
	case <-time.After(f.delay):
	case <-ctx.Done():
		return nil, models.SourceMetrics{}, ctx.Err()
	}
	if f.err != nil {
		return nil, models.SourceMetrics{}, f.err
	}
	m := models.NewLocationMap()
	for _, l := range f.locs {
		m.Add(l)
	}
	return m, models.SourceMetrics{Raw: len(f.locs) + 1, Matched: len(f.locs), Latency: f.delay}, nil
}

func testQuery() *models.ParsedQuery {
	return &models.ParsedQuery{TargetCity: "SPRINGFIELD", TargetState: "IL", DisplayCity: "Springfield", DisplayState: "IL"}
}

func TestAggregator_BothSucceed(t *testing.T) {
	a := &fakeSource{name: "a", locs: []*models.Location{{City: "Springfield", State: "IL", Country: "USA"}}}
	b := &fakeSource{name: "b", delay: 10 * time.Millisecond, locs: []*models.Location{{City: "Springfield", State: "IL", Country: "USA"}}}
	agg := NewAggregator(a, time.Second, b, time.Second)

	res := agg.Search(context.Background(), testQuery(), true, true)

	assert.Equal(t, 2, res.Successes)
	assert.Equal(t, 1, res.A.Matches.Len())
	assert.Equal(t, 1, res.B.Matches.Len())
	assert.Empty(t, res.Errors())
	assert.Equal(t, 1, res.Metrics()["b"].Matched)
	assert.Equal(t, [3]string{"Springfield", "IL", ""}, a.seen)
}

func TestAggregator_TimeoutIsolated(t *testing.T) {
	a := &fakeSource{name: "a", delay: time.Second}
	b := &fakeSource{name: "b", locs: []*models.Location{{City: "Springfield", State: "IL", Country: "USA"}}}
	agg := NewAggregator(a, 20*time.Millisecond, b, time.Second)

	res := agg.Search(context.Background(), testQuery(), true, true)

	assert.Equal(t, 1, res.Successes)
	assert.ErrorIs(t, res.A.Err, ErrTimeout)
	assert.Nil(t, res.A.Matches)
	assert.NoError(t, res.B.Err)
	assert.Equal(t, map[string]string{"a": ErrTimeout.Error()}, res.Errors())
	assert.Nil(t, res.Collections()[0])
	assert.Equal(t, 1, res.Collections()[1].Len())
}

func TestAggregator_FailureIsolated(t *testing.T) {
	a := &fakeSource{name: "a", locs: []*models.Location{{City: "Springfield", State: "IL", Country: "USA"}}}
	b := &fakeSource{name: "b", err: errors.New("quota exceeded")}
	agg := NewAggregator(a, time.Second, b, time.Second)

	res := agg.Search(context.Background(), testQuery(), true, true)

	assert.Equal(t, 1, res.Successes)
	assert.Equal(t, map[string]string{"b": "quota exceeded"}, res.Errors())
	assert.Contains(t, res.Metrics(), "a")
	assert.NotContains(t, res.Metrics(), "b")
}

func TestAggregator_Disabled(t *testing.T) {
	a := &fakeSource{name: "a"}
	b := &fakeSource{name: "b"}
	agg := NewAggregator(a, time.Second, b, time.Second)

	res := agg.Search(context.Background(), testQuery(), true, false)

	assert.Equal(t, 1, res.Successes)
	assert.Equal(t, int32(1), a.calls.Load())
	assert.Equal(t, int32(0), b.calls.Load())
	assert.Equal(t, Outcome{}, res.B)
}

func TestAggregator_NilSource(t *testing.T) {
	agg := NewAggregator(nil, time.Second, nil, time.Second)

	res := agg.Search(context.Background(), testQuery(), true, true)

	require.Equal(t, 0, res.Successes)
	assert.Empty(t, res.Errors())
}

func TestAggregator_ParentCancelled(t *testing.T) {
	a := &fakeSource{name: "a", delay: time.Second}
	agg := NewAggregator(a, time.Minute, nil, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := agg.Search(ctx, testQuery(), true, false)

	assert.ErrorIs(t, res.A.Err, context.Canceled)
}

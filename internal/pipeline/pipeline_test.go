package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/zip-census/internal/census"
	"github.com/couchcryptid/zip-census/internal/domain"
	"github.com/couchcryptid/zip-census/internal/observability"
	"github.com/couchcryptid/zip-census/internal/pipeline"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockExtractor struct {
	batches [][]domain.RawEvent
	index   atomic.Int64
	err     error
}

func (m *mockExtractor) ExtractBatch(ctx context.Context, _ int) ([]domain.RawEvent, error) {
	if m.err != nil {
		return nil, m.err
	}
	i := int(m.index.Add(1) - 1)
	if i >= len(m.batches) {
		// block until context cancelled to simulate waiting for messages
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.batches[i], nil
}

type mockTransformer struct {
	err error
}

func (m *mockTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	if m.err != nil {
		return domain.OutputEvent{}, m.err
	}
	return domain.OutputEvent{Key: raw.Key, Value: raw.Value}, nil
}

type mockLoader struct {
	mu     sync.Mutex
	loaded []domain.OutputEvent
	err    error
}

func (m *mockLoader) LoadBatch(_ context.Context, events []domain.OutputEvent) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaded = append(m.loaded, events...)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runFor(t *testing.T, p *pipeline.Pipeline, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	require.NoError(t, p.Run(ctx))
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	raw := makeRawEvent(t, "req-1", "99950")

	ext := &mockExtractor{batches: [][]domain.RawEvent{{raw}}}
	ldr := &mockLoader{}
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(ext, &mockTransformer{}, ldr, discardLogger(), metrics, 50)
	runFor(t, p, 300*time.Millisecond)

	require.Len(t, ldr.loaded, 1)
	assert.Equal(t, raw.Value, ldr.loaded[0].Value)
	assert.True(t, p.Ready())
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.MessagesConsumed), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.MessagesProduced), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.PipelineRunning), 0)
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	ldr := &mockLoader{}
	p := pipeline.New(&mockExtractor{}, &mockTransformer{}, ldr, discardLogger(), observability.NewMetricsForTesting(), 50)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, p.Run(ctx))
	assert.Empty(t, ldr.loaded)
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_TransformErrorSkipsAndCommits(t *testing.T) {
	var commits atomic.Int64
	raw := makeRawEvent(t, "req-2", "99950")
	raw.Commit = func(_ context.Context) error {
		commits.Add(1)
		return nil
	}

	ext := &mockExtractor{batches: [][]domain.RawEvent{{raw}}}
	tfm := &mockTransformer{err: errors.New("bad data")}
	ldr := &mockLoader{}
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(ext, tfm, ldr, discardLogger(), metrics, 50)
	runFor(t, p, 300*time.Millisecond)

	assert.Empty(t, ldr.loaded)
	assert.False(t, p.Ready())
	assert.Equal(t, int64(1), commits.Load())
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.TransformErrors.WithLabelValues("parse")), 0)
}

func TestPipeline_Run_TransformErrorLabelledByKind(t *testing.T) {
	raw := makeRawEvent(t, "req-3", "99999")

	ext := &mockExtractor{batches: [][]domain.RawEvent{{raw}}}
	tfm := &mockTransformer{err: census.ErrStateNotFound}
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(ext, tfm, &mockLoader{}, discardLogger(), metrics, 50)
	runFor(t, p, 300*time.Millisecond)

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.TransformErrors.WithLabelValues("lookup")), 0)
}

func TestPipeline_Run_CommitsAfterLoad(t *testing.T) {
	var commitCalled atomic.Bool
	raw := makeRawEvent(t, "req-5", "00501")
	raw.Topic = "zip-lookup-requests"
	raw.Commit = func(_ context.Context) error {
		commitCalled.Store(true)
		return nil
	}

	ext := &mockExtractor{batches: [][]domain.RawEvent{{raw}}}
	p := pipeline.New(ext, &mockTransformer{}, &mockLoader{}, discardLogger(), observability.NewMetricsForTesting(), 50)
	runFor(t, p, 300*time.Millisecond)

	assert.True(t, commitCalled.Load())
}

func TestPipeline_Run_LoadErrorDoesNotCommit(t *testing.T) {
	var commitCalled atomic.Bool
	raw := makeRawEvent(t, "req-6", "00501")
	raw.Commit = func(_ context.Context) error {
		commitCalled.Store(true)
		return nil
	}

	ext := &mockExtractor{batches: [][]domain.RawEvent{{raw}}}
	ldr := &mockLoader{err: errors.New("broker unavailable")}
	p := pipeline.New(ext, &mockTransformer{}, ldr, discardLogger(), observability.NewMetricsForTesting(), 50)
	runFor(t, p, 300*time.Millisecond)

	assert.False(t, commitCalled.Load())
	assert.False(t, p.Ready())
}

func TestPipeline_Run_MixedBatchLoadErrorCommitsNothing(t *testing.T) {
	var committed offsetLog
	valid := committed.track(makeRawEvent(t, "req-10", "99950"), 0)
	malformed := committed.track(makeRawEvent(t, "req-11", "1234"), 1)

	ext := &mockExtractor{batches: [][]domain.RawEvent{{valid, malformed}}}
	tfm := pipeline.NewTransformer(nil, observability.NewMetricsForTesting(), discardLogger())
	ldr := &mockLoader{err: errors.New("broker down")}
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(ext, tfm, ldr, discardLogger(), metrics, 50)
	runFor(t, p, 300*time.Millisecond)

	assert.Empty(t, committed.offsets(), "no offset may be committed while an earlier message is unloaded")
	assert.Empty(t, ldr.loaded)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.TransformErrors.WithLabelValues("format")), 0)
}

func TestPipeline_Run_MixedBatchCommitsInOrderAfterLoad(t *testing.T) {
	var committed offsetLog
	malformed := committed.track(makeRawEvent(t, "req-12", "1234"), 0)
	valid := committed.track(makeRawEvent(t, "req-13", "99950"), 1)
	unknown := committed.track(makeRawEvent(t, "req-14", "99999"), 2)

	ext := &mockExtractor{batches: [][]domain.RawEvent{{malformed, valid, unknown}}}
	tfm := pipeline.NewTransformer(nil, observability.NewMetricsForTesting(), discardLogger())
	ldr := &mockLoader{}

	p := pipeline.New(ext, tfm, ldr, discardLogger(), observability.NewMetricsForTesting(), 50)
	runFor(t, p, 300*time.Millisecond)

	assert.Len(t, ldr.loaded, 1)
	assert.Equal(t, []int64{0, 1, 2}, committed.offsets())
}

func TestPipeline_Run_AllFailedBatchStillCommits(t *testing.T) {
	var committed offsetLog
	bad := committed.track(makeRawEvent(t, "req-15", "1234"), 7)

	ext := &mockExtractor{batches: [][]domain.RawEvent{{bad}}}
	tfm := pipeline.NewTransformer(nil, observability.NewMetricsForTesting(), discardLogger())
	ldr := &mockLoader{err: errors.New("never called")}

	p := pipeline.New(ext, tfm, ldr, discardLogger(), observability.NewMetricsForTesting(), 50)
	runFor(t, p, 300*time.Millisecond)

	assert.Equal(t, []int64{7}, committed.offsets())
}

func TestPipeline_CheckReadiness_FollowsRunLoop(t *testing.T) {
	p := pipeline.New(&mockExtractor{}, &mockTransformer{}, &mockLoader{}, discardLogger(), observability.NewMetricsForTesting(), 50)
	require.Error(t, p.CheckReadiness(context.Background()), "not ready before Run")

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(ctx) }()

	// An idle topic keeps the pipeline ready even though nothing was loaded.
	assert.Eventually(t, func() bool {
		return p.CheckReadiness(context.Background()) == nil
	}, time.Second, 10*time.Millisecond)
	assert.False(t, p.Ready())

	cancel()
	require.NoError(t, <-errCh)
	assert.Error(t, p.CheckReadiness(context.Background()), "not ready after Run exits")
}

func TestPipeline_Run_ExtractErrorBacksOff(t *testing.T) {
	ext := &mockExtractor{err: errors.New("kafka down")}
	ldr := &mockLoader{}
	p := pipeline.New(ext, &mockTransformer{}, ldr, discardLogger(), observability.NewMetricsForTesting(), 50)

	runFor(t, p, 300*time.Millisecond)
	assert.Empty(t, ldr.loaded)
}

func TestZipTransformer_Transform(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, time.April, 26, 15, 10, 0, 0, time.UTC)))
	t.Cleanup(func() { domain.SetClock(nil) })

	metrics := observability.NewMetricsForTesting()
	tfm := pipeline.NewTransformer(nil, metrics, discardLogger())

	out, err := tfm.Transform(context.Background(), makeRawEvent(t, "req-7", "00501-4412"))
	require.NoError(t, err)
	assert.Equal(t, []byte("req-7"), out.Key)
	assert.Equal(t, "Northeast", out.Headers["region"])
	assert.JSONEq(t, `{
		"request_id": "req-7",
		"zip_code": "00501-4412",
		"state": "NY",
		"division": "Middle Atlantic",
		"region": "Northeast",
		"processed_at": "2024-04-26T15:10:00Z"
	}`, string(out.Value))
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Lookups.WithLabelValues("classify", observability.OutcomeSuccess)), 0)
}

func TestZipTransformer_TransformErrors(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	tfm := pipeline.NewTransformer(census.Default(), metrics, discardLogger())

	_, err := tfm.Transform(context.Background(), domain.RawEvent{Value: []byte("not json")})
	assert.Error(t, err)

	_, err = tfm.Transform(context.Background(), makeRawEvent(t, "req-8", "1234"))
	assert.ErrorIs(t, err, census.ErrInvalidFormat)

	_, err = tfm.Transform(context.Background(), makeRawEvent(t, "req-9", "99999"))
	assert.ErrorIs(t, err, census.ErrStateNotFound)

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Lookups.WithLabelValues("classify", observability.OutcomeInvalid)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Lookups.WithLabelValues("classify", observability.OutcomeNotFound)), 0)
}

// --- helpers ---

// offsetLog records commit calls in the order they happen.
type offsetLog struct {
	mu   sync.Mutex
	seen []int64
}

func (l *offsetLog) track(raw domain.RawEvent, offset int64) domain.RawEvent {
	raw.Offset = offset
	raw.Commit = func(_ context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.seen = append(l.seen, offset)
		return nil
	}
	return raw
}

func (l *offsetLog) offsets() []int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seen
}

func makeRawEvent(t *testing.T, id, zip string) domain.RawEvent {
	t.Helper()
	data, err := json.Marshal(domain.LookupRequest{ZipCode: zip, RequestID: id})
	require.NoError(t, err)
	return domain.RawEvent{
		Key:   []byte(id),
		Value: data,
	}
}

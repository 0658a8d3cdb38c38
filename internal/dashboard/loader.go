// Package dashboard orchestrates per-widget data loads. A dashboard with N
// widgets issues N executor calls concurrently; each widget settles on its
// own, so one failing query never takes down its siblings.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vkmindia80/nexbii/internal/chartdata"
	"github.com/vkmindia80/nexbii/internal/dbexec"
	"github.com/vkmindia80/nexbii/internal/logging"
	"github.com/vkmindia80/nexbii/internal/observability"
)

// WidgetError is the per-widget failure sentinel stored in the result map.
type WidgetError struct {
	Error string `json:"error"`
}

// Loader fans widget loads out to the executor and reshapes each result for
// its chart type. It also maintains the latest-known data per widget,
// guarded by a generation counter so a stale in-flight load cannot
// overwrite the result of a newer refresh.
type Loader struct {
	executor dbexec.Executor
	logger   *logging.Logger
	metrics  *observability.DashboardMetrics

	mu          sync.Mutex
	generations map[string]uint64
	latest      map[string]any
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger attaches a structured logger.
func WithLogger(logger *logging.Logger) LoaderOption {
	return func(l *Loader) { l.logger = logger }
}

// WithMetrics attaches widget load metrics.
func WithMetrics(m *observability.DashboardMetrics) LoaderOption {
	return func(l *Loader) { l.metrics = m }
}

// NewLoader creates a loader over the given executor.
func NewLoader(executor dbexec.Executor, opts ...LoaderOption) *Loader {
	l := &Loader{
		executor:    executor,
		logger:      logging.Nop(),
		generations: make(map[string]uint64),
		latest:      make(map[string]any),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches and transforms data for every widget concurrently. The
// returned map always contains one settled entry per widget: chart data on
// success, a WidgetError on failure. Load itself never fails.
//
// Refresh is the same call again: it cancels nothing in flight, but each
// attempt records the generation it was issued under, and only the newest
// generation may update the loader's latest-known data.
func (l *Loader) Load(ctx context.Context, widgets []chartdata.WidgetSpec) map[string]any {
	results := make(map[string]any, len(widgets))

	var wg sync.WaitGroup
	var resultsMu sync.Mutex

	for _, w := range widgets {
		gen := l.nextGeneration(w.ID)

		wg.Add(1)
		go func(w chartdata.WidgetSpec, gen uint64) {
			defer wg.Done()

			data := l.loadWidget(ctx, w)

			resultsMu.Lock()
			results[w.ID] = data
			resultsMu.Unlock()

			l.storeLatest(w.ID, gen, data)
		}(w, gen)
	}

	wg.Wait()
	return results
}

// Latest returns a snapshot of the newest settled data per widget.
func (l *Loader) Latest() map[string]any {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]any, len(l.latest))
	for id, data := range l.latest {
		out[id] = data
	}
	return out
}

// loadWidget runs one executor call and transform. Any failure, including a
// transform panic, settles as a WidgetError; nothing propagates.
func (l *Loader) loadWidget(ctx context.Context, w chartdata.WidgetSpec) (data any) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			data = WidgetError{Error: fmt.Sprintf("transform failed: %v", r)}
			l.logger.Error("widget transform panicked",
				slog.String("widget_id", w.ID),
				slog.Any("panic", r),
			)
		}
		l.metrics.RecordWidgetLoad(ctx, string(w.ChartType), time.Since(start), isError(data))
	}()

	result, err := l.executor.Execute(ctx, dbexec.ExecRequest{QueryID: w.QueryID})
	if err != nil {
		l.logger.Warn("widget query failed",
			slog.String("widget_id", w.ID),
			slog.String("query_id", w.QueryID),
			slog.String("error", err.Error()),
		)
		return WidgetError{Error: err.Error()}
	}

	return chartdata.Transform(result, w)
}

func (l *Loader) nextGeneration(widgetID string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.generations[widgetID]++
	return l.generations[widgetID]
}

func (l *Loader) storeLatest(widgetID string, gen uint64, data any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if gen == l.generations[widgetID] {
		l.latest[widgetID] = data
	}
}

func isError(data any) bool {
	_, ok := data.(WidgetError)
	return ok
}

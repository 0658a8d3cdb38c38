package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// DashboardMetrics holds custom metrics for widget data loading. A nil
// receiver is valid and records nothing, so callers can wire metrics
// optionally.
type DashboardMetrics struct {
	widgetLoadDuration metric.Float64Histogram
	widgetLoadCounter  metric.Int64Counter
	widgetLoadErrors   metric.Int64Counter
	compileCounter     metric.Int64Counter
	resultRows         metric.Int64Histogram
}

// InitDashboardMetrics registers the widget load metrics on the global
// meter provider.
func InitDashboardMetrics() (*DashboardMetrics, error) {
	meter := otel.Meter("nexbii")

	widgetLoadDuration, err := meter.Float64Histogram(
		"dashboard.widget.load.duration",
		metric.WithDescription("Duration of widget data loads in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create widget load duration histogram: %w", err)
	}

	widgetLoadCounter, err := meter.Int64Counter(
		"dashboard.widget.loads.total",
		metric.WithDescription("Total number of widget data loads"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create widget load counter: %w", err)
	}

	widgetLoadErrors, err := meter.Int64Counter(
		"dashboard.widget.load.errors.total",
		metric.WithDescription("Total number of failed widget data loads"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create widget load error counter: %w", err)
	}

	compileCounter, err := meter.Int64Counter(
		"query.compile.total",
		metric.WithDescription("Total number of SQL compilations"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create compile counter: %w", err)
	}

	resultRows, err := meter.Int64Histogram(
		"query.result.rows",
		metric.WithDescription("Number of rows returned by executed queries"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create result rows histogram: %w", err)
	}

	return &DashboardMetrics{
		widgetLoadDuration: widgetLoadDuration,
		widgetLoadCounter:  widgetLoadCounter,
		widgetLoadErrors:   widgetLoadErrors,
		compileCounter:     compileCounter,
		resultRows:         resultRows,
	}, nil
}

// RecordWidgetLoad records one settled widget load attempt.
func (m *DashboardMetrics) RecordWidgetLoad(ctx context.Context, chartType string, duration time.Duration, failed bool) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("chart_type", chartType))
	m.widgetLoadCounter.Add(ctx, 1, attrs)
	m.widgetLoadDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	if failed {
		m.widgetLoadErrors.Add(ctx, 1, attrs)
	}
}

// RecordCompile records one SQL compilation.
func (m *DashboardMetrics) RecordCompile(ctx context.Context) {
	if m == nil {
		return
	}
	m.compileCounter.Add(ctx, 1)
}

// RecordResultRows records the row count of an executed query.
func (m *DashboardMetrics) RecordResultRows(ctx context.Context, rows int) {
	if m == nil {
		return
	}
	m.resultRows.Record(ctx, int64(rows))
}

// Package chartdata reshapes flat tabular query results into the input each
// chart renderer requires. Transformation is total: unresolved column roles
// degrade to positional defaults and missing values coerce to zero, so a
// widget always gets a renderable shape.
package chartdata

import "strings"

// ChartType tags the renderer a widget is bound to.
type ChartType string

const (
	ChartLine   ChartType = "line"
	ChartArea   ChartType = "area"
	ChartColumn ChartType = "column"
	ChartBar    ChartType = "bar"
	ChartPie    ChartType = "pie"
	ChartDonut  ChartType = "donut"
	ChartMetric ChartType = "metric"
	ChartGauge  ChartType = "gauge"
	ChartTable  ChartType = "table"
)

// WidgetConfig holds the chart-type-specific column-role bindings, resolved
// by name against the result's column list. Empty roles fall back to
// position: role 0 is the first column, role 1 the second.
type WidgetConfig struct {
	XAxis       string `json:"x_axis,omitempty"`
	YAxis       string `json:"y_axis,omitempty"`
	Label       string `json:"label,omitempty"`
	Value       string `json:"value,omitempty"`
	Field       string `json:"field,omitempty"`
	Color       string `json:"color,omitempty"`
	Aggregation string `json:"aggregation,omitempty"`
}

// WidgetSpec binds one dashboard widget to a query and a chart type.
type WidgetSpec struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	ChartType ChartType    `json:"chart_type"`
	QueryID   string       `json:"query_id,omitempty"`
	Config    WidgetConfig `json:"config"`
}

// MetricAggregation names the reductions a metric widget supports. Absent or
// unrecognized aggregations fall back to the first row's value, which covers
// queries that already aggregated at the SQL level.
const (
	MetricSum   = "sum"
	MetricAvg   = "avg"
	MetricCount = "count"
)

func normalizeAggregation(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

package chartdata

import (
	"fmt"

	"github.com/vkmindia80/nexbii/internal/dbexec"
)

// Series is one plotted line/bar series.
type Series struct {
	Name  string    `json:"name"`
	Data  []float64 `json:"data"`
	Color string    `json:"color,omitempty"`
}

// SeriesData feeds the line, area, and column renderers.
type SeriesData struct {
	XAxis  []string `json:"xAxis"`
	Series []Series `json:"series"`
}

// BarData feeds the horizontal bar renderer; categories live on the y axis.
type BarData struct {
	YAxis  []string `json:"yAxis"`
	Series []Series `json:"series"`
}

// NameValue is one slice of a pie or donut chart.
type NameValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// MetricData feeds the single-number metric and gauge renderers.
type MetricData struct {
	Value float64 `json:"value"`
}

// TableData is the pass-through shape for table widgets and unrecognized
// chart types.
type TableData struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Transform reshapes a query result into the input the widget's chart type
// requires. It never fails: unresolved roles fall back to positions, missing
// cells become zero, and unknown chart types pass the result through
// unchanged.
func Transform(result dbexec.Result, widget WidgetSpec) any {
	switch widget.ChartType {
	case ChartLine, ChartArea, ChartColumn:
		return transformSeries(result, widget)
	case ChartBar:
		s := transformSeries(result, widget)
		return BarData{YAxis: s.XAxis, Series: s.Series}
	case ChartPie, ChartDonut:
		return transformNameValues(result, widget)
	case ChartMetric:
		return MetricData{Value: metricValue(result, widget)}
	case ChartGauge:
		// Gauges show instantaneous state: always the first row, never a
		// reduction over the result.
		idx := resolveRole(result.Columns, widget.Config.Field, 0)
		return MetricData{Value: numberOrZero(firstCell(result.Rows, idx))}
	case ChartTable:
		return TableData{Columns: result.Columns, Rows: result.Rows}
	default:
		return TableData{Columns: result.Columns, Rows: result.Rows}
	}
}

func transformSeries(result dbexec.Result, widget WidgetSpec) SeriesData {
	xIdx := resolveRole(result.Columns, widget.Config.XAxis, 0)
	yIdx := resolveRole(result.Columns, widget.Config.YAxis, 1)

	labels := make([]string, len(result.Rows))
	values := make([]float64, len(result.Rows))
	for i, row := range result.Rows {
		labels[i] = formatLabel(cellAt(row, xIdx))
		values[i] = numberOrZero(cellAt(row, yIdx))
	}

	return SeriesData{
		XAxis: labels,
		Series: []Series{{
			Name:  seriesName(result.Columns, yIdx, widget),
			Data:  values,
			Color: widget.Config.Color,
		}},
	}
}

func transformNameValues(result dbexec.Result, widget WidgetSpec) []NameValue {
	labelIdx := resolveRole(result.Columns, widget.Config.Label, 0)
	valueIdx := resolveRole(result.Columns, widget.Config.Value, 1)

	out := make([]NameValue, len(result.Rows))
	for i, row := range result.Rows {
		out[i] = NameValue{
			Name:  formatLabel(cellAt(row, labelIdx)),
			Value: numberOrZero(cellAt(row, valueIdx)),
		}
	}
	return out
}

// metricValue reduces the field column over all rows. Without an explicit
// aggregation the first row's value is used as-is: the query is assumed to
// have aggregated already and returned one row.
func metricValue(result dbexec.Result, widget WidgetSpec) float64 {
	idx := resolveRole(result.Columns, widget.Config.Field, 0)

	switch normalizeAggregation(widget.Config.Aggregation) {
	case MetricSum:
		return sumColumn(result.Rows, idx)
	case MetricAvg:
		if len(result.Rows) == 0 {
			return 0
		}
		return sumColumn(result.Rows, idx) / float64(len(result.Rows))
	case MetricCount:
		return float64(len(result.Rows))
	default:
		return numberOrZero(firstCell(result.Rows, idx))
	}
}

func sumColumn(rows [][]any, idx int) float64 {
	var sum float64
	for _, row := range rows {
		sum += numberOrZero(cellAt(row, idx))
	}
	return sum
}

// resolveRole maps a configured column name to its index. An empty name
// falls back to the positional default; a name that is not present resolves
// to -1, which downstream cell access treats as a missing value.
func resolveRole(columns []string, name string, defaultIdx int) int {
	if name == "" {
		return defaultIdx
	}
	for i, col := range columns {
		if col == name {
			return i
		}
	}
	return -1
}

func cellAt(row []any, idx int) any {
	if idx < 0 || idx >= len(row) {
		return nil
	}
	return row[idx]
}

func firstCell(rows [][]any, idx int) any {
	if len(rows) == 0 {
		return nil
	}
	return cellAt(rows[0], idx)
}

func formatLabel(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func seriesName(columns []string, yIdx int, widget WidgetSpec) string {
	if yIdx >= 0 && yIdx < len(columns) {
		return columns[yIdx]
	}
	if widget.Config.YAxis != "" {
		return widget.Config.YAxis
	}
	return widget.Title
}

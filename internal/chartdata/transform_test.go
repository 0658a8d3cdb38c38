package chartdata

import (
	"reflect"
	"testing"

	"github.com/vkmindia80/nexbii/internal/dbexec"
)

func metricResult() dbexec.Result {
	return dbexec.Result{
		Columns: []string{"amount"},
		Rows:    [][]any{{1}, {2}, {3}},
	}
}

func TestMetricAggregations(t *testing.T) {
	cases := []struct {
		aggregation string
		want        float64
	}{
		{"sum", 6},
		{"avg", 2},
		{"count", 3},
		{"", 1}, // no aggregation: first row as-is
		{"SUM", 6},
		{" avg ", 2},
	}
	for _, tc := range cases {
		w := WidgetSpec{
			ID:        "w1",
			ChartType: ChartMetric,
			Config:    WidgetConfig{Field: "amount", Aggregation: tc.aggregation},
		}
		got := Transform(metricResult(), w)
		data, ok := got.(MetricData)
		if !ok {
			t.Fatalf("aggregation %q: got %T, want MetricData", tc.aggregation, got)
		}
		if data.Value != tc.want {
			t.Errorf("aggregation %q: got %v, want %v", tc.aggregation, data.Value, tc.want)
		}
	}
}

func TestMetricEmptyResult(t *testing.T) {
	empty := dbexec.Result{Columns: []string{"amount"}}
	for _, agg := range []string{"sum", "avg", "count", ""} {
		w := WidgetSpec{ChartType: ChartMetric, Config: WidgetConfig{Aggregation: agg}}
		data := Transform(empty, w).(MetricData)
		if data.Value != 0 {
			t.Errorf("aggregation %q on empty result: got %v, want 0", agg, data.Value)
		}
	}
}

func TestMetricUnknownFieldFallsBackToZero(t *testing.T) {
	w := WidgetSpec{
		ChartType: ChartMetric,
		Config:    WidgetConfig{Field: "no_such_column", Aggregation: "sum"},
	}
	data := Transform(metricResult(), w).(MetricData)
	if data.Value != 0 {
		t.Fatalf("got %v, want 0 for unresolvable field", data.Value)
	}
}

func TestPieTransform(t *testing.T) {
	result := dbexec.Result{
		Columns: []string{"region", "total"},
		Rows:    [][]any{{"east", 10}, {"west", 20}},
	}
	w := WidgetSpec{
		ChartType: ChartPie,
		Config:    WidgetConfig{Label: "region", Value: "total"},
	}

	got := Transform(result, w)
	want := []NameValue{{Name: "east", Value: 10}, {Name: "west", Value: 20}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestPiePositionalDefaults(t *testing.T) {
	result := dbexec.Result{
		Columns: []string{"status", "n"},
		Rows:    [][]any{{"paid", 5}},
	}
	w := WidgetSpec{ChartType: ChartDonut}

	got := Transform(result, w).([]NameValue)
	if len(got) != 1 || got[0].Name != "paid" || got[0].Value != 5 {
		t.Fatalf("got %+v", got)
	}
}

func TestSeriesTransform(t *testing.T) {
	result := dbexec.Result{
		Columns: []string{"month", "revenue"},
		Rows:    [][]any{{"Jan", 100}, {"Feb", 150}, {"Mar", nil}},
	}
	w := WidgetSpec{
		ID:        "w1",
		Title:     "Monthly Revenue",
		ChartType: ChartLine,
		Config:    WidgetConfig{XAxis: "month", YAxis: "revenue", Color: "#3366cc"},
	}

	got := Transform(result, w).(SeriesData)

	if !reflect.DeepEqual(got.XAxis, []string{"Jan", "Feb", "Mar"}) {
		t.Fatalf("xAxis = %v", got.XAxis)
	}
	if len(got.Series) != 1 {
		t.Fatalf("got %d series, want 1", len(got.Series))
	}
	s := got.Series[0]
	if s.Name != "revenue" {
		t.Errorf("series name = %q, want column name", s.Name)
	}
	if s.Color != "#3366cc" {
		t.Errorf("series color = %q", s.Color)
	}
	if !reflect.DeepEqual(s.Data, []float64{100, 150, 0}) {
		t.Errorf("series data = %v", s.Data)
	}
}

func TestSeriesUnknownRoleYieldsZeros(t *testing.T) {
	result := dbexec.Result{
		Columns: []string{"month", "revenue"},
		Rows:    [][]any{{"Jan", 100}},
	}
	w := WidgetSpec{
		Title:     "Broken",
		ChartType: ChartLine,
		Config:    WidgetConfig{XAxis: "nope", YAxis: "also_nope"},
	}

	got := Transform(result, w).(SeriesData)
	if got.XAxis[0] != "" {
		t.Errorf("label = %q, want empty for unresolved x role", got.XAxis[0])
	}
	if got.Series[0].Data[0] != 0 {
		t.Errorf("value = %v, want 0 for unresolved y role", got.Series[0].Data[0])
	}
	// The configured name does not resolve to a column, so it names the
	// series directly.
	if got.Series[0].Name != "also_nope" {
		t.Errorf("series name = %q, want configured y axis name", got.Series[0].Name)
	}
}

func TestBarTransformSwapsAxis(t *testing.T) {
	result := dbexec.Result{
		Columns: []string{"team", "wins"},
		Rows:    [][]any{{"red", 3}, {"blue", 7}},
	}
	w := WidgetSpec{ChartType: ChartBar}

	got := Transform(result, w).(BarData)
	if !reflect.DeepEqual(got.YAxis, []string{"red", "blue"}) {
		t.Fatalf("yAxis = %v", got.YAxis)
	}
	if !reflect.DeepEqual(got.Series[0].Data, []float64{3, 7}) {
		t.Fatalf("data = %v", got.Series[0].Data)
	}
}

func TestGaugeUsesFirstRowOnly(t *testing.T) {
	result := dbexec.Result{
		Columns: []string{"cpu"},
		Rows:    [][]any{{75.5}, {20.0}, {90.0}},
	}
	w := WidgetSpec{ChartType: ChartGauge, Config: WidgetConfig{Field: "cpu"}}

	data := Transform(result, w).(MetricData)
	if data.Value != 75.5 {
		t.Fatalf("got %v, want first row value", data.Value)
	}
}

func TestTableAndUnknownChartTypesPassThrough(t *testing.T) {
	result := dbexec.Result{
		Columns: []string{"a", "b"},
		Rows:    [][]any{{1, "x"}},
	}
	for _, ct := range []ChartType{ChartTable, ChartType("sparkline"), ChartType("")} {
		got := Transform(result, WidgetSpec{ChartType: ct})
		data, ok := got.(TableData)
		if !ok {
			t.Fatalf("chart type %q: got %T, want TableData", ct, got)
		}
		if !reflect.DeepEqual(data.Columns, result.Columns) || !reflect.DeepEqual(data.Rows, result.Rows) {
			t.Fatalf("chart type %q: result not passed through: %+v", ct, data)
		}
	}
}

func TestTransformEmptyResult(t *testing.T) {
	empty := dbexec.Result{}
	w := WidgetSpec{ChartType: ChartLine}

	got := Transform(empty, w).(SeriesData)
	if len(got.XAxis) != 0 || len(got.Series[0].Data) != 0 {
		t.Fatalf("got %+v, want empty series", got)
	}
}

func TestResolveRole(t *testing.T) {
	columns := []string{"region", "total"}

	if idx := resolveRole(columns, "", 1); idx != 1 {
		t.Errorf("empty name: got %d, want positional default", idx)
	}
	if idx := resolveRole(columns, "total", 0); idx != 1 {
		t.Errorf("named column: got %d, want 1", idx)
	}
	if idx := resolveRole(columns, "missing", 0); idx != -1 {
		t.Errorf("unknown name: got %d, want -1", idx)
	}
}

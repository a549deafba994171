package searchconsole

import (
	"slices"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	gsc "google.golang.org/api/searchconsole/v1"
)

// Metric names, in the column order the API reports them.
const (
	MetricClicks      = "clicks"
	MetricImpressions = "impressions"
	MetricCTR         = "ctr"
	MetricPosition    = "position"
)

// metricsFor returns the metric columns for a search type. Discover and
// Google News surfaces report no position.
func metricsFor(t SearchType) []string {
	if t == SearchTypeDiscover || t == SearchTypeGoogleNews {
		return []string{MetricClicks, MetricImpressions, MetricCTR}
	}
	return []string{MetricClicks, MetricImpressions, MetricCTR, MetricPosition}
}

// Row is one result record: one value per requested dimension followed by
// the standard metrics. Rows are immutable and support lookup both by
// column name and by position.
type Row struct {
	columns []string // shared with the owning report, never mutated
	values  []any
}

// Value returns the value at column position i, or false if i is out of
// range. Dimension values are strings; clicks and impressions are int64;
// ctr and position are float64.
func (r Row) Value(i int) (any, bool) {
	if i < 0 || i >= len(r.values) {
		return nil, false
	}
	return r.values[i], true
}

// Field returns the value for a column name, or false if the report has no
// such column.
func (r Row) Field(name string) (any, bool) {
	for i, c := range r.columns {
		if c == name {
			return r.values[i], true
		}
	}
	return nil, false
}

// Dimension returns the row's value for a dimension, or "" if the report
// was not broken down by it.
func (r Row) Dimension(d Dimension) string {
	if v, ok := r.Field(string(d)); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Clicks returns the click count.
func (r Row) Clicks() int64 {
	v, _ := r.Field(MetricClicks)
	n, _ := v.(int64)
	return n
}

// Impressions returns the impression count.
func (r Row) Impressions() int64 {
	v, _ := r.Field(MetricImpressions)
	n, _ := v.(int64)
	return n
}

// CTR returns the click-through rate in [0, 1].
func (r Row) CTR() float64 {
	v, _ := r.Field(MetricCTR)
	f, _ := v.(float64)
	return f
}

// Position returns the average position, or 0 for search types that do not
// report one.
func (r Row) Position() float64 {
	v, _ := r.Field(MetricPosition)
	f, _ := v.(float64)
	return f
}

// Map returns the row as a column-name-to-value mapping.
func (r Row) Map() map[string]any {
	out := make(map[string]any, len(r.columns))
	for i, c := range r.columns {
		out[c] = r.values[i]
	}
	return out
}

// equal compares two rows by column names and values.
func (r Row) equal(other Row) bool {
	return slices.Equal(r.columns, other.columns) && slices.Equal(r.values, other.values)
}

// Report is the materialised result of one query execution: an ordered,
// read-only sequence of rows plus the dimension and metric lists that
// define column semantics.
type Report struct {
	property   string
	dimensions []Dimension
	metrics    []string
	columns    []string
	rows       []Row
	complete   bool
}

// newReport creates an empty report shaped by the query's dimensions and
// search type.
func newReport(q Query) *Report {
	dims := slices.Clone(q.dimensions)
	metrics := metricsFor(q.searchType)

	columns := make([]string, 0, len(dims)+len(metrics))
	for _, d := range dims {
		columns = append(columns, string(d))
	}
	columns = append(columns, metrics...)

	return &Report{
		property:   q.property,
		dimensions: dims,
		metrics:    metrics,
		columns:    columns,
	}
}

// appendRows converts API rows into report rows, preserving order.
func (r *Report) appendRows(apiRows []*gsc.ApiDataRow) {
	for _, row := range apiRows {
		values := make([]any, 0, len(r.columns))
		for i := range r.dimensions {
			var key string
			if i < len(row.Keys) {
				key = row.Keys[i]
			}
			values = append(values, key)
		}
		for _, m := range r.metrics {
			switch m {
			case MetricClicks:
				values = append(values, int64(row.Clicks))
			case MetricImpressions:
				values = append(values, int64(row.Impressions))
			case MetricCTR:
				values = append(values, row.Ctr)
			case MetricPosition:
				values = append(values, row.Position)
			}
		}
		r.rows = append(r.rows, Row{columns: r.columns, values: values})
	}
}

// Property returns the site URL the report was fetched for.
func (r *Report) Property() string {
	return r.property
}

// Dimensions returns the dimension list the report is broken down by.
func (r *Report) Dimensions() []Dimension {
	return slices.Clone(r.dimensions)
}

// Metrics returns the metric column names.
func (r *Report) Metrics() []string {
	return slices.Clone(r.metrics)
}

// Columns returns dimension names followed by metric names, in column
// order.
func (r *Report) Columns() []string {
	return slices.Clone(r.columns)
}

// Rows returns the report's rows in API order.
func (r *Report) Rows() []Row {
	return slices.Clone(r.rows)
}

// Len returns the number of rows.
func (r *Report) Len() int {
	return len(r.rows)
}

// Row returns the row at index i, or false if i is out of range.
func (r *Report) Row(i int) (Row, bool) {
	if i < 0 || i >= len(r.rows) {
		return Row{}, false
	}
	return r.rows[i], true
}

// First returns the first row, or false for an empty report.
func (r *Report) First() (Row, bool) {
	return r.Row(0)
}

// Last returns the last row, or false for an empty report.
func (r *Report) Last() (Row, bool) {
	return r.Row(len(r.rows) - 1)
}

// Contains reports whether the report holds a row with the same columns
// and values.
func (r *Report) Contains(row Row) bool {
	for _, candidate := range r.rows {
		if candidate.equal(row) {
			return true
		}
	}
	return false
}

// Complete returns true when every available row (up to the requested
// limit) was fetched. It is false when a transport failure curtailed
// pagination.
func (r *Report) Complete() bool {
	return r.complete
}

// ToMaps returns the rows as an ordered sequence of column-name-to-value
// mappings.
func (r *Report) ToMaps() []map[string]any {
	out := make([]map[string]any, len(r.rows))
	for i, row := range r.rows {
		out[i] = row.Map()
	}
	return out
}

// DataFrame returns the report as a gota DataFrame with one column per
// entry in Columns. Dimension columns are strings, clicks and impressions
// integers, ctr and position floats.
func (r *Report) DataFrame() dataframe.DataFrame {
	cols := make([]series.Series, 0, len(r.columns))

	for i, d := range r.dimensions {
		values := make([]string, len(r.rows))
		for j, row := range r.rows {
			values[j], _ = row.values[i].(string)
		}
		cols = append(cols, series.New(values, series.String, string(d)))
	}

	for offset, m := range r.metrics {
		i := len(r.dimensions) + offset
		switch m {
		case MetricClicks, MetricImpressions:
			values := make([]int, len(r.rows))
			for j, row := range r.rows {
				n, _ := row.values[i].(int64)
				values[j] = int(n)
			}
			cols = append(cols, series.New(values, series.Int, m))
		default:
			values := make([]float64, len(r.rows))
			for j, row := range r.rows {
				values[j], _ = row.values[i].(float64)
			}
			cols = append(cols, series.New(values, series.Float, m))
		}
	}

	return dataframe.New(cols...)
}

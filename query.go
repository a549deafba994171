package searchconsole

import (
	"fmt"
	"slices"
	"time"

	gsc "google.golang.org/api/searchconsole/v1"
)

// MaxRowsPerRequest is the Search Analytics per-request row cap. Limits
// above it are served by fetching multiple pages in Get.
const MaxRowsPerRequest = 25000

// Dimension is a categorical axis along which performance data is broken
// down.
type Dimension string

// Supported dimensions.
const (
	DimensionQuery            Dimension = "query"
	DimensionPage             Dimension = "page"
	DimensionDate             Dimension = "date"
	DimensionCountry          Dimension = "country"
	DimensionDevice           Dimension = "device"
	DimensionSearchAppearance Dimension = "searchAppearance"
)

var validDimensions = map[Dimension]bool{
	DimensionQuery:            true,
	DimensionPage:             true,
	DimensionDate:             true,
	DimensionCountry:          true,
	DimensionDevice:           true,
	DimensionSearchAppearance: true,
}

// Operator compares a dimension value against a filter expression.
type Operator string

// Supported filter operators.
const (
	OperatorEquals         Operator = "equals"
	OperatorNotEquals      Operator = "notEquals"
	OperatorContains       Operator = "contains"
	OperatorNotContains    Operator = "notContains"
	OperatorIncludingRegex Operator = "includingRegex"
	OperatorExcludingRegex Operator = "excludingRegex"
)

var validOperators = map[Operator]bool{
	OperatorEquals:         true,
	OperatorNotEquals:      true,
	OperatorContains:       true,
	OperatorNotContains:    true,
	OperatorIncludingRegex: true,
	OperatorExcludingRegex: true,
}

// SearchType is the Google search surface a row of data pertains to.
type SearchType string

// Supported search types.
const (
	SearchTypeWeb        SearchType = "web"
	SearchTypeImage      SearchType = "image"
	SearchTypeVideo      SearchType = "video"
	SearchTypeNews       SearchType = "news"
	SearchTypeDiscover   SearchType = "discover"
	SearchTypeGoogleNews SearchType = "googleNews"
)

var validSearchTypes = map[SearchType]bool{
	SearchTypeWeb:        true,
	SearchTypeImage:      true,
	SearchTypeVideo:      true,
	SearchTypeNews:       true,
	SearchTypeDiscover:   true,
	SearchTypeGoogleNews: true,
}

// DataState selects between finalised historical data and fresh data that
// may still change.
type DataState string

// Supported data states.
const (
	DataStateFinal DataState = "final"
	DataStateAll   DataState = "all"
)

var validDataStates = map[DataState]bool{
	DataStateFinal: true,
	DataStateAll:   true,
}

// GroupType combines multiple filters within a filter group. The API
// currently supports no value other than "and".
type GroupType string

// GroupTypeAnd requires every filter in the group to match.
const GroupTypeAnd GroupType = "and"

// Filter restricts query results along one dimension.
type Filter struct {
	Dimension  Dimension
	Expression string
	Operator   Operator
	GroupType  GroupType
}

// Query accumulates Search Analytics parameters. It is an immutable value:
// every configuration method returns a derived Query and leaves the
// receiver untouched, so a partially built query can safely serve as the
// base for several derived queries.
//
// Invalid arguments are recorded on the derived Query and surface from
// Build, Execute or Get before any I/O; Err exposes them earlier. The
// first recorded error wins.
type Query struct {
	api      searchAnalytics
	property string

	dateRange  DateRange
	dimensions []Dimension
	filters    []Filter
	searchType SearchType
	dataState  DataState
	limit      int // total rows requested; negative means all available
	startRow   int64

	err error
}

// newQuery returns the root query for a property.
func newQuery(api searchAnalytics, property string) Query {
	return Query{
		api:        api,
		property:   property,
		searchType: SearchTypeWeb,
		dataState:  DataStateFinal,
		limit:      -1,
	}
}

// clone copies the slice-typed fields so derived queries never share
// mutable state with their base.
func (q Query) clone() Query {
	q.dimensions = slices.Clone(q.dimensions)
	q.filters = slices.Clone(q.filters)
	return q
}

// fail records the first configuration error on a derived query.
func (q Query) fail(err error) Query {
	out := q.clone()
	if out.err == nil {
		out.err = err
	}
	return out
}

// Err returns the first configuration error recorded on this query, if
// any. Build, Execute and Get return the same error.
func (q Query) Err() error {
	return q.err
}

// Property returns the site URL this query runs against.
func (q Query) Property() string {
	return q.property
}

// Range replaces the date range. start and stop accept ISO dates,
// "today" or "yesterday"; keywords resolve against the current clock at
// this call. The pair is normalised so start <= stop.
func (q Query) Range(start, stop string) Query {
	return q.resolveRange(time.Now(), start, stop, 0, 0)
}

// RangeOffset replaces the date range with one derived from start by the
// given offsets; see ResolveDateRange for offset semantics.
func (q Query) RangeOffset(start string, days, months int) Query {
	return q.resolveRange(time.Now(), start, "", days, months)
}

// RangeDates replaces the date range with literal dates. Only the calendar
// date of each argument is significant; the pair is normalised so start
// precedes stop.
func (q Query) RangeDates(start, stop time.Time) Query {
	out := q.clone()
	s, e := midnightUTC(start), midnightUTC(stop)
	if e.Before(s) {
		s, e = e, s
	}
	out.dateRange = DateRange{Start: s, End: e}
	return out
}

func (q Query) resolveRange(now time.Time, start, stop string, days, months int) Query {
	r, err := resolveDateRange(now, start, stop, days, months)
	if err != nil {
		return q.fail(err)
	}
	out := q.clone()
	out.dateRange = r
	return out
}

// Dimension replaces the dimension list. Order matters: it determines both
// column order and grouping granularity.
func (q Query) Dimension(dims ...Dimension) Query {
	for _, d := range dims {
		if !validDimensions[d] {
			return q.fail(fmt.Errorf("%w: %q", ErrInvalidDimension, d))
		}
	}
	out := q.clone()
	out.dimensions = slices.Clone(dims)
	return out
}

// Filter appends one dimension filter. Filters combine with "and"
// semantics; the API supports no other group type.
func (q Query) Filter(dim Dimension, expression string, op Operator) Query {
	if !validDimensions[dim] {
		return q.fail(fmt.Errorf("%w: unknown dimension %q", ErrInvalidFilter, dim))
	}
	if !validOperators[op] {
		return q.fail(fmt.Errorf("%w: unknown operator %q", ErrInvalidFilter, op))
	}
	out := q.clone()
	out.filters = append(out.filters, Filter{
		Dimension:  dim,
		Expression: expression,
		Operator:   op,
		GroupType:  GroupTypeAnd,
	})
	return out
}

// SearchType replaces the search surface the query reports on.
func (q Query) SearchType(t SearchType) Query {
	if !validSearchTypes[t] {
		return q.fail(fmt.Errorf("%w: %q", ErrInvalidSearchType, t))
	}
	out := q.clone()
	out.searchType = t
	return out
}

// DataState replaces the data freshness selector.
func (q Query) DataState(s DataState) Query {
	if !validDataStates[s] {
		return q.fail(fmt.Errorf("%w: %q", ErrInvalidDataState, s))
	}
	out := q.clone()
	out.dataState = s
	return out
}

// Limit sets the total number of rows to fetch. Values above
// MaxRowsPerRequest are served by multiple pages in Get. A query without
// an explicit limit fetches every available row.
func (q Query) Limit(n int) Query {
	return q.LimitWithOffset(n, 0)
}

// LimitWithOffset sets the total row count and the row to start from.
func (q Query) LimitWithOffset(n, start int) Query {
	if n < 0 {
		return q.fail(fmt.Errorf("%w: limit %d is negative", ErrInvalidRowLimit, n))
	}
	if start < 0 {
		return q.fail(fmt.Errorf("%w: start row %d is negative", ErrInvalidRowLimit, start))
	}
	out := q.clone()
	out.limit = n
	out.startRow = int64(start)
	return out
}

// Build renders the accumulated parameters into the wire-shape request
// consumed by the Search Analytics endpoint. The row limit is clamped to
// MaxRowsPerRequest; Get raises it back to the requested total by paging.
// Build never mutates the query and each call returns a fresh request.
func (q Query) Build() (*gsc.SearchAnalyticsQueryRequest, error) {
	if q.err != nil {
		return nil, q.err
	}
	if q.dateRange.IsZero() {
		return nil, fmt.Errorf("%w: date range not set", ErrInvalidDate)
	}

	req := &gsc.SearchAnalyticsQueryRequest{
		StartDate:  q.dateRange.Start.Format(dateLayout),
		EndDate:    q.dateRange.End.Format(dateLayout),
		SearchType: string(q.searchType),
		DataState:  string(q.dataState),
		StartRow:   q.startRow,
		RowLimit:   int64(q.pageSize()),
	}

	for _, d := range q.dimensions {
		req.Dimensions = append(req.Dimensions, string(d))
	}

	if len(q.filters) > 0 {
		group := &gsc.ApiDimensionFilterGroup{GroupType: string(GroupTypeAnd)}
		for _, f := range q.filters {
			group.Filters = append(group.Filters, &gsc.ApiDimensionFilter{
				Dimension:  string(f.Dimension),
				Expression: f.Expression,
				Operator:   string(f.Operator),
			})
		}
		req.DimensionFilterGroups = []*gsc.ApiDimensionFilterGroup{group}
	}

	return req, nil
}

// pageSize returns the row count for a single request.
func (q Query) pageSize() int {
	if q.limit < 0 || q.limit > MaxRowsPerRequest {
		return MaxRowsPerRequest
	}
	return q.limit
}

package searchconsole

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gsc "google.golang.org/api/searchconsole/v1"
)

// fakeAPI serves a fixed number of rows, honouring startRow and rowLimit
// the way the live endpoint does. failOn makes the nth call (1-based)
// return an error.
type fakeAPI struct {
	totalRows int
	calls     int
	failOn    int
	requests  []*gsc.SearchAnalyticsQueryRequest
}

func (f *fakeAPI) querySearchAnalytics(
	_ context.Context, _ string, req *gsc.SearchAnalyticsQueryRequest,
) (*gsc.SearchAnalyticsQueryResponse, error) {
	f.calls++
	f.requests = append(f.requests, req)

	if f.failOn > 0 && f.calls == f.failOn {
		return nil, fmt.Errorf("%w: simulated transport failure", ErrRateLimited)
	}

	resp := &gsc.SearchAnalyticsQueryResponse{ResponseAggregationType: "auto"}
	for i := req.StartRow; i < req.StartRow+req.RowLimit && i < int64(f.totalRows); i++ {
		resp.Rows = append(resp.Rows, &gsc.ApiDataRow{
			Keys:        []string{fmt.Sprintf("query-%d", i)},
			Clicks:      float64(i),
			Impressions: float64(i * 10),
			Ctr:         0.1,
			Position:    1.5,
		})
	}
	return resp, nil
}

func fakeQuery(api *fakeAPI) Query {
	q := newQuery(api, testProperty)
	return q.Range("2024-01-01", "2024-01-31").Dimension(DimensionQuery)
}

func TestGet_PagesUntilLimitSatisfied(t *testing.T) {
	// Two full pages of 25,000 then a short page of 10.
	api := &fakeAPI{totalRows: 60000}

	report, err := fakeQuery(api).Limit(50010).Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 50010, report.Len())
	assert.True(t, report.Complete())
	assert.Equal(t, 3, api.calls)

	assert.Equal(t, int64(0), api.requests[0].StartRow)
	assert.Equal(t, int64(MaxRowsPerRequest), api.requests[0].RowLimit)
	assert.Equal(t, int64(25000), api.requests[1].StartRow)
	assert.Equal(t, int64(50000), api.requests[2].StartRow)
	assert.Equal(t, int64(10), api.requests[2].RowLimit)

	// Pages are concatenated in API order.
	first, ok := report.First()
	require.True(t, ok)
	assert.Equal(t, "query-0", first.Dimension(DimensionQuery))
	last, ok := report.Last()
	require.True(t, ok)
	assert.Equal(t, "query-50009", last.Dimension(DimensionQuery))
}

func TestGet_StopsOnShortPage(t *testing.T) {
	// Only 50,010 rows exist; asking for more stops at exhaustion.
	api := &fakeAPI{totalRows: 50010}

	report, err := fakeQuery(api).Limit(100000).Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 50010, report.Len())
	assert.True(t, report.Complete())
	assert.Equal(t, 3, api.calls)
}

func TestGet_NoLimitFetchesEverything(t *testing.T) {
	api := &fakeAPI{totalRows: 30000}

	report, err := fakeQuery(api).Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 30000, report.Len())
	assert.True(t, report.Complete())
	assert.Equal(t, 2, api.calls)
}

func TestGet_ZeroLimitPerformsNoIO(t *testing.T) {
	api := &fakeAPI{totalRows: 100}

	report, err := fakeQuery(api).Limit(0).Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, report.Len())
	assert.True(t, report.Complete())
	assert.Equal(t, 0, api.calls)
}

func TestGet_StartOffsetIsForwarded(t *testing.T) {
	api := &fakeAPI{totalRows: 1000}

	report, err := fakeQuery(api).LimitWithOffset(10, 500).Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 10, report.Len())
	require.Equal(t, 1, api.calls)
	assert.Equal(t, int64(500), api.requests[0].StartRow)

	first, ok := report.First()
	require.True(t, ok)
	assert.Equal(t, "query-500", first.Dimension(DimensionQuery))
}

func TestGet_PartialReportOnTransportFailure(t *testing.T) {
	api := &fakeAPI{totalRows: 60000, failOn: 2}

	report, err := fakeQuery(api).Limit(50010).Get(context.Background())
	require.ErrorIs(t, err, ErrRateLimited)

	// The page fetched before the failure is preserved.
	require.NotNil(t, report)
	assert.Equal(t, MaxRowsPerRequest, report.Len())
	assert.False(t, report.Complete())
}

func TestGet_FailureOnFirstPage(t *testing.T) {
	api := &fakeAPI{totalRows: 100, failOn: 1}

	report, err := fakeQuery(api).Get(context.Background())
	require.ErrorIs(t, err, ErrRateLimited)
	assert.Nil(t, report)
}

func TestGet_ConfigurationErrorBeforeIO(t *testing.T) {
	api := &fakeAPI{totalRows: 100}

	_, err := fakeQuery(api).Dimension("keyword").Get(context.Background())
	assert.ErrorIs(t, err, ErrInvalidDimension)
	assert.Equal(t, 0, api.calls, "invalid queries must not reach the API")
}

func TestExecute_SinglePage(t *testing.T) {
	api := &fakeAPI{totalRows: 60000}

	report, err := fakeQuery(api).Limit(100000).Execute(context.Background())
	require.NoError(t, err)

	// Exactly one request, capped at the per-request limit.
	assert.Equal(t, 1, api.calls)
	assert.Equal(t, MaxRowsPerRequest, report.Len())
	assert.False(t, report.Complete(), "a full page means more data may remain")
}

func TestExecute_ShortPageIsComplete(t *testing.T) {
	api := &fakeAPI{totalRows: 42}

	report, err := fakeQuery(api).Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 42, report.Len())
	assert.True(t, report.Complete())
}

package searchconsole

import (
	"context"

	gsc "google.golang.org/api/searchconsole/v1"

	"github.com/admariner/google-searchconsole/internal/logger"
)

// searchAnalytics is the single API operation the query layer depends on.
// Account implements it over the real endpoint; tests substitute fakes.
type searchAnalytics interface {
	querySearchAnalytics(ctx context.Context, siteURL string, req *gsc.SearchAnalyticsQueryRequest) (*gsc.SearchAnalyticsQueryResponse, error)
}

// Execute issues exactly one request for the current page and returns a
// single-page Report. Most callers want Get, which pages through the full
// result set.
func (q Query) Execute(ctx context.Context) (*Report, error) {
	req, err := q.Build()
	if err != nil {
		return nil, err
	}

	resp, err := q.api.querySearchAnalytics(ctx, q.property, req)
	if err != nil {
		return nil, err
	}

	report := newReport(q)
	report.appendRows(resp.Rows)
	report.complete = int64(len(resp.Rows)) < req.RowLimit
	return report, nil
}

// Get fetches the full result set, issuing as many page requests as the
// requested row count demands and concatenating pages in API order. It
// stops when the API returns a short page (no more data) or when the
// requested total has been satisfied, whichever comes first.
//
// Transport errors are propagated without internal retries. If at least
// one page was already fetched, the partial Report is returned alongside
// the error with Complete() == false; retry policy belongs to the caller.
func (q Query) Get(ctx context.Context) (*Report, error) {
	if q.err != nil {
		return nil, q.err
	}

	report := newReport(q)
	remaining := q.limit
	startRow := q.startRow

	for {
		pageSize := MaxRowsPerRequest
		if remaining >= 0 && remaining < pageSize {
			pageSize = remaining
		}
		if pageSize == 0 {
			report.complete = true
			return report, nil
		}

		page := q
		page.limit = pageSize
		page.startRow = startRow

		req, err := page.Build()
		if err != nil {
			return nil, err
		}

		resp, err := q.api.querySearchAnalytics(ctx, q.property, req)
		if err != nil {
			if report.Len() > 0 {
				logger.Warn("pagination aborted after %d rows: %v", report.Len(), err)
				return report, err
			}
			return nil, err
		}

		report.appendRows(resp.Rows)
		logger.Debug("fetched page: property=%s startRow=%d rows=%d", q.property, startRow, len(resp.Rows))

		if len(resp.Rows) < pageSize {
			// Short page: the API has no more rows.
			report.complete = true
			return report, nil
		}
		if remaining >= 0 {
			remaining -= len(resp.Rows)
			if remaining <= 0 {
				report.complete = true
				return report, nil
			}
		}
		startRow += int64(pageSize)
	}
}

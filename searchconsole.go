// Package searchconsole is a typed client for the Google Search Console
// Search Analytics API. It layers a fluent immutable query builder,
// automatic pagination and tabular export on top of the generated
// google.golang.org/api/searchconsole/v1 client.
//
// Authentication is delegated entirely to the google.golang.org/api
// option mechanism: pass option.WithCredentialsFile, option.WithTokenSource
// or any other option.ClientOption to NewAccount.
//
//	account, err := searchconsole.NewAccount(ctx,
//		option.WithCredentialsFile("service-account.json"),
//		option.WithScopes(searchconsole.ScopeReadonly))
//	if err != nil { ... }
//
//	report, err := account.Property("https://example.com/").
//		Query().
//		Range("2024-01-01", "2024-01-31").
//		Dimension(searchconsole.DimensionQuery).
//		Get(ctx)
package searchconsole

import (
	"context"
	"errors"
	"fmt"

	gsc "google.golang.org/api/searchconsole/v1"
	"google.golang.org/api/option"
)

// OAuth scopes for the Search Console API.
const (
	// ScopeReadonly grants read-only access; sufficient for queries.
	ScopeReadonly = gsc.WebmastersReadonlyScope
	// ScopeFull grants read/write access to Search Console data.
	ScopeFull = gsc.WebmastersScope
)

// Account is an authenticated connection to the Search Console API. It is
// safe for concurrent use.
type Account struct {
	svc     *gsc.Service
	limiter *RateLimiter
}

// NewAccount creates an Account. Credentials come in through the standard
// client options; no OAuth flow is run here.
func NewAccount(ctx context.Context, opts ...option.ClientOption) (*Account, error) {
	svc, err := gsc.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create search console service: %w", err)
	}
	return &Account{
		svc:     svc,
		limiter: NewRateLimiter(DefaultRateLimit),
	}, nil
}

// Property binds a verified site by URL without performing I/O. For domain
// properties use the "sc-domain:example.com" form.
func (a *Account) Property(siteURL string) Property {
	return Property{account: a, SiteURL: siteURL}
}

// Properties lists the sites the authenticated account has access to.
func (a *Account) Properties(ctx context.Context) ([]Property, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := a.svc.Sites.List().Context(ctx).Do()
	if err != nil {
		return nil, wrapAPIError(err)
	}

	props := make([]Property, 0, len(resp.SiteEntry))
	for _, site := range resp.SiteEntry {
		props = append(props, Property{
			account:         a,
			SiteURL:         site.SiteUrl,
			PermissionLevel: site.PermissionLevel,
		})
	}
	return props, nil
}

// querySearchAnalytics runs one Search Analytics request through the rate
// limiter, mapping API errors to the package's sentinel errors. On a rate
// limit response the limiter backs off before the next request.
func (a *Account) querySearchAnalytics(
	ctx context.Context, siteURL string, req *gsc.SearchAnalyticsQueryRequest,
) (*gsc.SearchAnalyticsQueryResponse, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := a.svc.Searchanalytics.Query(siteURL, req).Context(ctx).Do()
	if err != nil {
		err = wrapAPIError(err)
		if errors.Is(err, ErrRateLimited) {
			a.limiter.RecordRateLimitError(0)
		}
		return nil, err
	}
	return resp, nil
}

// Property is one verified Search Console site.
type Property struct {
	account *Account

	// SiteURL identifies the property, e.g. "https://example.com/" or
	// "sc-domain:example.com".
	SiteURL string

	// PermissionLevel is the caller's access level, populated by
	// Account.Properties.
	PermissionLevel string
}

// Query returns the root of a fluent query chain against this property.
// The returned Query defaults to the web search type, final data state and
// no row limit.
func (p Property) Query() Query {
	return newQuery(p.account, p.SiteURL)
}

package searchconsole

import (
	"context"

	"golang.org/x/oauth2"
)

// TokenProvider supplies access tokens from the caller's own token
// management (keychains, refresh daemons, test fixtures).
type TokenProvider interface {
	// AccessToken returns a currently valid access token.
	AccessToken(ctx context.Context) (string, error)
}

// NewTokenSource adapts a TokenProvider to oauth2.TokenSource so it can be
// handed to NewAccount via option.WithTokenSource.
func NewTokenSource(ctx context.Context, provider TokenProvider) oauth2.TokenSource {
	return &tokenSourceAdapter{ctx: ctx, provider: provider}
}

type tokenSourceAdapter struct {
	ctx      context.Context
	provider TokenProvider
}

// Token implements oauth2.TokenSource. Called by the API client whenever
// it needs an access token.
func (t *tokenSourceAdapter) Token() (*oauth2.Token, error) {
	accessToken, err := t.provider.AccessToken(t.ctx)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}, nil
}

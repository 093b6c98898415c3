package bleemeo

import (
	"context"

	"golang.org/x/oauth2"
)

// TokenSource exposes the client's token management as an
// [oauth2.TokenSource], so libraries built on golang.org/x/oauth2 can
// share this client's tokens instead of running their own flow. The
// returned source refreshes through the client and stays coordinated
// with its token store.
func (c *Client) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &clientTokenSource{ctx: ctx, client: c}
}

type clientTokenSource struct {
	ctx    context.Context
	client *Client
}

func (s *clientTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.client.auth.currentToken(s.ctx)
	if err != nil {
		return nil, err
	}

	return &oauth2.Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       tok.ObtainedAt.Add(tok.ExpiresIn),
	}, nil
}

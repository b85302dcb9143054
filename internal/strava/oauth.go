package strava

import (
	"context"

	"golang.org/x/oauth2"
)

const (
	// Strava OAuth endpoints
	AuthURL  = "https://www.strava.com/oauth/authorize"
	TokenURL = "https://www.strava.com/oauth/token"
)

// OAuthConfig returns the client configuration for Strava's token endpoint.
// Strava wants the client credentials in the request body.
func OAuthConfig(clientID, clientSecret string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:   AuthURL,
			TokenURL:  TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
		Scopes: []string{"read,activity:read_all"},
	}
}

// TokenSource refreshes access tokens from refreshToken as they expire. An
// empty or expired accessToken is refreshed on first use.
func TokenSource(ctx context.Context, cfg *oauth2.Config, accessToken, refreshToken string) oauth2.TokenSource {
	return cfg.TokenSource(ctx, &oauth2.Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

package oauth2

import (
	"context"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// DiscoverEndpoint reads the issuer's OpenID provider metadata and returns its
// authorization and token endpoints. httpClient may be nil.
func DiscoverEndpoint(ctx context.Context, httpClient *http.Client, issuer string) (oauth2.Endpoint, error) {
	if httpClient != nil {
		ctx = oidc.ClientContext(ctx, httpClient)
	}

	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return oauth2.Endpoint{}, fmt.Errorf("failed to discover provider %s: %w", issuer, err)
	}

	ep := provider.Endpoint()
	if ep.AuthURL == "" || ep.TokenURL == "" {
		return oauth2.Endpoint{}, fmt.Errorf("provider %s does not advertise authorization and token endpoints", issuer)
	}
	return ep, nil
}

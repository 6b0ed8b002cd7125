package oauth2

import (
	"fmt"
	"net/url"
	"strings"
)

// BuildAuthorizationURL appends client_id, response_type=code, redirect_uri and the
// extra params, in that order, to cfg.AuthURL. A query already present on AuthURL is kept.
func BuildAuthorizationURL(cfg ProviderConfig) (string, error) {
	u, err := url.Parse(cfg.AuthURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse auth url: %w", err)
	}

	pairs := make([]string, 0, 3+len(cfg.ExtraAuthParams))
	if u.RawQuery != "" {
		pairs = append(pairs, u.RawQuery)
	}
	pairs = append(pairs,
		queryPair("client_id", cfg.ClientID),
		queryPair("response_type", "code"),
		queryPair("redirect_uri", cfg.RedirectURI),
	)
	for _, p := range cfg.ExtraAuthParams {
		pairs = append(pairs, queryPair(p.Key, p.Value))
	}

	// url.Values.Encode sorts keys; providers see the params in insertion order instead
	u.RawQuery = strings.Join(pairs, "&")
	return u.String(), nil
}

func queryPair(key, value string) string {
	return url.QueryEscape(key) + "=" + url.QueryEscape(value)
}

package oauth2

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
)

var ErrInvalidProvider = errors.New("invalid provider config")

// ExtraParam is one additional query parameter appended to the authorization URL
type ExtraParam struct {
	Key   string
	Value string
}

// ProviderConfig describes a single authorization server registration.
// It is treated as immutable once handed to a Flow.
type ProviderConfig struct {
	Name            string
	ClientID        string
	ClientSecret    string
	AuthURL         string
	TokenURL        string
	RedirectURI     string
	ExtraAuthParams []ExtraParam
}

// ParseExtraParams splits "a=1&b=2" into ordered pairs.
// Tokens that do not contain exactly one '=' are dropped.
func ParseExtraParams(raw string) []ExtraParam {
	if raw == "" {
		return nil
	}

	var params []ExtraParam
	for _, kv := range strings.Split(raw, "&") {
		parts := strings.Split(kv, "=")
		if len(parts) != 2 {
			continue
		}
		params = append(params, ExtraParam{Key: parts[0], Value: parts[1]})
	}
	return params
}

// WithEndpoint fills blank AuthURL/TokenURL from a discovered endpoint
func (p ProviderConfig) WithEndpoint(ep oauth2.Endpoint) ProviderConfig {
	if p.AuthURL == "" {
		p.AuthURL = ep.AuthURL
	}
	if p.TokenURL == "" {
		p.TokenURL = ep.TokenURL
	}
	p.ExtraAuthParams = append([]ExtraParam(nil), p.ExtraAuthParams...)
	return p
}

// Validate checks the fields a flow cannot run without. URL schemes are not checked.
func (p ProviderConfig) Validate() error {
	var missing []string
	if p.Name == "" {
		missing = append(missing, "name")
	}
	if p.ClientID == "" {
		missing = append(missing, "client_id")
	}
	if p.AuthURL == "" {
		missing = append(missing, "auth_url")
	}
	if p.TokenURL == "" {
		missing = append(missing, "token_url")
	}
	if p.RedirectURI == "" {
		missing = append(missing, "redirect_uri")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidProvider, strings.Join(missing, ", "))
	}
	return nil
}

package oauth2

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

var ErrNotSuccess = errors.New("result is not a successful token response")

// Status tags the variant held by a Result
type Status string

const (
	StatusSuccess   Status = "success"
	StatusCancelled Status = "cancelled"
	StatusHTTPError Status = "http_error"
	StatusFailure   Status = "failure"
)

// Result is the outcome of one authorization code flow.
//
// Which fields are set depends on Status:
//   - success: Body holds the raw token response
//   - cancelled: Error (and maybe ErrorDescription) hold what the provider sent on the redirect
//   - http_error: StatusCode and the raw error Body, empty when unreadable
//   - failure: Exception describes the transport or read error; Body may hold a partial response
type Result struct {
	Status           Status `json:"status"`
	Body             string `json:"body,omitempty"`
	StatusCode       int    `json:"status_code,omitempty"`
	Error            string `json:"error,omitempty"`
	ErrorDescription string `json:"error_description,omitempty"`
	Exception        string `json:"ex,omitempty"`
	TokenURL         string `json:"url,omitempty"`
}

func (r Result) OK() bool {
	return r.Status == StatusSuccess
}

type tokenResponse struct {
	AccessToken  string      `json:"access_token"`
	TokenType    string      `json:"token_type"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    json.Number `json:"expires_in"`
}

// Token decodes a success body as an RFC 6749 §5.1 JSON token response.
// Fields outside the standard set stay reachable through Token.Extra.
func (r Result) Token() (*oauth2.Token, error) {
	if !r.OK() {
		return nil, fmt.Errorf("%w: status %s", ErrNotSuccess, r.Status)
	}

	var resp tokenResponse
	if err := json.Unmarshal([]byte(r.Body), &resp); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if resp.AccessToken == "" {
		return nil, errors.New("no access token in response")
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(r.Body), &raw); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}

	tok := &oauth2.Token{
		AccessToken:  resp.AccessToken,
		TokenType:    resp.TokenType,
		RefreshToken: resp.RefreshToken,
	}
	if resp.ExpiresIn != "" {
		secs, err := resp.ExpiresIn.Int64()
		if err != nil {
			return nil, fmt.Errorf("invalid expires_in %q: %w", resp.ExpiresIn, err)
		}
		if secs > 0 {
			tok.ExpiresIn = secs
			tok.Expiry = time.Now().Add(time.Duration(secs) * time.Second)
		}
	}

	return tok.WithExtra(raw), nil
}

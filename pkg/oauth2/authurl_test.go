package oauth2

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAuthorizationURL_RequiredParams(t *testing.T) {
	authURL, err := BuildAuthorizationURL(testProvider())
	require.NoError(t, err)

	u, err := url.Parse(authURL)
	require.NoError(t, err)

	assert.Equal(t, "provider.test", u.Host)
	assert.Equal(t, "/oauth/authorize", u.Path)

	q := u.Query()
	assert.Equal(t, []string{"client-123"}, q["client_id"])
	assert.Equal(t, []string{"code"}, q["response_type"])
	assert.Equal(t, []string{testRedirectURI}, q["redirect_uri"])
	assert.Len(t, q, 3)
}

func TestBuildAuthorizationURL_ExtraParamsInOrder(t *testing.T) {
	cfg := testProvider()
	cfg.ExtraAuthParams = ParseExtraParams("scope=activity&approval_prompt=force&state=xyz")

	authURL, err := BuildAuthorizationURL(cfg)
	require.NoError(t, err)

	u, err := url.Parse(authURL)
	require.NoError(t, err)

	keys := make([]string, 0)
	for _, pair := range strings.Split(u.RawQuery, "&") {
		keys = append(keys, strings.SplitN(pair, "=", 2)[0])
	}
	assert.Equal(t, []string{"client_id", "response_type", "redirect_uri", "scope", "approval_prompt", "state"}, keys)

	q := u.Query()
	assert.Equal(t, []string{"activity"}, q["scope"])
	assert.Equal(t, []string{"force"}, q["approval_prompt"])
	assert.Equal(t, []string{"xyz"}, q["state"])
}

func TestBuildAuthorizationURL_MalformedExtraPairsDropped(t *testing.T) {
	cfg := testProvider()
	cfg.ExtraAuthParams = ParseExtraParams("a=1&bad&c=3")

	authURL, err := BuildAuthorizationURL(cfg)
	require.NoError(t, err)

	u, err := url.Parse(authURL)
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, []string{"1"}, q["a"])
	assert.Equal(t, []string{"3"}, q["c"])
	assert.NotContains(t, q, "bad")
	assert.Len(t, q, 5)
}

func TestBuildAuthorizationURL_KeepsExistingQuery(t *testing.T) {
	cfg := testProvider()
	cfg.AuthURL = "https://provider.test/authorize?tenant=acme"

	authURL, err := BuildAuthorizationURL(cfg)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(authURL, "https://provider.test/authorize?tenant=acme&client_id=client-123&"))
}

func TestBuildAuthorizationURL_EscapesValues(t *testing.T) {
	cfg := testProvider()
	cfg.ExtraAuthParams = []ExtraParam{{Key: "scope", Value: "read write"}}

	authURL, err := BuildAuthorizationURL(cfg)
	require.NoError(t, err)

	assert.Contains(t, authURL, "redirect_uri=http%3A%2F%2Fapp.test%2Fauth%2Fcallback%2Ftest")
	assert.Contains(t, authURL, "scope=read+write")
}

func TestBuildAuthorizationURL_UnparseableAuthURL(t *testing.T) {
	cfg := testProvider()
	cfg.AuthURL = "://missing-scheme"

	_, err := BuildAuthorizationURL(cfg)
	assert.Error(t, err)
}

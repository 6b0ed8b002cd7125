package oauth2

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"authflow/pkg/logger"
)

func setupTokenServer(t *testing.T, handler http.HandlerFunc) ProviderConfig {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := testProvider()
	cfg.TokenURL = server.URL + "/oauth/token"
	return cfg
}

func TestExchange_SendsFormAndReturnsRawBody(t *testing.T) {
	var form url.Values
	cfg := setupTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())
		form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"access_token":"X"}`)
	})

	ex := NewTokenExchanger(nil, logger.Nop())
	res := ex.Exchange(context.Background(), cfg, "ABC123")

	assert.Equal(t, Result{
		Status:     StatusSuccess,
		Body:       `{"access_token":"X"}`,
		StatusCode: http.StatusOK,
		TokenURL:   cfg.TokenURL,
	}, res)

	assert.Equal(t, "ABC123", form.Get("code"))
	assert.Equal(t, "client-123", form.Get("client_id"))
	assert.Equal(t, "secret-456", form.Get("client_secret"))
	assert.Equal(t, "authorization_code", form.Get("grant_type"))
	assert.Equal(t, testRedirectURI, form.Get("redirect_uri"))
	assert.Len(t, form, 5)
}

func TestExchange_Non2xxCarriesErrorBody(t *testing.T) {
	cfg := setupTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":"invalid_grant"}`)
	})

	res := NewTokenExchanger(nil, logger.Nop()).Exchange(context.Background(), cfg, "ABC123")

	assert.False(t, res.OK())
	assert.Equal(t, StatusHTTPError, res.Status)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, `{"error":"invalid_grant"}`, res.Body)
}

func TestExchange_Non2xxWithEmptyBody(t *testing.T) {
	cfg := setupTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	res := NewTokenExchanger(nil, logger.Nop()).Exchange(context.Background(), cfg, "ABC123")

	assert.Equal(t, StatusHTTPError, res.Status)
	assert.Equal(t, "", res.Body)
}

func TestExchange_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	cfg := testProvider()
	cfg.TokenURL = server.URL + "/oauth/token"
	server.Close()

	res := NewTokenExchanger(nil, logger.Nop()).Exchange(context.Background(), cfg, "ABC123")

	assert.Equal(t, StatusFailure, res.Status)
	assert.NotEmpty(t, res.Exception)
	assert.Empty(t, res.Body)
}

func TestExchange_MalformedTokenURL(t *testing.T) {
	cfg := testProvider()
	cfg.TokenURL = "://nope"

	res := NewTokenExchanger(nil, logger.Nop()).Exchange(context.Background(), cfg, "ABC123")

	assert.Equal(t, StatusFailure, res.Status)
	assert.Contains(t, res.Exception, "missing protocol scheme")
}

type countingBody struct {
	r      io.Reader
	closes atomic.Int32
}

func (b *countingBody) Read(p []byte) (int, error) { return b.r.Read(p) }
func (b *countingBody) Close() error {
	b.closes.Add(1)
	return nil
}

type failingReader struct {
	data []byte
	sent bool
}

func (f *failingReader) Read(p []byte) (int, error) {
	if !f.sent {
		f.sent = true
		return copy(p, f.data), nil
	}
	return 0, errors.New("connection reset by peer")
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestExchange_BodyClosedExactlyOnce(t *testing.T) {
	tests := []struct {
		name   string
		status int
		reader io.Reader
		want   Status
	}{
		{name: "success", status: http.StatusOK, reader: strings.NewReader(`{"access_token":"X"}`), want: StatusSuccess},
		{name: "http error", status: http.StatusBadRequest, reader: strings.NewReader(`bad`), want: StatusHTTPError},
		{name: "read failure on success", status: http.StatusOK, reader: &failingReader{data: []byte(`{"access`)}, want: StatusFailure},
		{name: "read failure on error", status: http.StatusInternalServerError, reader: &failingReader{data: []byte(`oops`)}, want: StatusHTTPError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := &countingBody{r: tt.reader}
			client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
				return &http.Response{
					StatusCode: tt.status,
					Status:     http.StatusText(tt.status),
					Body:       body,
					Header:     make(http.Header),
					Request:    r,
				}, nil
			})}

			res := NewTokenExchanger(client, logger.Nop()).Exchange(context.Background(), testProvider(), "ABC123")

			assert.Equal(t, tt.want, res.Status)
			assert.Equal(t, int32(1), body.closes.Load())
		})
	}
}

func TestExchange_ReadFailureKeepsPartialBody(t *testing.T) {
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(&failingReader{data: []byte(`{"access`)}),
			Header:     make(http.Header),
			Request:    r,
		}, nil
	})}

	res := NewTokenExchanger(client, logger.Nop()).Exchange(context.Background(), testProvider(), "ABC123")

	assert.Equal(t, StatusFailure, res.Status)
	assert.Equal(t, `{"access`, res.Body)
	assert.Contains(t, res.Exception, "connection reset by peer")
}

package main

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"net/url"
	"sync"
)

type issuedCode struct {
	clientID    string
	redirectURI string
}

// codeStore hands out single-use authorization codes
type codeStore struct {
	mu    sync.Mutex
	codes map[string]issuedCode
}

func newCodeStore() *codeStore {
	return &codeStore{codes: make(map[string]issuedCode)}
}

func randomToken() string {
	buf := make([]byte, 12)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func (s *codeStore) issue(clientID, redirectURI string) string {
	code := randomToken()

	s.mu.Lock()
	s.codes[code] = issuedCode{clientID: clientID, redirectURI: redirectURI}
	s.mu.Unlock()
	return code
}

func (s *codeStore) redeem(code string) (issuedCode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	issued, ok := s.codes[code]
	delete(s.codes, code)
	return issued, ok
}

// AuthorizeHandler approves every request immediately and redirects back with a code.
// Pass deny=1 to get error=access_denied instead.
func AuthorizeHandler(codes *codeStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		if q.Get("response_type") != "code" {
			http.Error(w, "unsupported response_type", http.StatusBadRequest)
			return
		}
		redirectURI := q.Get("redirect_uri")
		target, err := url.Parse(redirectURI)
		if err != nil || !target.IsAbs() {
			http.Error(w, "invalid redirect_uri", http.StatusBadRequest)
			return
		}

		params := target.Query()
		if q.Get("deny") == "1" {
			params.Set("error", "access_denied")
			params.Set("error_description", "The user denied the request")
		} else {
			params.Set("code", codes.issue(q.Get("client_id"), redirectURI))
		}
		if state := q.Get("state"); state != "" {
			params.Set("state", state)
		}
		target.RawQuery = params.Encode()

		http.Redirect(w, r, target.String(), http.StatusFound)
	}
}

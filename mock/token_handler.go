package main

import (
	"encoding/json"
	"net/http"
	"time"
)

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope,omitempty"`
}

type TokenError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// TokenHandler redeems codes issued by AuthorizeHandler. Each code works once.
func TokenHandler(codes *codeStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseForm(); err != nil {
			writeTokenError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}

		if r.PostForm.Get("grant_type") != "authorization_code" {
			writeTokenError(w, http.StatusBadRequest, "unsupported_grant_type", "")
			return
		}

		issued, ok := codes.redeem(r.PostForm.Get("code"))
		if !ok {
			writeTokenError(w, http.StatusBadRequest, "invalid_grant", "Authorization code is invalid or already used")
			return
		}
		if issued.clientID != r.PostForm.Get("client_id") || issued.redirectURI != r.PostForm.Get("redirect_uri") {
			writeTokenError(w, http.StatusBadRequest, "invalid_grant", "client_id or redirect_uri mismatch")
			return
		}
		if r.PostForm.Get("client_secret") == "" {
			writeTokenError(w, http.StatusUnauthorized, "invalid_client", "")
			return
		}

		// Simulate provider latency
		time.Sleep(50 * time.Millisecond)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(TokenResponse{
			AccessToken:  randomToken(),
			TokenType:    "Bearer",
			ExpiresIn:    3600,
			RefreshToken: randomToken(),
		})
	}
}

func writeTokenError(w http.ResponseWriter, status int, code, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(TokenError{Error: code, ErrorDescription: description})
}

package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
)

// Local stand-in for an OAuth2 provider. Point OAUTH2_AUTH_URL at
// http://localhost:<port>/oauth/authorize and OAUTH2_TOKEN_URL at
// http://localhost:<port>/oauth/token.
func main() {
	// Default port
	port := "8081"

	// Check if port is provided as command line argument
	if len(os.Args) > 1 {
		port = os.Args[1]
	}

	codes := newCodeStore()

	http.HandleFunc("/oauth/authorize", AuthorizeHandler(codes))
	http.HandleFunc("/oauth/token", TokenHandler(codes))

	addr := fmt.Sprintf(":%s", port)
	fmt.Printf("Go Mock OAuth2 Server running on port %s...\n", port)
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatal(err)
	}
}

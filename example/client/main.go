package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Demo client for the token issuer: requests tokens with the
// client_credentials and password grants against the demo data seeded by
// cmd/server, then verifies the access token signature against the
// published JWKS.
func main() {
	ctx := context.Background()
	baseURL := env("ISSUER_BASE_URL", "http://localhost:8080")
	tokenURL := baseURL + "/oauth2/token"

	// Machine-to-machine: client_credentials grant.
	machineConfig := clientcredentials.Config{
		ClientID:     env("ISSUER_M2M_CLIENT_ID", "m2m"),
		ClientSecret: env("ISSUER_M2M_CLIENT_SECRET", "secret"),
		TokenURL:     tokenURL,
		Scopes:       []string{"api1"},
	}
	machineToken, err := machineConfig.Token(ctx)
	if err != nil {
		log.Fatalf("client_credentials token request: %v", err)
	}
	fmt.Printf("client_credentials access_token:\n%s\n\n", machineToken.AccessToken)

	// Resource-owner password grant.
	userConfig := &oauth2.Config{
		ClientID:     env("ISSUER_RO_CLIENT_ID", "roclient"),
		ClientSecret: env("ISSUER_RO_CLIENT_SECRET", "secret"),
		Endpoint:     oauth2.Endpoint{TokenURL: tokenURL},
		Scopes:       []string{"api1"},
	}
	userToken, err := userConfig.PasswordCredentialsToken(ctx, env("ISSUER_USERNAME", "bob"), env("ISSUER_PASSWORD", "bob"))
	if err != nil {
		log.Fatalf("password token request: %v", err)
	}
	fmt.Printf("password access_token:\n%s\n\n", userToken.AccessToken)
	if refresh := userToken.RefreshToken; refresh != "" {
		fmt.Printf("refresh_token: %s\n\n", refresh)
	}

	// Verify the signature against the issuer's JWKS.
	keySet := oidc.NewRemoteKeySet(ctx, baseURL+"/.well-known/jwks.json")
	payload, err := keySet.VerifySignature(ctx, userToken.AccessToken)
	if err != nil {
		log.Fatalf("access token signature verification: %v", err)
	}

	var tokenClaims map[string]any
	if err := json.Unmarshal(payload, &tokenClaims); err != nil {
		log.Fatalf("decoding token claims: %v", err)
	}
	pretty, _ := json.MarshalIndent(tokenClaims, "", "  ")
	fmt.Printf("verified claims:\n%s\n", pretty)
}

func env(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

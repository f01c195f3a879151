package server

import (
	"encoding/json"
	"net/http"

	"github.com/jrsteele09/go-token-issuer/oauth2"
	"github.com/jrsteele09/go-token-issuer/token"
)

// JWKSHandler serves the public signing keys for token verification.
// Only asymmetric signers publish keys.
func (s *Server) JWKSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		keyPairSigner, ok := s.signer.(*token.KeyPairSigner)
		if !ok {
			http.Error(w, "JWKS not available for symmetric signing", http.StatusNotFound)
			return
		}

		jwks, err := keyPairSigner.GetJWKS()
		if err != nil {
			s.logger.Error().Err(err).Msg("failed building JWKS")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", contentTypeJSON)
		_ = json.NewEncoder(w).Encode(jwks)
	}
}

// DiscoveryHandler serves a minimal OIDC discovery document: enough for a
// client library to find the token endpoint and the signing keys.
func (s *Server) DiscoveryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"issuer":         s.issuer,
			"token_endpoint": s.issuer + RouteToken,
			"jwks_uri":       s.issuer + RouteWellKnownJWKS,

			"grant_types_supported": []string{
				string(oauth2.AuthorizationCodeGrant),
				string(oauth2.ClientCredentialsGrant),
				string(oauth2.PasswordGrant),
				string(oauth2.RefreshTokenGrant),
			},
			"token_endpoint_auth_methods_supported": []string{
				"client_secret_post",
				"client_secret_basic",
				"none",
			},
			"id_token_signing_alg_values_supported": []string{"RS256"},
			"code_challenge_methods_supported":      []string{"S256", "plain"},
		}

		w.Header().Set("Content-Type", contentTypeJSON)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

package oauth2

// Parameter names for grant-specific values carried in TokenRequest.Params.
const (
	ParamUsername     = "username"
	ParamPassword     = "password"
	ParamCode         = "code"
	ParamCodeVerifier = "code_verifier"
	ParamRefreshToken = "refresh_token"
)

// TokenRequest holds the parsed parameters of an OAuth2 token request.
// This represents the request body sent to the /token endpoint, after
// form decoding. A TokenRequest is never mutated once received.
type TokenRequest struct {
	// GrantType selects the grant variant. Unregistered values (including
	// unregistered extension grant names) fail with unsupported_grant_type.
	GrantType GrantType

	// ClientID identifies the OAuth2 client making the request.
	// Required: Yes (for all grant types)
	ClientID string

	// ClientSecret is the secret credential for confidential clients.
	// Required: Yes for confidential clients, No for public clients
	// Security: Never log or expose this value
	ClientSecret string

	// Scopes is the ordered list of requested scopes. Order is preserved
	// through scope resolution so the issued "scope" claim is deterministic.
	Scopes []string

	// Params carries the grant-specific parameters: username/password for
	// the password grant, code/code_verifier for authorization_code,
	// refresh_token for refresh, or arbitrary parameters for extension
	// grants.
	Params map[string]string
}

// Param returns the named grant-specific parameter, or "" when absent.
func (r *TokenRequest) Param(name string) string {
	if r.Params == nil {
		return ""
	}
	return r.Params[name]
}

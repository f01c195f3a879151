package oauth2

// GrantType represents the OAuth 2.0 grant type used at the token endpoint.
// Determines what credentials are required to obtain tokens.
type GrantType string

const (
	// AuthorizationCodeGrant exchanges an authorization code for tokens.
	// Used in: Standard Authorization Code Flow
	// Token request includes: code, client_id, client_secret, code_verifier (if PKCE)
	// Returns: access_token, id_token, refresh_token (if requested)
	AuthorizationCodeGrant GrantType = "authorization_code"

	// ClientCredentialsGrant allows machine-to-machine authentication.
	// Used in: Backend service authentication (no user context)
	// Token request includes: client_id, client_secret, scope
	// Returns: access_token (no refresh_token or id_token)
	ClientCredentialsGrant GrantType = "client_credentials"

	// PasswordGrant exchanges resource-owner credentials for tokens.
	// Token request includes: username, password, client credentials, scope
	// The username/password check is delegated to a credential validator.
	PasswordGrant GrantType = "password"

	// RefreshTokenGrant exchanges a refresh token for new tokens.
	// Token request includes: refresh_token, client_id, client_secret
	// Returns: new access_token and, depending on client configuration, a
	// rotated refresh_token
	RefreshTokenGrant GrantType = "refresh_token"
)

// TokenTypeBearer is the only token type this server issues.
const TokenTypeBearer = "Bearer"

// ErrorCode is the closed enumeration of protocol error codes a token
// response can carry. Values follow RFC 6749 §5.2, plus internal_error for
// collaborator failures that are not protocol violations.
type ErrorCode string

const (
	ErrorInvalidClient        ErrorCode = "invalid_client"
	ErrorInvalidGrant         ErrorCode = "invalid_grant"
	ErrorInvalidScope         ErrorCode = "invalid_scope"
	ErrorUnsupportedGrantType ErrorCode = "unsupported_grant_type"
	ErrorUnauthorizedClient   ErrorCode = "unauthorized_client"
	ErrorInternal             ErrorCode = "internal_error"
)

// Authentication method reference values carried in the "amr" claim.
const (
	AMRPassword = "password" // resource-owner password grant
	AMRPwd      = "pwd"      // interactive login behind an authorization code
	AMRClient   = "client"   // client-credentials, no subject
	AMRCustom   = "custom"   // default for extension grants
)

// CodeMethodType represents the PKCE (Proof Key for Code Exchange)
// challenge method binding an authorization code to the client that
// requested it.
type CodeMethodType string

const (
	// CodeMethodTypeS256 indicates SHA-256 hashing is used for the code challenge.
	// Client sends: code_challenge = BASE64URL(SHA256(code_verifier))
	// Server validates: SHA256(provided code_verifier) == stored code_challenge
	CodeMethodTypeS256 CodeMethodType = "S256"

	// CodeMethodTypeNone (labeled "plain") means no hashing, code_verifier sent directly.
	// Server validates: provided code_verifier == stored code_challenge
	CodeMethodTypeNone CodeMethodType = "plain"
)

// DescInvalidCredential is the error_description returned for a failed
// resource-owner credential check. The same value is returned whether the
// username was unknown or the password wrong, so responses cannot be used
// for user enumeration.
const DescInvalidCredential = "invalid_credential"

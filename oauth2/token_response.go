package oauth2

import "encoding/json"

// Reserved response field names. A custom response hook may add arbitrary
// top-level fields, but never displace these.
const (
	FieldAccessToken      = "access_token"
	FieldIDToken          = "id_token"
	FieldRefreshToken     = "refresh_token"
	FieldTokenType        = "token_type"
	FieldExpiresIn        = "expires_in"
	FieldScope            = "scope"
	FieldError            = "error"
	FieldErrorDescription = "error_description"
)

var reservedFields = map[string]struct{}{
	FieldAccessToken:      {},
	FieldIDToken:          {},
	FieldRefreshToken:     {},
	FieldTokenType:        {},
	FieldExpiresIn:        {},
	FieldScope:            {},
	FieldError:            {},
	FieldErrorDescription: {},
}

// Response represents the body returned from the token endpoint for all
// grant types (RFC 6749 §5). A Response is success-shaped or failure-shaped,
// never a mix: MarshalJSON emits the token fields only when no error code is
// set, and the error fields only when one is. expires_in is omitted entirely
// on failure rather than written as zero.
type Response struct {
	// AccessToken is the signed token used to access protected resources.
	// Usage: Include in Authorization header: "Bearer <access_token>"
	AccessToken string

	// IDToken is the OpenID Connect identity token. Only present when the
	// grant is user-centric and the client asked for one.
	IDToken string

	// RefreshToken is an opaque token used to obtain new access tokens.
	// Security: stored by the caller, rotates per client configuration.
	RefreshToken string

	// TokenType is always "Bearer" on success.
	TokenType string

	// ExpiresIn is the remaining lifetime of the access token in seconds.
	ExpiresIn int

	// Scope is the space-separated list of granted scopes.
	Scope string

	// ErrorCode and ErrorDescription form the failure shape. When ErrorCode
	// is set every success field above is suppressed.
	ErrorCode        ErrorCode
	ErrorDescription string

	// Custom holds extra top-level fields contributed by a response hook.
	// Reserved protocol fields in this map are ignored during marshalling.
	Custom map[string]any
}

// NewErrorResponse builds a failure-shaped response from a ValidationFailure.
func NewErrorResponse(failure *ValidationFailure) *Response {
	return &Response{ErrorCode: failure.Code, ErrorDescription: failure.Description}
}

// IsError reports whether the response is failure-shaped.
func (r *Response) IsError() bool {
	return r.ErrorCode != ""
}

// MarshalJSON flattens the response into the wire shape, merging custom
// fields additively. On failure only error, error_description and
// non-reserved custom fields appear.
func (r *Response) MarshalJSON() ([]byte, error) {
	body := make(map[string]any, 8+len(r.Custom))

	if r.IsError() {
		body[FieldError] = string(r.ErrorCode)
		body[FieldErrorDescription] = r.ErrorDescription
	} else {
		body[FieldAccessToken] = r.AccessToken
		body[FieldTokenType] = r.TokenType
		body[FieldExpiresIn] = r.ExpiresIn
		if r.IDToken != "" {
			body[FieldIDToken] = r.IDToken
		}
		if r.RefreshToken != "" {
			body[FieldRefreshToken] = r.RefreshToken
		}
		if r.Scope != "" {
			body[FieldScope] = r.Scope
		}
	}

	for k, v := range r.Custom {
		if _, reserved := reservedFields[k]; reserved {
			continue
		}
		body[k] = v
	}

	return json.Marshal(body)
}

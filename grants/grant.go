package grants

import (
	"time"

	"github.com/jrsteele09/go-token-issuer/oauth2"
)

// Keys for grant-specific extra data consumed by downstream stages.
const (
	// ExtraRotatedRefreshToken carries the replacement refresh-token value
	// produced by store rotation during a refresh grant.
	ExtraRotatedRefreshToken = "rotated_refresh_token"

	// ExtraAllowRefresh lets an extension grant opt in to refresh-token
	// issuance (bool).
	ExtraAllowRefresh = "allow_refresh"

	// ExtraNonce carries the nonce bound to an authorization code, echoed
	// into the id_token.
	ExtraNonce = "nonce"
)

// ValidatedGrant is the result of grant validation: who (if anyone) was
// authenticated, how, and which scopes the grant artifact is bound to.
// Created once per request and immutable afterwards; every downstream
// pipeline stage consumes it.
type ValidatedGrant struct {
	GrantType oauth2.GrantType

	// Subject is the resource-owner identifier. Empty for client-credentials
	// and subject-less extension grants.
	Subject string

	ClientID string

	// AuthMethods holds the amr values for the grant. Exactly one entry
	// unless multiple authentication factors were verified.
	AuthMethods []string

	AuthTime time.Time

	// Scopes restricts the effective scopes to those bound to the grant
	// artifact (stored code or refresh token). Empty means the request's
	// scopes apply unrestricted.
	Scopes []string

	// Extra is opaque to the pipeline except for the Extra* keys above.
	// Extension validators may attach custom data consumed by a response
	// hook.
	Extra map[string]any
}

// IsUserCentric reports whether the grant carries a resource-owner subject.
func (g *ValidatedGrant) IsUserCentric() bool {
	return g.Subject != ""
}

// AllowsRefreshToken reports whether this grant variant may produce a
// refresh token. Client-credentials never does; extension grants opt in
// through extra data.
func (g *ValidatedGrant) AllowsRefreshToken() bool {
	switch g.GrantType {
	case oauth2.AuthorizationCodeGrant, oauth2.PasswordGrant, oauth2.RefreshTokenGrant:
		return g.IsUserCentric()
	case oauth2.ClientCredentialsGrant:
		return false
	}
	allow, _ := g.Extra[ExtraAllowRefresh].(bool)
	return allow
}

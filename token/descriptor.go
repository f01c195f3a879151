package token

import (
	"github.com/jrsteele09/go-token-issuer/claims"
)

// Kind identifies the token variant a descriptor describes.
type Kind string

const (
	KindAccess   Kind = "access_token"
	KindIdentity Kind = "id_token"
)

// Descriptor describes a token to be signed: its claims, audiences and
// absolute expiry. The descriptor never holds key material; signing is a
// collaborator concern.
type Descriptor struct {
	Kind     Kind
	Issuer   string
	Subject  string
	ClientID string

	// Audiences for the token: the resources exposing the effective scopes
	// for access tokens, the client id for identity tokens.
	Audiences []string

	// Claims holds the assembled subject/client claims.
	Claims claims.ClaimsSet

	// Scopes and AMR always serialize as arrays, even single-valued.
	Scopes []string
	AMR    []string

	Nonce string

	// IssuedAt and ExpiresAt are absolute epoch seconds. Expiry is fixed at
	// issuance time rather than carried as a relative duration, so downstream
	// consumers are not exposed to clock skew between services.
	IssuedAt  int64
	ExpiresAt int64

	// ID is the jti claim: a unique identifier for this token.
	ID string
}

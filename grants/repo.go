package grants

import (
	"context"
	"errors"
	"time"

	"github.com/jrsteele09/go-token-issuer/oauth2"
)

// ErrNotFound is returned by grant stores for absent codes and token values.
// Handlers map it to invalid_grant; any other store error is infrastructure.
var ErrNotFound = errors.New("not found")

// AuthorizationCode is the stored artifact produced by the authorization
// endpoint and redeemed exactly once at the token endpoint.
type AuthorizationCode struct {
	Code                string
	ClientID            string
	Subject             string
	Scopes              []string
	AMR                 string // how the subject authenticated interactively
	Nonce               string
	CodeChallenge       string
	CodeChallengeMethod oauth2.CodeMethodType
	CreatedAt           time.Time
	ExpiresAt           time.Time
}

// RefreshToken is the stored artifact behind the refresh_token grant.
type RefreshToken struct {
	Value     string
	ClientID  string
	Subject   string
	Scopes    []string
	AMR       string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// AuthorizationCodeRepo stores authorization codes. Consume must be atomic
// check-and-invalidate: under concurrent redemption of the same code exactly
// one caller sees true. Correctness has to hold across process instances, so
// in-process locking in the pipeline is not a substitute.
type AuthorizationCodeRepo interface {
	Upsert(ctx context.Context, code *AuthorizationCode) error
	Get(ctx context.Context, code string) (*AuthorizationCode, error)
	Consume(ctx context.Context, code string) (bool, error)
}

// RefreshTokenRepo stores refresh tokens. ConsumeOrRotate atomically
// replaces the token value when rotate is true and returns the new value;
// when rotate is false it leaves the token in place and returns "".
type RefreshTokenRepo interface {
	Create(ctx context.Context, token *RefreshToken) error
	Get(ctx context.Context, value string) (*RefreshToken, error)
	ConsumeOrRotate(ctx context.Context, value string, rotate bool) (string, error)
	Delete(ctx context.Context, value string) error
}

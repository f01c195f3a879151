package response

import (
	"context"

	"github.com/jrsteele09/go-token-issuer/grants"
	"github.com/jrsteele09/go-token-issuer/oauth2"
)

// HookContext is what a custom response hook sees: the validated grant and
// the originating request. Both are read-only.
type HookContext struct {
	Grant   *grants.ValidatedGrant
	Request *oauth2.TokenRequest
}

// CustomResponseHook can add top-level fields to a successful token
// response, e.g. an arbitrary dto object for a bespoke client. The merge is
// additive-only: fields named after reserved protocol keys are dropped, so
// a hook can never displace access_token, expires_in and friends. Hooks
// never run for failure responses.
type CustomResponseHook interface {
	Augment(ctx context.Context, base *oauth2.Response, hookCtx HookContext) (map[string]any, error)
}

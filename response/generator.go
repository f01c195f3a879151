package response

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-token-issuer/grants"
	"github.com/jrsteele09/go-token-issuer/oauth2"
	"github.com/jrsteele09/go-token-issuer/token"
)

// Generator assembles the protocol response body from issued tokens, or a
// failure body from a ValidationFailure. At most one custom hook can be
// registered; its fields merge additively on success.
type Generator struct {
	hook    CustomResponseHook
	nowTime func() time.Time
}

type GeneratorOption func(*Generator)

// WithHook registers the custom response hook.
func WithHook(hook CustomResponseHook) GeneratorOption {
	return func(g *Generator) {
		g.hook = hook
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) GeneratorOption {
	return func(g *Generator) {
		g.nowTime = nowFunc
	}
}

func NewGenerator(options ...GeneratorOption) *Generator {
	g := &Generator{
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

// Generate builds the success response. expires_in is the seconds remaining
// until the token's absolute expiry, floored to an integer and never
// negative.
func (g *Generator) Generate(ctx context.Context, issued *token.Issued, grant *grants.ValidatedGrant, request *oauth2.TokenRequest, effectiveScopes []string) (*oauth2.Response, error) {
	expiresIn := issued.ExpiresAt - g.nowTime().Unix()
	if expiresIn < 0 {
		expiresIn = 0
	}

	resp := &oauth2.Response{
		AccessToken:  issued.AccessToken,
		IDToken:      issued.IdentityToken,
		RefreshToken: issued.RefreshToken,
		TokenType:    oauth2.TokenTypeBearer,
		ExpiresIn:    int(expiresIn),
		Scope:        strings.Join(effectiveScopes, " "),
	}

	if g.hook == nil {
		return resp, nil
	}

	fields, err := g.hook.Augment(ctx, resp, HookContext{Grant: grant, Request: request})
	if err != nil {
		return nil, errors.Wrap(err, "[Generator.Generate] response hook")
	}
	if len(fields) > 0 {
		resp.Custom = make(map[string]any, len(fields))
		for k, v := range fields {
			resp.Custom[k] = v
		}
	}
	return resp, nil
}

// Failure builds the failure response: exactly error and error_description,
// with every success-only field (including expires_in) absent.
func (g *Generator) Failure(failure *oauth2.ValidationFailure) *oauth2.Response {
	return oauth2.NewErrorResponse(failure)
}

package grants

import (
	"context"
	"time"

	"github.com/jrsteele09/go-token-issuer/clients"
	"github.com/jrsteele09/go-token-issuer/oauth2"
)

// ExtensionValidator is the seam for custom grant types. Implementations
// are keyed by grant-type name and receive the raw request parameters; they
// return the same ValidatedGrant-or-ValidationFailure contract as the
// built-in variants, so the rest of the pipeline treats extension grants
// exactly like standard ones.
type ExtensionValidator interface {
	GrantType() oauth2.GrantType
	Validate(ctx context.Context, params map[string]string, client *clients.Client) (*ValidatedGrant, error)
}

// extensionHandler adapts an ExtensionValidator to the internal Handler
// contract and fills in the defaults a custom validator may leave unset.
type extensionHandler struct {
	ext ExtensionValidator
	now func() time.Time
}

func (h *extensionHandler) GrantType() oauth2.GrantType {
	return h.ext.GrantType()
}

func (h *extensionHandler) Validate(ctx context.Context, request *oauth2.TokenRequest, client *clients.Client) (*ValidatedGrant, error) {
	grant, err := h.ext.Validate(ctx, request.Params, client)
	if err != nil {
		return nil, err
	}

	if grant.GrantType == "" {
		grant.GrantType = h.ext.GrantType()
	}
	if len(grant.AuthMethods) == 0 {
		grant.AuthMethods = []string{oauth2.AMRCustom}
	}
	if grant.AuthTime.IsZero() {
		grant.AuthTime = h.now()
	}
	return grant, nil
}

package grants

import (
	"context"
	"time"

	"github.com/jrsteele09/go-token-issuer/clients"
	"github.com/jrsteele09/go-token-issuer/oauth2"
)

// clientCredentialsHandler produces a subject-less grant. Client
// authentication itself happens before dispatch, so nothing beyond the
// grant-type permission remains to check here.
type clientCredentialsHandler struct {
	now func() time.Time
}

func (h *clientCredentialsHandler) GrantType() oauth2.GrantType {
	return oauth2.ClientCredentialsGrant
}

func (h *clientCredentialsHandler) Validate(_ context.Context, request *oauth2.TokenRequest, client *clients.Client) (*ValidatedGrant, error) {
	return &ValidatedGrant{
		GrantType:   oauth2.ClientCredentialsGrant,
		ClientID:    client.ID,
		AuthMethods: []string{oauth2.AMRClient},
		AuthTime:    h.now(),
	}, nil
}

package grants

import (
	"context"
	"time"

	"github.com/jrsteele09/go-token-issuer/clients"
	"github.com/jrsteele09/go-token-issuer/oauth2"
	"github.com/jrsteele09/go-token-issuer/users"
	"github.com/pkg/errors"
)

// passwordHandler delegates the username/password check to the configured
// credential validator.
type passwordHandler struct {
	credentials users.CredentialValidator
	now         func() time.Time
}

func (h *passwordHandler) GrantType() oauth2.GrantType {
	return oauth2.PasswordGrant
}

func (h *passwordHandler) Validate(ctx context.Context, request *oauth2.TokenRequest, client *clients.Client) (*ValidatedGrant, error) {
	username := request.Param(oauth2.ParamUsername)
	password := request.Param(oauth2.ParamPassword)

	subject, ok, err := h.credentials.Validate(ctx, username, password)
	if err != nil {
		return nil, errors.Wrap(err, "[passwordHandler.Validate] credential validator")
	}
	if !ok {
		// Same code/description for an unknown user and a wrong password.
		return nil, oauth2.NewValidationFailure(oauth2.ErrorInvalidGrant, oauth2.DescInvalidCredential)
	}

	return &ValidatedGrant{
		GrantType:   oauth2.PasswordGrant,
		Subject:     subject,
		ClientID:    client.ID,
		AuthMethods: []string{oauth2.AMRPassword},
		AuthTime:    h.now(),
	}, nil
}

package grants

import (
	"context"
	"time"

	"github.com/jrsteele09/go-token-issuer/clients"
	"github.com/jrsteele09/go-token-issuer/oauth2"
	"github.com/pkg/errors"
)

// refreshTokenHandler redeems a stored refresh token. The token must exist,
// be unexpired and belong to the requesting client. When the client is
// configured for rotation, the store atomically swaps in a new value which
// the issuer returns in place of minting a fresh one.
type refreshTokenHandler struct {
	tokens RefreshTokenRepo
	now    func() time.Time
}

func (h *refreshTokenHandler) GrantType() oauth2.GrantType {
	return oauth2.RefreshTokenGrant
}

func (h *refreshTokenHandler) Validate(ctx context.Context, request *oauth2.TokenRequest, client *clients.Client) (*ValidatedGrant, error) {
	value := request.Param(oauth2.ParamRefreshToken)
	if value == "" {
		return nil, oauth2.NewValidationFailure(oauth2.ErrorInvalidGrant, "refresh token missing")
	}

	stored, err := h.tokens.Get(ctx, value)
	if errors.Is(err, ErrNotFound) {
		return nil, oauth2.NewValidationFailure(oauth2.ErrorInvalidGrant, "invalid refresh token")
	}
	if err != nil {
		return nil, errors.Wrap(err, "[refreshTokenHandler.Validate] tokens.Get")
	}

	if h.now().After(stored.ExpiresAt) {
		_ = h.tokens.Delete(ctx, value)
		return nil, oauth2.NewValidationFailure(oauth2.ErrorInvalidGrant, "refresh token expired")
	}

	if stored.ClientID != client.ID {
		return nil, oauth2.NewValidationFailure(oauth2.ErrorInvalidGrant, "refresh token issued to another client")
	}

	rotated, err := h.tokens.ConsumeOrRotate(ctx, value, client.RotateRefreshTokens)
	if err != nil {
		return nil, errors.Wrap(err, "[refreshTokenHandler.Validate] tokens.ConsumeOrRotate")
	}

	amr := stored.AMR
	if amr == "" {
		amr = oauth2.AMRPwd
	}

	grant := &ValidatedGrant{
		GrantType:   oauth2.RefreshTokenGrant,
		Subject:     stored.Subject,
		ClientID:    client.ID,
		AuthMethods: []string{amr},
		AuthTime:    stored.CreatedAt,
		Scopes:      stored.Scopes,
	}
	if rotated != "" {
		grant.Extra = map[string]any{ExtraRotatedRefreshToken: rotated}
	}
	return grant, nil
}

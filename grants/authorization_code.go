package grants

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"time"

	"github.com/jrsteele09/go-token-issuer/clients"
	"github.com/jrsteele09/go-token-issuer/oauth2"
	"github.com/pkg/errors"
)

// authorizationCodeHandler redeems a stored authorization code. The code
// must exist, be unexpired, be bound to the requesting client, and satisfy
// PKCE when a challenge was stored. Consumption is single-use: the store's
// atomic Consume decides the winner under concurrent redemption.
type authorizationCodeHandler struct {
	codes AuthorizationCodeRepo
	now   func() time.Time
}

func (h *authorizationCodeHandler) GrantType() oauth2.GrantType {
	return oauth2.AuthorizationCodeGrant
}

func (h *authorizationCodeHandler) Validate(ctx context.Context, request *oauth2.TokenRequest, client *clients.Client) (*ValidatedGrant, error) {
	code := request.Param(oauth2.ParamCode)
	if code == "" {
		return nil, oauth2.NewValidationFailure(oauth2.ErrorInvalidGrant, "authorization code missing")
	}

	stored, err := h.codes.Get(ctx, code)
	if errors.Is(err, ErrNotFound) {
		return nil, oauth2.NewValidationFailure(oauth2.ErrorInvalidGrant, "invalid authorization code")
	}
	if err != nil {
		return nil, errors.Wrap(err, "[authorizationCodeHandler.Validate] codes.Get")
	}

	if h.now().After(stored.ExpiresAt) {
		return nil, oauth2.NewValidationFailure(oauth2.ErrorInvalidGrant, "authorization code expired")
	}

	if stored.ClientID != client.ID {
		return nil, oauth2.NewValidationFailure(oauth2.ErrorInvalidGrant, "authorization code issued to another client")
	}

	if !checkCodeChallenge(stored.CodeChallenge, request.Param(oauth2.ParamCodeVerifier), stored.CodeChallengeMethod) {
		return nil, oauth2.NewValidationFailure(oauth2.ErrorInvalidGrant, "code challenge failed")
	}

	consumed, err := h.codes.Consume(ctx, code)
	if err != nil {
		return nil, errors.Wrap(err, "[authorizationCodeHandler.Validate] codes.Consume")
	}
	if !consumed {
		// A concurrent request already redeemed this code.
		return nil, oauth2.NewValidationFailure(oauth2.ErrorInvalidGrant, "authorization code already used")
	}

	amr := stored.AMR
	if amr == "" {
		amr = oauth2.AMRPwd
	}

	grant := &ValidatedGrant{
		GrantType:   oauth2.AuthorizationCodeGrant,
		Subject:     stored.Subject,
		ClientID:    client.ID,
		AuthMethods: []string{amr},
		AuthTime:    stored.CreatedAt,
		Scopes:      stored.Scopes,
	}
	if stored.Nonce != "" {
		grant.Extra = map[string]any{ExtraNonce: stored.Nonce}
	}
	return grant, nil
}

func checkCodeChallenge(storedChallenge, verifier string, method oauth2.CodeMethodType) bool {
	if storedChallenge == "" && verifier == "" { // No PKCE code challenge
		return true
	}
	switch method {
	case oauth2.CodeMethodTypeS256:
		hash := sha256.Sum256([]byte(verifier))
		return base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(hash[:]) == storedChallenge
	case oauth2.CodeMethodTypeNone:
		return storedChallenge == verifier
	}
	return false
}

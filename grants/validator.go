package grants

import (
	"context"
	"time"

	"github.com/jrsteele09/go-token-issuer/clients"
	"github.com/jrsteele09/go-token-issuer/oauth2"
	"github.com/jrsteele09/go-token-issuer/users"
	"github.com/pkg/errors"
)

// Handler validates one grant-type variant. The client has already been
// authenticated and allowed the grant type by the time Validate runs.
type Handler interface {
	GrantType() oauth2.GrantType
	Validate(ctx context.Context, request *oauth2.TokenRequest, client *clients.Client) (*ValidatedGrant, error)
}

// Stores holds the grant-artifact store dependencies for the Validator.
type Stores struct {
	Codes         AuthorizationCodeRepo
	RefreshTokens RefreshTokenRepo
}

// Validator dispatches a token request to the handler registered for its
// grant type. The four standard OAuth2 variants are registered at
// construction; extension grants join the same registry through
// RegisterExtension, so they are first-class rather than bolted on.
type Validator struct {
	handlers map[oauth2.GrantType]Handler
	nowTime  func() time.Time
}

// ValidatorOption defines a function type to modify the Validator instance.
type ValidatorOption func(*Validator)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ValidatorOption {
	return func(v *Validator) {
		v.nowTime = nowFunc
	}
}

// NewValidator initializes a Validator with the standard grant handlers.
func NewValidator(stores Stores, credentials users.CredentialValidator, options ...ValidatorOption) (*Validator, error) {
	if stores.Codes == nil {
		return nil, errors.New("[NewValidator] authorization code repo is required")
	}
	if stores.RefreshTokens == nil {
		return nil, errors.New("[NewValidator] refresh token repo is required")
	}
	if credentials == nil {
		return nil, errors.New("[NewValidator] credential validator is required")
	}

	v := &Validator{
		handlers: make(map[oauth2.GrantType]Handler),
		nowTime:  time.Now,
	}

	for _, opt := range options {
		opt(v)
	}

	v.register(&clientCredentialsHandler{now: v.nowTime})
	v.register(&passwordHandler{credentials: credentials, now: v.nowTime})
	v.register(&authorizationCodeHandler{codes: stores.Codes, now: v.nowTime})
	v.register(&refreshTokenHandler{tokens: stores.RefreshTokens, now: v.nowTime})

	return v, nil
}

func (v *Validator) register(h Handler) {
	v.handlers[h.GrantType()] = h
}

// RegisterExtension registers a custom grant validator under its grant-type
// name. Registering the name of a standard grant replaces the built-in
// handler.
func (v *Validator) RegisterExtension(ext ExtensionValidator) {
	v.register(&extensionHandler{ext: ext, now: v.nowTime})
}

// Validate dispatches on grant type and returns the validated grant, or a
// ValidationFailure describing the protocol-level rejection.
func (v *Validator) Validate(ctx context.Context, request *oauth2.TokenRequest, client *clients.Client) (*ValidatedGrant, error) {
	handler, ok := v.handlers[request.GrantType]
	if !ok {
		return nil, oauth2.NewValidationFailure(oauth2.ErrorUnsupportedGrantType, "grant type not supported")
	}

	if !client.AllowsGrantType(request.GrantType) {
		return nil, oauth2.NewValidationFailure(oauth2.ErrorUnauthorizedClient, "grant type not allowed for client")
	}

	grant, err := handler.Validate(ctx, request, client)
	if err != nil {
		return nil, err
	}
	grant.ClientID = client.ID
	return grant, nil
}

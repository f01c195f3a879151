package endpoint

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-token-issuer/claims"
	"github.com/jrsteele09/go-token-issuer/clients"
	"github.com/jrsteele09/go-token-issuer/grants"
	"github.com/jrsteele09/go-token-issuer/oauth2"
	"github.com/jrsteele09/go-token-issuer/response"
	"github.com/jrsteele09/go-token-issuer/scopes"
	"github.com/jrsteele09/go-token-issuer/token"
)

// Repos holds the store dependencies for the TokenService.
type Repos struct {
	Clients clients.Repo // Repository for OAuth2 client definitions
}

// TokenService sequences a token request through client authentication,
// grant validation, scope resolution, claims assembly, token issuance and
// response generation. Each stage can short-circuit to a failure response;
// no stage is revisited and nothing is retried.
//
// The service holds no request-to-request mutable state, so concurrent
// requests need no coordination.
type TokenService struct {
	repos     Repos
	validator *grants.Validator
	resolver  *scopes.Resolver
	assembler *claims.Assembler
	issuer    *token.Issuer
	generator *response.Generator
	logger    zerolog.Logger
}

// TokenServiceOption defines a function type to modify the TokenService instance.
type TokenServiceOption func(*TokenService)

// WithLogger sets the service logger.
func WithLogger(logger zerolog.Logger) TokenServiceOption {
	return func(s *TokenService) {
		s.logger = logger
	}
}

// NewTokenService initializes a TokenService with its pipeline stages.
func NewTokenService(
	repos Repos,
	validator *grants.Validator,
	resolver *scopes.Resolver,
	assembler *claims.Assembler,
	issuer *token.Issuer,
	generator *response.Generator,
	options ...TokenServiceOption,
) (*TokenService, error) {
	if repos.Clients == nil {
		return nil, errors.New("[NewTokenService] Clients repo is required")
	}
	if validator == nil {
		return nil, errors.New("[NewTokenService] grant validator is required")
	}
	if resolver == nil {
		return nil, errors.New("[NewTokenService] scope resolver is required")
	}
	if assembler == nil {
		return nil, errors.New("[NewTokenService] claims assembler is required")
	}
	if issuer == nil {
		return nil, errors.New("[NewTokenService] token issuer is required")
	}
	if generator == nil {
		return nil, errors.New("[NewTokenService] response generator is required")
	}

	service := &TokenService{
		repos:     repos,
		validator: validator,
		resolver:  resolver,
		assembler: assembler,
		issuer:    issuer,
		generator: generator,
		logger:    zerolog.Nop(),
	}

	for _, opt := range options {
		opt(service)
	}

	return service, nil
}

// Token handles one OAuth 2.0 token request end to end. Protocol-level
// rejections and collaborator failures both come back as failure-shaped
// responses; Token never returns an error to the transport.
func (s *TokenService) Token(ctx context.Context, request *oauth2.TokenRequest) *oauth2.Response {
	resp, err := s.process(ctx, request)
	if err == nil {
		return resp
	}

	if failure, ok := oauth2.AsValidationFailure(err); ok {
		s.logger.Debug().
			Str("grant_type", string(request.GrantType)).
			Str("client_id", request.ClientID).
			Str("error", string(failure.Code)).
			Msg("token request rejected")
		return s.generator.Failure(failure)
	}

	// Infrastructure failure: log the cause for operators, return an
	// opaque internal_error so nothing internal leaks into the response.
	s.logger.Error().
		Err(err).
		Str("grant_type", string(request.GrantType)).
		Str("client_id", request.ClientID).
		Msg("token request failed")
	return s.generator.Failure(oauth2.NewValidationFailure(oauth2.ErrorInternal, "internal error"))
}

func (s *TokenService) process(ctx context.Context, request *oauth2.TokenRequest) (*oauth2.Response, error) {
	// Client authentication runs before any grant-specific check, so a bad
	// credential always reads as invalid_client and discloses nothing about
	// the grant itself.
	client, err := s.authenticateClient(ctx, request)
	if err != nil {
		return nil, err
	}

	grant, err := s.validator.Validate(ctx, request, client)
	if err != nil {
		return nil, err
	}

	effectiveScopes, err := s.resolver.Resolve(ctx, client, request.Scopes, grant.Scopes)
	if err != nil {
		return nil, err
	}

	claimsSet, err := s.assembler.Assemble(ctx, grant, effectiveScopes)
	if err != nil {
		return nil, err
	}

	issued, err := s.issuer.Issue(ctx, grant, claimsSet, effectiveScopes, client)
	if err != nil {
		return nil, err
	}

	return s.generator.Generate(ctx, issued, grant, request, effectiveScopes)
}

func (s *TokenService) authenticateClient(ctx context.Context, request *oauth2.TokenRequest) (*clients.Client, error) {
	if request.ClientID == "" {
		return nil, oauth2.NewValidationFailure(oauth2.ErrorInvalidClient, "client_id missing")
	}

	client, err := s.repos.Clients.Get(ctx, request.ClientID)
	if errors.Is(err, clients.ErrNotFound) {
		// Unknown client reads the same as a bad secret.
		return nil, oauth2.NewValidationFailure(oauth2.ErrorInvalidClient, "client authentication failed")
	}
	if err != nil {
		return nil, errors.Wrap(err, "[TokenService.authenticateClient] Clients.Get")
	}

	if !client.Enabled {
		return nil, oauth2.NewValidationFailure(oauth2.ErrorInvalidClient, "client disabled")
	}

	if client.RequireSecret {
		if request.ClientSecret == "" || !client.CheckSecret(request.ClientSecret) {
			return nil, oauth2.NewValidationFailure(oauth2.ErrorInvalidClient, "client authentication failed")
		}
	}

	return client, nil
}

package scopes

import (
	"context"

	"github.com/jrsteele09/go-token-issuer/clients"
	"github.com/jrsteele09/go-token-issuer/oauth2"
	"github.com/jrsteele09/go-token-issuer/resources"
	"github.com/pkg/errors"
)

// Resolver intersects requested scopes with what the client is allowed and
// what known resources expose. Resolution is strict all-or-nothing: one bad
// scope fails the whole request with invalid_scope rather than granting the
// valid subset.
type Resolver struct {
	resourceRepo resources.Repo
}

func NewResolver(resourceRepo resources.Repo) (*Resolver, error) {
	if resourceRepo == nil {
		return nil, errors.New("[NewResolver] resource repo is required")
	}
	return &Resolver{resourceRepo: resourceRepo}, nil
}

// Resolve returns the effective scopes for the request. When no scopes were
// requested the client's full allowed set is granted — a deliberate policy
// choice, matching clients that rely on registration-time defaults. The
// grant hint, when non-empty, restricts the result to scopes bound to a
// stored grant artifact (authorization code or refresh token). Requested
// order is preserved so the issued "scope" claim is deterministic.
func (r *Resolver) Resolve(ctx context.Context, client *clients.Client, requested []string, grantHint []string) ([]string, error) {
	scopes := requested
	if len(scopes) == 0 {
		scopes = append([]string(nil), client.AllowedScopes...)
	}

	hint := toSet(grantHint)
	for _, scope := range scopes {
		if !client.HasScope(scope) {
			return nil, oauth2.NewValidationFailure(oauth2.ErrorInvalidScope, "scope not allowed for client: "+scope)
		}
		if hint != nil {
			if _, ok := hint[scope]; !ok {
				return nil, oauth2.NewValidationFailure(oauth2.ErrorInvalidScope, "scope not bound to grant: "+scope)
			}
		}
	}

	// Every scope must also be exposed by a known resource.
	exposing, err := r.resourceRepo.FindByScopes(ctx, scopes)
	if err != nil {
		return nil, errors.Wrap(err, "[Resolver.Resolve] resourceRepo.FindByScopes")
	}
	for _, scope := range scopes {
		if !exposedByAny(exposing, scope) {
			return nil, oauth2.NewValidationFailure(oauth2.ErrorInvalidScope, "unknown scope: "+scope)
		}
	}

	effective := make([]string, len(scopes))
	copy(effective, scopes)
	return effective, nil
}

func exposedByAny(found []*resources.Resource, scope string) bool {
	for _, resource := range found {
		if resource.ExposesScope(scope) {
			return true
		}
	}
	return false
}

func toSet(scopes []string) map[string]struct{} {
	if len(scopes) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(scopes))
	for _, s := range scopes {
		set[s] = struct{}{}
	}
	return set
}

package claims

import (
	"context"

	"github.com/jrsteele09/go-token-issuer/grants"
	"github.com/jrsteele09/go-token-issuer/resources"
	"github.com/pkg/errors"
)

// Assembler gathers the subject and client claims for a validated grant,
// shaped by the effective scopes. Output ordering is deterministic.
type Assembler struct {
	profile      ProfileService
	resourceRepo resources.Repo
	issuer       string
}

func NewAssembler(profile ProfileService, resourceRepo resources.Repo, issuer string) (*Assembler, error) {
	if resourceRepo == nil {
		return nil, errors.New("[NewAssembler] resource repo is required")
	}
	if issuer == "" {
		return nil, errors.New("[NewAssembler] issuer is required")
	}
	return &Assembler{profile: profile, resourceRepo: resourceRepo, issuer: issuer}, nil
}

// Assemble builds the claims set for the grant: issuer, client id, subject
// (when present) and one amr claim per verified authentication method,
// plus profile claims for the claim types the effective scopes map to.
func (a *Assembler) Assemble(ctx context.Context, grant *grants.ValidatedGrant, effectiveScopes []string) (ClaimsSet, error) {
	set := ClaimsSet{}
	set.Add(TypeIssuer, a.issuer)
	set.Add(TypeClientID, grant.ClientID)
	set.Add(TypeSubject, grant.Subject)
	for _, amr := range grant.AuthMethods {
		set.Add(TypeAMR, amr)
	}
	if nonce, ok := grant.Extra[grants.ExtraNonce].(string); ok {
		set.Add(TypeNonce, nonce)
	}

	claimTypes, err := a.claimTypesForScopes(ctx, effectiveScopes)
	if err != nil {
		return nil, err
	}

	if grant.IsUserCentric() && a.profile != nil && len(claimTypes) > 0 {
		profileClaims, err := a.profile.GetClaims(ctx, grant.Subject, claimTypes)
		if err != nil {
			return nil, errors.Wrap(err, "[Assembler.Assemble] profile.GetClaims")
		}
		allowed := toSet(claimTypes)
		for _, claim := range profileClaims {
			if _, ok := allowed[claim.Type]; !ok {
				continue
			}
			set.Add(claim.Type, claim.Value)
		}
	}

	set.Sort()
	return set, nil
}

// claimTypesForScopes maps the effective scopes onto the claim types the
// exposing resources declare. Order follows the resource lookup but the
// final set is deduplicated.
func (a *Assembler) claimTypesForScopes(ctx context.Context, scopes []string) ([]string, error) {
	if len(scopes) == 0 {
		return nil, nil
	}
	found, err := a.resourceRepo.FindByScopes(ctx, scopes)
	if err != nil {
		return nil, errors.Wrap(err, "[Assembler.claimTypesForScopes] resourceRepo.FindByScopes")
	}

	seen := make(map[string]struct{})
	var claimTypes []string
	for _, resource := range found {
		for _, claimType := range resource.ClaimTypes {
			if _, ok := seen[claimType]; ok {
				continue
			}
			seen[claimType] = struct{}{}
			claimTypes = append(claimTypes, claimType)
		}
	}
	return claimTypes, nil
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

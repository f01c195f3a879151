package token

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sort"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/jrsteele09/go-token-issuer/claims"
	"github.com/jrsteele09/go-token-issuer/clients"
	"github.com/jrsteele09/go-token-issuer/grants"
	"github.com/jrsteele09/go-token-issuer/oauth2"
	"github.com/jrsteele09/go-token-issuer/resources"
)

const refreshTokenLength = 32 // 256 bits

// Issued is the set of signed artifacts produced for one validated grant.
type Issued struct {
	AccessToken   string
	IdentityToken string // empty unless the client asked for one
	RefreshToken  string // empty unless offline access applies

	// ExpiresAt is the access token expiry as absolute epoch seconds.
	ExpiresAt int64

	// Lifetime is the access token lifetime applied at issuance.
	Lifetime time.Duration
}

// Issuer constructs access/identity/refresh tokens from a validated grant,
// the assembled claims and the effective scopes. Signing is delegated; the
// issuer holds no key material.
type Issuer struct {
	signer                Signer
	refreshRepo           grants.RefreshTokenRepo
	resourceRepo          resources.Repo
	issuerName            string
	accessTokenLifetime   time.Duration // system-wide fallback
	identityTokenLifetime time.Duration
	refreshTokenLifetime  time.Duration
	nowFunc               func() time.Time
}

type IssuerOption func(*Issuer)

func WithTokenExpiry(accessTokenLifetime, identityTokenLifetime, refreshTokenLifetime time.Duration) IssuerOption {
	return func(i *Issuer) {
		i.accessTokenLifetime = accessTokenLifetime
		i.identityTokenLifetime = identityTokenLifetime
		i.refreshTokenLifetime = refreshTokenLifetime
	}
}

func WithNowFunc(now func() time.Time) IssuerOption {
	return func(i *Issuer) {
		i.nowFunc = now
	}
}

func NewIssuer(signer Signer, refreshRepo grants.RefreshTokenRepo, resourceRepo resources.Repo, issuerName string, options ...IssuerOption) (*Issuer, error) {
	if signer == nil {
		return nil, errors.New("[NewIssuer] signer is required")
	}
	if refreshRepo == nil {
		return nil, errors.New("[NewIssuer] refresh token repo is required")
	}
	if resourceRepo == nil {
		return nil, errors.New("[NewIssuer] resource repo is required")
	}
	if issuerName == "" {
		return nil, errors.New("[NewIssuer] issuer name is required")
	}

	i := &Issuer{
		signer:       signer,
		refreshRepo:  refreshRepo,
		resourceRepo: resourceRepo,
		issuerName:   issuerName,
	}

	for _, opt := range options {
		opt(i)
	}

	if i.accessTokenLifetime == 0 {
		i.accessTokenLifetime = time.Hour
	}
	if i.identityTokenLifetime == 0 {
		i.identityTokenLifetime = time.Hour
	}
	if i.refreshTokenLifetime == 0 {
		i.refreshTokenLifetime = 30 * 24 * time.Hour
	}
	if i.nowFunc == nil {
		i.nowFunc = time.Now
	}
	return i, nil
}

// Issue produces the signed access token and, depending on the grant and
// client configuration, an identity token and a refresh token. The access
// token lifetime comes from the client with the issuer's system default as
// fallback; expiry is encoded as an absolute epoch timestamp.
func (i *Issuer) Issue(ctx context.Context, grant *grants.ValidatedGrant, claimsSet claims.ClaimsSet, effectiveScopes []string, client *clients.Client) (*Issued, error) {
	now := i.nowFunc()

	lifetime := client.AccessTokenLifetime
	if lifetime == 0 {
		lifetime = i.accessTokenLifetime
	}

	audiences, err := i.audiencesForScopes(ctx, effectiveScopes)
	if err != nil {
		return nil, err
	}

	access := &Descriptor{
		Kind:      KindAccess,
		Issuer:    i.issuerName,
		Subject:   grant.Subject,
		ClientID:  grant.ClientID,
		Audiences: audiences,
		Claims:    claimsSet,
		Scopes:    effectiveScopes,
		AMR:       grant.AuthMethods,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(lifetime).Unix(),
		ID:        uuid.New().String(),
	}

	accessToken, err := i.signer.Sign(buildMapClaims(access))
	if err != nil {
		return nil, errors.Wrap(err, "[Issuer.Issue] sign access token")
	}

	issued := &Issued{
		AccessToken: accessToken,
		ExpiresAt:   access.ExpiresAt,
		Lifetime:    lifetime,
	}

	if grant.IsUserCentric() && client.IncludeIdentityToken {
		nonce, _ := grant.Extra[grants.ExtraNonce].(string)
		identity := &Descriptor{
			Kind:      KindIdentity,
			Issuer:    i.issuerName,
			Subject:   grant.Subject,
			ClientID:  grant.ClientID,
			Audiences: []string{grant.ClientID},
			Claims:    claimsSet,
			AMR:       grant.AuthMethods,
			Nonce:     nonce,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(i.identityTokenLifetime).Unix(),
			ID:        uuid.New().String(),
		}
		issued.IdentityToken, err = i.signer.Sign(buildMapClaims(identity))
		if err != nil {
			return nil, errors.Wrap(err, "[Issuer.Issue] sign identity token")
		}
	}

	if client.AllowOfflineAccess && grant.AllowsRefreshToken() {
		issued.RefreshToken, err = i.refreshTokenFor(ctx, grant, effectiveScopes, now)
		if err != nil {
			return nil, err
		}
	}

	return issued, nil
}

// refreshTokenFor reuses the value the store rotated in during a refresh
// grant; otherwise it mints and stores a fresh opaque value. Value
// uniqueness and non-reuse are store guarantees, not enforced here.
func (i *Issuer) refreshTokenFor(ctx context.Context, grant *grants.ValidatedGrant, scopes []string, now time.Time) (string, error) {
	if rotated, ok := grant.Extra[grants.ExtraRotatedRefreshToken].(string); ok && rotated != "" {
		return rotated, nil
	}
	if grant.GrantType == oauth2.RefreshTokenGrant {
		// Rotation disabled for this client: the presented value stays valid.
		return "", nil
	}

	tokenBytes := make([]byte, refreshTokenLength)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", errors.Wrap(err, "[Issuer.refreshTokenFor] rand.Read")
	}
	value := hex.EncodeToString(tokenBytes)

	amr := ""
	if len(grant.AuthMethods) > 0 {
		amr = grant.AuthMethods[0]
	}
	if err := i.refreshRepo.Create(ctx, &grants.RefreshToken{
		Value:     value,
		ClientID:  grant.ClientID,
		Subject:   grant.Subject,
		Scopes:    scopes,
		AMR:       amr,
		CreatedAt: now,
		ExpiresAt: now.Add(i.refreshTokenLifetime),
	}); err != nil {
		return "", errors.Wrap(err, "[Issuer.refreshTokenFor] refreshRepo.Create")
	}
	return value, nil
}

func (i *Issuer) audiencesForScopes(ctx context.Context, scopes []string) ([]string, error) {
	found, err := i.resourceRepo.FindByScopes(ctx, scopes)
	if err != nil {
		return nil, errors.Wrap(err, "[Issuer.audiencesForScopes] resourceRepo.FindByScopes")
	}
	audiences := make([]string, 0, len(found))
	for _, resource := range found {
		audiences = append(audiences, resource.Name)
	}
	sort.Strings(audiences)
	return audiences, nil
}

// Claim types carried structurally on the descriptor rather than copied
// from the assembled set.
var structuralClaims = map[string]struct{}{
	claims.TypeIssuer:   {},
	claims.TypeSubject:  {},
	claims.TypeClientID: {},
	claims.TypeAMR:      {},
	claims.TypeScope:    {},
	claims.TypeNonce:    {},
}

// buildMapClaims flattens a descriptor into jwt claims. "scope" and "amr"
// always serialize as arrays even when single-valued; some consumers depend
// on that shape.
func buildMapClaims(d *Descriptor) jwt.MapClaims {
	mapClaims := jwt.MapClaims{
		"iss":       d.Issuer,
		"client_id": d.ClientID,
		"iat":       d.IssuedAt,
		"exp":       d.ExpiresAt,
		"jti":       d.ID,
	}
	if d.Subject != "" {
		mapClaims["sub"] = d.Subject
	}
	if len(d.Audiences) == 1 {
		mapClaims["aud"] = d.Audiences[0]
	} else if len(d.Audiences) > 1 {
		mapClaims["aud"] = d.Audiences
	}
	if d.Kind == KindAccess {
		mapClaims["scope"] = asArray(d.Scopes)
	}
	mapClaims["amr"] = asArray(d.AMR)
	if d.Nonce != "" {
		mapClaims["nonce"] = d.Nonce
	}

	for _, claim := range d.Claims {
		if _, structural := structuralClaims[claim.Type]; structural {
			continue
		}
		if existing, ok := mapClaims[claim.Type]; ok {
			// Repeated claim types collapse into an array.
			switch v := existing.(type) {
			case []string:
				mapClaims[claim.Type] = append(v, claim.Value)
			case string:
				mapClaims[claim.Type] = []string{v, claim.Value}
			}
			continue
		}
		mapClaims[claim.Type] = claim.Value
	}

	return mapClaims
}

func asArray(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

package clients

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jrsteele09/go-token-issuer/oauth2"
)

type Client struct {
	ID          string `json:"id"`
	Description string `json:"description"`

	// SecretHash is the bcrypt hash of the client secret. Empty for public
	// clients. Never serialized.
	SecretHash string `json:"-"`

	// RequireSecret is true for confidential clients. Public clients
	// authenticate by id alone.
	RequireSecret bool `json:"requireSecret"`

	// AllowedGrantTypes lists the grant types this client may use.
	// A request outside this set fails with unauthorized_client.
	AllowedGrantTypes []oauth2.GrantType `json:"allowedGrantTypes"`

	// AllowedScopes lists the scopes this client may request.
	AllowedScopes []string `json:"allowedScopes"`

	// AllowOfflineAccess controls refresh-token issuance for user-centric
	// grants.
	AllowOfflineAccess bool `json:"allowOfflineAccess"`

	// RotateRefreshTokens makes the refresh store issue a new token value
	// on every redemption.
	RotateRefreshTokens bool `json:"rotateRefreshTokens"`

	// IncludeIdentityToken requests an id_token alongside the access token
	// on user-centric grants.
	IncludeIdentityToken bool `json:"includeIdentityToken"`

	// AccessTokenLifetime overrides the system default when non-zero.
	AccessTokenLifetime time.Duration `json:"accessTokenLifetime"`

	Enabled bool `json:"enabled"`
}

// HashSecret returns the bcrypt hash to store for a client secret.
func HashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckSecret verifies a presented secret against the stored hash.
func (c *Client) CheckSecret(secret string) bool {
	if c.SecretHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(c.SecretHash), []byte(secret)) == nil
}

// AllowsGrantType checks whether the client is permitted the given grant
// type. Extension grant names are matched verbatim.
func (c *Client) AllowsGrantType(grantType oauth2.GrantType) bool {
	for _, gt := range c.AllowedGrantTypes {
		if gt == grantType {
			return true
		}
	}
	return false
}

// HasScope checks if the client has permission for a specific scope
func (c *Client) HasScope(scope string) bool {
	for _, s := range c.AllowedScopes {
		if s == scope {
			return true
		}
	}
	return false
}

package clients_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-token-issuer/clients"
	"github.com/jrsteele09/go-token-issuer/oauth2"
)

func TestCheckSecret(t *testing.T) {
	hash, err := clients.HashSecret("s3cret")
	require.NoError(t, err)

	client := &clients.Client{ID: "app", SecretHash: hash, RequireSecret: true}

	assert.True(t, client.CheckSecret("s3cret"))
	assert.False(t, client.CheckSecret("wrong"))
	assert.False(t, client.CheckSecret(""))
}

func TestCheckSecretWithoutStoredHash(t *testing.T) {
	client := &clients.Client{ID: "public-app"}

	// A client with no stored hash never verifies, even against "".
	assert.False(t, client.CheckSecret(""))
	assert.False(t, client.CheckSecret("anything"))
}

func TestAllowsGrantType(t *testing.T) {
	client := &clients.Client{
		ID:                "app",
		AllowedGrantTypes: []oauth2.GrantType{oauth2.PasswordGrant, "urn:custom:delegation"},
	}

	assert.True(t, client.AllowsGrantType(oauth2.PasswordGrant))
	assert.True(t, client.AllowsGrantType("urn:custom:delegation"))
	assert.False(t, client.AllowsGrantType(oauth2.ClientCredentialsGrant))
}

func TestHasScope(t *testing.T) {
	client := &clients.Client{ID: "app", AllowedScopes: []string{"api1.read"}}

	assert.True(t, client.HasScope("api1.read"))
	assert.False(t, client.HasScope("api1.write"))
	assert.False(t, client.HasScope(""))
}

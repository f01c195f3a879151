package scopes_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-token-issuer/clients"
	"github.com/jrsteele09/go-token-issuer/oauth2"
	"github.com/jrsteele09/go-token-issuer/resources"
	fakeresourcerepo "github.com/jrsteele09/go-token-issuer/resources/fakerepo"
	"github.com/jrsteele09/go-token-issuer/scopes"
)

type testFixture struct {
	resolver *scopes.Resolver
	client   *clients.Client
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	repo := fakeresourcerepo.NewFakeResourceRepo()
	require.NoError(t, repo.Upsert(context.Background(), &resources.Resource{
		Name:   "api1",
		Scopes: []string{"api1.read", "api1.write"},
	}))
	require.NoError(t, repo.Upsert(context.Background(), &resources.Resource{
		Name:   "api2",
		Scopes: []string{"api2.read"},
	}))

	resolver, err := scopes.NewResolver(repo)
	require.NoError(t, err)

	return &testFixture{
		resolver: resolver,
		client: &clients.Client{
			ID:            "test-client",
			AllowedScopes: []string{"api1.read", "api1.write", "api2.read"},
			Enabled:       true,
		},
	}
}

func TestResolveRequestedScopes(t *testing.T) {
	f := setupTestFixture(t)

	resolved, err := f.resolver.Resolve(context.Background(), f.client, []string{"api2.read", "api1.read"}, nil)

	require.NoError(t, err)
	// Requested order is preserved.
	assert.Equal(t, []string{"api2.read", "api1.read"}, resolved)
}

func TestResolveEmptyRequestGrantsClientDefaults(t *testing.T) {
	f := setupTestFixture(t)

	resolved, err := f.resolver.Resolve(context.Background(), f.client, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, f.client.AllowedScopes, resolved)
}

func TestResolveAllOrNothing(t *testing.T) {
	f := setupTestFixture(t)

	tests := []struct {
		name      string
		requested []string
		grantHint []string
		allowed   []string
	}{
		{name: "scope not allowed for client", requested: []string{"api1.read", "admin"}},
		{
			// Registered on the client but no resource exposes it.
			name:      "scope unknown to any resource",
			requested: []string{"api1.read", "api1.delete"},
			allowed:   []string{"api1.read", "api1.delete"},
		},
		{name: "scope outside grant hint", requested: []string{"api1.read", "api1.write"}, grantHint: []string{"api1.read"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := *f.client
			if tc.allowed != nil {
				client.AllowedScopes = tc.allowed
			}
			_, err := f.resolver.Resolve(context.Background(), &client, tc.requested, tc.grantHint)

			require.Error(t, err)
			failure, ok := oauth2.AsValidationFailure(err)
			require.True(t, ok)
			assert.Equal(t, oauth2.ErrorInvalidScope, failure.Code)
		})
	}
}

func TestResolveWithinGrantHint(t *testing.T) {
	f := setupTestFixture(t)

	resolved, err := f.resolver.Resolve(context.Background(), f.client,
		[]string{"api1.read"}, []string{"api1.read", "api1.write"})

	require.NoError(t, err)
	assert.Equal(t, []string{"api1.read"}, resolved)
}

func TestResolveScopeClientLacksIsRejectedEvenIfResourceExposesIt(t *testing.T) {
	f := setupTestFixture(t)
	f.client.AllowedScopes = []string{"api1.read"}

	_, err := f.resolver.Resolve(context.Background(), f.client, []string{"api2.read"}, nil)

	require.Error(t, err)
	failure, ok := oauth2.AsValidationFailure(err)
	require.True(t, ok)
	assert.Equal(t, oauth2.ErrorInvalidScope, failure.Code)
}

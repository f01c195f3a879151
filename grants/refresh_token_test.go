package grants_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-token-issuer/grants"
	"github.com/jrsteele09/go-token-issuer/oauth2"
)

func (f *testFixture) seedRefreshToken(t *testing.T, token *grants.RefreshToken) {
	t.Helper()
	if token.CreatedAt.IsZero() {
		token.CreatedAt = testNow.Add(-time.Hour)
	}
	if token.ExpiresAt.IsZero() {
		token.ExpiresAt = testNow.Add(24 * time.Hour)
	}
	require.NoError(t, f.refreshRepo.Create(context.Background(), token))
}

func refreshRequest(value string) *oauth2.TokenRequest {
	return &oauth2.TokenRequest{
		GrantType: oauth2.RefreshTokenGrant,
		ClientID:  testClientID,
		Params:    map[string]string{oauth2.ParamRefreshToken: value},
	}
}

func TestRefreshTokenGrant(t *testing.T) {
	f := setupTestFixture(t)
	f.seedRefreshToken(t, &grants.RefreshToken{
		Value:    "rt-1",
		ClientID: testClientID,
		Subject:  testSubject,
		Scopes:   []string{"api1"},
	})

	grant, err := f.validator.Validate(context.Background(), refreshRequest("rt-1"), f.client)

	require.NoError(t, err)
	assert.Equal(t, testSubject, grant.Subject)
	assert.Equal(t, []string{"api1"}, grant.Scopes)
	assert.Equal(t, []string{oauth2.AMRPwd}, grant.AuthMethods)
	assert.NotContains(t, grant.Extra, grants.ExtraRotatedRefreshToken)

	// Without rotation the token remains redeemable.
	_, err = f.validator.Validate(context.Background(), refreshRequest("rt-1"), f.client)
	require.NoError(t, err)
}

func TestRefreshTokenRotation(t *testing.T) {
	f := setupTestFixture(t)
	f.client.RotateRefreshTokens = true
	f.seedRefreshToken(t, &grants.RefreshToken{
		Value:    "rt-rotate",
		ClientID: testClientID,
		Subject:  testSubject,
		Scopes:   []string{"api1"},
	})

	grant, err := f.validator.Validate(context.Background(), refreshRequest("rt-rotate"), f.client)
	require.NoError(t, err)

	rotated, ok := grant.Extra[grants.ExtraRotatedRefreshToken].(string)
	require.True(t, ok)
	require.NotEmpty(t, rotated)
	assert.NotEqual(t, "rt-rotate", rotated)

	// The old value is dead; the rotated one redeems.
	_, err = f.validator.Validate(context.Background(), refreshRequest("rt-rotate"), f.client)
	requireFailure(t, err, oauth2.ErrorInvalidGrant)

	next, err := f.validator.Validate(context.Background(), refreshRequest(rotated), f.client)
	require.NoError(t, err)
	assert.Equal(t, testSubject, next.Subject)
	assert.Equal(t, []string{"api1"}, next.Scopes)
}

func TestRefreshTokenRejections(t *testing.T) {
	f := setupTestFixture(t)
	f.seedRefreshToken(t, &grants.RefreshToken{
		Value:     "rt-expired",
		ClientID:  testClientID,
		Subject:   testSubject,
		ExpiresAt: testNow.Add(-time.Minute),
	})
	f.seedRefreshToken(t, &grants.RefreshToken{
		Value:    "rt-foreign",
		ClientID: "someone-else",
		Subject:  testSubject,
	})

	tests := []struct {
		name  string
		value string
	}{
		{name: "missing token", value: ""},
		{name: "unknown token", value: "never-issued"},
		{name: "expired token", value: "rt-expired"},
		{name: "token bound to another client", value: "rt-foreign"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.validator.Validate(context.Background(), refreshRequest(tc.value), f.client)
			requireFailure(t, err, oauth2.ErrorInvalidGrant)
		})
	}
}

func TestRefreshTokenExpiredIsRemoved(t *testing.T) {
	f := setupTestFixture(t)
	f.seedRefreshToken(t, &grants.RefreshToken{
		Value:     "rt-stale",
		ClientID:  testClientID,
		Subject:   testSubject,
		ExpiresAt: testNow.Add(-time.Minute),
	})

	_, err := f.validator.Validate(context.Background(), refreshRequest("rt-stale"), f.client)
	requireFailure(t, err, oauth2.ErrorInvalidGrant)

	_, err = f.refreshRepo.Get(context.Background(), "rt-stale")
	assert.True(t, errors.Is(err, grants.ErrNotFound))
}

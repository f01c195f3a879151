package grants_test

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-token-issuer/grants"
	"github.com/jrsteele09/go-token-issuer/oauth2"
)

func (f *testFixture) seedCode(t *testing.T, code *grants.AuthorizationCode) {
	t.Helper()
	if code.CreatedAt.IsZero() {
		code.CreatedAt = testNow.Add(-time.Minute)
	}
	if code.ExpiresAt.IsZero() {
		code.ExpiresAt = testNow.Add(5 * time.Minute)
	}
	require.NoError(t, f.codeRepo.Upsert(context.Background(), code))
}

func codeRequest(code, verifier string) *oauth2.TokenRequest {
	params := map[string]string{oauth2.ParamCode: code}
	if verifier != "" {
		params[oauth2.ParamCodeVerifier] = verifier
	}
	return &oauth2.TokenRequest{
		GrantType: oauth2.AuthorizationCodeGrant,
		ClientID:  testClientID,
		Params:    params,
	}
}

func TestAuthorizationCodeRedemption(t *testing.T) {
	f := setupTestFixture(t)
	f.seedCode(t, &grants.AuthorizationCode{
		Code:     "code-1",
		ClientID: testClientID,
		Subject:  testSubject,
		Scopes:   []string{"api1", "openid"},
		Nonce:    "n-0S6_WzA2Mj",
	})

	grant, err := f.validator.Validate(context.Background(), codeRequest("code-1", ""), f.client)

	require.NoError(t, err)
	assert.Equal(t, testSubject, grant.Subject)
	assert.Equal(t, testClientID, grant.ClientID)
	assert.Equal(t, []string{"api1", "openid"}, grant.Scopes)
	assert.Equal(t, []string{oauth2.AMRPwd}, grant.AuthMethods)
	assert.Equal(t, "n-0S6_WzA2Mj", grant.Extra[grants.ExtraNonce])
}

func TestAuthorizationCodeRejections(t *testing.T) {
	f := setupTestFixture(t)
	f.seedCode(t, &grants.AuthorizationCode{
		Code:      "expired",
		ClientID:  testClientID,
		Subject:   testSubject,
		ExpiresAt: testNow.Add(-time.Second),
	})
	f.seedCode(t, &grants.AuthorizationCode{
		Code:     "other-client",
		ClientID: "someone-else",
		Subject:  testSubject,
	})

	tests := []struct {
		name string
		code string
	}{
		{name: "missing code", code: ""},
		{name: "unknown code", code: "never-issued"},
		{name: "expired code", code: "expired"},
		{name: "code bound to another client", code: "other-client"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.validator.Validate(context.Background(), codeRequest(tc.code, ""), f.client)
			requireFailure(t, err, oauth2.ErrorInvalidGrant)
		})
	}
}

func TestAuthorizationCodeSingleUse(t *testing.T) {
	f := setupTestFixture(t)
	f.seedCode(t, &grants.AuthorizationCode{
		Code:     "once",
		ClientID: testClientID,
		Subject:  testSubject,
	})

	_, err := f.validator.Validate(context.Background(), codeRequest("once", ""), f.client)
	require.NoError(t, err)

	_, err = f.validator.Validate(context.Background(), codeRequest("once", ""), f.client)
	requireFailure(t, err, oauth2.ErrorInvalidGrant)
}

func TestAuthorizationCodeConcurrentRedemption(t *testing.T) {
	f := setupTestFixture(t)
	f.seedCode(t, &grants.AuthorizationCode{
		Code:     "racy",
		ClientID: testClientID,
		Subject:  testSubject,
	})

	const attempts = 16
	results := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			_, results[slot] = f.validator.Validate(context.Background(), codeRequest("racy", ""), f.client)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
		}
	}
	assert.Equal(t, 1, successes, "exactly one concurrent redemption may win")
}

func TestAuthorizationCodePKCE(t *testing.T) {
	f := setupTestFixture(t)

	verifier := "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
	hash := sha256.Sum256([]byte(verifier))
	challenge := base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(hash[:])

	f.seedCode(t, &grants.AuthorizationCode{
		Code:                "pkce-s256",
		ClientID:            testClientID,
		Subject:             testSubject,
		CodeChallenge:       challenge,
		CodeChallengeMethod: oauth2.CodeMethodTypeS256,
	})
	f.seedCode(t, &grants.AuthorizationCode{
		Code:                "pkce-plain",
		ClientID:            testClientID,
		Subject:             testSubject,
		CodeChallenge:       verifier,
		CodeChallengeMethod: oauth2.CodeMethodTypeNone,
	})

	tests := []struct {
		name     string
		code     string
		verifier string
		wantOK   bool
	}{
		// Rejections first: a successful redemption consumes the code.
		{name: "S256 wrong verifier", code: "pkce-s256", verifier: "wrong-verifier", wantOK: false},
		{name: "S256 missing verifier", code: "pkce-s256", verifier: "", wantOK: false},
		{name: "plain wrong verifier", code: "pkce-plain", verifier: "wrong-verifier", wantOK: false},
		{name: "S256 matching verifier", code: "pkce-s256", verifier: verifier, wantOK: true},
		{name: "plain matching verifier", code: "pkce-plain", verifier: verifier, wantOK: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.validator.Validate(context.Background(), codeRequest(tc.code, tc.verifier), f.client)
			if tc.wantOK {
				require.NoError(t, err)
				return
			}
			requireFailure(t, err, oauth2.ErrorInvalidGrant)
		})
	}
}

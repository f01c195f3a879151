package response_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-token-issuer/grants"
	"github.com/jrsteele09/go-token-issuer/oauth2"
	"github.com/jrsteele09/go-token-issuer/response"
	"github.com/jrsteele09/go-token-issuer/token"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testIssued() *token.Issued {
	return &token.Issued{
		AccessToken:  "access.jwt.value",
		RefreshToken: "refresh-value",
		ExpiresAt:    testNow.Add(time.Hour).Unix(),
		Lifetime:     time.Hour,
	}
}

func testGrant() *grants.ValidatedGrant {
	return &grants.ValidatedGrant{
		GrantType:   oauth2.PasswordGrant,
		Subject:     "alice",
		ClientID:    "test-client",
		AuthMethods: []string{oauth2.AMRPassword},
	}
}

func marshalledFields(t *testing.T, resp *oauth2.Response) map[string]any {
	t.Helper()
	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	return fields
}

func TestGenerateSuccessResponse(t *testing.T) {
	generator := response.NewGenerator(response.WithNowTime(func() time.Time { return testNow }))

	resp, err := generator.Generate(context.Background(), testIssued(), testGrant(), &oauth2.TokenRequest{}, []string{"api1.read", "api2.read"})

	require.NoError(t, err)
	assert.Equal(t, "access.jwt.value", resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, "api1.read api2.read", resp.Scope)
	assert.False(t, resp.IsError())
}

func TestGenerateExpiresInIsFlooredAtZero(t *testing.T) {
	issued := testIssued()
	issued.ExpiresAt = testNow.Add(-time.Minute).Unix()
	generator := response.NewGenerator(response.WithNowTime(func() time.Time { return testNow }))

	resp, err := generator.Generate(context.Background(), issued, testGrant(), &oauth2.TokenRequest{}, nil)

	require.NoError(t, err)
	assert.Equal(t, 0, resp.ExpiresIn)
}

func TestFailureResponseShape(t *testing.T) {
	generator := response.NewGenerator()

	resp := generator.Failure(oauth2.NewValidationFailure(oauth2.ErrorInvalidGrant, "invalid_credential"))

	require.True(t, resp.IsError())
	fields := marshalledFields(t, resp)
	assert.Equal(t, "invalid_grant", fields["error"])
	assert.Equal(t, "invalid_credential", fields["error_description"])
	assert.Len(t, fields, 2, "failure responses carry exactly error and error_description")
}

type fieldsHook struct {
	fields map[string]any
	err    error

	sawGrant   *grants.ValidatedGrant
	sawRequest *oauth2.TokenRequest
}

func (h *fieldsHook) Augment(_ context.Context, _ *oauth2.Response, hookCtx response.HookContext) (map[string]any, error) {
	h.sawGrant = hookCtx.Grant
	h.sawRequest = hookCtx.Request
	return h.fields, h.err
}

func TestGenerateHookMergesAdditively(t *testing.T) {
	hook := &fieldsHook{fields: map[string]any{
		"dto":        map[string]any{"region": "eu"},
		"session_id": "s-123",
	}}
	generator := response.NewGenerator(
		response.WithNowTime(func() time.Time { return testNow }),
		response.WithHook(hook),
	)

	grant := testGrant()
	request := &oauth2.TokenRequest{GrantType: oauth2.PasswordGrant, ClientID: "test-client"}
	resp, err := generator.Generate(context.Background(), testIssued(), grant, request, []string{"api1.read"})

	require.NoError(t, err)
	assert.Same(t, grant, hook.sawGrant)
	assert.Same(t, request, hook.sawRequest)

	fields := marshalledFields(t, resp)
	assert.Equal(t, map[string]any{"region": "eu"}, fields["dto"])
	assert.Equal(t, "s-123", fields["session_id"])
	assert.Equal(t, "access.jwt.value", fields["access_token"])
}

func TestGenerateHookCannotDisplaceReservedFields(t *testing.T) {
	hook := &fieldsHook{fields: map[string]any{
		"access_token": "forged",
		"expires_in":   999999,
		"error":        "injected",
		"dto":          "kept",
	}}
	generator := response.NewGenerator(
		response.WithNowTime(func() time.Time { return testNow }),
		response.WithHook(hook),
	)

	resp, err := generator.Generate(context.Background(), testIssued(), testGrant(), &oauth2.TokenRequest{}, nil)

	require.NoError(t, err)
	fields := marshalledFields(t, resp)
	assert.Equal(t, "access.jwt.value", fields["access_token"])
	assert.Equal(t, float64(3600), fields["expires_in"])
	assert.NotContains(t, fields, "error")
	assert.Equal(t, "kept", fields["dto"])
}

func TestGenerateHookFailureFailsTheRequest(t *testing.T) {
	hook := &fieldsHook{err: errors.New("downstream unavailable")}
	generator := response.NewGenerator(
		response.WithNowTime(func() time.Time { return testNow }),
		response.WithHook(hook),
	)

	_, err := generator.Generate(context.Background(), testIssued(), testGrant(), &oauth2.TokenRequest{}, nil)

	require.Error(t, err)
	_, isValidation := oauth2.AsValidationFailure(err)
	assert.False(t, isValidation, "hook failures surface as infrastructure errors")
}

func TestResponseSuccessXorFailureShape(t *testing.T) {
	success := &oauth2.Response{
		AccessToken: "access.jwt.value",
		TokenType:   oauth2.TokenTypeBearer,
		ExpiresIn:   3600,
		Scope:       "api1.read",
	}
	failure := oauth2.NewErrorResponse(oauth2.NewValidationFailure(oauth2.ErrorInvalidScope, "unknown scope"))

	successFields := marshalledFields(t, success)
	failureFields := marshalledFields(t, failure)

	assert.Contains(t, successFields, "access_token")
	assert.Contains(t, successFields, "expires_in")
	assert.NotContains(t, successFields, "error")
	assert.NotContains(t, successFields, "error_description")

	assert.Contains(t, failureFields, "error")
	assert.Contains(t, failureFields, "error_description")
	assert.NotContains(t, failureFields, "access_token")
	assert.NotContains(t, failureFields, "expires_in")
	assert.NotContains(t, failureFields, "token_type")
}

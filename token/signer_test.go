package token_test

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-token-issuer/token"
)

func signAndVerify(t *testing.T, signer token.Signer) jwt.MapClaims {
	t.Helper()

	signed, err := signer.Sign(jwt.MapClaims{"sub": "alice", "custom": "value"})
	require.NoError(t, err)

	parsed, err := jwt.Parse(signed, signer.GetVerificationKey)
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	return mapClaims
}

func TestHMACSignerRoundTrip(t *testing.T) {
	signer := token.NewHMACSigner("test-secret")

	claims := signAndVerify(t, signer)

	assert.Equal(t, "alice", claims["sub"])
	assert.Equal(t, "value", claims["custom"])
	assert.Equal(t, jwt.SigningMethodHS256, signer.GetSigningMethod())
}

func TestKeyPairSignerRoundTrip(t *testing.T) {
	keyPair, err := token.GenerateRSAKeyPair("test-key", 2048)
	require.NoError(t, err)
	signer := token.NewKeyPairSigner(keyPair)

	claims := signAndVerify(t, signer)

	assert.Equal(t, "alice", claims["sub"])
	assert.Equal(t, jwt.SigningMethodRS256, signer.GetSigningMethod())
}

func TestKeyPairSignerSetsKeyIDHeader(t *testing.T) {
	keyPair, err := token.GenerateRSAKeyPair("test-key", 2048)
	require.NoError(t, err)
	signer := token.NewKeyPairSigner(keyPair)

	signed, err := signer.Sign(jwt.MapClaims{"sub": "alice"})
	require.NoError(t, err)

	parsed, _, err := jwt.NewParser().ParseUnverified(signed, jwt.MapClaims{})
	require.NoError(t, err)
	assert.Equal(t, "test-key", parsed.Header["kid"])
}

func TestKeyPairPEMRoundTrip(t *testing.T) {
	keyPair, err := token.GenerateRSAKeyPair("test-key", 2048)
	require.NoError(t, err)

	loaded, err := token.LoadRSAKeyPairFromPEM("test-key", keyPair.ExportPrivateKeyPEM())
	require.NoError(t, err)
	assert.True(t, keyPair.PrivateKey.Equal(loaded.PrivateKey))
}

func TestVerificationKeyRejectsWrongMethod(t *testing.T) {
	keyPair, err := token.GenerateRSAKeyPair("test-key", 2048)
	require.NoError(t, err)
	rsaSigner := token.NewKeyPairSigner(keyPair)
	hmacSigner := token.NewHMACSigner("test-secret")

	// An HMAC-signed token must not verify through the RSA signer and vice
	// versa: the verification key callback checks the signing method.
	hmacToken, err := hmacSigner.Sign(jwt.MapClaims{"sub": "alice"})
	require.NoError(t, err)
	_, err = jwt.Parse(hmacToken, rsaSigner.GetVerificationKey)
	assert.Error(t, err)

	rsaToken, err := rsaSigner.Sign(jwt.MapClaims{"sub": "alice"})
	require.NoError(t, err)
	_, err = jwt.Parse(rsaToken, hmacSigner.GetVerificationKey)
	assert.Error(t, err)
}

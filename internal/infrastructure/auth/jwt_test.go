package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maven/internal/shared/authorization"
)

func fixedExpiry(d time.Duration) ExpiryProvider {
	return func() time.Duration { return d }
}

func TestJWTServiceRoundTrip(t *testing.T) {
	svc, err := NewJWTService("", "maven", fixedExpiry(time.Hour))
	require.NoError(t, err)

	token, err := svc.Generate("urn:mvn:user:abc", "alice", authorization.RoleUploader)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, "urn:mvn:user:abc", claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, authorization.RoleUploader, claims.Role)
	assert.Equal(t, "maven", claims.Issuer)
}

func TestJWTServiceRejectsTamperedToken(t *testing.T) {
	svc, err := NewJWTService("", "maven", fixedExpiry(time.Hour))
	require.NoError(t, err)

	token, err := svc.Generate("urn:mvn:user:abc", "alice", authorization.RoleUser)
	require.NoError(t, err)

	_, err = svc.Verify(token + "x")
	assert.Error(t, err)

	_, err = svc.Verify("not-a-token")
	assert.Error(t, err)
}

func TestJWTServiceRejectsForeignKey(t *testing.T) {
	a, err := NewJWTService("", "maven", fixedExpiry(time.Hour))
	require.NoError(t, err)
	b, err := NewJWTService("", "maven", fixedExpiry(time.Hour))
	require.NoError(t, err)

	token, err := a.Generate("urn:mvn:user:abc", "alice", authorization.RoleUser)
	require.NoError(t, err)

	_, err = b.Verify(token)
	assert.Error(t, err)
}

func TestJWTServiceRejectsExpiredToken(t *testing.T) {
	svc, err := NewJWTService("", "maven", fixedExpiry(-time.Minute))
	require.NoError(t, err)

	token, err := svc.Generate("urn:mvn:user:abc", "alice", authorization.RoleUser)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.Error(t, err)
}

func TestJWTServiceExpiryProviderIsReadPerToken(t *testing.T) {
	expiry := time.Hour
	svc, err := NewJWTService("", "maven", func() time.Duration { return expiry })
	require.NoError(t, err)

	token, err := svc.Generate("urn:mvn:user:abc", "alice", authorization.RoleUser)
	require.NoError(t, err)
	claims, err := svc.Verify(token)
	require.NoError(t, err)
	firstExpiry := claims.ExpiresAt.Time

	expiry = 48 * time.Hour
	token, err = svc.Generate("urn:mvn:user:abc", "alice", authorization.RoleUser)
	require.NoError(t, err)
	claims, err = svc.Verify(token)
	require.NoError(t, err)

	assert.True(t, claims.ExpiresAt.After(firstExpiry.Add(24*time.Hour)))
}

func TestJWTServiceLoadsPEMKey(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)
	pemData := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der})

	svc, err := NewJWTService(string(pemData), "maven", fixedExpiry(time.Hour))
	require.NoError(t, err)

	// same key must yield a stable kid across restarts
	svc2, err := NewJWTService(string(pemData), "maven", fixedExpiry(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, svc.PublicJWKS().Keys[0].Kid, svc2.PublicJWKS().Keys[0].Kid)
}

func TestJWTServiceRejectsGarbagePEM(t *testing.T) {
	_, err := NewJWTService("not a pem", "maven", fixedExpiry(time.Hour))
	assert.Error(t, err)
}

func TestPublicJWKS(t *testing.T) {
	svc, err := NewJWTService("", "maven", fixedExpiry(time.Hour))
	require.NoError(t, err)

	jwks := svc.PublicJWKS()
	require.Len(t, jwks.Keys, 1)

	key := jwks.Keys[0]
	assert.Equal(t, "EC", key.Kty)
	assert.Equal(t, "P-256", key.Crv)
	assert.Equal(t, "ES256", key.Alg)
	assert.Equal(t, "sig", key.Use)
	assert.NotEmpty(t, key.X)
	assert.NotEmpty(t, key.Y)
	assert.Len(t, key.Kid, 16)

	token, err := svc.Generate("urn:mvn:user:abc", "alice", authorization.RoleUser)
	require.NoError(t, err)
	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.NotNil(t, claims)
}

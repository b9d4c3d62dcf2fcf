package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"maven/internal/shared/authorization"
)

// Claims carried by a session token. Tokens are valid until natural expiry;
// there is no server-side revocation, so role and password changes only take
// effect once outstanding tokens age out.
type Claims struct {
	Username string             `json:"username"`
	Role     authorization.Role `json:"role"`
	jwt.RegisteredClaims
}

// JWK is a single JSON Web Key in the published key set.
type JWK struct {
	Kty string `json:"kty"`
	Crv string `json:"crv"`
	X   string `json:"x"`
	Y   string `json:"y"`
	Kid string `json:"kid"`
	Alg string `json:"alg"`
	Use string `json:"use"`
}

// JWKS is the document served at /.well-known/jwks.json.
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// ExpiryProvider supplies the current token lifetime. It is read per token
// so admin changes apply without a restart.
type ExpiryProvider func() time.Duration

// JWTService mints and verifies ES256 session tokens.
type JWTService struct {
	key    *ecdsa.PrivateKey
	kid    string
	issuer string
	expiry ExpiryProvider
}

// NewJWTService builds the token service. privateKeyPEM may be empty, in
// which case a fresh P-256 key is generated; outstanding tokens then become
// invalid across restarts.
func NewJWTService(privateKeyPEM, issuer string, expiry ExpiryProvider) (*JWTService, error) {
	var key *ecdsa.PrivateKey
	if privateKeyPEM == "" {
		generated, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("failed to generate signing key: %w", err)
		}
		key = generated
	} else {
		parsed, err := parseECPrivateKey(privateKeyPEM)
		if err != nil {
			return nil, err
		}
		key = parsed
	}

	kid, err := keyID(&key.PublicKey)
	if err != nil {
		return nil, err
	}

	return &JWTService{
		key:    key,
		kid:    kid,
		issuer: issuer,
		expiry: expiry,
	}, nil
}

// Generate mints a session token for the given account.
func (s *JWTService) Generate(userURN, username string, role authorization.Role) (string, error) {
	now := time.Now().UTC()
	claims := &Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userURN,
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry())),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	token.Header["kid"] = s.kid

	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a session token.
func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return &s.key.PublicKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// PublicJWKS returns the verification key set for third parties.
func (s *JWTService) PublicJWKS() JWKS {
	pub := s.key.PublicKey
	byteLen := (pub.Curve.Params().BitSize + 7) / 8
	x := pub.X.FillBytes(make([]byte, byteLen))
	y := pub.Y.FillBytes(make([]byte, byteLen))

	return JWKS{Keys: []JWK{{
		Kty: "EC",
		Crv: "P-256",
		X:   base64.RawURLEncoding.EncodeToString(x),
		Y:   base64.RawURLEncoding.EncodeToString(y),
		Kid: s.kid,
		Alg: "ES256",
		Use: "sig",
	}}}
}

func parseECPrivateKey(pemData string) (*ecdsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(pemData))
	if block == nil {
		return nil, fmt.Errorf("failed to decode signing key PEM")
	}

	if key, err := x509.ParseECPrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse signing key: %w", err)
	}
	key, ok := parsed.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("signing key is not an EC key")
	}
	return key, nil
}

func keyID(pub *ecdsa.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("failed to marshal public key: %w", err)
	}
	sum := sha256.Sum256(der)
	return hex.EncodeToString(sum[:8]), nil
}

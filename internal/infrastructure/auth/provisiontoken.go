package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ProvisionClaims is the identity extracted from an externally issued
// provisioning token.
type ProvisionClaims struct {
	Subject string
	Name    string
	Email   string
}

// ProvisionTokenVerifier validates tokens minted by the external identity
// issuer. These are HMAC-signed with a shared secret, unlike the ES256
// session tokens this service mints itself.
type ProvisionTokenVerifier struct {
	secret []byte
}

func NewProvisionTokenVerifier(secret string) *ProvisionTokenVerifier {
	return &ProvisionTokenVerifier{secret: []byte(secret)}
}

// Configured reports whether a shared secret has been set. Provisioning is
// rejected outright when it has not.
func (v *ProvisionTokenVerifier) Configured() bool {
	return len(v.secret) > 0
}

// Verify parses the external token and resolves the subject id. The issuer
// has historically used both "sub" and "user_id" for the same logical field,
// so resolution tries "sub" first and falls back to "user_id".
func (v *ProvisionTokenVerifier) Verify(tokenString string) (*ProvisionClaims, error) {
	if !v.Configured() {
		return nil, fmt.Errorf("provisioning secret is not configured")
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse provisioning token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid provisioning token")
	}

	subject := stringClaim(claims, "sub")
	if subject == "" {
		subject = stringClaim(claims, "user_id")
	}
	if subject == "" {
		return nil, fmt.Errorf("provisioning token carries no subject")
	}

	return &ProvisionClaims{
		Subject: subject,
		Name:    stringClaim(claims, "name"),
		Email:   stringClaim(claims, "email"),
	}, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

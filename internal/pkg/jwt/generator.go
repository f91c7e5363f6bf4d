// internal/pkg/jwt/generator.go
package jwt

import (
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

type Generator struct {
	priv     *rsa.PrivateKey
	issuer   string
	audience string
	kid      string // key id for rotation
	TTL      time.Duration
}

func NewGenerator(priv *rsa.PrivateKey, issuer, audience, kid string, ttl time.Duration) *Generator {
	return &Generator{
		priv:     priv,
		issuer:   issuer,
		audience: audience,
		kid:      kid,
		TTL:      ttl,
	}
}

// Generate creates a signed access token and returns it with its JTI. The
// JTI doubles as the session key in the session store.
func (g *Generator) Generate(identityID int64, role string, organizationID int64, device string) (string, string, error) {
	if g.priv == nil {
		return "", "", fmt.Errorf("jwt generator has nil private key")
	}

	now := time.Now()
	jti := ulid.Make().String()

	claims := &Claims{
		IdentityID:     identityID,
		Role:           role,
		OrganizationID: organizationID,
		Device:         device,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    g.issuer,
			Subject:   fmt.Sprintf("%d", identityID),
			Audience:  []string{g.audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(g.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        jti,
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if g.kid != "" {
		tok.Header["kid"] = g.kid
	}

	signed, err := tok.SignedString(g.priv)
	return signed, jti, err
}

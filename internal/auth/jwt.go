// Package auth verifies bearer tokens issued by the external identity
// provider and resolves them to an owner id.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for any token that does not verify.
var ErrInvalidToken = errors.New("invalid token")

// DefaultTTL is the lifetime of tokens minted by IssueToken.
const DefaultTTL = 24 * time.Hour

// Claims are the identity provider's access token claims. The subject is
// the user's UUID.
type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Verifier checks HS256 tokens against a shared secret.
type Verifier struct {
	secret   []byte
	audience string
	issuer   string
}

// NewVerifier returns a verifier. Empty audience or issuer disables that check.
func NewVerifier(secret, audience, issuer string) *Verifier {
	return &Verifier{secret: []byte(secret), audience: audience, issuer: issuer}
}

// Verify parses a token and returns the owner id carried in its subject.
func (v *Verifier) Verify(token string) (uuid.UUID, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	owner, err := uuid.Parse(claims.Subject)
	if err != nil || owner == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: subject is not a user id", ErrInvalidToken)
	}
	return owner, nil
}

// IssueToken mints a token the verifier accepts. It is used for local
// development and tests; production tokens come from the identity provider.
func (v *Verifier) IssueToken(subject uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.String(),
			ID:        uuid.NewString(),
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if v.audience != "" {
		claims.Audience = jwt.ClaimStrings{v.audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	v := NewVerifier("test-secret", "authenticated", "https://id.example.com")
	sub := uuid.New()

	token, err := v.IssueToken(sub, time.Hour)
	require.NoError(t, err)

	owner, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, sub, owner)
}

func TestVerify_Rejects(t *testing.T) {
	v := NewVerifier("test-secret", "authenticated", "issuer-a")
	sub := uuid.New()

	sign := func(secret string, claims jwt.Claims, method jwt.SigningMethod) string {
		t.Helper()
		s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}
	valid := func() jwt.RegisteredClaims {
		return jwt.RegisteredClaims{
			Subject:   sub.String(),
			Audience:  jwt.ClaimStrings{"authenticated"},
			Issuer:    "issuer-a",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
	}

	expired := valid()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	wrongAud := valid()
	wrongAud.Audience = jwt.ClaimStrings{"anon"}
	wrongIss := valid()
	wrongIss.Issuer = "issuer-b"
	badSub := valid()
	badSub.Subject = "42"
	noExp := valid()
	noExp.ExpiresAt = nil

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", sign("other", valid(), jwt.SigningMethodHS256)},
		{"wrong method", sign("test-secret", valid(), jwt.SigningMethodHS512)},
		{"expired", sign("test-secret", expired, jwt.SigningMethodHS256)},
		{"wrong audience", sign("test-secret", wrongAud, jwt.SigningMethodHS256)},
		{"wrong issuer", sign("test-secret", wrongIss, jwt.SigningMethodHS256)},
		{"subject not uuid", sign("test-secret", badSub, jwt.SigningMethodHS256)},
		{"no expiry", sign("test-secret", noExp, jwt.SigningMethodHS256)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestVerify_OptionalChecks(t *testing.T) {
	v := NewVerifier("s", "", "")
	token, err := NewVerifier("s", "anything", "whoever").IssueToken(uuid.New(), time.Minute)
	require.NoError(t, err)

	_, err = v.Verify(token)
	assert.NoError(t, err)
}

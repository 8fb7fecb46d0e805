package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/catalog-server/internal/model"
)

func TestJWT_Roundtrip(t *testing.T) {
	j := NewJWT("secret", time.Minute)

	token, err := j.Issue("admin@example.com")
	require.NoError(t, err)

	subject, err := j.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "admin@example.com", subject)
}

func TestJWT_IssueIsUnique(t *testing.T) {
	j := NewJWT("secret", time.Minute)

	first, err := j.Issue("a@example.com")
	require.NoError(t, err)
	second, err := j.Issue("a@example.com")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestJWT_DefaultTTL(t *testing.T) {
	j := NewJWT("secret", 0)
	assert.Equal(t, DefaultTTL, j.ttl)
}

func TestJWT_Verify_Rejects(t *testing.T) {
	j := NewJWT("secret", time.Minute)
	valid, err := j.Issue("a@example.com")
	require.NoError(t, err)

	parts := strings.Split(valid, ".")
	require.Len(t, parts, 3)

	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	otherSecret, err := NewJWT("other", time.Minute).Issue("a@example.com")
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "a@example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "a@example.com",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-token"},
		{name: "tampered signature", token: tampered},
		{name: "wrong secret", token: otherSecret},
		{name: "none algorithm", token: unsigned},
		{name: "missing subject", token: noSubject},
		{name: "missing expiry", token: noExpiry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, err := j.Verify(tt.token)
			require.ErrorIs(t, err, model.ErrTokenMalformed)
			require.ErrorIs(t, err, model.ErrUnauthorized)
			assert.Empty(t, subject)
		})
	}
}

func TestJWT_Verify_Expired(t *testing.T) {
	j := NewJWT("secret", time.Minute)
	j.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := j.Issue("a@example.com")
	require.NoError(t, err)

	j.now = time.Now
	_, err = j.Verify(token)
	require.ErrorIs(t, err, model.ErrTokenExpired)
	require.ErrorIs(t, err, model.ErrUnauthorized)
}

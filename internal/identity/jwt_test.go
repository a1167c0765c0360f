package identity

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret-0123456789"

func TestJWTRoundTrip(t *testing.T) {
	v, err := NewJWTVerifier(secret)
	require.NoError(t, err)

	token, err := v.Issue("user-1", time.Hour)
	require.NoError(t, err)

	uid, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", uid)
}

func TestJWTRejects(t *testing.T) {
	v, err := NewJWTVerifier(secret)
	require.NoError(t, err)
	other, err := NewJWTVerifier("another-secret-0123456789")
	require.NoError(t, err)

	expired := &JWTVerifier{secret: v.secret, now: func() time.Time { return time.Now().Add(-2 * time.Hour) }}
	expiredToken, err := expired.Issue("user-1", time.Hour)
	require.NoError(t, err)

	foreign, err := other.Issue("user-1", time.Hour)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{}).SignedString([]byte(secret))
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "user-1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":    "not-a-token",
		"expired":    expiredToken,
		"wrong key":  foreign,
		"no user id": noSubject,
		"alg none":   none,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), token)
			assert.ErrorIs(t, err, ErrInvalidCredential)
		})
	}
}

func TestNewJWTVerifierShortSecret(t *testing.T) {
	_, err := NewJWTVerifier("short")
	assert.Error(t, err)
}

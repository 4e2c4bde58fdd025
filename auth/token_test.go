package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	token, err := svc.Issue(Claims{Email: "learner@camp.io", Name: "Lea"})
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "learner@camp.io", claims.Email)
	assert.Equal(t, "Lea", claims.Name)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestIssueRequiresEmail(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	_, err := svc.Issue(Claims{Name: "nobody"})
	assert.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := svc.Issue(Claims{Email: "late@camp.io"})
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	token, err := NewTokenService("other", time.Hour).Issue(Claims{Email: "x@camp.io"})
	require.NoError(t, err)

	_, err = NewTokenService("secret", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsUnsignedToken(t *testing.T) {
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Email: "admin@camp.io",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenService("secret", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyEmptyTokenIsMissing(t *testing.T) {
	_, err := NewTokenService("secret", time.Hour).Verify("  ")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestBearerToken(t *testing.T) {
	cases := map[string]error{
		"":               ErrMissingToken,
		"Bearer":         ErrMissingToken,
		"Basic abc":      ErrMissingToken,
		"Bearer abc.def": nil,
		"bearer abc.def": nil,
	}
	for header, want := range cases {
		token, err := BearerToken(header)
		if want != nil {
			assert.ErrorIs(t, err, want, header)
			continue
		}
		require.NoError(t, err, header)
		assert.Equal(t, "abc.def", token)
	}
}

package identity

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servease/servease/internal/constants"
)

const testSecret = "test-secret-key"

func signUserToken(t *testing.T, userId uuid.UUID, audience, issuer, secret string) string {
	t.Helper()
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Audience:  jwt.ClaimStrings{audience},
		Issuer:    issuer,
		Subject:   userId.String(),
		ExpiresAt: jwt.NewNumericDate(now.Add(30 * time.Minute)),
		IssuedAt:  jwt.NewNumericDate(now),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestVerifyUserToken(t *testing.T) {
	c := context.Background()
	userId := uuid.New()
	token := signUserToken(t, userId, constants.AUDIENCE_USER, constants.APP_USER_SERVICE, testSecret)

	verified, err := VerifyUserToken(c, token, testSecret)

	require.NoError(t, err)
	assert.Equal(t, userId, verified)
}

func TestVerifyUserTokenWrongSecret(t *testing.T) {
	c := context.Background()
	token := signUserToken(t, uuid.New(), constants.AUDIENCE_USER, constants.APP_USER_SERVICE, "other-secret")

	_, err := VerifyUserToken(c, token, testSecret)

	assert.Error(t, err)
}

func TestVerifyUserTokenWrongAudience(t *testing.T) {
	c := context.Background()
	token := signUserToken(t, uuid.New(), constants.AUDIENCE_GUEST, constants.APP_USER_SERVICE, testSecret)

	_, err := VerifyUserToken(c, token, testSecret)

	assert.Error(t, err)
}

func TestVerifyUserTokenWrongIssuer(t *testing.T) {
	c := context.Background()
	token := signUserToken(t, uuid.New(), constants.AUDIENCE_USER, constants.APP_CART_SERVICE, testSecret)

	_, err := VerifyUserToken(c, token, testSecret)

	assert.Error(t, err)
}

func TestVerifyUserTokenExpired(t *testing.T) {
	c := context.Background()
	past := time.Now().Add(-time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Audience:  jwt.ClaimStrings{constants.AUDIENCE_USER},
		Issuer:    constants.APP_USER_SERVICE,
		Subject:   uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(past.Add(time.Minute)),
		IssuedAt:  jwt.NewNumericDate(past),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = VerifyUserToken(c, signed, testSecret)

	assert.Error(t, err)
}

func TestGuestTokenRoundTrip(t *testing.T) {
	c := context.Background()

	token, sessionId, err := MintGuestToken(c, testSecret)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	verified, err := VerifyGuestToken(c, token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, sessionId, verified)
}

func TestVerifyGuestTokenRejectsUserToken(t *testing.T) {
	c := context.Background()
	token := signUserToken(t, uuid.New(), constants.AUDIENCE_USER, constants.APP_USER_SERVICE, testSecret)

	_, err := VerifyGuestToken(c, token, testSecret)

	assert.Error(t, err)
}

func TestVerifyGuestTokenRejectsStaleVersion(t *testing.T) {
	c := context.Background()
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, guestClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{constants.AUDIENCE_GUEST},
			Issuer:    constants.APP_CART_SERVICE,
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionLifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Version: sessionVersion + 1,
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = VerifyGuestToken(c, signed, testSecret)

	assert.Error(t, err)
}

func TestPrincipalOwner(t *testing.T) {
	userId := uuid.New()
	sessionId := uuid.New()

	authenticated := Authenticated(userId)
	assert.Equal(t, userId, authenticated.Owner())
	assert.True(t, authenticated.Known())
	assert.Equal(t, "user:"+userId.String(), authenticated.String())

	anonymous := Anonymous(sessionId)
	assert.Equal(t, sessionId, anonymous.Owner())
	assert.False(t, anonymous.Known())
	assert.Equal(t, "guest:"+sessionId.String(), anonymous.String())
}

func TestPrincipalContextRoundTrip(t *testing.T) {
	c := context.Background()

	_, ok := PrincipalFromContext(c)
	assert.False(t, ok)

	principal := Authenticated(uuid.New())
	c = AttachPrincipalToContext(c, principal)

	got, ok := PrincipalFromContext(c)
	require.True(t, ok)
	assert.Equal(t, principal, got)
}

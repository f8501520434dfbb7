package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/servease/servease/internal/constants"
	inErrors "github.com/servease/servease/internal/errors"
	inOtel "github.com/servease/servease/internal/otel"
)

const (
	SessionCookie = "servease_session"

	// SessionLifetime keeps an anonymous cart reachable for 30 days.
	SessionLifetime = 30 * 24 * time.Hour

	// sessionVersion is embedded in every guest token; bump it to
	// invalidate all outstanding anonymous sessions at once.
	sessionVersion = 1
)

type guestClaims struct {
	jwt.RegisteredClaims
	Version int `json:"ver"`
}

// MintGuestToken issues a fresh signed anonymous session token. The token
// is self-contained: the session id is its subject, so the client cookie
// is the only place it needs to live.
func MintGuestToken(c context.Context, secretKey string) (string, uuid.UUID, error) {
	c, span := inOtel.Tracer.Start(c, "identity MintGuestToken")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(constants.KEY_TAG, "identity MintGuestToken").
		Logger()

	sessionId := uuid.New()
	now := time.Now()
	token := jwt.NewWithClaims(
		jwt.SigningMethodHS256,
		guestClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Audience:  jwt.ClaimStrings{constants.AUDIENCE_GUEST},
				Issuer:    constants.APP_CART_SERVICE,
				Subject:   sessionId.String(),
				ExpiresAt: jwt.NewNumericDate(now.Add(SessionLifetime)),
				IssuedAt:  jwt.NewNumericDate(now),
			},
			Version: sessionVersion,
		},
	)

	signed, err := token.SignedString([]byte(secretKey))
	if err != nil {
		err = fmt.Errorf("failed signing guest token with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return "", uuid.Nil, err
	}
	logger.Trace().Str(constants.KEY_SESSION_ID, sessionId.String()).Msg("minted guest token")

	return signed, sessionId, nil
}

// VerifyGuestToken validates an anonymous session token and returns its
// session id. A stale version is treated the same as a bad signature.
func VerifyGuestToken(c context.Context, token string, secretKey string) (uuid.UUID, error) {
	c, span := inOtel.Tracer.Start(c, "identity VerifyGuestToken")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(constants.KEY_TAG, "identity VerifyGuestToken").
		Logger()

	claims := guestClaims{}
	jwtToken, err := jwt.ParseWithClaims(token,
		&claims,
		func(t *jwt.Token) (interface{}, error) {
			return []byte(secretKey), nil
		},
		jwt.WithAudience(constants.AUDIENCE_GUEST),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithIssuer(constants.APP_CART_SERVICE),
	)
	if err != nil {
		err = fmt.Errorf("failed parsing guest token with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Trace().Err(err).Msg(err.Error())
		return uuid.Nil, err
	}
	if !jwtToken.Valid || claims.Version != sessionVersion {
		err = fmt.Errorf("failed validating guest token with error=%w", inErrors.ErrTokenInvalid)
		inOtel.RecordError(err, span)
		logger.Trace().Err(err).Msg(err.Error())
		return uuid.Nil, inErrors.ErrTokenInvalid
	}

	sessionId, err := uuid.Parse(claims.Subject)
	if err != nil {
		err = fmt.Errorf("failed parsing subject=%s with error=%w", claims.Subject, err)
		inOtel.RecordError(err, span)
		logger.Trace().Err(err).Msg(err.Error())
		return uuid.Nil, err
	}

	return sessionId, nil
}

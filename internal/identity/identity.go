package identity

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/servease/servease/internal/constants"
	inErrors "github.com/servease/servease/internal/errors"
	inOtel "github.com/servease/servease/internal/otel"
)

type Kind string

const (
	KindAuthenticated Kind = "user"
	KindAnonymous     Kind = "guest"
)

// Principal is the identity a cart is scoped to: a verified user or a
// durable anonymous session. Exactly one of UserID/SessionID is set.
type Principal struct {
	Kind      Kind
	UserID    uuid.UUID
	SessionID uuid.UUID
}

func Authenticated(userId uuid.UUID) Principal {
	return Principal{Kind: KindAuthenticated, UserID: userId}
}

func Anonymous(sessionId uuid.UUID) Principal {
	return Principal{Kind: KindAnonymous, SessionID: sessionId}
}

// Owner returns the identifier cart state is keyed by.
func (p Principal) Owner() uuid.UUID {
	if p.Kind == KindAuthenticated {
		return p.UserID
	}
	return p.SessionID
}

func (p Principal) Known() bool {
	return p.Kind == KindAuthenticated
}

func (p Principal) String() string {
	return fmt.Sprintf("%s:%s", p.Kind, p.Owner().String())
}

type principalKey struct{}

func AttachPrincipalToContext(c context.Context, p Principal) context.Context {
	return context.WithValue(c, principalKey{}, p)
}

func PrincipalFromContext(c context.Context) (Principal, bool) {
	p, ok := c.Value(principalKey{}).(Principal)
	return p, ok
}

// VerifyUserToken parses and validates a bearer token issued by the user
// service and returns the subject user id.
func VerifyUserToken(c context.Context, token string, secretKey string) (uuid.UUID, error) {
	c, span := inOtel.Tracer.Start(c, "identity VerifyUserToken")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(constants.KEY_TAG, "identity VerifyUserToken").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "parsing claims").Logger()
	logger.Trace().Msg("parsing claims")
	jwtToken, err := jwt.ParseWithClaims(token,
		&jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			return []byte(secretKey), nil
		},
		jwt.WithAudience(constants.AUDIENCE_USER),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithIssuer(constants.APP_USER_SERVICE),
	)
	if err != nil {
		err = fmt.Errorf("failed parsing claims with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Trace().Err(err).Msg(err.Error())
		return uuid.Nil, err
	}
	if !jwtToken.Valid {
		err = fmt.Errorf("failed validating token with error=%w", inErrors.ErrTokenInvalid)
		inOtel.RecordError(err, span)
		logger.Trace().Err(err).Msg(err.Error())
		return uuid.Nil, inErrors.ErrTokenInvalid
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "parsing subject").Logger()
	subject, err := jwtToken.Claims.GetSubject()
	if err != nil {
		err = fmt.Errorf("failed getting subject with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return uuid.Nil, err
	}
	userId, err := uuid.Parse(subject)
	if err != nil {
		err = fmt.Errorf("failed parsing subject=%s with error=%w", subject, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return uuid.Nil, err
	}
	logger.Trace().Str(constants.KEY_USER_ID, userId.String()).Msg("verified user token")

	return userId, nil
}

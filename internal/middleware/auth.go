package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/servease/servease/internal/config"
	"github.com/servease/servease/internal/constants"
	inErrors "github.com/servease/servease/internal/errors"
	inHttp "github.com/servease/servease/internal/http"
	"github.com/servease/servease/internal/identity"
)

// Auth rejects requests without a valid bearer token. Used on surfaces
// where anonymous access makes no sense (catalog writes), unlike the
// cart's Identity middleware which degrades instead.
func Auth(cfg config.Application) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := zerolog.Ctx(r.Context()).
				With().
				Str(constants.KEY_TAG, "middleware Auth").
				Logger()
			c := logger.WithContext(r.Context())

			authorization := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authorization, "Bearer ")
			if !ok || token == "" {
				logger.Error().Err(inErrors.ErrEmptyAuth).Msg(inErrors.ErrEmptyAuth.Error())
				inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
					"status":     "failed",
					"statusCode": http.StatusUnauthorized,
					"message":    inErrors.ErrEmptyAuth.Error(),
				})
				return
			}

			userId, err := identity.VerifyUserToken(c, token, cfg.SecretKey)
			if err != nil {
				logger.Error().Err(err).Msg(err.Error())
				inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
					"status":     "failed",
					"statusCode": http.StatusUnauthorized,
					"message":    inErrors.ErrTokenInvalid.Error(),
				})
				return
			}

			c = identity.AttachPrincipalToContext(c, identity.Authenticated(userId))
			next.ServeHTTP(w, r.WithContext(c))
		})
	}
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/servease/servease/internal/config"
	"github.com/servease/servease/internal/constants"
	"github.com/servease/servease/internal/identity"
	"github.com/servease/servease/internal/otel"
)

// Identity resolves the acting principal for every request. A valid
// bearer token wins; anything else falls back to the anonymous session
// cookie, minting a fresh one when the cookie is absent or unusable.
// Credential problems never fail the request.
func Identity(cfg config.Application) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, span := otel.Tracer.Start(r.Context(), "middleware Identity")
			defer span.End()

			logger := zerolog.Ctx(c).
				With().
				Str(constants.KEY_TAG, "middleware Identity").
				Logger()

			authorization := r.Header.Get("Authorization")
			if token, ok := strings.CutPrefix(authorization, "Bearer "); ok && token != "" {
				c = logger.WithContext(c)
				userId, err := identity.VerifyUserToken(c, token, cfg.SecretKey)
				if err == nil {
					principal := identity.Authenticated(userId)
					logger = logger.With().
						Str(constants.KEY_PRINCIPAL, principal.String()).
						Logger()
					logger.Trace().Msg("resolved authenticated principal")
					c = identity.AttachPrincipalToContext(c, principal)
					c = logger.WithContext(c)
					next.ServeHTTP(w, r.WithContext(c))
					return
				}
				// degrade to anonymous, never hard-fail cart access
				logger.Trace().Err(err).Msg("bearer token rejected, degrading to anonymous")
			}

			if cookie, err := r.Cookie(identity.SessionCookie); err == nil {
				c = logger.WithContext(c)
				sessionId, err := identity.VerifyGuestToken(c, cookie.Value, cfg.SecretKey)
				if err == nil {
					principal := identity.Anonymous(sessionId)
					logger = logger.With().
						Str(constants.KEY_PRINCIPAL, principal.String()).
						Logger()
					logger.Trace().Msg("resolved anonymous principal")
					c = identity.AttachPrincipalToContext(c, principal)
					c = logger.WithContext(c)
					next.ServeHTTP(w, r.WithContext(c))
					return
				}
				logger.Trace().Err(err).Msg("session cookie rejected, minting new session")
			}

			c = logger.WithContext(c)
			token, sessionId, err := identity.MintGuestToken(c, cfg.SecretKey)
			if err != nil {
				otel.RecordError(err, span)
				logger.Error().Err(err).Msg(err.Error())
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     identity.SessionCookie,
				Value:    token,
				Path:     "/",
				MaxAge:   int(identity.SessionLifetime.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})

			principal := identity.Anonymous(sessionId)
			logger = logger.With().Str(constants.KEY_PRINCIPAL, principal.String()).Logger()
			logger.Trace().Msg("minted anonymous principal")
			c = identity.AttachPrincipalToContext(c, principal)
			c = logger.WithContext(c)
			next.ServeHTTP(w, r.WithContext(c))
		})
	}
}

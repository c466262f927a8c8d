package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Dan9191/task-service/internal/apperrors"
	"github.com/Dan9191/task-service/internal/auth"
	"github.com/Dan9191/task-service/internal/httpx"
)

// Authenticator resolves a bearer token to the caller's identity
type Authenticator interface {
	WhoAmI(ctx context.Context, token string) (*auth.Identity, error)
}

// AuthMiddleware rejects requests without a valid bearer token and stores
// the caller's identity in the request context.
func AuthMiddleware(authenticator Authenticator, log logrus.FieldLogger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				httpx.WriteError(w, r, log, apperrors.ErrUnauthorized)
				return
			}

			identity, err := authenticator.WhoAmI(r.Context(), token)
			if err != nil {
				httpx.WriteError(w, r, log, apperrors.ErrUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

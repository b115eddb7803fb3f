package middleware

import (
	"log/slog"
	"net/http"

	dErrors "backoffice/pkg/domain-errors"
	"backoffice/pkg/platform/httputil"
	"backoffice/pkg/requestcontext"
)

// TokenVerifier turns an Authorization header into a positive user id.
// identity.Service is the production implementation.
type TokenVerifier interface {
	VerifyAuthHeader(rawHeader string) (int64, error)
}

// RequireAuth is the authentication checkpoint. Any verification failure ends
// the request with a 401 envelope; on success the user id is injected into
// the request context for downstream checkpoints and handlers.
func RequireAuth(verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			userID, err := verifier.VerifyAuthHeader(r.Header.Get("Authorization"))
			if err != nil {
				logger.WarnContext(ctx, "unauthorized request",
					"request_id", requestcontext.RequestID(ctx),
					"path", r.URL.Path,
					"error", err,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid or missing token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithUserID(ctx, userID)))
		})
	}
}

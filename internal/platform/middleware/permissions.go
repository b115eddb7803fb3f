package middleware

import (
	"log/slog"
	"net/http"

	"backoffice/internal/authz"
	dErrors "backoffice/pkg/domain-errors"
	"backoffice/pkg/platform/httputil"
	"backoffice/pkg/requestcontext"
)

// RequirePermission is the permission checkpoint. It must run after
// RequireAuth: it reads the user id the authentication checkpoint injected
// and evaluates the route's requirement against it.
//
// A user that disappeared between token issuance and the check is treated as
// unauthenticated, not as missing a permission: the token no longer names a
// real principal.
func RequirePermission(checker authz.PermissionChecker, requirement authz.Requirement, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			userID := requestcontext.UserID(ctx)
			if userID <= 0 {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid or missing token"))
				return
			}

			if err := requirement.Check(ctx, checker, userID); err != nil {
				switch {
				case dErrors.HasCode(err, dErrors.CodeNotFound):
					httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid or missing token"))
				case dErrors.HasCode(err, dErrors.CodeForbidden):
					logger.WarnContext(ctx, "forbidden request",
						"request_id", requestcontext.RequestID(ctx),
						"user_id", userID,
						"requirement", requirement.String(),
					)
					httputil.WriteError(w, err)
				default:
					logger.ErrorContext(ctx, "permission check failed",
						"request_id", requestcontext.RequestID(ctx),
						"user_id", userID,
						"error", err,
					)
					httputil.WriteError(w, err)
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

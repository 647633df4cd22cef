package middleware

import (
	"context"
	"net/http"

	"multitoko-be/internal/auth"
	"multitoko-be/internal/logger"
	"multitoko-be/internal/utils"

	"go.uber.org/zap"
)

const InternalServiceHeader = "X-Service-Auth"

// AuthMiddleware attaches the caller identity from the access token. Requests
// without a token pass through anonymously; a present but invalid token is
// rejected. Requests carrying the internal service key are marked trusted.
func AuthMiddleware(secret []byte, internalKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if internalKey != "" && r.Header.Get(InternalServiceHeader) == internalKey {
				ctx = utils.WithInternalRequest(ctx)
			}

			claims, err := auth.IdentityFromRequest(r, secret)
			if err != nil {
				logger.FromCtx(ctx).Warn("rejected access token", zap.Error(err))
				utils.WriteJSONError(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}
			if claims == nil {
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			storeRoles := make(map[string]string, len(claims.StoreRoles))
			for storeID, role := range claims.StoreRoles {
				storeRoles[storeID] = string(role)
			}

			ctx = utils.SetUserContext(ctx, claims.UserID(), string(claims.Role), storeRoles)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// HasRole reports whether the caller in ctx holds at least min, using the
// per-store override for storeID when one exists.
func HasRole(ctx context.Context, storeID string, min auth.Role) bool {
	if utils.IsInternalRequest(ctx) {
		return true
	}
	if _, ok := utils.GetUserIDFromContext(ctx); !ok {
		return false
	}

	role := utils.GetUserRoleFromContext(ctx)
	if storeID != "" {
		if override, ok := utils.GetStoreRoleFromContext(ctx, storeID); ok {
			role = override
		}
	}
	return auth.Role(role).AtLeast(min)
}

// RequireRole guards a route. The storeID path value, when the route has
// one, selects the per-store role override.
func RequireRole(min auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if _, ok := utils.GetUserIDFromContext(ctx); !ok && !utils.IsInternalRequest(ctx) {
				utils.WriteJSONError(w, "authentication required", http.StatusUnauthorized)
				return
			}

			if !HasRole(ctx, r.PathValue("storeID"), min) {
				utils.WriteJSONError(w, "insufficient role", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

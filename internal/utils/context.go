package utils

import "context"

type ctxKey string

const (
	identityKey        ctxKey = "identity"
	internalRequestKey ctxKey = "internal_request"
)

// identity is the caller attached by the auth middleware. StoreRoles holds
// per-store overrides of Role.
type identity struct {
	UserID     string
	Role       string
	StoreRoles map[string]string
}

func SetUserContext(ctx context.Context, id string, role string, storeRoles map[string]string) context.Context {
	return context.WithValue(ctx, identityKey, identity{UserID: id, Role: role, StoreRoles: storeRoles})
}

func identityFrom(ctx context.Context) (identity, bool) {
	ident, ok := ctx.Value(identityKey).(identity)
	return ident, ok && ident.UserID != ""
}

func GetUserIDFromContext(ctx context.Context) (string, bool) {
	ident, ok := identityFrom(ctx)
	return ident.UserID, ok
}

func GetUserRoleFromContext(ctx context.Context) string {
	ident, _ := identityFrom(ctx)
	return ident.Role
}

// GetStoreRoleFromContext returns the per-store role override, if any.
func GetStoreRoleFromContext(ctx context.Context, storeID string) (string, bool) {
	ident, _ := identityFrom(ctx)
	role, ok := ident.StoreRoles[storeID]
	return role, ok
}

// WithInternalRequest marks ctx as coming from a trusted internal service.
func WithInternalRequest(ctx context.Context) context.Context {
	return context.WithValue(ctx, internalRequestKey, true)
}

func IsInternalRequest(ctx context.Context) bool {
	v, _ := ctx.Value(internalRequestKey).(bool)
	return v
}

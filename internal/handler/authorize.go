package handler

import (
	"net/http"

	"multitoko-be/internal/auth"
	"multitoko-be/internal/middleware"
	"multitoko-be/internal/utils"
)

// authorize is the in-handler counterpart of middleware.RequireRole for
// routes whose store is only known from the body or the loaded entity.
func authorize(w http.ResponseWriter, r *http.Request, storeID string, min auth.Role) bool {
	ctx := r.Context()
	if _, ok := utils.GetUserIDFromContext(ctx); !ok && !utils.IsInternalRequest(ctx) {
		utils.WriteJSON(w, errorBody{Error: "authentication required", Code: "UNAUTHORIZED"}, http.StatusUnauthorized)
		return false
	}
	if !middleware.HasRole(ctx, storeID, min) {
		writeForbidden(w)
		return false
	}
	return true
}

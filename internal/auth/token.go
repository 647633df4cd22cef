package auth

import (
	"net/http"
	"strings"
)

const (
	AccessTokenCookie = "access_token"
	bearerScheme      = "bearer"
)

// ExtractAccessToken returns the token from the access_token cookie or, when
// that is empty, from an "Authorization: Bearer" header. The scheme is
// matched case-insensitively.
func ExtractAccessToken(r *http.Request) string {
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !ok || !strings.EqualFold(scheme, bearerScheme) {
		return ""
	}
	return strings.TrimSpace(token)
}

// IdentityFromRequest parses the caller's claims. It returns nil claims and
// no error for anonymous requests.
func IdentityFromRequest(r *http.Request, secret []byte) (*Claims, error) {
	tokenStr := ExtractAccessToken(r)
	if tokenStr == "" {
		return nil, nil
	}
	return ParseToken(secret, tokenStr)
}

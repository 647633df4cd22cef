package handler

import (
	"net/http"
	"time"

	"multitoko-be/internal/logger"

	"github.com/google/uuid"
)

const (
	CartSessionHeader = "X-Cart-Session"
	CartSessionCookie = "cart_session"
)

// cartSession returns the shopper's cart session, issuing a new one when the
// request carries none or an unrecognised one. The id is echoed back in the
// header and the cookie.
func cartSession(w http.ResponseWriter, r *http.Request, ttl time.Duration) (*http.Request, string) {
	id := r.Header.Get(CartSessionHeader)
	if id == "" {
		if c, err := r.Cookie(CartSessionCookie); err == nil {
			id = c.Value
		}
	}

	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     CartSessionCookie,
			Value:    id,
			Path:     "/",
			MaxAge:   int(ttl.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	w.Header().Set(CartSessionHeader, id)

	return r.WithContext(logger.WithCartSession(r.Context(), id)), id
}

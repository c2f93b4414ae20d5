package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// SessionCookieName identifies the anonymous storefront session. It holds an
// opaque key, never the cart id itself; the session store maps one to the
// other. Multiple tabs share the cookie and therefore the same cart.
const SessionCookieName = "hype_session"

const sessionTTL = 30 * 24 * time.Hour

// Session ensures every request carries a session key, minting one and
// setting the cookie when absent.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := ""
		if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
			key = c.Value
		}
		if key == "" {
			key = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    key,
				Path:     "/",
				Expires:  time.Now().Add(sessionTTL),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), ctxSessionKey, key)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetSessionKey(ctx context.Context) string {
	if v := ctx.Value(ctxSessionKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// CartCookieName is the anonymous shopper fingerprint cookie.
const CartCookieName = "vitrina_cart"

const cartCookieMaxAge = int(365 * 24 * time.Hour / time.Second)

// CartToken ensures every storefront request carries a fingerprint. A missing
// or malformed cookie is replaced with a fresh token; it never fails the
// request.
func CartToken() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if cookie, err := r.Cookie(CartCookieName); err == nil {
				if parsed, err := uuid.Parse(cookie.Value); err == nil {
					token = parsed.String()
				}
			}
			if token == "" {
				token = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     CartCookieName,
					Value:    token,
					Path:     "/",
					MaxAge:   cartCookieMaxAge,
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), ctxCartToken, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

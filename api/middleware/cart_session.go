package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/spa-storefront/pkg/logger"
)

const (
	CartIDHeader   = "X-Cart-Id"
	CartCookieName = "spa_cart"

	cartCookieMaxAge = 60 * 60 * 24 * 365
)

var cartIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{8,64}$`)

// CartSession resolves the cart session id from the X-Cart-Id header or the
// spa_cart cookie. When neither carries a usable id a new one is minted and
// set as a cookie.
func CartSession(logg *logger.Logger, secureCookie bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cartID := cartIDFromRequest(r)
			if cartID == "" {
				cartID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     CartCookieName,
					Value:    cartID,
					Path:     "/",
					MaxAge:   cartCookieMaxAge,
					HttpOnly: true,
					Secure:   secureCookie,
					SameSite: http.SameSiteLaxMode,
				})
			}
			w.Header().Set(CartIDHeader, cartID)

			ctx := WithCartID(r.Context(), cartID)
			if logg != nil {
				ctx = logg.WithCartID(ctx, cartID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func cartIDFromRequest(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(CartIDHeader)); cartIDPattern.MatchString(id) {
		return id
	}
	if cookie, err := r.Cookie(CartCookieName); err == nil {
		if id := strings.TrimSpace(cookie.Value); cartIDPattern.MatchString(id) {
			return id
		}
	}
	return ""
}

package middleware

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"

	"github.com/angelmondragon/spa-storefront/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// Upstream ids are echoed only when they are short and printable.
var requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)

func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(requestIDHeader)
			if !requestIDPattern.MatchString(reqID) {
				reqID = uuid.NewString()
			}

			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

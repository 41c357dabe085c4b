package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/angelmondragon/spa-storefront/pkg/errors"
)

// ParsePathID reads a positive integer chi URL parameter.
func ParsePathID(r *http.Request, key string) (int, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "path parameter must be a positive integer").WithDetails(map[string]any{"field": key})
	}
	return value, nil
}

// QueryString returns a trimmed, length-capped query parameter.
func QueryString(r *http.Request, key string, maxLen int) string {
	return SanitizeString(r.URL.Query().Get(key), maxLen)
}

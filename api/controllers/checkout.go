package controllers

import (
	"net/http"

	"github.com/angelmondragon/spa-storefront/api/middleware"
	"github.com/angelmondragon/spa-storefront/api/responses"
	"github.com/angelmondragon/spa-storefront/api/validators"
	"github.com/angelmondragon/spa-storefront/internal/checkout"
	pkgerrors "github.com/angelmondragon/spa-storefront/pkg/errors"
	"github.com/angelmondragon/spa-storefront/pkg/logger"
)

type checkoutRequest struct {
	CustomerInfo checkout.CustomerInfo `json:"customer_info"`
}

type checkoutResponse struct {
	RedirectURL string `json:"redirect_url"`
	Total       string `json:"total"`
}

// Checkout hands the session's persisted cart to the payment provider and
// returns the URL the browser should be sent to.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		cartID := middleware.CartIDFromContext(r.Context())
		if cartID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart session missing"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.Initiate(r.Context(), cartID, payload.CustomerInfo)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, checkoutResponse{
			RedirectURL: session.RedirectURL,
			Total:       session.Total.StringFixed(2),
		})
	}
}

package cart

import (
	"net/http"

	"github.com/angelmondragon/spa-storefront/api/middleware"
	"github.com/angelmondragon/spa-storefront/api/responses"
	"github.com/angelmondragon/spa-storefront/api/validators"
	"github.com/angelmondragon/spa-storefront/internal/catalog"
	cartsvc "github.com/angelmondragon/spa-storefront/internal/cart"
	pkgerrors "github.com/angelmondragon/spa-storefront/pkg/errors"
	"github.com/angelmondragon/spa-storefront/pkg/logger"
)

// ProductLookup resolves the catalog entry snapshotted into the cart on add.
type ProductLookup interface {
	Get(id int) (catalog.Product, error)
}

// CartFetch returns the session's cart. A cart that cannot be read renders as
// empty; the store has already logged the failure.
func CartFetch(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, ok := mount(w, r, store, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, newCartDTO(view.Snapshot()))
	}
}

// CartCount serves the navigation badge.
func CartCount(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, ok := mount(w, r, store, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, countDTO{Count: view.Count()})
	}
}

// CartAddItem adds a catalog product to the cart, defaulting to one unit.
func CartAddItem(store *cartsvc.Store, products ProductLookup, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		qty := 1
		if payload.Quantity != nil {
			qty = *payload.Quantity
		}

		product, err := products.Get(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, ok := mount(w, r, store, logg)
		if !ok {
			return
		}
		if err := view.Add(r.Context(), toCartProduct(product), qty); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newCartDTO(view.Snapshot()))
	}
}

// CartSetQuantity overwrites a line item's quantity; zero or less removes it.
func CartSetQuantity(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload setQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, ok := mount(w, r, store, logg)
		if !ok {
			return
		}
		if err := view.SetQuantity(r.Context(), id, *payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartDTO(view.Snapshot()))
	}
}

func CartRemoveItem(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, ok := mount(w, r, store, logg)
		if !ok {
			return
		}
		if err := view.Remove(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartDTO(view.Snapshot()))
	}
}

func CartClear(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, ok := mount(w, r, store, logg)
		if !ok {
			return
		}
		if err := view.Clear(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartDTO(view.Snapshot()))
	}
}

func mount(w http.ResponseWriter, r *http.Request, store *cartsvc.Store, logg *logger.Logger) (*cartsvc.View, bool) {
	if store == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart store unavailable"))
		return nil, false
	}
	cartID := middleware.CartIDFromContext(r.Context())
	if cartID == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart session missing"))
		return nil, false
	}
	return cartsvc.Mount(r.Context(), store, cartID), true
}

func toCartProduct(p catalog.Product) cartsvc.Product {
	return cartsvc.Product{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price,
		Image: p.Image,
	}
}

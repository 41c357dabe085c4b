package controllers

import (
	"net/http"

	"github.com/angelmondragon/spa-storefront/api/responses"
	"github.com/angelmondragon/spa-storefront/api/validators"
	"github.com/angelmondragon/spa-storefront/internal/catalog"
	"github.com/angelmondragon/spa-storefront/pkg/logger"
)

// ProductCatalog is the read side of the catalog used by the product routes.
type ProductCatalog interface {
	List(category string) []catalog.Product
	Get(id int) (catalog.Product, error)
	Categories() []string
}

type productDTO struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Image       string `json:"image,omitempty"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
}

func newProductDTO(p catalog.Product) productDTO {
	return productDTO{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price.StringFixed(2),
		Image:       p.Image,
		Description: p.Description,
		Category:    p.Category,
	}
}

// ProductList returns the catalog, optionally filtered by ?category=.
func ProductList(products ProductCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := validators.QueryString(r, "category", 64)
		list := products.List(category)
		out := make([]productDTO, 0, len(list))
		for _, p := range list {
			out = append(out, newProductDTO(p))
		}
		responses.WriteSuccess(w, out)
	}
}

func ProductDetail(products ProductCatalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		p, err := products.Get(id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProductDTO(p))
	}
}

func ProductCategories(products ProductCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories := products.Categories()
		if categories == nil {
			categories = []string{}
		}
		responses.WriteSuccess(w, categories)
	}
}

package cart

import cartsvc "github.com/angelmondragon/spa-storefront/internal/cart"

type addItemRequest struct {
	ProductID int  `json:"product_id" validate:"required,min=1"`
	Quantity  *int `json:"quantity" validate:"omitempty,min=1,max=9999"`
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,max=9999"`
}

type lineItemDTO struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
	Image    string `json:"image,omitempty"`
	Subtotal string `json:"subtotal"`
}

type cartDTO struct {
	Items []lineItemDTO `json:"items"`
	Total string        `json:"total"`
	Count int           `json:"count"`
	Units int           `json:"units"`
}

type countDTO struct {
	Count int `json:"count"`
}

func newCartDTO(c cartsvc.Cart) cartDTO {
	items := make([]lineItemDTO, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, lineItemDTO{
			ID:       item.ID,
			Name:     item.Name,
			Price:    item.Price.StringFixed(2),
			Quantity: item.Quantity,
			Image:    item.Image,
			Subtotal: item.Subtotal().StringFixed(2),
		})
	}
	return cartDTO{
		Items: items,
		Total: c.Total().StringFixed(2),
		Count: c.Count(),
		Units: c.Units(),
	}
}

package cart

import (
	"github.com/shopspring/decimal"
)

// Contact is the customer data sent along with an order.
type Contact struct {
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// OrderPayload is the wire shape handed to the order submission sink.
type OrderPayload struct {
	Address       string           `json:"address"`
	Phone         string           `json:"phone"`
	TotalPrice    float64          `json:"totalPrice"`
	SubtotalPrice float64          `json:"subtotalPrice"`
	TotalNumber   int              `json:"totalNumber"`
	DeliveryFee   float64          `json:"deliveryFee"`
	Products      []ProductPayload `json:"products"`
}

type ProductPayload struct {
	LineID      string                  `json:"lineId"`
	ID          string                  `json:"id"`
	Amount      int                     `json:"amount"`
	Price       float64                 `json:"price"`
	PriceSingle float64                 `json:"priceSingle"`
	Name        string                  `json:"name"`
	Params      map[string]ParamPayload `json:"params"`
}

// ParamPayload maps selected option ids to their labels.
type ParamPayload struct {
	Label   string            `json:"label"`
	Options map[string]string `json:"options"`
}

// ToOrderPayload serializes the cart for submission. The delivery fee is
// reported as 0 for an empty cart.
func (c *Cart) ToOrderPayload(contact Contact) OrderPayload {
	totals := c.totals
	fee := decimal.Zero
	if totals.ItemCount > 0 {
		fee = totals.DeliveryFee
	}

	payload := OrderPayload{
		Address:       contact.Address,
		Phone:         contact.Phone,
		TotalPrice:    totals.Total.InexactFloat64(),
		SubtotalPrice: totals.Subtotal.InexactFloat64(),
		TotalNumber:   totals.ItemCount,
		DeliveryFee:   fee.InexactFloat64(),
		Products:      make([]ProductPayload, 0, len(c.lines)),
	}
	for _, l := range c.lines {
		view := l.view()
		params := make(map[string]ParamPayload, len(view.Params))
		for _, param := range view.Params {
			options := make(map[string]string, len(param.Options))
			for _, opt := range param.Options {
				options[opt.ID] = opt.Label
			}
			params[param.GroupID] = ParamPayload{Label: param.Label, Options: options}
		}
		payload.Products = append(payload.Products, ProductPayload{
			LineID:      view.ID,
			ID:          view.ProductID,
			Amount:      view.Quantity,
			Price:       view.LineTotal.InexactFloat64(),
			PriceSingle: view.BasePrice.InexactFloat64(),
			Name:        view.Name,
			Params:      params,
		})
	}
	return payload
}

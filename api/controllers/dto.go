package controllers

import (
	"github.com/angelmondragon/ordering-engine/internal/cart"
	"github.com/angelmondragon/ordering-engine/internal/catalog"
	"github.com/angelmondragon/ordering-engine/internal/configuration"
	"github.com/angelmondragon/ordering-engine/internal/ordering"
	"github.com/angelmondragon/ordering-engine/internal/session"
	"github.com/shopspring/decimal"
)

type optionResponse struct {
	ID      string  `json:"id"`
	Label   string  `json:"label"`
	Price   float64 `json:"price"`
	Default bool    `json:"default"`
}

type paramGroupResponse struct {
	ID       string           `json:"id"`
	Label    string           `json:"label"`
	Type     string           `json:"type,omitempty"`
	Required bool             `json:"required"`
	Options  []optionResponse `json:"options"`
}

type catalogItemResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	Images      []string             `json:"images,omitempty"`
	Price       float64              `json:"price"`
	Params      []paramGroupResponse `json:"params"`
}

func newCatalogItemResponse(item *catalog.Item) catalogItemResponse {
	resp := catalogItemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Images:      item.Images,
		Price:       item.BasePrice.InexactFloat64(),
		Params:      make([]paramGroupResponse, 0, len(item.Params)),
	}
	for _, group := range item.Params {
		g := paramGroupResponse{
			ID:       group.ID,
			Label:    group.Label,
			Type:     group.Type,
			Required: group.Required,
			Options:  make([]optionResponse, 0, len(group.Options)),
		}
		for _, opt := range group.Options {
			g.Options = append(g.Options, optionResponse{
				ID:      opt.ID,
				Label:   opt.Label,
				Price:   opt.Price.InexactFloat64(),
				Default: opt.Default,
			})
		}
		resp.Params = append(resp.Params, g)
	}
	return resp
}

type groupSelectionResponse struct {
	GroupID   string   `json:"groupId"`
	OptionIDs []string `json:"optionIds"`
}

type configurationResponse struct {
	ID         string                   `json:"id"`
	ProductID  string                   `json:"productId"`
	Name       string                   `json:"name"`
	State      string                   `json:"state"`
	Quantity   int                      `json:"quantity"`
	Min        int                      `json:"min"`
	Max        int                      `json:"max"`
	UnitPrice  float64                  `json:"unitPrice"`
	TotalPrice float64                  `json:"totalPrice"`
	Selections []groupSelectionResponse `json:"selections"`
}

func newConfigurationResponse(view session.ConfigurationView) configurationResponse {
	resp := configurationResponse{
		ID:         view.ID,
		ProductID:  view.ProductID,
		Name:       view.Name,
		State:      string(view.State),
		Quantity:   view.Quantity,
		Min:        view.Bounds.Min,
		Max:        view.Bounds.Max,
		UnitPrice:  view.UnitPrice.InexactFloat64(),
		TotalPrice: view.TotalPrice.InexactFloat64(),
		Selections: make([]groupSelectionResponse, 0, len(view.Selections)),
	}
	for _, sel := range view.Selections {
		resp.Selections = append(resp.Selections, groupSelectionResponse{GroupID: sel.GroupID, OptionIDs: sel.OptionIDs})
	}
	return resp
}

type optionLabelResponse struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type lineParamResponse struct {
	GroupID string                `json:"groupId"`
	Label   string                `json:"label"`
	Options []optionLabelResponse `json:"options"`
}

type cartLineResponse struct {
	LineID      string              `json:"lineId"`
	ProductID   string              `json:"productId"`
	Name        string              `json:"name"`
	Quantity    int                 `json:"quantity"`
	UnitPrice   float64             `json:"unitPrice"`
	PriceSingle float64             `json:"priceSingle"`
	LineTotal   float64             `json:"lineTotal"`
	Params      []lineParamResponse `json:"params"`
}

func newCartLineResponse(line cart.Line) cartLineResponse {
	resp := cartLineResponse{
		LineID:      line.ID,
		ProductID:   line.ProductID,
		Name:        line.Name,
		Quantity:    line.Quantity,
		UnitPrice:   line.UnitPrice.InexactFloat64(),
		PriceSingle: line.BasePrice.InexactFloat64(),
		LineTotal:   line.LineTotal.InexactFloat64(),
		Params:      make([]lineParamResponse, 0, len(line.Params)),
	}
	for _, param := range line.Params {
		resp.Params = append(resp.Params, newLineParamResponse(param))
	}
	return resp
}

func newLineParamResponse(param configuration.ParamSummary) lineParamResponse {
	out := lineParamResponse{
		GroupID: param.GroupID,
		Label:   param.Label,
		Options: make([]optionLabelResponse, 0, len(param.Options)),
	}
	for _, opt := range param.Options {
		out.Options = append(out.Options, optionLabelResponse{ID: opt.ID, Label: opt.Label})
	}
	return out
}

type totalsResponse struct {
	TotalNumber   int     `json:"totalNumber"`
	SubtotalPrice float64 `json:"subtotalPrice"`
	DeliveryFee   float64 `json:"deliveryFee"`
	TotalPrice    float64 `json:"totalPrice"`
}

func newTotalsResponse(totals cart.Totals) totalsResponse {
	fee := decimal.Zero
	if totals.ItemCount > 0 {
		fee = totals.DeliveryFee
	}
	return totalsResponse{
		TotalNumber:   totals.ItemCount,
		SubtotalPrice: totals.Subtotal.InexactFloat64(),
		DeliveryFee:   fee.InexactFloat64(),
		TotalPrice:    totals.Total.InexactFloat64(),
	}
}

type cartResponse struct {
	Lines  []cartLineResponse `json:"lines"`
	Totals totalsResponse     `json:"totals"`
}

func newCartResponse(view session.CartView) cartResponse {
	resp := cartResponse{
		Lines:  make([]cartLineResponse, 0, len(view.Lines)),
		Totals: newTotalsResponse(view.Totals),
	}
	for _, line := range view.Lines {
		resp.Lines = append(resp.Lines, newCartLineResponse(line))
	}
	return resp
}

type lineMutationResponse struct {
	Line    *cartLineResponse `json:"line,omitempty"`
	Totals  totalsResponse    `json:"totals"`
	Changed bool              `json:"changed"`
}

type orderResponse struct {
	Receipt ordering.Receipt  `json:"receipt"`
	Order   cart.OrderPayload `json:"order"`
}

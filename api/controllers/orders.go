package controllers

import (
	"net/http"

	"github.com/angelmondragon/ordering-engine/api/responses"
	"github.com/angelmondragon/ordering-engine/api/validators"
	"github.com/angelmondragon/ordering-engine/internal/cart"
	"github.com/angelmondragon/ordering-engine/internal/session"
	"github.com/angelmondragon/ordering-engine/pkg/logger"
)

const (
	maxAddressLen = 200
	maxPhoneLen   = 40
)

type submitOrderRequest struct {
	Address string `json:"address" validate:"required,max=200"`
	Phone   string `json:"phone" validate:"required,max=40,phone"`
}

// OrderSubmit sends the session cart as an order. The cart is left untouched
// whatever the outcome.
func OrderSubmit(logg *logger.Logger) http.HandlerFunc {
	return withSession(logg, func(w http.ResponseWriter, r *http.Request, s *session.Session) {
		var payload submitOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		contact := cart.Contact{
			Address: validators.SanitizeString(payload.Address, maxAddressLen),
			Phone:   validators.SanitizeString(payload.Phone, maxPhoneLen),
		}
		receipt, order, err := s.Submit(r.Context(), contact)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, orderResponse{Receipt: receipt, Order: order})
	})
}

package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/ordering-engine/api/responses"
	"github.com/angelmondragon/ordering-engine/api/validators"
	"github.com/angelmondragon/ordering-engine/internal/session"
	"github.com/angelmondragon/ordering-engine/pkg/logger"
)

// CartLineRemove drops a line. Removing an unknown line is a no-op that still
// answers with the current totals.
func CartLineRemove(logg *logger.Logger) http.HandlerFunc {
	return withSession(logg, func(w http.ResponseWriter, r *http.Request, s *session.Session) {
		removed, totals := s.RemoveLine(chi.URLParam(r, "lineId"))
		responses.WriteSuccess(w, lineMutationResponse{Totals: newTotalsResponse(totals), Changed: removed})
	})
}

// CartLineQuantity edits the quantity of a line already in the cart.
func CartLineQuantity(logg *logger.Logger) http.HandlerFunc {
	return withSession(logg, func(w http.ResponseWriter, r *http.Request, s *session.Session) {
		var payload quantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		line, totals, changed, err := s.UpdateLineQuantity(chi.URLParam(r, "lineId"), payload.raw())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lineResp := newCartLineResponse(line)
		responses.WriteSuccess(w, lineMutationResponse{Line: &lineResp, Totals: newTotalsResponse(totals), Changed: changed})
	})
}

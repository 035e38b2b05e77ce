package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/ordering-engine/api/responses"
	"github.com/angelmondragon/ordering-engine/api/validators"
	"github.com/angelmondragon/ordering-engine/internal/session"
	"github.com/angelmondragon/ordering-engine/pkg/logger"
)

type startConfigurationRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

type selectionRequest struct {
	GroupID  string `json:"groupId" validate:"required"`
	OptionID string `json:"optionId" validate:"required"`
	Selected *bool  `json:"selected" validate:"required"`
}

// quantityRequest accepts the value as a JSON number or as raw input text.
type quantityRequest struct {
	Value json.RawMessage `json:"value" validate:"required"`
}

func (q quantityRequest) raw() string {
	trimmed := bytes.TrimSpace(q.Value)
	var text string
	if err := json.Unmarshal(trimmed, &text); err == nil {
		return text
	}
	return string(trimmed)
}

type quantityResponse struct {
	Configuration configurationResponse `json:"configuration"`
	Changed       bool                  `json:"changed"`
}

type addToCartResponse struct {
	Line   cartLineResponse `json:"line"`
	Totals totalsResponse   `json:"totals"`
}

// ConfigurationStart opens a configuration of a catalog product.
func ConfigurationStart(logg *logger.Logger) http.HandlerFunc {
	return withSession(logg, func(w http.ResponseWriter, r *http.Request, s *session.Session) {
		var payload startConfigurationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := s.StartConfiguration(strings.TrimSpace(payload.ProductID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newConfigurationResponse(view))
	})
}

func ConfigurationFetch(logg *logger.Logger) http.HandlerFunc {
	return withSession(logg, func(w http.ResponseWriter, r *http.Request, s *session.Session) {
		view, err := s.Configuration(chi.URLParam(r, "configurationId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newConfigurationResponse(view))
	})
}

// ConfigurationDiscard drops an in-progress configuration.
func ConfigurationDiscard(logg *logger.Logger) http.HandlerFunc {
	return withSession(logg, func(w http.ResponseWriter, r *http.Request, s *session.Session) {
		s.DiscardConfiguration(chi.URLParam(r, "configurationId"))
		w.WriteHeader(http.StatusNoContent)
	})
}

// ConfigurationSelect toggles one option and returns the repriced configuration.
func ConfigurationSelect(logg *logger.Logger) http.HandlerFunc {
	return withSession(logg, func(w http.ResponseWriter, r *http.Request, s *session.Session) {
		var payload selectionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := s.SetSelection(chi.URLParam(r, "configurationId"), payload.GroupID, payload.OptionID, *payload.Selected)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newConfigurationResponse(view))
	})
}

// ConfigurationQuantity applies a quantity update. Rejected values answer 200
// with changed=false and the unchanged configuration.
func ConfigurationQuantity(logg *logger.Logger) http.HandlerFunc {
	return withSession(logg, func(w http.ResponseWriter, r *http.Request, s *session.Session) {
		var payload quantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, changed, err := s.SetQuantity(chi.URLParam(r, "configurationId"), payload.raw())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quantityResponse{Configuration: newConfigurationResponse(view), Changed: changed})
	})
}

// ConfigurationAddToCart finalizes the configuration into a new cart line.
func ConfigurationAddToCart(logg *logger.Logger) http.HandlerFunc {
	return withSession(logg, func(w http.ResponseWriter, r *http.Request, s *session.Session) {
		line, totals, err := s.AddToCart(chi.URLParam(r, "configurationId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, addToCartResponse{
			Line:   newCartLineResponse(line),
			Totals: newTotalsResponse(totals),
		})
	})
}

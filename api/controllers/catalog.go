package controllers

import (
	"net/http"

	"github.com/angelmondragon/ordering-engine/api/responses"
	"github.com/angelmondragon/ordering-engine/internal/catalog"
	pkgerrors "github.com/angelmondragon/ordering-engine/pkg/errors"
	"github.com/angelmondragon/ordering-engine/pkg/logger"
)

// CatalogList returns every product definition in catalog order.
func CatalogList(cat *catalog.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cat == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "catalog unavailable"))
			return
		}
		items := cat.Items()
		out := make([]catalogItemResponse, 0, len(items))
		for _, item := range items {
			out = append(out, newCatalogItemResponse(item))
		}
		responses.WriteSuccess(w, out)
	}
}

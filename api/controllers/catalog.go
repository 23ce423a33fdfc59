package controllers

import (
	"net/http"
	"strconv"

	"github.com/greenhaven/storefront-backend/api/responses"
	"github.com/greenhaven/storefront-backend/internal/catalog"
	pkgerrors "github.com/greenhaven/storefront-backend/pkg/errors"
	"github.com/greenhaven/storefront-backend/pkg/logger"
)

// CatalogList returns sellable product variants for the storefront grid.
func CatalogList(repo *catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil {
				limit = parsed
			}
		}

		variants, err := repo.ListAvailable(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, variants)
	}
}

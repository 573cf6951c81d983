package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/furiarock-backend/api/responses"
	"github.com/angelmondragon/furiarock-backend/internal/orders"
	pkgerrors "github.com/angelmondragon/furiarock-backend/pkg/errors"
	"github.com/angelmondragon/furiarock-backend/pkg/logger"
)

const maxReferenceLen = 64

// OrderByReference lets the storefront poll an order after the widget
// redirects back with the reference.
func OrderByReference(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		reference := strings.TrimSpace(chi.URLParam(r, "reference"))
		if reference == "" || len(reference) > maxReferenceLen {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid order reference"))
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithReference(ctx, reference)
		}
		detail, err := svc.GetByReference(ctx, reference)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

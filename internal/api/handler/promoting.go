package handler

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/traffic-manager-ads/internal/domain"
	"github.com/vfg2006/traffic-manager-ads/internal/usecases/promoting"
	"github.com/vfg2006/traffic-manager-ads/pkg/apiErrors"
	"github.com/vfg2006/traffic-manager-ads/pkg/log"
)

// ListLocalObjects lista os registros locais de um tipo, sem chamar a Meta
func ListLocalObjects(service promoting.PromotingService, kind domain.ObjectKind) http.Handler {
	return queryHandler(string(kind), func(ctx context.Context, scope domain.ObjectScope) ([]*domain.AdObject, error) {
		return service.ListLocal(ctx, kind, scope)
	})
}

// SyncBusiness reconcilia na hora os objetos remotos de um business
func SyncBusiness(service promoting.PromotingService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())
		businessID := httprouter.ParamsFromContext(r.Context()).ByName(businessIDParam)

		synced, err := service.SyncProject(r.Context(), businessID)
		if err != nil {
			logger.WithFields(log.Fields{
				"business_id": businessID,
				"error":       err.Error(),
			}).Error("sync: failed to sync business")

			apiErrors.Write(w, err, apiErrors.ErrExternalService)
			return
		}

		logger.WithFields(log.Fields{
			"business_id": businessID,
			"synced":      synced,
		}).Info("sync: business synced")

		writeJSON(w, r, http.StatusOK, domain.Ok(map[string]any{
			"business_id": businessID,
			"synced":      synced,
		}))
	})
}

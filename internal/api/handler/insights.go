package handler

import (
	"net/http"
	"time"

	"github.com/vfg2006/traffic-manager-ads/internal/domain"
	"github.com/vfg2006/traffic-manager-ads/internal/usecases/insighting"
	"github.com/vfg2006/traffic-manager-ads/pkg/apiErrors"
	"github.com/vfg2006/traffic-manager-ads/pkg/log"
	"github.com/vfg2006/traffic-manager-ads/pkg/utils"
)

// GetPromotionInsights agrega os insights das campanhas do escopo. Sem
// start_date e end_date o período é o total da campanha.
func GetPromotionInsights(service insighting.Insighter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())
		scope := scopeFromRequest(r)

		filters := &domain.InsightFilters{}
		for param, target := range map[string]**time.Time{
			"start_date": &filters.StartDate,
			"end_date":   &filters.EndDate,
		} {
			raw := r.URL.Query().Get(param)
			if raw == "" {
				continue
			}
			date, err := utils.ParseDate(raw)
			if err != nil {
				logger.WithFields(log.Fields{
					"business_id": scope.BusinessID,
					param:         raw,
					"error":       err.Error(),
				}).Warn("insights: invalid date parameter")

				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Data inválida, use o formato AAAA-MM-DD", param)
				return
			}
			*target = date
		}

		if (filters.StartDate == nil) != (filters.EndDate == nil) {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Informe start_date e end_date juntos", nil)
			return
		}

		insights, err := service.GetPromotionInsights(r.Context(), scope, filters)
		if err != nil {
			logger.WithFields(log.Fields{
				"business_id":  scope.BusinessID,
				"promotion_id": scope.PromotionID,
				"error":        err.Error(),
			}).Error("insights: failed to get promotion insights")

			apiErrors.Write(w, err, apiErrors.ErrInvalidRequest)
			return
		}

		logger.WithFields(log.Fields{
			"business_id":  scope.BusinessID,
			"campaigns":    len(insights.Campaigns),
			"failed_count": len(insights.Failed),
		}).Info("insights: promotion insights retrieved")

		writeJSON(w, r, http.StatusOK, domain.Ok(insights))
	})
}

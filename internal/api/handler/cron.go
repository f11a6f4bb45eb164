package handler

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-manager-ads/internal/domain"
	"github.com/vfg2006/traffic-manager-ads/pkg/apiErrors"
)

// ObjectSyncJob é a sincronização periódica de objetos exposta para execução manual
type ObjectSyncJob interface {
	TriggerManualSync(ctx context.Context) bool
	GetStatus() map[string]any
}

// RunObjectSync dispara a sincronização de todos os projetos em segundo plano
func RunObjectSync(job ObjectSyncJob) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("cron: manual object sync requested")

		if job == nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de sincronização não disponível", nil)
			return
		}

		if !job.TriggerManualSync(r.Context()) {
			apiErrors.WriteError(w, apiErrors.ErrCommunication, "Sincronização já está em execução", nil)
			return
		}

		writeJSON(w, r, http.StatusAccepted, domain.Ok(map[string]any{
			"message": "Sincronização iniciada com sucesso",
		}))
	})
}

// GetObjectSyncStatus retorna o estado da última sincronização
func GetObjectSyncStatus(job ObjectSyncJob) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if job == nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de sincronização não disponível", nil)
			return
		}

		writeJSON(w, r, http.StatusOK, domain.Ok(job.GetStatus()))
	})
}

package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/traffic-manager-ads/internal/domain"
	"github.com/vfg2006/traffic-manager-ads/pkg/apiErrors"
	"github.com/vfg2006/traffic-manager-ads/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const businessIDParam = "businessID"

type businessScoped interface {
	SetBusinessID(id string)
}

// scopeFromRequest monta o escopo a partir do parâmetro de rota e dos filtros
// location_id e promotion_id da query
func scopeFromRequest(r *http.Request) domain.ObjectScope {
	query := r.URL.Query()
	return domain.ObjectScope{
		BusinessID:  httprouter.ParamsFromContext(r.Context()).ByName(businessIDParam),
		LocationID:  query.Get("location_id"),
		PromotionID: query.Get("promotion_id"),
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.ForContext(r.Context()).WithError(err).Error("http: failed to encode response")
	}
}

// decodeBody lê o corpo JSON em req. Corpo vazio é aceito.
func decodeBody(r *http.Request, req any) error {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// commandHandler decodifica o corpo, fixa o business da rota e escreve o
// Result do comando sem alteração, sempre com 200
func commandHandler[R any, T any](area string, command func(context.Context, *R) domain.Result[T]) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())
		businessID := httprouter.ParamsFromContext(r.Context()).ByName(businessIDParam)

		req := new(R)
		if err := decodeBody(r, req); err != nil {
			logger.WithFields(log.Fields{
				"business_id": businessID,
				"error":       err.Error(),
			}).Warn(area + ": invalid request body")

			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Corpo da requisição inválido", err.Error())
			return
		}
		if scoped, ok := any(req).(businessScoped); ok {
			scoped.SetBusinessID(businessID)
		}

		result := command(r.Context(), req)
		if !result.Success {
			logger.WithFields(log.Fields{
				"business_id": businessID,
				"error":       result.Message,
			}).Warn(area + ": command failed")
		}

		writeJSON(w, r, http.StatusOK, result)
	})
}

// queryHandler executa uma leitura no escopo da requisição. Erros são escritos
// com o código do erro de caso de uso.
func queryHandler[T any](area string, query func(context.Context, domain.ObjectScope) (T, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scope := scopeFromRequest(r)

		data, err := query(r.Context(), scope)
		if err != nil {
			log.ForContext(r.Context()).WithFields(log.Fields{
				"business_id":  scope.BusinessID,
				"promotion_id": scope.PromotionID,
				"error":        err.Error(),
			}).Error(area + ": query failed")

			apiErrors.Write(w, err, apiErrors.ErrInternalServer)
			return
		}

		writeJSON(w, r, http.StatusOK, domain.Ok(data))
	})
}

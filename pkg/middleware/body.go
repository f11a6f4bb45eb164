package middleware

import (
	"mime"
	"net/http"

	"github.com/vfg2006/traffic-manager-ads/pkg/apiErrors"
)

const defaultMaxBodyBytes int64 = 1 << 20

// JSONBody restringe a rota a corpos JSON de até maxBytes. Corpo vazio é
// aceito: os handlers tratam a ausência de campos.
func JSONBody(maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = defaultMaxBodyBytes
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if contentType := r.Header.Get("Content-Type"); contentType != "" && r.ContentLength != 0 {
				mediaType, _, err := mime.ParseMediaType(contentType)
				if err != nil || mediaType != "application/json" {
					apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Content-Type deve ser application/json", contentType)
					return
				}
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

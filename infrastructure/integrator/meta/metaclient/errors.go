package metaclient

import (
	"errors"
	"fmt"
	"net/http"

	metadomain "github.com/vfg2006/traffic-manager-ads/infrastructure/integrator/meta/domain"
)

// APIError é o erro normalizado de uma chamada à Graph API
type APIError struct {
	StatusCode  int
	Code        int
	Subcode     int
	Type        string
	Message     string
	UserTitle   string
	UserMessage string
	TraceID     string
}

func (e *APIError) Error() string {
	if e.Code == 0 {
		return fmt.Sprintf("meta: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("meta: code %d (subcode %d): %s", e.Code, e.Subcode, e.Message)
}

func (e *APIError) details() metadomain.ErrorDetails {
	return metadomain.ErrorDetails{
		Message:      e.Message,
		Type:         e.Type,
		Code:         e.Code,
		ErrorSubcode: e.Subcode,
	}
}

// IsFatal indica parâmetro inválido, falta de permissão ou endpoint inexistente
func (e *APIError) IsFatal() bool {
	return e.details().IsFatal()
}

func (e *APIError) IsAccountRateLimited() bool {
	return e.details().IsAccountRateLimited()
}

func (e *APIError) IsTransient() bool {
	return e.details().IsTransient()
}

func (e *APIError) IsTokenExpired() bool {
	return e.details().IsTokenExpired()
}

// AsAPIError extrai o *APIError da cadeia de erros
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// parseAPIError normaliza o corpo de erro da Graph API. Envelopes aninhados
// ({"error":{"error":{...}}}) são desembrulhados até o mais interno.
func parseAPIError(statusCode int, body []byte) *APIError {
	details, ok := unwrapErrorEnvelope(body)
	if !ok {
		message := string(body)
		if len(message) > 512 {
			message = message[:512]
		}
		if message == "" {
			message = http.StatusText(statusCode)
		}
		return &APIError{StatusCode: statusCode, Message: message}
	}

	return &APIError{
		StatusCode:  statusCode,
		Code:        details.Code,
		Subcode:     details.ErrorSubcode,
		Type:        details.Type,
		Message:     details.Message,
		UserTitle:   details.UserTitle,
		UserMessage: details.UserMessage,
		TraceID:     details.FBTraceID,
	}
}

func unwrapErrorEnvelope(body []byte) (metadomain.ErrorDetails, bool) {
	var details metadomain.ErrorDetails

	var envelope map[string]any
	if err := json.Unmarshal(body, &envelope); err != nil {
		return details, false
	}

	inner, ok := envelope["error"].(map[string]any)
	if !ok {
		return details, false
	}
	for {
		next, ok := inner["error"].(map[string]any)
		if !ok {
			break
		}
		inner = next
	}

	raw, err := json.Marshal(inner)
	if err != nil {
		return details, false
	}
	if err := json.Unmarshal(raw, &details); err != nil {
		return details, false
	}

	return details, true
}

func hasErrorEnvelope(body []byte) bool {
	_, ok := unwrapErrorEnvelope(body)
	return ok
}

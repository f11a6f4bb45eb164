package promoting

import (
	"errors"
	"fmt"

	"github.com/vfg2006/traffic-manager-ads/infrastructure/integrator/meta/metaclient"
)

// Erros específicos dos fluxos de objetos de anúncio
var (
	// Erros de validação
	ErrBusinessIDRequired  = errors.New("business ID is required")
	ErrPromotionIDRequired = errors.New("promotion ID is required")
	ErrInvalidRequest      = errors.New("invalid request")
	ErrDeleteScopeRequired = errors.New("ids, location or promotion are required to delete")
	ErrArchiveNotSupported = errors.New("archive is only supported for campaigns")
	ErrProjectNotFound     = errors.New("project not found")
	ErrRemoteBusinessID    = errors.New("project has no remote business id")

	// Erros de serviços externos
	ErrValidationFailed = errors.New("remote validation failed")
	ErrCommitFailed     = errors.New("remote commit failed")
	ErrMetaIntegration  = errors.New("error fetching objects from Meta")
	ErrBatchFailed      = errors.New("batch request failed")
	ErrLabelBatchFailed = errors.New("label batch request failed")

	// Erros de banco de dados
	ErrDatabaseOperation = errors.New("database operation error")

	// Erros de criação parcial
	ErrNoCreativeVariant = errors.New("no creative variant could be built")
	ErrNoSplitTest       = errors.New("no split test could be created")
)

// WorkflowError é um erro com contexto adicional para os fluxos de objetos
type WorkflowError struct {
	Err        error  // Erro base
	Code       string // Código de erro para API
	BusinessID string // Business envolvido (quando aplicável)
	Details    string // Detalhes adicionais
}

// Error implementa a interface error
func (e *WorkflowError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *WorkflowError) Unwrap() error {
	return e.Err
}

func NewWorkflowError(err error, code string, details string) *WorkflowError {
	return &WorkflowError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}

func NewWorkflowErrorWithBusiness(err error, code string, businessID string, details string) *WorkflowError {
	return &WorkflowError{
		Err:        err,
		Code:       code,
		BusinessID: businessID,
		Details:    details,
	}
}

// remoteMessage extrai a mensagem mais útil de um erro da Graph API
func remoteMessage(err error) string {
	if apiErr, ok := metaclient.AsAPIError(err); ok {
		if apiErr.UserMessage != "" {
			return apiErr.UserMessage
		}
		return apiErr.Message
	}
	return err.Error()
}

// ErrorCode expõe o código para a camada HTTP
func (e *WorkflowError) ErrorCode() string {
	return e.Code
}

package insighting

import (
	"errors"
	"fmt"

	"github.com/vfg2006/traffic-manager-ads/pkg/apiErrors"
)

var (
	ErrInvalidPeriod     = errors.New("start date cannot be after end date")
	ErrProjectNotFound   = errors.New("project not found")
	ErrDatabaseOperation = errors.New("database operation error")
)

// InsightError é um erro de consulta de insights com o código da API
type InsightError struct {
	Err        error
	Code       string
	BusinessID string
}

func (e *InsightError) Error() string {
	if e.BusinessID != "" {
		return fmt.Sprintf("%s: business %s", e.Err.Error(), e.BusinessID)
	}
	return e.Err.Error()
}

func (e *InsightError) Unwrap() error {
	return e.Err
}

func (e *InsightError) ErrorCode() string {
	return e.Code
}

func newInsightError(err error, code, businessID string) *InsightError {
	return &InsightError{Err: err, Code: code, BusinessID: businessID}
}

var _ apiErrors.CodedError = (*InsightError)(nil)

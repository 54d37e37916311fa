// internal/common/errors/errors.go

// Package errors provides the structured error types shared by the query service,
// the HTTP API and the job workers.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeNotFound              ErrorCode = "NOT_FOUND"
	ErrCodeInsufficientData      ErrorCode = "INSUFFICIENT_DATA"
	ErrCodeMissingAdjustmentData ErrorCode = "MISSING_ADJUSTMENT_DATA"
	ErrCodeInvalidInput          ErrorCode = "INVALID_INPUT"

	ErrCodeDatasetInvalid     ErrorCode = "DATASET_INVALID"
	ErrCodeDatasetLoadFailed  ErrorCode = "DATASET_LOAD_FAILED"
	ErrCodeCacheFailed        ErrorCode = "CACHE_FAILED"
	ErrCodeSearchQueryFailed  ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeDatabaseQueryError ErrorCode = "DATABASE_QUERY_FAILED"
	ErrCodeExternalService    ErrorCode = "EXTERNAL_SERVICE_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key/value pair and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotFoundError reports an unknown occupation, country or city.
func NewNotFoundError(kind, key string) *StandardError {
	return newError(ErrCodeNotFound, fmt.Sprintf("%s not found", kind), fmt.Sprintf("%s: %s", kind, key), false).
		WithMetadata("kind", kind).
		WithMetadata("key", key)
}

// NewInsufficientDataError reports an empty comparator set.
func NewInsufficientDataError(details string) *StandardError {
	return newError(ErrCodeInsufficientData, "Not enough salary data to compare", details, false)
}

// NewMissingAdjustmentDataError describes an absent Big Mac price or COL multiplier.
// It is logged by callers that recovered with the unadjusted value; it is never returned
// from a query.
func NewMissingAdjustmentDataError(details string) *StandardError {
	return newError(ErrCodeMissingAdjustmentData, "Adjustment data unavailable", details, false)
}

func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Invalid input", details, false)
}

// NewDatasetInvalidError reports a dataset that failed schema or referential checks.
func NewDatasetInvalidError(details string) *StandardError {
	return newError(ErrCodeDatasetInvalid, "Dataset failed validation", details, false)
}

func NewDatasetLoadFailedError(source string, err error) *StandardError {
	e := newError(ErrCodeDatasetLoadFailed, "Dataset could not be loaded", fmt.Sprintf("source: %s, error: %v", source, err), true)
	e.cause = err
	return e
}

func NewCacheFailedError(op string, err error) *StandardError {
	e := newError(ErrCodeCacheFailed, "Cache operation failed", fmt.Sprintf("op: %s, error: %v", op, err), true)
	e.cause = err
	return e
}

func NewSearchQueryFailedError(err error) *StandardError {
	e := newError(ErrCodeSearchQueryFailed, "Search query failed", err.Error(), true)
	e.cause = err
	return e
}

func NewDatabaseQueryError(table string, err error) *StandardError {
	e := newError(ErrCodeDatabaseQueryError, "Database query failed", fmt.Sprintf("table: %s, error: %v", table, err), true)
	e.cause = err
	return e
}

// NewExternalServiceError reports a failed call to a broker or cluster.
func NewExternalServiceError(service string, err error) *StandardError {
	e := newError(ErrCodeExternalService, "External service unavailable", fmt.Sprintf("service: %s, error: %v", service, err), true).
		WithMetadata("service", service)
	e.cause = err
	return e
}

// NewInternalError wraps an unexpected error.
func NewInternalError(err error) *StandardError {
	e := newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
	e.cause = err
	return e
}

// ==========================
// 4. Inspection
// ==========================

// AsStandardError unwraps err into a *StandardError when one is in the chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// CodeOf returns the code of the first StandardError in the chain, or ErrCodeInternal.
func CodeOf(err error) ErrorCode {
	if stdErr, ok := AsStandardError(err); ok {
		return stdErr.Code
	}
	return ErrCodeInternal
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// HTTPStatus maps an error code onto a response status.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeInsufficientData:
		return http.StatusUnprocessableEntity
	case ErrCodeInvalidInput:
		return http.StatusBadRequest
	case ErrCodeDatasetLoadFailed, ErrCodeExternalService:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ==========================
// 5. Error Conversion to BPMN
// ==========================

// GetRetryCount returns the recommended retry count for a job failure.
// Query errors are deterministic and are never retried.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatasetLoadFailed, ErrCodeDatabaseQueryError, ErrCodeExternalService:
		return 3
	case ErrCodeCacheFailed, ErrCodeSearchQueryFailed:
		return 1
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// GetErrorCategory groups codes for logging.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case code == ErrCodeNotFound, code == ErrCodeInsufficientData, code == ErrCodeMissingAdjustmentData:
		return "DATA"
	case strings.Contains(codeStr, "DATASET"), strings.Contains(codeStr, "DATABASE"):
		return "DATASET"
	case strings.Contains(codeStr, "CACHE"):
		return "CACHE"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "EXTERNAL"):
		return "INTEGRATION"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}

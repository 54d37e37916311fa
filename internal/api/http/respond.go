// internal/api/http/respond.go
package http

import (
	"encoding/json"
	nethttp "net/http"
	"strconv"
	"strings"

	"fairpay/internal/common/errors"
	"fairpay/internal/common/logger"
)

type errorBody struct {
	Error errorPayload `json:"error"`
}

type errorPayload struct {
	Code    errors.ErrorCode `json:"code"`
	Message string           `json:"message"`
	Details string           `json:"details,omitempty"`
}

func writeJSON(w nethttp.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err onto a status and the error envelope. Internal errors keep their
// details out of the response.
func writeError(w nethttp.ResponseWriter, log logger.Logger, err error) {
	stdErr := errors.Normalize(err)
	status := errors.HTTPStatus(stdErr.Code)

	payload := errorPayload{Code: stdErr.Code, Message: stdErr.Message, Details: stdErr.Details}
	if status >= nethttp.StatusInternalServerError {
		log.Error("request failed", map[string]interface{}{
			"code":    string(stdErr.Code),
			"details": stdErr.Details,
		})
		if stdErr.Code == errors.ErrCodeInternal {
			payload.Details = ""
		}
	}
	writeJSON(w, status, errorBody{Error: payload})
}

// query wraps URL parameters with typed accessors that record the first parse error.
type query struct {
	r   *nethttp.Request
	err error
}

func (q *query) str(name string) string {
	return strings.TrimSpace(q.r.URL.Query().Get(name))
}

func (q *query) required(name string) string {
	v := q.str(name)
	if v == "" && q.err == nil {
		q.err = errors.NewInvalidInputError(name + " is required")
	}
	return v
}

func (q *query) float(name string) float64 {
	raw := q.required(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil && q.err == nil {
		q.err = errors.NewInvalidInputError(name + " must be a number")
	}
	return v
}

func (q *query) intOr(name string, def int) int {
	raw := q.str(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil && q.err == nil {
		q.err = errors.NewInvalidInputError(name + " must be an integer")
	}
	return v
}

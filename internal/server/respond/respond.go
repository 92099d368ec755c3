// Package respond writes JSON responses and maps service errors to HTTP
// status codes and the {code, error, message} error body.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Status maps an error kind to its HTTP status. Unknown errors are 500.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorConflict):
		return http.StatusConflict
	case errors.Is(err, common.ErrorUnprocessable):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // connection may already be gone
		json.NewEncoder(w).Encode(v)
	}
}

// Writer renders errors. In production the message of a 5xx response is the
// bare status text so store and signing details never reach clients.
type Writer struct {
	Production bool
}

// Body builds the error body for err.
func (wr Writer) Body(err error) ErrorResponse {
	status := Status(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError && wr.Production {
		msg = http.StatusText(status)
	}
	return ErrorResponse{Code: status, Error: http.StatusText(status), Message: msg}
}

// Error writes err as a JSON error body.
func (wr Writer) Error(w http.ResponseWriter, err error) {
	body := wr.Body(err)
	JSON(w, body.Code, body)
}

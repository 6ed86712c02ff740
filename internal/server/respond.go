package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/topicmap/pkg/errors"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps err's code to an HTTP status. Errors without a code are
// internal and their message is not exposed.
func writeError(w http.ResponseWriter, err error) {
	if tooLarge(err) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{errorDetail{
			Code:    errors.ErrCodeInvalidInput,
			Message: "request body too large",
		}})
		return
	}

	code := errors.GetCode(err)
	status := StatusFor(code)
	msg := errors.UserMessage(err)
	if code == "" {
		code = errors.ErrCodeInternal
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{errorDetail{Code: code, Message: msg}})
}

// StatusFor returns the HTTP status for an error code.
func StatusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidOptions,
		errors.ErrCodeInvalidConfig,
		errors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound, errors.ErrCodeNodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidHierarchy, errors.ErrCodeNotCollapsible:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func tooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return stderrors.As(err, &mbe)
}

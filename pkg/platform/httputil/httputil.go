// Package httputil translates domain results and errors into HTTP responses.
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "formdesk/pkg/domain-errors"
)

// WriteJSON writes data as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

type errorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteError maps a coded domain error to an HTTP status and a stable error
// body. Internal errors omit the description so storage details never leak
// to callers; everything else includes the human-readable message.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)

	body := errorBody{Error: string(code)}
	if code != dErrors.CodeInternal {
		body.ErrorDescription = dErrors.MessageOf(err)
	}
	if code == dErrors.CodeInternal {
		body.Error = "internal_error"
	}

	WriteJSON(w, statusFor(code), body)
}

func statusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeValidation, dErrors.CodeBadRequest:
		return http.StatusBadRequest
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Decode reads a JSON request body into T, returning a bad-request domain
// error when the body cannot be parsed.
func Decode[T any](r *http.Request) (T, error) {
	var v T
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		return v, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid request body")
	}
	return v, nil
}

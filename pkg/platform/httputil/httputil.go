// Package httputil centralizes JSON response envelopes and domain error
// translation so every service speaks the same wire dialect:
// {"status":"success","data":...} on success, {"status":"fail","message":...}
// for client errors and {"status":"error","message":...} for server errors.
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "github.com/PorePranav/CloudCart/pkg/domain-errors"
)

// Envelope is the common response shape.
type Envelope struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// ToHTTPStatus maps a domain error code to an HTTP status.
func ToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeBadRequest:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON writes v as a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteSuccess writes a success envelope around data.
func WriteSuccess(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, Envelope{Status: "success", Data: data})
}

// WriteError translates err into the fail/error envelope. Client errors
// (4xx) render as "fail", everything else as "error" with a generic message.
func WriteError(w http.ResponseWriter, err error) {
	status := ToHTTPStatus(dErrors.CodeOf(err))
	kind := "error"
	if status < http.StatusInternalServerError {
		kind = "fail"
	}
	WriteJSON(w, status, Envelope{Status: kind, Message: dErrors.MessageOf(err)})
}

// DecodeJSON decodes the request body into T, rejecting unknown fields.
func DecodeJSON[T any](r *http.Request) (*T, error) {
	var v T
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeBadRequest, "invalid request body", err)
	}
	return &v, nil
}

package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform shape for mutation endpoints.
// Reads return the resource directly (or an empty collection) instead.
type Envelope struct {
	OK      bool   `json:"ok"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Details any    `json:"details,omitempty"`
}

// JSON writes any payload with the given status.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			// best-effort error response; avoid writing partial JSON
			http.Error(w, `{"ok":false,"error":"encode_error"}`, http.StatusInternalServerError)
			return
		}
	} else {
		body = []byte("null")
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// OK writes a success envelope for a mutation.
func OK(w http.ResponseWriter, status int, data any) {
	JSON(w, status, Envelope{OK: true, Data: data})
}

// Fail writes a failure envelope. details carries field-level validation
// messages when present; msg stays generic for data-layer failures.
func Fail(w http.ResponseWriter, status int, msg string, details any) {
	JSON(w, status, Envelope{OK: false, Error: msg, Details: details})
}

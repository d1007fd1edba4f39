/*
Package resp provides unified JSON response helpers for the relay's HTTP surface.
*/
package resp

import (
	"encoding/json"
	"net/http"

	"github.com/x0x0b/chat-frontend/internal/pkg/errs"
	"github.com/x0x0b/chat-frontend/internal/pkg/logx"
)

// envelope is the common JSON response body shape.
type envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// RespondSuccess writes a 200 response with the given data payload.
func RespondSuccess(w http.ResponseWriter, r *http.Request, data any) {
	writeJSON(w, http.StatusOK, envelope{Code: 0, Data: data})
}

// RespondError writes the HTTP status and body derived from a CustomError.
func RespondError(w http.ResponseWriter, r *http.Request, customErr *errs.CustomError) {
	writeJSON(w, customErr.Status, envelope{
		Code:    customErr.Code,
		Message: customErr.Message,
	})
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logx.Error(err, "Failed to encode JSON response")
	}
}

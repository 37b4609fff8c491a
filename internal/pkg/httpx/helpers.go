package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MartinEBravo/duech-go/internal/pkg/serr"
)

// Envelope is the wire shape of every API response.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func ReadJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(out)
}

func WriteJSON(w http.ResponseWriter, status int, resp any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	return enc.Encode(resp)
}

// WriteData wraps payload in a success envelope.
func WriteData(w http.ResponseWriter, status int, data any) error {
	return WriteJSON(w, status, Envelope{Success: true, Data: data})
}

// WriteError emits an error envelope without going through HandleErr.
// Used by middleware that rejects requests before any handler runs.
func WriteError(w http.ResponseWriter, status int, code, msg string) {
	_ = WriteJSON(w, status, Envelope{
		Success: false,
		Error:   &ErrorBody{Code: code, Message: msg},
	})
}

// HandleErr is the single funnel for handler failures. ServiceErrors keep
// their status, code and message; everything else becomes an opaque 500.
func HandleErr(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("request error",
		"error", err,
		"method", r.Method,
		"url", r.URL.String(),
		"remote_addr", r.RemoteAddr,
	)

	var se *serr.ServiceError
	if errors.As(err, &se) {
		var fields map[string]string
		if len(se.Env) > 0 {
			fields = se.Env
		}
		_ = WriteJSON(w, se.StatusCode, Envelope{
			Success: false,
			Error:   &ErrorBody{Code: se.Code, Message: se.Msg, Fields: fields},
		})
		return
	}

	WriteError(w, http.StatusInternalServerError, serr.CodeInternal, "internal server error")
}

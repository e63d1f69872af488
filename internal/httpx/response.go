package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"
)

// MaxBodyBytes bounds request bodies
const MaxBodyBytes = 1 << 20

// ErrUnsupportedMediaType is returned by DecodeJSON for non-JSON bodies
var ErrUnsupportedMediaType = errors.New("content type must be application/json")

// DecodeJSON reads a single JSON object from r into dst. Unknown fields are
// rejected.
func DecodeJSON(r *http.Request, dst interface{}) error {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || mediaType != "application/json" {
			return ErrUnsupportedMediaType
		}
	}

	decoder := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON format: %w", err)
	}
	return nil
}

// WriteJSON writes v with the given status code
func WriteJSON(w http.ResponseWriter, statusCode int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(v)
}

// WriteError writes an error response in JSON format
func WriteError(w http.ResponseWriter, statusCode int, message, requestID string) {
	errorResponse := map[string]interface{}{
		"error":      message,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"request_id": requestID,
	}
	_ = WriteJSON(w, statusCode, errorResponse)
}

// WriteFieldError writes a validation failure naming the offending field
func WriteFieldError(w http.ResponseWriter, statusCode int, field, message, requestID string) {
	errorResponse := map[string]interface{}{
		"error":      message,
		"field":      field,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"request_id": requestID,
	}
	_ = WriteJSON(w, statusCode, errorResponse)
}

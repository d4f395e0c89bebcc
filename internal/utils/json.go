package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	errs "othello_ai/internal/errors"
)

// MaxRequestBody bounds what a handler will read from a client.
const MaxRequestBody = 64 << 10

// DecodeJSONRequest reads one JSON document into dst. Unknown fields and
// trailing data are rejected. Failures wrap ErrMalformedRequest.
func DecodeJSONRequest(w http.ResponseWriter, r *http.Request, dst any) error {
	defer r.Body.Close()
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxRequestBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON: %v: %w", err, errs.ErrMalformedRequest)
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid JSON: trailing data: %w", errs.ErrMalformedRequest)
	}
	return nil
}

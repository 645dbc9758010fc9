// Package handlers exposes the core through the HTTP request/response
// contract. Handlers decode, validate, call one service, and map the
// typed error through the response package; no business logic lives
// here.
package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

var validate = validator.New()

// decodeJSON decodes and validates a request body.
func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("request validation failed: %w", err)
	}
	return nil
}

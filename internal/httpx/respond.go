// Package httpx holds the JSON helpers shared by module handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/georgemunganga/marketplace-backend/internal/common"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Respond writes body as JSON with the given status.
func Respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// Error writes err as {"error": "..."} with the status matching its kind.
func Error(w http.ResponseWriter, err error) {
	Respond(w, StatusFor(err), map[string]string{"error": err.Error()})
}

// StatusFor maps the common error taxonomy onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrNoRole), errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrCrossVendorCart), errors.Is(err, common.ErrInsufficientStock),
		errors.Is(err, common.ErrIllegalTransition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, common.ErrDuplicateProduct), errors.Is(err, common.ErrAlreadyExists),
		errors.Is(err, common.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Decode reads a JSON request body into dst.
func Decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", common.ErrValidation, err)
	}
	return nil
}

// URLParamUUID parses the named chi route parameter as a UUID.
func URLParamUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s", common.ErrValidation, name)
	}
	return id, nil
}

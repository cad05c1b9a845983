// Package api implements the HTTP handlers of the task backend.
//
// Every business response travels in a uniform envelope carrying a
// semantic status and a human-readable message. Failed business
// operations still answer HTTP 200 with a non-2xx status inside the
// envelope; only schema violations (422) and missing or bad credentials
// (401) surface as HTTP errors.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/tasklane/tasklane-api/internal/api/shared"
)

// validate is the shared validator instance used for all request DTOs.
var validate = validator.New()

// DecodeValidated decodes the request body into dst and runs struct
// validation. On failure it writes the 422 response itself and returns
// false; handlers just return.
func DecodeValidated(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		shared.RespondValidationError(w, r, "Invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		shared.RespondValidationError(w, r, validationMessage(err))
		return false
	}
	return true
}

// validationMessage turns the first validator violation into a short
// field-level message. Internal validator errors degrade to a generic one.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Field '%s' is required", fe.Field())
	case "email":
		return fmt.Sprintf("Field '%s' must be a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("Field '%s' must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("Field '%s' must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("Field '%s' is invalid", fe.Field())
	}
}

// PathUUID extracts a UUID path parameter. The second return is false
// when the value is absent or malformed, in which case the 422 response
// has already been written.
func PathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		shared.RespondValidationError(w, r, fmt.Sprintf("Invalid %s: must be a valid UUID", name))
		return uuid.Nil, false
	}
	return id, true
}

// QueryInt reads an integer query parameter, returning def when the
// parameter is absent. A present but non-numeric value is a schema
// violation: the 422 response is written and the second return is false.
func QueryInt(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		shared.RespondValidationError(w, r, fmt.Sprintf("Invalid %s: must be an integer", name))
		return 0, false
	}
	return n, true
}

// MustUserID pulls the authenticated user ID from the request context.
// The auth middleware guarantees its presence on protected routes; a
// miss means a wiring bug, answered with 401 rather than a panic.
func MustUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		shared.RespondUnauthorized(w, r, "Could not validate credentials")
		return uuid.Nil, false
	}
	return userID, true
}

package shared

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Envelope is the uniform response wrapper. Status carries the semantic
// code of the outcome; for business failures it differs from the HTTP
// status, which stays 200. Embed it in every response payload.
type Envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// NewEnvelope builds an envelope with the given semantic code and message.
func NewEnvelope(status int, message string) Envelope {
	return Envelope{Status: status, Message: message}
}

// RespondJSON writes a JSON response with the given HTTP status code.
func RespondJSON(w http.ResponseWriter, r *http.Request, httpStatus int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response",
			"error", err,
			"path", r.URL.Path)
	}
}

// RespondEnvelope writes data under HTTP 200. The semantic outcome,
// success or business failure, lives in the embedded envelope.
func RespondEnvelope(w http.ResponseWriter, r *http.Request, data interface{}) {
	RespondJSON(w, r, http.StatusOK, data)
}

// RespondCreated writes data under HTTP 201 for newly created resources.
func RespondCreated(w http.ResponseWriter, r *http.Request, data interface{}) {
	RespondJSON(w, r, http.StatusCreated, data)
}

// RespondValidationError reports a schema-level failure: malformed
// body, missing or invalid fields. These are the only business-facing
// responses that surface a true non-200 HTTP status.
func RespondValidationError(w http.ResponseWriter, r *http.Request, message string) {
	RespondJSON(w, r, http.StatusUnprocessableEntity,
		NewEnvelope(http.StatusUnprocessableEntity, message))
}

// RespondUnauthorized reports an authentication failure from the
// middleware boundary as a true HTTP 401.
func RespondUnauthorized(w http.ResponseWriter, r *http.Request, message string) {
	RespondJSON(w, r, http.StatusUnauthorized,
		NewEnvelope(http.StatusUnauthorized, message))
}

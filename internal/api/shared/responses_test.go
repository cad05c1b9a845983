package shared

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondEnvelopeKeepsHTTPStatus200(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	// A business failure still travels under HTTP 200; the semantic
	// code lives inside the envelope.
	RespondEnvelope(rec, req, NewEnvelope(http.StatusNotFound, "No such thing"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, http.StatusNotFound, env.Status)
	assert.Equal(t, "No such thing", env.Message)
}

func TestRespondCreated(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()

	RespondCreated(rec, req, NewEnvelope(http.StatusCreated, "made it"))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRespondValidationError(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()

	RespondValidationError(rec, req, "Field 'email' is required")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, http.StatusUnprocessableEntity, env.Status)
}

func TestRespondUnauthorized(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	RespondUnauthorized(rec, req, "Could not validate credentials")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Could not validate credentials")
}

func TestEnvelopeEmbedsInPayloads(t *testing.T) {
	t.Parallel()

	payload := struct {
		Envelope
		AccessToken string `json:"access_token"`
	}{
		Envelope:    NewEnvelope(http.StatusOK, "ok"),
		AccessToken: "abc",
	}

	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	// Embedding flattens: status and message are top-level keys.
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, float64(http.StatusOK), decoded["status"])
	assert.Equal(t, "ok", decoded["message"])
	assert.Equal(t, "abc", decoded["access_token"])
}

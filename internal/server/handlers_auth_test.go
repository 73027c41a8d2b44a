package server

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/papergate/internal/auth"
	"github.com/bobmcallan/papergate/internal/models"
)

func TestHandleAuthToken_MasterKey(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodPost, "/auth/token",
		models.TokenRequest{MasterKey: "test-master-key"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp models.TokenResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.Token)

	expiresAt, err := time.Parse(time.RFC3339, resp.ExpiresAt)
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))
}

func TestHandleAuthToken_TemporalKey(t *testing.T) {
	srv := newTestServer(t, nil)

	tempKey := auth.NewTempKeyDeriver(srv.app.Config.Auth.TempKeySalt).Derive(time.Now())
	rec := doJSON(t, srv, http.MethodPost, "/auth/token",
		models.TokenRequest{MasterKey: tempKey}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestHandleAuthToken_WrongKey(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodPost, "/auth/token",
		models.TokenRequest{MasterKey: "wrong-key"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid key", errorMessage(t, rec))
}

func TestHandleAuthToken_StaleTemporalKey(t *testing.T) {
	srv := newTestServer(t, nil)

	stale := auth.NewTempKeyDeriver(srv.app.Config.Auth.TempKeySalt).Derive(time.Now().Add(-time.Hour))
	rec := doJSON(t, srv, http.MethodPost, "/auth/token",
		models.TokenRequest{MasterKey: stale}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid key", errorMessage(t, rec))
}

func TestHandleAuthToken_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodGet, "/auth/token", nil, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleAuthToken_InvalidJSON(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodPost, "/auth/token", "not-an-object", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

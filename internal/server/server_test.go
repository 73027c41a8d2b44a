package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/papergate/internal/app"
	"github.com/bobmcallan/papergate/internal/auth"
	"github.com/bobmcallan/papergate/internal/common"
	"github.com/bobmcallan/papergate/internal/interfaces"
	"github.com/bobmcallan/papergate/internal/models"
	"github.com/bobmcallan/papergate/internal/services/relay"
)

// stubCompletion is a scripted CompletionClient for handler tests.
type stubCompletion struct {
	reply       string
	err         error
	prompts     []string
	temperature float32
}

func (c *stubCompletion) Complete(ctx context.Context, prompt string, temperature float32) (string, error) {
	c.prompts = append(c.prompts, prompt)
	c.temperature = temperature
	if c.err != nil {
		return "", c.err
	}
	return c.reply, nil
}

// newTestServer builds a gateway server around the given completion client.
// Pass nil to exercise the unconfigured-backend path.
func newTestServer(t *testing.T, client interfaces.CompletionClient, mutate ...func(*common.Config)) *Server {
	t.Helper()

	cfg := common.NewDefaultConfig()
	cfg.Auth.MasterKey = "test-master-key"
	for _, m := range mutate {
		m(cfg)
	}

	logger := common.NewSilentLogger()
	a := &app.App{
		Config:      cfg,
		Logger:      logger,
		Auth:        auth.NewService(&cfg.Auth, logger),
		Completion:  client,
		Relay:       relay.NewService(client, &cfg.Relay, logger),
		StartupTime: time.Now(),
	}
	return NewServer(a)
}

// doJSON performs a request against the full middleware-wrapped handler.
func doJSON(t *testing.T, srv *Server, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

// issueToken obtains a bearer token through the issuance endpoint.
func issueToken(t *testing.T, srv *Server) string {
	t.Helper()

	rec := doJSON(t, srv, http.MethodPost, "/auth/token",
		models.TokenRequest{MasterKey: "test-master-key", ClientID: "test-client"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp models.TokenResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// signRequest fills the anti-replay fields with a fresh nonce and a valid
// signature over digest.
func signRequest(token string, signed *models.SignedRequest, digest string) {
	signed.Timestamp = time.Now().Unix()
	signed.Nonce = uuid.New().String()
	signed.Signature = auth.ComputeSignature(token, signed.Timestamp, signed.Nonce, digest)
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// errorMessage decodes the standard error envelope.
func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Error
}

package config

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderClient(t *testing.T, handler http.HandlerFunc) *RenderClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewRenderClient(&Config{Render: Render{APIKey: "key"}})
	client.BaseURL = server.URL
	return client
}

func TestRenderClient_AddOrUpdateSecret(t *testing.T) {
	client := newTestRenderClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/services/srv-1/secret-files/meta_access_token", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"content":"long-token"}`, string(body))

		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, client.AddOrUpdateSecret("srv-1", MetaAccessTokenName, "long-token"))
}

func TestRenderClient_AddOrUpdateSecret_Error(t *testing.T) {
	client := newTestRenderClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	})

	err := client.AddOrUpdateSecret("srv-1", MetaAccessTokenName, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func TestRenderClient_ListSecrets(t *testing.T) {
	client := newTestRenderClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/services/srv-1/secret-files", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("limit"))

		w.Write([]byte(`[
			{"secretFile":{"name":"meta_access_token","content":"stored"},"cursor":"a"},
			{"secretFile":{"name":"other","content":"x"},"cursor":"b"}
		]`))
	})

	secrets, err := client.ListSecrets("srv-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"meta_access_token": "stored", "other": "x"}, secrets)
}

type stubStorage struct {
	secrets map[string]string
	err     error
}

func (s stubStorage) ListSecrets(string) (map[string]string, error) { return s.secrets, s.err }
func (s stubStorage) AddOrUpdateSecret(string, string, string) error { return nil }

func TestApplyStoredToken(t *testing.T) {
	cfg := &Config{
		Meta:   Meta{AccessToken: "env-token"},
		Render: Render{APIKey: "key", ServiceID: "srv-1"},
	}

	ApplyStoredToken(cfg, stubStorage{err: errors.New("down")})
	assert.Equal(t, "env-token", cfg.Meta.AccessToken)

	ApplyStoredToken(cfg, stubStorage{secrets: map[string]string{MetaAccessTokenName: "stored"}})
	assert.Equal(t, "stored", cfg.Meta.AccessToken)
}

func TestApplyStoredToken_WithoutRender(t *testing.T) {
	cfg := &Config{Meta: Meta{AccessToken: "env-token"}}

	ApplyStoredToken(cfg, stubStorage{secrets: map[string]string{MetaAccessTokenName: "stored"}})
	assert.Equal(t, "env-token", cfg.Meta.AccessToken)
}

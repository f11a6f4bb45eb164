package metaclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/traffic-manager-ads/internal/config"
	"github.com/vfg2006/traffic-manager-ads/pkg/clock"
)

type secretCall struct {
	serviceID, name, content string
}

type fakeSecrets struct {
	calls []secretCall
	err   error
}

func (f *fakeSecrets) ListSecrets(string) (map[string]string, error) { return nil, nil }

func (f *fakeSecrets) AddOrUpdateSecret(serviceID, secretName, secretContent string) error {
	f.calls = append(f.calls, secretCall{serviceID, secretName, secretContent})
	return f.err
}

func newTestTokenManager(t *testing.T, handler http.HandlerFunc, secrets config.SecretStorage) (*TokenManager, *clock.Fake) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		Meta: config.Meta{
			URL:         server.URL + "/v22.0",
			AccessToken: "short-token",
			AppID:       "app",
			AppSecret:   "secret",
		},
		Render: config.Render{ServiceID: "srv-1"},
	}

	fake := clock.NewFake(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	tm := NewTokenManager(cfg, secrets)
	tm.clock = fake

	return tm, fake
}

func TestTokenManager_RefreshToken(t *testing.T) {
	secrets := &fakeSecrets{}
	tm, fake := newTestTokenManager(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v22.0/oauth/access_token", r.URL.Path)
		assert.Equal(t, "fb_exchange_token", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "short-token", r.URL.Query().Get("fb_exchange_token"))
		writeJSON(w, http.StatusOK, `{"access_token":"long-token","token_type":"bearer","expires_in":5184000}`)
	}, secrets)

	require.NoError(t, tm.RefreshToken(context.Background()))

	assert.Equal(t, "long-token", tm.AccessToken())
	// 60 dias menos 1 dia de margem
	assert.Equal(t, fake.Now().Add(59*24*time.Hour), tm.ExpiresAt())
	require.Len(t, secrets.calls, 1)
	assert.Equal(t, secretCall{"srv-1", "meta_access_token", "long-token"}, secrets.calls[0])
}

func TestTokenManager_RefreshToken_Expired(t *testing.T) {
	secrets := &fakeSecrets{}
	tm, _ := newTestTokenManager(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"error":{"message":"Error validating access token","type":"OAuthException","code":190}}`)
	}, secrets)

	err := tm.RefreshToken(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reautorizar")
	assert.Equal(t, "short-token", tm.AccessToken())
	assert.Empty(t, secrets.calls)
}

func TestTokenManager_PersistFailureKeepsNewToken(t *testing.T) {
	secrets := &fakeSecrets{err: errors.New("render down")}
	tm, _ := newTestTokenManager(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"access_token":"long-token","expires_in":3600}`)
	}, secrets)

	require.NoError(t, tm.RefreshToken(context.Background()))
	assert.Equal(t, "long-token", tm.AccessToken())
}

func TestTokenManager_ValidateExistingToken(t *testing.T) {
	expires := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	tm, _ := newTestTokenManager(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v22.0/debug_token", r.URL.Path)
		assert.Equal(t, "app|secret", r.URL.Query().Get("access_token"))
		writeJSON(w, http.StatusOK, `{"data":{"is_valid":true,"expires_at":`+
			strconv.FormatInt(expires.Unix(), 10)+`}}`)
	}, nil)

	require.NoError(t, tm.ValidateExistingToken(context.Background()))
	assert.True(t, tm.ExpiresAt().Equal(expires.Add(-24*time.Hour)))
}

func TestCalculateTokenExpiration(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, now.Add(24*time.Hour), CalculateTokenExpiration(now, 2*24*60*60))
	assert.Equal(t, now.Add(30*time.Minute), CalculateTokenExpiration(now, 3600))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1 dias, 2 horas e 3 minutos", FormatDuration(26*3600+3*60))
}
